package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rbmfprocessor/registry"
)

// RegistryHandler обработчики чтения реестра проектов
type RegistryHandler struct {
	index *registry.Index
}

// NewRegistryHandler создает новый обработчик реестра
func NewRegistryHandler(index *registry.Index) *RegistryHandler {
	return &RegistryHandler{index: index}
}

// RegistryResponse ответ со списком проектов реестра
type RegistryResponse struct {
	Total    int                      `json:"total"`
	Projects []registry.ProjectRecord `json:"projects"`
}

// HandleListProjects обработчик списка проектов
// @Summary Список проектов реестра
// @Description Возвращает все проекты в порядке их следования в реестре
// @Tags registry
// @Produce json
// @Success 200 {object} RegistryResponse "Проекты реестра"
// @Router /api/registry [get]
func (h *RegistryHandler) HandleListProjects(c *gin.Context) {
	projects := h.index.All()
	SendJSONResponse(c, http.StatusOK, RegistryResponse{
		Total:    len(projects),
		Projects: projects,
	})
}

// HandleGetProject обработчик одного проекта
// @Summary Проект реестра по идентификатору
// @Tags registry
// @Produce json
// @Param project_id path string true "Идентификатор проекта"
// @Success 200 {object} registry.ProjectRecord "Проект"
// @Failure 404 {object} ErrorResponse "Проект не найден"
// @Router /api/registry/{project_id} [get]
func (h *RegistryHandler) HandleGetProject(c *gin.Context) {
	projectID := c.Param("project_id")

	record, ok := h.index.Lookup(projectID)
	if !ok {
		SendJSONError(c, http.StatusNotFound, "project not found: "+projectID)
		return
	}

	SendJSONResponse(c, http.StatusOK, record)
}
