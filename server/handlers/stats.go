package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rbmfprocessor/database"
)

// StatsHandler обработчики статистики сопоставления
type StatsHandler struct {
	db *database.MappingDB
}

// NewStatsHandler создает новый обработчик статистики
func NewStatsHandler(db *database.MappingDB) *StatsHandler {
	return &StatsHandler{db: db}
}

// HandleRunStats обработчик сводки одного прогона
// @Summary Статистика прогона сопоставления
// @Tags stats
// @Produce json
// @Param run_id path string true "Идентификатор прогона"
// @Success 200 {object} database.RunStatistics "Сводка прогона"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/stats/runs/{run_id} [get]
func (h *StatsHandler) HandleRunStats(c *gin.Context) {
	runID := c.Param("run_id")

	stats, err := h.db.StatisticsForRun(runID)
	if err != nil {
		SendJSONError(c, http.StatusInternalServerError, "failed to load run statistics")
		return
	}

	SendJSONResponse(c, http.StatusOK, stats)
}

// HandleFolderMappings обработчик истории сопоставлений папки
// @Summary Сопоставления файлов папки за все прогоны
// @Tags stats
// @Produce json
// @Param folder path string true "Имя папки"
// @Success 200 {array} database.FileMapping "Сопоставления"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/stats/folders/{folder} [get]
func (h *StatsHandler) HandleFolderMappings(c *gin.Context) {
	folder := c.Param("folder")

	mappings, err := h.db.MappingsForFolder(folder)
	if err != nil {
		SendJSONError(c, http.StatusInternalServerError, "failed to load folder mappings")
		return
	}

	SendJSONResponse(c, http.StatusOK, mappings)
}
