package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rbmfprocessor/matching"
)

// MatchHandler обработчики сопоставления строк с реестром проектов
type MatchHandler struct {
	matcher *matching.Matcher
}

// NewMatchHandler создает новый обработчик сопоставления
func NewMatchHandler(matcher *matching.Matcher) *MatchHandler {
	return &MatchHandler{matcher: matcher}
}

// MatchRequest запрос на сопоставление одной строки
type MatchRequest struct {
	Query string `json:"query" binding:"required"`
	// IsFileName включает извлечение названия проекта из имени файла
	IsFileName bool `json:"is_file_name"`
}

// BatchMatchRequest запрос на сопоставление набора строк
type BatchMatchRequest struct {
	Queries    []string `json:"queries" binding:"required"`
	IsFileName bool     `json:"is_file_name"`
}

// BatchMatchResponse ответ пакетного сопоставления
type BatchMatchResponse struct {
	Total   int                    `json:"total"`
	Matched int                    `json:"matched"`
	Results []matching.MatchResult `json:"results"`
}

// HandleMatch обработчик сопоставления одной строки
// @Summary Сопоставить строку с проектом реестра
// @Description Разрешает название проекта или имя файла в project_id
// @Tags matching
// @Accept json
// @Produce json
// @Param request body MatchRequest true "Строка для сопоставления"
// @Success 200 {object} matching.MatchResult "Результат сопоставления"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Router /api/match [post]
func (h *MatchHandler) HandleMatch(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendJSONError(c, http.StatusBadRequest, "query is required")
		return
	}

	result := h.match(req.Query, req.IsFileName)
	SendJSONResponse(c, http.StatusOK, result)
}

// HandleBatchMatch обработчик пакетного сопоставления
// @Summary Сопоставить набор строк с проектами реестра
// @Tags matching
// @Accept json
// @Produce json
// @Param request body BatchMatchRequest true "Строки для сопоставления"
// @Success 200 {object} BatchMatchResponse "Результаты сопоставления"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Router /api/match/batch [post]
func (h *MatchHandler) HandleBatchMatch(c *gin.Context) {
	var req BatchMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendJSONError(c, http.StatusBadRequest, "queries is required")
		return
	}

	response := BatchMatchResponse{
		Total:   len(req.Queries),
		Results: make([]matching.MatchResult, 0, len(req.Queries)),
	}

	for _, query := range req.Queries {
		result := h.match(query, req.IsFileName)
		if result.Kind != matching.MatchNone {
			response.Matched++
		}
		response.Results = append(response.Results, result)
	}

	SendJSONResponse(c, http.StatusOK, response)
}

func (h *MatchHandler) match(query string, isFileName bool) matching.MatchResult {
	if isFileName {
		return h.matcher.MatchFileName(query)
	}
	return h.matcher.Match(query)
}
