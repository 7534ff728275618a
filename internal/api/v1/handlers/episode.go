package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ian97531/boombox/internal/api/middleware"
	"github.com/ian97531/boombox/internal/api/v1/dto"
	"github.com/ian97531/boombox/internal/api/v1/services"
	"github.com/ian97531/boombox/internal/app/converter/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EpisodeHandler handles stored episode requests
type EpisodeHandler struct {
	service services.EpisodeService
}

// NewEpisodeHandler creates a new episode handler
func NewEpisodeHandler(service services.EpisodeService) *EpisodeHandler {
	return &EpisodeHandler{
		service: service,
	}
}

// List handles GET /api/v1/episodes
func (h *EpisodeHandler) List(c *gin.Context) {
	var query dto.ListEpisodesQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.ListEpisodes(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/v1/episodes/:key
func (h *EpisodeHandler) Get(c *gin.Context) {
	resp, err := h.service.GetEpisode(c.Request.Context(), c.Param("key"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Statements handles GET /api/v1/episodes/:key/statements. format=xlsx downloads a workbook.
func (h *EpisodeHandler) Statements(c *gin.Context) {
	var query dto.StatementsQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	key := c.Param("key")
	statements, err := h.service.GetStatements(c.Request.Context(), key, query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	if query.Format != "xlsx" {
		c.JSON(http.StatusOK, dto.NewStatementsResponse(statements))
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", key))
	c.Status(http.StatusOK)
	if err := export.WriteStatements(c.Writer, statements); err != nil {
		// headers are already sent
		_ = c.Error(err)
	}
}

// Process handles POST /api/v1/episodes
func (h *EpisodeHandler) Process(c *gin.Context) {
	var req dto.ProcessEpisodeRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.ProcessEpisode(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}
