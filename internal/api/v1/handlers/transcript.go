package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ian97531/boombox/internal/api/errors"
	"github.com/ian97531/boombox/internal/api/middleware"
	"github.com/ian97531/boombox/internal/api/v1/dto"
	"github.com/ian97531/boombox/internal/api/v1/services"
)

// TranscriptHandler handles stateless transcript requests
type TranscriptHandler struct {
	service services.TranscriptService
}

// NewTranscriptHandler creates a new transcript handler
func NewTranscriptHandler(service services.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{
		service: service,
	}
}

// Normalize handles POST /api/v1/normalize/:provider with the raw provider payload as body
func (h *TranscriptHandler) Normalize(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Failed to read request body"))
		return
	}
	if len(payload) == 0 {
		middleware.HandleError(c, errors.NewValidationError("Validation failed", map[string]string{"body": "is required"}))
		return
	}

	resp, err := h.service.Normalize(c.Request.Context(), c.Param("provider"), payload)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Merge handles POST /api/v1/transcripts/merge
func (h *TranscriptHandler) Merge(c *gin.Context) {
	var req dto.MergeRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.Merge(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stitch handles POST /api/v1/transcripts/stitch
func (h *TranscriptHandler) Stitch(c *gin.Context) {
	var req dto.StitchRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.Stitch(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Statements handles POST /api/v1/statements
func (h *TranscriptHandler) Statements(c *gin.Context) {
	var req dto.StatementsRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.Statements(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
