package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/Bilal-Albezreh/sydekick-api/internal/errors"
	"github.com/Bilal-Albezreh/sydekick-api/internal/middleware"
	"github.com/Bilal-Albezreh/sydekick-api/internal/services"
	"github.com/gin-gonic/gin"
)

// SyllabusHandler coordinates the syllabus extraction endpoint.
type SyllabusHandler struct {
	syllabusService *services.SyllabusService
}

// NewSyllabusHandler creates a new SyllabusHandler.
func NewSyllabusHandler(syllabusService *services.SyllabusService) *SyllabusHandler {
	return &SyllabusHandler{
		syllabusService: syllabusService,
	}
}

// Parse extracts assessment candidates from pasted syllabus text. Nothing
// is persisted; the client confirms candidates through the regular create
// endpoint.
func (h *SyllabusHandler) Parse(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type ParseRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	candidates, err := h.syllabusService.ParseSyllabus(c.Request.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSyllabusNotConfigured):
			apierrors.ServiceUnavailable(c, err.Error())
		case errors.Is(err, services.ErrSyllabusEmpty):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrSyllabusNoResults):
			apierrors.NotFound(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to parse syllabus")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assessments": candidates})
}
