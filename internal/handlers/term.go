package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	apierrors "github.com/Bilal-Albezreh/sydekick-api/internal/errors"
	"github.com/Bilal-Albezreh/sydekick-api/internal/middleware"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/Bilal-Albezreh/sydekick-api/internal/services"
	"github.com/gin-gonic/gin"
)

// TermHandler coordinates term HTTP handlers.
type TermHandler struct {
	courseService *services.CourseService
}

// NewTermHandler creates a new TermHandler.
func NewTermHandler(courseService *services.CourseService) *TermHandler {
	return &TermHandler{
		courseService: courseService,
	}
}

// List returns the caller's terms.
func (h *TermHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	terms, err := h.courseService.ListTerms(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list terms")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "terms": terms})
}

// Create creates a term explicitly.
func (h *TermHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTermRequest struct {
		Label     string     `json:"label" binding:"required"`
		Season    string     `json:"season"`
		StartDate *time.Time `json:"start_date"`
		EndDate   *time.Time `json:"end_date"`
	}

	var req CreateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	term, err := h.courseService.CreateTerm(userID, services.CreateTermInput{
		Label:     models.TermLabel(req.Label),
		Season:    req.Season,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTermLabel):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrTermExists):
			apierrors.Conflict(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to create term")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "term": term})
}

// Update edits a term's season and date range.
func (h *TermHandler) Update(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	termID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid term ID")
		return
	}

	type UpdateTermRequest struct {
		Season    *string    `json:"season"`
		StartDate *time.Time `json:"start_date"`
		EndDate   *time.Time `json:"end_date"`
	}

	var req UpdateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	term, err := h.courseService.UpdateTerm(userID, termID, services.UpdateTermInput{
		Season:    req.Season,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		respondTermError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "term": term})
}

// Delete removes a term and its courses.
func (h *TermHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	termID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid term ID")
		return
	}

	if err := h.courseService.DeleteTerm(userID, termID); err != nil {
		respondTermError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Term deleted successfully"})
}

// SetCurrent marks a term as the current one.
func (h *TermHandler) SetCurrent(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	termID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid term ID")
		return
	}

	if err := h.courseService.SetCurrentTerm(userID, termID); err != nil {
		respondTermError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Current term updated"})
}

// Summary returns the term's per-course aggregates and plain-mean average.
func (h *TermHandler) Summary(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	termID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid term ID")
		return
	}

	summary, err := h.courseService.GetTermSummary(userID, termID)
	if err != nil {
		respondTermError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

func respondTermError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTermNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidTermLabel):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
