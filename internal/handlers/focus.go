package handlers

import (
	"errors"
	"net/http"
	"strconv"

	apierrors "github.com/Bilal-Albezreh/sydekick-api/internal/errors"
	"github.com/Bilal-Albezreh/sydekick-api/internal/middleware"
	"github.com/Bilal-Albezreh/sydekick-api/internal/services"
	"github.com/Bilal-Albezreh/sydekick-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// FocusHandler coordinates focus timer HTTP handlers.
type FocusHandler struct {
	focusService *services.FocusService
}

// NewFocusHandler creates a new FocusHandler.
func NewFocusHandler(focusService *services.FocusService) *FocusHandler {
	return &FocusHandler{
		focusService: focusService,
	}
}

// Start opens a new focus session.
func (h *FocusHandler) Start(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type StartRequest struct {
		DurationMins int     `json:"duration_mins" binding:"required"`
		Objective    string  `json:"objective"`
		AssessmentID *uint64 `json:"assessment_id"`
		TaskID       *uint64 `json:"task_id"`
	}

	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.focusService.Start(userID, services.StartInput{
		DurationMins: req.DurationMins,
		Objective:    req.Objective,
		AssessmentID: req.AssessmentID,
		TaskID:       req.TaskID,
	})
	if err != nil {
		respondFocusError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "session": session})
}

// Complete closes an open session as finished.
func (h *FocusHandler) Complete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.focusService.Complete(userID, sessionID)
	if err != nil {
		respondFocusError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

// List returns a page of the caller's session history, newest first.
func (h *FocusHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	sessions, total, err := h.focusService.List(userID, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to list focus sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"sessions": sessions,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Stats returns the caller's focus totals and current daily streak.
func (h *FocusHandler) Stats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.focusService.GetStats(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute focus stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func respondFocusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFocusNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFocusInvalidDuration):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrFocusAlreadyClosed):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
