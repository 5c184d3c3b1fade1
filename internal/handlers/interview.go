package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	apierrors "github.com/Bilal-Albezreh/sydekick-api/internal/errors"
	"github.com/Bilal-Albezreh/sydekick-api/internal/middleware"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/Bilal-Albezreh/sydekick-api/internal/repository"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InterviewHandler coordinates career event HTTP handlers. Like the
// timetable, these are thin CRUD over one table.
type InterviewHandler struct {
	interviewRepo repository.InterviewRepository
}

// NewInterviewHandler creates a new InterviewHandler.
func NewInterviewHandler(interviewRepo repository.InterviewRepository) *InterviewHandler {
	return &InterviewHandler{
		interviewRepo: interviewRepo,
	}
}

// List returns the caller's interviews and online assessments, soonest
// first.
func (h *InterviewHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	interviews, err := h.interviewRepo.ListByUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list interviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "interviews": interviews})
}

// Create adds a career event.
func (h *InterviewHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateInterviewRequest struct {
		Company     string     `json:"company" binding:"required"`
		Role        string     `json:"role"`
		Type        string     `json:"type"`
		ScheduledAt *time.Time `json:"scheduled_at"`
	}

	var req CreateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	eventType := models.InterviewType(req.Type)
	if req.Type == "" {
		eventType = models.EventInterview
	}
	if !models.ValidInterviewType(eventType) {
		apierrors.BadRequest(c, "Invalid event type")
		return
	}

	interview := &models.Interview{
		UserID:      userID,
		Company:     req.Company,
		Role:        req.Role,
		Type:        eventType,
		ScheduledAt: req.ScheduledAt,
		Status:      models.InterviewScheduled,
	}
	if err := h.interviewRepo.Create(interview); err != nil {
		apierrors.InternalError(c, "Failed to create interview")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "interview": interview})
}

// Update edits a career event, including its status.
func (h *InterviewHandler) Update(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	interviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid interview ID")
		return
	}

	type UpdateInterviewRequest struct {
		Company     *string    `json:"company"`
		Role        *string    `json:"role"`
		Type        *string    `json:"type"`
		ScheduledAt *time.Time `json:"scheduled_at"`
		Status      *string    `json:"status"`
	}

	var req UpdateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	interview, err := h.interviewRepo.FindByID(userID, interviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Interview not found")
			return
		}
		apierrors.InternalError(c, "Failed to find interview")
		return
	}

	if req.Company != nil {
		interview.Company = *req.Company
	}
	if req.Role != nil {
		interview.Role = *req.Role
	}
	if req.Type != nil {
		eventType := models.InterviewType(*req.Type)
		if !models.ValidInterviewType(eventType) {
			apierrors.BadRequest(c, "Invalid event type")
			return
		}
		interview.Type = eventType
	}
	if req.ScheduledAt != nil {
		interview.ScheduledAt = req.ScheduledAt
	}
	if req.Status != nil {
		status := models.InterviewStatus(*req.Status)
		if !models.ValidInterviewStatus(status) {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		interview.Status = status
	}

	if err := h.interviewRepo.Update(interview); err != nil {
		apierrors.InternalError(c, "Failed to update interview")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "interview": interview})
}

// Delete removes a career event.
func (h *InterviewHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	interviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid interview ID")
		return
	}

	if _, err := h.interviewRepo.FindByID(userID, interviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Interview not found")
			return
		}
		apierrors.InternalError(c, "Failed to find interview")
		return
	}

	if err := h.interviewRepo.Delete(userID, interviewID); err != nil {
		apierrors.InternalError(c, "Failed to delete interview")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Interview deleted successfully"})
}
