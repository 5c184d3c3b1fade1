package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	apierrors "github.com/Bilal-Albezreh/sydekick-api/internal/errors"
	"github.com/Bilal-Albezreh/sydekick-api/internal/grades"
	"github.com/Bilal-Albezreh/sydekick-api/internal/middleware"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/Bilal-Albezreh/sydekick-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AssessmentHandler coordinates assessment HTTP handlers.
type AssessmentHandler struct {
	assessmentService *services.AssessmentService
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(assessmentService *services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentService: assessmentService,
	}
}

// ListByCourse returns a course's assessments in display order.
func (h *AssessmentHandler) ListByCourse(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	courseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid course ID")
		return
	}

	assessments, err := h.assessmentService.ListByCourse(userID, courseID)
	if err != nil {
		respondAssessmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assessments": assessments})
}

// Create creates an assessment under a course. The response carries a soft
// warning flag when the course's weights now add past 100.
func (h *AssessmentHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	courseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid course ID")
		return
	}

	type CreateAssessmentRequest struct {
		Name       string     `json:"name" binding:"required"`
		Type       string     `json:"type"`
		Weight     float64    `json:"weight"`
		TotalMarks float64    `json:"total_marks"`
		DueDate    *time.Time `json:"due_date"`
		Score      *float64   `json:"score"`
	}

	var req CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.assessmentService.CreateAssessment(userID, courseID, services.CreateAssessmentInput{
		Name:       req.Name,
		Type:       models.AssessmentType(req.Type),
		Weight:     req.Weight,
		TotalMarks: req.TotalMarks,
		DueDate:    req.DueDate,
		Score:      req.Score,
	})
	if err != nil {
		respondAssessmentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":           true,
		"assessment":        result.Assessment,
		"weight_overbooked": result.WeightOverbooked,
	})
}

// Update applies an inline edit under the row's lock version.
func (h *AssessmentHandler) Update(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	assessmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid assessment ID")
		return
	}

	type UpdateAssessmentRequest struct {
		Name         *string    `json:"name"`
		Type         *string    `json:"type"`
		Weight       *float64   `json:"weight"`
		TotalMarks   *float64   `json:"total_marks"`
		DueDate      *time.Time `json:"due_date"`
		ClearDueDate bool       `json:"clear_due_date"`
		Score        *float64   `json:"score"`
		ClearScore   bool       `json:"clear_score"`
		Completed    *bool      `json:"completed"`
	}

	var req UpdateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateAssessmentInput{
		Name:         req.Name,
		Weight:       req.Weight,
		TotalMarks:   req.TotalMarks,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		Score:        req.Score,
		ClearScore:   req.ClearScore,
		Completed:    req.Completed,
	}
	if req.Type != nil {
		kind := models.AssessmentType(*req.Type)
		input.Type = &kind
	}

	assessment, err := h.assessmentService.UpdateAssessment(userID, assessmentID, input)
	if err != nil {
		respondAssessmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assessment": assessment})
}

// Toggle flips the completion flag.
func (h *AssessmentHandler) Toggle(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	assessmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid assessment ID")
		return
	}

	assessment, err := h.assessmentService.ToggleCompleted(userID, assessmentID)
	if err != nil {
		respondAssessmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assessment": assessment})
}

// Reschedule moves an assessment to another calendar day.
func (h *AssessmentHandler) Reschedule(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	assessmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid assessment ID")
		return
	}

	type RescheduleRequest struct {
		Date string `json:"date" binding:"required"`
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	assessment, err := h.assessmentService.Reschedule(userID, assessmentID, req.Date)
	if err != nil {
		respondAssessmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assessment": assessment})
}

// Delete removes an assessment.
func (h *AssessmentHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	assessmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid assessment ID")
		return
	}

	if err := h.assessmentService.DeleteAssessment(userID, assessmentID); err != nil {
		respondAssessmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Assessment deleted successfully"})
}

func respondAssessmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAssessmentNotFound),
		errors.Is(err, services.ErrCourseNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrStaleWrite):
		apierrors.StaleWrite(c)
	case errors.Is(err, services.ErrAssessmentNameRequired),
		errors.Is(err, services.ErrWeightOutOfRange),
		errors.Is(err, services.ErrInvalidDateKey),
		errors.Is(err, grades.ErrScoreOutOfRange):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
