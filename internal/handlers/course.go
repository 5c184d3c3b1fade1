package handlers

import (
	"errors"
	"net/http"
	"strconv"

	apierrors "github.com/Bilal-Albezreh/sydekick-api/internal/errors"
	"github.com/Bilal-Albezreh/sydekick-api/internal/grades"
	"github.com/Bilal-Albezreh/sydekick-api/internal/middleware"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/Bilal-Albezreh/sydekick-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CourseHandler coordinates course and hypothetical-mode HTTP handlers.
type CourseHandler struct {
	courseService *services.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *services.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
	}
}

// List returns the caller's courses, optionally filtered to one term.
func (h *CourseHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var termID *uint64
	if raw := c.Query("term_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid term ID")
			return
		}
		termID = &id
	}

	courses, err := h.courseService.ListCourses(userID, termID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list courses")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "courses": courses})
}

// Create creates a course, lazily creating its term when needed.
func (h *CourseHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateCourseRequest struct {
		Code         string  `json:"code" binding:"required"`
		Name         string  `json:"name" binding:"required"`
		Color        string  `json:"color"`
		CreditWeight float64 `json:"credit_weight"`
		TermLabel    string  `json:"term_label" binding:"required"`
	}

	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	course, err := h.courseService.CreateCourse(userID, services.CreateCourseInput{
		Code:         req.Code,
		Name:         req.Name,
		Color:        req.Color,
		CreditWeight: req.CreditWeight,
		TermLabel:    models.TermLabel(req.TermLabel),
	})
	if err != nil {
		respondCourseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "course": course})
}

// Get returns one course with its term.
func (h *CourseHandler) Get(c *gin.Context) {
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

	course, err := h.courseService.GetCourse(userID, courseID)
	if err != nil {
		respondCourseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "course": course})
}

// Update edits a course's settings.
func (h *CourseHandler) Update(c *gin.Context) {
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

	type UpdateCourseRequest struct {
		Code         *string  `json:"code"`
		Name         *string  `json:"name"`
		Color        *string  `json:"color"`
		CreditWeight *float64 `json:"credit_weight"`
	}

	var req UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	course, err := h.courseService.UpdateCourse(userID, courseID, services.UpdateCourseInput{
		Code:         req.Code,
		Name:         req.Name,
		Color:        req.Color,
		CreditWeight: req.CreditWeight,
	})
	if err != nil {
		respondCourseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "course": course})
}

// Delete removes a course with its assessments and schedule items.
func (h *CourseHandler) Delete(c *gin.Context) {
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

	if err := h.courseService.DeleteCourse(userID, courseID); err != nil {
		respondCourseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Course deleted successfully"})
}

// Summary returns the course's weighted aggregate and sorted assessments.
func (h *CourseHandler) Summary(c *gin.Context) {
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

	summary, err := h.courseService.GetCourseSummary(userID, courseID)
	if err != nil {
		respondCourseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

// EnableHypothetical opens a what-if session for a course.
func (h *CourseHandler) EnableHypothetical(c *gin.Context) {
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

	summary, err := h.courseService.EnableHypothetical(userID, courseID)
	if err != nil {
		respondCourseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

// SetHypotheticalScore edits a score inside the what-if session only.
func (h *CourseHandler) SetHypotheticalScore(c *gin.Context) {
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
	assessmentID, err := strconv.ParseUint(c.Param("assessmentID"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid assessment ID")
		return
	}

	type HypotheticalScoreRequest struct {
		Score *float64 `json:"score"`
	}

	var req HypotheticalScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.Score != nil && !grades.ValidScore(*req.Score) {
		apierrors.BadRequest(c, grades.ErrScoreOutOfRange.Error())
		return
	}

	summary, err := h.courseService.SetHypotheticalScore(userID, courseID, assessmentID, req.Score)
	if err != nil {
		switch {
		case errors.Is(err, grades.ErrSandboxInactive):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, grades.ErrSandboxUnknownItem):
			apierrors.NotFound(c, err.Error())
		default:
			respondCourseError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

// DisableHypothetical discards the what-if session.
func (h *CourseHandler) DisableHypothetical(c *gin.Context) {
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

	h.courseService.DisableHypothetical(userID, courseID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Hypothetical mode disabled"})
}

func respondCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCourseNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCourseCodeRequired),
		errors.Is(err, services.ErrCourseNameRequired),
		errors.Is(err, services.ErrInvalidTermLabel):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
