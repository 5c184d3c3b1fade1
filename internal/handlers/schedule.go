package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/Bilal-Albezreh/sydekick-api/internal/dto"
	apierrors "github.com/Bilal-Albezreh/sydekick-api/internal/errors"
	"github.com/Bilal-Albezreh/sydekick-api/internal/middleware"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/Bilal-Albezreh/sydekick-api/internal/repository"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// timePattern matches 24h HH:MM slot boundaries.
var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ScheduleHandler coordinates weekly timetable HTTP handlers. The timetable
// is thin CRUD over recurring slots, so it talks to the repositories
// directly.
type ScheduleHandler struct {
	scheduleRepo repository.ScheduleRepository
	courseRepo   repository.CourseRepository
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleRepo repository.ScheduleRepository, courseRepo repository.CourseRepository) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleRepo: scheduleRepo,
		courseRepo:   courseRepo,
	}
}

// List returns the caller's timetable grouped by day, Monday first.
func (h *ScheduleHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	items, err := h.scheduleRepo.ListByUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list schedule")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "schedule": dto.ToWeeklySchedule(items)})
}

// Create adds a recurring slot to the timetable.
func (h *ScheduleHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateScheduleRequest struct {
		CourseID  uint64 `json:"course_id" binding:"required"`
		Day       string `json:"day" binding:"required"`
		StartTime string `json:"start_time" binding:"required"`
		EndTime   string `json:"end_time" binding:"required"`
		Location  string `json:"location"`
		Type      string `json:"type"`
	}

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	day := models.DayOfWeek(req.Day)
	if !models.ValidDayOfWeek(day) {
		apierrors.BadRequest(c, "Invalid day of week")
		return
	}
	if !timePattern.MatchString(req.StartTime) || !timePattern.MatchString(req.EndTime) {
		apierrors.BadRequest(c, "Times must be HH:MM")
		return
	}
	if req.EndTime <= req.StartTime {
		apierrors.BadRequest(c, "End time must be after start time")
		return
	}

	slotType := models.ScheduleItemType(req.Type)
	if req.Type == "" {
		slotType = models.ScheduleLecture
	}
	if !models.ValidScheduleItemType(slotType) {
		apierrors.BadRequest(c, "Invalid slot type")
		return
	}

	if _, err := h.courseRepo.FindByID(userID, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Course not found")
			return
		}
		apierrors.InternalError(c, "Failed to find course")
		return
	}

	item := &models.ScheduleItem{
		CourseID:  req.CourseID,
		UserID:    userID,
		Day:       day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
		Type:      slotType,
	}
	if err := h.scheduleRepo.Create(item); err != nil {
		apierrors.InternalError(c, "Failed to create schedule item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "item": item})
}

// Update edits a slot's day, times, location, or type.
func (h *ScheduleHandler) Update(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid schedule item ID")
		return
	}

	type UpdateScheduleRequest struct {
		Day       *string `json:"day"`
		StartTime *string `json:"start_time"`
		EndTime   *string `json:"end_time"`
		Location  *string `json:"location"`
		Type      *string `json:"type"`
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.scheduleRepo.FindByID(userID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Schedule item not found")
			return
		}
		apierrors.InternalError(c, "Failed to find schedule item")
		return
	}

	if req.Day != nil {
		day := models.DayOfWeek(*req.Day)
		if !models.ValidDayOfWeek(day) {
			apierrors.BadRequest(c, "Invalid day of week")
			return
		}
		item.Day = day
	}
	if req.StartTime != nil {
		if !timePattern.MatchString(*req.StartTime) {
			apierrors.BadRequest(c, "Times must be HH:MM")
			return
		}
		item.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		if !timePattern.MatchString(*req.EndTime) {
			apierrors.BadRequest(c, "Times must be HH:MM")
			return
		}
		item.EndTime = *req.EndTime
	}
	if item.EndTime <= item.StartTime {
		apierrors.BadRequest(c, "End time must be after start time")
		return
	}
	if req.Location != nil {
		item.Location = *req.Location
	}
	if req.Type != nil {
		slotType := models.ScheduleItemType(*req.Type)
		if !models.ValidScheduleItemType(slotType) {
			apierrors.BadRequest(c, "Invalid slot type")
			return
		}
		item.Type = slotType
	}

	if err := h.scheduleRepo.Update(item); err != nil {
		apierrors.InternalError(c, "Failed to update schedule item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "item": item})
}

// Delete removes a slot from the timetable.
func (h *ScheduleHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid schedule item ID")
		return
	}

	if _, err := h.scheduleRepo.FindByID(userID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Schedule item not found")
			return
		}
		apierrors.InternalError(c, "Failed to find schedule item")
		return
	}

	if err := h.scheduleRepo.Delete(userID, itemID); err != nil {
		apierrors.InternalError(c, "Failed to delete schedule item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Schedule item deleted successfully"})
}
