package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/Bilal-Albezreh/sydekick-api/internal/errors"
	"github.com/Bilal-Albezreh/sydekick-api/internal/middleware"
	"github.com/Bilal-Albezreh/sydekick-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CalendarHandler coordinates the merged calendar view.
type CalendarHandler struct {
	calendarService *services.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
	}
}

// Range returns day buckets for every dated item inside ?from=&to=,
// inclusive of the final day.
func (h *CalendarHandler) Range(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		apierrors.BadRequest(c, "Both from and to are required")
		return
	}

	days, err := h.calendarService.Range(userID, from, to)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRange) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to build calendar")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "days": days})
}
