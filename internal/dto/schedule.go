package dto

import (
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
)

// ScheduleDayDTO groups one weekday's recurring slots in display order.
type ScheduleDayDTO struct {
	Day   models.DayOfWeek      `json:"day"`
	Items []models.ScheduleItem `json:"items"`
}

// ToWeeklySchedule groups schedule items by weekday, Monday first. Days
// without slots are included empty so the week renders whole.
func ToWeeklySchedule(items []models.ScheduleItem) []ScheduleDayDTO {
	byDay := make(map[models.DayOfWeek][]models.ScheduleItem, len(models.DaysOfWeek))
	for _, item := range items {
		byDay[item.Day] = append(byDay[item.Day], item)
	}

	week := make([]ScheduleDayDTO, len(models.DaysOfWeek))
	for i, day := range models.DaysOfWeek {
		items := byDay[day]
		if items == nil {
			items = []models.ScheduleItem{}
		}
		week[i] = ScheduleDayDTO{Day: day, Items: items}
	}
	return week
}
