package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
)

type ItemKind string

const (
	KindAssessment ItemKind = "assessment"
	KindInterview  ItemKind = "interview"
	KindPersonal   ItemKind = "personal"
)

// Career events always sort ahead of academic and personal items within a
// day, hence the sentinel weights.
const (
	WeightInterview = 999
	WeightOA        = 998
)

// Fallback colors for items without a linked course.
const (
	defaultAssessmentColor = "#6366f1"
	defaultInterviewColor  = "#f59e0b"
	defaultPersonalColor   = "#64748b"
)

// Item is the normalized shape every calendar source maps into.
type Item struct {
	ID        string   `json:"id"`
	Kind      ItemKind `json:"kind"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	Weight    float64  `json:"weight"`
	Completed bool     `json:"completed"`
	DateKey   string   `json:"date_key"`

	at time.Time
}

// FromAssessment maps an assessment onto the calendar. Undated assessments
// are excluded (ok == false).
func FromAssessment(a models.Assessment) (Item, bool) {
	if a.DueDate == nil {
		return Item{}, false
	}
	color := a.Course.Color
	if color == "" {
		color = defaultAssessmentColor
	}
	return Item{
		ID:        fmt.Sprintf("%s-%d", KindAssessment, a.ID),
		Kind:      KindAssessment,
		Name:      a.Name,
		Color:     color,
		Weight:    a.Weight,
		Completed: a.Completed,
		DateKey:   DateKey(*a.DueDate),
		at:        *a.DueDate,
	}, true
}

// FromInterview maps a career event onto the calendar.
func FromInterview(iv models.Interview) (Item, bool) {
	if iv.ScheduledAt == nil {
		return Item{}, false
	}
	weight := float64(WeightInterview)
	if iv.Type == models.EventOA {
		weight = WeightOA
	}
	name := iv.Company
	if iv.Role != "" {
		name = fmt.Sprintf("%s - %s", iv.Company, iv.Role)
	}
	return Item{
		ID:        fmt.Sprintf("%s-%d", KindInterview, iv.ID),
		Kind:      KindInterview,
		Name:      name,
		Color:     defaultInterviewColor,
		Weight:    weight,
		Completed: iv.Status == models.InterviewCompleted,
		DateKey:   DateKey(*iv.ScheduledAt),
		at:        *iv.ScheduledAt,
	}, true
}

// FromTask maps a personal task onto the calendar. Undated tasks are
// excluded.
func FromTask(t models.PersonalTask) (Item, bool) {
	if t.DueDate == nil {
		return Item{}, false
	}
	color := defaultPersonalColor
	if t.Course != nil && t.Course.Color != "" {
		color = t.Course.Color
	}
	return Item{
		ID:        fmt.Sprintf("%s-%d", KindPersonal, t.ID),
		Kind:      KindPersonal,
		Name:      t.Title,
		Color:     color,
		Weight:    0,
		Completed: t.Completed,
		DateKey:   DateKey(*t.DueDate),
		at:        *t.DueDate,
	}, true
}

// Bucket groups items by date key. Within a day, items sort descending by
// weight; ties keep input order.
func Bucket(items []Item) map[string][]Item {
	buckets := make(map[string][]Item)
	for _, item := range items {
		buckets[item.DateKey] = append(buckets[item.DateKey], item)
	}
	for key := range buckets {
		day := buckets[key]
		sort.SliceStable(day, func(i, j int) bool {
			return day[i].Weight > day[j].Weight
		})
	}
	return buckets
}
