package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/calendar"
	"github.com/Bilal-Albezreh/sydekick-api/internal/repository"
)

// ErrInvalidRange is returned when the requested window is malformed.
var ErrInvalidRange = errors.New("invalid calendar range")

// CalendarService merges assessments, career events, and personal tasks
// into per-day buckets.
type CalendarService struct {
	assessmentRepo repository.AssessmentRepository
	interviewRepo  repository.InterviewRepository
	taskRepo       repository.TaskRepository
}

// NewCalendarService creates a new CalendarService.
func NewCalendarService(
	assessmentRepo repository.AssessmentRepository,
	interviewRepo repository.InterviewRepository,
	taskRepo repository.TaskRepository,
) *CalendarService {
	return &CalendarService{
		assessmentRepo: assessmentRepo,
		interviewRepo:  interviewRepo,
		taskRepo:       taskRepo,
	}
}

// Range computes day buckets for every dated item of the owner inside
// [from, to). Undated items never appear; dated items appear exactly once,
// under the bucket of their normalized date key.
func (s *CalendarService) Range(userID uint64, fromKey, toKey string) (map[string][]calendar.Item, error) {
	from, ok := calendar.ParseDateKey(fromKey)
	if !ok {
		return nil, ErrInvalidRange
	}
	toDay, ok := calendar.ParseDateKey(toKey)
	if !ok {
		return nil, ErrInvalidRange
	}
	// The window is inclusive of the final day.
	to := toDay.Add(24 * time.Hour)
	if !to.After(from) {
		return nil, ErrInvalidRange
	}

	var items []calendar.Item

	assessments, err := s.assessmentRepo.ListDueBetween(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	for _, a := range assessments {
		if item, ok := calendar.FromAssessment(a); ok {
			items = append(items, item)
		}
	}

	interviews, err := s.interviewRepo.ListScheduledBetween(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	for _, iv := range interviews {
		if item, ok := calendar.FromInterview(iv); ok {
			items = append(items, item)
		}
	}

	tasks, err := s.taskRepo.ListDueBetween(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	for _, t := range tasks {
		if item, ok := calendar.FromTask(t); ok {
			items = append(items, item)
		}
	}

	return calendar.Bucket(items), nil
}
