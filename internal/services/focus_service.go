package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/calendar"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/Bilal-Albezreh/sydekick-api/internal/repository"
	"github.com/Bilal-Albezreh/sydekick-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrFocusNotFound        = errors.New("focus session not found")
	ErrFocusInvalidDuration = errors.New("duration must be between 1 and 240 minutes")
	ErrFocusAlreadyClosed   = errors.New("focus session is already closed")
)

// staleGrace is how long past its planned duration an open session may
// linger before the janitor abandons it.
const staleGrace = time.Hour

// FocusService handles Pomodoro-style focus session logic.
type FocusService struct {
	focusRepo repository.FocusRepository
}

// NewFocusService creates a new FocusService.
func NewFocusService(focusRepo repository.FocusRepository) *FocusService {
	return &FocusService{focusRepo: focusRepo}
}

// StartInput holds the fields for a new timer run.
type StartInput struct {
	DurationMins int
	Objective    string
	AssessmentID *uint64
	TaskID       *uint64
}

// Start opens a new focus session.
func (s *FocusService) Start(userID uint64, input StartInput) (*models.FocusSession, error) {
	if input.DurationMins < 1 || input.DurationMins > 240 {
		return nil, ErrFocusInvalidDuration
	}

	session := &models.FocusSession{
		UserID:       userID,
		DurationMins: input.DurationMins,
		Objective:    strings.TrimSpace(input.Objective),
		AssessmentID: input.AssessmentID,
		TaskID:       input.TaskID,
		StartedAt:    time.Now(),
	}
	if err := s.focusRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to start focus session: %w", err)
	}
	return session, nil
}

// Complete closes an open session as finished.
func (s *FocusService) Complete(userID, sessionID uint64) (*models.FocusSession, error) {
	session, err := s.focusRepo.FindByID(userID, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFocusNotFound
		}
		return nil, fmt.Errorf("failed to find focus session: %w", err)
	}

	if session.Completed || session.Abandoned {
		return nil, ErrFocusAlreadyClosed
	}

	session.Completed = true
	if err := s.focusRepo.Update(session); err != nil {
		return nil, fmt.Errorf("failed to complete focus session: %w", err)
	}
	return session, nil
}

// List returns one page of an owner's sessions, newest first, together
// with the total count.
func (s *FocusService) List(userID uint64, params utils.PaginationParams) ([]models.FocusSession, int64, error) {
	return s.focusRepo.ListPageByUser(userID, params)
}

// Stats summarizes an owner's completed focus work.
type Stats struct {
	TotalSessions  int `json:"total_sessions"`
	CompletedToday int `json:"completed_today"`
	TotalFocusMins int `json:"total_focus_mins"`
	CurrentStreak  int `json:"current_streak"`
}

// GetStats aggregates session history into totals and the current daily
// streak. The streak counts consecutive calendar days with at least one
// completed session, ending today or yesterday.
func (s *FocusService) GetStats(userID uint64) (*Stats, error) {
	sessions, err := s.focusRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list focus sessions: %w", err)
	}
	return computeStats(sessions, time.Now()), nil
}

func computeStats(sessions []models.FocusSession, now time.Time) *Stats {
	stats := &Stats{}
	todayKey := calendar.DateKey(now)
	days := make(map[string]bool)

	for _, session := range sessions {
		stats.TotalSessions++
		if !session.Completed {
			continue
		}
		stats.TotalFocusMins += session.DurationMins
		key := calendar.DateKey(session.StartedAt)
		days[key] = true
		if key == todayKey {
			stats.CompletedToday++
		}
	}

	// Walk backwards day by day. A streak may still be alive if yesterday
	// was the last active day.
	cursor := now
	if !days[todayKey] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for days[calendar.DateKey(cursor)] {
		stats.CurrentStreak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return stats
}

// AbandonStale flags open sessions that ran long past their planned
// duration. Invoked from the cron janitor.
func (s *FocusService) AbandonStale() {
	sessions, err := s.focusRepo.ListOpen()
	if err != nil {
		log.Printf("focus janitor: failed to list open sessions: %v", err)
		return
	}

	now := time.Now()
	var stale []uint64
	for _, session := range sessions {
		deadline := session.StartedAt.
			Add(time.Duration(session.DurationMins) * time.Minute).
			Add(staleGrace)
		if now.After(deadline) {
			stale = append(stale, session.ID)
		}
	}

	if len(stale) == 0 {
		return
	}
	if err := s.focusRepo.MarkAbandoned(stale); err != nil {
		log.Printf("focus janitor: failed to abandon sessions: %v", err)
		return
	}
	log.Printf("focus janitor: abandoned %d stale session(s)", len(stale))
}
