package services

import (
	"testing"
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/stretchr/testify/require"
)

func focusSession(startedAt time.Time, mins int, completed bool) models.FocusSession {
	return models.FocusSession{
		DurationMins: mins,
		Completed:    completed,
		StartedAt:    startedAt,
	}
}

func TestComputeStats_Totals(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)

	sessions := []models.FocusSession{
		focusSession(now.Add(-2*time.Hour), 25, true),
		focusSession(now.Add(-4*time.Hour), 50, true),
		focusSession(now.Add(-6*time.Hour), 25, false), // abandoned, not counted
	}

	stats := computeStats(sessions, now)

	require.Equal(t, 3, stats.TotalSessions)
	require.Equal(t, 2, stats.CompletedToday)
	require.Equal(t, 75, stats.TotalFocusMins)
	require.Equal(t, 1, stats.CurrentStreak)
}

func TestComputeStats_StreakAcrossDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)

	sessions := []models.FocusSession{
		focusSession(now, 25, true),
		focusSession(now.AddDate(0, 0, -1), 25, true),
		focusSession(now.AddDate(0, 0, -2), 25, true),
		// Gap on day -3 breaks the streak.
		focusSession(now.AddDate(0, 0, -4), 25, true),
	}

	stats := computeStats(sessions, now)

	require.Equal(t, 3, stats.CurrentStreak)
}

func TestComputeStats_StreakSurvivesUntilYesterday(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

	// Nothing today yet; yesterday and the day before keep the streak at 2.
	sessions := []models.FocusSession{
		focusSession(now.AddDate(0, 0, -1), 25, true),
		focusSession(now.AddDate(0, 0, -2), 25, true),
	}

	stats := computeStats(sessions, now)

	require.Equal(t, 0, stats.CompletedToday)
	require.Equal(t, 2, stats.CurrentStreak)
}

func TestComputeStats_BrokenStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

	sessions := []models.FocusSession{
		focusSession(now.AddDate(0, 0, -2), 25, true),
	}

	stats := computeStats(sessions, now)

	require.Equal(t, 0, stats.CurrentStreak)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := computeStats(nil, time.Now())

	require.Zero(t, stats.TotalSessions)
	require.Zero(t, stats.CompletedToday)
	require.Zero(t, stats.TotalFocusMins)
	require.Zero(t, stats.CurrentStreak)
}
