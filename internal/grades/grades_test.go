package grades

import (
	"testing"
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 {
	return &v
}

func TestSummarize_WeightedAverage(t *testing.T) {
	// Three items at 20/30/50. The scored pair carries 34 of 50 attempted
	// points, so the average is 68 and the progress 50.
	assessments := []models.Assessment{
		{Name: "Assignment 1", Weight: 20, Score: score(80)},
		{Name: "Midterm", Weight: 30, Score: score(60)},
		{Name: "Final", Weight: 50},
	}

	s := Summarize(assessments)

	require.Equal(t, 3, s.Count)
	require.InDelta(t, 34.0, s.EarnedWeight, 1e-9)
	require.InDelta(t, 50.0, s.AttemptedWeight, 1e-9)
	require.InDelta(t, 100.0, s.TotalWeight, 1e-9)
	require.InDelta(t, 68.0, s.Average, 1e-9)
	require.InDelta(t, 50.0, s.Progress, 1e-9)
}

func TestSummarize_AllPerfectScores(t *testing.T) {
	assessments := []models.Assessment{
		{Weight: 5, Score: score(100)},
		{Weight: 45, Score: score(100)},
		{Weight: 50, Score: score(100)},
	}

	s := Summarize(assessments)

	require.InDelta(t, 100.0, s.Average, 1e-9)
	require.InDelta(t, 100.0, s.Progress, 1e-9)
}

func TestSummarize_NoScoredItems(t *testing.T) {
	assessments := []models.Assessment{
		{Weight: 40},
		{Weight: 60},
	}

	s := Summarize(assessments)

	require.Zero(t, s.Average)
	require.Zero(t, s.Progress)
	require.InDelta(t, 100.0, s.TotalWeight, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	require.Zero(t, s.Count)
	require.Zero(t, s.Average)
	require.Zero(t, s.Progress)
}

func TestSummarize_StaysInRange(t *testing.T) {
	cases := [][]models.Assessment{
		{{Weight: 10, Score: score(0)}, {Weight: 90, Score: score(0)}},
		{{Weight: 1, Score: score(100)}},
		{{Weight: 33, Score: score(47)}, {Weight: 12, Score: score(91)}, {Weight: 55}},
	}
	for _, assessments := range cases {
		s := Summarize(assessments)
		require.GreaterOrEqual(t, s.Average, 0.0)
		require.LessOrEqual(t, s.Average, 100.0)
		require.GreaterOrEqual(t, s.Progress, 0.0)
		require.LessOrEqual(t, s.Progress, 100.0)
	}
}

func TestTermAverage_ExcludesEmptyCourses(t *testing.T) {
	summaries := []Summary{
		{Count: 3, Average: 80},
		{Count: 0, Average: 0},
		{Count: 1, Average: 60},
	}

	require.InDelta(t, 70.0, TermAverage(summaries), 1e-9)
}

func TestTermAverage_AllEmpty(t *testing.T) {
	require.Zero(t, TermAverage([]Summary{{Count: 0}}))
	require.Zero(t, TermAverage(nil))
}

func TestWeightOverbooked(t *testing.T) {
	existing := []models.Assessment{
		{Weight: 40},
		{Weight: 50},
	}

	require.False(t, WeightOverbooked(existing, 10))
	require.True(t, WeightOverbooked(existing, 10.5))
}

func TestClassify_RuleOrder(t *testing.T) {
	cases := map[string]models.AssessmentType{
		"Final Exam":    models.AssessmentExam,
		"Midterm 2":     models.AssessmentExam,
		"Quiz 1":        models.AssessmentQuiz,
		"Lab 4":         models.AssessmentLab,
		"Group Project": models.AssessmentProject,
		"Assignment 2":  models.AssessmentAssignment,
		"Problem Set 5": models.AssessmentAssignment,
		"HW 3":          models.AssessmentAssignment,
		"Participation": models.AssessmentOther,
		// Exam keywords win when a name matches several rules.
		"final project report": models.AssessmentExam,
		// Quiz outranks lab.
		"Lab Quiz 3": models.AssessmentQuiz,
	}

	for name, want := range cases {
		require.Equal(t, want, Classify(name), "name %q", name)
	}
}

func TestNaturalLess(t *testing.T) {
	require.True(t, NaturalLess("Quiz 2", "Quiz 10"))
	require.False(t, NaturalLess("Quiz 10", "Quiz 2"))
	require.True(t, NaturalLess("assignment 1", "Assignment 2"))
	require.True(t, NaturalLess("Lab", "Lab 1"))
	require.False(t, NaturalLess("Quiz 2", "Quiz 2"))
}

func TestSortForDisplay(t *testing.T) {
	day := func(d int) *time.Time {
		v := time.Date(2026, 3, d, 12, 0, 0, 0, time.Local)
		return &v
	}

	assessments := []models.Assessment{
		{Name: "Quiz 10", DueDate: day(5)},
		{Name: "Unscheduled"},
		{Name: "Quiz 2", DueDate: day(5)},
		{Name: "Assignment 1", DueDate: day(2)},
	}

	SortForDisplay(assessments)

	require.Equal(t, "Assignment 1", assessments[0].Name)
	require.Equal(t, "Quiz 2", assessments[1].Name)
	require.Equal(t, "Quiz 10", assessments[2].Name)
	require.Equal(t, "Unscheduled", assessments[3].Name)
}

func TestSandbox_RoundTrip(t *testing.T) {
	sandbox := NewSandbox()

	original := []models.Assessment{
		{ID: 1, Weight: 40, Score: score(70)},
		{ID: 2, Weight: 60},
	}

	sandbox.Enable(7, 3, original)
	require.True(t, sandbox.Active(7, 3))

	require.NoError(t, sandbox.SetScore(7, 3, 2, score(95)))
	require.NoError(t, sandbox.SetScore(7, 3, 1, nil))

	set, ok := sandbox.Assessments(7, 3)
	require.True(t, ok)
	require.Nil(t, set[0].Score)
	require.NotNil(t, set[1].Score)
	require.InDelta(t, 95.0, *set[1].Score, 1e-9)

	// The source slice is untouched by sandbox edits.
	require.NotNil(t, original[0].Score)
	require.InDelta(t, 70.0, *original[0].Score, 1e-9)
	require.Nil(t, original[1].Score)

	sandbox.Disable(7, 3)
	require.False(t, sandbox.Active(7, 3))
	_, ok = sandbox.Assessments(7, 3)
	require.False(t, ok)
}

func TestSandbox_Errors(t *testing.T) {
	sandbox := NewSandbox()

	err := sandbox.SetScore(1, 1, 1, score(50))
	require.ErrorIs(t, err, ErrSandboxInactive)

	sandbox.Enable(1, 1, []models.Assessment{{ID: 9}})

	err = sandbox.SetScore(1, 1, 404, score(50))
	require.ErrorIs(t, err, ErrSandboxUnknownItem)

	err = sandbox.SetScore(1, 1, 9, score(101))
	require.ErrorIs(t, err, ErrScoreOutOfRange)
}
