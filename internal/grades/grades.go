package grades

import (
	"errors"

	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
)

// ErrScoreOutOfRange is returned for scores outside [0,100]. The caller must
// reject the mutation before anything is persisted.
var ErrScoreOutOfRange = errors.New("score must be between 0 and 100")

// Summary is the weighted aggregate of one course's assessments.
type Summary struct {
	Count           int     `json:"count"`
	EarnedWeight    float64 `json:"earned_weight"`
	AttemptedWeight float64 `json:"attempted_weight"`
	TotalWeight     float64 `json:"total_weight"`
	Average         float64 `json:"average"`
	Progress        float64 `json:"progress"`
}

// ValidScore reports whether score is a percentage in [0,100].
func ValidScore(score float64) bool {
	return score >= 0 && score <= 100
}

// ValidWeight reports whether weight is a percentage in [0,100].
func ValidWeight(weight float64) bool {
	return weight >= 0 && weight <= 100
}

// Summarize folds an assessment set into a weighted course summary. Scored
// items contribute score/100*weight to the earned weight and their full
// weight to the attempted weight; every item contributes its weight to the
// total. An empty or fully unscored set yields a zero average and progress.
func Summarize(assessments []models.Assessment) Summary {
	var s Summary
	for _, a := range assessments {
		s.Count++
		s.TotalWeight += a.Weight
		if a.Score == nil {
			continue
		}
		s.EarnedWeight += (*a.Score / 100) * a.Weight
		s.AttemptedWeight += a.Weight
	}

	if s.AttemptedWeight > 0 {
		s.Average = (s.EarnedWeight / s.AttemptedWeight) * 100
	}
	if s.TotalWeight > 0 {
		s.Progress = (s.AttemptedWeight / s.TotalWeight) * 100
	}
	return s
}

// TermAverage is the arithmetic mean of course averages. Courses without any
// assessments are excluded. The mean is deliberately not credit-weighted.
func TermAverage(summaries []Summary) float64 {
	var sum float64
	var n int
	for _, s := range summaries {
		if s.Count == 0 {
			continue
		}
		sum += s.Average
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// WeightOverbooked reports whether the assessment weights of a course sum to
// more than 100 after adding extra. This is surfaced as a warning, never an
// error.
func WeightOverbooked(assessments []models.Assessment, extra float64) bool {
	total := extra
	for _, a := range assessments {
		total += a.Weight
	}
	return total > 100
}
