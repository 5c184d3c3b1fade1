package grades

import (
	"strings"

	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
)

// classifyRule maps name keywords to an assessment type. Rules are checked
// in order; the first keyword hit wins.
type classifyRule struct {
	keywords []string
	result   models.AssessmentType
}

var classifyRules = []classifyRule{
	{[]string{"final", "midterm", "exam", "test"}, models.AssessmentExam},
	{[]string{"quiz"}, models.AssessmentQuiz},
	{[]string{"lab"}, models.AssessmentLab},
	{[]string{"project"}, models.AssessmentProject},
	{[]string{"assignment", "homework", "problem set", "hw"}, models.AssessmentAssignment},
}

// Classify infers an assessment type from its free-text name. Unknown names
// fall back to OTHER.
func Classify(name string) models.AssessmentType {
	lower := strings.ToLower(name)
	for _, rule := range classifyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.result
			}
		}
	}
	return models.AssessmentOther
}
