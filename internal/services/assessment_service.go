package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/calendar"
	"github.com/Bilal-Albezreh/sydekick-api/internal/grades"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/Bilal-Albezreh/sydekick-api/internal/mutation"
	"github.com/Bilal-Albezreh/sydekick-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAssessmentNotFound     = errors.New("assessment not found")
	ErrAssessmentNameRequired = errors.New("assessment name is required")
	ErrWeightOutOfRange       = errors.New("weight must be between 0 and 100")
	ErrInvalidDateKey         = errors.New("invalid date")
	ErrStaleWrite             = errors.New("item was modified by another request")
)

// AssessmentService handles assessment business logic. Every mutation of an
// existing row is serialized per assessment id and carries a lock version,
// so concurrent edits of one row cannot interleave and the loser is
// rejected whole.
type AssessmentService struct {
	assessmentRepo repository.AssessmentRepository
	courseRepo     repository.CourseRepository
	serializer     *mutation.KeyedSerializer
}

// NewAssessmentService creates a new AssessmentService.
func NewAssessmentService(
	assessmentRepo repository.AssessmentRepository,
	courseRepo repository.CourseRepository,
	serializer *mutation.KeyedSerializer,
) *AssessmentService {
	return &AssessmentService{
		assessmentRepo: assessmentRepo,
		courseRepo:     courseRepo,
		serializer:     serializer,
	}
}

// ListByCourse returns a course's assessments in display order.
func (s *AssessmentService) ListByCourse(userID, courseID uint64) ([]models.Assessment, error) {
	if _, err := s.courseRepo.FindByID(userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to find course: %w", err)
	}

	assessments, err := s.assessmentRepo.ListByCourse(userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	grades.SortForDisplay(assessments)
	return assessments, nil
}

// CreateAssessmentInput holds the fields for a new assessment. An empty
// Type is inferred from the name.
type CreateAssessmentInput struct {
	Name       string
	Type       models.AssessmentType
	Weight     float64
	TotalMarks float64
	DueDate    *time.Time
	Score      *float64
}

// CreateAssessmentResult carries the created row plus the soft
// weight-budget warning.
type CreateAssessmentResult struct {
	Assessment       *models.Assessment `json:"assessment"`
	WeightOverbooked bool               `json:"weight_overbooked"`
}

// CreateAssessment validates and creates an assessment. Weights beyond the
// course's 100% budget are allowed but flagged.
func (s *AssessmentService) CreateAssessment(userID, courseID uint64, input CreateAssessmentInput) (*CreateAssessmentResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrAssessmentNameRequired
	}
	if !grades.ValidWeight(input.Weight) {
		return nil, ErrWeightOutOfRange
	}
	if input.Score != nil && !grades.ValidScore(*input.Score) {
		return nil, grades.ErrScoreOutOfRange
	}

	if _, err := s.courseRepo.FindByID(userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to find course: %w", err)
	}

	existing, err := s.assessmentRepo.ListByCourse(userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	kind := input.Type
	if kind == "" {
		kind = grades.Classify(name)
	}

	totalMarks := input.TotalMarks
	if totalMarks <= 0 {
		totalMarks = 100
	}

	assessment := &models.Assessment{
		CourseID:   courseID,
		UserID:     userID,
		Name:       name,
		Type:       kind,
		Weight:     input.Weight,
		TotalMarks: totalMarks,
		DueDate:    input.DueDate,
		Score:      input.Score,
		Completed:  input.Score != nil,
	}

	if err := s.assessmentRepo.Create(assessment); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	return &CreateAssessmentResult{
		Assessment:       assessment,
		WeightOverbooked: grades.WeightOverbooked(existing, assessment.Weight),
	}, nil
}

// UpdateAssessmentInput holds the editable fields. Nil means keep;
// ClearDueDate and ClearScore distinguish "unset" from "keep".
type UpdateAssessmentInput struct {
	Name         *string
	Type         *models.AssessmentType
	Weight       *float64
	TotalMarks   *float64
	DueDate      *time.Time
	ClearDueDate bool
	Score        *float64
	ClearScore   bool
	Completed    *bool
}

// UpdateAssessment applies an inline edit under the row's serialization key
// and lock version.
func (s *AssessmentService) UpdateAssessment(userID, assessmentID uint64, input UpdateAssessmentInput) (*models.Assessment, error) {
	if input.Weight != nil && !grades.ValidWeight(*input.Weight) {
		return nil, ErrWeightOutOfRange
	}
	if input.Score != nil && !grades.ValidScore(*input.Score) {
		return nil, grades.ErrScoreOutOfRange
	}

	var updated *models.Assessment
	err := s.serializer.Do(mutation.ItemKey("assessment", assessmentID), func() error {
		assessment, err := s.assessmentRepo.FindByID(userID, assessmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssessmentNotFound
			}
			return fmt.Errorf("failed to find assessment: %w", err)
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return ErrAssessmentNameRequired
			}
			assessment.Name = name
		}
		if input.Type != nil {
			assessment.Type = *input.Type
		}
		if input.Weight != nil {
			assessment.Weight = *input.Weight
		}
		if input.TotalMarks != nil && *input.TotalMarks > 0 {
			assessment.TotalMarks = *input.TotalMarks
		}
		if input.ClearDueDate {
			assessment.DueDate = nil
		} else if input.DueDate != nil {
			assessment.DueDate = input.DueDate
		}
		if input.ClearScore {
			assessment.Score = nil
			assessment.Completed = false
		} else if input.Score != nil {
			assessment.Score = input.Score
			assessment.Completed = true
		}
		if input.Completed != nil {
			assessment.Completed = *input.Completed
		}

		if err := s.assessmentRepo.UpdateVersioned(assessment, assessment.LockVersion); err != nil {
			if errors.Is(err, repository.ErrStaleWrite) {
				return ErrStaleWrite
			}
			return fmt.Errorf("failed to update assessment: %w", err)
		}
		updated = assessment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ToggleCompleted flips the completion flag under the row's serialization
// key.
func (s *AssessmentService) ToggleCompleted(userID, assessmentID uint64) (*models.Assessment, error) {
	var updated *models.Assessment
	err := s.serializer.Do(mutation.ItemKey("assessment", assessmentID), func() error {
		assessment, err := s.assessmentRepo.FindByID(userID, assessmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssessmentNotFound
			}
			return fmt.Errorf("failed to find assessment: %w", err)
		}

		assessment.Completed = !assessment.Completed

		if err := s.assessmentRepo.UpdateVersioned(assessment, assessment.LockVersion); err != nil {
			if errors.Is(err, repository.ErrStaleWrite) {
				return ErrStaleWrite
			}
			return fmt.Errorf("failed to toggle assessment: %w", err)
		}
		updated = assessment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Reschedule moves an assessment to another calendar day. Dropping it on
// the day it is already due performs no write at all. The wall-clock time
// of the previous due date is preserved.
func (s *AssessmentService) Reschedule(userID, assessmentID uint64, dateKey string) (*models.Assessment, error) {
	day, ok := calendar.ParseDateKey(dateKey)
	if !ok {
		return nil, ErrInvalidDateKey
	}

	var updated *models.Assessment
	err := s.serializer.Do(mutation.ItemKey("assessment", assessmentID), func() error {
		assessment, err := s.assessmentRepo.FindByID(userID, assessmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssessmentNotFound
			}
			return fmt.Errorf("failed to find assessment: %w", err)
		}

		if assessment.DueDate != nil && calendar.DateKey(*assessment.DueDate) == dateKey {
			// Same-day drop is a no-op.
			updated = assessment
			return nil
		}

		due := retime(day, assessment.DueDate)
		assessment.DueDate = &due

		if err := s.assessmentRepo.UpdateVersioned(assessment, assessment.LockVersion); err != nil {
			if errors.Is(err, repository.ErrStaleWrite) {
				return ErrStaleWrite
			}
			return fmt.Errorf("failed to reschedule assessment: %w", err)
		}
		updated = assessment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteAssessment removes an assessment.
func (s *AssessmentService) DeleteAssessment(userID, assessmentID uint64) error {
	if _, err := s.assessmentRepo.FindByID(userID, assessmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssessmentNotFound
		}
		return fmt.Errorf("failed to find assessment: %w", err)
	}
	return s.assessmentRepo.Delete(userID, assessmentID)
}

// retime places the previous wall-clock time onto the target day. Items
// without a previous time land at 23:59 local.
func retime(day time.Time, previous *time.Time) time.Time {
	if previous == nil {
		return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 0, 0, day.Location())
	}
	p := previous.In(day.Location())
	return time.Date(day.Year(), day.Month(), day.Day(), p.Hour(), p.Minute(), p.Second(), 0, day.Location())
}
