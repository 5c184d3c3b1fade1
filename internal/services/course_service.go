package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/grades"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/Bilal-Albezreh/sydekick-api/internal/mutation"
	"github.com/Bilal-Albezreh/sydekick-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTermNotFound       = errors.New("term not found")
	ErrTermExists         = errors.New("term already exists")
	ErrInvalidTermLabel   = errors.New("invalid term label")
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseCodeRequired = errors.New("course code is required")
	ErrCourseNameRequired = errors.New("course name is required")
)

// CourseService handles term and course business logic, including the
// weighted grade aggregates and the hypothetical what-if mode.
type CourseService struct {
	courseRepo     repository.CourseRepository
	termRepo       repository.TermRepository
	assessmentRepo repository.AssessmentRepository
	serializer     *mutation.KeyedSerializer
	sandbox        *grades.Sandbox
}

// NewCourseService creates a new CourseService.
func NewCourseService(
	courseRepo repository.CourseRepository,
	termRepo repository.TermRepository,
	assessmentRepo repository.AssessmentRepository,
	serializer *mutation.KeyedSerializer,
	sandbox *grades.Sandbox,
) *CourseService {
	return &CourseService{
		courseRepo:     courseRepo,
		termRepo:       termRepo,
		assessmentRepo: assessmentRepo,
		serializer:     serializer,
		sandbox:        sandbox,
	}
}

// ListTerms returns an owner's terms.
func (s *CourseService) ListTerms(userID uint64) ([]models.Term, error) {
	return s.termRepo.ListByUser(userID)
}

// CreateTermInput holds the fields for an explicit term creation.
type CreateTermInput struct {
	Label     models.TermLabel
	Season    string
	StartDate *time.Time
	EndDate   *time.Time
}

// CreateTerm creates a term explicitly. The same serializer key guards the
// lazy path, so an explicit create and a lazy create cannot race into
// duplicate rows.
func (s *CourseService) CreateTerm(userID uint64, input CreateTermInput) (*models.Term, error) {
	if !models.ValidTermLabel(input.Label) {
		return nil, ErrInvalidTermLabel
	}

	var term *models.Term
	err := s.serializer.Do(mutation.OwnerKey("term", userID, string(input.Label)), func() error {
		if existing, err := s.termRepo.FindByLabel(userID, input.Label); err == nil {
			term = existing
			return ErrTermExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check term: %w", err)
		}

		term = &models.Term{
			UserID:    userID,
			Label:     input.Label,
			Season:    input.Season,
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		}
		return s.termRepo.Create(term)
	})
	if err != nil {
		return nil, err
	}
	return term, nil
}

// UpdateTermInput holds the editable term fields. Nil means keep.
type UpdateTermInput struct {
	Season    *string
	StartDate *time.Time
	EndDate   *time.Time
}

// UpdateTerm updates a term's season and dates.
func (s *CourseService) UpdateTerm(userID, termID uint64, input UpdateTermInput) (*models.Term, error) {
	term, err := s.termRepo.FindByID(userID, termID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		return nil, fmt.Errorf("failed to find term: %w", err)
	}

	if input.Season != nil {
		term.Season = *input.Season
	}
	if input.StartDate != nil {
		term.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		term.EndDate = input.EndDate
	}

	if err := s.termRepo.Update(term); err != nil {
		return nil, fmt.Errorf("failed to update term: %w", err)
	}
	return term, nil
}

// DeleteTerm removes a term and everything under it.
func (s *CourseService) DeleteTerm(userID, termID uint64) error {
	if _, err := s.termRepo.FindByID(userID, termID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTermNotFound
		}
		return fmt.Errorf("failed to find term: %w", err)
	}
	return s.termRepo.Delete(userID, termID)
}

// SetCurrentTerm marks one term current, unsetting every sibling in the
// same operation.
func (s *CourseService) SetCurrentTerm(userID, termID uint64) error {
	err := s.termRepo.SetCurrent(userID, termID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTermNotFound
	}
	return err
}

// resolveTerm returns the id of the owner's term with the given label,
// creating a placeholder row when none exists. Serialized per (owner,label)
// so a double submit converges on a single row.
func (s *CourseService) resolveTerm(userID uint64, label models.TermLabel) (uint64, error) {
	if !models.ValidTermLabel(label) {
		return 0, ErrInvalidTermLabel
	}

	var termID uint64
	err := s.serializer.Do(mutation.OwnerKey("term", userID, string(label)), func() error {
		term, err := s.termRepo.FindByLabel(userID, label)
		if err == nil {
			termID = term.ID
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up term: %w", err)
		}

		created := &models.Term{
			UserID:    userID,
			Label:     label,
			Season:    "TBD",
			IsCurrent: false,
		}
		if err := s.termRepo.Create(created); err != nil {
			return fmt.Errorf("failed to create term: %w", err)
		}
		termID = created.ID
		return nil
	})
	return termID, err
}

// CreateCourseInput holds the fields for a new course. The term is
// referenced by label and resolved (or lazily created) on the fly.
type CreateCourseInput struct {
	Code         string
	Name         string
	Color        string
	CreditWeight float64
	TermLabel    models.TermLabel
}

// CreateCourse creates a course, lazily creating its term when needed.
func (s *CourseService) CreateCourse(userID uint64, input CreateCourseInput) (*models.Course, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, ErrCourseCodeRequired
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCourseNameRequired
	}

	termID, err := s.resolveTerm(userID, input.TermLabel)
	if err != nil {
		return nil, err
	}

	creditWeight := input.CreditWeight
	if creditWeight <= 0 {
		creditWeight = 0.5
	}

	course := &models.Course{
		UserID:       userID,
		TermID:       termID,
		Code:         code,
		Name:         name,
		Color:        input.Color,
		CreditWeight: creditWeight,
	}

	if err := s.courseRepo.Create(course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	return s.courseRepo.FindByID(userID, course.ID, "Term")
}

// ListCourses returns an owner's courses, optionally limited to one term.
func (s *CourseService) ListCourses(userID uint64, termID *uint64) ([]models.Course, error) {
	return s.courseRepo.ListByUser(userID, termID)
}

// GetCourse returns one course with its term.
func (s *CourseService) GetCourse(userID, courseID uint64) (*models.Course, error) {
	course, err := s.courseRepo.FindByID(userID, courseID, "Term")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to find course: %w", err)
	}
	return course, nil
}

// UpdateCourseInput holds the editable course fields. Nil means keep.
type UpdateCourseInput struct {
	Code         *string
	Name         *string
	Color        *string
	CreditWeight *float64
}

// UpdateCourse updates a course's settings.
func (s *CourseService) UpdateCourse(userID, courseID uint64, input UpdateCourseInput) (*models.Course, error) {
	course, err := s.courseRepo.FindByID(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to find course: %w", err)
	}

	if input.Code != nil {
		code := strings.TrimSpace(*input.Code)
		if code == "" {
			return nil, ErrCourseCodeRequired
		}
		course.Code = code
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrCourseNameRequired
		}
		course.Name = name
	}
	if input.Color != nil {
		course.Color = *input.Color
	}
	if input.CreditWeight != nil && *input.CreditWeight > 0 {
		course.CreditWeight = *input.CreditWeight
	}

	if err := s.courseRepo.Update(course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	return s.courseRepo.FindByID(userID, course.ID, "Term")
}

// DeleteCourse removes a course and its assessments and schedule items.
// Any active hypothetical session for it is discarded.
func (s *CourseService) DeleteCourse(userID, courseID uint64) error {
	if _, err := s.courseRepo.FindByID(userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to find course: %w", err)
	}

	if err := s.courseRepo.Delete(userID, courseID); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.sandbox.Disable(userID, courseID)
	return nil
}

// CourseSummary holds a course's aggregate together with its display-sorted
// assessment set. Hypothetical is true when the set comes from an active
// what-if clone rather than the persisted rows.
type CourseSummary struct {
	Course       *models.Course      `json:"course"`
	Summary      grades.Summary      `json:"summary"`
	Assessments  []models.Assessment `json:"assessments"`
	Hypothetical bool                `json:"hypothetical"`
}

// GetCourseSummary computes the weighted aggregate for one course, reading
// from the hypothetical clone when that mode is on.
func (s *CourseService) GetCourseSummary(userID, courseID uint64) (*CourseSummary, error) {
	course, err := s.GetCourse(userID, courseID)
	if err != nil {
		return nil, err
	}

	assessments, hypothetical := s.sandbox.Assessments(userID, courseID)
	if !hypothetical {
		assessments, err = s.assessmentRepo.ListByCourse(userID, courseID)
		if err != nil {
			return nil, fmt.Errorf("failed to list assessments: %w", err)
		}
	}

	grades.SortForDisplay(assessments)

	return &CourseSummary{
		Course:       course,
		Summary:      grades.Summarize(assessments),
		Assessments:  assessments,
		Hypothetical: hypothetical,
	}, nil
}

// TermSummary holds the per-course aggregates of one term together with the
// plain-mean term average. Courses without assessments are excluded from
// the average (and from Courses).
type TermSummary struct {
	Term    *models.Term    `json:"term"`
	Courses []CourseSummary `json:"courses"`
	Average float64         `json:"average"`
}

// GetTermSummary computes the term-level aggregate across the term's
// courses. The average is an arithmetic mean of course averages, not a
// credit-weighted one.
func (s *CourseService) GetTermSummary(userID, termID uint64) (*TermSummary, error) {
	term, err := s.termRepo.FindByID(userID, termID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		return nil, fmt.Errorf("failed to find term: %w", err)
	}

	courses, err := s.courseRepo.ListByUser(userID, &termID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	result := &TermSummary{Term: term}
	summaries := make([]grades.Summary, 0, len(courses))
	for i := range courses {
		course := courses[i]
		assessments, err := s.assessmentRepo.ListByCourse(userID, course.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list assessments: %w", err)
		}
		summary := grades.Summarize(assessments)
		summaries = append(summaries, summary)
		if summary.Count == 0 {
			// Courses without a single assessment stay out of aggregate views.
			continue
		}
		grades.SortForDisplay(assessments)
		result.Courses = append(result.Courses, CourseSummary{
			Course:      &course,
			Summary:     summary,
			Assessments: assessments,
		})
	}

	result.Average = grades.TermAverage(summaries)
	return result, nil
}

// EnableHypothetical clones the course's persisted assessments into the
// what-if sandbox.
func (s *CourseService) EnableHypothetical(userID, courseID uint64) (*CourseSummary, error) {
	if _, err := s.GetCourse(userID, courseID); err != nil {
		return nil, err
	}

	assessments, err := s.assessmentRepo.ListByCourse(userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	s.sandbox.Enable(userID, courseID, assessments)
	return s.GetCourseSummary(userID, courseID)
}

// SetHypotheticalScore edits a score inside the sandbox only; the persisted
// rows never change.
func (s *CourseService) SetHypotheticalScore(userID, courseID, assessmentID uint64, score *float64) (*CourseSummary, error) {
	if err := s.sandbox.SetScore(userID, courseID, assessmentID, score); err != nil {
		return nil, err
	}
	return s.GetCourseSummary(userID, courseID)
}

// DisableHypothetical discards the what-if clone, reverting every read to
// the authoritative rows.
func (s *CourseService) DisableHypothetical(userID, courseID uint64) {
	s.sandbox.Disable(userID, courseID)
}
