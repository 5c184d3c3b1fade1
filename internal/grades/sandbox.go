package grades

import (
	"errors"
	"sync"

	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
)

var (
	// ErrSandboxInactive is returned when editing a course that has no
	// active hypothetical session.
	ErrSandboxInactive = errors.New("hypothetical mode is not active for this course")
	// ErrSandboxUnknownItem is returned for edits to an assessment not in
	// the cloned set.
	ErrSandboxUnknownItem = errors.New("assessment not found in hypothetical set")
)

type sandboxKey struct {
	userID   uint64
	courseID uint64
}

// Sandbox holds per-(user,course) hypothetical assessment sets. Edits apply
// only to the in-memory clone; the persisted rows are never touched, so
// turning the mode off reverts to the authoritative snapshot.
type Sandbox struct {
	mu   sync.RWMutex
	sets map[sandboxKey][]models.Assessment
}

func NewSandbox() *Sandbox {
	return &Sandbox{
		sets: make(map[sandboxKey][]models.Assessment),
	}
}

// Enable clones the authoritative assessment set into the sandbox. Calling
// it again replaces any previous clone with a fresh one.
func (s *Sandbox) Enable(userID, courseID uint64, assessments []models.Assessment) {
	clone := cloneAssessments(assessments)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[sandboxKey{userID, courseID}] = clone
}

// Active reports whether a hypothetical session exists for the course.
func (s *Sandbox) Active(userID, courseID uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sets[sandboxKey{userID, courseID}]
	return ok
}

// Assessments returns a copy of the hypothetical set, if one is active.
func (s *Sandbox) Assessments(userID, courseID uint64) ([]models.Assessment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[sandboxKey{userID, courseID}]
	if !ok {
		return nil, false
	}
	return cloneAssessments(set), true
}

// SetScore applies a what-if score (nil clears it) to the cloned set only.
func (s *Sandbox) SetScore(userID, courseID, assessmentID uint64, score *float64) error {
	if score != nil && !ValidScore(*score) {
		return ErrScoreOutOfRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[sandboxKey{userID, courseID}]
	if !ok {
		return ErrSandboxInactive
	}

	for i := range set {
		if set[i].ID == assessmentID {
			if score == nil {
				set[i].Score = nil
			} else {
				v := *score
				set[i].Score = &v
			}
			return nil
		}
	}
	return ErrSandboxUnknownItem
}

// Disable discards the clone; subsequent reads see the persisted rows again.
func (s *Sandbox) Disable(userID, courseID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, sandboxKey{userID, courseID})
}

func cloneAssessments(assessments []models.Assessment) []models.Assessment {
	clone := make([]models.Assessment, len(assessments))
	for i, a := range assessments {
		c := a
		if a.Score != nil {
			v := *a.Score
			c.Score = &v
		}
		if a.DueDate != nil {
			v := *a.DueDate
			c.DueDate = &v
		}
		clone[i] = c
	}
	return clone
}
