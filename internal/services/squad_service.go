package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/Bilal-Albezreh/sydekick-api/internal/repository"
	"github.com/Bilal-Albezreh/sydekick-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrSquadNotFound      = errors.New("squad not found")
	ErrSquadNameRequired  = errors.New("squad name is required")
	ErrInvalidInviteCode  = errors.New("invalid invite code")
	ErrAlreadyMember      = errors.New("already a member of this squad")
	ErrNotSquadMember     = errors.New("not a member of this squad")
	ErrLeaderCannotLeave  = errors.New("the leader cannot leave their own squad")
	ErrCannotRemoveLeader = errors.New("the leader cannot be removed")
	ErrTemplateFromOther  = errors.New("only your own course can be shared")
)

// templateAssessment is the serialized shape of one assessment inside a
// shared course template.
type templateAssessment struct {
	Name       string                `json:"name"`
	Type       models.AssessmentType `json:"type"`
	Weight     float64               `json:"weight"`
	TotalMarks float64               `json:"total_marks"`
}

// SquadService handles study group business logic. Curriculum templates are
// shared by reference and cloned into the joiner's own rows on join; a
// member's clone never writes back to the template.
type SquadService struct {
	squadRepo      repository.SquadRepository
	courseRepo     repository.CourseRepository
	assessmentRepo repository.AssessmentRepository
	courseService  *CourseService
}

// NewSquadService creates a new SquadService.
func NewSquadService(
	squadRepo repository.SquadRepository,
	courseRepo repository.CourseRepository,
	assessmentRepo repository.AssessmentRepository,
	courseService *CourseService,
) *SquadService {
	return &SquadService{
		squadRepo:      squadRepo,
		courseRepo:     courseRepo,
		assessmentRepo: assessmentRepo,
		courseService:  courseService,
	}
}

// Create creates a squad with the creator as leader.
func (s *SquadService) Create(userID uint64, name string) (*models.Squad, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrSquadNameRequired
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	squad := &models.Squad{
		Name:       name,
		InviteCode: inviteCode,
	}
	if err := s.squadRepo.Create(squad); err != nil {
		return nil, fmt.Errorf("failed to create squad: %w", err)
	}

	member := &models.SquadMember{
		SquadID:  squad.ID,
		UserID:   userID,
		Role:     models.RoleLeader,
		JoinedAt: time.Now(),
	}
	if err := s.squadRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add leader: %w", err)
	}

	return squad, nil
}

// ListForUser returns the squads the user belongs to, with their role.
func (s *SquadService) ListForUser(userID uint64) ([]models.SquadMember, error) {
	return s.squadRepo.ListMembersByUserID(userID)
}

// JoinResult carries the joined squad and how many template courses were
// cloned into the joiner's account.
type JoinResult struct {
	Squad         *models.Squad `json:"squad"`
	ClonedCourses int           `json:"cloned_courses"`
}

// Join adds the user to the squad behind an invite code and clones the
// squad's curriculum templates into the user's own courses.
func (s *SquadService) Join(userID uint64, inviteCode string) (*JoinResult, error) {
	squad, err := s.squadRepo.FindByInviteCode(strings.TrimSpace(inviteCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	if _, err := s.squadRepo.FindMember(squad.ID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.SquadMember{
		SquadID:  squad.ID,
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: time.Now(),
	}
	if err := s.squadRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to join squad: %w", err)
	}

	cloned, err := s.cloneTemplates(userID, squad.ID)
	if err != nil {
		return nil, err
	}

	return &JoinResult{Squad: squad, ClonedCourses: cloned}, nil
}

// cloneTemplates copies every shared course template into the joiner's own
// Course and Assessment rows.
func (s *SquadService) cloneTemplates(userID, squadID uint64) (int, error) {
	templates, err := s.squadRepo.ListTemplates(squadID)
	if err != nil {
		return 0, fmt.Errorf("failed to list templates: %w", err)
	}

	cloned := 0
	for _, tpl := range templates {
		termID, err := s.courseService.resolveTerm(userID, tpl.TermLabel)
		if err != nil {
			return cloned, fmt.Errorf("failed to resolve term for template %q: %w", tpl.Code, err)
		}

		course := &models.Course{
			UserID:       userID,
			TermID:       termID,
			Code:         tpl.Code,
			Name:         tpl.Name,
			Color:        tpl.Color,
			CreditWeight: 0.5,
		}
		if err := s.courseRepo.Create(course); err != nil {
			return cloned, fmt.Errorf("failed to clone course %q: %w", tpl.Code, err)
		}

		var snapshots []templateAssessment
		if tpl.Assessments != "" {
			if err := json.Unmarshal([]byte(tpl.Assessments), &snapshots); err != nil {
				return cloned, fmt.Errorf("failed to decode template %q: %w", tpl.Code, err)
			}
		}
		for _, snap := range snapshots {
			assessment := &models.Assessment{
				CourseID:   course.ID,
				UserID:     userID,
				Name:       snap.Name,
				Type:       snap.Type,
				Weight:     snap.Weight,
				TotalMarks: snap.TotalMarks,
			}
			if err := s.assessmentRepo.Create(assessment); err != nil {
				return cloned, fmt.Errorf("failed to clone assessment %q: %w", snap.Name, err)
			}
		}
		cloned++
	}

	return cloned, nil
}

// ShareCourse snapshots one of the caller's courses as a squad template.
func (s *SquadService) ShareCourse(userID, squadID, courseID uint64) (*models.SquadCourseTemplate, error) {
	course, err := s.courseRepo.FindByID(userID, courseID, "Term")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateFromOther
		}
		return nil, fmt.Errorf("failed to find course: %w", err)
	}

	assessments, err := s.assessmentRepo.ListByCourse(userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	snapshots := make([]templateAssessment, len(assessments))
	for i, a := range assessments {
		snapshots[i] = templateAssessment{
			Name:       a.Name,
			Type:       a.Type,
			Weight:     a.Weight,
			TotalMarks: a.TotalMarks,
		}
	}
	encoded, err := json.Marshal(snapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to encode template: %w", err)
	}

	template := &models.SquadCourseTemplate{
		SquadID:     squadID,
		SharedByID:  userID,
		Code:        course.Code,
		Name:        course.Name,
		Color:       course.Color,
		TermLabel:   course.Term.Label,
		Assessments: string(encoded),
	}
	if err := s.squadRepo.AddTemplate(template); err != nil {
		return nil, fmt.Errorf("failed to share course: %w", err)
	}
	return template, nil
}

// Leave removes the caller from a squad. The leader cannot leave their own
// squad; they delete it instead.
func (s *SquadService) Leave(userID, squadID uint64) error {
	member, err := s.squadRepo.FindMember(squadID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotSquadMember
		}
		return fmt.Errorf("failed to check membership: %w", err)
	}

	if member.Role == models.RoleLeader {
		return ErrLeaderCannotLeave
	}

	return s.squadRepo.RemoveMember(squadID, userID)
}

// Rename changes a squad's name.
func (s *SquadService) Rename(squadID uint64, name string) (*models.Squad, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrSquadNameRequired
	}

	squad, err := s.squadRepo.FindByID(squadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSquadNotFound
		}
		return nil, fmt.Errorf("failed to find squad: %w", err)
	}

	squad.Name = name
	if err := s.squadRepo.Update(squad); err != nil {
		return nil, fmt.Errorf("failed to update squad: %w", err)
	}
	return squad, nil
}

// Delete removes a squad with its members and templates. Members keep any
// courses already cloned from its templates.
func (s *SquadService) Delete(squadID uint64) error {
	if _, err := s.squadRepo.FindByID(squadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSquadNotFound
		}
		return fmt.Errorf("failed to find squad: %w", err)
	}
	return s.squadRepo.Delete(squadID)
}

// RemoveMember kicks a member out of a squad. The leader cannot be
// removed.
func (s *SquadService) RemoveMember(squadID, memberUserID uint64) error {
	member, err := s.squadRepo.FindMember(squadID, memberUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotSquadMember
		}
		return fmt.Errorf("failed to check membership: %w", err)
	}

	if member.Role == models.RoleLeader {
		return ErrCannotRemoveLeader
	}

	return s.squadRepo.RemoveMember(squadID, memberUserID)
}

// GetDetail loads a squad with its members and shared templates.
func (s *SquadService) GetDetail(squadID uint64) (*models.Squad, []models.SquadMember, []models.SquadCourseTemplate, error) {
	squad, err := s.squadRepo.FindByID(squadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrSquadNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to find squad: %w", err)
	}

	members, err := s.squadRepo.ListMembers(squadID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list members: %w", err)
	}

	templates, err := s.squadRepo.ListTemplates(squadID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return squad, members, templates, nil
}

// RegenerateInviteCode replaces the squad's join token, invalidating the
// old one.
func (s *SquadService) RegenerateInviteCode(squadID uint64) (*models.Squad, error) {
	squad, err := s.squadRepo.FindByID(squadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSquadNotFound
		}
		return nil, fmt.Errorf("failed to find squad: %w", err)
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	squad.InviteCode = code
	if err := s.squadRepo.Update(squad); err != nil {
		return nil, fmt.Errorf("failed to update squad: %w", err)
	}
	return squad, nil
}
