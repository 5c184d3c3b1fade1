package repository

import (
	"github.com/Bilal-Albezreh/sydekick-api/internal/database"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"gorm.io/gorm"
)

// GormSquadRepository is a GORM implementation of SquadRepository
type GormSquadRepository struct {
	db *gorm.DB
}

// NewSquadRepository creates a new SquadRepository
func NewSquadRepository(db *gorm.DB) SquadRepository {
	return &GormSquadRepository{db: db}
}

// Create creates a new squad
func (r *GormSquadRepository) Create(squad *models.Squad) error {
	return r.db.Create(squad).Error
}

// FindByID finds a squad by ID
func (r *GormSquadRepository) FindByID(id uint64) (*models.Squad, error) {
	var squad models.Squad
	if err := r.db.First(&squad, id).Error; err != nil {
		return nil, err
	}
	return &squad, nil
}

// FindByInviteCode finds a squad by invite code
func (r *GormSquadRepository) FindByInviteCode(code string) (*models.Squad, error) {
	var squad models.Squad
	if err := r.db.Where("invite_code = ?", code).First(&squad).Error; err != nil {
		return nil, err
	}
	return &squad, nil
}

// Update updates a squad
func (r *GormSquadRepository) Update(squad *models.Squad) error {
	return r.db.Save(squad).Error
}

// Delete deletes a squad and all related data in a transaction
func (r *GormSquadRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("squad_id = ?", id).Delete(&models.SquadCourseTemplate{}).Error; err != nil {
			return err
		}

		if err := tx.Where("squad_id = ?", id).Delete(&models.SquadMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Squad{}, id).Error
	})
}

// AddMember adds a member to a squad
func (r *GormSquadRepository) AddMember(member *models.SquadMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member from a squad
func (r *GormSquadRepository) RemoveMember(squadID, userID uint64) error {
	return r.db.Where("squad_id = ? AND user_id = ?", squadID, userID).
		Delete(&models.SquadMember{}).Error
}

// FindMember finds a specific squad member
func (r *GormSquadRepository) FindMember(squadID, userID uint64) (*models.SquadMember, error) {
	var member models.SquadMember
	if err := r.db.Where("squad_id = ? AND user_id = ?", squadID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembersByUserID lists all squads a user is a member of
func (r *GormSquadRepository) ListMembersByUserID(userID uint64) ([]models.SquadMember, error) {
	var memberships []models.SquadMember
	if err := r.db.Preload("Squad").
		Scopes(database.OwnedBy(userID)).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all members of a squad
func (r *GormSquadRepository) ListMembers(squadID uint64) ([]models.SquadMember, error) {
	var members []models.SquadMember
	if err := r.db.Preload("User").
		Where("squad_id = ?", squadID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// AddTemplate shares a course snapshot with the squad
func (r *GormSquadRepository) AddTemplate(template *models.SquadCourseTemplate) error {
	return r.db.Create(template).Error
}

// ListTemplates lists a squad's shared course templates
func (r *GormSquadRepository) ListTemplates(squadID uint64) ([]models.SquadCourseTemplate, error) {
	var templates []models.SquadCourseTemplate
	if err := r.db.Where("squad_id = ?", squadID).Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}
