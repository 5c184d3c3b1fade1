package repository

import (
	"github.com/Bilal-Albezreh/sydekick-api/internal/database"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/Bilal-Albezreh/sydekick-api/internal/utils"
	"gorm.io/gorm"
)

// GormFocusRepository is a GORM implementation of FocusRepository
type GormFocusRepository struct {
	db *gorm.DB
}

// NewFocusRepository creates a new FocusRepository
func NewFocusRepository(db *gorm.DB) FocusRepository {
	return &GormFocusRepository{db: db}
}

// Create creates a new focus session
func (r *GormFocusRepository) Create(session *models.FocusSession) error {
	return r.db.Create(session).Error
}

// FindByID finds an owner's session by ID
func (r *GormFocusRepository) FindByID(userID, id uint64) (*models.FocusSession, error) {
	var session models.FocusSession
	if err := r.db.Scopes(database.OwnedBy(userID)).First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// ListByUser lists an owner's sessions, newest first
func (r *GormFocusRepository) ListByUser(userID uint64) ([]models.FocusSession, error) {
	var sessions []models.FocusSession
	if err := r.db.Scopes(database.OwnedBy(userID)).
		Order("started_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListPageByUser lists one page of an owner's sessions, newest first,
// together with the total count
func (r *GormFocusRepository) ListPageByUser(userID uint64, params utils.PaginationParams) ([]models.FocusSession, int64, error) {
	var total int64
	if err := r.db.Model(&models.FocusSession{}).
		Scopes(database.OwnedBy(userID)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []models.FocusSession
	if err := r.db.Scopes(database.OwnedBy(userID)).
		Order("started_at DESC").
		Scopes(database.Paginate(params)).
		Find(&sessions).Error; err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// Update updates a session
func (r *GormFocusRepository) Update(session *models.FocusSession) error {
	return r.db.Save(session).Error
}

// ListOpen lists every session not yet completed or abandoned
func (r *GormFocusRepository) ListOpen() ([]models.FocusSession, error) {
	var sessions []models.FocusSession
	if err := r.db.Where("completed = ? AND abandoned = ?", false, false).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// MarkAbandoned flags the given sessions as abandoned
func (r *GormFocusRepository) MarkAbandoned(ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.FocusSession{}).
		Where("id IN ?", ids).
		Update("abandoned", true).Error
}
