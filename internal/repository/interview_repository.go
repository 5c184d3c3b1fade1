package repository

import (
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/database"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"gorm.io/gorm"
)

// GormInterviewRepository is a GORM implementation of InterviewRepository
type GormInterviewRepository struct {
	db *gorm.DB
}

// NewInterviewRepository creates a new InterviewRepository
func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &GormInterviewRepository{db: db}
}

// Create creates a new interview
func (r *GormInterviewRepository) Create(interview *models.Interview) error {
	return r.db.Create(interview).Error
}

// FindByID finds an owner's interview by ID
func (r *GormInterviewRepository) FindByID(userID, id uint64) (*models.Interview, error) {
	var interview models.Interview
	if err := r.db.Scopes(database.OwnedBy(userID)).First(&interview, id).Error; err != nil {
		return nil, err
	}
	return &interview, nil
}

// ListByUser lists an owner's interviews, soonest first with undated last
func (r *GormInterviewRepository) ListByUser(userID uint64) ([]models.Interview, error) {
	var interviews []models.Interview
	if err := r.db.Scopes(database.OwnedBy(userID)).
		Order("CASE WHEN scheduled_at IS NULL THEN 1 ELSE 0 END, scheduled_at ASC").
		Find(&interviews).Error; err != nil {
		return nil, err
	}
	return interviews, nil
}

// ListScheduledBetween lists an owner's interviews within [from, to)
func (r *GormInterviewRepository) ListScheduledBetween(userID uint64, from, to time.Time) ([]models.Interview, error) {
	var interviews []models.Interview
	if err := r.db.
		Where("user_id = ? AND scheduled_at >= ? AND scheduled_at < ?", userID, from, to).
		Find(&interviews).Error; err != nil {
		return nil, err
	}
	return interviews, nil
}

// Update updates an interview
func (r *GormInterviewRepository) Update(interview *models.Interview) error {
	return r.db.Save(interview).Error
}

// Delete removes an interview
func (r *GormInterviewRepository) Delete(userID, id uint64) error {
	return r.db.Scopes(database.OwnedBy(userID)).Delete(&models.Interview{}, id).Error
}
