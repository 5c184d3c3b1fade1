package repository

import (
	"github.com/Bilal-Albezreh/sydekick-api/internal/database"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"gorm.io/gorm"
)

// GormScheduleRepository is a GORM implementation of ScheduleRepository
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// Create creates a new schedule item
func (r *GormScheduleRepository) Create(item *models.ScheduleItem) error {
	return r.db.Create(item).Error
}

// FindByID finds an owner's schedule item by ID
func (r *GormScheduleRepository) FindByID(userID, id uint64) (*models.ScheduleItem, error) {
	var item models.ScheduleItem
	if err := r.db.Scopes(database.OwnedBy(userID)).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByUser lists an owner's schedule items with courses preloaded
func (r *GormScheduleRepository) ListByUser(userID uint64) ([]models.ScheduleItem, error) {
	var items []models.ScheduleItem
	if err := r.db.Preload("Course").
		Scopes(database.OwnedBy(userID)).
		Order("start_time ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update updates a schedule item
func (r *GormScheduleRepository) Update(item *models.ScheduleItem) error {
	return r.db.Save(item).Error
}

// Delete removes a schedule item
func (r *GormScheduleRepository) Delete(userID, id uint64) error {
	return r.db.Scopes(database.OwnedBy(userID)).Delete(&models.ScheduleItem{}, id).Error
}
