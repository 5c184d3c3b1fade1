package repository

import (
	"github.com/Bilal-Albezreh/sydekick-api/internal/database"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"gorm.io/gorm"
)

// GormTermRepository is a GORM implementation of TermRepository
type GormTermRepository struct {
	db *gorm.DB
}

// NewTermRepository creates a new TermRepository
func NewTermRepository(db *gorm.DB) TermRepository {
	return &GormTermRepository{db: db}
}

// Create creates a new term
func (r *GormTermRepository) Create(term *models.Term) error {
	return r.db.Create(term).Error
}

// FindByID finds an owner's term by ID
func (r *GormTermRepository) FindByID(userID, id uint64) (*models.Term, error) {
	var term models.Term
	if err := r.db.Scopes(database.OwnedBy(userID)).First(&term, id).Error; err != nil {
		return nil, err
	}
	return &term, nil
}

// FindByLabel finds an owner's term by label
func (r *GormTermRepository) FindByLabel(userID uint64, label models.TermLabel) (*models.Term, error) {
	var term models.Term
	if err := r.db.Where("user_id = ? AND label = ?", userID, label).First(&term).Error; err != nil {
		return nil, err
	}
	return &term, nil
}

// ListByUser lists an owner's terms in label order
func (r *GormTermRepository) ListByUser(userID uint64) ([]models.Term, error) {
	var terms []models.Term
	if err := r.db.Scopes(database.OwnedBy(userID)).Order("label ASC").Find(&terms).Error; err != nil {
		return nil, err
	}
	return terms, nil
}

// Update updates a term
func (r *GormTermRepository) Update(term *models.Term) error {
	return r.db.Save(term).Error
}

// Delete removes a term together with its courses and their children
func (r *GormTermRepository) Delete(userID, id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var courseIDs []uint64
		if err := tx.Model(&models.Course{}).
			Where("user_id = ? AND term_id = ?", userID, id).
			Pluck("id", &courseIDs).Error; err != nil {
			return err
		}

		if len(courseIDs) > 0 {
			if err := tx.Where("user_id = ? AND course_id IN ?", userID, courseIDs).
				Delete(&models.Assessment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ? AND course_id IN ?", userID, courseIDs).
				Delete(&models.ScheduleItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ? AND term_id = ?", userID, id).
				Delete(&models.Course{}).Error; err != nil {
				return err
			}
		}

		return tx.Scopes(database.OwnedBy(userID)).Delete(&models.Term{}, id).Error
	})
}

// SetCurrent marks one term current and unsets every sibling atomically, so
// the at-most-one-current invariant holds at the data layer.
func (r *GormTermRepository) SetCurrent(userID, id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var term models.Term
		if err := tx.Scopes(database.OwnedBy(userID)).First(&term, id).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Term{}).
			Where("user_id = ? AND id <> ?", userID, id).
			Update("is_current", false).Error; err != nil {
			return err
		}

		return tx.Model(&models.Term{}).
			Where("user_id = ? AND id = ?", userID, id).
			Update("is_current", true).Error
	})
}
