package repository

import (
	"github.com/Bilal-Albezreh/sydekick-api/internal/database"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"gorm.io/gorm"
)

// GormCourseRepository is a GORM implementation of CourseRepository
type GormCourseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &GormCourseRepository{db: db}
}

// Create creates a new course
func (r *GormCourseRepository) Create(course *models.Course) error {
	return r.db.Create(course).Error
}

// FindByID finds an owner's course by ID with optional preloading
func (r *GormCourseRepository) FindByID(userID, id uint64, preload ...string) (*models.Course, error) {
	var course models.Course
	query := r.db.Scopes(database.OwnedBy(userID))

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&course, id).Error; err != nil {
		return nil, err
	}

	return &course, nil
}

// ListByUser lists an owner's courses, optionally limited to one term
func (r *GormCourseRepository) ListByUser(userID uint64, termID *uint64) ([]models.Course, error) {
	var courses []models.Course
	query := r.db.Preload("Term").Scopes(database.OwnedBy(userID))
	if termID != nil {
		query = query.Where("term_id = ?", *termID)
	}
	if err := query.Order("code ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// Update updates a course
func (r *GormCourseRepository) Update(course *models.Course) error {
	return r.db.Save(course).Error
}

// Delete removes a course together with its assessments and schedule items
func (r *GormCourseRepository) Delete(userID, id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND course_id = ?", userID, id).
			Delete(&models.Assessment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ? AND course_id = ?", userID, id).
			Delete(&models.ScheduleItem{}).Error; err != nil {
			return err
		}

		return tx.Scopes(database.OwnedBy(userID)).Delete(&models.Course{}, id).Error
	})
}
