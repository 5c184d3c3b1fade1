package repository

import (
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/database"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"gorm.io/gorm"
)

// GormAssessmentRepository is a GORM implementation of AssessmentRepository
type GormAssessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository creates a new AssessmentRepository
func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &GormAssessmentRepository{db: db}
}

// Create creates a new assessment
func (r *GormAssessmentRepository) Create(assessment *models.Assessment) error {
	return r.db.Create(assessment).Error
}

// FindByID finds an owner's assessment by ID
func (r *GormAssessmentRepository) FindByID(userID, id uint64, preload ...string) (*models.Assessment, error) {
	var assessment models.Assessment
	query := r.db.Scopes(database.OwnedBy(userID))

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&assessment, id).Error; err != nil {
		return nil, err
	}

	return &assessment, nil
}

// ListByCourse lists an owner's assessments for one course
func (r *GormAssessmentRepository) ListByCourse(userID, courseID uint64) ([]models.Assessment, error) {
	var assessments []models.Assessment
	if err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

// ListDueBetween lists an owner's assessments due within [from, to)
func (r *GormAssessmentRepository) ListDueBetween(userID uint64, from, to time.Time) ([]models.Assessment, error) {
	var assessments []models.Assessment
	if err := r.db.Preload("Course").
		Where("user_id = ? AND due_date >= ? AND due_date < ?", userID, from, to).
		Find(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

// UpdateVersioned persists changes only when expectedVersion still matches
// the row. The guarded UPDATE bumps the lock version; zero rows affected
// means another write landed first and this one is rejected whole.
func (r *GormAssessmentRepository) UpdateVersioned(assessment *models.Assessment, expectedVersion uint64) error {
	result := r.db.Model(&models.Assessment{}).
		Where("id = ? AND user_id = ? AND lock_version = ?",
			assessment.ID, assessment.UserID, expectedVersion).
		Updates(map[string]interface{}{
			"name":         assessment.Name,
			"type":         assessment.Type,
			"weight":       assessment.Weight,
			"total_marks":  assessment.TotalMarks,
			"due_date":     assessment.DueDate,
			"score":        assessment.Score,
			"completed":    assessment.Completed,
			"lock_version": expectedVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleWrite
	}
	assessment.LockVersion = expectedVersion + 1
	return nil
}

// Delete removes an assessment
func (r *GormAssessmentRepository) Delete(userID, id uint64) error {
	return r.db.Scopes(database.OwnedBy(userID)).Delete(&models.Assessment{}, id).Error
}
