package repository

import (
	"testing"
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAssessmentRepo(t *testing.T) (AssessmentRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Term{},
		&models.Course{},
		&models.Assessment{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewAssessmentRepository(db), db
}

func TestUpdateVersioned_BumpsLockVersion(t *testing.T) {
	repo, _ := setupAssessmentRepo(t)

	assessment := &models.Assessment{
		CourseID: 1,
		UserID:   1,
		Name:     "Quiz 1",
		Type:     models.AssessmentQuiz,
		Weight:   10,
	}
	require.NoError(t, repo.Create(assessment))
	require.EqualValues(t, 0, assessment.LockVersion)

	assessment.Weight = 15
	require.NoError(t, repo.UpdateVersioned(assessment, 0))
	require.EqualValues(t, 1, assessment.LockVersion)

	stored, err := repo.FindByID(1, assessment.ID)
	require.NoError(t, err)
	require.InDelta(t, 15.0, stored.Weight, 1e-9)
	require.EqualValues(t, 1, stored.LockVersion)
}

func TestUpdateVersioned_StaleWriteLeavesRowUntouched(t *testing.T) {
	repo, _ := setupAssessmentRepo(t)

	assessment := &models.Assessment{
		CourseID: 1,
		UserID:   1,
		Name:     "Midterm",
		Type:     models.AssessmentExam,
		Weight:   30,
	}
	require.NoError(t, repo.Create(assessment))

	// First writer wins and bumps the version to 1.
	assessment.Weight = 35
	require.NoError(t, repo.UpdateVersioned(assessment, 0))

	// Second writer still holds version 0; its whole edit is rejected.
	stale := *assessment
	stale.Weight = 99
	stale.Name = "Midterm (edited)"
	err := repo.UpdateVersioned(&stale, 0)
	require.ErrorIs(t, err, ErrStaleWrite)

	stored, err := repo.FindByID(1, assessment.ID)
	require.NoError(t, err)
	require.Equal(t, "Midterm", stored.Name)
	require.InDelta(t, 35.0, stored.Weight, 1e-9)
	require.EqualValues(t, 1, stored.LockVersion)
}

func TestUpdateVersioned_ScopedToOwner(t *testing.T) {
	repo, _ := setupAssessmentRepo(t)

	assessment := &models.Assessment{
		CourseID: 1,
		UserID:   1,
		Name:     "Lab 1",
		Type:     models.AssessmentLab,
		Weight:   5,
	}
	require.NoError(t, repo.Create(assessment))

	// Another user cannot update the row even with the right version.
	foreign := *assessment
	foreign.UserID = 2
	err := repo.UpdateVersioned(&foreign, 0)
	require.ErrorIs(t, err, ErrStaleWrite)
}

func TestListDueBetween_HalfOpenWindow(t *testing.T) {
	repo, _ := setupAssessmentRepo(t)

	day := func(d int) *time.Time {
		v := time.Date(2026, 3, d, 12, 0, 0, 0, time.Local)
		return &v
	}

	for i, due := range []*time.Time{day(1), day(5), day(10), nil} {
		require.NoError(t, repo.Create(&models.Assessment{
			CourseID: 1,
			UserID:   1,
			Name:     "Item",
			Weight:   float64(i + 1),
			DueDate:  due,
		}))
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	listed, err := repo.ListDueBetween(1, from, to)
	require.NoError(t, err)
	require.Len(t, listed, 2)
}
