package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Bilal-Albezreh/sydekick-api/internal/calendar"
	"github.com/Bilal-Albezreh/sydekick-api/internal/constants"
	"github.com/Bilal-Albezreh/sydekick-api/internal/database"
	"github.com/Bilal-Albezreh/sydekick-api/internal/grades"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/Bilal-Albezreh/sydekick-api/internal/mutation"
	"github.com/Bilal-Albezreh/sydekick-api/internal/repository"
	"github.com/Bilal-Albezreh/sydekick-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type assessmentTestEnv struct {
	db             *gorm.DB
	handler        *AssessmentHandler
	courseService  *services.CourseService
	assessmentRepo repository.AssessmentRepository
}

func setupAssessmentTestEnv(t *testing.T) assessmentTestEnv {
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

	database.SetDB(db)

	termRepo := repository.NewTermRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	serializer := mutation.NewKeyedSerializer()
	courseService := services.NewCourseService(
		courseRepo, termRepo, assessmentRepo, serializer, grades.NewSandbox(),
	)
	assessmentService := services.NewAssessmentService(assessmentRepo, courseRepo, serializer)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return assessmentTestEnv{
		db:             db,
		handler:        NewAssessmentHandler(assessmentService),
		courseService:  courseService,
		assessmentRepo: assessmentRepo,
	}
}

func assessmentTestContext(method, url string, body []byte, userID uint64, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func seedAssessmentCourse(t *testing.T, env assessmentTestEnv) (*models.User, *models.Course) {
	t.Helper()

	user := &models.User{Username: "student", PasswordHash: "hashed"}
	require.NoError(t, env.db.Create(user).Error)

	course, err := env.courseService.CreateCourse(user.ID, services.CreateCourseInput{
		Code:      "SYDE 301",
		Name:      "Engineering Design",
		TermLabel: "3A",
	})
	require.NoError(t, err)

	return user, course
}

type assessmentEnvelope struct {
	Success          bool              `json:"success"`
	Assessment       models.Assessment `json:"assessment"`
	WeightOverbooked bool              `json:"weight_overbooked"`
}

func TestAssessmentHandler_Create_InfersType(t *testing.T) {
	env := setupAssessmentTestEnv(t)
	user, course := seedAssessmentCourse(t, env)

	body, err := json.Marshal(map[string]interface{}{
		"name":   "Final Exam",
		"weight": 50,
	})
	require.NoError(t, err)

	c, w := assessmentTestContext(http.MethodPost, "/api/courses/1/assessments", body, user.ID,
		gin.Params{{Key: "id", Value: fmt.Sprint(course.ID)}})
	env.handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response assessmentEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.AssessmentExam, response.Assessment.Type)
	require.False(t, response.WeightOverbooked)
}

func TestAssessmentHandler_Create_OverbookedWeightIsSoftWarning(t *testing.T) {
	env := setupAssessmentTestEnv(t)
	user, course := seedAssessmentCourse(t, env)

	require.NoError(t, env.assessmentRepo.Create(&models.Assessment{
		CourseID: course.ID,
		UserID:   user.ID,
		Name:     "Midterm",
		Weight:   60,
	}))

	body, err := json.Marshal(map[string]interface{}{
		"name":   "Final",
		"weight": 50,
	})
	require.NoError(t, err)

	c, w := assessmentTestContext(http.MethodPost, "/api/courses/1/assessments", body, user.ID,
		gin.Params{{Key: "id", Value: fmt.Sprint(course.ID)}})
	env.handler.Create(c)

	// Overbooking is flagged, never rejected.
	require.Equal(t, http.StatusCreated, w.Code)

	var response assessmentEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.WeightOverbooked)
}

func TestAssessmentHandler_Create_RejectsBadScore(t *testing.T) {
	env := setupAssessmentTestEnv(t)
	user, course := seedAssessmentCourse(t, env)

	body, err := json.Marshal(map[string]interface{}{
		"name":   "Quiz 1",
		"weight": 10,
		"score":  120,
	})
	require.NoError(t, err)

	c, w := assessmentTestContext(http.MethodPost, "/api/courses/1/assessments", body, user.ID,
		gin.Params{{Key: "id", Value: fmt.Sprint(course.ID)}})
	env.handler.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing was persisted.
	listed, err := env.assessmentRepo.ListByCourse(user.ID, course.ID)
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestAssessmentHandler_Toggle(t *testing.T) {
	env := setupAssessmentTestEnv(t)
	user, course := seedAssessmentCourse(t, env)

	assessment := &models.Assessment{
		CourseID: course.ID,
		UserID:   user.ID,
		Name:     "Quiz 1",
		Weight:   10,
	}
	require.NoError(t, env.assessmentRepo.Create(assessment))

	c, w := assessmentTestContext(http.MethodPost, "/api/assessments/1/toggle", nil, user.ID,
		gin.Params{{Key: "id", Value: fmt.Sprint(assessment.ID)}})
	env.handler.Toggle(c)

	require.Equal(t, http.StatusOK, w.Code)

	stored, err := env.assessmentRepo.FindByID(user.ID, assessment.ID)
	require.NoError(t, err)
	require.True(t, stored.Completed)
	require.EqualValues(t, 1, stored.LockVersion)
}

func TestAssessmentHandler_Reschedule_MovesDayKeepsTime(t *testing.T) {
	env := setupAssessmentTestEnv(t)
	user, course := seedAssessmentCourse(t, env)

	due := time.Date(2026, 3, 5, 14, 30, 0, 0, time.Local)
	assessment := &models.Assessment{
		CourseID: course.ID,
		UserID:   user.ID,
		Name:     "Quiz 1",
		Weight:   10,
		DueDate:  &due,
	}
	require.NoError(t, env.assessmentRepo.Create(assessment))

	body, err := json.Marshal(map[string]string{"date": "2026-03-12"})
	require.NoError(t, err)

	c, w := assessmentTestContext(http.MethodPost, "/api/assessments/1/reschedule", body, user.ID,
		gin.Params{{Key: "id", Value: fmt.Sprint(assessment.ID)}})
	env.handler.Reschedule(c)

	require.Equal(t, http.StatusOK, w.Code)

	stored, err := env.assessmentRepo.FindByID(user.ID, assessment.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DueDate)
	require.Equal(t, "2026-03-12", calendar.DateKey(*stored.DueDate))
	require.Equal(t, 14, stored.DueDate.In(time.Local).Hour())
	require.Equal(t, 30, stored.DueDate.In(time.Local).Minute())
}

func TestAssessmentHandler_Reschedule_SameDayIsNoOp(t *testing.T) {
	env := setupAssessmentTestEnv(t)
	user, course := seedAssessmentCourse(t, env)

	due := time.Date(2026, 3, 5, 14, 30, 0, 0, time.Local)
	assessment := &models.Assessment{
		CourseID: course.ID,
		UserID:   user.ID,
		Name:     "Quiz 1",
		Weight:   10,
		DueDate:  &due,
	}
	require.NoError(t, env.assessmentRepo.Create(assessment))

	body, err := json.Marshal(map[string]string{"date": "2026-03-05"})
	require.NoError(t, err)

	c, w := assessmentTestContext(http.MethodPost, "/api/assessments/1/reschedule", body, user.ID,
		gin.Params{{Key: "id", Value: fmt.Sprint(assessment.ID)}})
	env.handler.Reschedule(c)

	require.Equal(t, http.StatusOK, w.Code)

	// No write happened: the version is untouched and the time unchanged.
	stored, err := env.assessmentRepo.FindByID(user.ID, assessment.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, stored.LockVersion)
	require.True(t, stored.DueDate.Equal(due))
}

func TestAssessmentHandler_Reschedule_InvalidDate(t *testing.T) {
	env := setupAssessmentTestEnv(t)
	user, course := seedAssessmentCourse(t, env)

	assessment := &models.Assessment{
		CourseID: course.ID,
		UserID:   user.ID,
		Name:     "Quiz 1",
		Weight:   10,
	}
	require.NoError(t, env.assessmentRepo.Create(assessment))

	body, err := json.Marshal(map[string]string{"date": "03/05/2026"})
	require.NoError(t, err)

	c, w := assessmentTestContext(http.MethodPost, "/api/assessments/1/reschedule", body, user.ID,
		gin.Params{{Key: "id", Value: fmt.Sprint(assessment.ID)}})
	env.handler.Reschedule(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssessmentHandler_Update_StaleVersionRejected(t *testing.T) {
	env := setupAssessmentTestEnv(t)
	user, course := seedAssessmentCourse(t, env)

	assessment := &models.Assessment{
		CourseID: course.ID,
		UserID:   user.ID,
		Name:     "Midterm",
		Weight:   30,
	}
	require.NoError(t, env.assessmentRepo.Create(assessment))

	// A writer with the current version gets through and bumps it.
	assessment.Weight = 35
	require.NoError(t, env.assessmentRepo.UpdateVersioned(assessment, 0))

	// A second writer still holding version 0 is rejected whole.
	stale := *assessment
	stale.Weight = 99
	err := env.assessmentRepo.UpdateVersioned(&stale, 0)
	require.ErrorIs(t, err, repository.ErrStaleWrite)

	stored, err := env.assessmentRepo.FindByID(user.ID, assessment.ID)
	require.NoError(t, err)
	require.InDelta(t, 35.0, stored.Weight, 1e-9)
}
