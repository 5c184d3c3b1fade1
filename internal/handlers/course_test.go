package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

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

type courseTestEnv struct {
	db             *gorm.DB
	courseHandler  *CourseHandler
	termHandler    *TermHandler
	courseService  *services.CourseService
	assessmentRepo repository.AssessmentRepository
}

func setupCourseTestEnv(t *testing.T) courseTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Term{},
		&models.Course{},
		&models.Assessment{},
		&models.ScheduleItem{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	termRepo := repository.NewTermRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	courseService := services.NewCourseService(
		courseRepo, termRepo, assessmentRepo,
		mutation.NewKeyedSerializer(), grades.NewSandbox(),
	)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return courseTestEnv{
		db:             db,
		courseHandler:  NewCourseHandler(courseService),
		termHandler:    NewTermHandler(courseService),
		courseService:  courseService,
		assessmentRepo: assessmentRepo,
	}
}

func courseTestContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func createCourseTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCourseHandler_Create_LazyTermCreation(t *testing.T) {
	env := setupCourseTestEnv(t)
	user := createCourseTestUser(t, env.db, "student")

	body, err := json.Marshal(map[string]interface{}{
		"code":       "SYDE 301",
		"name":       "Engineering Design",
		"term_label": "3A",
	})
	require.NoError(t, err)

	c, w := courseTestContext(http.MethodPost, "/api/courses", body, user.ID)
	env.courseHandler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)

	// Exactly one placeholder term row exists, and it is not current.
	var terms []models.Term
	require.NoError(t, env.db.Where("user_id = ?", user.ID).Find(&terms).Error)
	require.Len(t, terms, 1)
	require.Equal(t, models.TermLabel("3A"), terms[0].Label)
	require.False(t, terms[0].IsCurrent)
	require.Equal(t, "TBD", terms[0].Season)

	// A second course under the same label reuses the row.
	body, err = json.Marshal(map[string]interface{}{
		"code":       "SYDE 351",
		"name":       "Systems Models",
		"term_label": "3A",
	})
	require.NoError(t, err)

	c, w = courseTestContext(http.MethodPost, "/api/courses", body, user.ID)
	env.courseHandler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, env.db.Where("user_id = ?", user.ID).Find(&terms).Error)
	require.Len(t, terms, 1)
}

func TestCourseHandler_Create_InvalidTermLabel(t *testing.T) {
	env := setupCourseTestEnv(t)
	user := createCourseTestUser(t, env.db, "student")

	body, err := json.Marshal(map[string]interface{}{
		"code":       "SYDE 301",
		"name":       "Engineering Design",
		"term_label": "9Z",
	})
	require.NoError(t, err)

	c, w := courseTestContext(http.MethodPost, "/api/courses", body, user.ID)
	env.courseHandler.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandler_Summary_WeightedAggregate(t *testing.T) {
	env := setupCourseTestEnv(t)
	user := createCourseTestUser(t, env.db, "student")

	course, err := env.courseService.CreateCourse(user.ID, services.CreateCourseInput{
		Code:      "SYDE 301",
		Name:      "Engineering Design",
		TermLabel: "3A",
	})
	require.NoError(t, err)

	score := func(v float64) *float64 { return &v }
	for _, a := range []models.Assessment{
		{CourseID: course.ID, UserID: user.ID, Name: "Assignment 1", Weight: 20, Score: score(80)},
		{CourseID: course.ID, UserID: user.ID, Name: "Midterm", Weight: 30, Score: score(60)},
		{CourseID: course.ID, UserID: user.ID, Name: "Final", Weight: 50},
	} {
		item := a
		require.NoError(t, env.assessmentRepo.Create(&item))
	}

	c, w := courseTestContext(http.MethodGet, "/api/courses/1/summary", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.courseHandler.Summary(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool                   `json:"success"`
		Summary services.CourseSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.InDelta(t, 68.0, response.Summary.Summary.Average, 1e-9)
	require.InDelta(t, 50.0, response.Summary.Summary.Progress, 1e-9)
	require.False(t, response.Summary.Hypothetical)
}

func TestCourseHandler_Hypothetical_RoundTrip(t *testing.T) {
	env := setupCourseTestEnv(t)
	user := createCourseTestUser(t, env.db, "student")

	course, err := env.courseService.CreateCourse(user.ID, services.CreateCourseInput{
		Code:      "SYDE 301",
		Name:      "Engineering Design",
		TermLabel: "3A",
	})
	require.NoError(t, err)

	score := func(v float64) *float64 { return &v }
	final := models.Assessment{CourseID: course.ID, UserID: user.ID, Name: "Final", Weight: 50}
	scored := models.Assessment{CourseID: course.ID, UserID: user.ID, Name: "Midterm", Weight: 50, Score: score(70)}
	require.NoError(t, env.assessmentRepo.Create(&final))
	require.NoError(t, env.assessmentRepo.Create(&scored))

	// Enable what-if mode and try a score for the final.
	summary, err := env.courseService.EnableHypothetical(user.ID, course.ID)
	require.NoError(t, err)
	require.True(t, summary.Hypothetical)

	summary, err = env.courseService.SetHypotheticalScore(user.ID, course.ID, final.ID, score(90))
	require.NoError(t, err)
	require.InDelta(t, 80.0, summary.Summary.Average, 1e-9)

	// The persisted row never changed.
	stored, err := env.assessmentRepo.FindByID(user.ID, final.ID)
	require.NoError(t, err)
	require.Nil(t, stored.Score)

	// Turning the mode off reverts the summary to the authoritative rows.
	env.courseService.DisableHypothetical(user.ID, course.ID)
	after, err := env.courseService.GetCourseSummary(user.ID, course.ID)
	require.NoError(t, err)
	require.False(t, after.Hypothetical)
	require.InDelta(t, 70.0, after.Summary.Average, 1e-9)
}

func TestTermHandler_SetCurrent_SingleCurrentTerm(t *testing.T) {
	env := setupCourseTestEnv(t)
	user := createCourseTestUser(t, env.db, "student")

	termA, err := env.courseService.CreateTerm(user.ID, services.CreateTermInput{Label: "3A", Season: "Fall 2025"})
	require.NoError(t, err)
	termB, err := env.courseService.CreateTerm(user.ID, services.CreateTermInput{Label: "3B", Season: "Winter 2026"})
	require.NoError(t, err)

	require.NoError(t, env.courseService.SetCurrentTerm(user.ID, termA.ID))
	require.NoError(t, env.courseService.SetCurrentTerm(user.ID, termB.ID))

	var current []models.Term
	require.NoError(t, env.db.Where("user_id = ? AND is_current = ?", user.ID, true).Find(&current).Error)
	require.Len(t, current, 1)
	require.Equal(t, termB.ID, current[0].ID)
}

func TestTermHandler_Create_DuplicateLabelConflict(t *testing.T) {
	env := setupCourseTestEnv(t)
	user := createCourseTestUser(t, env.db, "student")

	body, err := json.Marshal(map[string]string{"label": "2B", "season": "Spring 2025"})
	require.NoError(t, err)

	c, w := courseTestContext(http.MethodPost, "/api/terms", body, user.ID)
	env.termHandler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = courseTestContext(http.MethodPost, "/api/terms", body, user.ID)
	env.termHandler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Term{}).
		Where("user_id = ? AND label = ?", user.ID, "2B").
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestTermHandler_Summary_ExcludesEmptyCourses(t *testing.T) {
	env := setupCourseTestEnv(t)
	user := createCourseTestUser(t, env.db, "student")

	withWork, err := env.courseService.CreateCourse(user.ID, services.CreateCourseInput{
		Code:      "SYDE 301",
		Name:      "Engineering Design",
		TermLabel: "3A",
	})
	require.NoError(t, err)
	_, err = env.courseService.CreateCourse(user.ID, services.CreateCourseInput{
		Code:      "SYDE 351",
		Name:      "Systems Models",
		TermLabel: "3A",
	})
	require.NoError(t, err)

	score := 85.0
	require.NoError(t, env.assessmentRepo.Create(&models.Assessment{
		CourseID: withWork.ID,
		UserID:   user.ID,
		Name:     "Quiz 1",
		Weight:   100,
		Score:    &score,
	}))

	summary, err := env.courseService.GetTermSummary(user.ID, withWork.TermID)
	require.NoError(t, err)
	require.Len(t, summary.Courses, 1)
	require.InDelta(t, 85.0, summary.Average, 1e-9)
}
