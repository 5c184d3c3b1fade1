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
	"github.com/Bilal-Albezreh/sydekick-api/internal/dto"
	"github.com/Bilal-Albezreh/sydekick-api/internal/grades"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/Bilal-Albezreh/sydekick-api/internal/mutation"
	"github.com/Bilal-Albezreh/sydekick-api/internal/repository"
	"github.com/Bilal-Albezreh/sydekick-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type squadTestEnv struct {
	db             *gorm.DB
	handler        *SquadHandler
	squadService   *services.SquadService
	courseService  *services.CourseService
	assessmentRepo repository.AssessmentRepository
	courseRepo     repository.CourseRepository
}

func setupSquadTestEnv(t *testing.T) squadTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Term{},
		&models.Course{},
		&models.Assessment{},
		&models.Squad{},
		&models.SquadMember{},
		&models.SquadCourseTemplate{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	termRepo := repository.NewTermRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	squadRepo := repository.NewSquadRepository(db)
	courseService := services.NewCourseService(
		courseRepo, termRepo, assessmentRepo,
		mutation.NewKeyedSerializer(), grades.NewSandbox(),
	)
	squadService := services.NewSquadService(squadRepo, courseRepo, assessmentRepo, courseService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return squadTestEnv{
		db:             db,
		handler:        NewSquadHandler(squadService),
		squadService:   squadService,
		courseService:  courseService,
		assessmentRepo: assessmentRepo,
		courseRepo:     courseRepo,
	}
}

func squadTestContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
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

func createSquadTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestSquadHandler_Create(t *testing.T) {
	env := setupSquadTestEnv(t)
	leader := createSquadTestUser(t, env.db, "leader")

	body, err := json.Marshal(map[string]string{"name": "SYDE 2028"})
	require.NoError(t, err)

	c, w := squadTestContext(http.MethodPost, "/api/squads", body, leader.ID)
	env.handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Success bool         `json:"success"`
		Squad   dto.SquadDTO `json:"squad"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "SYDE 2028", response.Squad.Name)
	require.Len(t, response.Squad.InviteCode, 14)

	member, err := repository.NewSquadRepository(env.db).FindMember(response.Squad.ID, leader.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleLeader, member.Role)
}

func TestSquadHandler_Join_ClonesTemplates(t *testing.T) {
	env := setupSquadTestEnv(t)
	leader := createSquadTestUser(t, env.db, "leader")
	joiner := createSquadTestUser(t, env.db, "joiner")

	squad, err := env.squadService.Create(leader.ID, "SYDE 2028")
	require.NoError(t, err)

	// The leader shares a course with two assessments.
	course, err := env.courseService.CreateCourse(leader.ID, services.CreateCourseInput{
		Code:      "SYDE 301",
		Name:      "Engineering Design",
		TermLabel: "3A",
	})
	require.NoError(t, err)
	score := 90.0
	require.NoError(t, env.assessmentRepo.Create(&models.Assessment{
		CourseID: course.ID, UserID: leader.ID, Name: "Midterm", Type: models.AssessmentExam, Weight: 40, Score: &score,
	}))
	require.NoError(t, env.assessmentRepo.Create(&models.Assessment{
		CourseID: course.ID, UserID: leader.ID, Name: "Final", Type: models.AssessmentExam, Weight: 60,
	}))

	_, err = env.squadService.ShareCourse(leader.ID, squad.ID, course.ID)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]string{"invite_code": squad.InviteCode})
	require.NoError(t, err)

	c, w := squadTestContext(http.MethodPost, "/api/squads/join", body, joiner.ID)
	env.handler.Join(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success       bool `json:"success"`
		ClonedCourses int  `json:"cloned_courses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 1, response.ClonedCourses)

	// The joiner owns a fresh copy of the course skeleton. Scores are not
	// part of the template.
	courses, err := env.courseRepo.ListByUser(joiner.ID, nil)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "SYDE 301", courses[0].Code)

	cloned, err := env.assessmentRepo.ListByCourse(joiner.ID, courses[0].ID)
	require.NoError(t, err)
	require.Len(t, cloned, 2)
	for _, a := range cloned {
		require.Nil(t, a.Score)
	}
}

func TestSquadHandler_Join_InvalidCode(t *testing.T) {
	env := setupSquadTestEnv(t)
	user := createSquadTestUser(t, env.db, "user")

	body, err := json.Marshal(map[string]string{"invite_code": "XXXX-XXXX-XXXX"})
	require.NoError(t, err)

	c, w := squadTestContext(http.MethodPost, "/api/squads/join", body, user.ID)
	env.handler.Join(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSquadHandler_Join_Twice(t *testing.T) {
	env := setupSquadTestEnv(t)
	leader := createSquadTestUser(t, env.db, "leader")
	joiner := createSquadTestUser(t, env.db, "joiner")

	squad, err := env.squadService.Create(leader.ID, "SYDE 2028")
	require.NoError(t, err)

	_, err = env.squadService.Join(joiner.ID, squad.InviteCode)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]string{"invite_code": squad.InviteCode})
	require.NoError(t, err)

	c, w := squadTestContext(http.MethodPost, "/api/squads/join", body, joiner.ID)
	env.handler.Join(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestSquadService_LeaderCannotLeave(t *testing.T) {
	env := setupSquadTestEnv(t)
	leader := createSquadTestUser(t, env.db, "leader")

	squad, err := env.squadService.Create(leader.ID, "SYDE 2028")
	require.NoError(t, err)

	err = env.squadService.Leave(leader.ID, squad.ID)
	require.ErrorIs(t, err, services.ErrLeaderCannotLeave)
}

func TestSquadService_MemberLeaves(t *testing.T) {
	env := setupSquadTestEnv(t)
	leader := createSquadTestUser(t, env.db, "leader")
	joiner := createSquadTestUser(t, env.db, "joiner")

	squad, err := env.squadService.Create(leader.ID, "SYDE 2028")
	require.NoError(t, err)
	_, err = env.squadService.Join(joiner.ID, squad.InviteCode)
	require.NoError(t, err)

	require.NoError(t, env.squadService.Leave(joiner.ID, squad.ID))

	memberships, err := env.squadService.ListForUser(joiner.ID)
	require.NoError(t, err)
	require.Empty(t, memberships)
}

func TestSquadService_RegenerateInviteCode(t *testing.T) {
	env := setupSquadTestEnv(t)
	leader := createSquadTestUser(t, env.db, "leader")

	squad, err := env.squadService.Create(leader.ID, "SYDE 2028")
	require.NoError(t, err)
	oldCode := squad.InviteCode

	updated, err := env.squadService.RegenerateInviteCode(squad.ID)
	require.NoError(t, err)
	require.NotEqual(t, oldCode, updated.InviteCode)

	// The old code no longer grants entry.
	outsider := createSquadTestUser(t, env.db, "outsider")
	_, err = env.squadService.Join(outsider.ID, oldCode)
	require.ErrorIs(t, err, services.ErrInvalidInviteCode)
}

func TestSquadHandler_Get_InviteCodeOnlyForLeader(t *testing.T) {
	env := setupSquadTestEnv(t)
	leader := createSquadTestUser(t, env.db, "leader")
	joiner := createSquadTestUser(t, env.db, "joiner")

	squad, err := env.squadService.Create(leader.ID, "SYDE 2028")
	require.NoError(t, err)
	_, err = env.squadService.Join(joiner.ID, squad.InviteCode)
	require.NoError(t, err)

	squadRepo := repository.NewSquadRepository(env.db)

	type detailEnvelope struct {
		Success bool               `json:"success"`
		Squad   dto.SquadDetailDTO `json:"squad"`
	}

	getAs := func(userID uint64) detailEnvelope {
		member, err := squadRepo.FindMember(squad.ID, userID)
		require.NoError(t, err)

		c, w := squadTestContext(http.MethodGet, "/api/squads/1", nil, userID)
		c.Set("squad", *squad)
		c.Set("squad_member", *member)
		env.handler.Get(c)

		require.Equal(t, http.StatusOK, w.Code)
		var resp detailEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	asLeader := getAs(leader.ID)
	require.Equal(t, squad.InviteCode, asLeader.Squad.InviteCode)

	asMember := getAs(joiner.ID)
	require.Empty(t, asMember.Squad.InviteCode)
	require.Len(t, asMember.Squad.Members, 2)
}
