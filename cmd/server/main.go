package main

import (
	"log"

	"github.com/Bilal-Albezreh/sydekick-api/internal/config"
	"github.com/Bilal-Albezreh/sydekick-api/internal/constants"
	"github.com/Bilal-Albezreh/sydekick-api/internal/database"
	"github.com/Bilal-Albezreh/sydekick-api/internal/grades"
	"github.com/Bilal-Albezreh/sydekick-api/internal/handlers"
	"github.com/Bilal-Albezreh/sydekick-api/internal/middleware"
	"github.com/Bilal-Albezreh/sydekick-api/internal/mutation"
	"github.com/Bilal-Albezreh/sydekick-api/internal/repository"
	"github.com/Bilal-Albezreh/sydekick-api/internal/services"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	termRepo := repository.NewTermRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)
	focusRepo := repository.NewFocusRepository(db)
	squadRepo := repository.NewSquadRepository(db)

	// Shared mutation machinery
	serializer := mutation.NewKeyedSerializer()
	sandbox := grades.NewSandbox()

	// Services
	authService := services.NewAuthService(userRepo)
	courseService := services.NewCourseService(courseRepo, termRepo, assessmentRepo, serializer, sandbox)
	assessmentService := services.NewAssessmentService(assessmentRepo, courseRepo, serializer)
	taskService := services.NewTaskService(taskRepo, courseRepo, serializer)
	calendarService := services.NewCalendarService(assessmentRepo, interviewRepo, taskRepo)
	focusService := services.NewFocusService(focusRepo)
	squadService := services.NewSquadService(squadRepo, courseRepo, assessmentRepo, courseService)

	var syllabusService *services.SyllabusService
	if cfg.OpenAIAPIKey != "" {
		syllabusService = services.NewSyllabusService(cfg.OpenAIAPIKey)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	termHandler := handlers.NewTermHandler(courseService)
	courseHandler := handlers.NewCourseHandler(courseService)
	assessmentHandler := handlers.NewAssessmentHandler(assessmentService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleRepo, courseRepo)
	taskHandler := handlers.NewTaskHandler(taskService)
	interviewHandler := handlers.NewInterviewHandler(interviewRepo)
	calendarHandler := handlers.NewCalendarHandler(calendarService)
	focusHandler := handlers.NewFocusHandler(focusService)
	squadHandler := handlers.NewSquadHandler(squadService)
	syllabusHandler := handlers.NewSyllabusHandler(syllabusService)

	// Janitor: abandon focus sessions left open long past their duration
	janitor := cron.New()
	if _, err := janitor.AddFunc("*/10 * * * *", focusService.AbandonStale); err != nil {
		log.Fatalf("Failed to schedule focus janitor: %v", err)
	}
	janitor.Start()
	defer janitor.Stop()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "SydeKick API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Profile (protected)
		api.PUT("/profile", middleware.RequireAuth(), authHandler.UpdateProfile)

		// Term routes (protected)
		terms := api.Group("/terms")
		terms.Use(middleware.RequireAuth())
		{
			terms.GET("", termHandler.List)
			terms.POST("", termHandler.Create)
			terms.PATCH("/:id", termHandler.Update)
			terms.DELETE("/:id", termHandler.Delete)
			terms.POST("/:id/set-current", termHandler.SetCurrent)
			terms.GET("/:id/summary", termHandler.Summary)
		}

		// Course routes (protected)
		courses := api.Group("/courses")
		courses.Use(middleware.RequireAuth())
		{
			courses.GET("", courseHandler.List)
			courses.POST("", courseHandler.Create)
			courses.GET("/:id", courseHandler.Get)
			courses.PATCH("/:id", courseHandler.Update)
			courses.DELETE("/:id", courseHandler.Delete)
			courses.GET("/:id/summary", courseHandler.Summary)
			courses.POST("/:id/hypothetical", courseHandler.EnableHypothetical)
			courses.PATCH("/:id/hypothetical/assessments/:assessmentID", courseHandler.SetHypotheticalScore)
			courses.DELETE("/:id/hypothetical", courseHandler.DisableHypothetical)
			courses.GET("/:id/assessments", assessmentHandler.ListByCourse)
			courses.POST("/:id/assessments", assessmentHandler.Create)
		}

		// Assessment routes (protected)
		assessments := api.Group("/assessments")
		assessments.Use(middleware.RequireAuth())
		{
			assessments.PATCH("/:id", assessmentHandler.Update)
			assessments.DELETE("/:id", assessmentHandler.Delete)
			assessments.POST("/:id/toggle", assessmentHandler.Toggle)
			assessments.POST("/:id/reschedule", assessmentHandler.Reschedule)
		}

		// Weekly schedule routes (protected)
		schedule := api.Group("/schedule")
		schedule.Use(middleware.RequireAuth())
		{
			schedule.GET("", scheduleHandler.List)
			schedule.POST("", scheduleHandler.Create)
			schedule.PATCH("/:id", scheduleHandler.Update)
			schedule.DELETE("/:id", scheduleHandler.Delete)
		}

		// Task list routes (protected)
		taskLists := api.Group("/task-lists")
		taskLists.Use(middleware.RequireAuth())
		{
			taskLists.GET("", taskHandler.ListLists)
			taskLists.POST("", taskHandler.CreateList)
			taskLists.PATCH("/:id", taskHandler.RenameList)
			taskLists.DELETE("/:id", taskHandler.DeleteList)
			taskLists.POST("/:id/reorder", taskHandler.Reorder)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/toggle", taskHandler.ToggleTask)
			tasks.POST("/:id/reschedule", taskHandler.RescheduleTask)
		}

		// Interview routes (protected)
		interviews := api.Group("/interviews")
		interviews.Use(middleware.RequireAuth())
		{
			interviews.GET("", interviewHandler.List)
			interviews.POST("", interviewHandler.Create)
			interviews.PATCH("/:id", interviewHandler.Update)
			interviews.DELETE("/:id", interviewHandler.Delete)
		}

		// Calendar (protected)
		api.GET("/calendar", middleware.RequireAuth(), calendarHandler.Range)

		// Focus timer routes (protected)
		focus := api.Group("/focus")
		focus.Use(middleware.RequireAuth())
		{
			focus.POST("/start", focusHandler.Start)
			focus.POST("/:id/complete", focusHandler.Complete)
			focus.GET("/sessions", focusHandler.List)
			focus.GET("/stats", focusHandler.Stats)
		}

		// Squad routes (protected)
		squads := api.Group("/squads")
		squads.Use(middleware.RequireAuth())
		{
			squads.POST("", squadHandler.Create)
			squads.GET("", squadHandler.List)
			squads.POST("/join", squadHandler.Join)
			squads.GET("/:id", middleware.RequireSquadAccess(), squadHandler.Get)
			squads.PATCH("/:id", middleware.RequireSquadAccess(), middleware.RequireSquadLeader(), squadHandler.Update)
			squads.DELETE("/:id", middleware.RequireSquadAccess(), middleware.RequireSquadLeader(), squadHandler.Delete)
			squads.POST("/:id/regenerate-code", middleware.RequireSquadAccess(), middleware.RequireSquadLeader(), squadHandler.RegenerateCode)
			squads.DELETE("/:id/members/:userID", middleware.RequireSquadAccess(), middleware.RequireSquadLeader(), squadHandler.RemoveMember)
			squads.POST("/:id/leave", middleware.RequireSquadAccess(), squadHandler.Leave)
			squads.POST("/:id/templates", middleware.RequireSquadAccess(), middleware.RequireSquadLeader(), squadHandler.ShareCourse)
		}

		// Syllabus extraction (protected)
		api.POST("/syllabus/parse", middleware.RequireAuth(), syllabusHandler.Parse)
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
