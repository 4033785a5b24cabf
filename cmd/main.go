package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/aulago/campus/config"
	"github.com/aulago/campus/database"
	_ "github.com/aulago/campus/docs" // Swagger docs
	authctrl "github.com/aulago/campus/internal/controller/auth"
	"github.com/aulago/campus/internal/controller/middleware"
	studentctrl "github.com/aulago/campus/internal/controller/student"
	teacherctrl "github.com/aulago/campus/internal/controller/teacher"
	userctrl "github.com/aulago/campus/internal/controller/user"
	"github.com/aulago/campus/internal/logger"
	"github.com/aulago/campus/internal/model"
	"github.com/aulago/campus/internal/repository"
	"github.com/aulago/campus/internal/service"
)

// @title Campus API
// @version 1.0
// @description Course management API with AI-generated exercises, timed exams with AI-assisted grading, forums, a personal calendar and a tutoring chat.
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewExamRepository,
			repository.NewExerciseRepository,
			repository.NewExerciseSetRepository,
			repository.NewForumRepository,
			repository.NewEventRepository,
			repository.NewChatRepository,
		),

		fx.Provide(
			service.NewCompletionService,
			service.DefaultPromptCatalog,
			service.NewExerciseGeneratorService,
			service.NewPrefixVerdictParser,
			service.NewMailer,
			service.NewAuthService,
			service.NewExamService,
			service.NewExamSubmissionService,
			service.NewExerciseSetService,
			service.NewForumService,
			service.NewCalendarService,
			service.NewChatService,
		),

		fx.Provide(
			authctrl.NewAuthController,
			studentctrl.NewExamController,
			studentctrl.NewExerciseSetController,
			studentctrl.NewChatController,
			userctrl.NewProfileController,
			userctrl.NewForumController,
			userctrl.NewCalendarController,
			teacherctrl.NewTeacherController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(StartBackgroundJobs),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	userRepo repository.UserRepository,
	authCtrl *authctrl.AuthController,
	examCtrl *studentctrl.ExamController,
	setCtrl *studentctrl.ExerciseSetController,
	chatCtrl *studentctrl.ChatController,
	profileCtrl *userctrl.ProfileController,
	forumCtrl *userctrl.ForumController,
	calendarCtrl *userctrl.CalendarController,
	teacherCtrl *teacherctrl.TeacherController,
) {
	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register/student", authCtrl.RegisterStudent)
		authGroup.POST("/register/teacher", authCtrl.RegisterTeacher)
		authGroup.GET("/activate/:token", authCtrl.Activate)
		authGroup.POST("/login", authCtrl.Login)
	}

	authed := api.Group("")
	authed.Use(middleware.Auth(cfg, userRepo))
	{
		authed.GET("/profile", profileCtrl.GetProfile)
		authed.PUT("/profile", profileCtrl.UpdateProfile)

		authed.GET("/forums", forumCtrl.ListForums)
		authed.POST("/forums", forumCtrl.CreateForum)
		authed.GET("/forums/:forum_id", forumCtrl.GetForum)
		authed.DELETE("/forums/:forum_id", forumCtrl.DeleteForum)
		authed.POST("/forums/:forum_id/comments", forumCtrl.AddComment)

		authed.GET("/calendar/events", calendarCtrl.ListEvents)
		authed.POST("/calendar/events", calendarCtrl.CreateEvent)
		authed.PUT("/calendar/events/:event_id", calendarCtrl.UpdateEvent)
		authed.DELETE("/calendar/events/:event_id", calendarCtrl.DeleteEvent)
	}

	// Read endpoints stay open to any authenticated user; the services
	// decide per record whether the requester is the owning student or an
	// approved teacher. Only the mutating endpoints are student-gated.
	studentGroup := api.Group("/student")
	studentGroup.Use(middleware.Auth(cfg, userRepo))
	{
		studentGroup.GET("/exams", examCtrl.ListExams)
		studentGroup.GET("/exams/:exam_id", examCtrl.GetExam)
		studentGroup.GET("/exams/:exam_id/archive", examCtrl.GetArchivedExam)
		studentGroup.GET("/exercise-sets", setCtrl.ListSets)
		studentGroup.GET("/exercise-sets/:set_id", setCtrl.GetSet)

		studentOnly := studentGroup.Group("")
		studentOnly.Use(middleware.RequireRole(model.RoleStudent))
		{
			studentOnly.POST("/exams", examCtrl.CreateExam)
			studentOnly.POST("/exams/:exam_id/submit", examCtrl.SubmitExam)
			studentOnly.POST("/exercise-sets", setCtrl.CreateSet)
			studentOnly.GET("/chat", chatCtrl.GetChat)
			studentOnly.POST("/chat", chatCtrl.SendMessage)
		}
	}

	teacherGroup := api.Group("/teacher")
	teacherGroup.Use(middleware.Auth(cfg, userRepo), middleware.RequireApprovedTeacher())
	{
		teacherGroup.GET("/pending", teacherCtrl.ListPendingTeachers)
		teacherGroup.POST("/pending/:teacher_id/approve", teacherCtrl.ApproveTeacher)
		teacherGroup.POST("/pending/:teacher_id/reject", teacherCtrl.RejectTeacher)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Campus API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// StartBackgroundJobs runs the event reminder sweep and the unactivated
// account janitor until shutdown.
func StartBackgroundJobs(lc fx.Lifecycle, calendarService service.CalendarService, authService service.AuthService) {
	stop := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				reminderTicker := time.NewTicker(15 * time.Minute)
				janitorTicker := time.NewTicker(time.Hour)
				defer reminderTicker.Stop()
				defer janitorTicker.Stop()
				for {
					select {
					case <-reminderTicker.C:
						if _, err := calendarService.SendDueReminders(time.Now()); err != nil {
							log.Error().Err(err).Msg("Background reminder sweep failed")
						}
					case <-janitorTicker.C:
						if _, err := authService.CleanupUnactivated(time.Now()); err != nil {
							log.Error().Err(err).Msg("Background account cleanup failed")
						}
					case <-stop:
						return
					}
				}
			}()
			log.Info().Msg("Background jobs started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.ExerciseSet{},
		&model.Exam{},
		&model.Exercise{},
		&model.Forum{},
		&model.ForumComment{},
		&model.Event{},
		&model.Chat{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
