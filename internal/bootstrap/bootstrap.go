package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/twaaos/examscheduler/internal/app/auth"
	appControllers "github.com/twaaos/examscheduler/internal/app/controllers"
	appMigrations "github.com/twaaos/examscheduler/internal/app/migrations"
	appRepos "github.com/twaaos/examscheduler/internal/app/repositories"
	appRoutes "github.com/twaaos/examscheduler/internal/app/routes"
	appServices "github.com/twaaos/examscheduler/internal/app/services"
	"github.com/twaaos/examscheduler/internal/config"
	"github.com/twaaos/examscheduler/internal/db"
	appMiddleware "github.com/twaaos/examscheduler/internal/middleware"
	pkgAuth "github.com/twaaos/examscheduler/internal/pkg/auth"
	"github.com/twaaos/examscheduler/internal/pkg/collectorclient"
	"github.com/twaaos/examscheduler/internal/pkg/email"
	"github.com/twaaos/examscheduler/internal/pkg/filestorage"
	"github.com/twaaos/examscheduler/internal/pkg/google"
	"github.com/twaaos/examscheduler/internal/pkg/helpers"
	"github.com/twaaos/examscheduler/internal/pkg/logger"
	"github.com/twaaos/examscheduler/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Database       *db.PostgresDB
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format, "api"))

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, applies migrations and seeds the admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr.With().Str("component", "migrate").Logger())
	if err := migrator.Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.AdminAccount{Email: cfg.Admin.Email, Password: cfg.Admin.Password}
	if err := seed.CreateDefaultData(ctx, appRepos.NewUserRepository(database.Pool), admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Database: database, Logger: lgr}
	repos := appRepos.NewRepositories(database.Pool)
	deps.Repos = repos

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 30*time.Minute),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(repos.SubjectRepository, repos.ScheduleRepository)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	verifier := google.NewVerifier(cfg.Google.ClientID)
	if _, dev := verifier.(google.DevVerifier); dev {
		lgr.Warn().Msg("GOOGLE_CLIENT_ID not set, accepting development login tokens")
	}

	sender := email.NewSender(email.Config{
		APIKey:    cfg.SendGrid.APIKey,
		FromEmail: cfg.SendGrid.FromEmail,
		FromName:  cfg.SendGrid.FromName,
	}, lgr.With().Str("component", "email").Logger())
	notifier := appServices.NewNotifier(sender, repos.NotificationRepository, lgr)

	authService := appServices.NewAuthService(
		repos.UserRepository,
		repos.GroupRepository,
		deps.JWTService,
		verifier,
		cfg.GoogleAllowedDomains(),
		lgr,
	)
	scheduleService := appServices.NewScheduleService(
		repos.ScheduleRepository,
		repos.SubjectRepository,
		repos.RoomRepository,
		repos.UserRepository,
		appServices.ScheduleOptions{BlockOnConflict: cfg.Schedule.BlockOnConflict},
		lgr,
	)
	examService := appServices.NewExamService(appServices.ExamDeps{
		ExamRepo:     repos.ExamRepository,
		ScheduleRepo: repos.ScheduleRepository,
		SubjectRepo:  repos.SubjectRepository,
		GroupRepo:    repos.GroupRepository,
		UserRepo:     repos.UserRepository,
		RoomRepo:     repos.RoomRepository,
		PeriodRepo:   repos.ExamPeriodRepository,
		Schedules:    scheduleService,
		Authz:        deps.AuthzService,
		Notifier:     notifier,
	}, lgr)
	configService := appServices.NewConfigService(
		repos.ExamPeriodRepository,
		repos.ScheduleRepository,
		repos.UserRepository,
		notifier,
		lgr,
	)
	syncService := appServices.NewSyncService(appServices.SyncDeps{
		ScheduleRepo:     repos.ScheduleRepository,
		SubjectRepo:      repos.SubjectRepository,
		NotificationRepo: repos.NotificationRepository,
		UserRepo:         repos.UserRepository,
		RoomRepo:         repos.RoomRepository,
		GroupRepo:        repos.GroupRepository,
		TemplateRepo:     repos.ExcelTemplateRepository,
		Collector: collectorclient.New(collectorclient.Config{
			BaseURL: cfg.Sync.CollectorURL,
			Timeout: helpers.ParseDuration(cfg.Sync.Timeout, 5*time.Minute),
		}),
		Transactor: database,
		Files:      filestorage.NewLocalStorage("."),
	}, appServices.SyncOptions{
		FixtureDelay:  helpers.ParseDuration(cfg.Sync.FixtureDelay, 500*time.Millisecond),
		FixtureGroup:  cfg.Sync.FixtureGroup,
		TemplatePath:  cfg.Sync.TemplatePath,
		AdminPassword: cfg.Sync.AdminPassword,
	}, lgr.With().Str("component", "sync").Logger())

	deps.Controllers = appRoutes.Controllers{
		Auth:          appControllers.NewAuthController(authService, lgr),
		User:          appControllers.NewUserController(appServices.NewUserService(repos.UserRepository, repos.GroupRepository, lgr)),
		Group:         appControllers.NewGroupController(appServices.NewGroupService(repos.GroupRepository)),
		Room:          appControllers.NewRoomController(appServices.NewRoomService(repos.RoomRepository)),
		Subject:       appControllers.NewSubjectController(appServices.NewSubjectService(repos.SubjectRepository, repos.UserRepository, repos.GroupRepository)),
		Schedule:      appControllers.NewScheduleController(scheduleService, lgr),
		Exam:          appControllers.NewExamController(examService, lgr),
		Config:        appControllers.NewConfigController(configService),
		Notification:  appControllers.NewNotificationController(appServices.NewNotificationService(repos.NotificationRepository, repos.UserRepository)),
		ExcelTemplate: appControllers.NewExcelTemplateController(appServices.NewExcelTemplateService(repos.ExcelTemplateRepository, repos.GroupRepository)),
		Excel:         appControllers.NewExcelController(appServices.NewExcelService(repos.UserRepository, repos.GroupRepository, lgr), lgr),
		Sync:          appControllers.NewSyncController(syncService, lgr),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr), appMiddleware.CORS())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	if deps.Database != nil {
		router.GET("/ready", readiness(deps.Database, lgr))
	}

	return router
}

// readiness answers 503 while the database is unreachable
func readiness(database *db.PostgresDB, lgr zerolog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := database.Ping(ctx.Request.Context()); err != nil {
			lgr.Warn().Err(err).Msg("Readiness check failed")
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
