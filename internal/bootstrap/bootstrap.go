package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/okandemir/studenthub/internal/app/controllers"
	appMigrations "github.com/okandemir/studenthub/internal/app/migrations"
	appRepos "github.com/okandemir/studenthub/internal/app/repositories"
	appRoutes "github.com/okandemir/studenthub/internal/app/routes"
	appServices "github.com/okandemir/studenthub/internal/app/services"
	"github.com/okandemir/studenthub/internal/config"
	"github.com/okandemir/studenthub/internal/db"
	appMiddleware "github.com/okandemir/studenthub/internal/middleware"
	pkgAuth "github.com/okandemir/studenthub/internal/pkg/auth"
	"github.com/okandemir/studenthub/internal/pkg/helpers"
	"github.com/okandemir/studenthub/internal/pkg/logger"
	"github.com/okandemir/studenthub/internal/pkg/report"
	"github.com/okandemir/studenthub/internal/pkg/studentid"
	"github.com/okandemir/studenthub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	Generator         *studentid.Generator
	ReportRegistry    *report.Registry
	ReportStore       *report.Store
	AuthService       *appServices.AuthService
	StudentService    *appServices.StudentService
	UserService       *appServices.UserService
	ReportService     *appServices.ReportService
	AuthController    *appControllers.AuthController
	StudentController *appControllers.StudentController
	UserController    *appControllers.UserController
	ReportController  *appControllers.ReportController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations applied")

	// Roles must exist before any account insert resolves a role_id.
	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg.Admin.Password, lgr); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("seeding default data failed: %w", err)
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Generator = studentid.NewGenerator(deps.Repos.StudentRepository)

	registry, err := buildReportRegistry(cfg, lgr)
	if err != nil {
		return nil, err
	}
	deps.ReportRegistry = registry

	deps.ReportStore, err = report.NewStore(cfg.Reports.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report store: %w", err)
	}

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.UserRepository,
		deps.Repos.StudentRepository,
		deps.Generator,
		lgr,
	)
	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		lgr,
	)
	deps.ReportService = appServices.NewReportService(
		deps.Repos.StudentRepository,
		deps.ReportRegistry,
		deps.ReportStore,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.ReportController = appControllers.NewReportController(deps.ReportService)

	return deps, nil
}

// buildReportRegistry enables the renderers named in configuration on top of
// the always-registered text fallback.
func buildReportRegistry(cfg *config.Config, lgr zerolog.Logger) (*report.Registry, error) {
	var renderers []report.Renderer
	for _, name := range cfg.Reports.Formats {
		format, err := report.ParseFormat(name)
		if err != nil {
			return nil, fmt.Errorf("invalid report format in configuration: %w", err)
		}
		switch format {
		case report.FormatPDF:
			renderers = append(renderers, report.NewPDFRenderer())
		case report.FormatExcel:
			renderers = append(renderers, report.NewExcelRenderer())
		case report.FormatText:
			// Already the fallback.
		}
	}

	lgr.Info().Strs("formats", cfg.Reports.Formats).Msg("Report renderers enabled")
	return report.NewRegistry(report.NewTextRenderer(), renderers...), nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.UserController,
		deps.ReportController,
		deps.AuthMiddleware,
	)

	return router
}
