package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	appControllers "github.com/yigit/classbook/internal/app/controllers"
	appMigrations "github.com/yigit/classbook/internal/app/migrations"
	appRepos "github.com/yigit/classbook/internal/app/repositories"
	appRoutes "github.com/yigit/classbook/internal/app/routes"
	appServices "github.com/yigit/classbook/internal/app/services"
	"github.com/yigit/classbook/internal/config"
	"github.com/yigit/classbook/internal/db"
	appMiddleware "github.com/yigit/classbook/internal/middleware"
	pkgAuth "github.com/yigit/classbook/internal/pkg/auth"
	"github.com/yigit/classbook/internal/pkg/events"
	"github.com/yigit/classbook/internal/pkg/helpers"
	"github.com/yigit/classbook/internal/pkg/logger"
	"github.com/yigit/classbook/internal/pkg/metrics"
	"github.com/yigit/classbook/internal/pkg/tracing"
	"github.com/yigit/classbook/internal/seed"
)

// ConfigPathEnv overrides the default configs/config.yaml location
const ConfigPathEnv = "CONFIG_PATH"

// Publisher is an event publisher that owns a connection
type Publisher interface {
	appServices.EventPublisher
	Close() error
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	CatalogService    appServices.CatalogService
	BookingService    appServices.BookingService
	Sessions          *appServices.Sessions
	ClassController   *appControllers.ClassController
	BookingController *appControllers.BookingController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	JWTService        *pkgAuth.JWTService
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads .env and the configuration file, then
// configures the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := config.LoadDotEnv(); err != nil {
		logger.Error().Err(err).Msg("Failed to load .env file")
		return nil, zerolog.Logger{}, err
	}

	configPath := os.Getenv(ConfigPathEnv)
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: cfg.Logging.Format == "text",
	})

	lgr.Info().
		Str("logLevel", string(logLevel)).
		Str("logFormat", cfg.Logging.Format).
		Strs("envOverrides", cfg.EnvOverrides).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupTracing installs the tracer provider
func SetupTracing(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (tracing.ShutdownFunc, error) {
	return tracing.InitTracerProvider(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
	}, lgr)
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the demo timetable when enabled.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).Migrate(ctx); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Seed.Enabled {
		if err := seed.CreateDefaultData(ctx, database.Pool, time.Now(), cfg.Location(), lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create demo classes, proceeding anyway...")
		}
	}

	return database, nil
}

// SetupPublisher connects to NATS, or falls back to logging events when no
// URL is configured.
func SetupPublisher(cfg *config.Config, lgr zerolog.Logger) (Publisher, error) {
	if cfg.Events.NATSURL == "" {
		lgr.Info().Msg("No NATS URL configured, booking events are logged only")
		return events.NewLogPublisher(lgr), nil
	}

	publisher, err := events.NewNatsPublisher(cfg.Events.NATSURL, cfg.Events.Subject, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect event publisher: %w", err)
	}
	lgr.Info().Str("subject", cfg.Events.Subject).Msg("Publishing booking events to NATS")
	return publisher, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, store appRepos.DBTX, publisher appServices.EventPublisher, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(store)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.CatalogService = appServices.NewCatalogService(
		deps.Repos.ClassTemplateRepository,
		deps.Repos.ClassInstanceRepository,
		lgr,
	)
	deps.BookingService = appServices.NewBookingService(deps.Repos.BookingRepository, publisher, lgr)
	deps.Sessions = appServices.NewSessions(deps.CatalogService, deps.BookingService, appServices.ViewStateConfig{
		Location:    cfg.Location(),
		LoadTimeout: helpers.ParseDuration(cfg.Catalog.LoadTimeout, appServices.DefaultLoadTimeout),
		Logger:      lgr,
	}, helpers.ParseDuration(cfg.Catalog.SessionIdleTimeout, 30*time.Minute))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.ClassController = appControllers.NewClassController(deps.CatalogService, deps.BookingService, deps.Sessions)
	deps.BookingController = appControllers.NewBookingController(deps.CatalogService, deps.BookingService)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(cfg.Tracing.ServiceName),
		metrics.Middleware(),
		appMiddleware.RequestLogger(lgr),
	)

	appRoutes.SetupRouter(router,
		deps.ClassController,
		deps.BookingController,
		deps.AuthMiddleware,
	)

	return router
}
