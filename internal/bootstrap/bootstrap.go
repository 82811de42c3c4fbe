package bootstrap

import (
	"context"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/attendance/internal/app/controllers"
	appMigrations "github.com/yigit/attendance/internal/app/migrations"
	appRepos "github.com/yigit/attendance/internal/app/repositories"
	appRoutes "github.com/yigit/attendance/internal/app/routes"
	appServices "github.com/yigit/attendance/internal/app/services"
	"github.com/yigit/attendance/internal/config"
	"github.com/yigit/attendance/internal/db"
	appMiddleware "github.com/yigit/attendance/internal/middleware"
	pkgAuth "github.com/yigit/attendance/internal/pkg/auth"
	"github.com/yigit/attendance/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase creates the pool, waits for the server with bounded retries and
// applies the schema. A database that never answers is logged and reported as
// not connected; the process keeps serving and requests fail with driver errors.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, bool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to create database pool")
		return nil, false, err
	}

	policy := db.RetryPolicy{
		MaxAttempts: cfg.Database.ConnectAttempts,
		Step:        cfg.ConnectRetryStep(),
	}
	supervisor := db.NewSupervisor(database, policy, lgr)
	if err := supervisor.Connect(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database unavailable, continuing without schema setup")
		return database, false, nil
	}
	lgr.Info().Msg("Database connection successfully established.")

	RunMigrations(ctx, database, lgr)
	return database, true, nil
}

// RunMigrations applies every schema step, logging failures without stopping
func RunMigrations(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) {
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database, lgr)
	if err := migrator.Run(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration finished with errors")
		return
	}
	lgr.Info().Msg("Database migrations successfully applied.")
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		Expiration:  cfg.JWTExpiration(),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Health:     appControllers.NewHealthController(database),
		Auth:       appControllers.NewAuthController(deps.Services.AuthService, lgr),
		User:       appControllers.NewUserController(deps.Services.UserService, lgr),
		Attendance: appControllers.NewAttendanceController(deps.Services.AttendanceService, lgr),
		Grade:      appControllers.NewGradeController(deps.Services.GradeService, lgr),
	}

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
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(cors.New(corsConfig(cfg.CORS.AllowedOrigins)))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, appRoutes.Options{
		EnforceRoles: cfg.Auth.EnforceRoles,
		EnableSeed:   !cfg.IsProduction(),
	})

	if cfg.Auth.EnforceRoles {
		lgr.Info().Msg("Role enforcement enabled")
	}
	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", appMiddleware.RequestIDHeader},
		ExposeHeaders: []string{appMiddleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	}
	return c
}
