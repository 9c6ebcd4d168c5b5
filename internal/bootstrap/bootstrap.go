// Package bootstrap loads configuration and assembles the application graph.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/researchdesk/internal/app/auth"
	appControllers "github.com/yigit/researchdesk/internal/app/controllers"
	appMigrations "github.com/yigit/researchdesk/internal/app/migrations"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	appRepos "github.com/yigit/researchdesk/internal/app/repositories"
	appRoutes "github.com/yigit/researchdesk/internal/app/routes"
	appServices "github.com/yigit/researchdesk/internal/app/services"
	"github.com/yigit/researchdesk/internal/config"
	"github.com/yigit/researchdesk/internal/db"
	appMiddleware "github.com/yigit/researchdesk/internal/middleware"
	pkgAuth "github.com/yigit/researchdesk/internal/pkg/auth"
	"github.com/yigit/researchdesk/internal/pkg/filestorage"
	"github.com/yigit/researchdesk/internal/pkg/logger"
	"github.com/yigit/researchdesk/internal/pkg/metrics"
	"github.com/yigit/researchdesk/internal/pkg/validation"
	"github.com/yigit/researchdesk/internal/seed"
	"github.com/yigit/researchdesk/migrations"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos        *appRepos.Repositories
	FileStorage  *filestorage.LocalStorage
	JWTService   *pkgAuth.JWTService
	AuthzService *appAuth.AuthorizationService

	AuthService        *appServices.AuthService
	ResearchService    appServices.ResearchService
	ProposalService    appServices.ProposalService
	MemberService      appServices.MemberService
	PublicationService appServices.PublicationService
	UtilizationService appServices.UtilizationService
	DashboardService   appServices.DashboardService
	UserService        appServices.UserService

	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger reads .env (when present) and the YAML config,
// then configures the global logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Err(err).Msg("Failed to read .env file")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.ConfigureFromStrings(cfg.Logging.Level, cfg.Logging.Format)
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and applies pending migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := RunMigrations(context.Background(), database, lgr); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// RunMigrations applies the embedded SQL files that are not yet recorded.
func RunMigrations(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(database.Pool, lgr).Migrate(ctx, migrations.FS)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("files", applied).Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(database)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.PublicURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	accessTTL, err := time.ParseDuration(cfg.JWT.AccessTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: accessTTL,
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.UserRepository)

	repos := deps.Repos
	analytics := appServices.AnalyticsFromConfig(cfg)
	now := appServices.Clock(time.Now)

	deps.AuthService = appServices.NewAuthService(repos.UserRepository, deps.JWTService, now, lgr)
	deps.ResearchService = appServices.NewResearchService(database, repos.ResearchRepository, repos.MemberRepository,
		repos.MembershipRepository, repos.UtilizationRepository, deps.FileStorage, lgr)
	deps.ProposalService = appServices.NewProposalService(repos.ResearchRepository, deps.FileStorage, lgr)
	deps.MemberService = appServices.NewMemberService(repos.MemberRepository, repos.MembershipRepository, deps.FileStorage, lgr)
	deps.PublicationService = appServices.NewPublicationService(database, repos.PublicationRepository, repos.MemberRepository,
		repos.MembershipRepository, deps.FileStorage, lgr)
	deps.UtilizationService = appServices.NewUtilizationService(repos.UtilizationRepository, repos.ResearchRepository, deps.FileStorage, lgr)
	deps.DashboardService = appServices.NewDashboardService(repos.ResearchRepository, repos.PublicationRepository, analytics, now, lgr)
	deps.UserService = appServices.NewUserService(repos.UserRepository, map[string]appServices.MonthlyCounter{
		dto.SeriesResearch:     repos.ResearchRepository,
		dto.SeriesMembers:      repos.MemberRepository,
		dto.SeriesPublications: repos.PublicationRepository,
		dto.SeriesUtilizations: repos.UtilizationRepository,
	}, analytics, now, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService)

	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(deps.AuthService),
		Research:    appControllers.NewResearchController(deps.ResearchService),
		Proposal:    appControllers.NewProposalController(deps.ProposalService),
		Member:      appControllers.NewMemberController(deps.MemberService),
		Publication: appControllers.NewPublicationController(deps.PublicationService),
		Utilization: appControllers.NewUtilizationController(deps.UtilizationService),
		Dashboard:   appControllers.NewDashboardController(deps.DashboardService),
		User:        appControllers.NewUserController(deps.UserService),
		Health:      appControllers.NewHealthController(database, lgr),
	}

	return deps, nil
}

// SeedAdmin creates the configured admin account when it is missing.
func SeedAdmin(ctx context.Context, cfg *config.Config, deps *Dependencies) error {
	return seed.CreateDefaultData(ctx, deps.Repos.UserRepository, deps.UserService, seed.Admin{
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}, deps.Logger)
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

	validation.RegisterWithGin()

	router := gin.New()
	router.MaxMultipartMemory = 32 << 20
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Metrics(),
		cors.New(corsConfig(cfg)),
	)

	appRoutes.SetupSwagger(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.Static("/storage", deps.FileStorage.BasePath())

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	conf := cors.DefaultConfig()
	origins := cfg.AllowedOrigins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = origins
		conf.AllowCredentials = true
	}
	conf.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", appMiddleware.RequestIDHeader}
	conf.ExposeHeaders = []string{appMiddleware.RequestIDHeader}
	conf.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	return conf
}
