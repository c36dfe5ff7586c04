package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"examhall_backend/internal/config"
	"examhall_backend/internal/controller"
	"examhall_backend/internal/gateway"
	"examhall_backend/internal/repository"
	"examhall_backend/internal/service"
	"examhall_backend/pkg/database"
	"examhall_backend/pkg/logger"
	"examhall_backend/pkg/monitoring"
	"examhall_backend/pkg/security"
	"examhall_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type gateways struct {
	testSource        *gateway.TestSource
	submissionSink    *gateway.SubmissionSink
	leaderboardSource *gateway.LeaderboardSource
}

type services struct {
	tests       *service.TestService
	submissions *service.SubmissionService
	sessions    *service.SessionService
	results     *service.ResultsService
	leaderboard *service.LeaderboardService
}

type controllers struct {
	session     *controller.SessionController
	results     *controller.ResultsController
	leaderboard *controller.LeaderboardController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig is the hot-reload entry point: the config watcher hands a
// freshly parsed config here and every registered callback picks up the
// fields it cares about. Bind addresses and connection pools are not
// reloadable; those need a restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initGateways(cfg *config.Config) *gateways {
	timeout := cfg.Collaborators.Timeout
	return &gateways{
		testSource:        gateway.NewTestSource(cfg.Collaborators.TestSourceURL, timeout),
		submissionSink:    gateway.NewSubmissionSink(cfg.Collaborators.SubmissionSinkURL, timeout),
		leaderboardSource: gateway.NewLeaderboardSource(cfg.Collaborators.LeaderboardSourceURL, timeout),
	}
}

func (a *App) initServices(g *gateways, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	submissionRepo := repository.NewSubmissionRepository(db)

	s.tests = service.NewTestService(g.testSource, rdb, cfg.Session.TestCacheTTL)
	s.submissions = service.NewSubmissionService(g.submissionSink, submissionRepo)
	s.sessions = service.NewSessionService(s.tests, s.submissions)
	s.results = service.NewResultsService(s.tests, s.submissions)
	s.leaderboard = service.NewLeaderboardService(g.leaderboardSource)

	a.RegisterConfigCallback(func(updated *config.Config) {
		s.tests.TTL = updated.Session.TestCacheTTL
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		session:     controller.NewSessionController(s.sessions, s.tests),
		results:     controller.NewResultsController(s.results, s.submissions),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	gateways := app.initGateways(cfg)
	services := app.initServices(gateways, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("exam-session-engine", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
