package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qbank_backend/internal/config"
	"qbank_backend/internal/controller"
	"qbank_backend/internal/repository"
	"qbank_backend/internal/service"
	"qbank_backend/pkg/database"
	"qbank_backend/pkg/logger"
	"qbank_backend/pkg/monitoring"
	"qbank_backend/pkg/security"
	"qbank_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Engine *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	tracerProvider *sdktrace.TracerProvider

	// repositories
	userRepo     *repository.UserRepository
	questionRepo *repository.QuestionRepository

	// services
	authService       *service.AuthService
	userService       *service.UserService
	reviewerService   *service.ReviewerService
	questionService   *service.QuestionService
	submissionService *service.SubmissionService
	vettingService    *service.VettingService
	exportService     *service.ExportService
	storageService    *service.StorageService

	// controllers
	authController       *controller.AuthController
	questionController   *controller.QuestionController
	submissionController *controller.SubmissionController
	vettingController    *controller.VettingController
	adminController      *controller.AdminController
	healthController     *controller.HealthController
}

func NewApp(cfg *config.Config) (*App, error) {
	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	// Redis 不可用时服务仍可启动，计数走数据库回退
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("redis unavailable, running count falls back to database", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		Engine: gin.New(),
		DB:     db,
		Redis:  rdb,
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("qbank-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Warn("tracer init failed, continuing without tracing", zap.Error(err))
		} else {
			app.tracerProvider = tp
		}
	}

	monitoring.Init()

	app.initRepositories()
	app.initServices()
	app.initControllers()
	app.initMiddlewares()
	app.initRouter()

	return app, nil
}

func (a *App) initRepositories() {
	a.userRepo = repository.NewUserRepository(a.DB)
	a.questionRepo = repository.NewQuestionRepository(a.DB)
}

func (a *App) initServices() {
	a.storageService = service.NewStorageService(a.Config)
	a.authService = service.NewAuthService(a.userRepo, a.Config)
	a.userService = service.NewUserService(a.userRepo)
	a.reviewerService = service.NewReviewerService(a.userRepo, a.DB)
	a.questionService = service.NewQuestionService(a.questionRepo, a.userRepo, a.storageService)
	a.submissionService = service.NewSubmissionService(a.questionRepo, a.reviewerService, a.Redis)
	a.vettingService = service.NewVettingService(a.questionRepo, a.reviewerService)
	a.exportService = service.NewExportService(a.questionRepo)
}

func (a *App) initControllers() {
	a.authController = controller.NewAuthController(a.authService)
	a.questionController = controller.NewQuestionController(a.questionService, a.submissionService, a.reviewerService, a.exportService)
	a.submissionController = controller.NewSubmissionController(a.submissionService, a.storageService)
	a.vettingController = controller.NewVettingController(a.vettingService, a.questionService, a.reviewerService)
	a.adminController = controller.NewAdminController(a.questionService, a.exportService, a.userService)
	a.healthController = controller.NewHealthController(a.DB)
}

func (a *App) initMiddlewares() {
	a.Engine.Use(gin.Recovery())
	a.Engine.Use(security.CORS(a.Config.CORS.AllowedOrigins))
	a.Engine.Use(security.Secure())
	a.Engine.Use(monitoring.MetricsMiddleware())

	if a.Config.RateLimit.MaxRequests > 0 {
		window := time.Duration(a.Config.RateLimit.WindowMinutes) * time.Minute
		a.Engine.Use(security.RateLimiter(a.Config.RateLimit.MaxRequests, window))
	}

	if a.Config.Tracing.Enabled && a.tracerProvider != nil {
		a.Engine.Use(tracing.GinMiddleware())
	}
}

// Run 启动 HTTP 服务并处理优雅关闭
func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Engine,
	}

	go func() {
		logger.Log.Info("server starting", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}

	if a.Redis != nil {
		a.Redis.Close()
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Log.Info("server exited")
	return nil
}
