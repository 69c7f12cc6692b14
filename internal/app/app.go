package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/controller"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/service"
	"skillswap_backend/pkg/configwatcher"
	"skillswap_backend/pkg/database"
	"skillswap_backend/pkg/logger"
	"skillswap_backend/pkg/monitoring"
	"skillswap_backend/pkg/security"
	"skillswap_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	limiter         *security.Limiter
	statsJob        *statsJob
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	skill    *repository.SkillRepository
	swap     *repository.SwapRequestRepository
	feedback *repository.FeedbackRepository
}

type services struct {
	auth     *service.AuthService
	user     *service.UserService
	skill    *service.SkillService
	swap     *service.SwapRequestService
	feedback *service.FeedbackService
	admin    *service.AdminService
	storage  *service.StorageService
}

type controllers struct {
	auth     *controller.AuthController
	user     *controller.UserController
	skill    *controller.SkillController
	swap     *controller.SwapRequestController
	feedback *controller.FeedbackController
	admin    *controller.AdminController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		skill:    repository.NewSkillRepository(db),
		swap:     repository.NewSwapRequestRepository(db, rdb),
		feedback: repository.NewFeedbackRepository(db, rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	return &services{
		auth:     service.NewAuthService(repos.user, cfg),
		user:     service.NewUserService(repos.user),
		skill:    service.NewSkillService(db, repos.skill, repos.user),
		swap:     service.NewSwapRequestService(db, repos.swap, repos.skill, repos.user),
		feedback: service.NewFeedbackService(db, repos.feedback, repos.swap, repos.user),
		admin:    service.NewAdminService(repos.user, repos.skill, repos.swap, repos.feedback),
		storage:  service.NewStorageService(cfg),
	}
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		user:     controller.NewUserController(s.user, s.storage),
		skill:    controller.NewSkillController(s.skill, s.user),
		swap:     controller.NewSwapRequestController(s.swap),
		feedback: controller.NewFeedbackController(s.feedback, s.swap, s.user),
		admin:    controller.NewAdminController(s.admin, s.user, s.skill, s.feedback),
		health:   controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 组装路由和依赖，不做迁移、不启动后台任务，测试直接使用
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		limiter: security.NewLimiter(cfg.RateLimit.MaxRequests, rateWindow(cfg)),
	}

	repos := app.initRepositories(db, rdb)
	app.services = app.initServices(repos, cfg, db)
	controllers := app.initControllers(app.services)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode == gin.DebugMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(logger.ApplyConfig)
	app.RegisterConfigCallback(func(c *config.Config) {
		app.limiter.Update(c.RateLimit.MaxRequests, rateWindow(c))
	})

	return app
}

func rateWindow(cfg *config.Config) time.Duration {
	return time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
}

// NewApp 初始化日志、数据库、缓存后组装应用
// MigrateOnly/SeedOnly 时执行完对应步骤就返回，Router 为空
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	gin.SetMode(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	if cfg.Seed.Enabled || cfg.SeedOnly {
		if err := database.Seed(db, &cfg.Seed); err != nil {
			logger.Log.Fatal("Failed to seed database", zap.Error(err))
		}
		logger.Log.Info("Seed data ensured")
	}
	if cfg.SeedOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("skillswap", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

func (a *App) startBackgroundTasks() {
	a.statsJob = newStatsJob(a.services.swap)
	if a.Redis != nil {
		a.statsJob.schedule(a.Config.Jobs.StatsRefresh)
		a.RegisterConfigCallback(func(c *config.Config) {
			a.statsJob.schedule(c.Jobs.StatsRefresh)
		})
	}
	a.statsJob.start()
}

func (a *App) watchConfig(ctx context.Context) {
	configFile := filepath.Join(a.Config.ConfigDir, "config.yaml")
	go func() {
		err := configwatcher.WatchConfig(ctx, configFile, func(c *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(c)
			}
		})
		if err != nil {
			logger.Log.Warn("Config watcher disabled", zap.String("file", configFile), zap.Error(err))
		}
	}()
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	a.startBackgroundTasks()
	a.watchConfig(ctx)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	stop()
	a.statsJob.stop()
	a.limiter.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
