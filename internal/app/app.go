package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/controller"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"lms_backend/pkg/configwatcher"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/security"
	"lms_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	// CORS 白名单支持热更新：configwatcher 触发时整体换掉 handler
	corsHandler atomic.Value // gin.HandlerFunc
}

type repositories struct {
	teacher      *repository.TeacherRepository
	student      *repository.StudentRepository
	course       *repository.CourseRepository
	enrollment   *repository.EnrollmentRepository
	progress     *repository.ProgressRepository
	certificate  *repository.CertificateRepository
	quiz         *repository.QuizRepository
	message      *repository.MessageRepository
	notification *repository.NotificationRepository
	order        *repository.OrderRepository
	review       *repository.ReviewRepository
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	course       *service.CourseService
	progress     *service.ProgressService
	certificate  *service.CertificateService
	quiz         *service.QuizService
	messaging    *service.MessagingService
	notification *service.NotificationService
	payment      *service.PaymentService
	review       *service.ReviewService
	analytics    *service.AnalyticsService
}

type controllers struct {
	auth         *controller.AuthController
	course       *controller.CourseController
	progress     *controller.ProgressController
	certificate  *controller.CertificateController
	quiz         *controller.QuizController
	message      *controller.MessageController
	notification *controller.NotificationController
	payment      *controller.PaymentController
	analytics    *controller.AnalyticsController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		teacher:      repository.NewTeacherRepository(db),
		student:      repository.NewStudentRepository(db),
		course:       repository.NewCourseRepository(db),
		enrollment:   repository.NewEnrollmentRepository(db),
		progress:     repository.NewProgressRepository(db),
		certificate:  repository.NewCertificateRepository(db),
		quiz:         repository.NewQuizRepository(db),
		message:      repository.NewMessageRepository(db),
		notification: repository.NewNotificationRepository(db),
		order:        repository.NewOrderRepository(db),
		review:       repository.NewReviewRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	s.storage = storage

	s.auth = service.NewAuthService(repos.teacher, repos.student, cfg)
	s.course = service.NewCourseService(repos.course, repos.enrollment, rdb)
	s.progress = service.NewProgressService(db, repos.course, repos.enrollment, repos.progress, repos.certificate, repos.student, repos.quiz)
	s.certificate = service.NewCertificateService(repos.certificate)
	s.quiz = service.NewQuizService(db, repos.quiz, repos.course, repos.enrollment)
	s.messaging = service.NewMessagingService(db, repos.message, repos.notification, repos.course, repos.enrollment, repos.teacher, repos.student)
	s.notification = service.NewNotificationService(repos.notification)
	s.payment = service.NewPaymentService(db, repos.order, repos.course, repos.enrollment, cfg)
	s.review = service.NewReviewService(db, repos.review, repos.course, repos.enrollment)
	s.analytics = service.NewAnalyticsService(repos.order, repos.course, repos.enrollment, repos.review, rdb)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		course:       controller.NewCourseController(s.course, s.storage, s.review, s.auth),
		progress:     controller.NewProgressController(s.progress),
		certificate:  controller.NewCertificateController(s.certificate),
		quiz:         controller.NewQuizController(s.quiz),
		message:      controller.NewMessageController(s.messaging),
		notification: controller.NewNotificationController(s.notification),
		payment:      controller.NewPaymentController(s.payment, s.review),
		analytics:    controller.NewAnalyticsController(s.analytics),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	a.corsHandler.Store(security.CORS(cfg.CORS))
	router.Use(func(c *gin.Context) {
		a.corsHandler.Load().(gin.HandlerFunc)(c)
	})
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// watchConfig 配置热更新：目前只有 CORS 白名单支持不重启生效
func (a *App) watchConfig() {
	go configwatcher.WatchConfig("configs/config.yaml", func(cfg *config.Config) {
		a.corsHandler.Store(security.CORS(cfg.CORS))
		logger.Log.Info("Config reloaded", zap.Strings("corsOrigins", cfg.CORS.AllowedOrigins))
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
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

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("lms-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.watchConfig()

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

	// 等待中断信号优雅地关闭服务器
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
