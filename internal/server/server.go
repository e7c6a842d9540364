package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mansoorceksport/liftlog/internal/config"
	"github.com/mansoorceksport/liftlog/internal/domain"
	"github.com/mansoorceksport/liftlog/internal/exercisetype"
	"github.com/mansoorceksport/liftlog/internal/handler"
	"github.com/mansoorceksport/liftlog/internal/metrics"
	"github.com/mansoorceksport/liftlog/internal/middleware"
	"github.com/mansoorceksport/liftlog/internal/repository"
	"github.com/mansoorceksport/liftlog/internal/service"
	"github.com/mansoorceksport/liftlog/internal/telemetry"
)

const idempotencyTTL = 24 * time.Hour

// AppDependencies holds the dependencies required to start the application.
// RedisClient may be nil; caching and idempotency are then disabled and
// detection locks are process-local.
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	Metrics     *metrics.Manager
	Gatherer    prometheus.Gatherer
}

// NewRegistry builds the strategy registry from the training config and
// reports every fallback to Prometheus.
func NewRegistry(training *config.TrainingConfig, m *metrics.Manager) *exercisetype.Registry {
	if training == nil {
		training = config.DefaultTraining()
	}
	return exercisetype.NewRegistry(
		training.BandTable(),
		exercisetype.WithWeightUnit(training.WeightUnit),
		exercisetype.WithFallbackHook(func(ex *domain.Exercise) {
			if m == nil {
				return
			}
			t := "missing"
			if ex != nil && ex.ExerciseType != "" {
				t = string(ex.ExerciseType)
			}
			m.CounterStrategyFallbacks.WithLabelValues(t).Inc()
		}),
	)
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	registry := NewRegistry(deps.Config.Training, deps.Metrics)

	// Initialize repositories
	var exerciseRepo domain.ExerciseRepository = repository.NewMongoExerciseRepository(deps.MongoDB)
	liftLogRepo := repository.NewMongoLiftLogRepository(deps.MongoDB)
	recordRepo := repository.NewMongoPersonalRecordRepository(deps.MongoDB)
	auditRepo := repository.NewMongoDetectionAuditRepository(deps.MongoDB)
	prefRepo := repository.NewMongoUserPreferenceRepository(deps.MongoDB)

	var (
		locker domain.Locker
		cache  *repository.RedisCacheRepository
	)
	if deps.RedisClient != nil {
		cache = repository.NewRedisCacheRepository(deps.RedisClient)
		exerciseRepo = repository.NewCachedExerciseRepository(exerciseRepo, cache)
		locker = repository.NewRedisLocker(deps.RedisClient, time.Duration(deps.Config.Detection.LockTTLSeconds)*time.Second)
	} else {
		log.Warn("redis not configured, using process-local detection locks")
		locker = repository.NewLocalLocker()
	}

	// Initialize services
	preferenceService := service.NewPreferenceService(prefRepo)
	detector := service.NewPRDetectionService(registry, recordRepo, auditRepo, locker, deps.Metrics, int(deps.Config.Detection.MaxRetries))
	comparisonService := service.NewComparisonService(registry, liftLogRepo, recordRepo)
	performanceService := service.NewPerformanceService(exerciseRepo, liftLogRepo, preferenceService, registry, detector, comparisonService)
	exerciseService := service.NewExerciseService(exerciseRepo, liftLogRepo, registry)
	recordService := service.NewRecordService(exerciseRepo, recordRepo)

	// Initialize handlers
	performanceHandler := handler.NewPerformanceHandler(performanceService)
	exerciseHandler := handler.NewExerciseHandler(exerciseService, recordService, preferenceService, registry)
	preferenceHandler := handler.NewPreferenceHandler(preferenceService)

	app := fiber.New(fiber.Config{
		AppName:      "liftlog API",
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: log.StandardLogger().Out}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-User-ID, X-Correlation-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(telemetry.FiberMiddleware())
	if deps.Metrics != nil {
		app.Use(middleware.RequestMetrics(deps.Metrics))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "liftlog",
		})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := app.Group("/v1")
	v1.Get("/exercise-types", exerciseHandler.ListTypes)

	me := v1.Group("/me")
	me.Use(middleware.UserScope())
	if cache != nil {
		me.Use(middleware.IdempotencyMiddleware(cache, idempotencyTTL))
	}

	meExercises := me.Group("/exercises")
	meExercises.Get("/", exerciseHandler.List)
	meExercises.Post("/", exerciseHandler.Create)
	meExercises.Put("/:id", exerciseHandler.Update)
	meExercises.Get("/:id/records", exerciseHandler.Records)
	meExercises.Get("/:id/records/history", exerciseHandler.History)

	mePerformances := me.Group("/performances")
	mePerformances.Post("/", performanceHandler.Create)
	mePerformances.Get("/:id", performanceHandler.Get)
	mePerformances.Put("/:id", performanceHandler.Update)
	mePerformances.Delete("/:id", performanceHandler.Delete)
	mePerformances.Get("/:id/comparison", performanceHandler.Comparison)

	me.Get("/preferences", preferenceHandler.Get)
	me.Put("/preferences", preferenceHandler.Update)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.WithError(err).WithField("path", c.Path()).Error("unhandled error")
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
