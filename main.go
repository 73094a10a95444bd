package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"secretshare-backend/cache"
	"secretshare-backend/controllers"
	"secretshare-backend/database"
	"secretshare-backend/middlewares"
	"secretshare-backend/routes"
	"secretshare-backend/services"
	"secretshare-backend/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

// envInt reads an int env var with a default fallback.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	// ---- Logging
	log, err := zap.NewProduction()
	if os.Getenv("APP_ENV") == "development" {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	// ---- Database
	database.Connect()
	database.AutoMigrate()

	// ---- Object storage (optional; file secrets disabled without it)
	s3, err := storage.NewS3ClientFromEnv(context.Background())
	if err != nil {
		log.Fatal("s3 init failed", zap.Error(err))
	}
	var blobs services.BlobStore
	if s3 != nil {
		blobs = s3
	}

	// ---- Services
	audit := services.NewAuditService(database.DB, log)
	secretRepo := database.NewSecretRepository(database.DB)
	requestRepo := database.NewSecretRequestRepository(database.DB)

	secretSvc := services.NewSecretService(secretRepo, blobs, audit, log)
	requestSvc := services.NewSecretRequestService(requestRepo, audit, log)
	var fileSvc *services.FileService
	if blobs != nil {
		fileSvc = services.NewFileService(secretSvc, secretRepo, blobs, log)
	}
	controllers.Init(secretSvc, requestSvc, fileSvc)

	// ---- Limits (configurable via env)
	bodyLimitBytes := envInt("BODY_LIMIT_BYTES", 0)
	if bodyLimitBytes <= 0 {
		bodyLimitBytes = envInt("BODY_LIMIT_MB", 12) * 1024 * 1024
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    bodyLimitBytes,
	})

	// ---- CORS
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// ---- Global rate limiter; Redis-backed when REDIS_ADDR is set so
	// limits hold across replicas, in-memory otherwise.
	rlMax := envInt("RATE_LIMIT_MAX", 60)
	rlWindow := time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second
	limiterCfg := limiter.Config{
		Max:        rlMax,
		Expiration: rlWindow,
		// Default KeyGenerator = client IP; default 429 handler is fine.
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		store, err := cache.NewRedisStorage(addr, os.Getenv("REDIS_PASSWORD"), envInt("REDIS_DB", 0))
		if err != nil {
			log.Fatal("redis init failed", zap.Error(err))
		}
		limiterCfg.Storage = store
	}
	app.Use(limiter.New(limiterCfg))

	// ---- Routes
	routes.Register(app)

	// ---- Start
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info("API server starting", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
