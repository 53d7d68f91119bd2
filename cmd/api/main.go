package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/promptdeck/promptdeck-backend/internal/config"
	"github.com/promptdeck/promptdeck-backend/internal/handler"
	"github.com/promptdeck/promptdeck-backend/internal/middleware"
	"github.com/promptdeck/promptdeck-backend/internal/migration"
	"github.com/promptdeck/promptdeck-backend/internal/repository"
	"github.com/promptdeck/promptdeck-backend/internal/routes"
	"github.com/promptdeck/promptdeck-backend/internal/service"
	pkgcache "github.com/promptdeck/promptdeck-backend/pkg/cache"
	pkgjwt "github.com/promptdeck/promptdeck-backend/pkg/jwt"
	pkglogger "github.com/promptdeck/promptdeck-backend/pkg/logger"
	pkgredis "github.com/promptdeck/promptdeck-backend/pkg/redis"
)

// @title           PromptDeck API
// @version         1.0
// @description     Prompt marketplace backend with moderated listings
//
// @license.name    MIT
//
// @host            localhost:8082
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.Init(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if env == "development" || env == "dev" || env == "local" {
		if err := migration.SeedDev(db); err != nil {
			pkglogger.Info("Seed warning: %v", err)
		}
	}

	// Redis
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Info("Warning: Failed to connect to Redis: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}

	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.New(redisClient)
		pkglogger.Info("Cache service initialized")
	}

	// JWT Manager
	jwtManager := pkgjwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenTTL.Duration,
		cfg.JWT.RefreshTokenTTL.Duration,
	)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	transitionRepo := repository.NewTransitionRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager)
	submissionService := service.NewSubmissionService(submissionRepo, transitionRepo, cacheService, cfg.Database.Timeout.Duration)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	submissionHandler := handler.NewSubmissionHandler(submissionService)

	// Router
	if env != "development" && env != "dev" && env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "promptdeck-backend",
			"time":    time.Now().Unix(),
		})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, authHandler, submissionHandler, jwtManager)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.Info("Server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDB opens the MySQL connection through GORM
func initDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
