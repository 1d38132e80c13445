package main

import (
	"context"
	"log"

	_ "tradescope/api/swagger" // swagger docs
	rediscache "tradescope/internal/cache/redis"
	"tradescope/internal/config"
	"tradescope/internal/database"
	"tradescope/internal/gateway/ai"
	"tradescope/internal/handler"
	"tradescope/internal/loader"
	"tradescope/internal/middleware"
	"tradescope/internal/repository"
	"tradescope/internal/search"
	"tradescope/internal/service"
	"tradescope/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           TradeScope API
// @version         1.0
// @description     Trade-intelligence CRM: bill-of-lading search, buyer funnel, credits and AI market reports.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := database.NewConnection(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Load the trade-record dataset into memory. An empty collection is fine
	// on first boot; an admin can reload once the export is in place.
	store := search.NewStore()
	if records, err := loader.LoadFile(cfg.Dataset.Path); err != nil {
		log.Printf("Dataset not loaded from %s: %v", cfg.Dataset.Path, err)
	} else {
		store.ReplaceAll(records)
		log.Printf("Loaded %d trade records from %s", store.Len(), cfg.Dataset.Path)
	}

	// Optional Redis-backed result cache. Searches fall back to recomputing
	// pages when it is absent or unreachable.
	var resultCache service.ResultCache
	if cfg.Redis.Enabled {
		redisClient, err := rediscache.New(context.Background(), rediscache.ClientConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Printf("Result cache disabled: %v", err)
		} else {
			defer redisClient.Close()
			resultCache = rediscache.NewSearchCache(redisClient)
			log.Println("Connected to Redis successfully.")
		}
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	buyerRepo := repository.NewBuyerRepository(db)
	historyRepo := repository.NewSearchHistoryRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	reportRepo := repository.NewReportRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	aiClient := ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model)

	searchService := service.NewSearchService(store, historyRepo, resultCache)
	buyerService := service.NewBuyerService(buyerRepo, auditRepo, txManager, wsHub)
	creditService := service.NewCreditService(creditRepo, auditRepo, txManager)
	reportService := service.NewReportService(store, reportRepo, auditRepo, creditService, aiClient, cfg.AI.ReportCost)
	statisticsService := service.NewStatisticsService(store)
	datasetService := service.NewDatasetService(store, auditRepo, cfg.Dataset.Path)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	searchHandler := handler.NewSearchHandler(searchService)
	buyerHandler := handler.NewBuyerHandler(buyerService)
	creditHandler := handler.NewCreditHandler(creditService)
	reportHandler := handler.NewReportHandler(reportService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)
	datasetHandler := handler.NewDatasetHandler(datasetService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	searchHandler.RegisterRoutes(router.Group(""))
	buyerHandler.RegisterRoutes(router.Group(""))
	creditHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))
	datasetHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
