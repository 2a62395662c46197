package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/cashier-service/internal/api"
	"github.com/hypernova-labs/cashier-service/internal/config"
	"github.com/hypernova-labs/cashier-service/internal/database"
	"github.com/hypernova-labs/cashier-service/internal/email"
	"github.com/hypernova-labs/cashier-service/internal/services"
	"github.com/hypernova-labs/cashier-service/internal/workflows"
	"github.com/sirupsen/logrus"
)

func main() {
	// Cargar configuración
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// Configurar logging
	logger := setupLogger(cfg)
	logger.Info("Starting Cashier Service...")

	// Configurar modo de Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Abrir el almacén de documentos
	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatalf("Error opening store: %v", err)
	}
	defer store.Close()

	// Conectar a Redis (opcional)
	var cache services.ActivationCache
	if cfg.Redis.Enabled {
		redis, err := database.ConnectRedis(cfg)
		if err != nil {
			logger.Warnf("Error connecting to Redis: %v", err)
		} else {
			defer redis.Close()
			redis.LogStats(context.Background(), logger)
			cache = redis
		}
	}

	ctx := context.Background()

	// Repositorios
	productRepo := database.NewProductRepository(store, logger)
	movementRepo, err := database.NewStockMovementRepository(ctx, store, logger)
	if err != nil {
		logger.Fatalf("Error preparing stock movements: %v", err)
	}
	messageRepo := database.NewMessageRepository(store, logger)
	activationRepo := database.NewActivationRepository(store, logger)

	// Servicios
	productService := services.NewProductService(productRepo, movementRepo, cfg.Inventory.LowStockThreshold, logger)
	activationService := services.NewActivationService(activationRepo, cache, cfg.License, logger)
	messageService := services.NewMessageService(messageRepo, logger)
	report := services.NewInventoryReport(productService, cfg.Inventory.LowStockThreshold, logger)

	// Notificadores de ajustes de stock
	if cfg.Email.ResendAPIKey != "" {
		productService.AddNotifier(email.NewResendService(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.AlertRecipient, cfg.Server.BaseURL, logger))
		logger.Info("Resend low stock alerts enabled")
	} else {
		logger.Warn("Resend API key not provided, low stock alerts will not be sent")
	}

	if cfg.Inngest.EventKey != "" {
		inngestClient, err := workflows.NewInngestClient(cfg, logger)
		if err != nil {
			logger.Warnf("Error initializing Inngest client: %v", err)
		} else {
			productService.AddNotifier(inngestClient)
			logger.Info("Inngest inventory events enabled")
		}
	} else {
		logger.Warn("Inngest credentials not provided, inventory events will not be published")
	}

	// Datos iniciales
	services.NewSeedService(cfg.Inventory.SeedDataPath, messageRepo, productRepo, productService, logger).Seed(ctx)

	// Respaldos
	backupService := setupBackup(cfg, store, logger)

	// Inicializar API
	apiHandler := api.NewAPI(
		productService,
		services.StaticCategories(cfg.Inventory.ProductTypes),
		activationService,
		messageService,
		report,
		backupService,
		cfg.License.Enforce,
		logger,
	)

	// Configurar router
	router := setupRouter(apiHandler, store, cfg)

	// Crear servidor HTTP
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Canal para señales de terminación
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Iniciar servidor en goroutine
	go func() {
		logger.Infof("Server starting on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	// Esperar señal de terminación
	<-quit
	logger.Info("Shutting down server...")

	// Contexto con timeout para shutdown graceful
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// openStore abre el almacén según STORE_DRIVER
func openStore(cfg *config.Config, logger *logrus.Logger) (database.RecordStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverBolt:
		store, err := database.OpenBoltStore(cfg.Store.Path, cfg.Store.OpenTimeout, logger)
		if err != nil {
			return nil, err
		}
		logger.WithField("path", store.Path()).Info("Using bbolt store")
		return store, nil
	case config.StoreDriverPostgres:
		db, err := database.Connect(cfg, logger)
		if err != nil {
			return nil, err
		}
		db.LogStats()
		logger.Info("Using PostgreSQL store")
		return db, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// setupBackup habilita el respaldo si el almacén soporta snapshots y hay destino
func setupBackup(cfg *config.Config, store database.RecordStore, logger *logrus.Logger) *services.BackupService {
	snapshotter, ok := store.(services.Snapshotter)
	if !ok || !cfg.BackupEnabled() {
		logger.Warn("Backup destination not configured or store driver does not support snapshots")
		return services.NewBackupService(nil, nil, logger)
	}

	storage, err := database.NewObjectStorage(&cfg.Backup, logger)
	if err != nil {
		logger.Warnf("Error initializing backup storage: %v", err)
		return services.NewBackupService(nil, nil, logger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := storage.HealthCheck(ctx); err != nil {
		logger.Warnf("Backup storage health check failed: %v", err)
	} else {
		logger.Info("Backup storage connection healthy")
	}

	return services.NewBackupService(snapshotter, storage, logger)
}

// setupLogger configura el logger según la configuración
func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	// Configurar nivel de log
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Configurar formato
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// setupRouter configura el router principal
func setupRouter(apiHandler *api.API, store database.RecordStore, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Middleware global
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Middleware de CORS para desarrollo
	if cfg.IsDevelopment() {
		router.Use(func(c *gin.Context) {
			c.Header("Access-Control-Allow-Origin", "*")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, "+api.FingerprintHeader)

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}

			c.Next()
		})
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		storeStatus := "ok"
		if err := store.HealthCheck(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			storeStatus = err.Error()
		}
		c.JSON(status, gin.H{
			"status":    storeStatus,
			"timestamp": time.Now().UTC(),
			"service":   "cashier-service",
			"version":   "1.0.0",
		})
	})

	apiHandler.RegisterRoutes(router)

	return router
}
