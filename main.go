package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"delivery-service/controllers"
	"delivery-service/database"
	"delivery-service/kafka"
	"delivery-service/models"
	"delivery-service/realtime"
	"delivery-service/repository"
	"delivery-service/routes"
	"delivery-service/sender"
	"delivery-service/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	// Databases
	if err := database.ConnectMongo(logger, cfg.MongoURL, cfg.MongoDB); err != nil {
		logger.Fatal("MongoDB connection failed", zap.Error(err))
	}
	if _, err := database.ConnectPostgres(logger, &models.Notification{}); err != nil {
		logger.Fatal("PostgreSQL connection failed", zap.Error(err))
	}
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}

	// Push channel (non-fatal when unconfigured)
	fcmSender, err := sender.NewFCMSender(context.Background(), cfg.FirebaseCredentialsFile, logger)
	if err != nil {
		logger.Fatal("Failed to init FCM sender", zap.Error(err))
	}

	// Realtime rooms
	hub := realtime.NewHub(logger)

	// Order event stream (optional)
	var producer kafka.ProducerAPI
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer p.Close()
		producer = p
	} else {
		logger.Warn("KAFKA_BROKERS not set, order events disabled")
	}

	// Dependency injection
	orderRepo := repository.NewMongoOrderRepository(database.Mongo)
	tokenRepo := repository.NewMongoTokenRepository(database.Mongo)
	paymentRepo := repository.NewMongoPaymentRepository(database.Mongo)
	zoneRepo := repository.NewMongoZoneRepository(database.Mongo)
	notificationRepo := repository.NewNotificationRepository(database.DB)
	orderLocker := repository.NewRedisOrderLocker(redisClient, 10*time.Second)

	notifier := services.NewNotifier(hub, fcmSender, orderRepo, tokenRepo, paymentRepo, logger)
	deliveryService := services.NewDeliveryService(orderRepo, orderLocker, notifier, producer, logger)
	orderService := services.NewOrderService(orderRepo, notifier, logger)
	broadcastService := services.NewBroadcastService(notificationRepo, tokenRepo, zoneRepo, fcmSender, logger)

	orderController := controllers.NewOrderController(orderService, logger)
	deliveryController := controllers.NewDeliveryController(deliveryService, logger)
	tokenController := controllers.NewTokenController(tokenRepo, logger)
	notificationController := controllers.NewNotificationController(broadcastService, logger)

	// Router
	r := gin.New()
	r.Use(gin.Recovery())

	// Request logging
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	})

	// Request timeout; the websocket endpoint manages its own deadlines.
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/ws" {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterRoutes(r, orderController, deliveryController, tokenController, notificationController, hub, logger)

	// HTTP server
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Delivery service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		logger.Error("Redis close error", zap.Error(err))
	}
	if err := database.ClosePostgres(); err != nil {
		logger.Error("PostgreSQL close error", zap.Error(err))
	}
	if err := database.CloseMongo(); err != nil {
		logger.Error("MongoDB close error", zap.Error(err))
	}

	logger.Info("Delivery service stopped gracefully")
}
