package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/BlaJam82/chat-app/internal/auth"
	"github.com/BlaJam82/chat-app/internal/cache"
	"github.com/BlaJam82/chat-app/internal/config"
	"github.com/BlaJam82/chat-app/internal/db"
	"github.com/BlaJam82/chat-app/internal/handlers"
	"github.com/BlaJam82/chat-app/internal/middleware"
	"github.com/BlaJam82/chat-app/internal/observability"
	"github.com/BlaJam82/chat-app/internal/rabbitmq"
	"github.com/BlaJam82/chat-app/internal/repositories"
	"github.com/BlaJam82/chat-app/internal/telemetry"
	"github.com/BlaJam82/chat-app/internal/ws"
)

const serviceName = "chat-app"

func main() {
	cfg := config.Load()

	shutdownTracing := observability.InitTracing(context.Background(), serviceName, cfg.OTLPEndpoint)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	auditPublisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer auditPublisher.Close()
	audit := telemetry.NewAuditEmitter(auditPublisher, "audit.chat", serviceName, cfg.Environment)

	if eventPublisher, err := observability.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange); err == nil {
		observability.SetPublisher(eventPublisher)
		defer eventPublisher.Close()
	} else {
		log.Printf("ws event publishing disabled: %v", err)
	}

	var lastMsgCache *cache.LastMessageCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("redis unavailable, last-message cache disabled: %v", err)
		} else {
			lastMsgCache = cache.New(redisClient, "lastmsg:", 10*time.Minute)
		}
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenLifetime)

	roomRepo := repositories.NewRoomRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	userRepo := repositories.NewUserRepo(database)

	hub := ws.NewHub()
	coordinator := ws.NewCoordinator(hub, roomRepo, messageRepo, userRepo, lastMsgCache, audit)
	socketHandler := ws.NewSocketHandler(hub, coordinator, tokens)

	authHandler := handlers.NewAuthHandler(userRepo, tokens, audit)
	userHandler := handlers.NewUserHandler(userRepo)
	roomsHandler := handlers.NewRoomsHandler(coordinator)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware(serviceName))

	authMiddleware := middleware.AuthMiddleware(tokens)

	router.POST("/auth/signup", authHandler.Signup)
	router.POST("/auth/login", authHandler.Login)

	router.POST("/user/room/toggle", authMiddleware, userHandler.ToggleRoom)
	router.POST("/user/category/toggle", authMiddleware, userHandler.ToggleCategory)
	router.GET("/rooms", authMiddleware, roomsHandler.List)

	router.GET("/ws", socketHandler.Handle)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, audit, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
