package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-gin-ticket-gate/config"
	"go-gin-ticket-gate/internal/cache"
	"go-gin-ticket-gate/internal/database"
	"go-gin-ticket-gate/internal/handler"
	"go-gin-ticket-gate/internal/notify"
	"go-gin-ticket-gate/internal/queue"
	"go-gin-ticket-gate/internal/repository"
	"go-gin-ticket-gate/internal/service"
	"go-gin-ticket-gate/internal/worker"
	"go-gin-ticket-gate/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := pflag.String("config", "config.yaml", "path to YAML config file (env vars override)")
	migrate := pflag.Bool("migrate", true, "apply database schema on startup")
	consumerID := pflag.String("consumer-id", "", "queue consumer name; random when empty")
	pflag.Parse()

	log := logger.WithComponent("main")
	defer logger.L.Sync()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		log.Warn("Invalid log level, keeping info", zap.String("level", cfg.Log.Level))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if *migrate {
		if err := database.Migrate(ctx, pool); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	checkInQueue, queueCloser, err := queue.New(ctx, cfg.Queue, rdb, *consumerID)
	if err != nil {
		log.Fatal("Failed to initialize check-in queue", zap.Error(err))
	}
	defer queueCloser.Close()

	eventRepo := repository.NewEventRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	attendance := cache.NewRedisAttendanceCache(rdb)

	eventService := service.NewEventService(eventRepo, ticketRepo, attendance)
	ticketService := service.NewTicketService(eventRepo, ticketRepo, attendance, cfg.HTTP.PublicBaseURL)
	checkInService := service.NewCheckInService(ticketRepo, checkInQueue)

	checkInWorker := worker.NewCheckInWorker(attendance, notify.New(cfg.PubNub), checkInQueue)
	if err := checkInWorker.Start(ctx); err != nil {
		log.Fatal("Failed to start check-in worker", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.NewEventHandler(eventService).RegisterRoutes(router)
	handler.NewTicketHandler(ticketService).RegisterRoutes(router)
	handler.NewCheckInHandler(checkInService).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr), zap.String("queue", cfg.Queue.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
