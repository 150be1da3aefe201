package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/karmic/marketplace/internal/api"
	"github.com/karmic/marketplace/internal/core/service"
	"github.com/karmic/marketplace/internal/infrastructure/config"
	mongodb "github.com/karmic/marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/karmic/marketplace/internal/infrastructure/db/redis"
	"github.com/karmic/marketplace/internal/infrastructure/queue"
	"github.com/karmic/marketplace/internal/jobs"
	"github.com/karmic/marketplace/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       KARMIC Marketplace API
// @version                     1.0
// @description                 Peer-to-peer task marketplace with a coin ledger, XP ranks and per-task chat.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	eventRepo := mongodb.NewEventRepository(db)
	messageRepo := mongodb.NewMessageRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":         userRepo.EnsureIndexes,
		"tasks":         taskRepo.EnsureIndexes,
		"task_messages": messageRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Services ---
	leaderboardCache := redisdb.NewLeaderboardCache(rdb)
	settleGuard := redisdb.NewSettlementGuard(rdb)

	leaderboardService := service.NewLeaderboardService(userRepo, leaderboardCache, logger.Component("leaderboard"))
	auditService := service.NewAuditService(eventRepo, userRepo, leaderboardService, logger.Component("audit"))

	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, logger.Component("dispatcher"))
	dispatcher.Start(ctx)

	ledger := service.NewLedgerService(userRepo, logger.Component("ledger"))
	taskService := service.NewTaskService(taskRepo, logger.Component("tasks"))
	settlementService := service.NewSettlementService(taskRepo, ledger, settleGuard, dispatcher, logger.Component("settlement"))
	chatService := service.NewChatService(taskRepo, messageRepo, logger.Component("chat"))
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)

	// --- Background jobs ---
	scheduler := jobs.NewScheduler(leaderboardService, logger.Component("jobs"))
	if err := scheduler.Start(ctx, cfg.LeaderboardRebuildSpec); err != nil {
		log.Fatal().Err(err).Msg("scheduler start failed")
	}
	defer scheduler.Stop()

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		JWTSecret:   cfg.JWTSecret,
		Logger:      log,
		Mongo:       db,
		Redis:       rdb,
		Auth:        authService,
		Tasks:       taskService,
		Settlement:  settlementService,
		Chat:        chatService,
		Leaderboard: leaderboardService,
		Users:       userRepo,
		Events:      eventRepo,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
