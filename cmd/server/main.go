package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"

	"github.com/mandubird/ottsak/internal/classify"
	"github.com/mandubird/ottsak/internal/config"
	"github.com/mandubird/ottsak/internal/db"
	"github.com/mandubird/ottsak/internal/handler"
	"github.com/mandubird/ottsak/internal/middleware"
	"github.com/mandubird/ottsak/internal/repository"
	"github.com/mandubird/ottsak/internal/router"
	"github.com/mandubird/ottsak/internal/service"
	"github.com/mandubird/ottsak/internal/tmdb"
	"github.com/mandubird/ottsak/internal/worker"
	"github.com/mandubird/ottsak/internal/youtube"
)

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "ottsak-api")
	logger := middleware.Logger

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	// Repositories
	workRepo := repository.NewWorkRepo(pool)
	videoRepo := repository.NewVideoRepo(pool)
	rankingRepo := repository.NewRankingRepo(pool)

	// External providers
	yt := youtube.NewClient(cfg.YouTubeAPIKey)
	meta := tmdb.NewClient(cfg.TMDBAPIKey)

	// Services
	classifier := classify.New(classify.DefaultConfig())

	ingestCfg := service.DefaultIngestConfig()
	ingestCfg.MatchThreshold = cfg.MatchThreshold
	ingestCfg.PendingThreshold = cfg.PendingThreshold
	ingestCfg.OfficialChannelBonus = cfg.OfficialChannelBonus
	ingestCfg.SearchResults = cfg.SearchResults
	ingestCfg.Delay = cfg.IngestDelay
	ingestSvc := service.NewIngestService(ingestCfg, yt, videoRepo, workRepo, classifier, logger)

	popCfg := service.DefaultPopularityConfig()
	popCfg.SearchResults = cfg.SearchResults
	popSvc := service.NewPopularityService(popCfg, yt, logger)

	rankingCfg := service.DefaultRankingConfig()
	rankingCfg.TopN = cfg.TopN
	rankingCfg.Delay = cfg.RankingDelay
	rankingSvc := service.NewRankingService(rankingCfg, meta, workRepo, rankingRepo, popSvc, logger)

	worksyncSvc := service.NewWorkSyncService(service.DefaultWorkSyncConfig(), meta, workRepo, logger)
	querySvc := service.NewQueryService(workRepo, videoRepo, rankingRepo, cache)

	// Scheduler
	if cfg.SchedulerEnabled {
		sched, err := worker.NewScheduler(cfg.SchedulerTimezone, ingestSvc, rankingSvc, worksyncSvc, logger)
		if err != nil {
			log.Fatalf("failed to create scheduler: %v", err)
		}
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	// HTTP surface
	app := fiber.New(fiber.Config{
		AppName:      "ottsak API",
		ServerHeader: "ottsak",
	})

	handlers := &router.Handlers{
		Work:    handler.NewWorkHandler(querySvc),
		Video:   handler.NewVideoHandler(querySvc),
		Ranking: handler.NewRankingHandler(querySvc),
		Cron:    handler.NewCronHandler(ingestSvc, rankingSvc, worksyncSvc),
		Admin:   handler.NewAdminHandler(workRepo, querySvc),
		Health:  handler.NewHealthHandler(pool, cache.Client()),
	}
	router.Setup(app, handlers, cfg.CORSOrigins, cfg.CronSecret)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	logger.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Environment).
		Bool("scheduler", cfg.SchedulerEnabled).
		Msg("ottsak backend starting")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
