package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/user/chatsmith/internal/adapter/fsstore"
	openaiadapter "github.com/user/chatsmith/internal/adapter/openai"
	"github.com/user/chatsmith/internal/adapter/postgres"
	"github.com/user/chatsmith/internal/adapter/rediscache"
	"github.com/user/chatsmith/internal/crawler"
	"github.com/user/chatsmith/internal/delivery/http/handler"
	"github.com/user/chatsmith/internal/delivery/http/router"
	"github.com/user/chatsmith/internal/repository"
	"github.com/user/chatsmith/internal/usecase"
	"github.com/user/chatsmith/pkg/config"
	"github.com/user/chatsmith/pkg/logger"
	"github.com/user/chatsmith/pkg/metrics"
)

func main() {
	cfg := config.Load()
	logger.Init(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Robots policy cache: Redis when configured, in-process otherwise.
	var policyCache repository.PolicyCache = crawler.NewMemoryPolicyCache()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Error("Failed to connect to Redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer client.Close()
		policyCache = rediscache.NewPolicyCache(client)
		slog.Info("Using Redis robots policy cache", "addr", cfg.RedisAddr)
	}

	// Crawl audit log: PostgreSQL when configured, discarded otherwise.
	var auditRepo repository.AuditRepository = repository.NoopAudit{}
	if cfg.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			slog.Error("Failed to connect to PostgreSQL", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			slog.Error("Failed to ensure audit schema", "error", err)
			os.Exit(1)
		}
		auditRepo = postgres.NewAuditRepo(pool)
		slog.Info("Using PostgreSQL crawl audit log")
	}

	knowledgeRepo, err := fsstore.NewKnowledgeRepo(cfg.KnowledgeDir)
	if err != nil {
		slog.Error("Failed to initialize knowledge store", "dir", cfg.KnowledgeDir, "error", err)
		os.Exit(1)
	}

	if cfg.OpenAIAPIKey == "" {
		slog.Warn("OPENAI_API_KEY is not set, gap analysis and fallback search will degrade")
	}
	reasoner := openaiadapter.NewReasoner(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.RequestTimeout)
	searcher := openaiadapter.NewSearcher(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.RequestTimeout)

	pageFetcher := crawler.NewFetcher(cfg.RequestTimeout, cfg.MaxRetries)
	robotsFetcher := crawler.NewFetcher(5*time.Second, 2)
	robotsGate := crawler.NewRobotsGate(robotsFetcher, policyCache, cfg.RobotsTTL)
	orchestrator := crawler.NewOrchestrator(pageFetcher, robotsGate, auditRepo, cfg.BatchSize, cfg.PoliteDelay)

	acquisitionUC := usecase.NewAcquisitionUseCase(
		orchestrator, knowledgeRepo, reasoner, searcher,
		cfg.MaxPagesToScrape, cfg.MaxFallbackSearches, cfg.ConfidenceThreshold,
	)
	contextBuilder := usecase.NewContextBuilder()

	h := handler.NewHandler(acquisitionUC, contextBuilder)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router.NewRouter(h),
		// An acquisition crawls a whole site, so writes get a generous budget.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
