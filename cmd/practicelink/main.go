package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/practicelink/internal/config"
	dbPostgres "github.com/kailas-cloud/practicelink/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/practicelink/internal/db/redis"
	"github.com/kailas-cloud/practicelink/internal/domain/link"
	"github.com/kailas-cloud/practicelink/internal/domain/problem"
	logpkg "github.com/kailas-cloud/practicelink/internal/logger"
	"github.com/kailas-cloud/practicelink/internal/metrics"
	postrepo "github.com/kailas-cloud/practicelink/internal/repository/post"
	"github.com/kailas-cloud/practicelink/internal/repository/searchcache"
	chiTransport "github.com/kailas-cloud/practicelink/internal/transport/chi"
	openaiLLM "github.com/kailas-cloud/practicelink/internal/transport/openai"
	"github.com/kailas-cloud/practicelink/internal/transport/probe"
	"github.com/kailas-cloud/practicelink/internal/transport/tavily"
	"github.com/kailas-cloud/practicelink/internal/usecase/enrichment"
	healthuc "github.com/kailas-cloud/practicelink/internal/usecase/health"
	"github.com/kailas-cloud/practicelink/internal/usecase/linksearch"
	"github.com/kailas-cloud/practicelink/internal/usecase/modellinks"
	postuc "github.com/kailas-cloud/practicelink/internal/usecase/post"
	publishuc "github.com/kailas-cloud/practicelink/internal/usecase/publish"
	"github.com/kailas-cloud/practicelink/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting practicelink API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("search_enabled", cfg.Search.APIKey != ""),
		zap.Bool("llm_enabled", cfg.LLM.APIKey != ""),
		zap.Bool("cache_enabled", cfg.Cache.Enabled()),
	)

	// Register enrichment metrics explicitly (no init())
	metrics.RegisterEnrichmentMetrics()

	ctx := context.Background()

	// Post store
	pg, err := dbPostgres.NewStore(ctx, dbPostgres.Config{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer pg.Close()

	if err := pg.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	if cfg.Database.Migrate {
		if err := pg.Migrate(ctx, logger); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Search-result cache is optional: an unreachable cache is skipped.
	var cache *dbRedis.Store
	if cfg.Cache.Enabled() {
		cache, err = openCache(ctx, cfg.Cache)
		if err != nil {
			logger.Warn("Search cache disabled", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// Enrichment engine
	catalog := problem.MustDefaultCatalog()
	matcher := problem.NewMatcher(catalog)

	// Pass nil interfaces (not typed nil pointers) for disabled tiers.
	var searcher linksearch.Searcher
	if cfg.Search.APIKey != "" {
		var s linksearch.Searcher = tavily.NewClient(&tavily.Config{
			APIKey:     cfg.Search.APIKey,
			BaseURL:    cfg.Search.BaseURL,
			Depth:      cfg.Search.Depth,
			Timeout:    time.Duration(cfg.Search.TimeoutSec) * time.Second,
			RatePerSec: cfg.Search.RatePerSec,
			Burst:      cfg.Search.Burst,
			Logger:     logger,
		})
		if cache != nil {
			s = searchcache.New(s, cache, time.Duration(cfg.Cache.TTLSec)*time.Second,
				metrics.SearchCacheTotal, logger)
		}
		searcher = s
	}

	prober := probe.New(nil, time.Duration(cfg.Enrichment.ProbeTimeoutSec)*time.Second, logger)
	finder := linksearch.New(searcher, prober, linksearch.Config{
		AllowList:       link.ParseAllowList(cfg.Enrichment.AllowedDomains),
		ResultsPerQuery: cfg.Search.ResultsPerQuery,
		SearchTimeout:   time.Duration(cfg.Search.TimeoutSec) * time.Second,
	})

	llmTimeout := time.Duration(cfg.LLM.TimeoutSec) * time.Second
	var (
		llm       *openaiLLM.Client
		model     modellinks.Model
		extractor enrichment.Extractor
		formatter publishuc.Formatter
		modelHC   healthuc.ModelChecker
	)
	if cfg.LLM.APIKey != "" {
		llm = openaiLLM.NewClient(&openaiLLM.Config{
			APIKey:          cfg.LLM.APIKey,
			BaseURL:         cfg.LLM.BaseURL,
			Model:           cfg.LLM.Model,
			FormatMaxTokens: cfg.LLM.FormatMaxTokens,
			HTTPClient:      &http.Client{Timeout: llmTimeout},
			Logger:          logger,
		})
		model, extractor, formatter, modelHC = llm, llm, llm, llm
	}
	resolver := modellinks.New(model, catalog, llmTimeout)

	enrichSvc := enrichment.New(matcher, finder, resolver, extractor, enrichment.Config{
		MaxLinks:       cfg.Enrichment.MaxLinks,
		MaxBundles:     cfg.Enrichment.MaxBundles,
		Fanout:         cfg.Enrichment.Fanout,
		ExtractTimeout: llmTimeout,
	})

	// Post use cases
	posts := postrepo.New(pg)
	postSvc := postuc.New(posts)
	publishSvc := publishuc.New(posts, formatter, enrichSvc)

	var cachePinger healthuc.Pinger
	if cache != nil {
		cachePinger = cache
	}
	healthSvc := healthuc.New(pg, cachePinger, modelHC)

	server := chiTransport.NewServer(
		postSvc, publishSvc, enrichSvc, matcher, healthSvc,
		time.Duration(cfg.Enrichment.PublishTimeoutSec)*time.Second, logger,
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr: addr,
		Handler: server.Router(chiTransport.RouterOptions{
			APIKeys:     cfg.Auth.APIKeys,
			CORSOrigins: cfg.HTTP.CORSOrigins,
		}),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openCache connects the search-result cache and waits briefly for it.
func openCache(ctx context.Context, cfg config.CacheConfig) (*dbRedis.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache store: %w", err)
	}
	if err := store.WaitForReady(ctx, 5*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("cache not ready: %w", err)
	}
	return store, nil
}
