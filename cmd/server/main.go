// Package main runs the analysis engine as a standalone HTTP server.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"apex-titan/config"
	"apex-titan/engine"
	"apex-titan/internal/api"
	"apex-titan/internal/app"
	"apex-titan/observability"
	"apex-titan/repository"
	"apex-titan/scheduler"
	"apex-titan/services"

	"github.com/joho/godotenv"
)

func main() {
	envMissing := godotenv.Load() != nil

	cfg, err := config.Load()
	if err != nil {
		observability.Fatal("invalid configuration", "error", err)
	}

	observability.InitLogger(cfg.Production)
	observability.InitMetrics()

	if envMissing {
		observability.Info("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Persistence is optional; the engine degrades to in-memory only
	var repo repository.Store
	if cfg.HasDatabase() {
		r, err := repository.NewRepository(ctx, cfg.Database.URL)
		if err != nil {
			observability.Warn("failed to initialize database, running without persistence", "error", err)
		} else {
			repo = r
			observability.Info("connected to database")
		}
	} else {
		observability.Info("no DATABASE_URL set, running without persistence")
	}

	provider := selectMarketData(cfg)
	advisorService := selectAdvisor(ctx, cfg)

	builder := engine.NewSnapshotBuilder(provider, cfg)
	cache := engine.NewSnapshotCache(builder, time.Duration(cfg.Engine.SnapshotCacheTTLSec)*time.Second)
	availability := engine.NewAvailabilityCache(advisorService, time.Duration(cfg.Engine.AdvisorProbeTTLSec)*time.Second)
	advisor := engine.NewAdvisorClient(advisorService, availability)

	feed := services.NewGoogleNewsService(cfg.News.BaseURL)
	news := engine.NewNewsAggregator(feed, cfg.News.MaxItems)

	screener := engine.NewScreener(cache, cfg.Screener.Symbols, cfg.Screener.MaxConcurrent)
	sched := scheduler.NewScheduler(screener, repo, time.Duration(cfg.Engine.TimeoutSeconds)*time.Second)
	if err := sched.Register(cfg.Screener.CronSpec); err != nil {
		observability.Fatal("invalid screener cron spec", "spec", cfg.Screener.CronSpec, "error", err)
	}
	sched.Start()

	application := app.New(cfg, cache, advisor, news, repo, sched)

	handler := api.NewHandler(application, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:        ":" + cfg.HTTP.Port,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout so advisor SSE streams are not cut off
	}

	go func() {
		observability.Info("starting server",
			"port", cfg.HTTP.Port,
			"provider", providerName(cfg),
			"advisor", advisorService.Name())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			observability.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	observability.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Error("server forced to shutdown", "error", err)
	}
	application.Shutdown(shutdownCtx)
	observability.Info("server stopped")
}

// selectMarketData picks the price history provider. Yahoo needs no
// credentials and is the default; Alpaca takes over when keys are present.
func selectMarketData(cfg *config.Config) services.MarketDataService {
	if cfg.HasAlpaca() {
		return services.NewAlpacaService(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret)
	}
	return services.NewYahooService(cfg.Yahoo.BaseURL)
}

func providerName(cfg *config.Config) string {
	if cfg.HasAlpaca() {
		return "alpaca"
	}
	return "yahoo"
}

// selectAdvisor picks the language-model backend. Hosted backends win over
// the local Ollama default when configured.
func selectAdvisor(ctx context.Context, cfg *config.Config) services.AdvisorService {
	if cfg.HasBedrock() {
		svc, err := services.NewBedrockService(ctx, cfg.Bedrock.Region, cfg.Bedrock.ModelID, cfg.Bedrock.MaxTokens)
		if err == nil {
			return svc
		}
		observability.Warn("failed to initialize Bedrock advisor, falling back", "error", err)
	}
	if cfg.HasOpenAI() {
		svc, err := services.NewOpenAIService(cfg)
		if err == nil {
			return svc
		}
		observability.Warn("failed to initialize OpenAI advisor, falling back", "error", err)
	}
	return services.NewOllamaService(cfg.Ollama.Host, cfg.Ollama.Model)
}
