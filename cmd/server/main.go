// @title         hr-interviewer API
// @version       1.0
// @description   AI job interviewer: runs interviews over an OpenRouter chat model from a free-form context or an uploaded resume.
// @BasePath      /api/v1
// @schemes       http
// @host          localhost:8080
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	swagger "github.com/gofiber/swagger"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/artem13815/hr-interviewer/docs"

	// internal imports
	apihttp "github.com/artem13815/hr-interviewer/api/http"
	"github.com/artem13815/hr-interviewer/api/http/handlers"
	"github.com/artem13815/hr-interviewer/pkg/config"
	"github.com/artem13815/hr-interviewer/pkg/health"
	"github.com/artem13815/hr-interviewer/pkg/health/checkers"
	"github.com/artem13815/hr-interviewer/pkg/interview"
	"github.com/artem13815/hr-interviewer/pkg/llm"
	"github.com/artem13815/hr-interviewer/pkg/llm/openrouter"
	"github.com/artem13815/hr-interviewer/pkg/logger"
	"github.com/artem13815/hr-interviewer/pkg/repository/memory"
	pgrepo "github.com/artem13815/hr-interviewer/pkg/repository/postgres"
	redisrepo "github.com/artem13815/hr-interviewer/pkg/repository/redis"
	"github.com/artem13815/hr-interviewer/pkg/session"
	"github.com/artem13815/hr-interviewer/pkg/settings"
	"github.com/artem13815/hr-interviewer/pkg/storage/postgres"
	"github.com/artem13815/hr-interviewer/pkg/storage/redis"
)

func main() {
	// Load configuration from defaults, CONFIG_FILE and env/.env
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", false, os.Stderr)
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogPretty, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		pool     *pgxpool.Pool
		rdb      *goredis.Client
		probes   []health.Checker
		sessions session.Repository = memory.NewSessionRepository()
		store    settings.Store     = memory.NewSettingsStore()
	)

	// Connect to PostgreSQL only when a backend needs it; migrations run on connect.
	if cfg.UsesPostgres() {
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		pool, err = postgres.Connect(connectCtx, cfg.DatabaseURL, 10)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connect")
		}
		defer pool.Close()
		probes = append(probes, checkers.Postgres(pool))
	}
	if cfg.SettingsBackend == "redis" {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rdb, err = redis.Connect(connectCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect")
		}
		defer rdb.Close()
		probes = append(probes, checkers.Redis(rdb))
	}

	if cfg.SessionBackend == "postgres" {
		sessions = pgrepo.NewSessionRepository(pool)
	}
	switch cfg.SettingsBackend {
	case "postgres":
		store = pgrepo.NewSettingsStore(pool)
	case "redis":
		store = redisrepo.NewSettingsStore(rdb, redisrepo.DefaultPrefix)
	}

	// Wire dependencies (Clean Architecture)
	settingsUC := settings.NewService(store)
	seed := settings.Settings{APIKey: cfg.OpenRouter.APIKey, ModelName: cfg.OpenRouter.Model}
	if err := settingsUC.SeedIfEmpty(ctx, seed); err != nil {
		log.Fatal().Err(err).Msg("seed provider settings")
	}

	transport := llm.WithRetry(
		openrouter.New(cfg.OpenRouter.BaseURL, cfg.OpenRouter.AppTitle, cfg.OpenRouter.Referer, cfg.OpenRouter.Timeout),
		llm.RetryPolicy{MaxRetries: uint64(cfg.OpenRouter.MaxRetries), Base: cfg.OpenRouter.RetryBase},
	)
	sessionUC := session.NewService(sessions, settingsUC, interview.NewOrchestrator(transport), log)

	app := apihttp.NewApp(log, int(cfg.ResumeMaxBytes)+(1<<20))
	apihttp.Register(app,
		handlers.NewHealthHandler(health.NewService(probes...)),
		handlers.NewSettingsHandler(settingsUC),
		handlers.NewInterviewHandler(sessionUC, cfg.ResumeMaxBytes),
		handlers.NewChatHandler(sessionUC),
	)

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	logStartup(log, cfg)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func logStartup(log zerolog.Logger, cfg config.Config) {
	log.Info().
		Str("port", cfg.Port).
		Str("session_backend", cfg.SessionBackend).
		Str("settings_backend", cfg.SettingsBackend).
		Int("max_retries", cfg.OpenRouter.MaxRetries).
		Msg("HTTP server listening")
}
