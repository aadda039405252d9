package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/passcheck-api/config"
	"github.com/jwalitptl/passcheck-api/internal/breach"
	"github.com/jwalitptl/passcheck-api/internal/enhancer"
	"github.com/jwalitptl/passcheck-api/internal/handler"
	passwordHandler "github.com/jwalitptl/passcheck-api/internal/handler/password"
	"github.com/jwalitptl/passcheck-api/internal/middleware"
	"github.com/jwalitptl/passcheck-api/internal/pattern"
	"github.com/jwalitptl/passcheck-api/internal/router"
	"github.com/jwalitptl/passcheck-api/internal/scorer"
	passwordService "github.com/jwalitptl/passcheck-api/internal/service/password"
	"github.com/jwalitptl/passcheck-api/internal/wordlist"
	apperrors "github.com/jwalitptl/passcheck-api/pkg/errors"
	"github.com/jwalitptl/passcheck-api/pkg/logger"
	"github.com/jwalitptl/passcheck-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Logging.Level),
		TimeFormat: time.RFC3339,
		Console:    cfg.Logging.Console,
	}).SetGlobal()

	m := metrics.New(cfg.Monitoring.Namespace)

	// The wordlist load is best-effort: a missing file leaves the set
	// empty and assessments still work.
	common := wordlist.Load(cfg.Wordlist.Path)

	cache, closeCache, err := newBreachCache(cfg.Breach)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize breach cache")
	}
	defer closeCache()

	checker := breach.NewChecker(breach.Config{
		Endpoint: cfg.Breach.Endpoint,
		Timeout:  cfg.Breach.Timeout,
		TTL:      cfg.Breach.TTL,
	}, cache, m)

	detector := pattern.NewDetector()
	engine := scorer.NewEngine(scorer.DefaultPolicy(), common, detector)
	enh := enhancer.New(detector, enhancer.NewSeededRand())
	gen := enhancer.NewGenerator(enhancer.NewSeededRand())

	svc := passwordService.NewService(engine, checker, enh, gen, detector, m)

	h := handler.NewHandler(common)
	passwordH := passwordHandler.NewHandler(svc)

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Security.AllowedOrigins
	}

	r := router.NewRouter(passwordH, h, router.Config{
		CORSConfig:     corsCfg,
		SecurityConfig: middleware.DefaultSecurityConfig(),
		Timeout:        cfg.Server.RequestTimeout,
		MetricsPrefix:  cfg.Monitoring.MetricsPrefix,
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

// newBreachCache selects the configured cache backend. The returned close
// function is a no-op for the in-memory backend.
func newBreachCache(cfg config.BreachConfig) (breach.Cache, func(), error) {
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		c, err := breach.NewRedisCache(cfg.Redis, cfg.TTL)
		if err != nil {
			return nil, nil, apperrors.Unavailable("redis breach cache unavailable", err)
		}
		log.Info().Msg("using redis breach cache")
		return c, func() { _ = c.Close() }, nil
	default:
		return breach.NewMemoryCache(cfg.TTL), func() {}, nil
	}
}
