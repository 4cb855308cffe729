package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bryanwahyu/insights-workspace/internal/bootstrap"
	"github.com/bryanwahyu/insights-workspace/internal/config"
	"github.com/bryanwahyu/insights-workspace/internal/infra/httpserver"
	"github.com/bryanwahyu/insights-workspace/internal/logger"
	"github.com/bryanwahyu/insights-workspace/internal/metrics"
	"github.com/bryanwahyu/insights-workspace/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		logger.New(logger.Config{}).Fatal().Err(err).Str("path", path).Msg("config load error")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	ctx := context.Background()

	// metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// init store, staging, analyzer, service
	app, err := bootstrap.New(ctx, cfg, log, m)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap error")
	}
	defer app.Close()

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillPerSecond)
	defer limiter.Close()

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(app.Service, httpserver.Options{
		Log:         log,
		Metrics:     m,
		Gatherer:    reg,
		Checkers:    app.Checkers,
		CORSOrigins: cfg.Server.CORSOrigins,
		Limiter:     limiter,
	}))

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// run server
	go func() {
		log.LogServerStart(srv.Addr, cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.LogServerShutdown()

	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
	// batches in flight dibatalkan, session result set dibuang
	if err := app.Service.Shutdown(ctx2); err != nil {
		log.Error().Err(err).Msg("service shutdown error")
	}
}
