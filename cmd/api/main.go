package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agent-insights-go/internal/api"
	"agent-insights-go/internal/config"
	"agent-insights-go/internal/logger"
	"agent-insights-go/internal/metrics"
	"agent-insights-go/internal/pipeline"
	"agent-insights-go/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().WithError(err).Fatal("failed to load config")
	}

	log := logger.Configure(cfg.Environment, cfg.LogLevel, os.Stdout)
	log.WithField("service", "agent-insights-go").Info("starting service")

	src, closeSrc, err := openSource(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open record source")
	}
	defer closeSrc()

	m := metrics.New()
	svc := pipeline.NewService(src, cfg.Constants,
		pipeline.WithLogger(log),
		pipeline.WithMetrics(m),
		pipeline.WithTimeout(cfg.FetchTimeout),
		pipeline.WithLocation(cfg.Location),
	)

	h := api.NewHandler(svc, log, m)
	h.AllowedOrigins = cfg.AllowedOrigins

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      h.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server terminated")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	log.Info("server stopped")
}

// openSource picks the record backend: Postgres, then the REST API, then a
// local dataset workbook.
func openSource(cfg *config.Config, log *logger.Logger) (source.Source, func(), error) {
	noop := func() {}
	switch {
	case cfg.DatabaseURL != "":
		ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
		defer cancel()
		pg, err := source.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		log.WithField("source", "postgres").Info("record source ready")
		return pg, func() { pg.Close() }, nil
	case cfg.RecordsAPIURL != "":
		log.WithField("source", "rest").WithField("url", cfg.RecordsAPIURL).Info("record source ready")
		return source.NewREST(cfg.RecordsAPIURL, cfg.RecordsAPIKey, cfg.FetchTimeout, log), noop, nil
	case cfg.DatasetPath != "":
		wb, err := source.OpenWorkbook(cfg.DatasetPath, cfg.Location)
		if err != nil {
			return nil, noop, fmt.Errorf("load dataset %s: %w", cfg.DatasetPath, err)
		}
		log.WithField("source", "workbook").WithField("dataset_path", cfg.DatasetPath).Info("record source ready")
		return wb, noop, nil
	}
	return nil, noop, source.ErrNotConfigured
}
