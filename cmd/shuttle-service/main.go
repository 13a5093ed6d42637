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

	"github.com/rs/zerolog"

	"shuttle-service/internal/auth"
	"shuttle-service/internal/config"
	"shuttle-service/internal/db"
	httphandler "shuttle-service/internal/http"
	"shuttle-service/internal/http/middleware"
	"shuttle-service/internal/logger"
	"shuttle-service/internal/metrics"
	"shuttle-service/internal/publisher"
	"shuttle-service/internal/refresh"
	"shuttle-service/internal/repository"
	"shuttle-service/internal/service"
	"shuttle-service/internal/timeutil"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Schedule.Timezone).Msg("invalid timezone")
	}

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}()

	collector := metrics.NewCollector(cfg.Schedule.RefreshInterval)

	snapshots := repository.NewSnapshotRepository(database)
	dashboardService := service.NewDashboardService(snapshots, timeutil.NewClock(loc), log)

	refresher := newPoller(cfg, dashboardService, collector, log)
	refresher.Start(ctx)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	ready := func(ctx context.Context) error { return db.HealthCheck(ctx, database) }

	handler := httphandler.NewHandler(dashboardService, ready, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), collector.Handler(), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		log.Info().Str("addr", addr).Str("timezone", loc.String()).Msg("starting shuttle service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	refresher.Stop()
	log.Info().Msg("shutdown complete")
}

// newPoller wires the refresh loop. Publishing is skipped when NATS_URL is
// empty or the connection cannot be established.
func newPoller(cfg *config.Config, source refresh.OverviewSource, collector *metrics.Collector, log zerolog.Logger) *poller {
	var pub refresh.Publisher
	var nats *publisher.NATSPublisher
	if cfg.NATS.URL != "" {
		p, err := publisher.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, log.With().Str("component", "nats").Logger(), collector)
		if err != nil {
			log.Warn().Err(err).Str("url", cfg.NATS.URL).Msg("nats unavailable, clearance publishing disabled")
		} else {
			pub, nats = p, p
		}
	}
	return &poller{
		Poller: refresh.NewPoller(source, cfg.Schedule.RefreshInterval, pub, collector, log.With().Str("component", "refresh").Logger()),
		nats:   nats,
	}
}

type poller struct {
	*refresh.Poller
	nats *publisher.NATSPublisher
}

func (p *poller) Stop() {
	p.Poller.Stop()
	if p.nats != nil {
		p.nats.Close()
	}
}
