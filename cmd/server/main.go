package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	adverthandler "rehome/internal/advert/handler"
	advertservice "rehome/internal/advert/service"
	advertstore "rehome/internal/advert/store"
	"rehome/internal/advert/store/thumbnail"
	"rehome/internal/audit"
	"rehome/internal/events"
	"rehome/internal/jwttoken"
	personhandler "rehome/internal/person/handler"
	personmodels "rehome/internal/person/models"
	"rehome/internal/person/scoring"
	personservice "rehome/internal/person/service"
	personstore "rehome/internal/person/store"
	"rehome/internal/platform/config"
	"rehome/internal/platform/httpserver"
	"rehome/internal/platform/logger"
	"rehome/internal/platform/metrics"
	"rehome/internal/platform/middleware"
	"rehome/internal/platform/postgres"
	platformredis "rehome/internal/platform/redis"
	"rehome/internal/uow"
)

// personStorage is the full person persistence surface main wires together.
type personStorage interface {
	personservice.PersonStore
	uow.PersonStore
}

type advertStorage interface {
	advertservice.AdvertisementStore
	uow.AdvertisementStore
}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var persons personStorage = personstore.NewInMemory()
	var adverts advertStorage = advertstore.NewInMemory()
	var uowOpts []uow.Option
	if db != nil {
		persons = personstore.NewPostgres(db)
		adverts = advertstore.NewPostgres(db)
		uowOpts = append(uowOpts, uow.WithDB(db))
	}
	var thumbnails advertservice.ThumbnailStore = thumbnail.NewInMemory()
	if redisClient != nil {
		thumbnails = thumbnail.NewRedis(redisClient.Client)
	}

	dispatcher := events.NewDispatcher(log)
	unit := uow.New(persons, adverts, dispatcher, append(uowOpts, uow.WithLogger(log))...)

	m := metrics.New()
	var auditStore audit.Store = audit.NewMemoryStore()
	if db != nil {
		auditStore = audit.NewPostgresStore(db)
	}
	auditPublisher := audit.NewPublisher(256)
	auditWorker := audit.NewWorker(auditStore, auditPublisher.Inbox())

	advertSvc := advertservice.New(adverts, persons, thumbnails, unit,
		advertservice.WithLogger(log),
		advertservice.WithMetrics(m),
		advertservice.WithAuditPublisher(auditPublisher),
	)
	var calc personmodels.PriorityCalculator = scoring.NewWeightedCalculator()
	personSvc := personservice.New(persons, unit, calc, advertSvc,
		personservice.WithLogger(log),
		personservice.WithMetrics(m),
		personservice.WithAuditPublisher(auditPublisher),
	)

	dispatcher.Register(events.AdvertisementClosed{}.EventName(), personSvc.HandleAdvertisementClosed)
	dispatcher.Register(events.AdvertisementDeleted{}.EventName(), personSvc.HandleAdvertisementDeleted)
	dispatcher.Register(events.PersonDeleted{}.EventName(), advertSvc.HandlePersonDeleted)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	validator := jwttoken.NewJWTServiceAdapter(jwtService)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(log))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	personhandler.New(personSvc, log, validator).Register(router)
	adverthandler.New(advertSvc, log, validator).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := httpserver.New(cfg.MetricsAddr, metricsMux)

	log.Info("starting rehome server", "addr", cfg.Addr, "metrics_addr", cfg.MetricsAddr)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return auditWorker.Run(ctx)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return metricsSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
