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
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"casebridge/internal/audit"
	"casebridge/internal/buc/datetime"
	"casebridge/internal/buc/eligibility"
	"casebridge/internal/buc/handler"
	bucmetrics "casebridge/internal/buc/metrics"
	"casebridge/internal/buc/ports"
	"casebridge/internal/buc/reconcile"
	"casebridge/internal/buc/service"
	"casebridge/internal/buc/view"
	"casebridge/internal/caseapi"
	jwttoken "casebridge/internal/jwt_token"
	"casebridge/internal/platform/config"
	"casebridge/internal/platform/httpserver"
	"casebridge/internal/platform/lock"
	"casebridge/internal/platform/logger"
	"casebridge/internal/platform/metrics"
	"casebridge/internal/platform/middleware"
	"casebridge/internal/platform/redis"
	"casebridge/internal/platform/tracing"
	"casebridge/internal/prefill"
	"casebridge/pkg/platform/circuit"
	"casebridge/pkg/platform/httputil"
)

const serviceName = "casebridge"

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		ServiceName: serviceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		return err
	}
	defer shutdown(log, "tracing", shutdownTracing)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var lockClient goredis.UniversalClient
	if redisClient != nil {
		defer redisClient.Close()
		lockClient = redisClient.Client
	} else {
		log.Warn("REDIS_URL not set; case locks are local to this replica")
	}

	cases, err := caseapi.New(cfg.CaseAPI.BaseURL,
		caseapi.WithTimeout(cfg.CaseAPI.Timeout),
		caseapi.WithSystemToken(cfg.CaseAPI.SystemToken),
		caseapi.WithBreaker(circuit.New("case-api")),
		caseapi.WithMetrics(caseapi.NewMetrics(reg)),
		caseapi.WithLogger(log),
	)
	if err != nil {
		return err
	}

	auditPublisher, closeAudit, err := newAuditPublisher(cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer closeAudit()

	loc, err := cfg.Cases.Location()
	if err != nil {
		return err
	}
	catalogue, err := eligibility.LoadCatalogue()
	if err != nil {
		return err
	}

	caseMetrics := bucmetrics.NewWith(reg)
	views := view.NewBatchBuilder(cases, view.NewBuilder(datetime.New(loc), log),
		view.WithWorkers(cfg.Cases.BatchWorkers),
		view.WithMetrics(caseMetrics),
		view.WithLogger(log),
	)

	opts := []service.Option{
		service.WithAuditPublisher(auditPublisher),
		service.WithLogger(log),
	}
	if cfg.Prefill.BaseURL != "" {
		opts = append(opts, service.WithPrefiller(prefill.New(cfg.Prefill.BaseURL, cfg.Prefill.Timeout)))
	} else {
		log.Warn("PREFILL_URL not set; mediated institution additions are disabled")
	}

	svc, err := service.New(service.Deps{
		Cases:       cases,
		Documents:   cases,
		Creator:     cases,
		Adder:       cases,
		Locker:      lock.New(lockClient, cfg.Redis.LockTTL, lock.WithLogger(log)),
		Views:       views,
		Eligibility: eligibility.NewEngine(catalogue, eligibility.WithMetrics(caseMetrics)),
		Reconcile:   reconcile.NewEngine(catalogue, reconcile.WithMetrics(caseMetrics)),
	}, opts...)
	if err != nil {
		return err
	}

	jwtValidator := jwttoken.NewJWTServiceAdapter(
		jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience))

	r := chi.NewRouter()
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Metrics(metrics.New(reg)))
	r.Use(middleware.Logger(log))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "redis": err.Error()})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtValidator, log))
		handler.New(svc, log).Register(r)
	})

	srv := httpserver.New(cfg.Server.Addr, r)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting casebridge", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newAuditPublisher publishes to Kafka when brokers are configured and to the
// structured log otherwise.
func newAuditPublisher(cfg config.KafkaConfig, log *slog.Logger) (ports.AuditPublisher, func(), error) {
	if len(cfg.Brokers) == 0 {
		log.Warn("KAFKA_BROKERS not set; audit events go to the log")
		return audit.NewPublisher(audit.NewLogSink(log)), func() {}, nil
	}
	client, err := audit.NewKafkaClient(cfg.Brokers)
	if err != nil {
		return nil, nil, err
	}
	return audit.NewPublisher(audit.NewKafkaSink(client, cfg.AuditTopic)), client.Close, nil
}

func shutdown(log *slog.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn("shutdown failed", "component", name, "error", err)
	}
}
