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

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/elmo3159/Pokeseal-sub000/pkg/api"
	"github.com/elmo3159/Pokeseal-sub000/pkg/config"
	"github.com/elmo3159/Pokeseal-sub000/pkg/feed"
	"github.com/elmo3159/Pokeseal-sub000/pkg/handlers"
	"github.com/elmo3159/Pokeseal-sub000/pkg/metrics"
	"github.com/elmo3159/Pokeseal-sub000/pkg/middleware"
	"github.com/elmo3159/Pokeseal-sub000/pkg/notifier"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage/dynamodb"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage/memory"
	"github.com/elmo3159/Pokeseal-sub000/pkg/trade"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const (
	apiGatewayPostsPerSecond = 50
	expirySweepLimit         = 100
	shutdownTimeout          = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	hub := feed.NewHub(0)
	hub.OnDrop = func(string) { m.DroppedSubscribers.Inc() }

	store, sqsClient, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}

	publishers := feed.MultiPublisher{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer rdb.Close()

		relay := feed.NewRedisRelay(rdb, "", hub)
		if err := relay.Start(ctx); err != nil {
			return err
		}
		defer relay.Close()
		publishers = append(publishers, feed.NewRedisPublisher(rdb, ""))
		logger.Info("feed relayed through redis", "addr", cfg.RedisAddr)
	} else {
		publishers = append(publishers, hub)
	}
	if cfg.WebsocketAPIEndpoint != "" {
		apigw, err := feed.NewAPIGatewayClient(ctx, cfg.WebsocketAPIEndpoint)
		if err != nil {
			return err
		}
		publishers = append(publishers, feed.NewAPIGatewayPublisher(store, apigw, apiGatewayPostsPerSecond))
	}

	var notify notifier.Notifier = notifier.Noop{}
	if cfg.NotificationsQueueURL != "" && sqsClient != nil {
		notify = notifier.NewSQSNotifier(sqsClient, cfg.NotificationsQueueURL)
	}

	svc := trade.NewService(trade.Deps{
		Store:     store,
		Publisher: publishers,
		Hub:       hub,
		Notifier:  notify,
		Metrics:   m,
		Logger:    logger,
	}, trade.Options{
		MaxRequestsPerSession: cfg.MaxRequestsPerSession,
		MatchCandidateLimit:   cfg.MatchCandidateLimit,
	})

	if cfg.WaitingSessionMaxAge > 0 {
		go sweepWaitingSessions(ctx, svc, cfg.WaitingSessionMaxAge, logger)
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID, chimw.Recoverer, middleware.NewStructuredLogger(logger))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		api.HandlerFromMux(handlers.NewApiHandler(svc), r)
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.HTTPPort, "backend", cfg.StorageBackend)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newStore builds the configured backend. The SQS client is only available
// with the AWS backend.
func newStore(ctx context.Context, cfg *config.Config) (storage.Storage, *sqs.Client, error) {
	if cfg.StorageBackend == config.BackendMemory {
		store := memory.New()
		if cfg.SeedFile != "" {
			if err := store.SeedFromFile(cfg.SeedFile); err != nil {
				return nil, nil, err
			}
		}
		return store, nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	return dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), cfg.Tables), sqs.NewFromConfig(awsCfg), nil
}

func sweepWaitingSessions(ctx context.Context, svc *trade.Service, maxAge time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(maxAge / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.ExpireWaitingSessions(ctx, maxAge, expirySweepLimit)
			if err != nil {
				logger.Error("failed to expire waiting sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("expired waiting sessions", "count", n)
			}
		}
	}
}
