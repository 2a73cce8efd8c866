package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/elmo3159/Pokeseal-sub000/pkg/config"
	"github.com/elmo3159/Pokeseal-sub000/pkg/feed"
	"github.com/elmo3159/Pokeseal-sub000/pkg/notifier"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage/dynamodb"
	"github.com/elmo3159/Pokeseal-sub000/pkg/trade"
)

const (
	defaultMaxAge = 30 * time.Minute
	batchSize     = 100
	maxBatches    = 10
)

// Expirer cancels stale waiting sessions.
type Expirer interface {
	ExpireWaitingSessions(ctx context.Context, maxAge time.Duration, limit int) (int, error)
}

// Handler is triggered by an EventBridge schedule and cancels matching
// requests nobody picked up.
type Handler struct {
	Expirer Expirer
	MaxAge  time.Duration
}

// HandleRequest expires sessions in batches until a batch comes back short.
func (h *Handler) HandleRequest(ctx context.Context) error {
	slog.Info("Starting expiry of waiting sessions", "maxAge", h.MaxAge)

	total := 0
	for range maxBatches {
		n, err := h.Expirer.ExpireWaitingSessions(ctx, h.MaxAge, batchSize)
		total += n
		if err != nil {
			slog.Error("failed to expire waiting sessions", "expired", total, "error", err)
			return err
		}
		if n < batchSize {
			break
		}
	}

	slog.Info("Expiry finished", "expired", total)
	return nil
}

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

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("unable to load SDK config", "error", err)
		os.Exit(1)
	}
	store := dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), cfg.Tables)

	deps := trade.Deps{Store: store, Logger: logger}
	if cfg.WebsocketAPIEndpoint != "" {
		apigw, err := feed.NewAPIGatewayClient(ctx, cfg.WebsocketAPIEndpoint)
		if err != nil {
			slog.Error("failed to create api gateway client", "error", err)
			os.Exit(1)
		}
		deps.Publisher = feed.NewAPIGatewayPublisher(store, apigw, 0)
	}
	if cfg.NotificationsQueueURL != "" {
		deps.Notifier = notifier.NewSQSNotifier(sqs.NewFromConfig(awsCfg), cfg.NotificationsQueueURL)
	}

	maxAge := cfg.WaitingSessionMaxAge
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}

	h := &Handler{
		Expirer: trade.NewService(deps, trade.Options{MatchCandidateLimit: cfg.MatchCandidateLimit}),
		MaxAge:  maxAge,
	}
	lambda.Start(h.HandleRequest)
}
