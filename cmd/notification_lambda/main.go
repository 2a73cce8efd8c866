package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/elmo3159/Pokeseal-sub000/pkg/config"
	"github.com/elmo3159/Pokeseal-sub000/pkg/feed"
	"github.com/elmo3159/Pokeseal-sub000/pkg/notifier"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage/dynamodb"
)

// UserSender delivers a raw payload to every open connection of a user.
type UserSender interface {
	SendToUser(ctx context.Context, userID string, payload []byte) error
}

// Handler pushes queued notifications to the recipients' websocket connections.
type Handler struct {
	Sender UserSender
}

// HandleRequest processes a batch of notification messages. Malformed bodies
// are dropped; delivery failures are reported back so SQS retries only those.
func (h *Handler) HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, message := range sqsEvent.Records {
		n, err := notifier.Decode(message.Body)
		if err != nil {
			slog.Error("dropping malformed notification", "messageId", message.MessageId, "error", err)
			continue
		}

		payload, err := json.Marshal(n)
		if err != nil {
			slog.Error("failed to marshal notification", "messageId", message.MessageId, "error", err)
			continue
		}

		if err := h.Sender.SendToUser(ctx, n.UserId, payload); err != nil {
			slog.Error("failed to deliver notification", "messageId", message.MessageId, "userId", n.UserId, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
			continue
		}
		slog.Debug("delivered notification", "userId", n.UserId, "kind", n.Kind, "sessionId", n.SessionId)
	}
	return resp, nil
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
	slog.SetDefault(cfg.Logger())
	if cfg.WebsocketAPIEndpoint == "" {
		slog.Error("WEBSOCKET_API_ENDPOINT environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("unable to load SDK config", "error", err)
		os.Exit(1)
	}
	store := dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), cfg.Tables)

	apigw, err := feed.NewAPIGatewayClient(ctx, cfg.WebsocketAPIEndpoint)
	if err != nil {
		slog.Error("failed to create api gateway client", "error", err)
		os.Exit(1)
	}

	h := &Handler{Sender: feed.NewAPIGatewayPublisher(store, apigw, 0)}
	lambda.Start(h.HandleRequest)
}
