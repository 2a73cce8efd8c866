package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"go.uber.org/ratelimit"
)

// PostToConnectionAPI is the subset of the API Gateway management client used here.
type PostToConnectionAPI interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// ConnectionDirectory resolves users to their open websocket connections.
type ConnectionDirectory interface {
	GetConnectionsForUser(ctx context.Context, userID string) ([]string, error)
	RemoveConnection(ctx context.Context, connectionID string) error
}

// APIGatewayPublisher pushes events to the API Gateway websocket connections
// of every user in the event's audience.
type APIGatewayPublisher struct {
	connections ConnectionDirectory
	client      PostToConnectionAPI
	limiter     ratelimit.Limiter
}

// NewAPIGatewayClient builds a management API client for a websocket API endpoint.
func NewAPIGatewayClient(ctx context.Context, apiEndpoint string) (*apigatewaymanagementapi.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(apiEndpoint)
	}), nil
}

// NewAPIGatewayPublisher creates a publisher that posts at most ratePerSecond
// messages per second. A non-positive rate disables pacing.
func NewAPIGatewayPublisher(connections ConnectionDirectory, client PostToConnectionAPI, ratePerSecond int) *APIGatewayPublisher {
	limiter := ratelimit.NewUnlimited()
	if ratePerSecond > 0 {
		limiter = ratelimit.New(ratePerSecond)
	}
	return &APIGatewayPublisher{connections: connections, client: client, limiter: limiter}
}

var _ Publisher = (*APIGatewayPublisher)(nil)

// Publish sends evt to the audience's connections.
func (p *APIGatewayPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	var errs []error
	for _, userID := range evt.Audience {
		if err := p.SendToUser(ctx, userID, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SendToUser posts a raw payload to every connection of a user. Stale
// connections are removed; other delivery failures are logged.
func (p *APIGatewayPublisher) SendToUser(ctx context.Context, userID string, payload []byte) error {
	connectionIDs, err := p.connections.GetConnectionsForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get connections for user: %w", err)
	}

	for _, connectionID := range connectionIDs {
		p.limiter.Take()
		_, err := p.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(connectionID),
			Data:         payload,
		})
		if err == nil {
			continue
		}

		var goneErr *apigwtypes.GoneException
		if errors.As(err, &goneErr) {
			slog.Info("stale connection found, deleting", "connectionId", connectionID)
			if err := p.connections.RemoveConnection(ctx, connectionID); err != nil {
				slog.Error("failed to delete stale connection", "error", err)
			}
		} else {
			slog.Error("failed to post to connection", "connectionId", connectionID, "error", err)
		}
	}
	return nil
}
