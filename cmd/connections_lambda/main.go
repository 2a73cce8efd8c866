package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/elmo3159/Pokeseal-sub000/pkg/config"
	"github.com/elmo3159/Pokeseal-sub000/pkg/handlers/websockets"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage/dynamodb"
)

// Router dispatches API Gateway websocket routes to the connection handler.
type Router struct {
	Handler *websockets.Handler
}

func (r *Router) HandleRequest(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.RequestContext.RouteKey {
	case "$connect":
		return r.Handler.HandleConnect(ctx, request)
	case "$disconnect":
		return r.Handler.HandleDisconnect(ctx, request)
	case "$default":
		return r.Handler.HandleDefault(ctx, request)
	default:
		slog.Warn("unknown route", "routeKey", request.RequestContext.RouteKey)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusNotFound}, nil
	}
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

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		slog.Error("unable to load SDK config", "error", err)
		os.Exit(1)
	}
	store := dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), cfg.Tables)

	r := &Router{Handler: websockets.NewHandler(store)}
	lambda.Start(r.HandleRequest)
}
