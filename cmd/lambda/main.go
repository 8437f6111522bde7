package main

import (
	"context"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/exampleco/orders-api/internal/app/api"
	"github.com/exampleco/orders-api/internal/handlers"
	platformobservability "github.com/exampleco/orders-api/internal/platform/observability"
)

// Each function deployment sets LAMBDA_HANDLER to one of the names in
// handlers.Names and shares this binary.
func main() {
	ctx := context.Background()
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, api.ServiceName, cfg.ObservabilityOptions())
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()

	app, err := api.Build(ctx, cfg, instruments)
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}
	defer app.Close()

	h, ok := app.API.Handler(cfg.LambdaHandler)
	if !ok {
		log.Fatalf("unknown LAMBDA_HANDLER %q, expected one of: %s",
			cfg.LambdaHandler, strings.Join(app.API.Names(), ", "))
	}
	instruments.Logger.Info("starting lambda handler", slog.String("handler", cfg.LambdaHandler))
	lambda.Start(handlers.LambdaAdapter(h))
}
