package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	log "github.com/sirupsen/logrus"

	"github.com/zzenonn/zhost/internal/app"
	"github.com/zzenonn/zhost/internal/config"
	"github.com/zzenonn/zhost/internal/logging"
	"github.com/zzenonn/zhost/internal/transport/alb"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	logging.InitLogger(cfg)

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	// A process without a mapping table cannot serve any host.
	if err := a.Warm(ctx); err != nil {
		log.Fatalf("Failed to load host mappings: %v", err)
	}

	handler := alb.NewHandler(a.Router, cfg.ResponseFormat)
	lambda.StartWithOptions(handler.Invoke, lambda.WithContext(ctx))
}
