package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/example/ec-datalayer/internal/config"
	"github.com/example/ec-datalayer/internal/datalayer"
	"github.com/example/ec-datalayer/internal/infrastructure/kinesis"
	"github.com/example/ec-datalayer/internal/schema"
	"github.com/example/ec-datalayer/internal/tracking"
)

var projector *tracking.Projector

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Lambda Tracker] Invalid configuration: %v", err)
	}

	dlCfg := datalayer.Config{MaxEntries: cfg.MaxEntries}
	if cfg.Strict {
		catalog, err := schema.Compile()
		if err != nil {
			log.Fatalf("[Lambda Tracker] Failed to compile catalog schema: %v", err)
		}
		dlCfg.Checker = catalog
	}
	projector = tracking.NewProjector(datalayer.New(dlCfg), cfg.DefaultCurrency)

	log.Println("[Lambda Tracker] Initialized successfully")
}

func handler(ctx context.Context, kinesisEvent events.KinesisEvent) (events.KinesisEventResponse, error) {
	log.Printf("[Lambda Tracker] Received %d records", len(kinesisEvent.Records))
	return kinesis.ProcessBatch(ctx, kinesisEvent, projector.HandleEvent), nil
}

func main() {
	lambda.Start(handler)
}
