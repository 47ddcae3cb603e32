package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/ec-datalayer/internal/config"
	"github.com/example/ec-datalayer/internal/datalayer"
	"github.com/example/ec-datalayer/internal/infrastructure/kafka"
	"github.com/example/ec-datalayer/internal/schema"
	"github.com/example/ec-datalayer/internal/tracking"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Tracker] Invalid configuration: %v", err)
	}

	log.Println("[Tracker] ========================================")
	log.Println("[Tracker] EC Shop - Data Layer Tracker")
	log.Println("[Tracker] ========================================")
	log.Printf("[Tracker] Kafka: %v", cfg.KafkaBrokers)
	log.Printf("[Tracker] Topic: %s", cfg.KafkaTopic)
	log.Printf("[Tracker] Group: %s", cfg.ConsumerGroup)
	log.Printf("[Tracker] Strict schema check: %t", cfg.Strict)
	if cfg.ConfigPath != "" {
		log.Printf("[Tracker] Config file: %s", cfg.ConfigPath)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	dlCfg := datalayer.Config{
		MaxEntries: cfg.MaxEntries,
		Metrics:    datalayer.NewMetrics(registry),
	}
	if cfg.Strict {
		catalog, err := schema.Compile()
		if err != nil {
			log.Fatalf("[Tracker] Failed to compile catalog schema: %v", err)
		}
		dlCfg.Checker = catalog
	}
	dataLayer := datalayer.New(dlCfg)

	projector := tracking.NewProjector(dataLayer, cfg.DefaultCurrency)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.ConsumerGroup)
	defer consumer.Close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	server := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("[Tracker] Serving metrics on %s", cfg.MetricsAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[Tracker] Metrics server error: %v", err)
		}
	}()

	go func() {
		log.Println("[Tracker] Starting event consumer...")
		if err := consumer.Consume(ctx, projector.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[Tracker] Consumer error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Tracker] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Tracker] Metrics server shutdown error: %v", err)
	}
	log.Printf("[Tracker] Recorded %d pushes", dataLayer.Len())
}
