package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joao-fontenele/orderdesk/internal/config"
	"github.com/joao-fontenele/orderdesk/internal/fulfillment"
	"github.com/joao-fontenele/orderdesk/internal/messaging"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if len(cfg.KafkaBrokers) == 0 {
		logger.Error("KAFKA_BROKERS environment variable is required")
		os.Exit(1)
	}
	if cfg.OrderServiceURL == "" {
		logger.Error("ORDER_SERVICE_URL environment variable is required")
		os.Exit(1)
	}
	if cfg.EmailServiceURL == "" {
		logger.Error("EMAIL_SERVICE_URL environment variable is required")
		os.Exit(1)
	}

	placed := messaging.NewConsumer(cfg.KafkaBrokers, messaging.TopicOrderPlaced, "fulfillment")
	defer func() { _ = placed.Close() }()

	cancelled := messaging.NewConsumer(cfg.KafkaBrokers, messaging.TopicOrderCancelled, "fulfillment")
	defer func() { _ = cancelled.Close() }()

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	handler := fulfillment.NewHandler(cfg.OrderServiceURL, cfg.EmailServiceURL, httpClient, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting fulfillment worker", "brokers", cfg.KafkaBrokers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return placed.Consume(gctx, handler.HandleOrderPlaced) })
	g.Go(func() error { return cancelled.Consume(gctx, handler.HandleOrderCancelled) })

	if err := g.Wait(); err != nil {
		if ctx.Err() == context.Canceled {
			logger.Info("consumers stopped")
			return
		}
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
