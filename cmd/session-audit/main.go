// Command session-audit consumes session events from RabbitMQ and appends
// them to an audit log file.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/vacation-portal/internal/config"
	"github.com/iliyamo/vacation-portal/internal/logger"
	"github.com/iliyamo/vacation-portal/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.Env).With("component", "session-audit")

	url := cfg.Events.URL
	if url == "" {
		url = config.DefaultAMQPURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &queue.AuditConsumer{URL: url, LogPath: cfg.Events.AuditLog, Log: log}
	log.Info("consuming", "queue", queue.SessionQueueName, "log", cfg.Events.AuditLog)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
}
