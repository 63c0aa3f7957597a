package main

import (
	"context"
	"errors"
	"os"

	"bilancio/internal/amqp"
	"bilancio/internal/cli"
	applog "bilancio/internal/log"
	"bilancio/internal/report"
	"bilancio/internal/worker"
)

func main() {
	logger := cli.Setup(applog.ComponentWorker)
	logger.Info("Starting alert-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	reports := report.NewService(repo, repo, repo, cfg.AnalyticsOptions(), logger)
	alertWorker := worker.NewAlertWorker(reports, amqpClient, cfg.AlertOwner)

	ctx, stop := cli.SignalContext()
	defer stop()

	logger.Info("Alert worker running",
		"interval", cfg.AlertScanInterval.String(),
		"owner", cfg.AlertOwner,
		"queue", cfg.AMQPQueue)

	if err := alertWorker.Run(ctx, cfg.AlertScanInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Alert worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Alert worker stopped gracefully")
}
