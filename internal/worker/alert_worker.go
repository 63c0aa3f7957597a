// Package worker runs the periodic spending-alert scan.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/analytics"
	"bilancio/internal/report"
)

// AlertPublisher sends one alert message downstream.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, msg *amqp.AlertMessage) error
}

// AlertWorker periodically evaluates the alert rules against the most
// recent ledger month and publishes newly triggered alerts. Alerts
// already published in this process are not re-sent.
type AlertWorker struct {
	reports   *report.Service
	publisher AlertPublisher
	owner     string

	mu        sync.Mutex
	published map[string]bool
}

func NewAlertWorker(reports *report.Service, publisher AlertPublisher, owner string) *AlertWorker {
	return &AlertWorker{
		reports:   reports,
		publisher: publisher,
		owner:     owner,
		published: make(map[string]bool),
	}
}

// Run scans immediately and then on every tick until the context is
// canceled.
func (w *AlertWorker) Run(ctx context.Context, interval time.Duration) error {
	if err := w.ScanOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Alert scan failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ScanOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Alert scan failed", "error", err)
			}
		}
	}
}

// ScanOnce evaluates alerts for the latest month with ledger data.
func (w *AlertWorker) ScanOnce(ctx context.Context) error {
	year, month, err := w.latestPeriod(ctx)
	if err != nil {
		return err
	}
	if year == 0 {
		slog.InfoContext(ctx, "Ledger is empty, nothing to scan")
		return nil
	}

	alerts, err := w.reports.Alerts(ctx, year, month, w.owner)
	if err != nil {
		return fmt.Errorf("detect alerts for %04d-%02d: %w", year, month, err)
	}

	sent := 0
	for _, alert := range alerts {
		key := alertKey(year, month, alert)

		w.mu.Lock()
		seen := w.published[key]
		w.mu.Unlock()
		if seen {
			continue
		}

		msg := amqp.NewAlertMessage(year, month, w.owner, alert)
		if err := w.publisher.PublishAlert(ctx, msg); err != nil {
			return fmt.Errorf("publish alert %s: %w", alert.Kind, err)
		}

		w.mu.Lock()
		w.published[key] = true
		w.mu.Unlock()
		sent++
	}

	slog.InfoContext(ctx, "Alert scan completed",
		"year", year,
		"month", month,
		"triggered", len(alerts),
		"published", sent)
	return nil
}

// latestPeriod finds the most recent year and month with transactions.
// Returns zeros when the ledger is empty.
func (w *AlertWorker) latestPeriod(ctx context.Context) (int, int, error) {
	years, err := w.reports.Years(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list years: %w", err)
	}
	if len(years) == 0 {
		return 0, 0, nil
	}

	year := years[len(years)-1]
	months, err := w.reports.Months(ctx, year, w.owner)
	if err != nil {
		return 0, 0, fmt.Errorf("list months for %d: %w", year, err)
	}
	if len(months) == 0 {
		return 0, 0, nil
	}
	return year, months[len(months)-1], nil
}

// alertKey identifies one alert occurrence for deduplication. Amount is
// part of the key so a growing monthly total re-alerts.
func alertKey(year, month int, a analytics.Alert) string {
	return fmt.Sprintf("%04d-%02d|%s|%s|%d", year, month, a.Kind, a.Category, a.AmountCents)
}
