// Package worker keeps financial reports current in the background: it
// recomputes a user's report when the ledger changes and snapshots every user
// on a schedule.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
)

// HealthComputer is the part of the finance service the worker drives.
type HealthComputer interface {
	ComputeFinancialHealth(ctx context.Context, userID string) (analytics.HealthResult, error)
	SnapshotUsers(ctx context.Context) ([]string, error)
}

type ReportWorker struct {
	finance     HealthComputer
	concurrency int
}

func NewReportWorker(finance HealthComputer, concurrency int) *ReportWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ReportWorker{finance: finance, concurrency: concurrency}
}

// HandleLedgerChanged recomputes the current-period report of the user whose
// ledger changed. An error requeues the message.
func (w *ReportWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger changed message",
		"user_id", msg.UserID,
		"kind", msg.Kind,
		"action", msg.Action)

	res, err := w.finance.ComputeFinancialHealth(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("recompute report for %s: %w", msg.UserID, err)
	}
	slog.InfoContext(ctx, "Report recomputed", "user_id", msg.UserID, "score", res.Score)
	return nil
}

// SnapshotReports recomputes the report of every user with ledger data. One
// user's failure does not stop the others; the failures are returned joined.
func (w *ReportWorker) SnapshotReports(ctx context.Context) (int, error) {
	users, err := w.finance.SnapshotUsers(ctx)
	if err != nil {
		return 0, err
	}

	var (
		done int64
		errs = make([]error, len(users))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for i, userID := range users {
		g.Go(func() error {
			if _, err := w.finance.ComputeFinancialHealth(gctx, userID); err != nil {
				slog.ErrorContext(gctx, "Report snapshot failed", "user_id", userID, "error", err)
				errs[i] = fmt.Errorf("user %s: %w", userID, err)
				return nil
			}
			atomic.AddInt64(&done, 1)
			return nil
		})
	}
	_ = g.Wait()

	slog.InfoContext(ctx, "Report snapshot finished", "users", len(users), "succeeded", done)
	if err := errors.Join(errs...); err != nil {
		return int(done), fmt.Errorf("snapshot reports: %w", err)
	}
	return int(done), nil
}

// Schedule runs SnapshotReports on the cron spec until ctx is done. It blocks
// and waits for a running snapshot to finish before returning.
func (w *ReportWorker) Schedule(ctx context.Context, spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if _, err := w.SnapshotReports(ctx); err != nil {
			slog.ErrorContext(ctx, "Scheduled report snapshot failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("add report schedule %q: %w", spec, err)
	}
	c.Start()
	slog.InfoContext(ctx, "Report snapshots scheduled", "schedule", spec)

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
