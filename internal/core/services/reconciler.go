package services

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/farm_payouts/internal/core/ports/services"
	"github.com/SscSPs/farm_payouts/internal/middleware"
)

// Reconciler periodically resolves payouts stuck in AWAITING_GATEWAY.
type Reconciler struct {
	svc      portssvc.PayoutReconcilerSvc
	interval time.Duration
	logger   *slog.Logger
}

// NewReconciler creates a Reconciler that sweeps every interval.
func NewReconciler(svc portssvc.PayoutReconcilerSvc, interval time.Duration, logger *slog.Logger) *Reconciler {
	return &Reconciler{svc: svc, interval: interval, logger: logger.With(slog.String("component", "reconciler"))}
}

// Run blocks until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	r.logger.Info("Payout reconciler started", slog.Duration("interval", r.interval))
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Payout reconciler stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep.
func (r *Reconciler) RunOnce(ctx context.Context) {
	ctx = middleware.WithLogger(ctx, r.logger)
	report, err := r.svc.ReconcileStalePayouts(ctx)
	if err != nil {
		r.logger.Error("Reconciliation sweep failed", slog.String("error", err.Error()))
		return
	}
	if report.Pending > 0 {
		r.logger.Warn("Some payouts are still unresolved", slog.Int("pending", report.Pending))
	}
}
