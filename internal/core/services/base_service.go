package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/farm_payouts/internal/core/domain"
	"github.com/SscSPs/farm_payouts/internal/middleware"
)

// BaseService provides the logging helpers shared by services.
type BaseService struct{}

// GetLogger returns the request-scoped logger, or the default one for
// background work such as reconciliation sweeps.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// PayoutLogger scopes the context logger to one payout attempt.
func (s *BaseService) PayoutLogger(ctx context.Context, p *domain.PayoutTransaction) *slog.Logger {
	return s.GetLogger(ctx).With(
		slog.String("payout_id", p.PayoutID),
		slog.String("collection_id", p.CollectionID),
		slog.Int("attempt", p.Attempt),
	)
}

// LogError logs err under msg with any extra attributes.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message.
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}
