package notifier

import (
	"context"
	"log/slog"

	"github.com/SscSPs/farm_payouts/internal/core/ports/gateways"
	"github.com/SscSPs/farm_payouts/internal/middleware"
)

// LogNotifier writes events to the request logger. Used when no redis URL is configured.
type LogNotifier struct{}

// Ensure LogNotifier implements gateways.Notifier
var _ gateways.Notifier = LogNotifier{}

// EmitToUser implements gateways.Notifier.
func (LogNotifier) EmitToUser(ctx context.Context, userID string, event string, _ any) error {
	middleware.GetLoggerFromCtx(ctx).Info("Notification", slog.String("user_id", userID), slog.String("event", event))
	return nil
}
