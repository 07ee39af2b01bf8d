package gateways

import "context"

// Notifier delivers real-time events to a user. Delivery is best-effort;
// callers log failures and carry on.
type Notifier interface {
	EmitToUser(ctx context.Context, userID string, event string, payload any) error
}
