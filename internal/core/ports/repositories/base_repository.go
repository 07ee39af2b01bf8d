package repositories

import "context"

// UnitOfWork runs a group of repository calls atomically.
type UnitOfWork interface {
	// RunInTx executes fn inside a transaction. Repository calls made with the
	// context passed to fn join that transaction. fn's error rolls it back.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
