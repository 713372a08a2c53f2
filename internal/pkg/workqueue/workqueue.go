// Package workqueue drains status-driven tables: select a bounded batch of
// pending rows, claim them, then fan the rows out to a named worker.
package workqueue

import "context"

// Item is one claimed row and the payload its worker receives.
type Item struct {
	ID      uint
	Payload map[string]interface{}
}

// Store is the status-column persistence of one work table.
type Store interface {
	// SelectPending returns up to limit pending rows in store order.
	SelectPending(ctx context.Context, limit int) ([]Item, error)
	// Claim moves exactly the given rows to processing. It does not re-check
	// their status.
	Claim(ctx context.Context, ids []uint) error
	// ClaimAtomic claims up to limit pending rows in a single conditional
	// update and returns the rows it claimed.
	ClaimAtomic(ctx context.Context, limit int) ([]Item, error)
	// MarkFailed moves one row to a terminal status with a message.
	MarkFailed(ctx context.Context, id uint, status, message string) error
}

// Invoker fires a named worker with a JSON-serializable payload and waits
// until the invocation was accepted or failed.
type Invoker interface {
	Invoke(ctx context.Context, name string, payload map[string]interface{}) error
}

// Preparer enriches a row's payload before dispatch. An error keeps the row
// from being dispatched and moves it to the runner's reject status.
type Preparer interface {
	Prepare(ctx context.Context, item Item) (map[string]interface{}, error)
}

// PreparerFunc adapts a function to Preparer.
type PreparerFunc func(ctx context.Context, item Item) (map[string]interface{}, error)

func (f PreparerFunc) Prepare(ctx context.Context, item Item) (map[string]interface{}, error) {
	return f(ctx, item)
}
