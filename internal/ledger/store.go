package ledger

import "context"

// Store abstracts balance persistence so the ledger can run against an
// in-memory map in tests and sessions, or postgres in the service shell.
type Store interface {
	// Get returns the balance for a canonical pair, or nil if none exists yet.
	Get(ctx context.Context, groupID, currency, userA, userB string) (*Balance, error)

	// Upsert writes a balance keyed by (group, currency, pair).
	Upsert(ctx context.Context, balance *Balance) error

	// ListByGroup returns all balances for a group in one currency.
	ListByGroup(ctx context.Context, groupID, currency string) ([]*Balance, error)
}
