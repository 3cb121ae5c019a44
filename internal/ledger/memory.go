package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store implementation, safe for concurrent use.
type MemoryStore struct {
	mu       sync.Mutex
	balances map[string]*Balance
}

// NewMemoryStore creates an empty in-memory balance store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{balances: make(map[string]*Balance)}
}

func storeKey(groupID, currency, userA, userB string) string {
	return fmt.Sprintf("%s|%s|%s|%s", groupID, currency, userA, userB)
}

// Get returns the balance for a canonical pair, or nil if none exists yet
func (s *MemoryStore) Get(_ context.Context, groupID, currency, userA, userB string) (*Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.balances[storeKey(groupID, currency, userA, userB)]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

// Upsert writes a balance keyed by (group, currency, pair)
func (s *MemoryStore) Upsert(_ context.Context, balance *Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *balance
	s.balances[storeKey(balance.GroupID, balance.Currency, balance.UserA, balance.UserB)] = &copied
	return nil
}

// ListByGroup returns all balances for a group in one currency, ordered by
// pair for deterministic iteration.
func (s *MemoryStore) ListByGroup(_ context.Context, groupID, currency string) ([]*Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Balance
	for _, b := range s.balances {
		if b.GroupID == groupID && b.Currency == currency {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserA != out[j].UserA {
			return out[i].UserA < out[j].UserA
		}
		return out[i].UserB < out[j].UserB
	})
	return out, nil
}

// Compile-time check: MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
