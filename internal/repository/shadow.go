package repository

import (
	"context"
	"sync"
)

// ShadowStore is the harness's local mirror of participant reputation.
// The ledger remains the source of truth; the shadow gates next-round
// eligibility and backs failed reputation queries.
type ShadowStore interface {
	Get(ctx context.Context, id string) (int, bool, error)
	Set(ctx context.Context, id string, reputation int) error
	// Reward adds delta, capped at max.
	Reward(ctx context.Context, id string, delta, max int) error
	// Penalize subtracts penalty, floored at zero.
	Penalize(ctx context.Context, id string, penalty int) error
	Snapshot(ctx context.Context) (map[string]int, error)
}

// MemoryShadowStore is the always-available fallback implementation.
type MemoryShadowStore struct {
	mu         sync.RWMutex
	reputation map[string]int
}

func NewMemoryShadowStore() *MemoryShadowStore {
	return &MemoryShadowStore{reputation: make(map[string]int)}
}

func (s *MemoryShadowStore) Get(ctx context.Context, id string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rep, ok := s.reputation[id]
	return rep, ok, nil
}

func (s *MemoryShadowStore) Set(ctx context.Context, id string, reputation int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reputation[id] = reputation
	return nil
}

func (s *MemoryShadowStore) Reward(ctx context.Context, id string, delta, max int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep := s.reputation[id] + delta
	if rep > max {
		rep = max
	}
	s.reputation[id] = rep
	return nil
}

func (s *MemoryShadowStore) Penalize(ctx context.Context, id string, penalty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep := s.reputation[id] - penalty
	if rep < 0 {
		rep = 0
	}
	s.reputation[id] = rep
	return nil
}

func (s *MemoryShadowStore) Snapshot(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.reputation))
	for id, rep := range s.reputation {
		out[id] = rep
	}
	return out, nil
}
