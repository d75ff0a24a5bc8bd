// Package store provides pricing.Source implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/landprice/pricing"
)

// =============================================================================
// MEMORY STORE - In-memory observation source (for testing/embedding)
// =============================================================================

type Memory struct {
	mu   sync.RWMutex
	rows []pricing.Observation
}

func NewMemory(obs ...pricing.Observation) *Memory {
	m := &Memory{}
	m.rows = append(m.rows, obs...)
	return m
}

// Append adds observations in order. An Index built earlier is unaffected;
// build a new one to see the rows.
func (m *Memory) Append(_ context.Context, obs ...pricing.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, obs...)
	return nil
}

// AppendRaw cleans raw rows and appends the survivors. Returns how many were kept.
func (m *Memory) AppendRaw(ctx context.Context, rows ...pricing.RawRow) (int, error) {
	obs := pricing.Clean(rows)
	return len(obs), m.Append(ctx, obs...)
}

// Observations implements pricing.Source. The returned slice is a copy.
func (m *Memory) Observations(_ context.Context) ([]pricing.Observation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]pricing.Observation, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

// Len returns the number of stored observations.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}
