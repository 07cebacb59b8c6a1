package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"contractpro/config"
	"contractpro/model"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a contract id does not exist in the store
var ErrNotFound = errors.New("contract not found")

// ContractStore is the in-memory source of truth for contract records.
// Reads simulate backend latency and return defensive copies, so callers
// can never mutate stored records through a fetched slice.
type ContractStore struct {
	mu        sync.RWMutex
	contracts map[string]*model.Contract
	order     []string // insertion order, listings stay deterministic
	latency   time.Duration
}

// NewContractStore creates a store seeded with the demo contract set
func NewContractStore(cfg *config.StoreConfig) *ContractStore {
	s := &ContractStore{
		contracts: make(map[string]*model.Contract),
		latency:   time.Duration(cfg.FetchLatencyMs) * time.Millisecond,
	}

	for _, c := range seedContracts() {
		c := c
		s.contracts[c.ID] = &c
		s.order = append(s.order, c.ID)
	}

	slog.Info("contract store seeded", "contracts", len(s.order), "fetch_latency", s.latency)
	return s
}

// NewEmptyContractStore creates a store with no records and no latency
func NewEmptyContractStore() *ContractStore {
	return &ContractStore{contracts: make(map[string]*model.Contract)}
}

// FetchAll returns copies of every contract in insertion order
func (s *ContractStore) FetchAll(ctx context.Context) ([]model.Contract, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Contract, 0, len(s.order))
	for _, id := range s.order {
		if c, ok := s.contracts[id]; ok {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

// FetchByID returns a copy of one contract, or ErrNotFound
func (s *ContractStore) FetchByID(ctx context.Context, id string) (model.Contract, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return model.Contract{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contracts[id]
	if !ok {
		return model.Contract{}, ErrNotFound
	}
	return c.Clone(), nil
}

// Save inserts a contract, assigning an id when absent, and returns the
// stored copy
func (s *ContractStore) Save(c model.Contract) model.Contract {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if _, exists := s.contracts[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	stored := c.Clone()
	s.contracts[c.ID] = &stored
	return c
}

// Update replaces an existing contract, or returns ErrNotFound
func (s *ContractStore) Update(id string, c model.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[id]; !ok {
		return ErrNotFound
	}
	c.ID = id
	stored := c.Clone()
	s.contracts[id] = &stored
	return nil
}

// Delete removes a contract, or returns ErrNotFound
func (s *ContractStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[id]; !ok {
		return ErrNotFound
	}
	delete(s.contracts, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of contracts in the store
func (s *ContractStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contracts)
}

func (s *ContractStore) simulateLatency(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
