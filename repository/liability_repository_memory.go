package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"loan-payoff/domain"
)

// LiabilityRepositoryMemory is an in-memory implementation of LiabilityRepository.
type LiabilityRepositoryMemory struct {
	mu           sync.RWMutex
	liabilities  map[string]domain.Liability
	transactions map[string][]domain.Transaction
}

// NewLiabilityRepositoryMemory creates a new in-memory liability repository.
func NewLiabilityRepositoryMemory() *LiabilityRepositoryMemory {
	return &LiabilityRepositoryMemory{
		liabilities:  make(map[string]domain.Liability),
		transactions: make(map[string][]domain.Transaction),
	}
}

// Save inserts or replaces the liability.
func (r *LiabilityRepositoryMemory) Save(_ context.Context, liability domain.Liability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.liabilities[liability.ID] = liability
	return nil
}

func (r *LiabilityRepositoryMemory) Get(_ context.Context, id string) (domain.Liability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	liability, ok := r.liabilities[id]
	if !ok {
		return domain.Liability{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return liability, nil
}

// List returns every liability ordered by name.
func (r *LiabilityRepositoryMemory) List(_ context.Context) ([]domain.Liability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Liability, 0, len(r.liabilities))
	for _, l := range r.liabilities {
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name == result[j].Name {
			return result[i].ID < result[j].ID
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *LiabilityRepositoryMemory) AddTransaction(_ context.Context, tx domain.Transaction) (domain.Liability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	liability, ok := r.liabilities[tx.LiabilityID]
	if !ok {
		return domain.Liability{}, fmt.Errorf("%w: %s", ErrNotFound, tx.LiabilityID)
	}
	liability.CurrentBalance = applyTransaction(liability.CurrentBalance, tx)
	r.liabilities[tx.LiabilityID] = liability
	r.transactions[tx.LiabilityID] = append(r.transactions[tx.LiabilityID], tx)
	return liability, nil
}

// Transactions returns the liability's history ordered by date.
func (r *LiabilityRepositoryMemory) Transactions(_ context.Context, liabilityID string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.liabilities[liabilityID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, liabilityID)
	}
	history := make([]domain.Transaction, len(r.transactions[liabilityID]))
	copy(history, r.transactions[liabilityID])
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})
	return history, nil
}
