package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/medicare-pro/admin-console/internal/domain"
)

type memoryAccountRepository struct {
	mu         sync.RWMutex
	byID       map[string]*domain.Account
	byUsername map[string]string
}

// NewMemoryAccountRepository returns an in-process implementation used when
// no database is configured.
func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{
		byID:       make(map[string]*domain.Account),
		byUsername: make(map[string]string),
	}
}

func (r *memoryAccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := normalizeUsername(account.Username)
	if _, exists := r.byUsername[key]; exists {
		return ErrAccountExists
	}
	now := time.Now().UTC()
	account.Username = key
	account.CreatedAt = now
	account.UpdatedAt = now

	stored := *account
	r.byID[stored.ID] = &stored
	r.byUsername[key] = stored.ID
	return nil
}

func (r *memoryAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *memoryAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	id, ok := r.byUsername[normalizeUsername(username)]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrAccountNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *memoryAccountRepository) List(_ context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]domain.Account, 0, len(r.byID))
	for _, account := range r.byID {
		accounts = append(accounts, *account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Username < accounts[j].Username })
	return accounts, nil
}
