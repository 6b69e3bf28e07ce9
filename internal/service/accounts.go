// Package service implements the ledger operations on top of the storage
// layer: allocation rule management, income splitting, payment settlement,
// duplicate detection, plain entry/charge recording, and batch execution.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/ledgerly/backend/internal/cache"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/storage"
)

// DefaultAccountCacheTTL is how long resolved accounts stay cached.
// The chart is fixed at startup, so a generous TTL is safe.
const DefaultAccountCacheTTL = 5 * time.Minute

// AccountResolver resolves account names to accounts through a TTL cache,
// so every operation does not pay a store round-trip per account reference.
type AccountResolver struct {
	store storage.Store
	cache *cache.Cache[*models.Account]
}

// NewAccountResolver creates a resolver with the given cache TTL.
func NewAccountResolver(store storage.Store, ttl time.Duration, opts ...cache.Option[*models.Account]) *AccountResolver {
	return &AccountResolver{
		store: store,
		cache: cache.New[*models.Account](ttl, opts...),
	}
}

// Resolve returns the account with the given name.
// Unknown names are KindNotFound; store failures are KindUpstream.
func (r *AccountResolver) Resolve(ctx context.Context, name string) (*models.Account, error) {
	if name == "" {
		return nil, invalidInputf("account name required")
	}
	if account, ok := r.cache.Get(name); ok {
		return account, nil
	}

	account, err := r.store.GetAccountByName(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFoundf("account %q not found", name)
		}
		return nil, upstream("failed to resolve account", err)
	}

	r.cache.Put(name, account)
	return account, nil
}

// List returns the full account chart.
func (r *AccountResolver) List(ctx context.Context) ([]*models.Account, error) {
	accounts, err := r.store.ListAccounts(ctx)
	if err != nil {
		return nil, upstream("failed to list accounts", err)
	}
	return accounts, nil
}
