package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/storage"
	"github.com/ledgerly/backend/internal/storage/sqlite"
)

// testChart is the account chart seeded into every test store.
var testChart = []struct {
	name string
	kind models.AccountKind
}{
	{"checking", models.AccountChecking},
	{"savings", models.AccountSavings},
	{"cash", models.AccountCash},
	{"brokerage", models.AccountInvestment},
	{"visa", models.AccountCredit},
	{"amex", models.AccountCredit},
}

// setupStore creates a temp sqlite store seeded with the test chart.
func setupStore(t *testing.T) storage.Store {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		os.Remove(tmpFile.Name())
	})

	ctx := context.Background()
	for _, a := range testChart {
		if _, err := store.EnsureAccount(ctx, a.name, a.kind); err != nil {
			t.Fatalf("failed to seed account %s: %v", a.name, err)
		}
	}
	return store
}

func newResolver(store storage.Store) *AccountResolver {
	return NewAccountResolver(store, DefaultAccountCacheTTL)
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func accountID(t *testing.T, store storage.Store, name string) string {
	t.Helper()
	account, err := store.GetAccountByName(context.Background(), name)
	if err != nil {
		t.Fatalf("failed to resolve %s: %v", name, err)
	}
	return account.ID
}

// seedBalance inserts one outstanding balance and returns its ID.
func seedBalance(t *testing.T, store storage.Store, creditName, fundingName, amount, date string) string {
	t.Helper()
	b := &models.OutstandingBalance{
		AccountID:        accountID(t, store, creditName),
		FundingAccountID: accountID(t, store, fundingName),
		Amount:           dec(t, amount),
		AmountPaid:       decimal.Zero,
		Date:             date,
	}
	if err := store.CreateBalance(context.Background(), b); err != nil {
		t.Fatalf("failed to seed balance: %v", err)
	}
	return b.ID
}

// seedRule installs an allocation rule directly through the store.
func seedRule(t *testing.T, store storage.Store, rule string, rows map[string]string) {
	t.Helper()
	ctx := context.Background()
	for account, pct := range rows {
		a := &models.Allocation{
			RuleName:   rule,
			AccountID:  accountID(t, store, account),
			Percentage: dec(t, pct),
		}
		if err := store.CreateAllocation(ctx, a); err != nil {
			t.Fatalf("failed to seed allocation: %v", err)
		}
	}
}

// errStore wraps a real store and fails selected operations, for exercising
// mid-operation upstream failures.
type errStore struct {
	storage.Store

	// failCreateAllocationAfter fails CreateAllocation once this many
	// calls have succeeded. Negative disables.
	failCreateAllocationAfter int
	createAllocationCalls     int

	failCreateEntryAfter int
	createEntryCalls     int

	failFindRecent   bool
	failListBalances bool
}

var errInjected = errors.New("injected store failure")

func newErrStore(inner storage.Store) *errStore {
	return &errStore{
		Store:                     inner,
		failCreateAllocationAfter: -1,
		failCreateEntryAfter:      -1,
	}
}

func (s *errStore) CreateAllocation(ctx context.Context, a *models.Allocation) error {
	if s.failCreateAllocationAfter >= 0 && s.createAllocationCalls >= s.failCreateAllocationAfter {
		return errInjected
	}
	s.createAllocationCalls++
	return s.Store.CreateAllocation(ctx, a)
}

func (s *errStore) CreateEntry(ctx context.Context, e *models.Entry) error {
	if s.failCreateEntryAfter >= 0 && s.createEntryCalls >= s.failCreateEntryAfter {
		return errInjected
	}
	s.createEntryCalls++
	return s.Store.CreateEntry(ctx, e)
}

func (s *errStore) FindRecentEntry(ctx context.Context, amount decimal.Decimal, accountID, date string, since int64) (*models.Entry, error) {
	if s.failFindRecent {
		return nil, errInjected
	}
	return s.Store.FindRecentEntry(ctx, amount, accountID, date, since)
}

func (s *errStore) FindRecentBalance(ctx context.Context, amount decimal.Decimal, accountID, date string, since int64) (*models.OutstandingBalance, error) {
	if s.failFindRecent {
		return nil, errInjected
	}
	return s.Store.FindRecentBalance(ctx, amount, accountID, date, since)
}

func (s *errStore) FindRecentPayment(ctx context.Context, amount decimal.Decimal, fromAccountID, toAccountID, date string, since int64) (*models.Payment, error) {
	if s.failFindRecent {
		return nil, errInjected
	}
	return s.Store.FindRecentPayment(ctx, amount, fromAccountID, toAccountID, date, since)
}

func (s *errStore) ListUnsettledBalances(ctx context.Context, accountID, fundingAccountID string) ([]*models.OutstandingBalance, error) {
	if s.failListBalances {
		return nil, errInjected
	}
	return s.Store.ListUnsettledBalances(ctx, accountID, fundingAccountID)
}

// fixedClock returns a clock pinned to the given instant.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
