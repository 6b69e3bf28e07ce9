// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, a
// hosted record store, ...) without changing the service layer.
//
// The store offers no multi-record transactions across calls: multi-step
// operations (rule replacement, settlement walks) get their durability
// guarantees from call ordering in the service layer, not from the store.
type Store interface {
	// EnsureAccount creates the named account if it does not exist and
	// returns it. Used to seed the fixed account chart at startup.
	EnsureAccount(ctx context.Context, name string, kind models.AccountKind) (*models.Account, error)

	// GetAccountByName resolves an account by its human-assigned name.
	// Returns ErrNotFound if no such account exists.
	GetAccountByName(ctx context.Context, name string) (*models.Account, error)

	// ListAccounts returns the full account chart, ordered by name.
	ListAccounts(ctx context.Context) ([]*models.Account, error)

	// CreateAllocation persists one allocation rule row.
	// The ID and CreatedAt fields are populated by the store.
	CreateAllocation(ctx context.Context, a *models.Allocation) error

	// ListActiveAllocations returns the non-archived rows of a rule in
	// creation order. An unknown rule yields an empty slice, not an error.
	ListActiveAllocations(ctx context.Context, ruleName string) ([]*models.Allocation, error)

	// ArchiveAllocation soft-deletes one allocation row.
	ArchiveAllocation(ctx context.Context, id string) error

	// CreateEntry persists a ledger entry.
	CreateEntry(ctx context.Context, e *models.Entry) error

	// FindRecentEntry returns the most recently created entry with the
	// exact amount, account and calendar date, created at or after since
	// (Unix seconds). Returns ErrNotFound when there is no match.
	FindRecentEntry(ctx context.Context, amount decimal.Decimal, accountID, date string, since int64) (*models.Entry, error)

	// CreateBalance persists an outstanding balance (a credit charge).
	CreateBalance(ctx context.Context, b *models.OutstandingBalance) error

	// GetBalance retrieves one outstanding balance by ID.
	GetBalance(ctx context.Context, id string) (*models.OutstandingBalance, error)

	// ListUnsettledBalances returns unsettled balances on the credit
	// account funded by the given account, oldest obligation first
	// (date ascending, then creation order).
	ListUnsettledBalances(ctx context.Context, accountID, fundingAccountID string) ([]*models.OutstandingBalance, error)

	// FindRecentBalance returns the most recently created outstanding
	// balance with the exact amount, credit account and calendar date,
	// created at or after since (Unix seconds). Returns ErrNotFound when
	// there is no match.
	FindRecentBalance(ctx context.Context, amount decimal.Decimal, accountID, date string, since int64) (*models.OutstandingBalance, error)

	// ApplyBalancePayment sets a balance's paid-so-far amount and settled
	// flag. AmountPaid is monotonic and Settled only flips false→true;
	// callers compute the new values, the store just writes them.
	ApplyBalancePayment(ctx context.Context, balanceID string, amountPaid decimal.Decimal, settled bool) error

	// CreatePayment persists a payment. Applications on the model are
	// ignored here; they are attached separately once the walk finishes.
	CreatePayment(ctx context.Context, p *models.Payment) error

	// AttachPaymentApplications records which balances a payment touched,
	// in one write.
	AttachPaymentApplications(ctx context.Context, paymentID string, apps []models.PaymentApplication) error

	// GetPayment retrieves a payment, including its applications.
	GetPayment(ctx context.Context, id string) (*models.Payment, error)

	// FindRecentPayment returns the most recently created payment with the
	// exact amount, account pair and calendar date, created at or after
	// since (Unix seconds). Returns ErrNotFound when there is no match.
	FindRecentPayment(ctx context.Context, amount decimal.Decimal, fromAccountID, toAccountID, date string, since int64) (*models.Payment, error)

	// Close releases any resources held by the store.
	Close() error
}
