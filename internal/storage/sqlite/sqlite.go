// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// money renders an amount as a fixed 2-decimal string. All money columns
// use this form so exact-equality duplicate queries work on TEXT.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// parseDecimal scans a TEXT decimal column.
func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse stored decimal %q: %w", s, err)
	}
	return d, nil
}

// EnsureAccount creates the named account if missing and returns it.
func (s *SQLiteStore) EnsureAccount(ctx context.Context, name string, kind models.AccountKind) (*models.Account, error) {
	account, err := s.GetAccountByName(ctx, name)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	account = &models.Account{
		ID:        uuid.New().String(),
		Name:      name,
		Kind:      kind,
		CreatedAt: time.Now().Unix(),
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO accounts (id, name, kind, created_at) VALUES (?, ?, ?, ?) ON CONFLICT(name) DO NOTHING",
		account.ID, account.Name, string(account.Kind), account.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	// Re-read in case a concurrent EnsureAccount won the insert.
	return s.GetAccountByName(ctx, name)
}

// GetAccountByName resolves an account by name.
func (s *SQLiteStore) GetAccountByName(ctx context.Context, name string) (*models.Account, error) {
	account := &models.Account{}
	var kind string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, kind, created_at FROM accounts WHERE name = ?",
		name,
	).Scan(&account.ID, &account.Name, &kind, &account.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %q: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	account.Kind = models.AccountKind(kind)
	return account, nil
}

// ListAccounts returns the account chart ordered by name.
func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, kind, created_at FROM accounts ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account := &models.Account{}
		var kind string
		if err := rows.Scan(&account.ID, &account.Name, &kind, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		account.Kind = models.AccountKind(kind)
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}
