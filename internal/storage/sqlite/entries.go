package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/storage"
)

// CreateEntry persists a ledger entry.
func (s *SQLiteStore) CreateEntry(ctx context.Context, e *models.Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}

	var gross, ruleName interface{}
	if e.Kind == models.EntryIncomeSplit {
		gross = money(e.Gross)
		ruleName = e.RuleName
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (id, kind, account_id, amount, gross_amount, rule_name, description, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.AccountID, money(e.Amount), gross, ruleName, e.Description, e.Date, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// FindRecentEntry returns the most recent entry matching the duplicate
// fingerprint (exact amount, account, calendar date) created at or after since.
func (s *SQLiteStore) FindRecentEntry(ctx context.Context, amount decimal.Decimal, accountID, date string, since int64) (*models.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, account_id, amount, gross_amount, rule_name, description, date, created_at
		 FROM entries
		 WHERE amount = ? AND account_id = ? AND date = ? AND created_at >= ?
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		money(amount), accountID, date, since,
	)

	e := &models.Entry{}
	var (
		kind      string
		amountStr string
		grossStr  sql.NullString
		ruleName  sql.NullString
	)
	err := row.Scan(&e.ID, &kind, &e.AccountID, &amountStr, &grossStr, &ruleName, &e.Description, &e.Date, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query recent entry: %w", err)
	}

	e.Kind = models.EntryKind(kind)
	if e.Amount, err = parseDecimal(amountStr); err != nil {
		return nil, err
	}
	if grossStr.Valid {
		if e.Gross, err = parseDecimal(grossStr.String); err != nil {
			return nil, err
		}
	}
	if ruleName.Valid {
		e.RuleName = ruleName.String
	}
	return e, nil
}
