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

// CreateBalance persists an outstanding balance (a credit charge).
func (s *SQLiteStore) CreateBalance(ctx context.Context, b *models.OutstandingBalance) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt == 0 {
		b.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO balances (id, account_id, funding_account_id, amount, amount_paid, settled, description, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.AccountID, b.FundingAccountID, money(b.Amount), money(b.AmountPaid),
		boolToInt(b.Settled), b.Description, b.Date, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert balance: %w", err)
	}
	return nil
}

// GetBalance retrieves one outstanding balance by ID.
func (s *SQLiteStore) GetBalance(ctx context.Context, id string) (*models.OutstandingBalance, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, account_id, funding_account_id, amount, amount_paid, settled, description, date, created_at
		 FROM balances WHERE id = ?`,
		id,
	)
	b, err := scanBalance(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("balance %q: %w", id, storage.ErrNotFound)
	}
	return b, err
}

// ListUnsettledBalances returns unsettled balances on the credit account
// funded by the given account, oldest obligation first. The rowid tie-break
// keeps same-date balances in creation order.
func (s *SQLiteStore) ListUnsettledBalances(ctx context.Context, accountID, fundingAccountID string) ([]*models.OutstandingBalance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, account_id, funding_account_id, amount, amount_paid, settled, description, date, created_at
		 FROM balances
		 WHERE account_id = ? AND funding_account_id = ? AND settled = 0
		 ORDER BY date ASC, created_at ASC, rowid ASC`,
		accountID, fundingAccountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsettled balances: %w", err)
	}
	defer rows.Close()

	var balances []*models.OutstandingBalance
	for rows.Next() {
		b, err := scanBalance(rows.Scan)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}
	return balances, nil
}

// FindRecentBalance returns the most recent outstanding balance matching
// the duplicate fingerprint (exact amount, credit account, calendar date)
// created at or after since.
func (s *SQLiteStore) FindRecentBalance(ctx context.Context, amount decimal.Decimal, accountID, date string, since int64) (*models.OutstandingBalance, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, account_id, funding_account_id, amount, amount_paid, settled, description, date, created_at
		 FROM balances
		 WHERE amount = ? AND account_id = ? AND date = ? AND created_at >= ?
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		money(amount), accountID, date, since,
	)
	b, err := scanBalance(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	return b, err
}

// ApplyBalancePayment writes a balance's new paid amount and settled flag.
func (s *SQLiteStore) ApplyBalancePayment(ctx context.Context, balanceID string, amountPaid decimal.Decimal, settled bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE balances SET amount_paid = ?, settled = ? WHERE id = ?",
		money(amountPaid), boolToInt(settled), balanceID,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check balance update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("balance %q: %w", balanceID, storage.ErrNotFound)
	}
	return nil
}

func scanBalance(scan func(dest ...any) error) (*models.OutstandingBalance, error) {
	b := &models.OutstandingBalance{}
	var (
		amount     string
		amountPaid string
		settled    int
	)
	err := scan(&b.ID, &b.AccountID, &b.FundingAccountID, &amount, &amountPaid,
		&settled, &b.Description, &b.Date, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan balance: %w", err)
	}

	if b.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	if b.AmountPaid, err = parseDecimal(amountPaid); err != nil {
		return nil, err
	}
	b.Settled = settled != 0
	return b, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
