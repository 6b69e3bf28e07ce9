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

// CreatePayment persists a new payment to the database.
func (s *SQLiteStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}

	var note interface{}
	if p.Note != nil {
		note = *p.Note
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, amount, from_account_id, to_account_id, date, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, money(p.Amount), p.FromAccountID, p.ToAccountID, p.Date, note, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// AttachPaymentApplications records which balances a payment touched, in one
// transaction so the touched-list is attached as a unit.
func (s *SQLiteStore) AttachPaymentApplications(ctx context.Context, paymentID string, apps []models.PaymentApplication) error {
	if len(apps) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, app := range apps {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO payment_applications (payment_id, balance_id, amount) VALUES (?, ?, ?)",
			paymentID, app.BalanceID, money(app.Amount),
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment application: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetPayment retrieves a payment by ID, including its applications.
func (s *SQLiteStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, amount, from_account_id, to_account_id, date, note, created_at
		 FROM payments WHERE id = ?`,
		id,
	)
	p, err := scanPayment(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment %q: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT balance_id, amount FROM payment_applications WHERE payment_id = ? ORDER BY rowid ASC",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment applications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			app    models.PaymentApplication
			amount string
		)
		if err := rows.Scan(&app.BalanceID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan payment application: %w", err)
		}
		if app.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		p.Applications = append(p.Applications, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment applications: %w", err)
	}
	return p, nil
}

// FindRecentPayment returns the most recent payment matching the duplicate
// fingerprint (exact amount, account pair, calendar date) created at or
// after since.
func (s *SQLiteStore) FindRecentPayment(ctx context.Context, amount decimal.Decimal, fromAccountID, toAccountID, date string, since int64) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, amount, from_account_id, to_account_id, date, note, created_at
		 FROM payments
		 WHERE amount = ? AND from_account_id = ? AND to_account_id = ? AND date = ? AND created_at >= ?
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		money(amount), fromAccountID, toAccountID, date, since,
	)
	p, err := scanPayment(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	return p, err
}

func scanPayment(scan func(dest ...any) error) (*models.Payment, error) {
	p := &models.Payment{}
	var (
		amount string
		note   sql.NullString
	)
	err := scan(&p.ID, &amount, &p.FromAccountID, &p.ToAccountID, &p.Date, &note, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}

	if p.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	if note.Valid {
		p.Note = &note.String
	}
	return p, nil
}
