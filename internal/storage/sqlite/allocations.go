package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/storage"
)

// CreateAllocation persists one allocation rule row.
func (s *SQLiteStore) CreateAllocation(ctx context.Context, a *models.Allocation) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO allocations (id, rule_name, account_id, percentage, archived, created_at)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		a.ID, a.RuleName, a.AccountID, a.Percentage.String(), a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert allocation: %w", err)
	}
	return nil
}

// ListActiveAllocations returns the non-archived rows of a rule in creation order.
func (s *SQLiteStore) ListActiveAllocations(ctx context.Context, ruleName string) ([]*models.Allocation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, rule_name, account_id, percentage, archived, created_at, archived_at
		 FROM allocations WHERE rule_name = ? AND archived = 0
		 ORDER BY created_at ASC, rowid ASC`,
		ruleName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	var allocations []*models.Allocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allocations: %w", err)
	}
	return allocations, nil
}

// ArchiveAllocation soft-deletes one allocation row.
func (s *SQLiteStore) ArchiveAllocation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE allocations SET archived = 1, archived_at = ? WHERE id = ? AND archived = 0",
		time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to archive allocation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check archive result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("allocation %q: %w", id, storage.ErrNotFound)
	}
	return nil
}

func scanAllocation(rows *sql.Rows) (*models.Allocation, error) {
	a := &models.Allocation{}
	var (
		percentage string
		archived   int
		archivedAt sql.NullInt64
	)
	if err := rows.Scan(&a.ID, &a.RuleName, &a.AccountID, &percentage, &archived, &a.CreatedAt, &archivedAt); err != nil {
		return nil, fmt.Errorf("failed to scan allocation: %w", err)
	}

	pct, err := parseDecimal(percentage)
	if err != nil {
		return nil, err
	}
	a.Percentage = pct
	a.Archived = archived != 0
	if archivedAt.Valid {
		a.ArchivedAt = archivedAt.Int64
	}
	return a, nil
}
