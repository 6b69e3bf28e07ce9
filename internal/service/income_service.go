package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/calculator"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/storage"
)

// IncomeService splits gross income amounts across accounts by allocation rule.
type IncomeService struct {
	store storage.Store
}

// NewIncomeService creates a new IncomeService.
func NewIncomeService(store storage.Store) *IncomeService {
	return &IncomeService{store: store}
}

// SplitIncomeInput is a request to split one income event.
type SplitIncomeInput struct {
	// Gross is the gross income amount. Must be positive.
	Gross decimal.Decimal `json:"gross"`
	// RuleName defaults to models.DefaultRuleName when empty.
	RuleName string `json:"rule_name,omitempty"`
	// Date is a calendar date (YYYY-MM-DD); defaults to today.
	Date string `json:"date,omitempty"`
	// Description labels the emitted entries.
	Description string `json:"description,omitempty"`
}

// SplitEntryResult is the outcome for one destination of a split.
type SplitEntryResult struct {
	EntryID   string          `json:"entry_id,omitempty"`
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	// Error is set when the entry's write failed; siblings are unaffected.
	Error string `json:"error,omitempty"`
}

// SplitIncomeResult reports a whole split. The operation succeeds once the
// rule lookup succeeds; individual entry failures are reported per entry.
type SplitIncomeResult struct {
	RuleName string             `json:"rule_name"`
	Gross    decimal.Decimal    `json:"gross"`
	Date     string             `json:"date"`
	Entries  []SplitEntryResult `json:"entries"`
	// TotalAllocated is the sum of successfully written portions. It may
	// differ from Gross by per-row rounding drift, or by failed entries.
	TotalAllocated decimal.Decimal `json:"total_allocated"`
}

// SplitIncome computes per-destination portions of the gross amount under
// the named rule and records one income-split entry per destination, each
// tagged with the gross for traceability.
func (s *IncomeService) SplitIncome(ctx context.Context, in SplitIncomeInput) (*SplitIncomeResult, error) {
	if !in.Gross.IsPositive() {
		return nil, invalidInputf("gross amount must be positive, got %s", in.Gross)
	}
	ruleName := in.RuleName
	if ruleName == "" {
		ruleName = models.DefaultRuleName
	}
	date, err := normalizeDate(in.Date)
	if err != nil {
		return nil, err
	}

	allocations, err := s.store.ListActiveAllocations(ctx, ruleName)
	if err != nil {
		return nil, upstream("failed to look up allocation rule", err)
	}
	if len(allocations) == 0 {
		// No silent default split.
		return nil, notFoundf("allocation rule %q not found", ruleName)
	}

	rows := make([]calculator.AllocationRow, len(allocations))
	for i, a := range allocations {
		rows[i] = calculator.AllocationRow{AccountID: a.AccountID, Percentage: a.Percentage}
	}
	portions := calculator.SplitIncome(in.Gross, rows)

	result := &SplitIncomeResult{
		RuleName:       ruleName,
		Gross:          in.Gross,
		Date:           date,
		TotalAllocated: decimal.Zero,
	}

	// Entry-level failures do not abort sibling entries.
	for _, portion := range portions {
		entry := &models.Entry{
			Kind:        models.EntryIncomeSplit,
			AccountID:   portion.AccountID,
			Amount:      portion.Amount,
			Gross:       in.Gross,
			RuleName:    ruleName,
			Description: in.Description,
			Date:        date,
		}
		res := SplitEntryResult{AccountID: portion.AccountID, Amount: portion.Amount}
		if err := s.store.CreateEntry(ctx, entry); err != nil {
			slog.Error("failed to write income split entry",
				"rule", ruleName, "account_id", portion.AccountID, "error", err)
			res.Error = err.Error()
		} else {
			res.EntryID = entry.ID
			result.TotalAllocated = result.TotalAllocated.Add(portion.Amount)
		}
		result.Entries = append(result.Entries, res)
	}

	slog.Info("income split",
		"rule", ruleName, "gross", in.Gross, "entries", len(result.Entries),
		"allocated", result.TotalAllocated)
	return result, nil
}
