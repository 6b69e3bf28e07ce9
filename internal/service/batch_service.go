package service

import (
	"context"
	"log/slog"

	"github.com/ledgerly/backend/internal/actions"
)

// BatchService executes a sequence of actions, isolating per-item failures
// so one bad item does not abort the batch.
type BatchService struct {
	rules      *RuleService
	income     *IncomeService
	settlement *SettlementService
	ledger     *LedgerService
}

// NewBatchService creates a new BatchService.
func NewBatchService(rules *RuleService, income *IncomeService, settlement *SettlementService, ledger *LedgerService) *BatchService {
	return &BatchService{rules: rules, income: income, settlement: settlement, ledger: ledger}
}

// BatchItemResult is the outcome of one action in a batch.
type BatchItemResult struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	// Result holds the action's result on success.
	Result any `json:"result,omitempty"`
	// Error holds the classified failure on failure.
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// BatchResult reports a whole batch run.
type BatchResult struct {
	Items     []BatchItemResult `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// Run executes the actions strictly in order, sequentially, so earlier
// items' side effects (say, a rule replacement) are visible to later items.
// Each item's failure is recorded in its own result and does not stop the
// remaining items.
func (s *BatchService) Run(ctx context.Context, list []actions.Action) *BatchResult {
	result := &BatchResult{Items: make([]BatchItemResult, 0, len(list))}

	for i, action := range list {
		item := BatchItemResult{Index: i, Type: action.Type()}

		res, err := s.dispatch(ctx, action)
		if err != nil {
			item.Error = err.Error()
			if kind := KindOf(err); kind != 0 {
				item.ErrorKind = kind.String()
			}
			result.Failed++
			slog.Warn("batch item failed", "index", i, "type", item.Type, "error", err)
		} else {
			item.Result = res
			result.Succeeded++
		}
		result.Items = append(result.Items, item)
	}

	slog.Info("batch finished",
		"items", len(list), "succeeded", result.Succeeded, "failed", result.Failed)
	return result
}

// dispatch routes one action to its service. The type switch is exhaustive
// over the actions package; an unknown type can only mean a new action was
// added without a handler.
func (s *BatchService) dispatch(ctx context.Context, action actions.Action) (any, error) {
	switch a := action.(type) {
	case actions.ReplaceRule:
		allocations := make([]AllocationInput, len(a.Allocations))
		for i, alloc := range a.Allocations {
			allocations[i] = AllocationInput{Account: alloc.Account, Percentage: alloc.Percentage}
		}
		return s.rules.ReplaceRule(ctx, a.RuleName, allocations)

	case actions.SplitIncome:
		return s.income.SplitIncome(ctx, SplitIncomeInput{
			Gross:       a.Gross,
			RuleName:    a.RuleName,
			Date:        a.Date,
			Description: a.Description,
		})

	case actions.SettlePayment:
		return s.settlement.SettlePayment(ctx, SettlePaymentInput{
			Amount:      a.Amount,
			FromAccount: a.FromAccount,
			ToAccount:   a.ToAccount,
			Date:        a.Date,
			Note:        a.Note,
		})

	case actions.RecordExpense:
		return s.ledger.RecordExpense(ctx, RecordEntryInput{
			Amount:         a.Amount,
			Account:        a.Account,
			FundingAccount: a.FundingAccount,
			Date:           a.Date,
			Description:    a.Description,
		})

	case actions.RecordIncome:
		return s.ledger.RecordIncome(ctx, RecordEntryInput{
			Amount:      a.Amount,
			Account:     a.Account,
			Date:        a.Date,
			Description: a.Description,
		})

	default:
		return nil, invalidInputf("unhandled action type %q", action.Type())
	}
}
