// Package calculator implements the pure ledger math: allocation rule
// validation, income splitting, and the FIFO payment settlement walk.
// It has no storage or transport dependencies so the arithmetic can be
// tested exhaustively in isolation.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// percentTolerance is how far a rule's percentage sum may drift from 1.
var percentTolerance = decimal.NewFromFloat(0.001)

// AllocationRow is one (destination, percentage) pair of an allocation rule.
type AllocationRow struct {
	AccountID  string
	Percentage decimal.Decimal
}

// ValidateAllocations checks that rows form a usable allocation rule:
// non-empty, every percentage in (0, 1], and the percentages summing to
// 1 within the tolerance. The returned error reports the actual sum so
// callers can surface it.
func ValidateAllocations(rows []AllocationRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("allocation rule must have at least one row")
	}

	one := decimal.NewFromInt(1)
	sum := decimal.Zero
	for _, row := range rows {
		if !row.Percentage.IsPositive() {
			return fmt.Errorf("allocation percentage must be positive, got %s", row.Percentage)
		}
		if row.Percentage.GreaterThan(one) {
			return fmt.Errorf("allocation percentage must not exceed 1, got %s", row.Percentage)
		}
		sum = sum.Add(row.Percentage)
	}

	if sum.Sub(one).Abs().GreaterThan(percentTolerance) {
		return fmt.Errorf("allocation percentages must sum to 1, got %s", sum)
	}

	return nil
}
