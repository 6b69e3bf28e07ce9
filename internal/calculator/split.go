package calculator

import "github.com/shopspring/decimal"

// Portion is one destination's share of a split gross amount.
type Portion struct {
	AccountID string
	Amount    decimal.Decimal
}

// SplitIncome computes per-destination portions of a gross amount.
//
// Each portion is rounded to 2 decimal places independently, so the sum of
// portions may differ from gross by up to 0.005 per row; the drift is
// accepted, not redistributed. Rows with a non-positive percentage or a
// missing destination are skipped rather than failing the whole split, which
// tolerates partially-migrated rule definitions.
func SplitIncome(gross decimal.Decimal, rows []AllocationRow) []Portion {
	portions := make([]Portion, 0, len(rows))
	for _, row := range rows {
		if row.AccountID == "" || !row.Percentage.IsPositive() {
			continue
		}
		portions = append(portions, Portion{
			AccountID: row.AccountID,
			Amount:    gross.Mul(row.Percentage).Round(2),
		})
	}
	return portions
}
