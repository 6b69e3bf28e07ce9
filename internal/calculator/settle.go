package calculator

import "github.com/shopspring/decimal"

// BalanceDue is the settlement view of an outstanding balance.
// Balances must be passed in settlement order (oldest obligation first).
type BalanceDue struct {
	ID         string
	Amount     decimal.Decimal
	AmountPaid decimal.Decimal
}

// Owed returns the unpaid part of the balance.
func (b BalanceDue) Owed() decimal.Decimal {
	return b.Amount.Sub(b.AmountPaid)
}

// Application is one balance touched by a settlement walk.
type Application struct {
	BalanceID string
	// Amount is how much of the payment was applied to this balance.
	Amount decimal.Decimal
	// Full is true when the balance is fully settled by this application.
	Full bool
}

// PlanSettlement walks balances in order, greedily applying amount.
//
// A balance is fully settled when the remaining amount covers what it is
// owed; otherwise it is partially settled, which consumes the rest of the
// payment and ends the walk (a payment never splits across a boundary after
// a partial application). Balances with nothing owed are skipped. The
// returned remaining is the unapplied part of the payment.
func PlanSettlement(amount decimal.Decimal, balances []BalanceDue) ([]Application, decimal.Decimal) {
	remaining := amount
	var apps []Application

	for _, b := range balances {
		if !remaining.IsPositive() {
			break
		}

		owed := b.Owed()
		if !owed.IsPositive() {
			continue
		}

		if remaining.GreaterThanOrEqual(owed) {
			apps = append(apps, Application{BalanceID: b.ID, Amount: owed, Full: true})
			remaining = remaining.Sub(owed)
			continue
		}

		// Partial settlement consumes the rest and stops the walk.
		apps = append(apps, Application{BalanceID: b.ID, Amount: remaining, Full: false})
		remaining = decimal.Zero
		break
	}

	return apps, remaining
}
