package models

import "github.com/shopspring/decimal"

// Payment is a transfer from a funding account to a credit account,
// recorded before any settlement happens so the money movement is durable
// even when there is nothing to apply it to.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// Amount is the payment amount. Immutable once recorded.
	Amount decimal.Decimal

	// FromAccountID is the funding account the payment was made from.
	FromAccountID string

	// ToAccountID is the credit account the payment was made to.
	ToAccountID string

	// Date is the calendar date of the payment (YYYY-MM-DD).
	Date string

	// Note is an optional free-form note. Nil when absent.
	Note *string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64

	// Applications lists the balances this payment (fully or partially)
	// settled. Appended during the settlement operation only; a balance may
	// also be funded by later payments, so the relation is additive.
	Applications []PaymentApplication
}

// PaymentApplication records how much of a payment went to one balance.
type PaymentApplication struct {
	// BalanceID is the outstanding balance the amount was applied to.
	BalanceID string

	// Amount is how much of the payment was applied to that balance.
	Amount decimal.Decimal
}
