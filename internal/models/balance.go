package models

import "github.com/shopspring/decimal"

// OutstandingBalance is a credit charge that has not been fully paid down.
//
// Invariant: AmountPaid <= Amount, and Settled is true iff AmountPaid equals
// Amount. AmountPaid only ever increases, and Settled only flips false→true;
// a balance never decreases or un-settles.
type OutstandingBalance struct {
	// ID is the unique identifier for the balance (UUID format).
	ID string

	// AccountID is the credit account that carries the charge.
	AccountID string

	// FundingAccountID is the account expected to pay the charge down.
	FundingAccountID string

	// Amount is the original charge amount. Immutable.
	Amount decimal.Decimal

	// AmountPaid is how much has been applied so far across payments.
	AmountPaid decimal.Decimal

	// Settled is true once AmountPaid equals Amount.
	Settled bool

	// Description is a free-form label for the charge.
	Description string

	// Date is the calendar date of the charge (YYYY-MM-DD).
	Date string

	// CreatedAt is the Unix timestamp when the charge was recorded.
	CreatedAt int64
}

// Owed returns how much of the charge is still unpaid.
func (b *OutstandingBalance) Owed() decimal.Decimal {
	return b.Amount.Sub(b.AmountPaid)
}
