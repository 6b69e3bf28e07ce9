package models

import "github.com/shopspring/decimal"

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	// EntryExpense is money spent from an account.
	EntryExpense EntryKind = "expense"

	// EntryIncome is money received into an account.
	EntryIncome EntryKind = "income"

	// EntryIncomeSplit is one destination's portion of a gross income
	// amount split by an allocation rule.
	EntryIncomeSplit EntryKind = "income_split"
)

// Entry is a single row in the ledger.
type Entry struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string

	// Kind classifies the entry.
	Kind EntryKind

	// AccountID is the account the entry is recorded against.
	AccountID string

	// Amount is the entry amount. For income splits, this is the
	// destination's portion, not the gross.
	Amount decimal.Decimal

	// Gross is the original gross amount of the income event, shared by
	// all sibling split entries for traceability. Zero unless Kind is
	// EntryIncomeSplit.
	Gross decimal.Decimal

	// RuleName is the allocation rule that produced the split.
	// Empty unless Kind is EntryIncomeSplit.
	RuleName string

	// Description is a free-form label for the entry.
	Description string

	// Date is the calendar date of the entry (YYYY-MM-DD).
	Date string

	// CreatedAt is the Unix timestamp when the entry was recorded.
	CreatedAt int64
}
