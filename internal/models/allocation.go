package models

import "github.com/shopspring/decimal"

// DefaultRuleName is the allocation rule used when a split does not name one.
const DefaultRuleName = "default"

// Allocation is one row of a named allocation rule: a destination account
// and the fraction of a gross income amount routed to it.
//
// A rule is the set of non-archived rows sharing a RuleName; the rows'
// percentages must sum to 1 (within a small tolerance) for the rule to be
// valid. Rules are replaced as a unit, never mutated in place: new rows are
// created first, then the superseded rows are archived.
type Allocation struct {
	// ID is the unique identifier for the allocation row (UUID format).
	ID string

	// RuleName is the human-assigned rule this row belongs to.
	// Not unique: all rows of a rule share it.
	RuleName string

	// AccountID is the destination account for this row's portion.
	AccountID string

	// Percentage is the fraction of the gross amount, in (0, 1].
	Percentage decimal.Decimal

	// Archived marks a superseded row. Archived rows are kept for history
	// but never used for new splits.
	Archived bool

	// CreatedAt is the Unix timestamp when the row was created.
	CreatedAt int64

	// ArchivedAt is the Unix timestamp when the row was archived, or 0.
	ArchivedAt int64
}
