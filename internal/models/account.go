package models

// AccountKind classifies an account in the chart.
type AccountKind string

const (
	AccountChecking   AccountKind = "checking"
	AccountSavings    AccountKind = "savings"
	AccountCash       AccountKind = "cash"
	AccountCredit     AccountKind = "credit"
	AccountInvestment AccountKind = "investment"
)

// Valid reports whether k is one of the known account kinds.
func (k AccountKind) Valid() bool {
	switch k {
	case AccountChecking, AccountSavings, AccountCash, AccountCredit, AccountInvestment:
		return true
	}
	return false
}

// CanFund reports whether accounts of this kind can be the source of a
// payment (money actually leaves them).
func (k AccountKind) CanFund() bool {
	switch k {
	case AccountChecking, AccountSavings, AccountCash:
		return true
	}
	return false
}

// IsCredit reports whether accounts of this kind carry outstanding balances.
func (k AccountKind) IsCredit() bool {
	return k == AccountCredit
}

// Account is one entry in the fixed account chart.
// The chart is seeded at startup; accounts are resolved by name.
type Account struct {
	// ID is the unique identifier for the account (UUID format).
	ID string

	// Name is the human-assigned name used to reference the account
	// (e.g. "checking", "visa"). Unique across the chart.
	Name string

	// Kind classifies the account (checking, credit, ...).
	Kind AccountKind

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
