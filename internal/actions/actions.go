// Package actions defines the closed set of ledger actions a batch (or an
// upstream command parser) can request. The set is a tagged union decoded
// from a {"type": ...} JSON envelope and dispatched with an exhaustive type
// switch, so adding an action is a compile-time-checked change.
package actions

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Action is one requested ledger operation.
// The interface is sealed: only types in this package implement it.
type Action interface {
	// Type returns the wire tag of the action.
	Type() string

	isAction()
}

// ReplaceRule replaces a named allocation rule's definition.
type ReplaceRule struct {
	RuleName    string       `json:"rule_name"`
	Allocations []Allocation `json:"allocations"`
}

// Allocation is one (account, percentage) pair of a requested rule.
type Allocation struct {
	Account    string          `json:"account"`
	Percentage decimal.Decimal `json:"percentage"`
}

// SplitIncome splits a gross income amount by an allocation rule.
type SplitIncome struct {
	Gross       decimal.Decimal `json:"gross"`
	RuleName    string          `json:"rule_name,omitempty"`
	Date        string          `json:"date,omitempty"`
	Description string          `json:"description,omitempty"`
}

// SettlePayment applies a payment against outstanding credit balances.
type SettlePayment struct {
	Amount      decimal.Decimal `json:"amount"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Date        string          `json:"date,omitempty"`
	Note        *string         `json:"note,omitempty"`
}

// RecordExpense records an expense (a charge when the account is credit).
type RecordExpense struct {
	Amount         decimal.Decimal `json:"amount"`
	Account        string          `json:"account"`
	FundingAccount string          `json:"funding_account,omitempty"`
	Date           string          `json:"date,omitempty"`
	Description    string          `json:"description,omitempty"`
}

// RecordIncome records an income entry.
type RecordIncome struct {
	Amount      decimal.Decimal `json:"amount"`
	Account     string          `json:"account"`
	Date        string          `json:"date,omitempty"`
	Description string          `json:"description,omitempty"`
}

func (ReplaceRule) Type() string   { return "replace_rule" }
func (SplitIncome) Type() string   { return "split_income" }
func (SettlePayment) Type() string { return "settle_payment" }
func (RecordExpense) Type() string { return "record_expense" }
func (RecordIncome) Type() string  { return "record_income" }

func (ReplaceRule) isAction()   {}
func (SplitIncome) isAction()   {}
func (SettlePayment) isAction() {}
func (RecordExpense) isAction() {}
func (RecordIncome) isAction()  {}

// envelope is the wire form of an action.
type envelope struct {
	Type string `json:"type"`
}

// Decode parses one action from its JSON envelope.
func Decode(raw json.RawMessage) (Action, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed action: %w", err)
	}

	switch env.Type {
	case "replace_rule":
		return decodeAs[ReplaceRule](raw)
	case "split_income":
		return decodeAs[SplitIncome](raw)
	case "settle_payment":
		return decodeAs[SettlePayment](raw)
	case "record_expense":
		return decodeAs[RecordExpense](raw)
	case "record_income":
		return decodeAs[RecordIncome](raw)
	case "":
		return nil, fmt.Errorf("action missing type tag")
	default:
		return nil, fmt.Errorf("unknown action type %q", env.Type)
	}
}

// DecodeList parses a list of action envelopes.
func DecodeList(raws []json.RawMessage) ([]Action, error) {
	list := make([]Action, len(raws))
	for i, raw := range raws {
		action, err := Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		list[i] = action
	}
	return list, nil
}

func decodeAs[T Action](raw json.RawMessage) (Action, error) {
	var action T
	if err := json.Unmarshal(raw, &action); err != nil {
		return nil, fmt.Errorf("malformed %s action: %w", action.Type(), err)
	}
	return action, nil
}
