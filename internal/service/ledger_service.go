package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/storage"
)

// LedgerService records plain expenses, income, and credit charges.
// Expenses against a credit account become outstanding balances, which is
// what the settlement engine later pays down.
type LedgerService struct {
	store    storage.Store
	resolver *AccountResolver
	detector *DuplicateDetector
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(store storage.Store, resolver *AccountResolver, detector *DuplicateDetector) *LedgerService {
	return &LedgerService{store: store, resolver: resolver, detector: detector}
}

// RecordEntryInput is a request to record one expense or income event.
type RecordEntryInput struct {
	Amount  decimal.Decimal `json:"amount"`
	Account string          `json:"account"`
	// FundingAccount names the account expected to pay down a credit
	// charge. Only meaningful for expenses on credit accounts; defaults
	// to "checking".
	FundingAccount string `json:"funding_account,omitempty"`
	Date           string `json:"date,omitempty"`
	Description    string `json:"description,omitempty"`
}

// RecordEntryResult reports a recorded entry or charge.
type RecordEntryResult struct {
	// EntryID is set when a ledger entry was written.
	EntryID string `json:"entry_id,omitempty"`
	// BalanceID is set when the expense created an outstanding balance.
	BalanceID string          `json:"balance_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	// Duplicate is an advisory signal: the most recent equivalent record
	// inside the duplicate window, if any. The write still happened.
	Duplicate *DuplicateMatch `json:"duplicate,omitempty"`
}

// defaultFundingAccount pays down credit charges when none is named.
const defaultFundingAccount = "checking"

// RecordExpense records an expense. Against a credit account it creates an
// outstanding balance instead of a plain entry. The duplicate detector is
// consulted first and its answer surfaced as an advisory signal; it never
// blocks the write.
func (s *LedgerService) RecordExpense(ctx context.Context, in RecordEntryInput) (*RecordEntryResult, error) {
	if !in.Amount.IsPositive() {
		return nil, invalidInputf("amount must be positive, got %s", in.Amount)
	}
	account, err := s.resolver.Resolve(ctx, in.Account)
	if err != nil {
		return nil, err
	}
	date, err := normalizeDate(in.Date)
	if err != nil {
		return nil, err
	}

	dup := s.probe(ctx, DuplicateProbe{
		Kind:    DuplicateExpense,
		Amount:  in.Amount,
		Account: in.Account,
		Date:    date,
	})

	result := &RecordEntryResult{Amount: in.Amount, Date: date, Duplicate: dup}

	if account.Kind.IsCredit() {
		fundingName := in.FundingAccount
		if fundingName == "" {
			fundingName = defaultFundingAccount
		}
		funding, err := s.resolver.Resolve(ctx, fundingName)
		if err != nil {
			return nil, err
		}
		if !funding.Kind.CanFund() {
			return nil, invalidInputf("account %q (%s) cannot fund charges", funding.Name, funding.Kind)
		}

		balance := &models.OutstandingBalance{
			AccountID:        account.ID,
			FundingAccountID: funding.ID,
			Amount:           in.Amount,
			AmountPaid:       decimal.Zero,
			Description:      in.Description,
			Date:             date,
		}
		if err := s.store.CreateBalance(ctx, balance); err != nil {
			return nil, upstream("failed to record charge", err)
		}
		result.BalanceID = balance.ID
		slog.Info("charge recorded",
			"balance_id", balance.ID, "account", account.Name, "amount", in.Amount)
		return result, nil
	}

	entry := &models.Entry{
		Kind:        models.EntryExpense,
		AccountID:   account.ID,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        date,
	}
	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return nil, upstream("failed to record expense", err)
	}
	result.EntryID = entry.ID
	slog.Info("expense recorded",
		"entry_id", entry.ID, "account", account.Name, "amount", in.Amount)
	return result, nil
}

// RecordIncome records an income entry against a non-credit account.
func (s *LedgerService) RecordIncome(ctx context.Context, in RecordEntryInput) (*RecordEntryResult, error) {
	if !in.Amount.IsPositive() {
		return nil, invalidInputf("amount must be positive, got %s", in.Amount)
	}
	account, err := s.resolver.Resolve(ctx, in.Account)
	if err != nil {
		return nil, err
	}
	if account.Kind.IsCredit() {
		return nil, invalidInputf("income cannot be recorded against credit account %q", account.Name)
	}
	date, err := normalizeDate(in.Date)
	if err != nil {
		return nil, err
	}

	dup := s.probe(ctx, DuplicateProbe{
		Kind:    DuplicateIncome,
		Amount:  in.Amount,
		Account: in.Account,
		Date:    date,
	})

	entry := &models.Entry{
		Kind:        models.EntryIncome,
		AccountID:   account.ID,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        date,
	}
	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return nil, upstream("failed to record income", err)
	}

	slog.Info("income recorded",
		"entry_id", entry.ID, "account", account.Name, "amount", in.Amount)
	return &RecordEntryResult{EntryID: entry.ID, Amount: in.Amount, Date: date, Duplicate: dup}, nil
}

// probe asks the detector for an advisory duplicate signal. Detector
// failures (including fail-closed ones) are logged and dropped here: the
// recording workflow decides to warn, never to block.
func (s *LedgerService) probe(ctx context.Context, p DuplicateProbe) *DuplicateMatch {
	match, err := s.detector.FindRecentDuplicate(ctx, p)
	if err != nil {
		slog.Warn("duplicate probe failed", "kind", p.Kind, "error", err)
		return nil
	}
	return match
}

func normalizeDate(date string) (string, error) {
	if date == "" {
		return models.Today(), nil
	}
	if !models.ValidDate(date) {
		return "", invalidInputf("date must be YYYY-MM-DD, got %q", date)
	}
	return date, nil
}
