package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/calculator"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/storage"
)

// SettlementService applies payments against outstanding credit balances,
// oldest obligation first.
type SettlementService struct {
	store    storage.Store
	resolver *AccountResolver
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(store storage.Store, resolver *AccountResolver) *SettlementService {
	return &SettlementService{store: store, resolver: resolver}
}

// SettlePaymentInput is a request to settle one payment.
type SettlePaymentInput struct {
	Amount decimal.Decimal `json:"amount"`
	// FromAccount must be funding-capable (checking, savings, cash).
	FromAccount string `json:"from_account"`
	// ToAccount must be a credit account.
	ToAccount string `json:"to_account"`
	// Date is a calendar date (YYYY-MM-DD); defaults to today.
	Date string `json:"date,omitempty"`
	// Note is an optional free-form note stored on the payment.
	Note *string `json:"note,omitempty"`
}

// TouchedBalance is one balance a settlement walk applied money to.
type TouchedBalance struct {
	BalanceID string          `json:"balance_id"`
	Amount    decimal.Decimal `json:"amount"`
	Settled   bool            `json:"settled"`
}

// SettlementResult reports what a settlement did.
type SettlementResult struct {
	PaymentID string           `json:"payment_id"`
	Touched   []TouchedBalance `json:"touched"`
	// Cleared is how much of the payment was applied to balances.
	Cleared decimal.Decimal `json:"cleared"`
	// Unapplied is the remainder that found no balance to pay down
	// (a valid state: prepayment or overpayment).
	Unapplied decimal.Decimal `json:"unapplied"`
}

// SettlePayment records the payment and then walks the destination's
// unsettled balances FIFO, fully or partially settling each until the
// amount is exhausted.
//
// The payment is recorded before any balance is touched, so the money
// movement is durable even when nothing can be applied. There is no
// cross-balance transaction: a failure marking one balance is logged, the
// balance is dropped from the touched list, and the walk's other effects
// stand. Callers needing strict serialization against concurrent
// settlements on the same destination must serialize externally.
func (s *SettlementService) SettlePayment(ctx context.Context, in SettlePaymentInput) (*SettlementResult, error) {
	if !in.Amount.IsPositive() {
		return nil, invalidInputf("payment amount must be positive, got %s", in.Amount)
	}

	from, err := s.resolver.Resolve(ctx, in.FromAccount)
	if err != nil {
		return nil, err
	}
	to, err := s.resolver.Resolve(ctx, in.ToAccount)
	if err != nil {
		return nil, err
	}
	if !from.Kind.CanFund() {
		return nil, invalidInputf("account %q (%s) cannot fund payments", from.Name, from.Kind)
	}
	if !to.Kind.IsCredit() {
		return nil, invalidInputf("account %q (%s) is not a credit account", to.Name, to.Kind)
	}

	date, err := normalizeDate(in.Date)
	if err != nil {
		return nil, err
	}

	// Step 1: record the payment unconditionally, before any balance is
	// touched.
	payment := &models.Payment{
		Amount:        in.Amount,
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Date:          date,
		Note:          in.Note,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, upstream("failed to record payment", err)
	}

	// Step 2: candidate balances, oldest obligation first.
	balances, err := s.store.ListUnsettledBalances(ctx, to.ID, from.ID)
	if err != nil {
		// The payment is already durable; report the walk failure.
		slog.Error("settlement walk aborted: candidate query failed",
			"payment_id", payment.ID, "error", err)
		return nil, upstream("failed to list outstanding balances", err)
	}

	dues := make([]calculator.BalanceDue, len(balances))
	byID := make(map[string]*models.OutstandingBalance, len(balances))
	for i, b := range balances {
		dues[i] = calculator.BalanceDue{ID: b.ID, Amount: b.Amount, AmountPaid: b.AmountPaid}
		byID[b.ID] = b
	}

	// Step 3: greedy FIFO walk.
	apps, remaining := calculator.PlanSettlement(in.Amount, dues)

	result := &SettlementResult{
		PaymentID: payment.ID,
		Cleared:   in.Amount.Sub(remaining),
		Unapplied: remaining,
	}

	var attached []models.PaymentApplication
	for _, app := range apps {
		balance := byID[app.BalanceID]
		newPaid := balance.AmountPaid.Add(app.Amount)
		if err := s.store.ApplyBalancePayment(ctx, balance.ID, newPaid, app.Full); err != nil {
			// No rollback of the payment or of previously-settled
			// balances; this balance is just excluded from the
			// touched list.
			slog.Error("failed to mark balance settled",
				"payment_id", payment.ID, "balance_id", balance.ID, "error", err)
			continue
		}
		result.Touched = append(result.Touched, TouchedBalance{
			BalanceID: balance.ID,
			Amount:    app.Amount,
			Settled:   app.Full,
		})
		attached = append(attached, models.PaymentApplication{
			BalanceID: balance.ID,
			Amount:    app.Amount,
		})
	}

	// Step 4: attach the touched-list to the payment in one update.
	if err := s.store.AttachPaymentApplications(ctx, payment.ID, attached); err != nil {
		slog.Error("failed to attach payment applications",
			"payment_id", payment.ID, "error", err)
	}

	slog.Info("payment settled",
		"payment_id", payment.ID,
		"amount", in.Amount,
		"cleared", result.Cleared,
		"unapplied", result.Unapplied,
		"touched", len(result.Touched),
	)
	return result, nil
}
