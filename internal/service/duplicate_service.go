package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/storage"
)

// DefaultDuplicateWindow is the trailing window inside which an equivalent
// record counts as a duplicate.
const DefaultDuplicateWindow = 5 * time.Minute

// DuplicateKind selects which record shape to probe.
type DuplicateKind string

const (
	DuplicateExpense DuplicateKind = "expense"
	DuplicateIncome  DuplicateKind = "income"
	DuplicatePayment DuplicateKind = "payment"
)

// DuplicateDetector finds recent records equivalent to a candidate
// submission. It is advisory: callers decide whether to warn or skip.
type DuplicateDetector struct {
	store    storage.Store
	resolver *AccountResolver
	window   time.Duration
	// failClosed turns detector query errors into upstream failures
	// instead of the default fail-open "no duplicate" answer.
	failClosed bool
	now        func() time.Time
}

// DetectorOption configures a DuplicateDetector.
type DetectorOption func(*DuplicateDetector)

// WithWindow overrides the default duplicate window.
func WithWindow(window time.Duration) DetectorOption {
	return func(d *DuplicateDetector) {
		if window > 0 {
			d.window = window
		}
	}
}

// WithFailClosed makes detector query errors fail the probe instead of
// being treated as "no duplicate".
func WithFailClosed(failClosed bool) DetectorOption {
	return func(d *DuplicateDetector) {
		d.failClosed = failClosed
	}
}

// WithDetectorClock overrides the detector's clock.
func WithDetectorClock(now func() time.Time) DetectorOption {
	return func(d *DuplicateDetector) {
		d.now = now
	}
}

// NewDuplicateDetector creates a detector with the default 5-minute window.
func NewDuplicateDetector(store storage.Store, resolver *AccountResolver, opts ...DetectorOption) *DuplicateDetector {
	d := &DuplicateDetector{
		store:    store,
		resolver: resolver,
		window:   DefaultDuplicateWindow,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DuplicateProbe is a candidate transaction fingerprint.
type DuplicateProbe struct {
	Kind   DuplicateKind   `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	// Account is the single account for expense/income probes.
	Account string `json:"account,omitempty"`
	// FromAccount and ToAccount form the pair for payment probes.
	FromAccount string `json:"from_account,omitempty"`
	ToAccount   string `json:"to_account,omitempty"`
	// Date is the calendar date of the candidate (YYYY-MM-DD).
	Date string `json:"date"`
	// WindowMinutes overrides the detector's window when positive.
	WindowMinutes int `json:"window_minutes,omitempty"`
}

// DuplicateMatch describes the most recent equivalent record.
type DuplicateMatch struct {
	Kind      DuplicateKind `json:"kind"`
	RecordID  string        `json:"record_id"`
	CreatedAt int64         `json:"created_at"`
}

// FindRecentDuplicate reports the most recently created record matching the
// probe exactly (amount, accounts, calendar date) inside the trailing
// window, or nil when there is none.
//
// Query failures fail open by default: the error is logged and the probe
// reports no duplicate, so detector unavailability never blocks legitimate
// writes. A fail-closed detector returns the error instead.
func (d *DuplicateDetector) FindRecentDuplicate(ctx context.Context, probe DuplicateProbe) (*DuplicateMatch, error) {
	if !probe.Amount.IsPositive() {
		return nil, invalidInputf("amount must be positive, got %s", probe.Amount)
	}
	if !models.ValidDate(probe.Date) {
		return nil, invalidInputf("date must be YYYY-MM-DD, got %q", probe.Date)
	}

	window := d.window
	if probe.WindowMinutes > 0 {
		window = time.Duration(probe.WindowMinutes) * time.Minute
	}
	since := d.now().Add(-window).Unix()

	switch probe.Kind {
	case DuplicateExpense, DuplicateIncome:
		account, err := d.resolver.Resolve(ctx, probe.Account)
		if err != nil {
			return nil, err
		}
		// Expenses on a credit account are recorded as outstanding
		// balances, not ledger entries, so the fingerprint lives in the
		// balances table.
		if probe.Kind == DuplicateExpense && account.Kind.IsCredit() {
			balance, err := d.store.FindRecentBalance(ctx, probe.Amount, account.ID, probe.Date, since)
			if err != nil {
				return nil, d.queryFailure(probe.Kind, err)
			}
			return &DuplicateMatch{Kind: probe.Kind, RecordID: balance.ID, CreatedAt: balance.CreatedAt}, nil
		}
		entry, err := d.store.FindRecentEntry(ctx, probe.Amount, account.ID, probe.Date, since)
		if err != nil {
			return nil, d.queryFailure(probe.Kind, err)
		}
		return &DuplicateMatch{Kind: probe.Kind, RecordID: entry.ID, CreatedAt: entry.CreatedAt}, nil

	case DuplicatePayment:
		from, err := d.resolver.Resolve(ctx, probe.FromAccount)
		if err != nil {
			return nil, err
		}
		to, err := d.resolver.Resolve(ctx, probe.ToAccount)
		if err != nil {
			return nil, err
		}
		payment, err := d.store.FindRecentPayment(ctx, probe.Amount, from.ID, to.ID, probe.Date, since)
		if err != nil {
			return nil, d.queryFailure(probe.Kind, err)
		}
		return &DuplicateMatch{Kind: probe.Kind, RecordID: payment.ID, CreatedAt: payment.CreatedAt}, nil

	default:
		return nil, invalidInputf("unknown duplicate kind %q", probe.Kind)
	}
}

// queryFailure maps a store error from a duplicate query to the detector's
// failure policy. A plain miss is never an error.
func (d *DuplicateDetector) queryFailure(kind DuplicateKind, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if d.failClosed {
		return upstream("duplicate query failed", err)
	}
	slog.Warn("duplicate query failed, failing open", "kind", kind, "error", err)
	return nil
}
