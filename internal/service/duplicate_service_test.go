package service

import (
	"context"
	"testing"
	"time"

	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/storage"
)

// seedEntryAt inserts an expense entry with a pinned creation time.
func seedEntryAt(t *testing.T, store storage.Store, account, amount, date string, createdAt int64) *models.Entry {
	t.Helper()
	e := &models.Entry{
		Kind:      models.EntryExpense,
		AccountID: accountID(t, store, account),
		Amount:    dec(t, amount),
		Date:      date,
		CreatedAt: createdAt,
	}
	if err := store.CreateEntry(context.Background(), e); err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}
	return e
}

func TestFindRecentDuplicate_InsideWindow(t *testing.T) {
	store := setupStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// First submission landed 2 minutes ago; window is 5 minutes.
	first := seedEntryAt(t, store, "checking", "12.34", "2026-03-01", now.Add(-2*time.Minute).Unix())

	detector := NewDuplicateDetector(store, newResolver(store), WithDetectorClock(fixedClock(now)))
	match, err := detector.FindRecentDuplicate(context.Background(), DuplicateProbe{
		Kind:    DuplicateExpense,
		Amount:  dec(t, "12.34"),
		Account: "checking",
		Date:    "2026-03-01",
	})
	if err != nil {
		t.Fatalf("FindRecentDuplicate failed: %v", err)
	}
	if match == nil || match.RecordID != first.ID {
		t.Errorf("match = %+v, want entry %s", match, first.ID)
	}
}

func TestFindRecentDuplicate_OutsideWindow(t *testing.T) {
	store := setupStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// First submission landed 6 minutes ago; window is 5 minutes.
	seedEntryAt(t, store, "checking", "12.34", "2026-03-01", now.Add(-6*time.Minute).Unix())

	detector := NewDuplicateDetector(store, newResolver(store), WithDetectorClock(fixedClock(now)))
	match, err := detector.FindRecentDuplicate(context.Background(), DuplicateProbe{
		Kind:    DuplicateExpense,
		Amount:  dec(t, "12.34"),
		Account: "checking",
		Date:    "2026-03-01",
	})
	if err != nil {
		t.Fatalf("FindRecentDuplicate failed: %v", err)
	}
	if match != nil {
		t.Errorf("match = %+v, want none outside window", match)
	}
}

func TestFindRecentDuplicate_MostRecentWins(t *testing.T) {
	store := setupStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seedEntryAt(t, store, "checking", "9.99", "2026-03-01", now.Add(-4*time.Minute).Unix())
	newest := seedEntryAt(t, store, "checking", "9.99", "2026-03-01", now.Add(-1*time.Minute).Unix())

	detector := NewDuplicateDetector(store, newResolver(store), WithDetectorClock(fixedClock(now)))
	match, err := detector.FindRecentDuplicate(context.Background(), DuplicateProbe{
		Kind:    DuplicateExpense,
		Amount:  dec(t, "9.99"),
		Account: "checking",
		Date:    "2026-03-01",
	})
	if err != nil {
		t.Fatalf("FindRecentDuplicate failed: %v", err)
	}
	if match == nil || match.RecordID != newest.ID {
		t.Errorf("match = %+v, want most recent %s", match, newest.ID)
	}
}

func TestFindRecentDuplicate_CreditChargeShape(t *testing.T) {
	store := setupStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	// A charge lands in the balances table, not entries; the expense probe
	// on a credit account must still find it.
	b := &models.OutstandingBalance{
		AccountID:        accountID(t, store, "visa"),
		FundingAccountID: accountID(t, store, "checking"),
		Amount:           dec(t, "55.00"),
		Date:             "2026-03-01",
		CreatedAt:        now.Add(-2 * time.Minute).Unix(),
	}
	if err := store.CreateBalance(ctx, b); err != nil {
		t.Fatalf("CreateBalance failed: %v", err)
	}

	detector := NewDuplicateDetector(store, newResolver(store), WithDetectorClock(fixedClock(now)))
	match, err := detector.FindRecentDuplicate(ctx, DuplicateProbe{
		Kind:    DuplicateExpense,
		Amount:  dec(t, "55.00"),
		Account: "visa",
		Date:    "2026-03-01",
	})
	if err != nil {
		t.Fatalf("FindRecentDuplicate failed: %v", err)
	}
	if match == nil || match.RecordID != b.ID {
		t.Errorf("match = %+v, want balance %s", match, b.ID)
	}

	// Outside the window, no match.
	match, err = detector.FindRecentDuplicate(ctx, DuplicateProbe{
		Kind:          DuplicateExpense,
		Amount:        dec(t, "55.00"),
		Account:       "visa",
		Date:          "2026-03-01",
		WindowMinutes: 1,
	})
	if err != nil || match != nil {
		t.Errorf("narrow window: match=%+v err=%v, want none", match, err)
	}
}

func TestFindRecentDuplicate_PaymentPair(t *testing.T) {
	store := setupStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	p := &models.Payment{
		Amount:        dec(t, "200"),
		FromAccountID: accountID(t, store, "checking"),
		ToAccountID:   accountID(t, store, "visa"),
		Date:          "2026-03-01",
		CreatedAt:     now.Add(-3 * time.Minute).Unix(),
	}
	if err := store.CreatePayment(ctx, p); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}

	detector := NewDuplicateDetector(store, newResolver(store), WithDetectorClock(fixedClock(now)))
	match, err := detector.FindRecentDuplicate(ctx, DuplicateProbe{
		Kind:        DuplicatePayment,
		Amount:      dec(t, "200"),
		FromAccount: "checking",
		ToAccount:   "visa",
		Date:        "2026-03-01",
	})
	if err != nil {
		t.Fatalf("FindRecentDuplicate failed: %v", err)
	}
	if match == nil || match.RecordID != p.ID {
		t.Errorf("match = %+v, want payment %s", match, p.ID)
	}

	// Reversed pair is not a duplicate.
	match, err = detector.FindRecentDuplicate(ctx, DuplicateProbe{
		Kind:        DuplicatePayment,
		Amount:      dec(t, "200"),
		FromAccount: "visa",
		ToAccount:   "checking",
		Date:        "2026-03-01",
	})
	if err != nil || match != nil {
		t.Errorf("reversed pair: match=%+v err=%v, want none", match, err)
	}
}

func TestFindRecentDuplicate_WindowOverride(t *testing.T) {
	store := setupStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seedEntryAt(t, store, "checking", "7.00", "2026-03-01", now.Add(-8*time.Minute).Unix())

	detector := NewDuplicateDetector(store, newResolver(store), WithDetectorClock(fixedClock(now)))
	match, err := detector.FindRecentDuplicate(context.Background(), DuplicateProbe{
		Kind:          DuplicateExpense,
		Amount:        dec(t, "7.00"),
		Account:       "checking",
		Date:          "2026-03-01",
		WindowMinutes: 10,
	})
	if err != nil {
		t.Fatalf("FindRecentDuplicate failed: %v", err)
	}
	if match == nil {
		t.Errorf("expected a match with the widened window")
	}
}

func TestFindRecentDuplicate_FailOpen(t *testing.T) {
	inner := setupStore(t)
	store := newErrStore(inner)
	store.failFindRecent = true

	detector := NewDuplicateDetector(store, newResolver(store))
	match, err := detector.FindRecentDuplicate(context.Background(), DuplicateProbe{
		Kind:    DuplicateExpense,
		Amount:  dec(t, "5"),
		Account: "checking",
		Date:    "2026-03-01",
	})
	if err != nil {
		t.Fatalf("fail-open detector returned error: %v", err)
	}
	if match != nil {
		t.Errorf("fail-open detector invented a match: %+v", match)
	}
}

func TestFindRecentDuplicate_FailClosed(t *testing.T) {
	inner := setupStore(t)
	store := newErrStore(inner)
	store.failFindRecent = true

	detector := NewDuplicateDetector(store, newResolver(store), WithFailClosed(true))
	_, err := detector.FindRecentDuplicate(context.Background(), DuplicateProbe{
		Kind:    DuplicateExpense,
		Amount:  dec(t, "5"),
		Account: "checking",
		Date:    "2026-03-01",
	})
	if KindOf(err) != KindUpstream {
		t.Errorf("kind = %v, want upstream (err=%v)", KindOf(err), err)
	}
}

func TestFindRecentDuplicate_Validation(t *testing.T) {
	store := setupStore(t)
	detector := NewDuplicateDetector(store, newResolver(store))
	ctx := context.Background()

	if _, err := detector.FindRecentDuplicate(ctx, DuplicateProbe{
		Kind: DuplicateExpense, Amount: dec(t, "0"), Account: "checking", Date: "2026-03-01",
	}); KindOf(err) != KindInvalidInput {
		t.Errorf("zero amount: kind = %v, want invalid input", KindOf(err))
	}

	if _, err := detector.FindRecentDuplicate(ctx, DuplicateProbe{
		Kind: DuplicateKind("transfer"), Amount: dec(t, "5"), Date: "2026-03-01",
	}); KindOf(err) != KindInvalidInput {
		t.Errorf("unknown kind: kind = %v, want invalid input", KindOf(err))
	}

	if _, err := detector.FindRecentDuplicate(ctx, DuplicateProbe{
		Kind: DuplicateExpense, Amount: dec(t, "5"), Account: "nope", Date: "2026-03-01",
	}); KindOf(err) != KindNotFound {
		t.Errorf("unknown account: kind = %v, want not found", KindOf(err))
	}
}
