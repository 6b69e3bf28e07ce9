package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/models"
)

func TestSplitIncome_EmitsEntryPerDestination(t *testing.T) {
	store := setupStore(t)
	seedRule(t, store, "default", map[string]string{
		"checking":  "0.6",
		"savings":   "0.3",
		"brokerage": "0.1",
	})
	svc := NewIncomeService(store)

	result, err := svc.SplitIncome(context.Background(), SplitIncomeInput{
		Gross: dec(t, "2500"),
		Date:  "2026-03-01",
	})
	if err != nil {
		t.Fatalf("SplitIncome failed: %v", err)
	}

	if result.RuleName != models.DefaultRuleName {
		t.Errorf("rule name = %q, want default", result.RuleName)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(result.Entries))
	}
	if !result.TotalAllocated.Equal(dec(t, "2500")) {
		t.Errorf("total allocated = %s, want 2500", result.TotalAllocated)
	}

	want := map[string]string{
		accountID(t, store, "checking"):  "1500",
		accountID(t, store, "savings"):   "750",
		accountID(t, store, "brokerage"): "250",
	}
	for _, e := range result.Entries {
		if e.Error != "" {
			t.Errorf("entry for %s failed: %s", e.AccountID, e.Error)
		}
		if !e.Amount.Equal(dec(t, want[e.AccountID])) {
			t.Errorf("portion for %s = %s, want %s", e.AccountID, e.Amount, want[e.AccountID])
		}
		if e.EntryID == "" {
			t.Errorf("entry for %s has no ID", e.AccountID)
		}
	}
}

func TestSplitIncome_TagsGrossOnEveryEntry(t *testing.T) {
	store := setupStore(t)
	seedRule(t, store, "paycheck", map[string]string{"checking": "0.5", "savings": "0.5"})
	svc := NewIncomeService(store)
	ctx := context.Background()

	result, err := svc.SplitIncome(ctx, SplitIncomeInput{
		Gross:    dec(t, "1000.01"),
		RuleName: "paycheck",
		Date:     "2026-03-01",
	})
	if err != nil {
		t.Fatalf("SplitIncome failed: %v", err)
	}

	// Each written entry carries the event's gross for traceability.
	for _, e := range result.Entries {
		entry, err := store.FindRecentEntry(ctx, e.Amount, e.AccountID, "2026-03-01", 0)
		if err != nil {
			t.Fatalf("entry lookup failed: %v", err)
		}
		if !entry.Gross.Equal(dec(t, "1000.01")) {
			t.Errorf("gross on entry = %s, want 1000.01", entry.Gross)
		}
		if entry.RuleName != "paycheck" || entry.Kind != models.EntryIncomeSplit {
			t.Errorf("entry = kind %s rule %s", entry.Kind, entry.RuleName)
		}
	}
}

func TestSplitIncome_RoundingDriftBounded(t *testing.T) {
	store := setupStore(t)
	seedRule(t, store, "thirds", map[string]string{
		"checking":  "0.333",
		"savings":   "0.333",
		"brokerage": "0.334",
	})
	svc := NewIncomeService(store)

	result, err := svc.SplitIncome(context.Background(), SplitIncomeInput{
		Gross:    dec(t, "100.01"),
		RuleName: "thirds",
	})
	if err != nil {
		t.Fatalf("SplitIncome failed: %v", err)
	}

	drift := result.TotalAllocated.Sub(result.Gross).Abs()
	limit := dec(t, "0.005").Mul(decimal.NewFromInt(int64(len(result.Entries))))
	if drift.GreaterThan(limit) {
		t.Errorf("drift %s exceeds %s", drift, limit)
	}
}

func TestSplitIncome_UnknownRule(t *testing.T) {
	store := setupStore(t)
	svc := NewIncomeService(store)

	_, err := svc.SplitIncome(context.Background(), SplitIncomeInput{
		Gross:    dec(t, "100"),
		RuleName: "nope",
	})
	if KindOf(err) != KindNotFound {
		t.Errorf("kind = %v, want not found (err=%v)", KindOf(err), err)
	}
}

func TestSplitIncome_NonPositiveGross(t *testing.T) {
	store := setupStore(t)
	svc := NewIncomeService(store)

	for _, gross := range []string{"0", "-5"} {
		_, err := svc.SplitIncome(context.Background(), SplitIncomeInput{Gross: dec(t, gross)})
		if KindOf(err) != KindInvalidInput {
			t.Errorf("gross %s: kind = %v, want invalid input", gross, KindOf(err))
		}
	}
}

func TestSplitIncome_EntryFailureDoesNotAbortSiblings(t *testing.T) {
	inner := setupStore(t)
	seedRule(t, inner, "default", map[string]string{"checking": "0.5", "savings": "0.5"})
	store := newErrStore(inner)
	svc := NewIncomeService(store)

	// First entry write succeeds, second fails.
	store.failCreateEntryAfter = 1
	result, err := svc.SplitIncome(context.Background(), SplitIncomeInput{Gross: dec(t, "100")})
	if err != nil {
		t.Fatalf("SplitIncome returned operation-level error: %v", err)
	}

	var ok, failed int
	for _, e := range result.Entries {
		if e.Error == "" {
			ok++
		} else {
			failed++
		}
	}
	if ok != 1 || failed != 1 {
		t.Errorf("entries ok=%d failed=%d, want 1/1: %+v", ok, failed, result.Entries)
	}
	if !result.TotalAllocated.Equal(dec(t, "50")) {
		t.Errorf("total allocated = %s, want 50 (only the written entry)", result.TotalAllocated)
	}
}
