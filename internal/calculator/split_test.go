package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func pct(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestValidateAllocations(t *testing.T) {
	tests := []struct {
		name    string
		rows    []AllocationRow
		wantErr bool
	}{
		{
			name:    "empty",
			rows:    nil,
			wantErr: true,
		},
		{
			name: "sums to one",
			rows: []AllocationRow{
				{AccountID: "a", Percentage: pct("0.7")},
				{AccountID: "b", Percentage: pct("0.3")},
			},
		},
		{
			name: "single full row",
			rows: []AllocationRow{{AccountID: "a", Percentage: pct("1")}},
		},
		{
			name: "within tolerance",
			rows: []AllocationRow{
				{AccountID: "a", Percentage: pct("0.3334")},
				{AccountID: "b", Percentage: pct("0.3333")},
				{AccountID: "c", Percentage: pct("0.3333")},
			},
		},
		{
			name: "sum too low",
			rows: []AllocationRow{
				{AccountID: "a", Percentage: pct("0.5")},
				{AccountID: "b", Percentage: pct("0.4")},
			},
			wantErr: true,
		},
		{
			name: "sum too high",
			rows: []AllocationRow{
				{AccountID: "a", Percentage: pct("0.6")},
				{AccountID: "b", Percentage: pct("0.5")},
			},
			wantErr: true,
		},
		{
			name: "zero percentage",
			rows: []AllocationRow{
				{AccountID: "a", Percentage: pct("0")},
				{AccountID: "b", Percentage: pct("1")},
			},
			wantErr: true,
		},
		{
			name: "negative percentage",
			rows: []AllocationRow{
				{AccountID: "a", Percentage: pct("-0.2")},
				{AccountID: "b", Percentage: pct("1.2")},
			},
			wantErr: true,
		},
		{
			name:    "percentage above one",
			rows:    []AllocationRow{{AccountID: "a", Percentage: pct("1.5")}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAllocations(tt.rows)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAllocations() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitIncome_Portions(t *testing.T) {
	gross := pct("1000")
	rows := []AllocationRow{
		{AccountID: "checking", Percentage: pct("0.6")},
		{AccountID: "savings", Percentage: pct("0.3")},
		{AccountID: "brokerage", Percentage: pct("0.1")},
	}

	portions := SplitIncome(gross, rows)
	if len(portions) != 3 {
		t.Fatalf("expected 3 portions, got %d", len(portions))
	}

	want := map[string]string{
		"checking":  "600",
		"savings":   "300",
		"brokerage": "100",
	}
	for _, p := range portions {
		if !p.Amount.Equal(pct(want[p.AccountID])) {
			t.Errorf("portion for %s = %s, want %s", p.AccountID, p.Amount, want[p.AccountID])
		}
	}
}

func TestSplitIncome_RoundsPerRow(t *testing.T) {
	// 100.01 × 0.333 = 33.30333 → 33.30 per row; drift is not redistributed.
	gross := pct("100.01")
	rows := []AllocationRow{
		{AccountID: "a", Percentage: pct("0.333")},
		{AccountID: "b", Percentage: pct("0.333")},
		{AccountID: "c", Percentage: pct("0.334")},
	}

	portions := SplitIncome(gross, rows)
	if len(portions) != 3 {
		t.Fatalf("expected 3 portions, got %d", len(portions))
	}

	sum := decimal.Zero
	for _, p := range portions {
		if p.Amount.Exponent() < -2 {
			t.Errorf("portion %s for %s not rounded to 2dp", p.Amount, p.AccountID)
		}
		sum = sum.Add(p.Amount)
	}

	// Total rounding drift bounded by 0.005 per row.
	drift := sum.Sub(gross).Abs()
	limit := pct("0.005").Mul(decimal.NewFromInt(int64(len(rows))))
	if drift.GreaterThan(limit) {
		t.Errorf("rounding drift %s exceeds limit %s", drift, limit)
	}
}

func TestSplitIncome_SkipsInvalidRows(t *testing.T) {
	gross := pct("200")
	rows := []AllocationRow{
		{AccountID: "a", Percentage: pct("0.5")},
		{AccountID: "", Percentage: pct("0.3")},   // missing destination
		{AccountID: "c", Percentage: pct("0")},    // zero percentage
		{AccountID: "d", Percentage: pct("-0.1")}, // negative percentage
	}

	portions := SplitIncome(gross, rows)
	if len(portions) != 1 {
		t.Fatalf("expected 1 portion, got %d", len(portions))
	}
	if portions[0].AccountID != "a" || !portions[0].Amount.Equal(pct("100")) {
		t.Errorf("unexpected portion %+v", portions[0])
	}
}
