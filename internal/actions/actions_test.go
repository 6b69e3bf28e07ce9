package actions

import (
	"encoding/json"
	"testing"
)

func TestDecode_EachType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "replace_rule",
			raw:  `{"type":"replace_rule","rule_name":"default","allocations":[{"account":"checking","percentage":"1"}]}`,
			want: "replace_rule",
		},
		{
			name: "split_income",
			raw:  `{"type":"split_income","gross":"1000","rule_name":"default"}`,
			want: "split_income",
		},
		{
			name: "settle_payment",
			raw:  `{"type":"settle_payment","amount":"70","from_account":"checking","to_account":"visa"}`,
			want: "settle_payment",
		},
		{
			name: "record_expense",
			raw:  `{"type":"record_expense","amount":"12.34","account":"visa"}`,
			want: "record_expense",
		},
		{
			name: "record_income",
			raw:  `{"type":"record_income","amount":"500","account":"checking"}`,
			want: "record_income",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := Decode(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if action.Type() != tt.want {
				t.Errorf("Type() = %q, want %q", action.Type(), tt.want)
			}
		})
	}
}

func TestDecode_FieldsSurvive(t *testing.T) {
	raw := `{"type":"settle_payment","amount":"70.50","from_account":"checking","to_account":"visa","note":"feb"}`
	action, err := Decode(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	settle, ok := action.(SettlePayment)
	if !ok {
		t.Fatalf("decoded %T, want SettlePayment", action)
	}
	if settle.FromAccount != "checking" || settle.ToAccount != "visa" {
		t.Errorf("accounts = %q → %q", settle.FromAccount, settle.ToAccount)
	}
	if settle.Note == nil || *settle.Note != "feb" {
		t.Errorf("note = %v, want feb", settle.Note)
	}
	if settle.Amount.String() != "70.5" {
		t.Errorf("amount = %s, want 70.5", settle.Amount)
	}
}

func TestDecode_Rejects(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"unknown type", `{"type":"transmogrify"}`},
		{"missing type", `{"amount":"1"}`},
		{"not json", `{{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(json.RawMessage(tc.raw)); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}

func TestDecodeList_ReportsIndex(t *testing.T) {
	raws := []json.RawMessage{
		json.RawMessage(`{"type":"record_income","amount":"1","account":"checking"}`),
		json.RawMessage(`{"type":"bogus"}`),
	}
	if _, err := DecodeList(raws); err == nil {
		t.Fatal("expected error for bad second action")
	}
}
