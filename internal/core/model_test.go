package core_test

import (
	"encoding/json"
	"testing"

	"inventory-intelligence/internal/core"
)

func TestDaysOfStockJSON(t *testing.T) {
	tests := []struct {
		name string
		in   core.DaysOfStock
		want string
	}{
		{"finite", core.FiniteDays(12.5), "12.5"},
		{"zero", core.FiniteDays(0), "0"},
		{"negative floored", core.FiniteDays(-3), "0"},
		{"unbounded renders sentinel", core.UnboundedDays(), "999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("marshal = %s, want %s", got, tt.want)
			}

			var back core.DaysOfStock
			if err := json.Unmarshal(got, &back); err != nil {
				t.Fatal(err)
			}
			if back.IsUnbounded() != tt.in.IsUnbounded() {
				t.Errorf("round trip changed boundedness")
			}
		})
	}
}

func TestDaysOfStockSentinelUnmarshal(t *testing.T) {
	var d core.DaysOfStock
	if err := json.Unmarshal([]byte("1200"), &d); err != nil {
		t.Fatal(err)
	}
	if !d.IsUnbounded() {
		t.Error("values at or above the sentinel should unmarshal as unbounded")
	}
}

func TestPriorityRank(t *testing.T) {
	order := []core.Priority{core.PriorityLow, core.PriorityMedium, core.PriorityHigh, core.PriorityCritical}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("%s should outrank %s", order[i], order[i-1])
		}
	}
	if core.Priority("bogus").Rank() != 0 {
		t.Error("unknown priority should rank 0")
	}
}
