package drip

import "testing"

func TestExtend_Schedule(t *testing.T) {
	tests := []struct {
		name  string
		from  string
		to    string
		every Frequency
		want  []string
	}{
		{
			name:  "monthly over a quarter",
			from:  "2025-01-15",
			to:    "2025-04-15",
			every: MonthlyPayments,
			want:  []string{"2025-02-15", "2025-03-15", "2025-04-15"},
		},
		{
			name:  "quarterly over a year",
			from:  "2025-03-20",
			to:    "2026-03-20",
			every: QuarterlyPayments,
			want:  []string{"2025-06-20", "2025-09-20", "2025-12-20", "2026-03-20"},
		},
		{
			name:  "annual",
			from:  "2025-06-01",
			to:    "2027-12-31",
			every: AnnualPayments,
			want:  []string{"2026-06-01", "2027-06-01"},
		},
		{
			name:  "horizon before first step",
			from:  "2025-01-15",
			to:    "2025-02-01",
			every: MonthlyPayments,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := SimulationState{Shares: Q(100), Carried: M(0, "USD")}
			entries, err := Extend(&state, M(0.25, "USD"), M(50, "USD"),
				MustParse(tt.from), MustParse(tt.to), tt.every)
			if err != nil {
				t.Fatalf("Extend() error = %v", err)
			}
			if len(entries) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.want))
			}
			for i, want := range tt.want {
				if got := entries[i].On.String(); got != want {
					t.Errorf("entry %d: On = %s, want %s", i, got, want)
				}
				if !entries[i].Forecast {
					t.Errorf("entry %d: Forecast = false, want true", i)
				}
			}
		})
	}
}

func TestExtend_Errors(t *testing.T) {
	from, to := MustParse("2025-01-15"), MustParse("2026-01-15")
	tests := []struct {
		name  string
		price Money
		from  Date
		to    Date
		every Frequency
	}{
		{"end before start", M(10, "USD"), to, from, MonthlyPayments},
		{"end equals start", M(10, "USD"), from, from, MonthlyPayments},
		{"zero price", M(0, "USD"), from, to, MonthlyPayments},
		{"negative price", M(-1, "USD"), from, to, MonthlyPayments},
		{"bad cadence", M(10, "USD"), from, to, Frequency(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := SimulationState{Shares: Q(10), Carried: M(0, "USD")}
			if _, err := Extend(&state, M(1, "USD"), tt.price, tt.from, tt.to, tt.every); err == nil {
				t.Errorf("Extend() succeeded, expected an error")
			}
		})
	}
}

// A forecast continues from the exact state the replay left: same shares,
// same carried cash, same reinvestment arithmetic.
func TestExtend_ContinuesState(t *testing.T) {
	md := marketFixture("USD",
		map[string]float64{"2025-01-02": 10},
		map[string]float64{"2025-01-15": 0.5})

	r, err := Simulate(md, Q(12))
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	// 12 shares × 0.50 = 6, not enough for a 10 share.
	if got := r.RemainingCash().Plain(); got != "6" {
		t.Fatalf("RemainingCash() = %s, want 6", got)
	}

	if err := r.Extend(md, MustParse("2025-02-20")); err != nil {
		t.Fatalf("Extend() error = %v", err)
	}
	// One synthetic event on 2025-02-15: 6 + 6 = 12 buys one share at 10.
	if len(r.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(r.Entries))
	}
	last := r.Entries[1]
	if got := last.On.String(); got != "2025-02-15" {
		t.Errorf("On = %s, want 2025-02-15", got)
	}
	if !last.Forecast {
		t.Error("Forecast = false, want true")
	}
	if got := last.Purchased.String(); got != "1" {
		t.Errorf("Purchased = %s, want 1", got)
	}
	if got := r.FinalShares().String(); got != "13" {
		t.Errorf("FinalShares() = %s, want 13", got)
	}
	if got := r.RemainingCash().Plain(); got != "2" {
		t.Errorf("RemainingCash() = %s, want 2", got)
	}
}

func TestResultExtend_NoDividends(t *testing.T) {
	md := marketFixture("USD", map[string]float64{"2025-01-02": 10}, nil)
	r, err := Simulate(md, Q(10))
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if err := r.Extend(md, MustParse("2026-01-01")); err != nil {
		t.Fatalf("Extend() error = %v", err)
	}
	if len(r.Entries) != 0 {
		t.Errorf("got %d entries, want none: nothing to repeat", len(r.Entries))
	}
}
