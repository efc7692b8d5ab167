package drip

import (
	"bytes"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// marketFixture builds a MarketData from date-string keyed values.
func marketFixture(currency string, prices, dividends map[string]float64) *MarketData {
	md := &MarketData{Ticker: "TEST", Currency: currency}
	for day, p := range prices {
		md.Prices.Append(MustParse(day), decimal.NewFromFloat(p))
	}
	for day, d := range dividends {
		md.Dividends.Append(MustParse(day), decimal.NewFromFloat(d))
	}
	return md
}

func TestSimulate(t *testing.T) {
	tests := []struct {
		name      string
		prices    map[string]float64
		dividends map[string]float64
		initial   float64
		final     string
		carried   string
		purchased []string
	}{
		{
			name:      "one dividend buys one share",
			prices:    map[string]float64{"2025-01-01": 10},
			dividends: map[string]float64{"2025-01-01": 1},
			initial:   12,
			final:     "13",
			carried:   "2",
			purchased: []string{"1"},
		},
		{
			name:      "small dividend only accumulates",
			prices:    map[string]float64{"2025-01-01": 10},
			dividends: map[string]float64{"2025-01-01": 0.5},
			initial:   12,
			final:     "12",
			carried:   "6",
			purchased: []string{"0"},
		},
		{
			name:   "carried cash tips the next purchase",
			prices: map[string]float64{"2025-01-01": 10, "2025-02-01": 10},
			dividends: map[string]float64{
				"2025-01-01": 0.5,
				"2025-02-01": 0.5,
			},
			initial:   12,
			final:     "13", // 6 + 6 = 12 buys 1 share at 10
			carried:   "2",  // 12 - 10
			purchased: []string{"0", "1"},
		},
		{
			name:   "large dividend buys several shares",
			prices: map[string]float64{"2025-01-01": 7},
			dividends: map[string]float64{
				"2025-01-01": 2.5,
			},
			initial:   10,
			final:     "13", // 25 / 7 = 3 shares, 4 left
			carried:   "4",
			purchased: []string{"3"},
		},
		{
			name:      "dividend on a closed day uses the previous close",
			prices:    map[string]float64{"2025-01-03": 10, "2025-01-06": 20},
			dividends: map[string]float64{"2025-01-04": 1},
			initial:   10,
			final:     "11",
			carried:   "0",
			purchased: []string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := marketFixture("USD", tt.prices, tt.dividends)
			r, err := Simulate(md, Q(tt.initial))
			if err != nil {
				t.Fatalf("Simulate() error = %v", err)
			}
			if got := r.FinalShares().String(); got != tt.final {
				t.Errorf("FinalShares() = %s, want %s", got, tt.final)
			}
			if got := r.RemainingCash().Plain(); got != tt.carried {
				t.Errorf("RemainingCash() = %s, want %s", got, tt.carried)
			}
			if len(r.Entries) != len(tt.purchased) {
				t.Fatalf("got %d entries, want %d", len(r.Entries), len(tt.purchased))
			}
			for i, want := range tt.purchased {
				if got := r.Entries[i].Purchased.String(); got != want {
					t.Errorf("entry %d: Purchased = %s, want %s", i, got, want)
				}
			}
		})
	}
}

func TestSimulate_Invariants(t *testing.T) {
	md := marketFixture("USD",
		map[string]float64{
			"2025-01-02": 25.13,
			"2025-02-03": 26.71,
			"2025-03-03": 24.02,
			"2025-04-01": 27.44,
		},
		map[string]float64{
			"2025-01-15": 0.31,
			"2025-02-14": 0.29,
			"2025-03-14": 0.33,
			"2025-04-15": 0.35,
		})

	initial := Q(100)
	r, err := Simulate(md, initial)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	// Final shares equal initial plus the sum of all purchases.
	sum := Q(0)
	carried := M(0, "USD")
	for i, e := range r.Entries {
		sum = sum.Add(e.Purchased)

		if !e.Purchased.IsWhole() || e.Purchased.IsNegative() {
			t.Errorf("entry %d: Purchased = %s, want a non-negative whole number", i, e.Purchased)
		}

		// Cash conservation: carried_in + cash == purchased×price + carried_out.
		in := carried.Add(e.Cash)
		out := e.Price.Mul(e.Purchased).Add(e.Carried)
		if !in.Equal(out) {
			t.Errorf("entry %d: cash not conserved: in %s, out %s", i, in.Plain(), out.Plain())
		}
		// Greedy reinvestment: never enough left to buy one more share.
		if e.Carried.GreaterThanOrEqual(e.Price) {
			t.Errorf("entry %d: Carried %s >= Price %s", i, e.Carried.Plain(), e.Price.Plain())
		}
		carried = e.Carried
	}
	if want := initial.Add(sum); !r.FinalShares().Equal(want) {
		t.Errorf("FinalShares() = %s, want %s", r.FinalShares(), want)
	}
}

func TestSimulate_Idempotent(t *testing.T) {
	md := marketFixture("USD",
		map[string]float64{"2025-01-02": 25.13, "2025-02-03": 26.71},
		map[string]float64{"2025-01-15": 0.31, "2025-02-14": 0.29})

	run := func() string {
		r, err := Simulate(md, Q(100))
		if err != nil {
			t.Fatalf("Simulate() error = %v", err)
		}
		var b bytes.Buffer
		if err := ExportCSV(&b, r); err != nil {
			t.Fatalf("ExportCSV() error = %v", err)
		}
		return b.String()
	}

	if first, second := run(), run(); first != second {
		t.Errorf("two identical runs produced different ledgers:\n%s\n%s", first, second)
	}
}

func TestSimulate_EmptyDividends(t *testing.T) {
	md := marketFixture("USD", map[string]float64{"2025-01-02": 10}, nil)
	r, err := Simulate(md, Q(42))
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if len(r.Entries) != 0 {
		t.Errorf("got %d entries, want none", len(r.Entries))
	}
	if got := r.FinalShares().String(); got != "42" {
		t.Errorf("FinalShares() = %s, want 42", got)
	}
	if !r.SharesGained().IsZero() {
		t.Errorf("SharesGained() = %s, want 0", r.SharesGained())
	}
}

func TestSimulate_DataGap(t *testing.T) {
	// the dividend predates the whole price history
	md := marketFixture("USD",
		map[string]float64{"2025-02-01": 10},
		map[string]float64{"2025-01-01": 1})

	r, err := Simulate(md, Q(10))
	if !errors.Is(err, ErrDataGap) {
		t.Fatalf("Simulate() error = %v, want ErrDataGap", err)
	}
	if r != nil {
		t.Errorf("got a partial result, want none")
	}
}

func TestSimulate_InvalidShares(t *testing.T) {
	md := marketFixture("USD", map[string]float64{"2025-01-02": 10}, nil)
	for _, shares := range []float64{0, -3} {
		if _, err := Simulate(md, Q(shares)); err == nil {
			t.Errorf("Simulate() with %v shares: expected an error", shares)
		}
	}
}

func TestSimulationRequest_Validate(t *testing.T) {
	valid := SimulationRequest{
		Ticker: "SCHD",
		Period: NewRange(MustParse("2025-01-01"), MustParse("2025-12-31")),
		Shares: Q(100),
	}

	tests := []struct {
		name    string
		mutate  func(*SimulationRequest)
		wantErr bool
	}{
		{"valid", func(r *SimulationRequest) {}, false},
		{"suffixed ticker", func(r *SimulationRequest) { r.Ticker = "005930.KS" }, false},
		{"empty ticker", func(r *SimulationRequest) { r.Ticker = "" }, true},
		{"lowercase ticker", func(r *SimulationRequest) { r.Ticker = "schd" }, true},
		{"too long ticker", func(r *SimulationRequest) { r.Ticker = "ABCDEFGHIJKL" }, true},
		{"zero shares", func(r *SimulationRequest) { r.Shares = Q(0) }, true},
		{"negative shares", func(r *SimulationRequest) { r.Shares = Q(-1) }, true},
		{"end before start", func(r *SimulationRequest) {
			r.Period = Range{From: MustParse("2025-12-31"), To: MustParse("2025-01-01")}
		}, true},
		{"horizon before end", func(r *SimulationRequest) { r.Horizon = MustParse("2025-06-01") }, true},
		{"horizon after end", func(r *SimulationRequest) { r.Horizon = MustParse("2026-06-01") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
