package drip

import "fmt"

// Extend continues a simulation past the last known dividend date. It
// schedules one synthetic dividend event per cadence step after 'from'
// (exclusive) up to 'to' (inclusive), each paying 'dividend' per share at
// the constant reference price 'price' — no price drift and no dividend
// growth is modeled. Every synthetic event goes through the same
// reinvestment step as the historical replay.
//
// The state is mutated in place; the returned entries are flagged Forecast.
func Extend(state *SimulationState, dividend, price Money, from, to Date, every Frequency) ([]LedgerEntry, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("forecast end %s must be after start %s", to, from)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("forecast price must be positive, got %s", price.Plain())
	}
	if every < 1 {
		return nil, fmt.Errorf("invalid forecast cadence %d", every)
	}

	var entries []LedgerEntry
	for on := from.AddMonth(int(every)); !on.After(to); on = on.AddMonth(int(every)) {
		entries = append(entries, state.reinvest(on, dividend, price, true))
	}
	return entries, nil
}

// Extend appends a forecast continuation to the result, repeating the last
// observed dividend of 'market' at its last known price until 'to'. The
// result's cadence (detected or forced) drives the schedule.
//
// A market with no dividends has nothing to repeat; the result is returned
// unchanged.
func (r *SimulationResult) Extend(market *MarketData, to Date) error {
	last, dividend, ok := market.LastDividend()
	if !ok {
		return nil
	}
	_, price, ok := market.LastPrice()
	if !ok {
		return fmt.Errorf("no last price for %s: %w", market.Ticker, ErrNoData)
	}
	every := r.Frequency
	if every < 1 {
		every = MonthlyPayments
	}
	entries, err := Extend(&r.State, dividend, price, last, to, every)
	if err != nil {
		return err
	}
	r.Entries = append(r.Entries, entries...)
	return nil
}
