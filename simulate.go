package drip

import (
	"fmt"
	"regexp"
)

// tickerRE matches plain ticker symbols, including suffixed ones like
// "005930.KS".
var tickerRE = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,9}$`)

// SimulationRequest carries the user inputs of one simulation run. It is the
// only channel into the simulation: there is no ambient state.
type SimulationRequest struct {
	Ticker  string
	Period  Range
	Shares  Quantity // initial share count
	Horizon Date     // optional forecast end date; zero disables forecasting
	Every   Frequency
}

// Validate checks the request before any fetch is attempted.
func (r SimulationRequest) Validate() error {
	if !tickerRE.MatchString(r.Ticker) {
		return fmt.Errorf("invalid ticker %q", r.Ticker)
	}
	if !r.Shares.IsPositive() {
		return fmt.Errorf("initial shares must be positive, got %s", r.Shares)
	}
	if !r.Period.To.After(r.Period.From) {
		return fmt.Errorf("end date %s must be after start date %s", r.Period.To, r.Period.From)
	}
	if !r.Horizon.IsZero() && !r.Horizon.After(r.Period.To) {
		return fmt.Errorf("forecast horizon %s must be after end date %s", r.Horizon, r.Period.To)
	}
	return nil
}

// SimulationState is the running position of one simulation: the share count
// and the dividend cash carried forward because it could not buy a whole
// share yet. It is created at the start of a run, mutated once per dividend
// event, and discarded with the result.
type SimulationState struct {
	Shares  Quantity
	Carried Money
}

// reinvest processes one dividend event: collect the cash, buy as many whole
// shares as the accumulated cash affords, carry the remainder. Both the
// historical replay and the forecast continuation go through this single
// function, so rounding behaves identically in both segments.
func (s *SimulationState) reinvest(on Date, dividend, price Money, forecast bool) LedgerEntry {
	held := s.Shares
	cash := dividend.Mul(held)
	total := s.Carried.Add(cash)

	purchased := total.DivPrice(price).Floor()
	if purchased.IsPositive() {
		s.Shares = held.Add(purchased)
		s.Carried = total.Sub(price.Mul(purchased))
	} else {
		purchased = Q(0)
		s.Carried = total
	}

	return LedgerEntry{
		On:               on,
		DividendPerShare: dividend,
		Held:             held,
		Cash:             cash,
		Purchased:        purchased,
		Shares:           s.Shares,
		Carried:          s.Carried,
		Price:            price,
		Forecast:         forecast,
	}
}

// LedgerEntry records one processed dividend event. Entries are immutable
// once produced; the ordered sequence is the simulation's sole artifact.
type LedgerEntry struct {
	On               Date
	DividendPerShare Money
	Held             Quantity // share count before the event
	Cash             Money    // Held × DividendPerShare
	Purchased        Quantity // whole shares bought, possibly zero
	Shares           Quantity // share count after the event
	Carried          Money    // cash carried forward after the event
	Price            Money    // closing price used for the purchase
	Forecast         bool     // true for synthetic events past the data
}

// SimulationResult is the output artifact of one run: the ledger plus the
// summary fields consumed by rendering and export.
type SimulationResult struct {
	Ticker        string
	Currency      string
	Period        Range
	InitialShares Quantity
	Frequency     Frequency // detected or forced payment cadence
	AvgInterval   float64   // mean days between observed dividends, 0 if unknown
	Entries       []LedgerEntry
	State         SimulationState // final state, input to Extend
}

// FinalShares returns the share count after the last ledger entry.
func (r *SimulationResult) FinalShares() Quantity { return r.State.Shares }

// SharesGained returns the number of shares bought over the whole run.
func (r *SimulationResult) SharesGained() Quantity {
	return r.State.Shares.Sub(r.InitialShares)
}

// RemainingCash returns the dividend cash left unspent at the end.
func (r *SimulationResult) RemainingCash() Money { return r.State.Carried }

// TotalDividends returns the total dividend cash received over the run.
func (r *SimulationResult) TotalDividends() Money {
	total := M(0, r.Currency)
	for _, e := range r.Entries {
		total = total.Add(e.Cash)
	}
	return total
}

// Simulate replays the dividend events of 'market' in chronological order,
// reinvesting into whole shares, starting from 'initial' shares and no cash.
//
// The price for each event is the close on the event date or the most recent
// earlier close. A dividend that predates the whole price history aborts the
// run with ErrDataGap: no partial ledger is returned, silently skipping an
// event would understate the result.
func Simulate(market *MarketData, initial Quantity) (*SimulationResult, error) {
	if !initial.IsPositive() {
		return nil, fmt.Errorf("initial shares must be positive, got %s", initial)
	}

	from, _ := market.Prices.First()
	to, _ := market.Prices.Latest()
	r := &SimulationResult{
		Ticker:        market.Ticker,
		Currency:      market.Currency,
		Period:        Range{From: from, To: to},
		InitialShares: initial,
		State: SimulationState{
			Shares:  initial,
			Carried: M(0, market.Currency),
		},
	}
	r.Frequency, r.AvgInterval, _ = DetectFrequency(&market.Dividends)

	for on, amount := range market.Dividends.Values() {
		price, ok := market.PriceAsOf(on)
		if !ok {
			return nil, fmt.Errorf("no price on or before %s for %s: %w", on, market.Ticker, ErrDataGap)
		}
		entry := r.State.reinvest(on, market.dividend(amount), price, false)
		r.Entries = append(r.Entries, entry)
	}
	return r, nil
}
