package drip

import "github.com/shopspring/decimal"

// MarketData holds the price and dividend history of a single security, as
// returned by one provider fetch. It is read-only input to the simulation.
type MarketData struct {
	Ticker    string  // plain ticker symbol, e.g. "SCHD"
	Currency  string  // ISO 4217 code of the trading currency
	Prices    History // daily closing price per share
	Dividends History // dividend amount per share, on ex-dividend dates
}

// PriceAsOf returns the closing price on 'day', or the most recent earlier
// close. The boolean is false when no price exists on or before that day.
func (m *MarketData) PriceAsOf(day Date) (Money, bool) {
	v, ok := m.Prices.ValueAsOf(day)
	if !ok {
		return Money{}, false
	}
	return M(v, m.Currency), true
}

// LastPrice returns the most recent known closing price.
func (m *MarketData) LastPrice() (Date, Money, bool) {
	if m.Prices.Len() == 0 {
		return Date{}, Money{}, false
	}
	on, v := m.Prices.Latest()
	return on, M(v, m.Currency), true
}

// LastDividend returns the most recent known dividend per share.
func (m *MarketData) LastDividend() (Date, Money, bool) {
	if m.Dividends.Len() == 0 {
		return Date{}, Money{}, false
	}
	on, v := m.Dividends.Latest()
	return on, M(v, m.Currency), true
}

// dividend returns the per-share amount on 'day' as Money.
func (m *MarketData) dividend(v decimal.Decimal) Money { return M(v, m.Currency) }
