package drip

import "errors"

// Provider fetches the price and dividend history of a security from an
// external market data source. Implementations live in the yahoo and eodhd
// subpackages.
//
// A provider is queried once per simulation run. It must return series
// sorted by date with unique dates (History guarantees this on Append).
type Provider interface {
	// FetchHistory returns prices and dividends for 'ticker' within 'r',
	// boundaries included.
	FetchHistory(ticker string, r Range) (*MarketData, error)
}

// Error kinds surfaced by providers and the simulation. Wrap them with
// fmt.Errorf and %w, test them with errors.Is.
var (
	// ErrNotFound reports an unknown ticker.
	ErrNotFound = errors.New("ticker not found")
	// ErrNoData reports that the provider returned no usable data in the
	// requested range.
	ErrNoData = errors.New("no market data in range")
	// ErrTransient reports a network or rate-limit failure; the caller may
	// retry a bounded number of times.
	ErrTransient = errors.New("transient provider error")
	// ErrDataGap reports a dividend event that predates the whole price
	// history, leaving no price to reinvest at.
	ErrDataGap = errors.New("dividend predates price history")
)
