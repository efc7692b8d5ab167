// Package eodhd fetches market data from EOD Historical Data
// (https://eodhd.com). It requires an API key, set via the EODHD_API_KEY
// environment variable or passed to New.
package eodhd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/etnz/drip"
)

// EnvAPIKey is the environment variable holding the API key.
const EnvAPIKey = "EODHD_API_KEY"

const defaultBaseURL = "https://eodhd.com"

// Provider implements drip.Provider against the EODHD REST API.
type Provider struct {
	Client  *http.Client
	BaseURL string // overridable for tests
	apiKey  string
}

// New returns a Provider using 'apiKey', falling back to the EODHD_API_KEY
// environment variable when empty.
func New(apiKey string) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("eodhd: missing API key (set %s)", EnvAPIKey)
	}
	return &Provider{
		Client:  drip.NewCachingClient(),
		BaseURL: defaultBaseURL,
		apiKey:  apiKey,
	}, nil
}

// FetchHistory implements drip.Provider.
//
// The EODHD ticker format is "SYMBOL.EXCHANGECODE", e.g. "SCHD.US"; a plain
// symbol defaults to the US virtual exchange.
func (p *Provider) FetchHistory(ticker string, r drip.Range) (*drip.MarketData, error) {
	md := &drip.MarketData{Ticker: ticker, Currency: "USD"}

	if err := p.fetchPrices(ticker, r, &md.Prices); err != nil {
		return nil, err
	}
	// the dividend endpoint also reveals the trading currency
	if err := p.fetchDividends(ticker, r, md); err != nil {
		return nil, err
	}

	if md.Prices.Len() == 0 {
		return nil, fmt.Errorf("no prices for %q in %s: %w", ticker, r, drip.ErrNoData)
	}
	return md, nil
}
