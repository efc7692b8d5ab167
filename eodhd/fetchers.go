package eodhd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/drip"
	"github.com/shopspring/decimal"
)

// This file contains the functions accessing the EODHD API endpoints.

// fetchPrices fills the daily close prices for a given EODHD ticker.
func (p *Provider) fetchPrices(ticker string, r drip.Range, prices *drip.History) error {
	// https://eodhd.com/api/eod/SCHD.US?api_token=demo&fmt=json
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	// bounds are included in the response; time depth is limited to 1 year
	// with the free subscription.
	addr := fmt.Sprintf("%s/api/eod/%s?fmt=json&api_token=%s&from=%s&to=%s",
		p.BaseURL, normalize(ticker), p.apiKey, r.From, r.To)

	type info struct {
		Date  drip.Date       `json:"date"`
		Close decimal.Decimal `json:"close"`
	}

	content := make([]info, 0)
	if err := drip.JSONGet(p.Client, addr, &content); err != nil {
		return p.classify(ticker, err)
	}
	for _, i := range content {
		if i.Close.IsPositive() {
			prices.Append(i.Date, i.Close)
		}
	}
	return nil
}

// fetchDividends fills the dividend history for a given EODHD ticker, and
// records the payment currency on 'md' when the API reports one.
func (p *Provider) fetchDividends(ticker string, r drip.Range, md *drip.MarketData) error {
	addr := fmt.Sprintf("%s/api/div/%s?fmt=json&api_token=%s&from=%s&to=%s",
		p.BaseURL, normalize(ticker), p.apiKey, r.From, r.To)

	type dividend struct {
		Date     drip.Date       `json:"date"` // ex-dividend date
		Value    decimal.Decimal `json:"value"`
		Currency string          `json:"currency"`
	}

	content := make([]dividend, 0)
	if err := drip.JSONGet(p.Client, addr, &content); err != nil {
		return p.classify(ticker, err)
	}
	for _, d := range content {
		if !d.Value.IsPositive() {
			continue
		}
		md.Dividends.Append(d.Date, d.Value)
		if d.Currency != "" {
			md.Currency = d.Currency
		}
	}
	return nil
}

// normalize appends the default ".US" virtual exchange to plain symbols.
func normalize(ticker string) string {
	if strings.Contains(ticker, ".") {
		return ticker
	}
	return ticker + ".US"
}

// classify maps raw fetch errors to the drip error kinds: EODHD answers 404
// for unknown tickers.
func (p *Provider) classify(ticker string, err error) error {
	if errors.Is(err, drip.ErrTransient) {
		return err
	}
	if strings.Contains(err.Error(), "404") {
		return fmt.Errorf("eodhd %q: %w", ticker, drip.ErrNotFound)
	}
	if strings.Contains(err.Error(), "429") {
		return fmt.Errorf("eodhd %q: rate limited: %w", ticker, drip.ErrTransient)
	}
	return fmt.Errorf("eodhd %q: %w", ticker, err)
}
