// Package yahoo fetches market data from the Yahoo Finance v8 chart API.
//
// It is the default provider: it needs no API key and returns daily closes
// and dividend events in a single call.
package yahoo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/etnz/drip"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://query2.finance.yahoo.com"

// Provider implements drip.Provider against the Yahoo chart endpoint.
type Provider struct {
	Client  *http.Client
	BaseURL string // overridable for tests
}

// New returns a Provider with the shared daily disk cache.
func New() *Provider {
	return &Provider{Client: drip.NewCachingClient(), BaseURL: defaultBaseURL}
}

// chartResponse mirrors the relevant subset of the v8 chart payload.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
				Symbol   string `json:"symbol"`
			} `json:"meta"`
			Timestamp []int64 `json:"timestamp"`
			Events    struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchHistory implements drip.Provider.
func (p *Provider) FetchHistory(ticker string, r drip.Range) (*drip.MarketData, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	// period2 is exclusive in the chart API, push it one day past the range.
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div",
		p.BaseURL, ticker, epoch(r.From), epoch(r.To.Add(1)))

	req, err := http.NewRequest(http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	// Yahoo rejects the default Go user agent.
	req.Header.Set("User-Agent", "drip/1.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %v: %w", ticker, err, drip.ErrTransient)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetching %q: %w", ticker, drip.ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("fetching %q: rate limited: %w", ticker, drip.ErrTransient)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetching %q: %v", ticker, resp.Status)
	}

	var raw chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding chart for %q: %w", ticker, err)
	}
	if e := raw.Chart.Error; e != nil {
		if e.Code == "Not Found" {
			return nil, fmt.Errorf("fetching %q: %s: %w", ticker, e.Description, drip.ErrNotFound)
		}
		return nil, fmt.Errorf("fetching %q: %s: %s", ticker, e.Code, e.Description)
	}
	if len(raw.Chart.Result) == 0 {
		return nil, fmt.Errorf("fetching %q: empty result: %w", ticker, drip.ErrNotFound)
	}

	result := raw.Chart.Result[0]
	md := &drip.MarketData{Ticker: ticker, Currency: result.Meta.Currency}

	if len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i, ts := range result.Timestamp {
			// closed market days come back with a null close
			if i >= len(closes) || closes[i] == nil || *closes[i] <= 0 {
				continue
			}
			on := day(ts)
			if !r.Contains(on) {
				continue
			}
			md.Prices.Append(on, decimal.NewFromFloat(*closes[i]))
		}
	}
	for _, div := range result.Events.Dividends {
		on := day(div.Date)
		if !r.Contains(on) || div.Amount <= 0 {
			continue
		}
		md.Dividends.Append(on, decimal.NewFromFloat(div.Amount))
	}

	if md.Prices.Len() == 0 {
		return nil, fmt.Errorf("no prices for %q in %s: %w", ticker, r, drip.ErrNoData)
	}
	return md, nil
}

func epoch(d drip.Date) int64 {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Unix()
}

func day(ts int64) drip.Date {
	return drip.NewDate(time.Unix(ts, 0).UTC().Date())
}
