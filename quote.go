package drip

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
)

// quoteURL is a var so tests can point it at a local server.
var quoteURL = "https://query2.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=5d"

// LatestQuote returns the latest market price and the trading currency of a
// ticker. The currency drives the formatting of every amount in the reports,
// tickers like "005930.KS" trade in KRW, not USD.
func LatestQuote(ticker string) (price float64, currency string, err error) {
	addr := fmt.Sprintf(quoteURL, ticker)

	req, err := http.NewRequest(http.MethodGet, addr, nil)
	if err != nil {
		return 0, "", err
	}
	// Yahoo rejects the default Go user agent.
	req.Header.Set("User-Agent", userAgent)

	resp, err := NewCachingClient().Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("quote for %q: %v: %w", ticker, err, ErrTransient)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return 0, "", fmt.Errorf("quote for %q: %w", ticker, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("quote for %q: %v", ticker, resp.Status)
	}

	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return 0, "", fmt.Errorf("quote for %q: %w", ticker, err)
	}

	price, err = jsonFloat(jobj, "$.chart.result[0].meta.regularMarketPrice")
	if err != nil {
		return 0, "", fmt.Errorf("quote for %q: %w", ticker, err)
	}
	cur, err := jsonString(jobj, "$.chart.result[0].meta.currency")
	if err != nil {
		return 0, "", fmt.Errorf("quote for %q: %w", ticker, err)
	}
	return price, cur, nil
}

const userAgent = "drip/1.0"

// jsonFloat extracts a single float64 from a decoded JSON document.
func jsonFloat(jobj any, path string) (float64, error) {
	jval, err := jsonValue(jobj, path)
	if err != nil {
		return 0, err
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("%q is not a number: %v", path, jval)
	}
	return val, nil
}

// jsonString extracts a single string from a decoded JSON document.
func jsonString(jobj any, path string) (string, error) {
	jval, err := jsonValue(jobj, path)
	if err != nil {
		return "", err
	}
	val, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("%q is not a string: %v", path, jval)
	}
	return val, nil
}

func jsonValue(jobj any, path string) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return jval, nil
}
