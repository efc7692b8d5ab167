package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/drip"
	"github.com/etnz/drip/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// simulateCmd holds the flags for the 'simulate' subcommand.
type simulateCmd struct {
	ticker   string
	from     string
	to       string
	shares   float64
	forecast string
	every    string
	csvFile  string
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "simulate dividend reinvestment for a ticker" }
func (*simulateCmd) Usage() string {
	return `drip simulate -t <ticker> [-from <date>] [-to <date>] [-shares <n>] [-forecast <date>] [-every <cadence>] [-csv <file>]

Fetches the price and dividend history of a ticker, replays every dividend
event reinvesting into whole shares, and prints the resulting ledger and
summary. Unspent dividend cash carries forward between events.

With -forecast the run continues past the data, repeating the last dividend
at the detected cadence with the price held constant. Dates accept relative
forms like -1y or +6m.

Examples:
$ drip simulate -t SCHD -shares 100
$ drip simulate -t JEPQ -from 2024-1-1 -to 2025-1-1 -shares 50 -forecast +2y
$ drip simulate -t 005930.KS -shares 10 -csv samsung.csv
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "ticker symbol to simulate")
	f.StringVar(&c.from, "from", "-1y", "simulation start date")
	f.StringVar(&c.to, "to", drip.Today().String(), "simulation end date")
	f.Float64Var(&c.shares, "shares", 100, "initial share count")
	f.StringVar(&c.forecast, "forecast", "", "forecast end date (empty disables forecasting)")
	f.StringVar(&c.every, "every", "", "force the forecast cadence: monthly, quarterly, semi-annual or annual")
	f.StringVar(&c.csvFile, "csv", "", "also write the ledger to this CSV file")
}

func (c *simulateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req, status := c.request()
	if status != subcommands.ExitSuccess {
		return status
	}

	provider, err := newProvider()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	market, err := fetchHistory(provider, req.Ticker, req.Period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching market data: %v\n", err)
		return subcommands.ExitFailure
	}

	if req.Period.To.After(drip.Today().Add(-1)) {
		// the daily series lags behind the live market, top it up
		updateIntraday(market)
	}

	result, err := drip.Simulate(market, req.Shares)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error simulating: %v\n", err)
		return subcommands.ExitFailure
	}
	if req.Every > 0 {
		result.Frequency = req.Every
	}
	if !req.Horizon.IsZero() {
		if err := result.Extend(market, req.Horizon); err != nil {
			fmt.Fprintf(os.Stderr, "Error forecasting: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(renderer.SimulationMarkdown(result))

	if c.csvFile != "" {
		file, err := os.Create(c.csvFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.csvFile, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		if err := drip.ExportCSV(file, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.csvFile, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Ledger written to %s\n", c.csvFile)
	}
	return subcommands.ExitSuccess
}

// request parses and validates the flags into a SimulationRequest.
func (c *simulateCmd) request() (drip.SimulationRequest, subcommands.ExitStatus) {
	var req drip.SimulationRequest

	req.Ticker = strings.ToUpper(strings.TrimSpace(c.ticker))

	from, err := drip.ParseDate(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -from: %v\n", err)
		return req, subcommands.ExitUsageError
	}
	to, err := drip.ParseDate(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -to: %v\n", err)
		return req, subcommands.ExitUsageError
	}
	req.Period = drip.NewRange(from, to)
	req.Shares = drip.Q(c.shares)

	if c.forecast != "" {
		horizon, err := drip.ParseDate(c.forecast)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -forecast: %v\n", err)
			return req, subcommands.ExitUsageError
		}
		req.Horizon = horizon
	}
	if c.every != "" {
		every, err := drip.ParseFrequency(c.every)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -every: %v\n", err)
			return req, subcommands.ExitUsageError
		}
		req.Every = every
	}

	if err := req.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return req, subcommands.ExitUsageError
	}
	return req, subcommands.ExitSuccess
}

// updateIntraday appends the latest live quote to the price series, so a
// simulation ending today uses the current price rather than yesterday's
// close. Failures are harmless, the daily series is a fine fallback.
func updateIntraday(market *drip.MarketData) {
	price, currency, err := drip.LatestQuote(market.Ticker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: no live quote for %s: %v\n", market.Ticker, err)
		return
	}
	market.Prices.Append(drip.Today(), decimal.NewFromFloat(price))
	if market.Currency == "" {
		market.Currency = currency
	}
}
