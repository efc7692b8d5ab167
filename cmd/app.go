// Package cmd implements the CLI application to run dividend reinvestment
// simulations.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/etnz/drip"
	"github.com/etnz/drip/eodhd"
	"github.com/etnz/drip/yahoo"
	"github.com/google/subcommands"
)

// Commands returns all subcommands, in display order. A main package
// registers them on a commander and executes the user-selected one.
func Commands() []subcommands.Command {
	return []subcommands.Command{
		&simulateCmd{},
		&historyCmd{},
		&assistCmd{},
		&topicCmd{},
	}
}

// as a CLI application with a very short lifecycle, provider selection is ok
// as global flags.

var providerName = flag.String("provider", "yahoo", "Market data provider: yahoo or eodhd.")
var eodhdAPIKey = flag.String("eodhd-api-key", "", "EODHD API key (defaults to the EODHD_API_KEY environment variable).")

// newProvider builds the provider selected on the command line.
func newProvider() (drip.Provider, error) {
	switch *providerName {
	case "yahoo":
		return yahoo.New(), nil
	case "eodhd":
		return eodhd.New(*eodhdAPIKey)
	default:
		return nil, fmt.Errorf("unsupported provider %q", *providerName)
	}
}

// fetchRetries bounds how often a transient provider failure is retried.
const fetchRetries = 2

// fetchHistory queries the provider, retrying transient failures a bounded
// number of times. Retrying is the caller's job, the library never does.
func fetchHistory(p drip.Provider, ticker string, r drip.Range) (*drip.MarketData, error) {
	var err error
	for attempt := 0; ; attempt++ {
		var md *drip.MarketData
		md, err = p.FetchHistory(ticker, r)
		if err == nil {
			return md, nil
		}
		if !errors.Is(err, drip.ErrTransient) || attempt == fetchRetries {
			break
		}
		log.Printf("retrying fetch for %s: %v", ticker, err)
	}
	if errors.Is(err, drip.ErrTransient) {
		// retries exhausted, to the user this is plain unavailability
		return nil, fmt.Errorf("market data unavailable for %s: %w", ticker, err)
	}
	return nil, err
}
