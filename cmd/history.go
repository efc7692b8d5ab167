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
)

type historyCmd struct {
	ticker string
	from   string
	to     string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the fetched price and dividend history" }
func (*historyCmd) Usage() string {
	return `drip history -t <ticker> [-from <date>] [-to <date>]

  Fetches and displays the raw price and dividend series a simulation
  would consume, without running it.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "ticker symbol to report on")
	f.StringVar(&c.from, "from", "-1y", "history start date")
	f.StringVar(&c.to, "to", drip.Today().String(), "history end date")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ticker := strings.ToUpper(strings.TrimSpace(c.ticker))
	if ticker == "" {
		fmt.Fprintln(os.Stderr, "-t is required")
		return subcommands.ExitUsageError
	}

	from, err := drip.ParseDate(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -from: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := drip.ParseDate(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -to: %v\n", err)
		return subcommands.ExitUsageError
	}

	provider, err := newProvider()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	market, err := fetchHistory(provider, ticker, drip.NewRange(from, to))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching market data: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.HistoryMarkdown(market))
	return subcommands.ExitSuccess
}
