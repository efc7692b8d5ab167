// Package renderer turns simulation results into markdown documents.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/drip"
	md "github.com/nao1215/markdown"
)

// SimulationMarkdown renders a full simulation report: the summary metrics
// followed by the reinvestment ledger, one row per dividend event.
func SimulationMarkdown(r *drip.SimulationResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Dividend reinvestment for %s", r.Ticker))
	doc.PlainText(fmt.Sprintf("Period %s, payments detected %s.", r.Period, r.Frequency))
	if r.AvgInterval > 0 {
		doc.PlainText(fmt.Sprintf("Mean interval between dividends: %.0f days.", r.AvgInterval))
	}

	doc.H2("Summary")
	summary := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Metric", "Value"},
		Rows: [][]string{
			{"Initial shares", r.InitialShares.String()},
			{"Final shares", r.FinalShares().String()},
			{"Shares gained", r.SharesGained().String()},
			{"Total dividends received", r.TotalDividends().String()},
			{"Remaining cash", r.RemainingCash().String()},
		},
	}
	doc.Table(summary)

	if len(r.Entries) == 0 {
		doc.PlainText("No dividend was paid in this period.")
		return doc.String()
	}

	doc.H2("Ledger")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Date", "Div/Share", "Cash", "Bought", "Shares", "Carried", "Price", "Segment"},
		Rows:   [][]string{},
	}
	for _, e := range r.Entries {
		segment := "actual"
		if e.Forecast {
			segment = "forecast"
		}
		table.Rows = append(table.Rows, []string{
			e.On.String(),
			e.DividendPerShare.Plain(),
			e.Cash.String(),
			e.Purchased.String(),
			e.Shares.String(),
			e.Carried.String(),
			e.Price.String(),
			segment,
		})
	}
	doc.Table(table)

	return doc.String()
}

// HistoryMarkdown renders the fetched market data as two tables, prices then
// dividends.
func HistoryMarkdown(m *drip.MarketData) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Market data for %s (%s)", m.Ticker, m.Currency))

	doc.H2("Prices")
	prices := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Date", "Close"},
		Rows:      [][]string{},
	}
	for on, v := range m.Prices.Values() {
		prices.Rows = append(prices.Rows, []string{on.String(), v.String()})
	}
	doc.Table(prices)

	doc.H2("Dividends")
	dividends := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Ex-Date", "Amount/Share"},
		Rows:      [][]string{},
	}
	for on, v := range m.Dividends.Values() {
		dividends.Rows = append(dividends.Rows, []string{on.String(), v.String()})
	}
	doc.Table(dividends)

	return doc.String()
}
