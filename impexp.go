package drip

import (
	"encoding/csv"
	"fmt"
	"io"
)

// this file contains the export format of a simulation result.
// It should remain a single human-readable file, loadable by any spreadsheet.

// csvHeader is the column layout of the export: one row per ledger entry,
// summary fields are not repeated in the file.
var csvHeader = []string{
	"date",
	"dividend_per_share",
	"shares_before",
	"dividend_cash",
	"shares_purchased",
	"shares_after",
	"carried_cash",
	"price",
	"segment",
}

// ExportCSV writes the simulation ledger to 'w' as CSV, one row per dividend
// event, in chronological order. Amounts are written as bare decimals in the
// result's currency; the segment column tells actual rows from forecast
// rows.
func ExportCSV(w io.Writer, r *SimulationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}
	for _, e := range r.Entries {
		segment := "actual"
		if e.Forecast {
			segment = "forecast"
		}
		row := []string{
			e.On.String(),
			e.DividendPerShare.Plain(),
			e.Held.String(),
			e.Cash.Plain(),
			e.Purchased.String(),
			e.Shares.String(),
			e.Carried.Plain(),
			e.Price.Plain(),
			segment,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("cannot write CSV row for %s: %w", e.On, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
