// Package drip simulates dividend reinvestment for a single stock or ETF.
//
// Given a ticker and a date range, a market data provider (see the yahoo and
// eodhd subpackages) returns the daily closing prices and the dividend
// history. Simulate then replays the dividend events in chronological order,
// buying whole shares whenever the accumulated dividend cash is sufficient,
// and carrying the remainder forward otherwise. Extend continues the same
// loop past the last known dividend, repeating the latest amount on a fixed
// cadence with the price held constant.
//
// Every run is request-scoped: nothing persists between runs and no state is
// shared, so results depend only on the inputs.
package drip
