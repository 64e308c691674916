// Package tradejournal computes the portfolio view of a personal trading
// journal.
//
// A journal is a ledger of trade rows, usually kept in a spreadsheet. Each
// row records a buy (entry) and, once sold, its exit. The package turns that
// ledger into a Snapshot:
//   - Classification: rows are decoded against a Schema of aliased columns,
//     with tolerant numeric coercion, and split into open and closed legs.
//   - Consolidation: open legs are merged per ticker into Positions with an
//     exact weighted average cost.
//   - Fees: a fixed plus per share FeeSchedule is charged once per position
//     entry and once per closed leg exit.
//   - Quotes: a QuoteProvider prices every position in one batched call;
//     unpriced positions are reported, never valued at zero.
//   - Reconciliation: a CashStrategy provides the available cash and the
//     snapshot carries total equity, realized and unrealized P&L.
//
// The Aggregator runs one such pass, the Refresher publishes the most recent
// one. Adapters for ledger sources, quote providers and presentation live in
// sub packages and are assembled by the `tj` command.
package tradejournal
