// Package omd values and aggregates the bond portfolio of a debt-management
// exchange operation (OMD): a set of TES bonds is collected (retired) and
// another set delivered (issued) on a single settlement date.
//
// The core functionalities include:
//   - Memo Scanning: turning the loosely structured text of an OMD memo into
//     typed bond records, using locale-aware number and date parsing and a
//     price-anchor heuristic to decompose table rows.
//   - Bond Valuation: a pure, stateless engine computing clean/dirty prices
//     and accrued interest by discounted cash-flow summation, the
//     coupon-timing effect, and the inflation-index forward projection for
//     UVR-denominated instruments.
//   - Operation Aggregation: per-bond sign normalization and the portfolio
//     totals of the operation (amount exchanged, settlement outlay, net
//     fiscal cost, indexation, debt balance, overall result), with per-row
//     error isolation so one bad record never corrupts the batch.
//
// Reference data (the UVR index and inflation series) and the consolidated
// workbook live behind the adapters in the refdata subpackage; rendering of
// the printable operation report lives in renderer. This package serves as
// the foundational logic for the omdcalc command-line tool.
package omd
