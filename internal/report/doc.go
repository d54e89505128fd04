// Package report turns a snapshot of sale records into customer summaries
// and purchase-threshold lottery outcomes.
//
// Every function here is pure: it reads the records and lookups it is
// given, never mutates them, and returns a fresh result. There is no
// package state and nothing is cached between calls. Features share one
// pipeline and differ only in the last step:
//
//	Filter -> Aggregate -> Summarize        (summary table)
//	Filter -> Aggregate -> Allocate -> Draw (lottery)
//
// # Invariants
//
//   - Amounts are rounded to whole units per record, before summation.
//   - Aggregates iterate in the order customer names were first seen.
//   - Chance codes form the gap-free range [1, TotalChances], split into
//     contiguous blocks in aggregate order; a customer holds
//     Total/ChanceUnit codes and customers with none are not participants.
//
// No-data results (no records, no valid records, no eligible participants)
// are reported through Status values rather than errors.
package report
