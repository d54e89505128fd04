// Package store provides SQLite-backed durable storage for the sales ledger.
//
// Three tables are kept:
//   - sales: one row per recorded sale, keyed by an autoincrement id
//   - customers: keyed by name, contact overwritten on every sale
//   - reminders: upcoming expenses with an end-of-day due date
//
// # Encoding
//
// Timestamps are stored as UTC text with millisecond precision
// ("2006-01-02T15:04:05.000Z"). Fixed width keeps lexical order equal to
// time order, so date ranges are plain string comparisons on an index.
//
// Amounts are stored as decimal text so fractional input survives a round
// trip exactly. Rounding happens in the report pipeline, never here.
//
// # Ordering
//
// Every multi-row read has an explicit ORDER BY. Sales come back in id
// order, which is also insertion order, so reports see records the same
// way on every run.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// The schema is managed by golang-migrate with the migration files
// embedded in the binary.
package store
