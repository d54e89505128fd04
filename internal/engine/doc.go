// Package engine runs report requests against the record store.
//
// A Runner reads a snapshot of sales, hands it to the report pipeline and
// returns or publishes the result. Reports never write, so requests can run
// side by side on their own goroutines.
//
// LAST WRITE WINS:
//
// Requests submitted with Runner.Submit are stamped by a logical Clock and
// complete in any order. A result is published to the Sink only if no
// request with a higher stamp has been published already; stale results
// are dropped and logged at debug level. Consumers therefore never see an
// older report replace a newer one.
//
// The synchronous Runner.Summary and Runner.Lottery bypass the sink and
// return the result directly. The CLI uses these.
//
// Snapshot reads use the store's date-range query when the report has a
// date bound. The pipeline filters the snapshot again, so both paths give
// identical results.
package engine
