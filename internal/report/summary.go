package report

import (
	"sort"

	"github.com/roach88/daftar/internal/sale"
)

// Status names the outcome of a report. Everything except StatusOK is a
// no-data outcome the caller renders as a message, not an error.
type Status string

const (
	StatusOK             Status = "ok"
	StatusNoRecords      Status = "no_records"
	StatusNoValidRecords Status = "no_valid_records"
	StatusNoEligible     Status = "no_eligible_participants"
)

// Summary is the per-customer sales table.
type Summary struct {
	Status Status
	// Rows are sorted by Total, largest first; ties keep aggregate order.
	Rows       []CustomerTotal
	GrandTotal int64
	// RecordCount is the number of filtered records, including any the
	// aggregator skipped.
	RecordCount int
}

// Summarize builds the summary table from the filtered records and their
// aggregates.
func Summarize(filtered []sale.Record, aggs *Aggregates) Summary {
	if len(filtered) == 0 {
		return Summary{Status: StatusNoRecords, Rows: []CustomerTotal{}}
	}
	if aggs.Len() == 0 {
		return Summary{Status: StatusNoValidRecords, Rows: []CustomerTotal{}, RecordCount: len(filtered)}
	}

	rows := aggs.All()
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total > rows[j].Total
	})

	var grand int64
	for _, row := range rows {
		grand += row.Total
	}

	return Summary{
		Status:      StatusOK,
		Rows:        rows,
		GrandTotal:  grand,
		RecordCount: len(filtered),
	}
}

// SummaryOf runs filter, aggregate and summarize over a record snapshot.
func SummaryOf(records []sale.Record, q Query) Summary {
	filtered := Filter(records, q)
	return Summarize(filtered, Aggregate(filtered))
}
