package report

import "github.com/roach88/daftar/internal/sale"

// CustomerTotal is one customer's aggregate over a set of records.
type CustomerTotal struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
	Count int    `json:"count"`
}

// Aggregates maps customer names to their CustomerTotal and remembers the order
// in which names were first seen.
type Aggregates struct {
	order  []string
	byName map[string]*CustomerTotal
}

// Len returns the number of customers.
func (a *Aggregates) Len() int {
	if a == nil {
		return 0
	}
	return len(a.order)
}

// Get returns the aggregate for name.
func (a *Aggregates) Get(name string) (CustomerTotal, bool) {
	if a == nil {
		return CustomerTotal{}, false
	}
	agg, ok := a.byName[name]
	if !ok {
		return CustomerTotal{}, false
	}
	return *agg, true
}

// All returns a copy of every aggregate in first-seen order.
func (a *Aggregates) All() []CustomerTotal {
	out := make([]CustomerTotal, 0, a.Len())
	if a == nil {
		return out
	}
	for _, name := range a.order {
		out = append(out, *a.byName[name])
	}
	return out
}

// Aggregate groups records by customer name.
//
// Records without a customer name or without a positive amount are skipped.
// Each amount is rounded to whole units before it is added to the total.
func Aggregate(records []sale.Record) *Aggregates {
	aggs := &Aggregates{byName: make(map[string]*CustomerTotal)}
	for _, r := range records {
		if r.CustomerName == "" || !r.Amount.IsPositive() {
			continue
		}
		agg, ok := aggs.byName[r.CustomerName]
		if !ok {
			agg = &CustomerTotal{Name: r.CustomerName}
			aggs.byName[r.CustomerName] = agg
			aggs.order = append(aggs.order, r.CustomerName)
		}
		agg.Total += r.RoundedAmount()
		agg.Count++
	}
	return aggs
}
