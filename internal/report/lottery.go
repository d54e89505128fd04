package report

import "github.com/roach88/daftar/internal/sale"

// ChanceUnit is the spend that earns one lottery chance.
const ChanceUnit int64 = 50000

// ContactLookup resolves a customer name to contact information.
type ContactLookup interface {
	Contact(name string) (string, bool)
}

// ContactMap is a ContactLookup backed by a plain map. A nil map is valid
// and knows no contacts.
type ContactMap map[string]string

// Contact implements ContactLookup.
func (m ContactMap) Contact(name string) (string, bool) {
	c, ok := m[name]
	return c, ok
}

// Source supplies the random draw. *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// Int64N returns a value in [0, n). n is always positive.
	Int64N(n int64) int64
}

// Participant is a customer holding at least one chance.
// Their codes are the contiguous block [FirstCode, LastCode].
type Participant struct {
	Name      string
	Contact   string
	Total     int64
	Count     int
	Chances   int64
	FirstCode int64
	LastCode  int64
}

// Codes lists the participant's chance codes in increasing order.
func (p Participant) Codes() []int64 {
	codes := make([]int64, 0, p.Chances)
	for c := p.FirstCode; c <= p.LastCode; c++ {
		codes = append(codes, c)
	}
	return codes
}

// Holds reports whether code belongs to the participant.
func (p Participant) Holds(code int64) bool {
	return p.Chances > 0 && code >= p.FirstCode && code <= p.LastCode
}

// Allocation is the chance table for one lottery run.
type Allocation struct {
	Participants []Participant
	TotalChances int64
}

// Allocate converts customer totals into chance blocks.
//
// Customers are visited in aggregate order. Each earns Total/ChanceUnit
// chances, rounded down; those earning none are left out. Codes are issued
// from 1 upward with no gaps. A nil contacts lookup leaves every contact
// empty.
func Allocate(aggs *Aggregates, contacts ContactLookup) Allocation {
	alloc := Allocation{Participants: []Participant{}}
	next := int64(1)

	for _, agg := range aggs.All() {
		chances := agg.Total / ChanceUnit
		if chances < 1 {
			continue
		}

		var contact string
		if contacts != nil {
			contact, _ = contacts.Contact(agg.Name)
		}

		alloc.Participants = append(alloc.Participants, Participant{
			Name:      agg.Name,
			Contact:   contact,
			Total:     agg.Total,
			Count:     agg.Count,
			Chances:   chances,
			FirstCode: next,
			LastCode:  next + chances - 1,
		})
		next += chances
	}

	alloc.TotalChances = next - 1
	return alloc
}

// Outcome is the result of a lottery run.
type Outcome struct {
	Status       Status
	Participants []Participant
	TotalChances int64

	// WinningCode is 0 and Winner is nil when no draw took place.
	WinningCode int64
	Winner      *Participant
}

// Drawn reports whether a winning code was drawn.
func (o Outcome) Drawn() bool {
	return o.WinningCode > 0
}

// Draw picks one code uniformly from [1, TotalChances] and finds its holder.
// With no chances issued it returns StatusNoEligible without touching rng.
func Draw(alloc Allocation, rng Source) Outcome {
	out := Outcome{
		Status:       StatusOK,
		Participants: alloc.Participants,
		TotalChances: alloc.TotalChances,
	}
	if alloc.TotalChances == 0 {
		out.Status = StatusNoEligible
		return out
	}

	out.WinningCode = rng.Int64N(alloc.TotalChances) + 1
	for i := range out.Participants {
		if out.Participants[i].Holds(out.WinningCode) {
			out.Winner = &out.Participants[i]
			break
		}
	}
	return out
}

// Lottery runs the whole pipeline over a record snapshot: filter,
// aggregate, allocate and draw. An empty filter result yields
// StatusNoRecords.
func Lottery(records []sale.Record, q Query, contacts ContactLookup, rng Source) Outcome {
	filtered := Filter(records, q)
	if len(filtered) == 0 {
		return Outcome{Status: StatusNoRecords, Participants: []Participant{}}
	}
	return Draw(Allocate(Aggregate(filtered), contacts), rng)
}
