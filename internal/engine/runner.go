package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roach88/daftar/internal/report"
	"github.com/roach88/daftar/internal/sale"
)

// RecordSource supplies sale snapshots. Implemented by *store.Store.
type RecordSource interface {
	ReadAllSales(ctx context.Context) ([]sale.Record, error)
	ReadSalesByDateRange(ctx context.Context, from, to time.Time) ([]sale.Record, error)
}

// ContactSource supplies the customer contact lookup. Implemented by
// *store.Store.
type ContactSource interface {
	ContactMap(ctx context.Context) (map[string]string, error)
}

// Source is everything a Runner reads.
type Source interface {
	RecordSource
	ContactSource
}

// Kind names the report a request asks for.
type Kind string

const (
	KindSummary Kind = "summary"
	KindLottery Kind = "lottery"
)

// Result is a completed request. Exactly one of Summary and Lottery is set
// unless Err is non-nil.
type Result struct {
	Seq     int64
	Kind    Kind
	Query   report.Query
	Summary *report.Summary
	Lottery *report.Outcome
	Err     error
}

// Sink receives published results, in increasing Seq order.
type Sink interface {
	Publish(Result)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Result)

// Publish implements Sink.
func (f SinkFunc) Publish(r Result) { f(r) }

// globalRand draws from the math/rand/v2 top-level generator, which is
// safe for concurrent use.
type globalRand struct{}

func (globalRand) Int64N(n int64) int64 { return rand.Int64N(n) }

// Runner executes report requests.
//
// Thread-safety: all methods are safe for concurrent use.
type Runner struct {
	src   Source
	clock *Clock
	rng   report.Source
	sink  Sink
	log   logrus.FieldLogger

	mu        sync.Mutex
	published int64
	wg        sync.WaitGroup
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRand sets the lottery draw source. The source must be safe for
// concurrent use if requests overlap.
func WithRand(rng report.Source) RunnerOption {
	return func(r *Runner) { r.rng = rng }
}

// WithSink sets where Submit publishes results.
func WithSink(s Sink) RunnerOption {
	return func(r *Runner) { r.sink = s }
}

// WithLogger sets the runner's logger.
func WithLogger(l logrus.FieldLogger) RunnerOption {
	return func(r *Runner) { r.log = l }
}

// WithClock sets the request clock. Used to resume numbering.
func WithClock(c *Clock) RunnerOption {
	return func(r *Runner) { r.clock = c }
}

// NewRunner creates a Runner reading from src.
func NewRunner(src Source, opts ...RunnerOption) *Runner {
	r := &Runner{
		src:   src,
		clock: NewClock(),
		rng:   globalRand{},
		sink:  SinkFunc(func(Result) {}),
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Summary computes the summary report for q.
func (r *Runner) Summary(ctx context.Context, q report.Query) (report.Summary, error) {
	records, err := r.snapshot(ctx, q)
	if err != nil {
		return report.Summary{}, err
	}
	return report.SummaryOf(records, q), nil
}

// Lottery runs the lottery for q. Contacts are looked up only when the
// filter leaves at least one record. A failed lookup is logged and the draw
// goes ahead with empty contacts.
func (r *Runner) Lottery(ctx context.Context, q report.Query) (report.Outcome, error) {
	records, err := r.snapshot(ctx, q)
	if err != nil {
		return report.Outcome{}, err
	}

	var contacts report.ContactMap
	if len(records) > 0 {
		m, err := r.src.ContactMap(ctx)
		if err != nil {
			r.log.WithError(err).Warn("contacts unavailable, drawing without them")
		} else {
			contacts = report.ContactMap(m)
		}
	}
	return report.Lottery(records, q, contacts, r.rng), nil
}

// Submit starts a request in the background and returns its sequence
// number. The result reaches the sink unless a newer one got there first.
func (r *Runner) Submit(ctx context.Context, kind Kind, q report.Query) int64 {
	seq := r.clock.Next()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.publish(r.run(ctx, seq, kind, q))
	}()
	return seq
}

// Wait blocks until every submitted request has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Published returns the sequence number of the last published result, or
// 0 if none has been published.
func (r *Runner) Published() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.published
}

func (r *Runner) run(ctx context.Context, seq int64, kind Kind, q report.Query) Result {
	res := Result{Seq: seq, Kind: kind, Query: q}
	switch kind {
	case KindSummary:
		s, err := r.Summary(ctx, q)
		if err != nil {
			res.Err = err
			break
		}
		res.Summary = &s
	case KindLottery:
		o, err := r.Lottery(ctx, q)
		if err != nil {
			res.Err = err
			break
		}
		res.Lottery = &o
	default:
		res.Err = fmt.Errorf("unknown report kind %q", kind)
	}
	return res
}

// publish hands res to the sink if it is newer than everything published
// so far. The lock is held across the sink call so publications never
// interleave.
func (r *Runner) publish(res Result) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res.Seq <= r.published {
		r.log.WithFields(logrus.Fields{
			"seq":       res.Seq,
			"kind":      res.Kind,
			"published": r.published,
		}).Debug("dropping stale report")
		return false
	}
	r.published = res.Seq
	r.sink.Publish(res)
	return true
}

// snapshot reads the records q can match, using the date index when q has
// a bound.
func (r *Runner) snapshot(ctx context.Context, q report.Query) ([]sale.Record, error) {
	from, to := q.Range()
	var (
		records []sale.Record
		err     error
	)
	if from.IsZero() && to.IsZero() {
		records, err = r.src.ReadAllSales(ctx)
	} else {
		records, err = r.src.ReadSalesByDateRange(ctx, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	r.log.WithFields(logrus.Fields{
		"records": len(records),
		"from":    q.From,
		"to":      q.To,
	}).Debug("loaded sales snapshot")
	return records, nil
}
