package workqueue

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/errgroup"

	"github.com/ManuelReschke/LinkFox/internal/pkg/config"
	"github.com/ManuelReschke/LinkFox/internal/pkg/metrics"
)

const defaultConcurrency = 10

type Options struct {
	// Queue names the work table in logs and metrics.
	Queue string
	// Worker is the name passed to the Invoker.
	Worker      string
	BatchSize   int
	ClaimMode   string
	Concurrency int
	// RejectStatus is the terminal status for rows the Preparer refuses.
	RejectStatus string
}

// Outcome records how one worker invocation settled.
type Outcome struct {
	ID  uint
	Err error
}

// Result summarizes one run. NothingToDo is set when no pending row existed.
type Result struct {
	NothingToDo bool
	Claimed     int
	Dispatched  int
	Failed      int
	Rejected    int
	Outcomes    []Outcome
}

type Runner struct {
	store    Store
	invoker  Invoker
	preparer Preparer
	opts     Options
}

// NewRunner returns a runner; preparer may be nil.
func NewRunner(store Store, invoker Invoker, preparer Preparer, opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.ClaimMode == "" {
		opts.ClaimMode = config.ClaimModeSelectUpdate
	}
	return &Runner{store: store, invoker: invoker, preparer: preparer, opts: opts}
}

func (r *Runner) Options() Options {
	return r.opts
}

// Run processes at most one batch. Errors from selecting or claiming abort the
// run; claimed rows are not reverted. Worker failures are recorded per row and
// never abort the run.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	items, err := r.claim(ctx)
	if err != nil {
		metrics.WorkQueueRuns.WithLabelValues(r.opts.Queue, "error").Inc()
		log.Errorf("[WorkQueue] %s: %v", r.opts.Queue, err)
		return Result{}, err
	}
	if len(items) == 0 {
		metrics.WorkQueueRuns.WithLabelValues(r.opts.Queue, "empty").Inc()
		return Result{NothingToDo: true}, nil
	}
	metrics.WorkQueueClaimed.WithLabelValues(r.opts.Queue).Add(float64(len(items)))

	res := Result{Claimed: len(items)}
	ready := make([]Item, 0, len(items))
	for _, item := range items {
		prepared, ok := r.prepare(ctx, item)
		if !ok {
			res.Rejected++
			continue
		}
		ready = append(ready, prepared)
	}

	res.Outcomes = r.dispatch(ctx, ready)
	res.Dispatched = len(res.Outcomes)
	for _, o := range res.Outcomes {
		if o.Err != nil {
			res.Failed++
		}
	}

	metrics.WorkQueueRuns.WithLabelValues(r.opts.Queue, "dispatched").Inc()
	log.Infof("[WorkQueue] %s: claimed %d, dispatched %d (%d failed), rejected %d",
		r.opts.Queue, res.Claimed, res.Dispatched, res.Failed, res.Rejected)
	return res, nil
}

func (r *Runner) claim(ctx context.Context) ([]Item, error) {
	if r.opts.ClaimMode == config.ClaimModeAtomic {
		items, err := r.store.ClaimAtomic(ctx, r.opts.BatchSize)
		if err != nil {
			return nil, fmt.Errorf("claim pending rows: %w", err)
		}
		return items, nil
	}

	items, err := r.store.SelectPending(ctx, r.opts.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("select pending rows: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	if err := r.store.Claim(ctx, ids); err != nil {
		return nil, fmt.Errorf("claim %d rows: %w", len(ids), err)
	}
	return items, nil
}

func (r *Runner) prepare(ctx context.Context, item Item) (Item, bool) {
	if r.preparer == nil {
		return item, true
	}
	payload, err := r.preparer.Prepare(ctx, item)
	if err == nil {
		item.Payload = payload
		return item, true
	}

	metrics.WorkQueueRejected.WithLabelValues(r.opts.Queue).Inc()
	log.Warnf("[WorkQueue] %s: row %d rejected: %v", r.opts.Queue, item.ID, err)
	if merr := r.store.MarkFailed(ctx, item.ID, r.opts.RejectStatus, err.Error()); merr != nil {
		log.Errorf("[WorkQueue] %s: failed to mark row %d as %s: %v", r.opts.Queue, item.ID, r.opts.RejectStatus, merr)
	}
	return item, false
}

// dispatch invokes the worker for every item and waits for all of them.
func (r *Runner) dispatch(ctx context.Context, items []Item) []Outcome {
	outcomes := make([]Outcome, len(items))
	var g errgroup.Group
	g.SetLimit(r.opts.Concurrency)
	for i, item := range items {
		g.Go(func() error {
			err := r.invoker.Invoke(ctx, r.opts.Worker, item.Payload)
			outcome := "ok"
			if err != nil {
				outcome = "failed"
				log.Warnf("[WorkQueue] %s: invoking %s for row %d failed: %v", r.opts.Queue, r.opts.Worker, item.ID, err)
			}
			metrics.WorkQueueDispatches.WithLabelValues(r.opts.Queue, outcome).Inc()

			outcomes[i] = Outcome{ID: item.ID, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}
