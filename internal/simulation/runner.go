// Package simulation repeats full deals of the Set deck and collects the
// distribution of cards left over when no set can be found.
package simulation

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/setsim/internal/render"
	"github.com/lox/setsim/internal/statistics"
	"github.com/lox/setsim/internal/table"
	"github.com/lox/setsim/set"
)

// progressEvery is how often (in trials) progress is logged.
const progressEvery = 10000

// Options configures a Runner
type Options struct {
	Rules   table.Rules
	Seed    int64 // 0 picks a seed from the clock
	Workers int   // Trials run concurrently when above 1
}

// Runner plays out decks and aggregates their results.
type Runner struct {
	opts     Options
	renderer render.Renderer
	logger   *log.Logger
	clock    quartz.Clock

	mu        sync.Mutex // Guards stats updates and renderer calls
	start     time.Time
	completed int
}

// NewRunner creates a runner. A nil renderer discards output, a nil logger
// discards logs and zero-value rules mean table.DefaultRules.
func NewRunner(opts Options, renderer render.Renderer, logger *log.Logger, clock quartz.Clock) *Runner {
	if opts.Rules == (table.Rules{}) {
		opts.Rules = table.DefaultRules()
	}
	if renderer == nil {
		renderer = render.Nop{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Runner{
		opts:     opts,
		renderer: renderer,
		logger:   logger,
		clock:    clock,
	}
}

// RunTrial deals a freshly shuffled deck until no set remains. Table events
// go to renderer.
func (r *Runner) RunTrial(trial int, seed int64, renderer render.Renderer) statistics.TrialResult {
	deck := set.NewDeck(rand.New(rand.NewSource(seed)))

	dupes := deck.Duplicates()
	if len(dupes) > 0 {
		r.logger.Warn("Deck has dupes", "trial", trial, "seed", seed, "cards", dupes)
	}

	tbl := table.New(deck.Slots(), r.opts.Rules, renderer, r.logger)
	left := tbl.Play()

	return statistics.TrialResult{
		Trial:      trial,
		Seed:       seed,
		Leftover:   left,
		SetsTaken:  tbl.Taken(),
		MaxWindow:  tbl.MaxWindow(),
		Duplicates: len(dupes),
	}
}

// Run plays iterations trials and renders the final report. Every trial
// gets its own seed drawn from a master RNG, so results do not depend on the
// number of workers. If ctx is cancelled the partial report is returned with
// the context error.
func (r *Runner) Run(ctx context.Context, iterations int) (*render.Report, error) {
	if iterations < 0 {
		return nil, fmt.Errorf("iterations must not be negative, got %d", iterations)
	}

	seed := r.opts.Seed
	if seed == 0 {
		seed = r.clock.Now().UnixNano()
	}
	master := rand.New(rand.NewSource(seed))

	r.logger.Info("Starting simulation", "iterations", iterations, "seed", seed, "workers", r.opts.Workers)

	stats := &statistics.Statistics{}
	r.start = r.clock.Now()
	r.completed = 0

	var err error
	if r.opts.Workers == 1 {
		err = r.runSequential(ctx, iterations, master, stats)
	} else {
		err = r.runParallel(ctx, iterations, master, stats)
	}

	report := &render.Report{
		Stats:     stats,
		Seed:      seed,
		Elapsed:   r.clock.Since(r.start),
		Cancelled: ctx.Err() != nil,
	}
	r.renderer.Report(*report)

	if err != nil {
		return report, err
	}
	if verr := stats.Validate(); verr != nil {
		return report, fmt.Errorf("inconsistent statistics: %w", verr)
	}

	r.logger.Info("Simulation complete",
		"trials", stats.Trials,
		"mean_left", stats.Mean(),
		"elapsed", report.Elapsed)
	return report, nil
}

func (r *Runner) runSequential(ctx context.Context, iterations int, master *rand.Rand, stats *statistics.Statistics) error {
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		result := r.RunTrial(i+1, master.Int63(), r.renderer)
		if err := r.record(stats, result); err != nil {
			return err
		}
	}
	return nil
}

// trialSeed pairs a trial number with the seed it was assigned
type trialSeed struct {
	trial int
	seed  int64
}

// runParallel fans trials out over an errgroup. Seeds are drawn in trial
// order by one producer; each worker keeps its own statistics, which are
// merged into stats once all workers stop. Table events are not rendered
// since trials interleave.
func (r *Runner) runParallel(ctx context.Context, iterations int, master *rand.Rand, stats *statistics.Statistics) error {
	g, gctx := errgroup.WithContext(ctx)
	seeds := make(chan trialSeed)

	g.Go(func() error {
		defer close(seeds)
		for i := 0; i < iterations; i++ {
			select {
			case seeds <- trialSeed{trial: i + 1, seed: master.Int63()}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	partials := make([]*statistics.Statistics, r.opts.Workers)
	for w := range partials {
		partial := &statistics.Statistics{}
		partials[w] = partial
		g.Go(func() error {
			for ts := range seeds {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := r.record(partial, r.RunTrial(ts.trial, ts.seed, render.Nop{})); err != nil {
					return err
				}
			}
			return nil
		})
	}

	err := g.Wait()
	for _, partial := range partials {
		stats.Merge(partial)
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}

func (r *Runner) record(stats *statistics.Statistics, result statistics.TrialResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := stats.Add(result); err != nil {
		return err
	}
	r.completed++
	r.renderer.Event(render.Event{
		Kind:     render.EventTrialDone,
		Trial:    result.Trial,
		Leftover: result.Leftover,
	})
	r.logger.Debug("Trial complete",
		"trial", result.Trial,
		"seed", result.Seed,
		"left", result.Leftover,
		"sets", result.SetsTaken)

	if r.completed%progressEvery == 0 {
		elapsed := r.clock.Since(r.start)
		r.logger.Info("Progress",
			"trials", r.completed,
			"trials_per_sec", fmt.Sprintf("%.0f", float64(r.completed)/max(elapsed.Seconds(), 1e-9)))
	}
	return nil
}
