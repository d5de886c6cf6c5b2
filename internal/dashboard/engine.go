// Package dashboard holds the loaded program tables and serves segment
// snapshots of every derived view to the CLI and the web server.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sdshc/costshare/internal/conservation"
	"github.com/sdshc/costshare/internal/source"
)

// State is the lifecycle of the engine's loaded batch.
type State string

// Engine states.
const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

var (
	// ErrNotReady is returned by Select before the first load completes.
	ErrNotReady = eris.New("dashboard: data not loaded yet")
	// ErrSuperseded is returned by a load that finished after a newer load
	// had started. Its result is discarded.
	ErrSuperseded = eris.New("dashboard: load superseded by a newer load")
)

// Options tunes the engine.
type Options struct {
	// ImpactLimit caps the impact ranking. Zero means the default of 8.
	ImpactLimit int
}

// Status describes the engine without computing any views.
type Status struct {
	State       State     `json:"state" yaml:"state"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
	Generation  uint64    `json:"generation" yaml:"generation"`
	LoadedAt    time.Time `json:"loaded_at,omitzero" yaml:"loaded_at,omitempty"`
	Records     int       `json:"records" yaml:"records"`
	Allocations int       `json:"allocations" yaml:"allocations"`
	Dropped     int       `json:"dropped" yaml:"dropped"`
}

// Engine owns the canonical batch. Loads replace it wholesale; Select reads
// it under a read lock and never mutates it.
type Engine struct {
	contracts   source.Source
	funding     source.Source
	impactLimit int

	mu          sync.RWMutex
	gen         uint64
	state       State
	err         error
	records     []conservation.ConservationRecord
	allocations []conservation.FundingAllocation
	dropped     int
	loadedAt    time.Time
}

// New creates an Engine over the contract table and the optional funding
// table. Nothing is loaded until Load is called.
func New(contracts, funding source.Source, opts Options) *Engine {
	if opts.ImpactLimit <= 0 {
		opts.ImpactLimit = conservation.DefaultImpactLimit
	}
	return &Engine{
		contracts:   contracts,
		funding:     funding,
		impactLimit: opts.ImpactLimit,
		state:       StateLoading,
	}
}

type loaded struct {
	records     []conservation.ConservationRecord
	allocations []conservation.FundingAllocation
	dropped     int
}

// Load fetches both tables concurrently, normalizes them and publishes the
// result. A load overtaken by a later call returns ErrSuperseded and leaves
// the later load's result in place.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.state = StateLoading
	e.err = nil
	e.mu.Unlock()

	log := zap.L().With(zap.Uint64("generation", gen))
	start := time.Now()

	res, err := e.fetch(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.gen {
		log.Info("dashboard: discarding superseded load", zap.Uint64("current", e.gen))
		return ErrSuperseded
	}
	if err != nil {
		e.state = StateFailed
		e.err = err
		log.Error("dashboard: load failed", zap.Error(err))
		return err
	}

	e.state = StateReady
	e.records = res.records
	e.allocations = res.allocations
	e.dropped = res.dropped
	e.loadedAt = time.Now()

	log.Info("dashboard: loaded",
		zap.Int("records", len(res.records)),
		zap.Int("allocations", len(res.allocations)),
		zap.Int("dropped", res.dropped),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func (e *Engine) fetch(ctx context.Context) (loaded, error) {
	var res loaded
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return guard("contracts", func() error {
			rows, err := e.contracts.Load(gctx)
			if err != nil {
				return eris.Wrapf(err, "dashboard: load contracts from %s", e.contracts.Describe())
			}
			res.records = conservation.Normalize(rows)
			res.dropped = len(rows) - len(res.records)
			return nil
		})
	})

	g.Go(func() error {
		if e.funding == nil {
			res.allocations = []conservation.FundingAllocation{}
			return nil
		}
		return guard("funding", func() error {
			rows, err := e.funding.Load(gctx)
			if err != nil {
				return eris.Wrapf(err, "dashboard: load funding from %s", e.funding.Describe())
			}
			res.allocations = conservation.NormalizeAllocations(rows)
			return nil
		})
	})

	if err := g.Wait(); err != nil {
		return loaded{}, err
	}
	return res, nil
}

// guard turns a panic while reading or normalizing a table into a
// malformed-table error.
func guard(table string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Wrapf(source.ErrMalformed, "dashboard: %s table: panic: %v", table, r)
		}
	}()
	return fn()
}

// Status reports the engine state.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st := Status{
		State:       e.state,
		Generation:  e.gen,
		LoadedAt:    e.loadedAt,
		Records:     len(e.records),
		Allocations: len(e.allocations),
		Dropped:     e.dropped,
	}
	if e.err != nil {
		st.Error = e.err.Error()
	}
	return st
}
