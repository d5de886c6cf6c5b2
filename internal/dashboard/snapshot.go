package dashboard

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sdshc/costshare/internal/conservation"
)

// Snapshot is every view of one segment selection over one loaded batch.
// It is never modified after Select returns it.
type Snapshot struct {
	RunID       string                            `json:"run_id" yaml:"run_id"`
	Segment     conservation.Segment              `json:"segment" yaml:"segment"`
	LoadedAt    time.Time                         `json:"loaded_at" yaml:"loaded_at"`
	GeneratedAt time.Time                         `json:"generated_at" yaml:"generated_at"`
	ElapsedMS   float64                           `json:"elapsed_ms" yaml:"elapsed_ms"`
	Records     []conservation.ConservationRecord `json:"records" yaml:"records"`
	Allocations []conservation.FundingAllocation  `json:"allocations" yaml:"allocations"`
	Views       conservation.Views                `json:"views" yaml:"views"`
}

// Select filters the loaded batch to seg and computes every view. An
// unknown segment yields an empty snapshot. While a reload is in flight the
// previous batch keeps serving; a failed load returns its error.
func (e *Engine) Select(seg conservation.Segment) (*Snapshot, error) {
	e.mu.RLock()
	state, loadErr := e.state, e.err
	records, allocations, loadedAt := e.records, e.allocations, e.loadedAt
	impactLimit := e.impactLimit
	e.mu.RUnlock()

	switch {
	case state == StateFailed:
		return nil, loadErr
	case records == nil:
		return nil, ErrNotReady
	}

	if seg == "" {
		seg = conservation.SegmentAll
	}

	start := time.Now()
	filtered := conservation.FilterBySegment(records, seg)
	filteredAllocs := conservation.FilterAllocationsBySegment(allocations, seg)

	var views conservation.Views
	var g errgroup.Group
	g.Go(func() error { views.Overview = conservation.Summarize(filtered); return nil })
	g.Go(func() error { views.Practices = conservation.RollupByPractice(filtered); return nil })
	g.Go(func() error { views.Years = conservation.RollupByYear(filtered); return nil })
	g.Go(func() error { views.Impact = conservation.RankImpact(filtered, impactLimit); return nil })
	g.Go(func() error { views.Clusters = conservation.ClusterLocations(filtered); return nil })
	g.Go(func() error { views.Budget = conservation.SummarizeBudget(filteredAllocs); return nil })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Snapshot{
		RunID:       uuid.New().String(),
		Segment:     seg,
		LoadedAt:    loadedAt,
		GeneratedAt: time.Now(),
		ElapsedMS:   float64(time.Since(start).Microseconds()) / 1000,
		Records:     filtered,
		Allocations: filteredAllocs,
		Views:       views,
	}, nil
}
