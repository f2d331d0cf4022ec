package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/explore.planner/internal/monitoring"
	"github.com/banshee-data/explore.planner/internal/planning/generator"
	"github.com/banshee-data/explore.planner/internal/planning/segment"
	"github.com/banshee-data/explore.planner/internal/planning/updater"
	"github.com/banshee-data/explore.planner/internal/timeutil"
)

// SnapshotSink persists the tree at the end of a cycle and returns an
// identifier for the stored snapshot.
type SnapshotSink interface {
	SaveSnapshot(cycle int, root *segment.Segment) (string, error)
}

// CycleStats summarises one planning cycle. Segment counts exclude the root.
type CycleStats struct {
	Cycle          int           `json:"cycle"`
	SegmentsBefore int           `json:"segments_before"`
	Pruned         int           `json:"pruned"` // removed by the updater
	Added          int           `json:"added"`
	DeadEnds       int           `json:"dead_ends"`
	Expansions     int           `json:"expansions"`
	SegmentsAfter  int           `json:"segments_after"`
	SnapshotID     string        `json:"snapshot_id,omitempty"`
	Duration       time.Duration `json:"duration"`
}

// Pipeline owns an expansion tree and the modules that maintain it.
type Pipeline struct {
	mu sync.Mutex

	generator          generator.Expander
	updater            updater.Updater
	root               *segment.Segment
	expansionsPerCycle int

	sink    SnapshotSink
	onCycle func(root *segment.Segment, stats CycleStats)
	clock   timeutil.Clock

	cycle int
}

// New creates a pipeline whose tree is rooted at start.
func New(gen generator.Expander, upd updater.Updater, start segment.Waypoint, expansionsPerCycle int) (*Pipeline, error) {
	if gen == nil {
		return nil, errors.New("pipeline requires a generator")
	}
	if upd == nil {
		return nil, errors.New("pipeline requires an updater")
	}
	if expansionsPerCycle < 1 {
		return nil, fmt.Errorf("expansions_per_cycle expected > 0, got %d", expansionsPerCycle)
	}
	return &Pipeline{
		generator:          gen,
		updater:            upd,
		root:               segment.NewRoot(start),
		expansionsPerCycle: expansionsPerCycle,
		clock:              timeutil.RealClock{},
	}, nil
}

// SetClock replaces the clock used to time cycles.
func (p *Pipeline) SetClock(c timeutil.Clock) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = c
}

// SetSnapshotSink registers a sink that receives the tree after every cycle.
// Pass nil to stop persisting.
func (p *Pipeline) SetSnapshotSink(sink SnapshotSink) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sink = sink
}

// OnCycleComplete registers a callback invoked at the end of every cycle.
// The tree must not be retained or mutated after the callback returns.
func (p *Pipeline) OnCycleComplete(fn func(root *segment.Segment, stats CycleStats)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onCycle = fn
}

// Root returns the tree root. Callers must not mutate it while a cycle runs.
func (p *Pipeline) Root() *segment.Segment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.root
}

// Cycle returns the number of cycles run so far.
func (p *Pipeline) Cycle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cycle
}

// RunCycle runs the updater, then expands leaves breadth-first until the
// expansion budget is spent or no expandable leaf remains. Newly added
// segments join the back of the queue, so one cycle may grow several levels.
func (p *Pipeline) RunCycle() (CycleStats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cycle++
	started := p.clock.Now()
	stats := CycleStats{
		Cycle:          p.cycle,
		SegmentsBefore: p.root.Count() - 1,
	}

	if !p.updater.UpdateSegments(p.root) {
		return stats, fmt.Errorf("cycle %d: updater %T could not update the tree", p.cycle, p.updater)
	}
	stats.Pruned = stats.SegmentsBefore - (p.root.Count() - 1)

	queue := frontier(p.root)
	var added []*segment.Segment
	for len(queue) > 0 && stats.Expansions < p.expansionsPerCycle {
		target := queue[0]
		queue = queue[1:]

		stats.Expansions++
		n := len(added)
		var ok bool
		added, ok = p.generator.ExpandSegment(target, added)
		if !ok {
			stats.DeadEnds++
		}
		queue = append(queue, added[n:]...)
	}
	stats.Added = len(added)
	stats.SegmentsAfter = p.root.Count() - 1
	stats.Duration = p.clock.Since(started)

	if p.sink != nil {
		id, err := p.sink.SaveSnapshot(p.cycle, p.root)
		if err != nil {
			return stats, fmt.Errorf("save snapshot for cycle %d: %w", p.cycle, err)
		}
		stats.SnapshotID = id
	}

	monitoring.Logf("[Pipeline] cycle=%d before=%d pruned=%d added=%d dead_ends=%d expansions=%d segments=%d took=%v",
		stats.Cycle, stats.SegmentsBefore, stats.Pruned, stats.Added, stats.DeadEnds,
		stats.Expansions, stats.SegmentsAfter, stats.Duration)

	if p.onCycle != nil {
		p.onCycle(p.root, stats)
	}
	return stats, nil
}

// frontier lists expandable segments in breadth-first order: unvisited
// leaves, plus the root whenever it has no children. A visited leaf is a dead
// end and waits for the updater to discard it.
func frontier(root *segment.Segment) []*segment.Segment {
	if len(root.Children) == 0 {
		return []*segment.Segment{root}
	}
	var out []*segment.Segment
	level := []*segment.Segment{root}
	for len(level) > 0 {
		var next []*segment.Segment
		for _, s := range level {
			if len(s.Children) == 0 {
				if !s.Visited {
					out = append(out, s)
				}
				continue
			}
			next = append(next, s.Children...)
		}
		level = next
	}
	return out
}
