// Package profile accumulates wall-clock time per named pipeline phase.
//
// A Profiler is safe for concurrent use; phases timed from parallel
// detections are merged into the same totals. A nil *Profiler is valid and
// records nothing, so callers never need to branch on whether profiling is
// enabled.
package profile

import (
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"text/tabwriter"
	"time"
)

// Phase is a snapshot of one phase's timings.
type Phase struct {
	Name   string
	Calls  int
	Total  time.Duration
	Mean   time.Duration
	Min    time.Duration
	Max    time.Duration
	StdDev time.Duration
}

// accumulator keeps Welford running moments in nanoseconds.
type accumulator struct {
	calls    int
	total    time.Duration
	min, max time.Duration
	mean, m2 float64
}

func (a *accumulator) add(d time.Duration) {
	a.calls++
	a.total += d
	if a.calls == 1 || d < a.min {
		a.min = d
	}
	if d > a.max {
		a.max = d
	}
	x := float64(d)
	delta := x - a.mean
	a.mean += delta / float64(a.calls)
	a.m2 += delta * (x - a.mean)
}

// Profiler collects phase timings.
type Profiler struct {
	mu     sync.Mutex
	phases map[string]*accumulator
	order  []string
	now    func() time.Time
}

// New returns an empty profiler.
func New() *Profiler {
	return &Profiler{phases: make(map[string]*accumulator), now: time.Now}
}

// Start begins timing phase and returns the function that stops it.
//
//	defer prof.Start("preprocess")()
func (p *Profiler) Start(phase string) func() {
	if p == nil {
		return func() {}
	}
	begin := p.now()
	return func() { p.Add(phase, p.now().Sub(begin)) }
}

// Add records one call of phase lasting d.
func (p *Profiler) Add(phase string, d time.Duration) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.phases[phase]
	if !ok {
		acc = &accumulator{}
		p.phases[phase] = acc
		p.order = append(p.order, phase)
	}
	acc.add(d)
}

// Snapshot returns the phases in first-seen order.
func (p *Profiler) Snapshot() []Phase {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Phase, 0, len(p.order))
	for _, name := range p.order {
		acc := p.phases[name]
		ph := Phase{
			Name:  name,
			Calls: acc.calls,
			Total: acc.total,
			Mean:  time.Duration(math.Round(acc.mean)),
			Min:   acc.min,
			Max:   acc.max,
		}
		if acc.calls > 1 {
			ph.StdDev = time.Duration(math.Round(math.Sqrt(acc.m2 / float64(acc.calls-1))))
		}
		out = append(out, ph)
	}
	return out
}

// Reset discards all recorded timings.
func (p *Profiler) Reset() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.phases = make(map[string]*accumulator)
	p.order = nil
}

// WriteSummary prints a table of all phases sorted by total time, longest first.
func (p *Profiler) WriteSummary(w io.Writer) error {
	phases := p.Snapshot()
	sort.SliceStable(phases, func(i, j int) bool { return phases[i].Total > phases[j].Total })

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PHASE\tCALLS\tTOTAL\tMEAN\tMIN\tMAX")
	for _, ph := range phases {
		fmt.Fprintf(tw, "%s\t%d\t%v\t%v\t%v\t%v\n", ph.Name, ph.Calls, ph.Total, ph.Mean, ph.Min, ph.Max)
	}
	return tw.Flush()
}
