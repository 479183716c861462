// Package observ collects per-target step timings for --timings.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one timed step of a target.
type Phase struct {
	Target string
	Name   string
	Dur    time.Duration
	Note   string
}

// Timer accumulates phases from concurrently running targets.
// A nil *Timer discards everything.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

// NewTimer creates an empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 12)} }

// Add records a finished phase.
func (t *Timer) Add(target, name string, d time.Duration, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Target: target, Name: name, Dur: d, Note: note})
}

// Track starts a phase and returns the function that ends it.
func (t *Timer) Track(target, name string) func(note string) {
	start := time.Now()
	return func(note string) {
		t.Add(target, name, time.Since(start), note)
	}
}

// Phases returns the recorded phases grouped by target, targets in the order
// they were first seen.
func (t *Timer) Phases() []Phase {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	order := make([]string, 0, 3)
	byTarget := make(map[string][]Phase)
	for _, p := range t.phases {
		if _, ok := byTarget[p.Target]; !ok {
			order = append(order, p.Target)
		}
		byTarget[p.Target] = append(byTarget[p.Target], p)
	}
	out := make([]Phase, 0, len(t.phases))
	for _, target := range order {
		out = append(out, byTarget[target]...)
	}
	return out
}

// PhaseReport is the serializable form of a Phase.
type PhaseReport struct {
	Target     string  `json:"target"`
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report aggregates all phases.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report returns the phases and their summed duration in milliseconds.
func (t *Timer) Report() Report {
	phases := t.Phases()
	if len(phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(phases))}
	var total time.Duration
	for i, p := range phases {
		total += p.Dur
		report.Phases[i] = PhaseReport{
			Target:     p.Target,
			Name:       p.Name,
			DurationMS: durationToMillis(p.Dur),
			Note:       p.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Summary renders the report as an aligned table.
func (t *Timer) Summary() string {
	report := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&b, "  %-12s %-10s %8.2f ms", p.Target, p.Name, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  %-23s %8.2f ms\n", "total", report.TotalMS)
	return b.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
