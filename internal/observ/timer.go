package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one timed step of a check: ingest, indent-tree, search, capture, render.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer collects phase durations and counters. Safe for concurrent use,
// so directory checks can fold per-file timings into one report.
type Timer struct {
	mu       sync.Mutex
	phases   []Phase
	counters map[string]int
	order    []string
}

func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 8), counters: make(map[string]int)}
}

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Add folds an externally measured duration into the phase called name.
func (t *Timer) Add(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.phases {
		if t.phases[i].Name == name {
			t.phases[i].Dur += d
			return
		}
	}
	t.phases = append(t.phases, Phase{Name: name, Dur: d})
}

// Count increments a named counter (oracle calls, cache hits).
func (t *Timer) Count(name string, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.counters[name]; !ok {
		t.order = append(t.order, name)
	}
	t.counters[name] += n
}

// Summary returns a human-readable table of phases and counters.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "  %-20s %7.2f ms\n", "total", report.TotalMS)
	for _, c := range report.Counters {
		fmt.Fprintf(&sb, "  %-20s %7d\n", c.Name, c.Value)
	}
	return sb.String()
}

// PhaseReport - фаза в сериализуемом виде
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

type CounterReport struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Report - агрегированные данные таймера
type Report struct {
	TotalMS  float64         `json:"total_ms"`
	Phases   []PhaseReport   `json:"phases"`
	Counters []CounterReport `json:"counters,omitempty"`
}

func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	for _, name := range t.order {
		report.Counters = append(report.Counters, CounterReport{Name: name, Value: t.counters[name]})
	}
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
