// Package observer reports run progress to the terminal: one update per
// wall-clock second plus a guaranteed final update per phase, styled with
// lipgloss the way the teacher's TUI screens style their own status text
// (see internal/tui/screens/installprogress.go) — without pulling in
// bubbletea, since warmer's progress is a one-way stream of lines, not an
// interactive program.
package observer

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/pastelsky/ebs-warmer/internal/logging"
)

var (
	phaseStyle   = lipgloss.NewStyle().Bold(true)
	percentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// Observer tracks progress within one phase at a time and rate-limits
// its own output. Safe for concurrent calls to Progress from multiple
// walker/engine goroutines.
type Observer struct {
	w       io.Writer
	silent  bool
	debug   bool
	minGap  time.Duration

	mu        sync.Mutex
	phase     string
	start     time.Time
	lastPrint time.Time
	lastDone  int64
	lastTotal int64
}

// New creates an Observer writing to w. silent suppresses all progress
// output and debug events; debug gates DebugEvent calls, which therefore
// emit only when debug is on and silent is off.
func New(w io.Writer, silent, debug bool) *Observer {
	return &Observer{w: w, silent: silent, debug: debug, minGap: time.Second}
}

// StartPhase begins a new named phase, resetting the rate limiter so the
// first update of a phase is never swallowed by the previous phase's
// last-print timestamp.
func (o *Observer) StartPhase(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.phase = name
	o.start = time.Now()
	o.lastPrint = time.Time{}
}

// Progress reports done/total items in the current phase. Per spec.md
// §4.8: at most one update per second, plus the final done==total update
// is always emitted regardless of the rate limit.
func (o *Observer) Progress(done, total int64) {
	if o.silent {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	now := time.Now()
	// An empty phase (total == 0) has nothing left to do, so spec.md §8
	// reports it as complete rather than 0%: "empty input directory =>
	// phase reports 100% with 0/0".
	final := total == 0 || done >= total
	if !final && now.Sub(o.lastPrint) < o.minGap {
		o.lastDone, o.lastTotal = done, total
		return
	}
	o.lastPrint = now
	o.lastDone, o.lastTotal = done, total

	elapsed := now.Sub(o.start).Seconds()
	pct := 100.0
	if total > 0 {
		pct = float64(done) / float64(total) * 100
	}
	fmt.Fprintf(o.w, "%s %s %d/%d  %s\n",
		phaseStyle.Render(o.phase),
		percentStyle.Render(fmt.Sprintf("%5.1f%%", pct)),
		done, total,
		dimStyle.Render(fmt.Sprintf("%.1fs elapsed", elapsed)))
}

// DebugEvent emits a structured debug event through internal/logging —
// SPEC_FULL.md's logrus fields (phase, done, total, elapsed_s) plus the
// formatted message — when debug mode is on; otherwise it is a no-op,
// cheap enough to call unconditionally from hot paths. Plain progress
// lines keep going straight to o.w via Progress; DebugEvent is the
// machine-directed stream, not user-facing terminal output.
func (o *Observer) DebugEvent(format string, args ...any) {
	if !o.debug || o.silent {
		return
	}
	o.mu.Lock()
	phase, done, total, start := o.phase, o.lastDone, o.lastTotal, o.start
	o.mu.Unlock()

	logging.Logger().WithFields(logrus.Fields{
		"phase":     phase,
		"done":      done,
		"total":     total,
		"elapsed_s": time.Since(start).Seconds(),
	}).Debug(fmt.Sprintf(format, args...))
}
