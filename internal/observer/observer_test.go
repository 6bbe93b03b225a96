package observer

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pastelsky/ebs-warmer/internal/logging"
)

func TestProgressRateLimited(t *testing.T) {
	var buf bytes.Buffer
	o := New(&buf, false, false)
	o.StartPhase("walk")

	o.Progress(1, 100)
	first := buf.Len()
	if first == 0 {
		t.Fatal("expected first Progress call to print")
	}

	o.Progress(2, 100)
	if buf.Len() != first {
		t.Fatalf("second call within the rate-limit window printed output: %q", buf.String()[first:])
	}
}

func TestProgressAlwaysPrintsFinalUpdate(t *testing.T) {
	var buf bytes.Buffer
	o := New(&buf, false, false)
	o.StartPhase("walk")

	o.Progress(1, 100)
	before := buf.Len()
	o.Progress(100, 100)
	if buf.Len() == before {
		t.Fatal("final done==total update must print even inside the rate-limit window")
	}
}

func TestProgressSilentSuppressesOutput(t *testing.T) {
	var buf bytes.Buffer
	o := New(&buf, true, false)
	o.StartPhase("walk")
	o.Progress(1, 1)
	if buf.Len() != 0 {
		t.Fatalf("silent observer printed: %q", buf.String())
	}
}

func TestStartPhaseResetsRateLimiter(t *testing.T) {
	var buf bytes.Buffer
	o := New(&buf, false, false)
	o.StartPhase("phase1")
	o.Progress(1, 10)
	before := buf.Len()

	o.StartPhase("phase2")
	o.Progress(1, 10)
	if buf.Len() == before {
		t.Fatal("starting a new phase should allow an immediate update")
	}
	if !strings.Contains(buf.String()[before:], "phase2") {
		t.Errorf("expected output to mention phase2, got %q", buf.String()[before:])
	}
}

func TestDebugEventGatedByFlag(t *testing.T) {
	var logBuf bytes.Buffer
	logging.Logger().SetOutput(&logBuf)
	logging.Logger().SetLevel(logrus.DebugLevel)
	defer func() {
		logging.Logger().SetOutput(os.Stderr)
		logging.Logger().SetLevel(logrus.InfoLevel)
	}()

	var buf bytes.Buffer
	o := New(&buf, false, false)
	o.DebugEvent("engine=%s", "ring")
	if logBuf.Len() != 0 {
		t.Fatalf("expected no log output with debug disabled, got %q", logBuf.String())
	}

	o2 := New(&buf, false, true)
	o2.DebugEvent("engine=%s", "ring")
	if !strings.Contains(logBuf.String(), "ring") {
		t.Errorf("expected debug log to mention ring, got %q", logBuf.String())
	}
	if !strings.Contains(logBuf.String(), "elapsed_s") {
		t.Errorf("expected a structured elapsed_s field, got %q", logBuf.String())
	}
}

func TestDebugEventSuppressedWhenSilent(t *testing.T) {
	var logBuf bytes.Buffer
	logging.Logger().SetOutput(&logBuf)
	logging.Logger().SetLevel(logrus.DebugLevel)
	defer func() {
		logging.Logger().SetOutput(os.Stderr)
		logging.Logger().SetLevel(logrus.InfoLevel)
	}()

	var buf bytes.Buffer
	o := New(&buf, true, true)
	o.DebugEvent("should not print")
	if logBuf.Len() != 0 {
		t.Fatalf("silent mode should suppress debug events too, got %q", logBuf.String())
	}
}

func TestProgressEmptyTotalReportsComplete(t *testing.T) {
	var buf bytes.Buffer
	o := New(&buf, false, false)
	o.StartPhase("walk")

	o.Progress(0, 0)
	if !strings.Contains(buf.String(), "100.0%") {
		t.Errorf("expected an empty phase to report 100%%, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "0/0") {
		t.Errorf("expected 0/0 counters, got %q", buf.String())
	}
}

func TestProgressReportsElapsedTime(t *testing.T) {
	var buf bytes.Buffer
	o := New(&buf, false, false)
	o.StartPhase("walk")
	time.Sleep(2 * time.Millisecond)
	o.Progress(1, 1)
	if buf.Len() == 0 {
		t.Fatal("expected output")
	}
	if !strings.Contains(buf.String(), "s elapsed") {
		t.Errorf("expected an elapsed-time field, got %q", buf.String())
	}
}
