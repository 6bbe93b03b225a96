// Package ioengine implements the pluggable async-I/O SubmissionEngine of
// spec.md §4.5: a fixed-depth queue of in-flight reads against one or
// more file descriptors, backed by io_uring, Linux AIO, or a synchronous
// pread fallback. The interface-with-two-backends-plus-fallback shape is
// grounded on the teacher's firecracker.Machine/VMCommandBuilder pattern
// in internal/vm/machine_linux.go (one capability, swappable backing
// implementation selected at startup) and the raw-syscall idiom in
// internal/vm/uffd_linux.go.
package ioengine

import "fmt"

// Completion reports the outcome of one previously submitted read.
type Completion struct {
	Tag    int
	Bytes  int
	Status error // nil on success; a short read is still success
}

// Engine is the narrow interface spec.md §4.5 names: start, submit,
// reap, stop, plus a name for reporting which backend is active.
type Engine interface {
	// Start allocates the backend's ring/context and a pool of queueDepth
	// aligned buffers of bufSize bytes each.
	Start(queueDepth, bufSize int) error
	// Submit enqueues one read; it must not block waiting for completion.
	Submit(fd int, offset int64, length int, tag int) error
	// Reap blocks until at least minCompletions reads have finished and
	// returns them. Backends do not count outstanding reads, so Reap does
	// not return early when fewer than minCompletions are in flight.
	Reap(minCompletions int) ([]Completion, error)
	// Stop releases the backend's resources. The sync backend first waits
	// for its outstanding reads; the ring and aio backends do not drain.
	Stop() error
	// Name identifies the backend for startup reporting (spec.md §4.5:
	// "Selection is recorded and reported at startup").
	Name() string
}

// Backend names an engine implementation, matching config.Backend's
// non-auto values plus the always-available sync fallback.
type Backend string

const (
	BackendRing Backend = "ring"
	BackendAIO  Backend = "aio"
	BackendSync Backend = "sync"
)

// candidate constructs an Engine for one backend name. Construction never
// touches the kernel — that only happens in Start, which is where a
// backend actually proves whether it is usable (spec.md §4.5: "on init
// failure the engine falls back...").
func candidate(name string) (Engine, error) {
	switch name {
	case "ring":
		return newRingEngine()
	case "aio":
		return newAIOEngine()
	case "sync":
		return newSyncEngine(), nil
	default:
		return nil, fmt.Errorf("ioengine: unknown backend %q", name)
	}
}

// StartEngine implements spec.md §4.5's backend priority and fallback:
// ring > aio > synchronous pread, trying Start on each candidate in turn
// and keeping the first that succeeds. preferred, when not "auto" or
// empty, pins the chain to start at that backend, falling through the
// remaining lower-priority ones on failure exactly as auto would — a
// backend that fails to initialize is unusable regardless of how it was
// requested. The returned Engine's Name() reports which one won, per
// spec.md's "selection is recorded and reported at startup".
func StartEngine(preferred string, queueDepth, bufSize int) (Engine, error) {
	chain := []string{"ring", "aio", "sync"}
	if preferred != "" && preferred != "auto" {
		chain = startingAt(chain, preferred)
	}

	var lastErr error
	for _, name := range chain {
		e, err := candidate(name)
		if err != nil {
			lastErr = err
			continue
		}
		if err := e.Start(queueDepth, bufSize); err != nil {
			lastErr = err
			continue
		}
		return e, nil
	}
	return nil, fmt.Errorf("ioengine: no backend could start, last error: %w", lastErr)
}

// startingAt reorders chain so name comes first, preserving the relative
// order of the rest — "aio" still falls back to "sync" if requested
// directly, for instance.
func startingAt(chain []string, name string) []string {
	out := make([]string, 0, len(chain))
	out = append(out, name)
	for _, n := range chain {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
