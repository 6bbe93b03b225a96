package ioengine

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// syncEngine issues each submitted read synchronously on its own
// goroutine and appends the result to a completion slice guarded by a
// mutex and condition variable, which Reap waits on. It is
// the file-cache fallback named in spec.md §4.5 and the only engine used
// on non-Linux platforms, where ring/aio are unavailable.
type syncEngine struct {
	pool *SlotPool

	mu        sync.Mutex
	completed []Completion
	cond      *sync.Cond
	wg        sync.WaitGroup
}

func newSyncEngine() *syncEngine {
	return &syncEngine{}
}

func (e *syncEngine) Name() string { return string(BackendSync) }

func (e *syncEngine) Start(queueDepth, bufSize int) error {
	e.pool = NewSlotPool(queueDepth, bufSize, 1)
	e.cond = sync.NewCond(&e.mu)
	return nil
}

func (e *syncEngine) Submit(fd int, offset int64, length int, tag int) error {
	if tag < 0 || tag >= e.pool.Len() {
		return fmt.Errorf("ioengine: submit with invalid tag %d", tag)
	}
	slot := e.pool.Get(tag)
	buf := slot.Buf
	if length < len(buf) {
		buf = buf[:length]
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		n, err := unix.Pread(fd, buf, offset)
		e.mu.Lock()
		e.completed = append(e.completed, Completion{Tag: tag, Bytes: n, Status: err})
		e.mu.Unlock()
		e.cond.Signal()
	}()
	return nil
}

func (e *syncEngine) Reap(minCompletions int) ([]Completion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.completed) < minCompletions {
		e.cond.Wait()
	}
	out := e.completed
	e.completed = nil
	return out, nil
}

func (e *syncEngine) Stop() error {
	e.wg.Wait()
	return nil
}
