//go:build linux

package ioengine

import (
	"encoding/binary"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// aioEngine is the Linux-AIO-backed SubmissionEngine (spec.md §4.5,
// "aio backend"): control blocks (struct iocb) prepared per submission
// and passed to io_submit as an array of pointers, completions obtained
// via the blocking io_getevents call with no timeout. Grounded on the
// same raw-syscall-plus-hand-encoded-struct idiom as ring_linux.go and
// internal/fiemap.
type aioEngine struct {
	ctx  uint64 // aio_context_t
	pool *SlotPool

	mu      sync.Mutex
	iocbs   [][]byte // one 64-byte control block per queue slot, reused
	submits []uint64 // scratch: pointers to iocbs awaiting submission
}

const (
	iocbSize       = 64
	ioEventSize    = 32
	iocbCmdPread   = 0
	aioRingIOCBCap = 1 << 16 // nominal upper bound; Start does not check queueDepth against it
)

func newAIOEngine() (*aioEngine, error) {
	return &aioEngine{}, nil
}

func (e *aioEngine) Name() string { return string(BackendAIO) }

func (e *aioEngine) Start(queueDepth, bufSize int) error {
	var ctx uint64
	_, _, errno := unix.Syscall(unix.SYS_IO_SETUP, uintptr(queueDepth), uintptr(unsafe.Pointer(&ctx)), 0)
	if errno != 0 {
		return fmt.Errorf("ioengine: io_setup: %w", errno)
	}
	e.ctx = ctx
	e.pool = NewSlotPool(queueDepth, bufSize, 4096)
	e.iocbs = make([][]byte, queueDepth)
	for i := range e.iocbs {
		e.iocbs[i] = make([]byte, iocbSize)
	}
	return nil
}

func (e *aioEngine) Submit(fd int, offset int64, length int, tag int) error {
	if tag < 0 || tag >= len(e.iocbs) {
		return fmt.Errorf("ioengine: submit with invalid tag %d", tag)
	}
	slot := e.pool.Get(tag)
	buf := slot.Buf
	if length < len(buf) {
		buf = buf[:length]
	}

	cb := e.iocbs[tag]
	for i := range cb {
		cb[i] = 0
	}
	binary.LittleEndian.PutUint64(cb[0:8], uint64(tag)) // aio_data: echoed back in io_event.data
	binary.LittleEndian.PutUint16(cb[16:18], iocbCmdPread)
	binary.LittleEndian.PutUint32(cb[20:24], uint32(fd))
	binary.LittleEndian.PutUint64(cb[24:32], uint64(uintptr(unsafe.Pointer(&buf[0]))))
	binary.LittleEndian.PutUint64(cb[32:40], uint64(len(buf)))
	binary.LittleEndian.PutUint64(cb[40:48], uint64(offset))

	cbPtr := uint64(uintptr(unsafe.Pointer(&cb[0])))

	e.mu.Lock()
	e.submits = append(e.submits, cbPtr)
	e.mu.Unlock()
	return nil
}

func (e *aioEngine) flush() error {
	e.mu.Lock()
	pending := e.submits
	e.submits = nil
	e.mu.Unlock()
	if len(pending) == 0 {
		return nil
	}

	_, _, errno := unix.Syscall(unix.SYS_IO_SUBMIT, uintptr(e.ctx), uintptr(len(pending)), uintptr(unsafe.Pointer(&pending[0])))
	if errno != 0 {
		return fmt.Errorf("ioengine: io_submit: %w", errno)
	}
	return nil
}

func (e *aioEngine) Reap(minCompletions int) ([]Completion, error) {
	if err := e.flush(); err != nil {
		return nil, err
	}
	if minCompletions <= 0 {
		minCompletions = 1
	}

	events := make([]byte, minCompletions*ioEventSize)
	n, _, errno := unix.Syscall6(unix.SYS_IO_GETEVENTS, uintptr(e.ctx), uintptr(minCompletions), uintptr(minCompletions), uintptr(unsafe.Pointer(&events[0])), 0, 0)
	if errno != 0 {
		return nil, fmt.Errorf("ioengine: io_getevents: %w", errno)
	}

	out := make([]Completion, 0, n)
	for i := 0; i < int(n); i++ {
		ev := events[i*ioEventSize : (i+1)*ioEventSize]
		tag := int(binary.LittleEndian.Uint64(ev[0:8]))
		res := int64(binary.LittleEndian.Uint64(ev[16:24]))

		var c Completion
		c.Tag = tag
		if res < 0 {
			c.Status = fmt.Errorf("ioengine: aio completion error %d", res)
		} else {
			c.Bytes = int(res)
		}
		out = append(out, c)
	}
	return out, nil
}

func (e *aioEngine) Stop() error {
	_, _, errno := unix.Syscall(unix.SYS_IO_DESTROY, uintptr(e.ctx), 0, 0)
	if errno != 0 {
		return fmt.Errorf("ioengine: io_destroy: %w", errno)
	}
	return nil
}
