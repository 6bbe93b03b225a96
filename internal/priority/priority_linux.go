//go:build linux

package priority

import (
	"fmt"

	"golang.org/x/sys/unix"
)

const ioprioWhoProcess = 1

// Apply sets process niceness to 10+L and sets an I/O priority class per
// spec.md §9, returning a Restore that puts both back exactly as found.
// L==0 is a no-op. Saves the original state before changing anything so
// a failure partway through still lets the caller restore what was
// already applied.
//
// 10+L is a set-to, not an increase-by-origNice: spec.md §8 scenario 6
// (start niceness 5, throttle level 3) states the during-run value is
// 13, which is 10+L on its own, not origNice+10+L (which would be 18).
func Apply(level int) (Restore, error) {
	if !Level(level) {
		return nil, fmt.Errorf("priority: throttle level %d out of range 0..7", level)
	}
	if level == 0 {
		return noopRestore, nil
	}

	origNice, err := getNiceness()
	if err != nil {
		return nil, fmt.Errorf("priority: read niceness: %w", err)
	}
	origIoprio, haveIoprio := getIoprio()

	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, 10+level); err != nil {
		return nil, fmt.Errorf("priority: set niceness: %w", err)
	}

	class, ioLevel := ioprioClassLevel(level)
	if err := setIoprio(class, ioLevel); err != nil {
		// Restore niceness before surfacing the error — this path must
		// not leave the changed niceness applied with no way to undo it.
		unix.Setpriority(unix.PRIO_PROCESS, 0, origNice)
		return nil, fmt.Errorf("priority: set ioprio: %w", err)
	}

	restored := false
	return func() error {
		if restored {
			return nil
		}
		restored = true
		var firstErr error
		if err := unix.Setpriority(unix.PRIO_PROCESS, 0, origNice); err != nil {
			firstErr = fmt.Errorf("priority: restore niceness: %w", err)
		}
		if haveIoprio {
			if err := setIoprioRaw(origIoprio); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("priority: restore ioprio: %w", err)
			}
		}
		return firstErr
	}, nil
}

// getNiceness returns the caller's current niceness. The raw
// SYS_GETPRIORITY syscall returns 20-niceness (so it can return a
// non-negative value on success); undo that offset here.
func getNiceness() (int, error) {
	raw, err := unix.Getpriority(unix.PRIO_PROCESS, 0)
	if err != nil {
		return 0, err
	}
	return 20 - raw, nil
}

func getIoprio() (int, bool) {
	raw, _, errno := unix.Syscall(unix.SYS_IOPRIO_GET, uintptr(ioprioWhoProcess), 0, 0)
	if errno != 0 {
		return 0, false
	}
	return int(raw), true
}

func setIoprio(class, level int) error {
	return setIoprioRaw(class<<13 | level)
}

func setIoprioRaw(ioprio int) error {
	_, _, errno := unix.Syscall(unix.SYS_IOPRIO_SET, uintptr(ioprioWhoProcess), 0, uintptr(ioprio))
	if errno != 0 {
		return errno
	}
	return nil
}
