//go:build !linux

package priority

import "fmt"

// Apply is a no-op outside Linux: niceness throttling without I/O
// priority support would be a partial, surprising implementation of
// spec.md §9's throttle contract, so non-Linux platforms simply skip it.
func Apply(level int) (Restore, error) {
	if !Level(level) {
		return nil, fmt.Errorf("priority: throttle level %d out of range 0..7", level)
	}
	return noopRestore, nil
}
