// Package hint wraps the OS-native residency hint Core B's "hint" strategy
// uses: advise the kernel to populate page-cache residency for a file range
// without the caller issuing its own reads. Grounded on the teacher's
// internal/vm/machine_linux.go, which calls unix.Fadvise with
// FADV_SEQUENTIAL/FADV_WILLNEED to pre-warm a guest's backing file before
// boot — the same primitive, aimed at warmer's own files instead of a VM
// image.
package hint

// Available reports whether the OS-native hint path can be used on this
// platform (spec.md §4.6, rule 3).
func Available() bool {
	return available
}

// Apply advises the kernel that [0, size) of fd will be needed soon. It is
// best-effort: a failure is reported to the caller, who logs a warning and
// continues (spec.md: "hint" never blocks the run on failure).
func Apply(fd int, size int64) error {
	return apply(fd, size)
}
