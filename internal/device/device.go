// Package device opens the target block device and reports the geometry
// the rest of warmer needs to align reads: total size plus logical and
// physical sector size. Grounded on the raw-ioctl idiom in the teacher's
// internal/vm/uffd_linux.go (unix.Syscall(unix.SYS_IOCTL, ...) with a
// pointer to a small result struct) and its direct-open-then-fallback
// pattern in internal/vm/prereqs_linux.go.
package device

import "fmt"

// Info describes a probed device's geometry.
type Info struct {
	SizeBytes      uint64
	LogicalSector  uint64
	PhysicalSector uint64
	DirectIO       bool
}

// Probe holds an open device and its geometry.
type Probe struct {
	Path string
	Fd   int
	Info Info
}

// defaultSectorSize is used when the logical-sector-size ioctl fails or
// isn't supported. A failed physical-sector-size query falls back to the
// logical size, so it is 512 B only when both queries fail.
const defaultSectorSize = 512

// Align rounds read and stride up to the physical sector size, but only
// when direct I/O is active; buffered I/O has no alignment requirement.
func (i Info) Align(readSize, stride uint64) (alignedRead, alignedStride uint64) {
	if !i.DirectIO || i.PhysicalSector == 0 {
		return readSize, stride
	}
	return roundUp(readSize, i.PhysicalSector), roundUp(stride, i.PhysicalSector)
}

func roundUp(n, align uint64) uint64 {
	if align == 0 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + (align - rem)
}

func (i Info) String() string {
	return fmt.Sprintf("size=%d logical=%d physical=%d direct=%v", i.SizeBytes, i.LogicalSector, i.PhysicalSector, i.DirectIO)
}

// Close releases the underlying file descriptor, implemented per-platform.
func (p *Probe) Close() error {
	return closeFd(p.Fd)
}
