// Package fiemap translates a regular file into the physical extents that
// back it, via the Linux FIEMAP ioctl. The wire structs and batching are
// grounded on the fstools FIEMAP helper in the retrieval pack and use the
// teacher's raw-ioctl idiom (unix.Syscall(unix.SYS_IOCTL, ...) against a
// pointer to a fixed-layout struct) from internal/vm/uffd_linux.go.
package fiemap

import "github.com/pastelsky/ebs-warmer/internal/model"

// maxExtentsPerCall caps a single FIEMAP call to 32 extents, per spec.md
// §4.2 — keeps the kernel-side buffer bounded regardless of file size.
const maxExtentsPerCall = 32

// extentFlagLast marks the final extent FIEMAP will report for a file.
const extentFlagLast = 0x00000001

// extentFlagUnknown, extentFlagUnwritten and extentFlagDelalloc mark
// extents that do not correspond to stable, readable physical data and
// must be skipped per spec.md §4.2.
const (
	extentFlagUnknown   = 0x00000002
	extentFlagDelalloc  = 0x00000004
	extentFlagUnwritten = 0x00000800
)

func skip(flags uint32) bool {
	return flags&(extentFlagUnknown|extentFlagDelalloc|extentFlagUnwritten) != 0
}

// Extract queries fd's extent map and appends every mapped, non-skipped
// extent to m. Open/query failures are returned to the caller, which per
// spec.md §4.2/§7 logs a warning and treats the file as contributing zero
// extents rather than aborting the run.
func Extract(fd int, m *model.ExtentMap) error {
	var start uint64
	for {
		batch, err := ioctlFiemap(fd, start, maxExtentsPerCall)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		var last bool
		for _, e := range batch {
			if !skip(e.flags) {
				m.Append(model.Extent{Offset: e.physical, Length: e.length})
			}
			if e.flags&extentFlagLast != 0 {
				last = true
			}
		}
		if last {
			return nil
		}
		start = batch[len(batch)-1].logical + batch[len(batch)-1].length
	}
}

// rawExtent is the decoded form of one struct fiemap_extent entry.
type rawExtent struct {
	logical  uint64
	physical uint64
	length   uint64
	flags    uint32
}
