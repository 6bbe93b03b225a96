//go:build linux

package fiemap

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// fsIocFiemap is FS_IOC_FIEMAP, _IOWR('f', 11, struct fiemap). The request
// struct is 32 bytes (two u64 + four u32), giving the fixed encoding below
// — stable across every Linux architecture warmer targets.
const fsIocFiemap = 0xC020660B

// sizeofFiemapHeader and sizeofFiemapExtent are the on-wire sizes of
// struct fiemap (without its flexible fm_extents array) and struct
// fiemap_extent, per include/uapi/linux/fiemap.h.
const (
	sizeofFiemapHeader = 32
	sizeofFiemapExtent = 56
)

// Compile-time reminder that the wire layout assumptions above match what
// the kernel expects; keeps a future refactor honest.
var _ = [sizeofFiemapHeader]byte{}
var _ = [sizeofFiemapExtent]byte{}

func ioctlFiemap(fd int, start uint64, count int) ([]rawExtent, error) {
	buf := make([]byte, sizeofFiemapHeader+count*sizeofFiemapExtent)

	binary.LittleEndian.PutUint64(buf[0:8], start)
	binary.LittleEndian.PutUint64(buf[8:16], ^uint64(0)) // fm_length: FIEMAP_MAX_OFFSET, scan to EOF
	binary.LittleEndian.PutUint32(buf[16:20], 0)         // fm_flags
	binary.LittleEndian.PutUint32(buf[20:24], 0)         // fm_mapped_extents (out)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(count))
	binary.LittleEndian.PutUint32(buf[28:32], 0) // fm_reserved

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(fsIocFiemap), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return nil, fmt.Errorf("fiemap: ioctl: %w", errno)
	}

	mapped := binary.LittleEndian.Uint32(buf[20:24])
	out := make([]rawExtent, 0, mapped)
	for i := uint32(0); i < mapped; i++ {
		base := sizeofFiemapHeader + int(i)*sizeofFiemapExtent
		ext := buf[base : base+sizeofFiemapExtent]
		out = append(out, rawExtent{
			logical:  binary.LittleEndian.Uint64(ext[0:8]),
			physical: binary.LittleEndian.Uint64(ext[8:16]),
			length:   binary.LittleEndian.Uint64(ext[16:24]),
			// fe_reserved64[2] occupies bytes 24..40; fe_flags follows at 40.
			flags: binary.LittleEndian.Uint32(ext[40:44]),
		})
	}
	return out, nil
}
