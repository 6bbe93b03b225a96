package ioengine

import "unsafe"

// uintptrOf returns the address of buf's backing array, used only to
// compute alignment padding for direct-I/O buffers.
func uintptrOf(buf []byte) uint64 {
	if len(buf) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&buf[0])))
}
