//go:build !linux

package fiemap

import "fmt"

func ioctlFiemap(fd int, start uint64, count int) ([]rawExtent, error) {
	return nil, fmt.Errorf("fiemap: FIEMAP is only available on linux")
}
