//go:build !linux

package ioengine

import "fmt"

func newRingEngine() (Engine, error) {
	return nil, fmt.Errorf("ioengine: io_uring is only available on linux")
}
