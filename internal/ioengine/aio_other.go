//go:build !linux

package ioengine

import "fmt"

func newAIOEngine() (Engine, error) {
	return nil, fmt.Errorf("ioengine: Linux AIO is only available on linux")
}
