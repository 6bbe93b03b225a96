package orchestrator

import (
	"os"
	"sync"

	"github.com/pastelsky/ebs-warmer/internal/config"
	"github.com/pastelsky/ebs-warmer/internal/device"
	"github.com/pastelsky/ebs-warmer/internal/fiemap"
	"github.com/pastelsky/ebs-warmer/internal/ioengine"
	"github.com/pastelsky/ebs-warmer/internal/logging"
	"github.com/pastelsky/ebs-warmer/internal/model"
	"github.com/pastelsky/ebs-warmer/internal/observer"
	"github.com/pastelsky/ebs-warmer/internal/walker"
)

// runState names a point in Core A's state machine (spec.md §4.7). It
// exists only for debug reporting — nothing branches on it besides the
// observer's debug stream.
type runState string

const (
	stateInit           runState = "INIT"
	stateProbed         runState = "PROBED"
	stateWalked         runState = "WALKED"
	stateOrdered        runState = "ORDERED"
	statePhase1Running  runState = "PHASE1_RUNNING"
	statePhase1Done     runState = "PHASE1_DONE"
	statePhase2Running  runState = "PHASE2_RUNNING"
	statePhase2Done     runState = "PHASE2_DONE"
	stateDone           runState = "DONE"
	stateAborted        runState = "ABORTED"
)

// runDevice implements Core A: open the device, discover extents,
// sort/merge them, and issue strided reads in device order (phase 1), then
// optionally sweep the rest of the device skipping already-warmed
// strides (phase 2).
func runDevice(cfg *config.Config, obs *observer.Observer) (*Result, error) {
	note := func(s runState) {
		obs.DebugEvent("state=%s", s)
	}

	probe, err := device.Open(cfg.Device)
	if err != nil {
		note(stateAborted)
		return nil, &ProbeError{Err: err}
	}
	defer probe.Close()
	note(stateProbed)

	extents := model.NewExtentMap(1024)
	var mu sync.Mutex
	var warnings []error

	obs.StartPhase("walk")
	filters := walker.Filters{
		MaxDepth:       cfg.MaxDepth,
		FollowSymlinks: cfg.FollowSymlinks,
		IgnoreHidden:   cfg.IgnoreHidden,
		RespectIgnore:  cfg.RespectIgnore,
		IgnoreFileName: cfg.IgnoreFileName,
		MaxFileSize:    cfg.MaxFileSize,
	}
	walkErrs := walker.Walk(cfg.Dirs, filters, cfg.Threads, func(e walker.Entry) error {
		f, err := os.Open(e.Path)
		if err != nil {
			mu.Lock()
			warnings = append(warnings, err)
			mu.Unlock()
			return nil
		}
		defer f.Close()

		local := model.NewExtentMap(8)
		if err := fiemap.Extract(int(f.Fd()), local); err != nil {
			mu.Lock()
			warnings = append(warnings, err)
			mu.Unlock()
			return nil
		}

		mu.Lock()
		for i := 0; i < local.Len(); i++ {
			extents.Append(local.At(i))
		}
		mu.Unlock()
		return nil
	})
	warnings = append(warnings, walkErrs...)
	for _, e := range walkErrs {
		logging.Warnf("walk: %v", e)
	}
	note(stateWalked)

	extents.Sort()
	if cfg.MergeExtents {
		extents.Merge(cfg.MergeMaxBytes)
	}
	note(stateOrdered)

	alignedRead, alignedStride := probe.Info.Align(cfg.ReadSizeBytes, cfg.StrideBytes)

	engine, err := ioengine.StartEngine(string(cfg.Backend), cfg.QueueDepth, int(alignedRead))
	if err != nil {
		note(stateAborted)
		return nil, &EngineError{Err: err}
	}
	defer engine.Stop()

	var bitmap *model.WarmedBitmap
	if cfg.FullDisk {
		bitmap = model.NewWarmedBitmap(probe.Info.SizeBytes, alignedStride)
	}

	totalStrides := int64(0)
	for i := 0; i < extents.Len(); i++ {
		e := extents.At(i)
		totalStrides += int64(ceilDiv(e.Length, alignedStride))
	}

	obs.StartPhase("phase1")
	note(statePhase1Running)
	issued, err := runPhase1(engine, probe.Fd, extents, alignedStride, alignedRead, cfg.QueueDepth, bitmap, obs, totalStrides)
	if err != nil {
		note(stateAborted)
		return nil, &EngineError{Err: err}
	}
	note(statePhase1Done)

	if cfg.FullDisk {
		obs.StartPhase("phase2")
		note(statePhase2Running)
		phase2Issued, err := runPhase2(engine, probe.Fd, probe.Info.SizeBytes, alignedStride, alignedRead, cfg.QueueDepth, bitmap, obs)
		if err != nil {
			note(stateAborted)
			return nil, &EngineError{Err: err}
		}
		issued += phase2Issued
		note(statePhase2Done)
	}

	note(stateDone)
	return &Result{Backend: engine.Name(), ItemsDone: issued, ItemsTotal: totalStrides, Warnings: warnings}, nil
}

// runPhase1 implements spec.md §4.5's block-device phase algorithm: walk
// the sorted/merged extent list in order, issuing strided reads bounded
// by queueDepth in-flight ops at a time.
func runPhase1(engine ioengine.Engine, deviceFd int, extents *model.ExtentMap, stride, readSize uint64, queueDepth int, bitmap *model.WarmedBitmap, obs *observer.Observer, total int64) (int64, error) {
	tags := newTagPool(queueDepth)
	extentIndex := 0
	within := uint64(0)
	inflight := 0
	var issued int64

	hasWork := func() bool { return extentIndex < extents.Len() }

	for hasWork() || inflight > 0 {
		for inflight < queueDepth && hasWork() {
			e := extents.At(extentIndex)
			off := e.Offset + within
			tag := tags.acquire()
			if tag < 0 {
				break
			}
			if err := engine.Submit(deviceFd, int64(off), int(readSize), tag); err != nil {
				tags.release(tag)
				return issued, err
			}
			if bitmap != nil {
				bitmap.MarkRange(off, readSize)
			}
			within += stride
			if within >= e.Length {
				extentIndex++
				within = 0
			}
			inflight++
			issued++
		}

		completions, err := engine.Reap(1)
		if err != nil {
			return issued, err
		}
		for _, c := range completions {
			if c.Status != nil {
				logging.Warnf("submit: %v", c.Status)
			}
			tags.release(c.Tag)
		}
		inflight -= len(completions)
		obs.Progress(issued, total)
	}
	obs.Progress(total, total)
	return issued, nil
}

// runPhase2 sweeps the rest of the device, skipping strides the bitmap
// already marked during phase 1 (spec.md §8, testable property 4).
func runPhase2(engine ioengine.Engine, deviceFd int, deviceSize, stride, readSize uint64, queueDepth int, bitmap *model.WarmedBitmap, obs *observer.Observer) (int64, error) {
	tags := newTagPool(queueDepth)
	offset := uint64(0)
	inflight := 0
	var issued int64

	total := int64(ceilDiv(deviceSize, stride))

	hasWork := func() bool { return offset < deviceSize }

	for hasWork() || inflight > 0 {
		for inflight < queueDepth && hasWork() {
			off := offset
			offset += stride
			if bitmap.Test(off) {
				continue
			}
			length := readSize
			if off+length > deviceSize {
				length = deviceSize - off
			}
			tag := tags.acquire()
			if tag < 0 {
				break
			}
			if err := engine.Submit(deviceFd, int64(off), int(length), tag); err != nil {
				tags.release(tag)
				return issued, err
			}
			inflight++
			issued++
		}

		if inflight == 0 {
			break
		}
		completions, err := engine.Reap(1)
		if err != nil {
			return issued, err
		}
		for _, c := range completions {
			if c.Status != nil {
				logging.Warnf("submit: %v", c.Status)
			}
			tags.release(c.Tag)
		}
		inflight -= len(completions)
		obs.Progress(issued, total)
	}
	obs.Progress(total, total)
	return issued, nil
}

func ceilDiv(n, d uint64) uint64 {
	if d == 0 {
		return 0
	}
	return (n + d - 1) / d
}
