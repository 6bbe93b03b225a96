// Package orchestrator drives the end-to-end run: freeze throttling
// priorities, walk the configured directories, run the mode-specific
// warming sequence (Core A device phases or Core B per-file strategies),
// restore priorities, and report an aggregate result. Grounded on the
// teacher's Machine lifecycle in internal/vm/machine_linux.go — acquire
// resources, run, defer-cleanup regardless of outcome — generalized from
// one VM boot to warmer's two control flows.
package orchestrator

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pastelsky/ebs-warmer/internal/config"
	"github.com/pastelsky/ebs-warmer/internal/logging"
	"github.com/pastelsky/ebs-warmer/internal/observer"
	"github.com/pastelsky/ebs-warmer/internal/priority"
)

// Result is the aggregate outcome of one run, consumed by internal/cmd to
// pick an exit code and print a summary.
type Result struct {
	RunID      string
	Backend    string
	ItemsDone  int64
	ItemsTotal int64
	Warnings   []error
}

// Run executes one end-to-end warming pass for cfg, reporting progress and
// debug events through obs. It always restores throttling priorities
// before returning, on both the success and failure paths (spec.md §4.7,
// step (e); §5, "priorities are restored on normal exits").
func Run(cfg *config.Config, obs *observer.Observer) (*Result, error) {
	runID := uuid.NewString()
	log := logging.Logger().WithField("run_id", runID)

	restore, err := priority.Apply(cfg.ThrottleLevel)
	if err != nil {
		log.Warnf("throttle: could not apply priority level %d: %v", cfg.ThrottleLevel, err)
		restore = func() error { return nil }
	}
	defer func() {
		if err := restore(); err != nil {
			log.Warnf("throttle: could not restore priorities: %v", err)
		}
	}()

	log.Infof("starting %s run over %v", cfg.Mode, cfg.Dirs)

	var (
		res  *Result
		rerr error
	)
	switch cfg.Mode {
	case config.ModeDevice:
		res, rerr = runDevice(cfg, obs)
	case config.ModeFiles:
		res, rerr = runFiles(cfg, obs)
	default:
		rerr = &OptionError{Err: fmt.Errorf("unknown mode %q", cfg.Mode)}
	}
	if res != nil {
		res.RunID = runID
	}
	if rerr != nil {
		log.WithError(rerr).Error("run failed")
	} else {
		log.Infof("run complete: %d/%d items", res.ItemsDone, res.ItemsTotal)
	}
	return res, rerr
}
