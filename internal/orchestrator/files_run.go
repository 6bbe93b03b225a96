package orchestrator

import (
	"os"

	"github.com/pastelsky/ebs-warmer/internal/config"
	"github.com/pastelsky/ebs-warmer/internal/hint"
	"github.com/pastelsky/ebs-warmer/internal/ioengine"
	"github.com/pastelsky/ebs-warmer/internal/logging"
	"github.com/pastelsky/ebs-warmer/internal/observer"
	"github.com/pastelsky/ebs-warmer/internal/strategy"
	"github.com/pastelsky/ebs-warmer/internal/walker"
)

// fileJob is one read to submit against one walked file. jobs for the
// same file are always issued in increasing offset order (spec.md §5,
// "ordering guarantees").
type fileJob struct {
	fileIndex int
	offset    int64
	length    int
}

// fileState tracks one walked file's lazily-opened descriptor and how
// many of its jobs are still outstanding, so the file can be closed the
// moment its last read completes (spec.md §4.5: "free the fd when the
// file is fully read"). The *os.File itself is kept, not just its
// numeric descriptor — Go finalizes an unreferenced *os.File by closing
// its fd, so dropping the pointer while an async read is still in
// flight against the raw fd would be a use-after-close race.
type fileState struct {
	path      string
	file      *os.File
	remaining int
}

// runFiles implements Core B: walk the configured directories and warm
// each regular file through the strategy spec.md §4.6 selects for it.
func runFiles(cfg *config.Config, obs *observer.Observer) (*Result, error) {
	obs.StartPhase("walk")
	var entries []walker.Entry
	filters := walker.Filters{
		MaxDepth:       cfg.MaxDepth,
		FollowSymlinks: cfg.FollowSymlinks,
		IgnoreHidden:   cfg.IgnoreHidden,
		RespectIgnore:  cfg.RespectIgnore,
		IgnoreFileName: cfg.IgnoreFileName,
		MaxFileSize:    0, // strategy.Select applies max-file-size itself, as a "skip" rather than an omission
	}
	walkErrs := walker.Walk(cfg.Dirs, filters, cfg.Threads, func(e walker.Entry) error {
		entries = append(entries, e)
		return nil
	})
	var warnings []error
	warnings = append(warnings, walkErrs...)
	for _, e := range walkErrs {
		logging.Warnf("walk: %v", e)
	}

	asyncRequested := cfg.Backend != config.BackendAuto
	hintOK := hint.Available()

	states := make([]fileState, len(entries))
	var jobs []fileJob
	var engineNeeded bool

	obs.StartPhase("warm")
	for i, e := range entries {
		states[i] = fileState{path: e.Path}
		st := strategy.Select(uint64(e.Size), cfg.MaxFileSize, cfg.SparseLargeFiles, hintOK, asyncRequested)
		switch st {
		case strategy.Skip:
			logging.Warnf("skip: %s exceeds max-file-size", e.Path)
		case strategy.Hint:
			if err := warmHint(e.Path); err != nil {
				warnings = append(warnings, err)
				logging.Warnf("hint: %s: %v", e.Path, err)
			}
		case strategy.Full:
			jobs = append(jobs, fullJobs(i, e.Size, int64(cfg.ReadSizeBytes))...)
			engineNeeded = true
		case strategy.Sparse:
			jobs = append(jobs, sparseJobs(i, e.Size, int64(cfg.ReadSizeBytes), int64(cfg.SparseLargeFiles))...)
			engineNeeded = true
		}
	}
	for _, j := range jobs {
		states[j.fileIndex].remaining++
	}

	var issued int64
	total := int64(len(jobs))
	var engine ioengine.Engine

	if engineNeeded {
		var err error
		engine, err = ioengine.StartEngine(string(cfg.Backend), cfg.QueueDepth, int(cfg.ReadSizeBytes))
		if err != nil {
			return nil, &EngineError{Err: err}
		}
		defer engine.Stop()

		issued, err = runFileJobs(engine, entries, states, jobs, cfg.QueueDepth, obs, total)
		if err != nil {
			closeAll(states)
			return nil, &EngineError{Err: err}
		}
	}
	closeAll(states)

	return &Result{Backend: backendNameOrNone(engine), ItemsDone: issued, ItemsTotal: total, Warnings: warnings}, nil
}

func backendNameOrNone(engine ioengine.Engine) string {
	if engine == nil {
		return "none"
	}
	return engine.Name()
}

// fullJobs covers [0, size) in readSize chunks (spec.md §4.5, Core B
// "full" strategy).
func fullJobs(fileIndex int, size, readSize int64) []fileJob {
	var jobs []fileJob
	for off := int64(0); off < size; off += readSize {
		length := readSize
		if off+length > size {
			length = size - off
		}
		jobs = append(jobs, fileJob{fileIndex: fileIndex, offset: off, length: int(length)})
	}
	return jobs
}

// sparseJobs reads one region per interval, interval being at least the
// sparse-large-files threshold (spec.md §4.5, Core B "sparse" strategy).
func sparseJobs(fileIndex int, size, readSize, interval int64) []fileJob {
	if interval < readSize {
		interval = readSize
	}
	var jobs []fileJob
	for off := int64(0); off < size; off += interval {
		length := readSize
		if off+length > size {
			length = size - off
		}
		jobs = append(jobs, fileJob{fileIndex: fileIndex, offset: off, length: int(length)})
	}
	return jobs
}

func warmHint(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	return hint.Apply(int(f.Fd()), info.Size())
}

// runFileJobs drives the Q-bounded submit/reap loop across every job
// queued for every Full/Sparse file, opening each file's descriptor on
// its first job and freeing it once its last job completes.
func runFileJobs(engine ioengine.Engine, entries []walker.Entry, states []fileState, jobs []fileJob, queueDepth int, obs *observer.Observer, total int64) (int64, error) {
	tags := newTagPool(queueDepth)
	tagToFile := make([]int, queueDepth)
	cursor := 0
	inflight := 0
	var issued int64

	hasWork := func() bool { return cursor < len(jobs) }

	for hasWork() || inflight > 0 {
		for inflight < queueDepth && hasWork() {
			j := jobs[cursor]
			st := &states[j.fileIndex]
			if st.file == nil {
				f, err := os.Open(entries[j.fileIndex].Path)
				if err != nil {
					logging.Warnf("open: %s: %v", entries[j.fileIndex].Path, err)
					st.remaining = 0
					cursor++
					continue
				}
				st.file = f
			}
			tag := tags.acquire()
			if tag < 0 {
				break
			}
			if err := engine.Submit(int(st.file.Fd()), j.offset, j.length, tag); err != nil {
				tags.release(tag)
				return issued, err
			}
			tagToFile[tag] = j.fileIndex
			cursor++
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
			fi := tagToFile[c.Tag]
			states[fi].remaining--
			if states[fi].remaining == 0 && states[fi].file != nil {
				states[fi].file.Close()
				states[fi].file = nil
			}
			tags.release(c.Tag)
		}
		inflight -= len(completions)
		obs.Progress(issued, total)
	}
	obs.Progress(total, total)
	return issued, nil
}

func closeAll(states []fileState) {
	for i := range states {
		if states[i].file != nil {
			states[i].file.Close()
			states[i].file = nil
		}
	}
}
