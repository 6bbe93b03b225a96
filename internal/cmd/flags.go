package cmd

import (
	"os"
	"strconv"

	"github.com/pastelsky/ebs-warmer/internal/config"
	"github.com/spf13/cobra"
)

// commonFlags holds the option-table flags (SPEC_FULL.md §6) shared by
// both the device and files subcommands. Pointers are bound directly to
// cobra flag vars, the same shape as the teacher's package-level flag
// vars in go_src/internal/cmd/root.go.
type commonFlags struct {
	readSizeKB       uint64
	strideKB         uint64
	queueDepth       int
	threads          int
	maxDepth         int
	fullDisk         bool
	mergeExtents     bool
	followSymlinks   bool
	respectIgnore    bool
	ignoreHidden     bool
	maxFileSize      uint64
	sparseLargeFiles uint64
	throttle         int
	ioBackend        string
	directIO         bool
	ignoreFile       string
}

func registerCommonFlags(cmd *cobra.Command, f *commonFlags) {
	fl := cmd.Flags()
	fl.Uint64Var(&f.readSizeKB, "read-size-kb", 0, "submission read size in KiB")
	fl.Uint64Var(&f.strideKB, "stride-kb", 0, "stride between reads within an extent (device mode)")
	fl.IntVar(&f.queueDepth, "queue-depth", 0, "max in-flight submissions")
	fl.IntVar(&f.threads, "threads", 0, "walker worker count, clamped 1..16")
	fl.IntVar(&f.maxDepth, "max-depth", -1, "recursion cap; -1 = unlimited")
	fl.BoolVar(&f.fullDisk, "full-disk", false, "enable phase 2 (device mode)")
	fl.BoolVar(&f.mergeExtents, "merge-extents", false, "coalesce adjacent extents (device mode)")
	fl.BoolVar(&f.followSymlinks, "follow-symlinks", false, "follow symbolic links while walking")
	fl.BoolVar(&f.respectIgnore, "respect-ignore", false, "honor ignore-file rules")
	fl.StringVar(&f.ignoreFile, "ignore-file", "", "ignore-file name consulted when --respect-ignore is set (default: .warmerignore)")
	fl.BoolVar(&f.ignoreHidden, "ignore-hidden", false, "skip dot-prefixed names")
	fl.Uint64Var(&f.maxFileSize, "max-file-size", 0, "bytes; 0 = unlimited")
	fl.Uint64Var(&f.sparseLargeFiles, "sparse-large-files", 0, "bytes threshold; 0 = disabled (files mode)")
	fl.IntVar(&f.throttle, "throttle", 0, "niceness/I/O priority throttle level, 0..7")
	fl.StringVar(&f.ioBackend, "io-backend", "auto", "ring | aio | auto")
	fl.BoolVar(&f.directIO, "direct-io", false, "recorded in the run config but not consulted: device mode always tries O_DIRECT first and falls back to buffered; files mode always reads buffered")
}

// buildOptions resolves every common flag into a config.Option. For
// read-size-kb, stride-kb, queue-depth, threads, throttle, io-backend and
// ignore-file the precedence is: an explicitly-set CLI flag wins, then a
// WARMER_* environment variable, then the persisted ~/.warmer/config.toml
// default. sparse-large-files has the flag and env tiers only. The other
// options are flag-only. Anything left unresolved keeps config.Build's
// own built-in per-mode default.
func buildOptions(cmd *cobra.Command, f *commonFlags) ([]config.Option, error) {
	defaults, err := config.LoadDefaults()
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed

	var opts []config.Option

	if v, ok := resolveUint64(changed("read-size-kb"), f.readSizeKB, "WARMER_READ_SIZE_KB", defaults.ReadSizeKB); ok {
		opts = append(opts, config.WithReadSizeKB(v))
	}
	if v, ok := resolveUint64(changed("stride-kb"), f.strideKB, "WARMER_STRIDE_KB", defaults.StrideKB); ok {
		opts = append(opts, config.WithStrideKB(v))
	}
	if v, ok := resolveInt(changed("queue-depth"), f.queueDepth, "WARMER_QUEUE_DEPTH", defaults.QueueDepth); ok {
		opts = append(opts, config.WithQueueDepth(v))
	}
	if v, ok := resolveInt(changed("threads"), f.threads, "WARMER_THREADS", defaults.Threads); ok {
		opts = append(opts, config.WithThreads(v))
	}
	if changed("max-depth") {
		opts = append(opts, config.WithMaxDepth(f.maxDepth))
	}
	if changed("full-disk") {
		opts = append(opts, config.WithFullDisk(f.fullDisk))
	}
	if changed("merge-extents") {
		opts = append(opts, config.WithMergeExtents(f.mergeExtents))
	}
	if changed("follow-symlinks") {
		opts = append(opts, config.WithFollowSymlinks(f.followSymlinks))
	}
	if changed("respect-ignore") {
		opts = append(opts, config.WithRespectIgnore(f.respectIgnore))
	}
	if changed("ignore-hidden") {
		opts = append(opts, config.WithIgnoreHidden(f.ignoreHidden))
	}
	if v, ok := resolveString(changed("ignore-file"), f.ignoreFile, "WARMER_IGNORE_FILE", defaults.IgnoreFileName()); ok {
		opts = append(opts, config.WithIgnoreFileName(v))
	}
	if changed("max-file-size") {
		opts = append(opts, config.WithMaxFileSize(f.maxFileSize))
	}
	if v, ok := resolveUint64NoFile(changed("sparse-large-files"), f.sparseLargeFiles, "WARMER_SPARSE_LARGE_FILES"); ok {
		opts = append(opts, config.WithSparseLargeFiles(v))
	}
	if v, ok := resolveInt(changed("throttle"), f.throttle, "WARMER_THROTTLE", defaults.Throttle); ok {
		opts = append(opts, config.WithThrottle(v))
	}
	if v, ok := resolveString(changed("io-backend"), f.ioBackend, "WARMER_IO_BACKEND", defaults.IOBackend); ok {
		opts = append(opts, config.WithBackend(config.Backend(v)))
	}
	if changed("direct-io") {
		opts = append(opts, config.WithDirectIO(f.directIO))
	}
	if silentFlag {
		opts = append(opts, config.WithSilent(true))
	}
	if syslogFlag {
		opts = append(opts, config.WithSyslog(true))
	}
	if debugFlag {
		opts = append(opts, config.WithDebug(true))
	}

	return opts, nil
}

func resolveUint64(flagChanged bool, flagVal uint64, envName string, fileVal uint64) (uint64, bool) {
	if flagChanged {
		return flagVal, true
	}
	if v := os.Getenv(envName); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n, true
		}
	}
	if fileVal != 0 {
		return fileVal, true
	}
	return 0, false
}

// resolveUint64NoFile is resolveUint64 for options with no persisted-file
// tier (SPEC_FULL.md only carries the core tuning knobs in
// ~/.warmer/config.toml; byte thresholds like sparse-large-files are
// flag/env only).
func resolveUint64NoFile(flagChanged bool, flagVal uint64, envName string) (uint64, bool) {
	if flagChanged {
		return flagVal, true
	}
	if v := os.Getenv(envName); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func resolveInt(flagChanged bool, flagVal int, envName string, fileVal int) (int, bool) {
	if flagChanged {
		return flagVal, true
	}
	if v := os.Getenv(envName); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	if fileVal != 0 {
		return fileVal, true
	}
	return 0, false
}

func resolveString(flagChanged bool, flagVal, envName, fileVal string) (string, bool) {
	if flagChanged && flagVal != "" {
		return flagVal, true
	}
	if v := os.Getenv(envName); v != "" {
		return v, true
	}
	if fileVal != "" {
		return fileVal, true
	}
	return "", false
}
