// Package config builds and validates the immutable option set warmer runs
// with. A Config is constructed once from CLI flags (merged over on-disk
// defaults) by internal/cmd and never mutated afterward.
package config

import "fmt"

// Backend selects which SubmissionEngine implementation to prefer.
type Backend string

const (
	BackendAuto Backend = "auto"
	BackendRing Backend = "ring"
	BackendAIO  Backend = "aio"
)

// Mode distinguishes the two control flows sharing this binary.
type Mode string

const (
	ModeDevice Mode = "device"
	ModeFiles  Mode = "files"
)

// Config is the validated, read-only option set shared by every component.
// Once Build returns successfully, no field may be mutated; components that
// need per-run derived state (aligned read size/stride, for instance) carry
// it separately (see internal/device.Info.Align).
type Config struct {
	Mode Mode

	Dirs   []string
	Device string // non-empty only when Mode == ModeDevice

	ReadSizeBytes uint64
	StrideBytes   uint64
	QueueDepth    int
	Threads       int
	MaxDepth      int // -1 = unlimited

	FullDisk     bool
	MergeExtents bool
	MergeMaxBytes uint64

	FollowSymlinks bool
	RespectIgnore  bool
	IgnoreHidden   bool
	IgnoreFileName string // e.g. ".warmerignore"; only consulted when RespectIgnore

	MaxFileSize      uint64 // 0 = unlimited
	SparseLargeFiles uint64 // 0 = disabled

	ThrottleLevel int // 0..7

	Backend  Backend
	DirectIO bool

	Silent bool
	Syslog bool
	Debug  bool
}

// Option mutates a Config under construction. Build applies options in
// order and validates the result.
type Option func(*Config)

// defaultConfig matches the option table in SPEC_FULL.md §6, per-mode.
func defaultConfig(mode Mode) Config {
	cfg := Config{
		Mode:           mode,
		QueueDepth:     128,
		Threads:        1,
		MaxDepth:       -1,
		MergeMaxBytes:  0, // resolved to DefaultMergeMaxBytes when MergeExtents is set without an explicit cap
		Backend:        BackendAuto,
		IgnoreFileName: ".warmerignore",
	}
	if mode == ModeDevice {
		cfg.ReadSizeBytes = 4 * 1024
		cfg.StrideBytes = 512 * 1024
		cfg.DirectIO = true
	} else {
		cfg.ReadSizeBytes = 128 * 1024
		cfg.StrideBytes = 128 * 1024
		cfg.DirectIO = false
	}
	return cfg
}

// Build constructs and validates a Config for the given mode and roots.
func Build(mode Mode, dirs []string, device string, opts ...Option) (*Config, error) {
	if len(dirs) == 0 {
		return nil, fmt.Errorf("config: at least one directory is required")
	}
	if mode == ModeDevice && device == "" {
		return nil, fmt.Errorf("config: device mode requires a device path")
	}
	if mode == ModeFiles && device != "" {
		return nil, fmt.Errorf("config: files mode does not take a device path")
	}

	cfg := defaultConfig(mode)
	cfg.Dirs = append([]string(nil), dirs...)
	cfg.Device = device

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if cfg.Threads > 16 {
		cfg.Threads = 16
	}
	if cfg.MergeExtents && cfg.MergeMaxBytes == 0 {
		cfg.MergeMaxBytes = defaultMergeMaxBytes
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// defaultMergeMaxBytes mirrors model.DefaultMergeMaxBytes without importing
// internal/model here — config must not depend on the data-model package it
// configures, to keep the dependency graph a tree rooted at orchestrator.
const defaultMergeMaxBytes = 16 * 1024 * 1024

func (c *Config) validate() error {
	if c.ReadSizeBytes == 0 {
		return fmt.Errorf("config: read-size must be > 0")
	}
	if c.StrideBytes == 0 {
		return fmt.Errorf("config: stride must be > 0")
	}
	if c.QueueDepth < 1 {
		return fmt.Errorf("config: queue-depth must be >= 1")
	}
	if c.MaxDepth < -1 {
		return fmt.Errorf("config: max-depth must be -1 (unlimited) or >= 0")
	}
	if c.ThrottleLevel < 0 || c.ThrottleLevel > 7 {
		return fmt.Errorf("config: throttle must be between 0 and 7, got %d", c.ThrottleLevel)
	}
	switch c.Backend {
	case BackendAuto, BackendRing, BackendAIO:
	default:
		return fmt.Errorf("config: unknown io-backend %q", c.Backend)
	}
	return nil
}

// Functional options, one per CLI flag in SPEC_FULL.md §6.

func WithReadSizeKB(kb uint64) Option       { return func(c *Config) { c.ReadSizeBytes = kb * 1024 } }
func WithStrideKB(kb uint64) Option         { return func(c *Config) { c.StrideBytes = kb * 1024 } }
func WithQueueDepth(n int) Option           { return func(c *Config) { c.QueueDepth = n } }
func WithThreads(n int) Option              { return func(c *Config) { c.Threads = n } }
func WithMaxDepth(n int) Option             { return func(c *Config) { c.MaxDepth = n } }
func WithFullDisk(v bool) Option            { return func(c *Config) { c.FullDisk = v } }
func WithMergeExtents(v bool) Option        { return func(c *Config) { c.MergeExtents = v } }
func WithMergeMaxBytes(n uint64) Option     { return func(c *Config) { c.MergeMaxBytes = n } }
func WithFollowSymlinks(v bool) Option      { return func(c *Config) { c.FollowSymlinks = v } }
func WithRespectIgnore(v bool) Option       { return func(c *Config) { c.RespectIgnore = v } }
func WithIgnoreHidden(v bool) Option        { return func(c *Config) { c.IgnoreHidden = v } }
func WithIgnoreFileName(name string) Option { return func(c *Config) { c.IgnoreFileName = name } }
func WithMaxFileSize(n uint64) Option       { return func(c *Config) { c.MaxFileSize = n } }
func WithSparseLargeFiles(n uint64) Option  { return func(c *Config) { c.SparseLargeFiles = n } }
func WithThrottle(level int) Option         { return func(c *Config) { c.ThrottleLevel = level } }
func WithBackend(b Backend) Option          { return func(c *Config) { c.Backend = b } }
func WithDirectIO(v bool) Option            { return func(c *Config) { c.DirectIO = v } }
func WithSilent(v bool) Option              { return func(c *Config) { c.Silent = v } }
func WithSyslog(v bool) Option              { return func(c *Config) { c.Syslog = v } }
func WithDebug(v bool) Option               { return func(c *Config) { c.Debug = v } }
