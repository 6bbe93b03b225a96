package config

import "testing"

func TestBuildAppliesDeviceDefaults(t *testing.T) {
	cfg, err := Build(ModeDevice, []string{"/data"}, "/dev/nvme1n1")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.ReadSizeBytes != 4*1024 {
		t.Errorf("ReadSizeBytes = %d, want 4KiB", cfg.ReadSizeBytes)
	}
	if cfg.StrideBytes != 512*1024 {
		t.Errorf("StrideBytes = %d, want 512KiB", cfg.StrideBytes)
	}
	if !cfg.DirectIO {
		t.Error("device mode should default DirectIO to true")
	}
	if cfg.Threads != 1 {
		t.Errorf("Threads = %d, want 1 (spec default)", cfg.Threads)
	}
}

func TestBuildAppliesFilesDefaults(t *testing.T) {
	cfg, err := Build(ModeFiles, []string{"/data"}, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.ReadSizeBytes != 128*1024 {
		t.Errorf("ReadSizeBytes = %d, want 128KiB", cfg.ReadSizeBytes)
	}
	if cfg.DirectIO {
		t.Error("files mode should default DirectIO to false")
	}
}

func TestBuildAppliesIgnoreFileNameDefaultAndOverride(t *testing.T) {
	cfg, err := Build(ModeFiles, []string{"/data"}, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.IgnoreFileName != ".warmerignore" {
		t.Errorf("IgnoreFileName = %q, want .warmerignore", cfg.IgnoreFileName)
	}

	cfg, err = Build(ModeFiles, []string{"/data"}, "", WithIgnoreFileName(".customignore"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.IgnoreFileName != ".customignore" {
		t.Errorf("IgnoreFileName = %q, want .customignore", cfg.IgnoreFileName)
	}
}

func TestBuildRejectsMissingDirs(t *testing.T) {
	if _, err := Build(ModeFiles, nil, ""); err == nil {
		t.Fatal("expected error for empty dirs")
	}
}

func TestBuildRejectsDeviceWithoutPath(t *testing.T) {
	if _, err := Build(ModeDevice, []string{"/data"}, ""); err == nil {
		t.Fatal("expected error for device mode without a device path")
	}
}

func TestBuildRejectsDeviceInFilesMode(t *testing.T) {
	if _, err := Build(ModeFiles, []string{"/data"}, "/dev/sda"); err == nil {
		t.Fatal("expected error when files mode is given a device path")
	}
}

func TestBuildClampsThreads(t *testing.T) {
	cfg, err := Build(ModeFiles, []string{"/data"}, "", WithThreads(64))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.Threads != 16 {
		t.Errorf("Threads = %d, want clamped to 16", cfg.Threads)
	}

	cfg, err = Build(ModeFiles, []string{"/data"}, "", WithThreads(0))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.Threads != 1 {
		t.Errorf("Threads = %d, want clamped to 1", cfg.Threads)
	}
}

func TestBuildRejectsBadThrottle(t *testing.T) {
	if _, err := Build(ModeFiles, []string{"/data"}, "", WithThrottle(8)); err == nil {
		t.Fatal("expected error for throttle out of 0..7")
	}
}

func TestBuildRejectsBadBackend(t *testing.T) {
	if _, err := Build(ModeFiles, []string{"/data"}, "", WithBackend(Backend("gopher"))); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestBuildMergeExtentsDefaultsCap(t *testing.T) {
	cfg, err := Build(ModeDevice, []string{"/data"}, "/dev/sda", WithMergeExtents(true))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.MergeMaxBytes != defaultMergeMaxBytes {
		t.Errorf("MergeMaxBytes = %d, want default %d", cfg.MergeMaxBytes, defaultMergeMaxBytes)
	}
}

func TestBuildRejectsZeroReadSize(t *testing.T) {
	if _, err := Build(ModeFiles, []string{"/data"}, "", WithReadSizeKB(0)); err == nil {
		t.Fatal("expected error for zero read size")
	}
}
