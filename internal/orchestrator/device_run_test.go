package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pastelsky/ebs-warmer/internal/config"
	"github.com/pastelsky/ebs-warmer/internal/observer"
)

// TestRunDeviceAgainstRegularFile exercises the full Core A sequence
// against a plain regular file standing in for a block device — device.Open
// falls back to a buffered open and fstat-derived size for exactly this
// case, so no real block device is required to exercise the orchestration.
func TestRunDeviceAgainstRegularFile(t *testing.T) {
	dir := t.TempDir()
	devicePath := filepath.Join(dir, "fake-device.img")
	if err := os.WriteFile(devicePath, make([]byte, 4*1024*1024), 0o644); err != nil {
		t.Fatal(err)
	}

	dataDir := filepath.Join(dir, "data")
	if err := os.Mkdir(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "f1.bin"), make([]byte, 256*1024), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Build(config.ModeDevice, []string{dataDir}, devicePath,
		config.WithReadSizeKB(16), config.WithStrideKB(64), config.WithQueueDepth(4), config.WithDirectIO(false))
	if err != nil {
		t.Fatalf("config.Build: %v", err)
	}

	obs := observer.New(&discard{}, true, false)
	res, err := runDevice(cfg, obs)
	if err != nil {
		t.Fatalf("runDevice: %v", err)
	}
	if res.Backend == "" {
		t.Error("expected a non-empty backend name")
	}
	// f1.bin may or may not have discoverable extents depending on the
	// underlying filesystem (tmpfs reports none); either way the run must
	// complete without error and report consistent counters.
	if res.ItemsDone != res.ItemsTotal {
		t.Errorf("ItemsDone = %d, ItemsTotal = %d, want equal on a clean run", res.ItemsDone, res.ItemsTotal)
	}
}

func TestRunDeviceUnopenableDeviceIsProbeError(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Build(config.ModeDevice, []string{dir}, filepath.Join(dir, "does-not-exist"))
	if err != nil {
		t.Fatalf("config.Build: %v", err)
	}

	obs := observer.New(&discard{}, true, false)
	_, err = runDevice(cfg, obs)
	if err == nil {
		t.Fatal("expected an error for a nonexistent device path")
	}
	if _, ok := err.(*ProbeError); !ok {
		t.Errorf("expected *ProbeError, got %T: %v", err, err)
	}
}
