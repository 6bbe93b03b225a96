package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pastelsky/ebs-warmer/internal/config"
	"github.com/pastelsky/ebs-warmer/internal/observer"
)

func TestRunDispatchesFilesMode(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.bin"), make([]byte, 4096), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Build(config.ModeFiles, []string{dir}, "", config.WithReadSizeKB(4))
	if err != nil {
		t.Fatalf("config.Build: %v", err)
	}

	obs := observer.New(&discard{}, true, false)
	res, err := Run(cfg, obs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res == nil {
		t.Fatal("expected a non-nil result")
	}
}

func TestRunUnknownModeIsOptionError(t *testing.T) {
	cfg := &config.Config{Mode: "bogus", Dirs: []string{"."}}
	obs := observer.New(&discard{}, true, false)

	_, err := Run(cfg, obs)
	if err == nil {
		t.Fatal("expected an error for an unrecognized mode")
	}
	if _, ok := err.(*OptionError); !ok {
		t.Errorf("expected *OptionError, got %T: %v", err, err)
	}
}
