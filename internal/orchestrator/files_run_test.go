package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pastelsky/ebs-warmer/internal/config"
	"github.com/pastelsky/ebs-warmer/internal/observer"
)

func writeTestFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunFilesWarmsEveryFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.bin", 64*1024)
	writeTestFile(t, dir, "b.bin", 32*1024)

	cfg, err := config.Build(config.ModeFiles, []string{dir}, "",
		config.WithReadSizeKB(16), config.WithQueueDepth(4), config.WithThreads(2),
		// An explicit backend requests the submission engine; with the
		// default "auto" backend Linux would take the hint path and issue
		// no reads.
		config.WithBackend(config.BackendRing))
	if err != nil {
		t.Fatalf("config.Build: %v", err)
	}

	obs := observer.New(&discard{}, true, false)
	res, err := runFiles(cfg, obs)
	if err != nil {
		t.Fatalf("runFiles: %v", err)
	}
	if res.ItemsDone == 0 {
		t.Fatal("expected at least one read to be issued")
	}
	if res.ItemsDone != res.ItemsTotal {
		t.Errorf("ItemsDone = %d, ItemsTotal = %d, want equal on a clean run", res.ItemsDone, res.ItemsTotal)
	}
}

func TestRunFilesSkipsOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "small.bin", 1024)
	writeTestFile(t, dir, "big.bin", 10*1024*1024)

	cfg, err := config.Build(config.ModeFiles, []string{dir}, "",
		config.WithMaxFileSize(2*1024*1024), config.WithReadSizeKB(16), config.WithQueueDepth(4),
		config.WithBackend(config.BackendRing))
	if err != nil {
		t.Fatalf("config.Build: %v", err)
	}

	obs := observer.New(&discard{}, true, false)
	res, err := runFiles(cfg, obs)
	if err != nil {
		t.Fatalf("runFiles: %v", err)
	}
	// small.bin (1KB) should produce exactly one job at a 16KB read size;
	// big.bin must contribute none.
	if res.ItemsTotal != 1 {
		t.Errorf("ItemsTotal = %d, want 1 (big.bin should be skipped)", res.ItemsTotal)
	}
}

type discard struct{}

func (*discard) Write(p []byte) (int, error) { return len(p), nil }
