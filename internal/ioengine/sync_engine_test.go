package ioengine

import (
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

func TestSyncEngineReadsSubmittedData(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "sync-engine-*")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	want := []byte("the quick brown fox jumps over the lazy dog")
	if _, err := f.Write(want); err != nil {
		t.Fatal(err)
	}

	fd, err := unix.Open(f.Name(), unix.O_RDONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer unix.Close(fd)

	e := newSyncEngine()
	if err := e.Start(4, len(want)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Stop()

	if err := e.Submit(fd, 0, len(want), 0); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	completions, err := e.Reap(1)
	if err != nil {
		t.Fatalf("Reap: %v", err)
	}
	if len(completions) != 1 {
		t.Fatalf("got %d completions, want 1", len(completions))
	}
	c := completions[0]
	if c.Status != nil {
		t.Fatalf("completion error: %v", c.Status)
	}
	if c.Bytes != len(want) {
		t.Errorf("Bytes = %d, want %d", c.Bytes, len(want))
	}
	if c.Tag != 0 {
		t.Errorf("Tag = %d, want 0", c.Tag)
	}

	got := string(e.pool.Get(0).Buf[:c.Bytes])
	if got != string(want) {
		t.Errorf("read content = %q, want %q", got, want)
	}
}

func TestSyncEngineName(t *testing.T) {
	e := newSyncEngine()
	if e.Name() != "sync" {
		t.Errorf("Name() = %q, want sync", e.Name())
	}
}
