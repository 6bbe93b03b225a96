package hint

import (
	"os"
	"testing"
)

func TestApplyOnRealFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "hint-*")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}

	err = Apply(int(f.Fd()), 5)
	if available && err != nil {
		t.Errorf("Apply on a real fd should succeed when hints are available: %v", err)
	}
	if !available && err == nil {
		t.Error("expected an error on a platform without fadvise support")
	}
}
