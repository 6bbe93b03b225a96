package model

import "testing"

func TestWarmedBitmapMarkAndTest(t *testing.T) {
	const stride = 4096
	b := NewWarmedBitmap(10*stride, stride)

	for _, off := range []uint64{0, stride, 2 * stride} {
		b.MarkRange(off, stride)
	}

	var skipped []uint64
	for off := uint64(0); off < 10*stride; off += stride {
		if !b.Test(off) {
			skipped = append(skipped, off/stride)
		}
	}

	want := []uint64{3, 4, 5, 6, 7, 8, 9}
	if len(skipped) != len(want) {
		t.Fatalf("phase2 would submit %d reads, want %d (%v)", len(skipped), len(want), skipped)
	}
	for i := range want {
		if skipped[i] != want[i] {
			t.Errorf("skip index %d = %d, want %d", i, skipped[i], want[i])
		}
	}
}

func TestWarmedBitmapMonotonic(t *testing.T) {
	b := NewWarmedBitmap(4096, 4096)
	if b.Test(0) {
		t.Fatal("bit should start unset")
	}
	b.MarkRange(0, 4096)
	if !b.Test(0) {
		t.Fatal("bit should be set after MarkRange")
	}
	// Marking again must not clear it.
	b.MarkRange(0, 4096)
	if !b.Test(0) {
		t.Fatal("bit cleared by a second MarkRange — bits must only transition 0->1")
	}
}

func TestWarmedBitmapOutOfRange(t *testing.T) {
	b := NewWarmedBitmap(4096, 4096)
	if b.Test(1_000_000) {
		t.Fatal("out-of-range offset must read as unset, not panic or wrap")
	}
}
