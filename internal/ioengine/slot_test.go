package ioengine

import "testing"

func TestNewSlotPoolAllocatesDistinctBuffers(t *testing.T) {
	p := NewSlotPool(4, 4096, 1)
	if p.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", p.Len())
	}
	for i := 0; i < p.Len(); i++ {
		slot := p.Get(i)
		if len(slot.Buf) != 4096 {
			t.Errorf("slot %d buf len = %d, want 4096", i, len(slot.Buf))
		}
	}
	p.Get(0).Buf[0] = 1
	if p.Get(1).Buf[0] != 0 {
		t.Error("slots share backing storage, expected independent buffers")
	}
}

func TestAlignedBufferAlignment(t *testing.T) {
	buf := alignedBuffer(4096, 4096)
	if len(buf) != 4096 {
		t.Fatalf("len = %d, want 4096", len(buf))
	}
	if uintptrOf(buf)%4096 != 0 {
		t.Errorf("buffer address not aligned to 4096")
	}
}
