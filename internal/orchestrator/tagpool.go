package orchestrator

// tagPool hands out the fixed set of slot tags [0, n) a SubmissionEngine
// was started with. The engine itself owns the actual buffers (see
// internal/ioengine.SlotPool); the orchestrator only needs to track which
// tags are currently in flight so it never submits more than Q
// concurrently (spec.md §8, testable property 5).
type tagPool struct {
	free []int
}

func newTagPool(n int) *tagPool {
	p := &tagPool{free: make([]int, n)}
	for i := 0; i < n; i++ {
		p.free[i] = n - 1 - i
	}
	return p
}

// acquire returns a free tag, or -1 if every tag is in flight.
func (p *tagPool) acquire() int {
	if len(p.free) == 0 {
		return -1
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	return idx
}

func (p *tagPool) release(tag int) {
	p.free = append(p.free, tag)
}
