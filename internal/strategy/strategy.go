// Package strategy picks how each walked file should be warmed, per the
// selection rule in spec.md §4.6. Pure decision logic — no I/O — so it
// has no teacher analogue to ground on beyond the general small, focused
// package style the teacher uses throughout internal/.
package strategy

// Strategy names how a single file will be warmed.
type Strategy int

const (
	// Full reads the entire file through the submission engine.
	Full Strategy = iota
	// Hint advises the kernel to populate page-cache residency without
	// the caller issuing its own reads (e.g. posix_fadvise WILLNEED).
	Hint
	// Sparse samples one aligned region per interval rather than
	// reading the whole file.
	Sparse
	// Skip excludes the file from warming entirely.
	Skip
)

func (s Strategy) String() string {
	switch s {
	case Full:
		return "full"
	case Hint:
		return "hint"
	case Sparse:
		return "sparse"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

// Select implements spec.md §4.6's ordered selection rule. maxFileSize and
// sparseThreshold of 0 disable their respective rules. hintAvailable
// reports whether the OS-native residency hint (fadvise) is usable on
// this platform; async requests the submission engine explicitly, which
// takes priority over the hint path per rule 3.
func Select(size uint64, maxFileSize, sparseThreshold uint64, hintAvailable, asyncRequested bool) Strategy {
	if maxFileSize > 0 && size > maxFileSize {
		return Skip
	}
	if sparseThreshold > 0 && size >= sparseThreshold {
		return Sparse
	}
	if hintAvailable && !asyncRequested {
		return Hint
	}
	return Full
}
