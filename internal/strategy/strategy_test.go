package strategy

import "testing"

func TestSelectSkipOnMaxFileSize(t *testing.T) {
	if got := Select(2_000_000_000, 1_000_000_000, 0, false, false); got != Skip {
		t.Errorf("Select = %v, want Skip", got)
	}
}

func TestSelectSparseOnThreshold(t *testing.T) {
	if got := Select(500_000_000, 0, 500_000_000, false, false); got != Sparse {
		t.Errorf("Select = %v, want Sparse", got)
	}
}

func TestSelectHintWhenAvailableAndSync(t *testing.T) {
	if got := Select(1024, 0, 0, true, false); got != Hint {
		t.Errorf("Select = %v, want Hint", got)
	}
}

func TestSelectFullWhenAsyncRequested(t *testing.T) {
	if got := Select(1024, 0, 0, true, true); got != Full {
		t.Errorf("Select = %v, want Full (async requested overrides hint)", got)
	}
}

func TestSelectFullWhenNoHint(t *testing.T) {
	if got := Select(1024, 0, 0, false, false); got != Full {
		t.Errorf("Select = %v, want Full", got)
	}
}

func TestSelectOrderingSkipBeforeSparse(t *testing.T) {
	// A file that exceeds max-file-size must be skipped even if it also
	// exceeds the sparse threshold — rule 1 takes priority over rule 2.
	if got := Select(10_000, 5_000, 1_000, false, false); got != Skip {
		t.Errorf("Select = %v, want Skip (max-file-size takes priority)", got)
	}
}

func TestStringer(t *testing.T) {
	cases := map[Strategy]string{Full: "full", Hint: "hint", Sparse: "sparse", Skip: "skip"}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", int(s), got, want)
		}
	}
}
