package determinism

import (
	"testing"
)

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"winifred": 1, "georg": 2, "rupert": 3}
	for i := 0; i < 10; i++ {
		keys := SortedKeys(m)
		if keys[0] != "georg" || keys[1] != "rupert" || keys[2] != "winifred" {
			t.Fatalf("SortedKeys() = %v", keys)
		}
	}

	var seen []string
	RangeSorted(m, func(k string, _ int) bool {
		seen = append(seen, k)
		return len(seen) < 2
	})
	if len(seen) != 2 || seen[1] != "rupert" {
		t.Errorf("RangeSorted stopped at %v", seen)
	}
}

// TestIDGeneratorIsStable proves IDs depend only on their inputs.
func TestIDGeneratorIsStable(t *testing.T) {
	a := NewIDGenerator("invoice").Generate("georg", "2020-01-01")
	b := NewIDGenerator("invoice").Generate("georg", "2020-01-01")
	if a != b {
		t.Errorf("same input gave %s and %s", a, b)
	}
	if a.Version() != 5 {
		t.Errorf("Version() = %d, want 5", a.Version())
	}

	if NewIDGenerator("bill").Generate("georg", "2020-01-01") == a {
		t.Error("different kinds should not collide")
	}
	if NewIDGenerator("invoice").Generate("ab", "c") == NewIDGenerator("invoice").Generate("a", "bc") {
		t.Error("part boundaries should matter")
	}
}

func TestContentHash(t *testing.T) {
	h := ComputeHash([]byte("water\t83.22"))
	if h != ComputeHash([]byte("water\t83.22")) {
		t.Error("hash is not deterministic")
	}
	if len(h.Hex()) != 64 || len(h.String()) != 19 {
		t.Errorf("unexpected encodings %q %q", h.Hex(), h.String())
	}
}
