package collision

import "testing"

func TestHashKeysDeterministic(t *testing.T) {
	a := HashKeys([]int32{1, 2, 3})
	b := HashKeys([]int32{1, 2, 3})
	if a != b {
		t.Fatalf("expected equal key tuples to hash equally, got %d vs %d", a, b)
	}

	c := HashKeys([]int32{1, 2, 4})
	if a == c {
		t.Fatalf("expected different key tuples to hash differently (collision test), got equal hashes")
	}
}

func TestKeyTrackerMaybeDuplicate(t *testing.T) {
	tr := NewKeyTracker()
	h := HashKeys([]int32{3, 4})

	if tr.MaybeDuplicate(h) {
		t.Fatal("unseen hash should not be reported as a possible duplicate")
	}

	tr.Mark(h)
	if !tr.MaybeDuplicate(h) {
		t.Fatal("marked hash should be reported as a possible duplicate")
	}
	if tr.Count() != 1 {
		t.Fatalf("expected count 1, got %d", tr.Count())
	}
}

func TestKeyTrackerReset(t *testing.T) {
	tr := NewKeyTracker()
	h := HashKeys([]int32{1})
	tr.Mark(h)
	tr.Reset()

	if tr.MaybeDuplicate(h) {
		t.Fatal("expected tracker to be empty after Reset")
	}
}
