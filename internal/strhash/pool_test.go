package strhash

import "testing"

func TestPoolAddAndIndexOf(t *testing.T) {
	p := New(true)

	i1 := p.Add("New-York")
	i2 := p.Add("Chicago")
	i3 := p.Add("new-york") // case-insensitive duplicate

	if i1 != 1 || i2 != 2 {
		t.Fatalf("expected 1-based indices 1,2 got %d,%d", i1, i2)
	}
	if i3 != i1 {
		t.Fatalf("expected case-insensitive dup to reuse index %d, got %d", i1, i3)
	}
	if p.Count() != 2 {
		t.Fatalf("expected count 2, got %d", p.Count())
	}

	if got := p.IndexOf("CHICAGO"); got != i2 {
		t.Fatalf("expected IndexOf case-insensitive match, got %d", got)
	}
	if got := p.IndexOf("Topeka"); got != -1 {
		t.Fatalf("expected -1 for missing string, got %d", got)
	}
}

func TestPoolStoreAlwaysAppends(t *testing.T) {
	p := New(true)
	a := p.Store("x")
	b := p.Store("x")
	if a == b {
		t.Fatalf("Store must always append a new entry, got same index %d", a)
	}
	if p.Count() != 2 {
		t.Fatalf("expected count 2, got %d", p.Count())
	}
}

func TestPoolRenamePreservesIndex(t *testing.T) {
	p := New(true)
	i := p.Add("old-name")
	p.Rename(i, "new-name")

	if p.Get(i) != "new-name" {
		t.Fatalf("expected renamed string, got %q", p.Get(i))
	}
	if got := p.IndexOf("new-name"); got != i {
		t.Fatalf("expected IndexOf(new-name)==%d, got %d", i, got)
	}
	if got := p.IndexOf("old-name"); got != -1 {
		t.Fatalf("expected old name no longer indexed, got %d", got)
	}
}

func TestPoolSortIsPermutationAndDoesNotReorder(t *testing.T) {
	p := New(true)
	p.Add("Chicago")
	p.Add("Albany")
	p.Add("Boston")

	perm := p.Sort()
	if len(perm) != 3 {
		t.Fatalf("expected permutation length 3, got %d", len(perm))
	}

	var ordered []string
	for _, idx := range perm {
		ordered = append(ordered, p.buckets[idx].str)
	}
	if ordered[0] != "Albany" || ordered[1] != "Boston" || ordered[2] != "Chicago" {
		t.Fatalf("expected sorted order Albany,Boston,Chicago, got %v", ordered)
	}

	// Underlying storage is untouched: original insertion order still at
	// its original index.
	if p.Get(1) != "Chicago" {
		t.Fatalf("expected underlying storage order preserved, got %q at 1", p.Get(1))
	}
}

func TestCaseSensitivePool(t *testing.T) {
	p := NewCaseSensitivePool(true)
	i1 := p.Add("Foo")
	i2 := p.Add("foo")
	if i1 == i2 {
		t.Fatalf("case-sensitive pool must treat Foo and foo as distinct entries")
	}
}

func TestPoolZeroBased(t *testing.T) {
	p := New(false)
	i := p.Store("")
	if i != 0 {
		t.Fatalf("expected slot 0 for zero-based pool, got %d", i)
	}
	j := p.Add("hello")
	if j != 1 {
		t.Fatalf("expected slot 1, got %d", j)
	}
}

func TestPoolRehash(t *testing.T) {
	p := New(true)
	// Push past the first rehash threshold (150) to exercise hashAll.
	for i := 0; i < 200; i++ {
		p.Add(string(rune('a'+i%26)) + string(rune(i)))
	}
	if p.Count() != 200 {
		t.Fatalf("expected 200 entries, got %d", p.Count())
	}
	// Spot check lookups still resolve correctly after rehash.
	for i := 0; i < 200; i++ {
		s := string(rune('a'+i%26)) + string(rune(i))
		if p.IndexOf(s) == -1 {
			t.Fatalf("expected entry %q to be found after rehash", s)
		}
	}
}
