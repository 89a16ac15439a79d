package source

import (
	"fmt"
	"sync"
	"testing"
)

func TestInternerBasic(t *testing.T) {
	in := NewInterner()
	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Fatalf("NoStringID must map to empty string, got %q, %v", s, ok)
	}
	a := in.Intern("someProp")
	if a == NoStringID {
		t.Fatal("Intern returned NoStringID for non-empty string")
	}
	if b := in.InternBytes([]byte("someProp")); b != a {
		t.Errorf("same text interned twice: %d != %d", a, b)
	}
	if got := in.MustLookup(a); got != "someProp" {
		t.Errorf("MustLookup = %q", got)
	}
	if in.Has(StringID(in.Len())) {
		t.Error("Has must reject out-of-range ids")
	}
}

func TestInternerConcurrent(t *testing.T) {
	in := NewInterner()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				in.Intern(fmt.Sprintf("prop%d", i))
			}
		}()
	}
	wg.Wait()
	if in.Len() != 201 {
		t.Fatalf("Len = %d, want 201", in.Len())
	}
	snap := in.Snapshot()
	seen := make(map[string]bool, len(snap))
	for _, s := range snap {
		if seen[s] {
			t.Fatalf("duplicate entry %q", s)
		}
		seen[s] = true
	}
}
