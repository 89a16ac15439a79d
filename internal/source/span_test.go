package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{"disjoint", Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 8, End: 9}, Span{File: 1, Start: 2, End: 9}},
		{"nested", Span{File: 1, Start: 2, End: 10}, Span{File: 1, Start: 3, End: 4}, Span{File: 1, Start: 2, End: 10}},
		{"other file", Span{File: 1, Start: 2, End: 4}, Span{File: 2, Start: 0, End: 9}, Span{File: 1, Start: 2, End: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Errorf("Cover = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanContainsAndBefore(t *testing.T) {
	outer := Span{File: 0, Start: 10, End: 40}
	if !outer.Contains(Span{File: 0, Start: 10, End: 40}) {
		t.Error("span must contain itself")
	}
	if outer.Contains(Span{File: 0, Start: 9, End: 12}) {
		t.Error("unexpected containment")
	}
	if outer.Contains(Span{File: 1, Start: 12, End: 13}) {
		t.Error("spans from different files never contain each other")
	}
	if !(Span{File: 0, Start: 1, End: 2}).Before(Span{File: 0, Start: 1, End: 3}) {
		t.Error("shorter span with same start must sort first")
	}
	if (Span{File: 1}).Before(Span{File: 0, Start: 5}) {
		t.Error("file id dominates ordering")
	}
	if s := (Span{File: 0, Start: 3, End: 7}); s.Len() != 4 || s.Empty() {
		t.Errorf("Len/Empty mismatch for %v", s)
	}
}
