package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{"disjoint", Span{Start: 2, End: 4}, Span{Start: 8, End: 10}, Span{Start: 2, End: 10}},
		{"nested", Span{Start: 0, End: 10}, Span{Start: 3, End: 4}, Span{Start: 0, End: 10}},
		{"reversed", Span{Start: 8, End: 10}, Span{Start: 1, End: 2}, Span{Start: 1, End: 10}},
		{"other file", Span{File: 1, Start: 2, End: 3}, Span{File: 2, Start: 0, End: 9}, Span{File: 1, Start: 2, End: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Fatalf("Cover = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanZeroide(t *testing.T) {
	s := Span{File: 3, Start: 5, End: 9}
	if z := s.ZeroideToStart(); !z.Empty() || z.Start != 5 || z.File != 3 {
		t.Fatalf("ZeroideToStart = %v", z)
	}
	if z := s.ZeroideToEnd(); !z.Empty() || z.Start != 9 {
		t.Fatalf("ZeroideToEnd = %v", z)
	}
	if s.Len() != 4 {
		t.Fatalf("Len = %d", s.Len())
	}
	if s.String() != "3:5-9" {
		t.Fatalf("String = %q", s.String())
	}
}
