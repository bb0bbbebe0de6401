package services

import (
	"testing"
	"unicode/utf8"
)

func TestTruncateCountsRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Short", 10, "Short"},
		{"exactly ten", 11, "exactly ten"},
		{"a long plain ascii title here", 10, "a long ..."},
		{"Canción Canción Canción", 10, "Canción..."},
		{"ñññññññññññññ", 8, "ñññññ..."},
	}

	for _, tt := range tests {
		got := truncate(tt.in, tt.max)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8: %q", tt.in, tt.max, got)
		}
	}
}
