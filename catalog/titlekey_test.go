package catalog

import "testing"

func TestTitleKeyNormalization(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"El Campeón", "el campeon"},
		{"  La  Película   Ñandú ", "la pelicula nandu"},
		{"CUANDO ACECHA LA MALDAD", "cuando acecha la maldad"},
		{"Argentina, 1985", "argentina 1985"},
		{"¡Qué digo!", "que digo"},
		{"Über-Film: Part 2", "uberfilm part 2"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := TitleKey(tt.in); got != tt.want {
			t.Errorf("TitleKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitleKeyStableAcrossSpellings(t *testing.T) {
	// The same title from two sources must land on the same key.
	a := TitleKey("El Campeón")
	b := TitleKey("el campeon")
	if a != b {
		t.Errorf("accented vs plain spelling diverged: %q vs %q", a, b)
	}
}
