package models

import "testing"

func TestMatchesKeyword(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    bool
	}{
		{"Developpe couche", "velo", false},
		{"Développé incliné", "vélo", false},
		{"Vélo elliptique", "vélo", true},
		{"Velo", "velo", true},
		{"Curl ischios", "ischio", true},
		{"Rowing assis", "row", true},
		{"Narrow grip", "row", false},
		{"Pec Deck", "pec deck", true},
		{"Pull-ups", "pull-up", true},
		{"", "curl", false},
	}
	for _, tt := range tests {
		if got := MatchesKeyword(tt.name, tt.keyword); got != tt.want {
			t.Errorf("MatchesKeyword(%q, %q) = %v, want %v", tt.name, tt.keyword, got, tt.want)
		}
	}
}
