package common

import "testing"

func TestWantsHTML(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8", true},
		{"application/json", false},
		{"application/json, text/html", false},
		{"", false},
		{"*/*", false},
	}
	for _, tt := range tests {
		if got := WantsHTML(tt.accept); got != tt.want {
			t.Errorf("WantsHTML(%q) = %v, want %v", tt.accept, got, tt.want)
		}
	}
}
