package services

import (
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int64
	}{
		{"empty", "", 0},
		{"one char rounds up", "a", 1},
		{"exact multiple", "abcd", 1},
		{"five chars", "abcde", 2},
		{"longer text", strings.Repeat("x", 403), 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.text); got != tt.want {
				t.Errorf("EstimateTokens(%q): got %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestInstructionCost(t *testing.T) {
	// Cost is computed over the concatenation, so rounding happens once.
	got := InstructionCost("abc", "de")
	if got != 2 {
		t.Errorf("InstructionCost: got %d, want 2", got)
	}
}
