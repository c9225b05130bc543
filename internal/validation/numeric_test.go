package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumericInput(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"123", 123},
		{"123.45", 123.45},
		{"$1.234.567", 1.234}, // second dot truncates
		{"250.000.000", 250.0},
		{"12a3", 123},
		{"  45,5 m2 ", 455},
		{"abc", 0},
		{"", 0},
		{".", 0},
		{".5", 0.5},
		{"0.75.25", 0.75},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseNumericInput(tc.in), "ParseNumericInput(%q)", tc.in)
	}
}
