package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"Within Range", 50, 50},
		{"At Max", 100, 100},
		{"Above Max", 500, 100},
		{"At Min", 1, 1},
		{"Zero", 0, 1},
		{"Negative", -10, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClampLimit(tc.in))
		})
	}
}
