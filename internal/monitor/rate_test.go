package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRate(t *testing.T) {
	tests := []struct {
		name     string
		current  uint64
		previous uint64
		elapsed  float64
		want     uint64
	}{
		{
			name:     "steady one second interval",
			current:  3000,
			previous: 1000,
			elapsed:  1.0,
			want:     2000,
		},
		{
			name:     "two second interval halves the rate",
			current:  3000,
			previous: 1000,
			elapsed:  2.0,
			want:     1000,
		},
		{
			name:     "counter reset saturates to zero",
			current:  100,
			previous: 5000,
			elapsed:  1.0,
			want:     0,
		},
		{
			name:     "zero elapsed is floored",
			current:  1100,
			previous: 1000,
			elapsed:  0.0,
			want:     1000,
		},
		{
			name:     "tiny elapsed is floored to 100ms",
			current:  1100,
			previous: 1000,
			elapsed:  0.001,
			want:     1000,
		},
		{
			name:     "elapsed at the floor is unchanged",
			current:  1100,
			previous: 1000,
			elapsed:  0.1,
			want:     1000,
		},
		{
			name:     "no movement",
			current:  500,
			previous: 500,
			elapsed:  1.0,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rate(tt.current, tt.previous, tt.elapsed))
		})
	}
}
