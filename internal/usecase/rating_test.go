package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeRatingAggregate(t *testing.T) {
	cases := []struct {
		name    string
		ratings []int
		avg     float64
		count   int64
	}{
		{"empty", nil, 0, 0},
		{"single", []int{4}, 4, 1},
		{"thirds", []int{5, 4, 4}, 4.3, 3},
		{"exact half", []int{4, 5, 5, 4}, 4.5, 4},
		{"1.95 -> 2.0", []int{1, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2}, 2.0, 20},
		{"1.25 -> 1.2", []int{1, 1, 1, 2}, 1.2, 4},
		{"2.25 -> 2.2", []int{2, 2, 2, 3}, 2.2, 4},
		{"4.25 -> 4.2", []int{4, 4, 4, 5}, 4.2, 4},
		{"4.75 -> 4.8", []int{5, 5, 5, 4}, 4.8, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			avg, count := computeRatingAggregate(tc.ratings)
			assert.Equal(t, tc.avg, avg)
			assert.Equal(t, tc.count, count)
		})
	}
}
