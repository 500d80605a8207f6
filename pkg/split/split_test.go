package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRows(t *testing.T) {
	assert.Nil(t, Rows(0, 4))
	assert.Equal(t, []Band{{0, 5}}, Rows(5, 0))
	assert.Equal(t, []Band{{0, 1}, {1, 2}}, Rows(2, 8))
	assert.Equal(t, []Band{{0, 4}, {4, 7}, {7, 10}}, Rows(10, 3))
}

func TestRowsCoverEveryRowOnce(t *testing.T) {
	for height := 1; height <= 33; height++ {
		for n := 1; n <= 9; n++ {
			seen := make([]int, height)
			next := 0
			for _, b := range Rows(height, n) {
				assert.Equal(t, next, b.Start, "bands must be contiguous")
				assert.Positive(t, b.Len())
				for y := b.Start; y < b.End; y++ {
					seen[y]++
				}
				next = b.End
			}
			assert.Equal(t, height, next)
			for y, c := range seen {
				assert.Equal(t, 1, c, "row %d (height %d, n %d)", y, height, n)
			}
		}
	}
}
