package split

// Band is a half-open range of grid rows [Start, End).
type Band struct {
	Start, End int
}

// Len returns the number of rows in the band.
func (b Band) Len() int { return b.End - b.Start }

// Rows splits height rows into at most n contiguous bands of near-equal size.
// Every row belongs to exactly one band and bands are returned top to bottom.
// n <= 0 is treated as 1.
func Rows(height, n int) []Band {
	if height <= 0 {
		return nil
	}
	if n <= 0 {
		n = 1
	}
	n = min(n, height)

	bands := make([]Band, 0, n)
	size, rest := height/n, height%n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rest {
			end++
		}
		bands = append(bands, Band{start, end})
		start = end
	}
	return bands
}
