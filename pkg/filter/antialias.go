package filter

import (
	"github.com/SteeveDroz/filters/pkg/raster"
)

// smooth averages each interior pixel with its four direct neighbors using
// floor division. Border rows and columns are copied unchanged. The result
// never aliases g.
func smooth(g raster.Grid) raster.Grid {
	out := g.Clone()
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			c, l, r := g.At(x, y), g.At(x-1, y), g.At(x+1, y)
			u, d := g.At(x, y-1), g.At(x, y+1)
			out.Set(x, y, raster.Pixel{
				R: mean5(c.R, l.R, r.R, u.R, d.R),
				G: mean5(c.G, l.G, r.G, u.G, d.G),
				B: mean5(c.B, l.B, r.B, u.B, d.B),
			})
		}
	}
	return out
}

func mean5(a, b, c, d, e uint8) uint8 {
	return uint8((int(a) + int(b) + int(c) + int(d) + int(e)) / 5)
}
