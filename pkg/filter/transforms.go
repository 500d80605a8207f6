package filter

import (
	"github.com/SteeveDroz/filters/pkg/raster"
)

func identityPixel(p raster.Pixel) raster.Pixel { return p }

func identityImage(g raster.Grid) raster.Grid { return g }

func invert(p raster.Pixel) raster.Pixel {
	return raster.Pixel{R: 255 - p.R, G: 255 - p.G, B: 255 - p.B}
}

// grayscale takes lightness as the brightest channel, not a luminance mix.
func grayscale(p raster.Pixel) raster.Pixel {
	m := max(p.R, p.G, p.B)
	return raster.Pixel{R: m, G: m, B: m}
}

func redIsolate(p raster.Pixel) raster.Pixel {
	return raster.Pixel{R: p.R, G: p.R, B: p.R}
}

// redPreserve keeps pixels that read as red and grays out the rest.
func redPreserve(p raster.Pixel) raster.Pixel {
	g, b := int(p.G), int(p.B)
	if p.R > p.G && p.R > p.B && abs(g-b) < 32 {
		return p
	}
	return grayscale(p)
}

// hueInvert reflects every channel around the midpoint of the pixel's
// extreme channels, so light red becomes light cyan.
func hueInvert(p raster.Pixel) raster.Pixel {
	r, g, b := int(p.R), int(p.G), int(p.B)
	return raster.Pixel{
		R: reflect(r, g, b),
		G: reflect(g, b, r),
		B: reflect(b, r, g),
	}
}

// reflect mirrors first around (max+min)/2 of the triple. The midpoint is
// shared by all rotations of the same triple.
func reflect(first, second, third int) uint8 {
	hi := max(first, second, third)
	lo := min(first, second, third)
	median := (hi + lo) / 2
	return raster.Clamp(2*median - first)
}

// lightInvert flips lightness and keeps hue: light red becomes dark red.
func lightInvert(p raster.Pixel) raster.Pixel {
	return invert(hueInvert(p))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
