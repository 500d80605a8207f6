// Package raster holds the in-memory RGB grid the filters operate on and the
// codec that moves it to and from image files.
package raster

import (
	"image"
	"image/color"
)

// Pixel is an opaque 24-bit RGB value.
type Pixel struct {
	R, G, B uint8
}

// RGB builds a Pixel from integer channels, clamping each to [0,255].
func RGB(r, g, b int) Pixel {
	return Pixel{Clamp(r), Clamp(g), Clamp(b)}
}

// Clamp limits v to the 8-bit channel range.
func Clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Grid is a rectangular, row-major image of Pixels.
type Grid struct {
	Width, Height int
	Pix           []Pixel
}

// NewGrid returns a black grid of the given dimensions.
func NewGrid(width, height int) Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Grid{Width: width, Height: height, Pix: make([]Pixel, width*height)}
}

// Fill returns a grid where every pixel equals p.
func Fill(width, height int, p Pixel) Grid {
	g := NewGrid(width, height)
	for i := range g.Pix {
		g.Pix[i] = p
	}
	return g
}

// At returns the pixel at (x, y).
func (g Grid) At(x, y int) Pixel {
	return g.Pix[y*g.Width+x]
}

// Set stores p at (x, y).
func (g Grid) Set(x, y int, p Pixel) {
	g.Pix[y*g.Width+x] = p
}

// Row returns the pixels of row y. The slice aliases the grid.
func (g Grid) Row(y int) []Pixel {
	return g.Pix[y*g.Width : (y+1)*g.Width]
}

// Clone returns a copy that shares no memory with g.
func (g Grid) Clone() Grid {
	out := Grid{Width: g.Width, Height: g.Height, Pix: make([]Pixel, len(g.Pix))}
	copy(out.Pix, g.Pix)
	return out
}

// FromImage samples img into a Grid. The image origin maps to (0, 0) and
// alpha is discarded.
func FromImage(img image.Image) Grid {
	b := img.Bounds()
	g := NewGrid(b.Dx(), b.Dy())
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < g.Height; y++ {
			ofs := (b.Min.Y+y-nrgba.Rect.Min.Y)*nrgba.Stride + (b.Min.X-nrgba.Rect.Min.X)*4
			for x := 0; x < g.Width; x++ {
				g.Pix[y*g.Width+x] = Pixel{nrgba.Pix[ofs], nrgba.Pix[ofs+1], nrgba.Pix[ofs+2]}
				ofs += 4
			}
		}
		return g
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			g.Pix[y*g.Width+x] = Pixel{c.R, c.G, c.B}
		}
	}
	return g
}

// Image converts the grid into an opaque NRGBA image anchored at the origin.
func (g Grid) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		ofs := y * img.Stride
		for _, p := range g.Row(y) {
			img.Pix[ofs] = p.R
			img.Pix[ofs+1] = p.G
			img.Pix[ofs+2] = p.B
			img.Pix[ofs+3] = 0xff
			ofs += 4
		}
	}
	return img
}
