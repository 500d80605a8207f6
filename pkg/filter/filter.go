// Package filter implements the closed set of named image filters and the
// pipeline that chains them.
//
// Every filter is applied in two stages: a per-pixel transform over every
// pixel, then a whole-grid transform over the result. Filters that need no
// neighborhood context use the identity for the second stage.
package filter

import (
	"strconv"

	"github.com/SteeveDroz/filters/pkg/raster"
)

// PixelTransform maps one pixel to another without positional context.
type PixelTransform func(p raster.Pixel) raster.Pixel

// ImageTransform maps a whole grid to a new grid of the same dimensions.
type ImageTransform func(g raster.Grid) raster.Grid

// Kind identifies a filter variant.
type Kind uint8

// Declaration order is the order valid names are listed in diagnostics.
const (
	Color Kind = iota
	Light
	Invert
	Antialiasing
	Grayscale
	Red
	RedLayer
	Nothing

	numKinds
)

type variant struct {
	name     string
	fragment string
	pixel    PixelTransform
	image    ImageTransform
}

// The array length pins one entry per Kind.
var variants = [numKinds]variant{
	Color:        {"COLOR", "_color", hueInvert, identityImage},
	Light:        {"LIGHT", "_light", lightInvert, identityImage},
	Invert:       {"INVERT", "_invert", invert, identityImage},
	Antialiasing: {"ANTIALIASING", "_antialiasing", identityPixel, smooth},
	Grayscale:    {"GRAYSCALE", "_grayscale", grayscale, identityImage},
	Red:          {"RED", "_red", redPreserve, identityImage},
	RedLayer:     {"REDLAYER", "_redlayer", redIsolate, identityImage},
	Nothing:      {"NOTHING", "", identityPixel, identityImage},
}

// Kinds returns every filter variant in declaration order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) valid() bool { return k < numKinds }

// String returns the canonical upper-case name, e.g. "INVERT".
func (k Kind) String() string {
	if !k.valid() {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return variants[k].name
}

// Fragment returns the token appended to output names, e.g. "_invert".
// Nothing contributes an empty fragment.
func (k Kind) Fragment() string {
	if !k.valid() {
		return ""
	}
	return variants[k].fragment
}

// Pixel runs the per-pixel stage of k on p.
func (k Kind) Pixel(p raster.Pixel) raster.Pixel {
	if !k.valid() {
		return p
	}
	return variants[k].pixel(p)
}

// Image runs the whole-grid stage of k on g.
func (k Kind) Image(g raster.Grid) raster.Grid {
	if !k.valid() {
		return g
	}
	return variants[k].image(g)
}

// Chain is a caller-ordered sequence of filters.
type Chain []Kind
