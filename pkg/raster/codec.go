package raster

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Ext is the extension of every file the codec writes.
const Ext = ".jpg"

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 95

var (
	// ErrSourceNotFound is returned by Decode when the path does not exist.
	ErrSourceNotFound = errors.New("source image not found")
	// ErrDecode is returned by Decode for unreadable or unsupported files.
	ErrDecode = errors.New("cannot decode source image")
	// ErrEncode is returned by Encode when the destination cannot be written.
	ErrEncode = errors.New("cannot write image")
)

// Decode reads the image at path into a Grid.
func Decode(path string) (Grid, error) {
	img, err := imaging.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Grid{}, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return Grid{}, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return FromImage(img), nil
}

// Encode writes g to path as a JPEG. A quality outside [1,100] falls back to
// DefaultQuality.
func Encode(g Grid, path string, quality int) error {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	if err := imaging.Save(g.Image(), path, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, path, err)
	}
	return nil
}

// BaseName strips the extension from path, keeping its directory.
func BaseName(path string) string {
	return path[:len(path)-len(filepath.Ext(path))]
}

// DestinationPath returns where the result for source is written: name is
// the filter-composed base name, ending in Ext.
func DestinationPath(name string) string {
	return name + Ext
}
