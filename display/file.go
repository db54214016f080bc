package display

import (
	"image"
	"sync"

	mandel "github.com/marben/strip_mandel"
)

// File is a mandel.Display that writes the finished raster to Path.
type File struct {
	Path string
	// Format overrides the format derived from the extension of Path.
	Format Format

	m   sync.Mutex
	err error
}

var _ mandel.Display = (*File)(nil)

// Show encodes img and writes it to f.Path.
func (f *File) Show(img *image.RGBA) error {
	format := f.Format
	if format == "" {
		var err error
		if format, err = FormatFromPath(f.Path); err != nil {
			return err
		}
	}
	if err := Save(f.Path, img, format); err != nil {
		return err
	}
	mandel.Logger().Info("image saved", "path", f.Path, "format", format)
	return nil
}

// Fail records err. No file is written for a failed render.
func (f *File) Fail(err error) {
	mandel.Logger().Error("render failed, no image written", "path", f.Path, "err", err)
	f.m.Lock()
	f.err = err
	f.m.Unlock()
}

// Err returns the error passed to Fail, if any.
func (f *File) Err() error {
	f.m.Lock()
	defer f.m.Unlock()
	return f.err
}
