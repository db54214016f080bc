package mandel

import "fmt"

// SplitStrips splits a width × height raster into n full-height vertical
// strips with ids 0..n-1. Each strip is width/n columns wide, except the
// last one: its EndX is forced to width so the columns left over by the
// integer division are not dropped. When width < n the leading strips are
// empty and the last strip covers the whole raster.
func SplitStrips(width, height, n int) ([]Strip, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: raster %dx%d", ErrInvalidParams, width, height)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: %d strips", ErrInvalidParams, n)
	}

	stripW := width / n
	strips := make([]Strip, n)
	for i := range strips {
		strips[i] = Strip{
			ID:     i,
			StartX: i * stripW,
			EndX:   (i + 1) * stripW,
			StartY: 0,
			EndY:   height,
		}
	}
	strips[n-1].EndX = width

	return strips, nil
}

// Offset returns the horizontal position of strip id in the merged raster:
// the summed widths of all strips with a lower id.
func Offset(strips []Strip, id int) int {
	x := 0
	for _, s := range strips[:id] {
		x += s.Width()
	}
	return x
}
