package render

import (
	"image/color"
	"math"
	"sort"

	"github.com/marben/strip_mandel/complexnum"
)

// Palette colors one point of the plane. Evaluate is the default.
type Palette func(c complexnum.Number, maxIterations, colorScheme int) color.RGBA

// Palettes indexes the palettes by the names accepted on the command line.
var Palettes = map[string]Palette{
	"classic":    Evaluate,
	"orbit-trap": OrbitTrap,
}

// PaletteNames returns the keys of Palettes, sorted.
func PaletteNames() []string {
	names := make([]string, 0, len(Palettes))
	for n := range Palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// OrbitTrap colors escaping points by hue, mixing the smooth iteration count
// with the orbit's closest approach to the imaginary axis. Members of the set
// are Background. colorScheme is clamped to at least 1 as in Evaluate.
func OrbitTrap(c complexnum.Number, maxIterations, colorScheme int) color.RGBA {
	mu, trap, inside := orbit(c, maxIterations)
	if inside {
		return Background
	}
	tnorm := math.Exp(-5 * trap)
	hue := math.Mod(mu*0.2/schemeDivisor(colorScheme)+tnorm*0.3, 1.0)
	return hsv(hue, 1, 1)
}

// orbit is SmoothCount plus the minimum |Re z| over the orbit.
func orbit(c complexnum.Number, maxIterations int) (mu, trap float64, inside bool) {
	if InCardioidOrBulb(c) {
		return 0, 0, true
	}

	cr, ci := c.Real(), c.Imag()
	var zr, zi float64
	trap = math.MaxFloat64
	n := 0
	for n < maxIterations && zr*zr+zi*zi <= escapeRadiusSq {
		zr, zi = zr*zr-zi*zi+cr, 2*zr*zi+ci
		trap = min(trap, math.Abs(zr))
		n++
	}
	if zr*zr+zi*zi <= escapeRadiusSq {
		return 0, trap, true
	}

	abs := math.Sqrt(zr*zr + zi*zi)
	return float64(n) - math.Log(math.Log(abs))/log2, trap, false
}

// Simple HSV → RGB
func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return color.RGBA{channel(r), channel(g), channel(b), 255}
}
