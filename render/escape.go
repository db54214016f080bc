package render

import (
	"image/color"
	"math"

	"github.com/marben/strip_mandel/complexnum"
)

// escapeRadiusSq is |z|² beyond which the orbit is known to diverge.
const escapeRadiusSq = 4.0

var log2 = math.Log(2)

// Background is the color of points inside the set.
var Background = color.RGBA{A: 255}

// InCardioidOrBulb reports whether c lies in the main cardioid or the
// period-2 bulb, where the orbit never escapes.
func InCardioidOrBulb(c complexnum.Number) bool {
	xOff := c.Real() - 0.25
	ySq := c.Imag() * c.Imag()
	q := xOff*xOff + ySq
	if q*(q+xOff) < ySq/4 {
		return true
	}
	xBulb := c.Real() + 1
	return xBulb*xBulb+ySq < 1.0/16
}

// SmoothCount iterates z ← z² + c from z = 0 and returns the normalized
// iteration count mu = n - log(log|z|)/log 2 of the escape. inside is set
// when c is classified as a member of the set, in which case mu is
// meaningless. An orbit that leaves the escape radius on the last allowed
// iteration counts as escaped.
func SmoothCount(c complexnum.Number, maxIterations int) (mu float64, inside bool) {
	if InCardioidOrBulb(c) {
		return 0, true
	}

	cr, ci := c.Real(), c.Imag()
	var zr, zi float64
	n := 0
	for n < maxIterations && zr*zr+zi*zi <= escapeRadiusSq {
		zr, zi = zr*zr-zi*zi+cr, 2*zr*zi+ci
		n++
	}
	if zr*zr+zi*zi <= escapeRadiusSq {
		return 0, true
	}

	abs := math.Sqrt(zr*zr + zi*zi)
	return float64(n) - math.Log(math.Log(abs))/log2, false
}

// Evaluate returns the color of c. Members of the set are Background;
// escaping points get a cyclic gradient of period 2π·colorScheme in mu.
// A colorScheme below 1 is treated as 1. The same arguments always produce
// the same color.
func Evaluate(c complexnum.Number, maxIterations, colorScheme int) color.RGBA {
	mu, inside := SmoothCount(c, maxIterations)
	if inside {
		return Background
	}
	t := mu / schemeDivisor(colorScheme)
	rg := channel(math.Cos(t)/2 + 0.5)
	b := channel(math.Sin(t)/2 + 0.5)
	return color.RGBA{R: rg, G: rg, B: b, A: 255}
}

// schemeDivisor clamps colorScheme to at least 1.
func schemeDivisor(colorScheme int) float64 {
	return float64(max(colorScheme, 1))
}

// channel converts v in [0, 1] to a byte, rounding to nearest.
func channel(v float64) uint8 {
	return uint8(v*255 + 0.5)
}
