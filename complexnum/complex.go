// Package complexnum implements an immutable complex number value type.
//
// A Number is always finite: the constructors reject NaN and ±Inf parts, and
// every operation whose result could overflow (or turn into NaN) returns an
// error wrapping ErrInvalidArgument instead. Operations take and return
// values; none allocate.
//
// Arg follows the atan2(re, im) convention (real part first). Pow, Sqrt and
// Log are defined in terms of Arg and therefore inherit it.
package complexnum

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrInvalidArgument is returned when a Number would have a NaN or
	// infinite part.
	ErrInvalidArgument = errors.New("complexnum: invalid argument")

	// ErrDivisionByZero is returned when dividing by exactly 0+0i.
	ErrDivisionByZero = errors.New("complexnum: division by zero")
)

// Number is the complex number re + im·i. The zero value is 0+0i.
type Number struct {
	re float64
	im float64
}

// Zero is 0+0i.
var Zero = Number{}

// New returns a + bi.
func New(a, b float64) (Number, error) {
	if !finite(a) || !finite(b) {
		return Number{}, fmt.Errorf("%w: New(%v, %v): parts must be finite", ErrInvalidArgument, a, b)
	}
	return Number{re: a, im: b}, nil
}

// MustNew is like New but panics on non-finite input. Intended for constants
// and tests.
func MustNew(a, b float64) Number {
	z, err := New(a, b)
	if err != nil {
		panic(err)
	}
	return z
}

// FromPolar returns r·(cos(phi) + i·sin(phi)). phi is in degrees unless
// radians is set.
func FromPolar(r, phi float64, radians bool) (Number, error) {
	if !finite(r) || !finite(phi) {
		return Number{}, fmt.Errorf("%w: FromPolar(%v, %v): arguments must be finite", ErrInvalidArgument, r, phi)
	}
	if !radians {
		phi = phi * math.Pi / 180
	}
	return New(r*math.Cos(phi), r*math.Sin(phi))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Real returns Re(z).
func (z Number) Real() float64 { return z.re }

// Imag returns Im(z).
func (z Number) Imag() float64 { return z.im }

// IsZero reports whether z is 0+0i.
func (z Number) IsZero() bool { return z.re == 0 && z.im == 0 }

// IsReal reports whether Im(z) is 0.
func (z Number) IsReal() bool { return z.im == 0 }

// Add returns z + w.
func (z Number) Add(w Number) (Number, error) {
	return result("Add", z.re+w.re, z.im+w.im)
}

// Sub returns z - w.
func (z Number) Sub(w Number) (Number, error) {
	return result("Sub", z.re-w.re, z.im-w.im)
}

// Times returns z·w.
//
//	(a + bi)(c + di) = (ac - bd) + (bc + ad)i
func (z Number) Times(w Number) (Number, error) {
	return result("Times", z.re*w.re-z.im*w.im, z.im*w.re+z.re*w.im)
}

// Div returns z / w. It fails with ErrDivisionByZero when w is exactly 0+0i.
//
// The quotient is computed with Smith's algorithm, scaling by the larger part
// of w so that c² + d² is never formed and cannot underflow or overflow.
func (z Number) Div(w Number) (Number, error) {
	if w.IsZero() {
		return Number{}, fmt.Errorf("%w: %s / %s", ErrDivisionByZero, z, w)
	}
	a, b, c, d := z.re, z.im, w.re, w.im
	if math.Abs(c) >= math.Abs(d) {
		r := d / c
		den := c + d*r
		return result("Div", (a+b*r)/den, (b-a*r)/den)
	}
	r := c / d
	den := c*r + d
	return result("Div", (a*r+b)/den, (b*r-a)/den)
}

// Conj returns the complex conjugate a - bi.
func (z Number) Conj() Number {
	return Number{re: z.re, im: -z.im}
}

// Neg returns -z.
func (z Number) Neg() Number {
	return Number{re: -z.re, im: -z.im}
}

// Abs returns the modulus sqrt(a² + b²).
func (z Number) Abs() float64 {
	return math.Hypot(z.re, z.im)
}

// Arg returns atan2(Re(z), Im(z)).
//
// Note the argument order: this is not the conventional atan2(im, re).
// Results of Pow, Sqrt and Log depend on it.
func (z Number) Arg() float64 {
	return math.Atan2(z.re, z.im)
}

// Pow returns zⁿ by De Moivre's formula, |z|ⁿ·(cos(n·Arg) + i·sin(n·Arg)).
// A negative power of zero fails with ErrInvalidArgument.
func (z Number) Pow(n int) (Number, error) {
	r := math.Pow(z.Abs(), float64(n))
	phi := float64(n) * z.Arg()
	return result("Pow", r*math.Cos(phi), r*math.Sin(phi))
}

// Sqrt returns sqrt(|z|)·(cos(Arg/2) + i·sin(Arg/2)), and 0 for z = 0.
func (z Number) Sqrt() (Number, error) {
	r := math.Sqrt(z.Abs())
	if r == 0 {
		return Zero, nil
	}
	phi := z.Arg() / 2
	return result("Sqrt", r*math.Cos(phi), r*math.Sin(phi))
}

// Sgn returns 0 for z = 0, the sign of the real part when it is non-zero,
// and the sign of the imaginary part otherwise.
func (z Number) Sgn() float64 {
	switch {
	case z.IsZero():
		return 0
	case z.re > 0:
		return 1
	case z.re < 0:
		return -1
	case z.im > 0:
		return 1
	default:
		return -1
	}
}

// Sin returns sin(a)cosh(b) + i·cos(a)sinh(b).
func (z Number) Sin() (Number, error) {
	return result("Sin", math.Sin(z.re)*math.Cosh(z.im), math.Cos(z.re)*math.Sinh(z.im))
}

// Cos returns cos(a)cosh(b) - i·sin(a)sinh(b).
func (z Number) Cos() (Number, error) {
	return result("Cos", math.Cos(z.re)*math.Cosh(z.im), -math.Sin(z.re)*math.Sinh(z.im))
}

// Tan returns Sin(z)/Cos(z).
func (z Number) Tan() (Number, error) {
	sin, err := z.Sin()
	if err != nil {
		return Number{}, err
	}
	cos, err := z.Cos()
	if err != nil {
		return Number{}, err
	}
	return sin.Div(cos)
}

// Sinh returns sinh(a)cos(b) + i·cosh(a)sin(b).
func (z Number) Sinh() (Number, error) {
	return result("Sinh", math.Sinh(z.re)*math.Cos(z.im), math.Cosh(z.re)*math.Sin(z.im))
}

// Cosh returns cosh(a)cos(b) + i·sinh(a)sin(b).
func (z Number) Cosh() (Number, error) {
	return result("Cosh", math.Cosh(z.re)*math.Cos(z.im), math.Sinh(z.re)*math.Sin(z.im))
}

// Exp returns eᵃ·(cos(b) + i·sin(b)).
func (z Number) Exp() (Number, error) {
	e := math.Exp(z.re)
	return result("Exp", e*math.Cos(z.im), e*math.Sin(z.im))
}

// Log returns the principal logarithm ln|z| + i·Arg(z). The logarithm of
// zero is undefined and fails with ErrInvalidArgument.
func (z Number) Log() (Number, error) {
	if z.IsZero() {
		return Number{}, fmt.Errorf("%w: log of zero", ErrInvalidArgument)
	}
	return result("Log", math.Log(z.Abs()), z.Arg())
}

// result wraps the parts computed by op, failing when either is not finite.
func result(op string, re, im float64) (Number, error) {
	if !finite(re) || !finite(im) {
		return Number{}, fmt.Errorf("%w: %s: result (%v, %v) is not finite", ErrInvalidArgument, op, re, im)
	}
	return Number{re: re, im: im}, nil
}

// Equal reports whether z and w have bitwise identical parts. Unlike ==, it
// distinguishes 0 from -0.
func (z Number) Equal(w Number) bool {
	return math.Float64bits(z.re) == math.Float64bits(w.re) &&
		math.Float64bits(z.im) == math.Float64bits(w.im)
}

// Hash returns a hash consistent with Equal.
func (z Number) Hash() uint64 {
	h := uint64(17)
	h = 31*h + math.Float64bits(z.re)
	h = 31*h + math.Float64bits(z.im)
	return h
}

// String formats z as "a + bi", dropping zero parts and unit coefficients.
func (z Number) String() string {
	a, b := z.re, z.im
	switch {
	case a == 0 && b == 0:
		return "0"
	case a == 0:
		return imagString(b)
	case b == 0:
		return formatFloat(a)
	case b < 0:
		return formatFloat(a) + " - " + imagString(-b)
	default:
		return formatFloat(a) + " + " + imagString(b)
	}
}

func imagString(b float64) string {
	switch b {
	case 1:
		return "i"
	case -1:
		return "-i"
	}
	return formatFloat(b) + "i"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// PolarString formats z as "r( cos(phi) + i sin(phi) )".
func (z Number) PolarString() string {
	r := z.Abs()
	if r == 0 {
		return "0"
	}
	phi := formatFloat(z.Arg())
	return formatFloat(r) + "( cos(" + phi + ") + i sin(" + phi + ") )"
}
