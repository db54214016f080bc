package complexnum_test

import (
	"math"
	"testing"

	"github.com/marben/strip_mandel/complexnum"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

var samples = []complexnum.Number{
	complexnum.MustNew(0, 0),
	complexnum.MustNew(1, 0),
	complexnum.MustNew(0, 1),
	complexnum.MustNew(-1.5, 2.25),
	complexnum.MustNew(3, -4),
	complexnum.MustNew(-0.75, -0.1),
	complexnum.MustNew(1e-6, 1e6),
	complexnum.MustNew(12345.678, -0.0001),
}

func requireNear(t *testing.T, want, got complexnum.Number) {
	t.Helper()
	tol := eps * math.Max(1, want.Abs())
	require.InDelta(t, want.Real(), got.Real(), tol, "real part of %s vs %s", got, want)
	require.InDelta(t, want.Imag(), got.Imag(), tol, "imag part of %s vs %s", got, want)
}

// must unwraps a (Number, error) result, failing t on error.
func must(t *testing.T) func(complexnum.Number, error) complexnum.Number {
	return func(z complexnum.Number, err error) complexnum.Number {
		t.Helper()
		require.NoError(t, err)
		return z
	}
}

func TestNew_RoundTrip(t *testing.T) {
	for _, p := range [][2]float64{
		{0, 0},
		{1, -1},
		{math.Copysign(0, -1), 3},
		{math.MaxFloat64, -math.MaxFloat64},
		{math.SmallestNonzeroFloat64, 0.1},
	} {
		z, err := complexnum.New(p[0], p[1])
		require.NoError(t, err)
		require.Equal(t, math.Float64bits(p[0]), math.Float64bits(z.Real()))
		require.Equal(t, math.Float64bits(p[1]), math.Float64bits(z.Imag()))
	}
}

func TestNew_NonFinite(t *testing.T) {
	for _, p := range [][2]float64{
		{math.NaN(), 0},
		{0, math.NaN()},
		{math.NaN(), math.NaN()},
		{math.Inf(1), 0},
		{0, math.Inf(-1)},
	} {
		_, err := complexnum.New(p[0], p[1])
		require.ErrorIs(t, err, complexnum.ErrInvalidArgument)
	}
	require.Panics(t, func() { complexnum.MustNew(math.Inf(1), 0) })
}

func TestFromPolar(t *testing.T) {
	z, err := complexnum.FromPolar(2, 90, false)
	require.NoError(t, err)
	requireNear(t, complexnum.MustNew(0, 2), z)

	z, err = complexnum.FromPolar(1, math.Pi, true)
	require.NoError(t, err)
	requireNear(t, complexnum.MustNew(-1, 0), z)

	_, err = complexnum.FromPolar(math.Inf(1), 0, true)
	require.ErrorIs(t, err, complexnum.ErrInvalidArgument)
	_, err = complexnum.FromPolar(1, math.NaN(), false)
	require.ErrorIs(t, err, complexnum.ErrInvalidArgument)
}

func TestAbs(t *testing.T) {
	for _, z := range samples {
		want := z.Real()*z.Real() + z.Imag()*z.Imag()
		require.InDelta(t, want, z.Abs()*z.Abs(), eps*math.Max(1, want))
	}
	require.Equal(t, 5.0, complexnum.MustNew(3, -4).Abs())
}

func TestAddSubInverse(t *testing.T) {
	ok := must(t)
	for _, z1 := range samples {
		for _, z2 := range samples {
			requireNear(t, z1, ok(ok(z1.Add(z2)).Sub(z2)))
		}
	}
}

func TestTimesDivInverse(t *testing.T) {
	for _, z1 := range samples {
		for _, z2 := range samples {
			if z2.IsZero() {
				continue
			}
			got, err := must(t)(z1.Times(z2)).Div(z2)
			require.NoError(t, err)
			requireNear(t, z1, got)
		}
	}
}

func TestTimes(t *testing.T) {
	got, err := complexnum.MustNew(1, 2).Times(complexnum.MustNew(3, 4))
	require.NoError(t, err)
	require.Equal(t, complexnum.MustNew(-5, 10), got)
}

func TestDivByZero(t *testing.T) {
	for _, z := range samples {
		_, err := z.Div(complexnum.Zero)
		require.ErrorIs(t, err, complexnum.ErrDivisionByZero)
	}
	_, err := complexnum.MustNew(1, 1).Div(complexnum.MustNew(0, math.Copysign(0, -1)))
	require.ErrorIs(t, err, complexnum.ErrDivisionByZero)
}

func TestConjNeg(t *testing.T) {
	z := complexnum.MustNew(2, -3)
	require.Equal(t, complexnum.MustNew(2, 3), z.Conj())
	require.Equal(t, complexnum.MustNew(-2, 3), z.Neg())
	require.True(t, must(t)(z.Add(z.Neg())).IsZero())
}

func TestArgConvention(t *testing.T) {
	// Real part first.
	require.Equal(t, math.Pi/2, complexnum.MustNew(1, 0).Arg())
	require.Equal(t, 0.0, complexnum.MustNew(0, 1).Arg())
	require.Equal(t, math.Atan2(3, -4), complexnum.MustNew(3, -4).Arg())
}

func TestPow(t *testing.T) {
	for _, z := range samples {
		for _, n := range []int{0, 1, 2, 3} {
			p := must(t)(z.Pow(n))
			require.InDelta(t, math.Pow(z.Abs(), float64(n)), p.Abs(), eps*math.Max(1, p.Abs()))
		}
	}
	// De Moivre with Arg(1) = π/2.
	p := must(t)(complexnum.MustNew(1, 0).Pow(2))
	require.InDelta(t, -1, p.Real(), eps)
	require.InDelta(t, 0, p.Imag(), eps)
}

func TestSqrt(t *testing.T) {
	ok := must(t)
	require.True(t, ok(complexnum.Zero.Sqrt()).IsZero())
	for _, z := range samples {
		s := ok(z.Sqrt())
		require.InDelta(t, z.Abs(), s.Abs()*s.Abs(), eps*math.Max(1, z.Abs()))
	}
	s := ok(complexnum.MustNew(0, 4).Sqrt())
	requireNear(t, complexnum.MustNew(2, 0), s)
}

func TestSgn(t *testing.T) {
	cases := []struct {
		z    complexnum.Number
		want float64
	}{
		{complexnum.Zero, 0},
		{complexnum.MustNew(2, -5), 1},
		{complexnum.MustNew(-0.1, 5), -1},
		{complexnum.MustNew(0, 3), 1},
		{complexnum.MustNew(0, -3), -1},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.z.Sgn(), "Sgn(%s)", c.z)
	}
}

func TestTrig(t *testing.T) {
	ok := must(t)
	requireNear(t, complexnum.Zero, ok(complexnum.Zero.Sin()))
	requireNear(t, complexnum.MustNew(1, 0), ok(complexnum.Zero.Cos()))

	tan, err := complexnum.Zero.Tan()
	require.NoError(t, err)
	requireNear(t, complexnum.Zero, tan)

	one := complexnum.MustNew(1, 0)
	for _, z := range []complexnum.Number{
		complexnum.MustNew(0.3, 0.7),
		complexnum.MustNew(-1.2, 0.4),
		complexnum.MustNew(2, -1),
	} {
		sin, cos := ok(z.Sin()), ok(z.Cos())
		requireNear(t, one, ok(ok(sin.Times(sin)).Add(ok(cos.Times(cos)))))

		sinh, cosh := ok(z.Sinh()), ok(z.Cosh())
		requireNear(t, one, ok(ok(cosh.Times(cosh)).Sub(ok(sinh.Times(sinh)))))

		tan, err := z.Tan()
		require.NoError(t, err)
		want, err := sin.Div(cos)
		require.NoError(t, err)
		requireNear(t, want, tan)
	}
}

func TestExpLog(t *testing.T) {
	ok := must(t)
	requireNear(t, complexnum.MustNew(1, 0), ok(complexnum.Zero.Exp()))
	requireNear(t, complexnum.MustNew(-1, 0), ok(complexnum.MustNew(0, math.Pi).Exp()))

	l, err := complexnum.MustNew(math.E, 0).Log()
	require.NoError(t, err)
	require.InDelta(t, 1, l.Real(), eps)
	require.Equal(t, math.Pi/2, l.Imag())

	_, err = complexnum.Zero.Log()
	require.ErrorIs(t, err, complexnum.ErrInvalidArgument)
}

func TestDiv_ExtremeMagnitudes(t *testing.T) {
	ok := must(t)
	tiny := complexnum.MustNew(1e-200, 0)
	one := complexnum.MustNew(1, 0)

	require.True(t, ok(complexnum.Zero.Div(tiny)).IsZero())
	requireNear(t, complexnum.MustNew(1e200, 0), ok(one.Div(tiny)))

	// c² + d² would underflow to 0 here and overflow there.
	requireNear(t, complexnum.MustNew(0.5, -0.5), ok(tiny.Div(complexnum.MustNew(1e-200, 1e-200))))
	huge := complexnum.MustNew(1e300, 1e300)
	requireNear(t, complexnum.MustNew(1, 0), ok(huge.Div(huge)))

	_, err := complexnum.MustNew(1e300, 0).Div(complexnum.MustNew(1e-300, 0))
	require.ErrorIs(t, err, complexnum.ErrInvalidArgument)
}

func TestOverflowIsAnError(t *testing.T) {
	big := complexnum.MustNew(1e200, 1e200)
	maxed := complexnum.MustNew(math.MaxFloat64, -math.MaxFloat64)

	for name, op := range map[string]func() (complexnum.Number, error){
		"Times":   func() (complexnum.Number, error) { return big.Times(big) },
		"Add":     func() (complexnum.Number, error) { return maxed.Add(maxed) },
		"Sub":     func() (complexnum.Number, error) { return maxed.Sub(maxed.Neg()) },
		"Pow":     func() (complexnum.Number, error) { return big.Pow(2) },
		"PowZero": func() (complexnum.Number, error) { return complexnum.Zero.Pow(-1) },
		"Exp":     func() (complexnum.Number, error) { return complexnum.MustNew(1000, 0).Exp() },
		"Sin":     func() (complexnum.Number, error) { return complexnum.MustNew(1, 1000).Sin() },
		"Cos":     func() (complexnum.Number, error) { return complexnum.MustNew(1, 1000).Cos() },
		"Sinh":    func() (complexnum.Number, error) { return complexnum.MustNew(1000, 1).Sinh() },
		"Cosh":    func() (complexnum.Number, error) { return complexnum.MustNew(1000, 1).Cosh() },
		"Tan":     func() (complexnum.Number, error) { return complexnum.MustNew(1, 1000).Tan() },
	} {
		z, err := op()
		require.ErrorIs(t, err, complexnum.ErrInvalidArgument, name)
		require.True(t, z.IsZero(), name)
	}

	// Huge operands whose results stay finite are fine.
	require.InDelta(t, 1.189e100, must(t)(big.Sqrt()).Abs(), 1e97)
	require.InDelta(t, 460.86, must(t)(big.Log()).Real(), 0.01)
	_, err := maxed.Sqrt()
	require.ErrorIs(t, err, complexnum.ErrInvalidArgument)
}

func TestEqualHash(t *testing.T) {
	a := complexnum.MustNew(1.5, -2)
	b := complexnum.MustNew(1.5, -2)
	require.True(t, a.Equal(b))
	require.Equal(t, a.Hash(), b.Hash())

	pz := complexnum.MustNew(0, 0)
	nz := complexnum.MustNew(math.Copysign(0, -1), 0)
	require.False(t, pz.Equal(nz))
	require.NotEqual(t, pz.Hash(), nz.Hash())

	seen := map[complexnum.Number]int{a: 1}
	require.Equal(t, 1, seen[b])
}

func TestString(t *testing.T) {
	cases := []struct {
		z    complexnum.Number
		want string
	}{
		{complexnum.Zero, "0"},
		{complexnum.MustNew(2, 0), "2"},
		{complexnum.MustNew(0, 1), "i"},
		{complexnum.MustNew(0, -2.5), "-2.5i"},
		{complexnum.MustNew(1.5, 1), "1.5 + i"},
		{complexnum.MustNew(1.5, -1), "1.5 - i"},
		{complexnum.MustNew(-3, 4), "-3 + 4i"},
		{complexnum.MustNew(3, -4), "3 - 4i"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.z.String())
	}
	require.Equal(t, "0", complexnum.Zero.PolarString())
	require.Equal(t, "5( cos(0) + i sin(0) )", complexnum.MustNew(0, 5).PolarString())
}
