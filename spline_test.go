package gcprop

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestSpline1DLinearExact(t *testing.T) {
	// A natural spline has zero second derivatives at the knots for linear
	// data, so it reproduces the line to machine precision.
	y := make([]float64, 11)
	for i := range y {
		y[i] = 3 + 0.7*float64(i)
	}
	s, err := newSpline1D(y, 2.0, 0.5)
	if err != nil {
		t.Fatalf("spline: %s", err)
	}
	for x := 2.0; x <= 7.0; x += 0.13 {
		f, df, ok := s.eval(x)
		if !ok {
			t.Fatalf("x = %f rejected", x)
		}
		want := 3 + 0.7*(x-2.0)/0.5
		if !scalar.EqualWithinAbs(f, want, 1e-12) {
			t.Fatalf("f(%f) = %f, want %f", x, f, want)
		}
		if !scalar.EqualWithinAbs(df, 0.7/0.5, 1e-12) {
			t.Fatalf("f'(%f) = %f, want %f", x, df, 0.7/0.5)
		}
	}
}

func TestSpline1DSmooth(t *testing.T) {
	const n = 101
	y := make([]float64, n)
	dx := twoPi / float64(n-1)
	for i := range y {
		y[i] = math.Sin(float64(i) * dx)
	}
	s, err := newSpline1D(y, 0, dx)
	if err != nil {
		t.Fatalf("spline: %s", err)
	}
	// Stay away from the ends, where the natural boundary condition does not
	// match sin''.
	for x := 1.0; x <= 5.0; x += 0.017 {
		f, df, ok := s.eval(x)
		if !ok {
			t.Fatalf("x = %f rejected", x)
		}
		if !scalar.EqualWithinAbs(f, math.Sin(x), 1e-7) {
			t.Fatalf("f(%f) = %e, want %e", x, f, math.Sin(x))
		}
		if !scalar.EqualWithinAbs(df, math.Cos(x), 5e-5) {
			t.Fatalf("f'(%f) = %e, want %e", x, df, math.Cos(x))
		}
	}
}

func TestSpline1DRange(t *testing.T) {
	s, err := newSpline1D([]float64{0, 1, 2}, 0, 1)
	if err != nil {
		t.Fatalf("spline: %s", err)
	}
	if _, _, ok := s.eval(-1e-9); ok {
		t.Fatal("point below the grid accepted")
	}
	if _, _, ok := s.eval(2 + 1e-9); ok {
		t.Fatal("point above the grid accepted")
	}
	if _, _, ok := s.eval(2); !ok {
		t.Fatal("upper boundary rejected")
	}
	if _, err = newSpline1D([]float64{0, 1}, 0, 1); err == nil {
		t.Fatal("two knots accepted")
	}
	if _, err = newSpline1D([]float64{0, 1, 2}, 0, -1); err == nil {
		t.Fatal("negative spacing accepted")
	}
}

func TestSpline2DPlaneExact(t *testing.T) {
	const nx, ny = 7, 9
	f := make([]float64, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			f[j*nx+i] = 1.5 + 2.0*float64(i) - 0.5*float64(j)
		}
	}
	s, err := newSpline2D(f, nx, ny, 0, 1, 0, 1)
	if err != nil {
		t.Fatalf("spline: %s", err)
	}
	for y := 0.0; y <= 8.0; y += 0.61 {
		for x := 0.0; x <= 6.0; x += 0.43 {
			v, dvdx, dvdy, ok := s.eval(x, y)
			if !ok {
				t.Fatalf("(%f, %f) rejected", x, y)
			}
			if !scalar.EqualWithinAbs(v, 1.5+2*x-0.5*y, 1e-12) {
				t.Fatalf("f(%f, %f) = %f", x, y, v)
			}
			if !scalar.EqualWithinAbs(dvdx, 2, 1e-12) || !scalar.EqualWithinAbs(dvdy, -0.5, 1e-12) {
				t.Fatalf("grad f(%f, %f) = (%f, %f)", x, y, dvdx, dvdy)
			}
		}
	}
}

func TestSpline2DSmooth(t *testing.T) {
	const nx, ny = 61, 61
	f := make([]float64, nx*ny)
	dx := 0.1
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			f[j*nx+i] = math.Sin(float64(i)*dx) * math.Cos(float64(j)*dx)
		}
	}
	s, err := newSpline2D(f, nx, ny, 0, dx, 0, dx)
	if err != nil {
		t.Fatalf("spline: %s", err)
	}
	// Interior points only.
	for y := 1.0; y <= 5.0; y += 0.37 {
		for x := 1.0; x <= 5.0; x += 0.29 {
			v, dvdx, dvdy, ok := s.eval(x, y)
			if !ok {
				t.Fatalf("(%f, %f) rejected", x, y)
			}
			if !scalar.EqualWithinAbs(v, math.Sin(x)*math.Cos(y), 1e-6) {
				t.Fatalf("f(%f, %f) = %e, want %e", x, y, v, math.Sin(x)*math.Cos(y))
			}
			if !scalar.EqualWithinAbs(dvdx, math.Cos(x)*math.Cos(y), 1e-4) {
				t.Fatalf("df/dx(%f, %f) = %e", x, y, dvdx)
			}
			if !scalar.EqualWithinAbs(dvdy, -math.Sin(x)*math.Sin(y), 1e-4) {
				t.Fatalf("df/dy(%f, %f) = %e", x, y, dvdy)
			}
		}
	}
}

func TestSpline2DValidation(t *testing.T) {
	if _, err := newSpline2D(make([]float64, 4), 2, 2, 0, 1, 0, 1); err == nil {
		t.Fatal("2x2 grid accepted")
	}
	if _, err := newSpline2D(make([]float64, 8), 3, 3, 0, 1, 0, 1); err == nil {
		t.Fatal("sample count mismatch accepted")
	}
	if _, err := newSpline2D(make([]float64, 9), 3, 3, 0, 0, 0, 1); err == nil {
		t.Fatal("zero spacing accepted")
	}
	s, err := newSpline2D(make([]float64, 9), 3, 3, 0, 1, 0, 1)
	if err != nil {
		t.Fatalf("spline: %s", err)
	}
	if _, _, _, ok := s.eval(2.5, 1); ok {
		t.Fatal("point outside the grid accepted")
	}
}
