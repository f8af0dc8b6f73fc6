package gcprop

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

/* Cubic spline interpolation on uniform grids, value plus first derivatives.
The 2-D variant stores the compact coefficient set (f, f_xx, f_yy, f_xxyy at
the knots) and combines two 1-D evaluations per query, which keeps the memory
footprint at four arrays instead of sixteen per-cell coefficients. */

// naturalSecondDerivs solves the natural cubic spline system for the second
// derivatives at the knots of uniformly spaced samples. Interior knots
// satisfy m[i-1] + 4 m[i] + m[i+1] = 6 (y[i-1] - 2 y[i] + y[i+1]) / dx²;
// the boundary second derivatives are zero.
func naturalSecondDerivs(y []float64, dx float64) []float64 {
	n := len(y)
	m := make([]float64, n)
	if n < 3 {
		return m
	}
	k := n - 2
	a := mat.NewDense(k, k, nil)
	rhs := mat.NewVecDense(k, nil)
	for i := 0; i < k; i++ {
		a.Set(i, i, 4)
		if i > 0 {
			a.Set(i, i-1, 1)
		}
		if i < k-1 {
			a.Set(i, i+1, 1)
		}
		rhs.SetVec(i, 6*(y[i]-2*y[i+1]+y[i+2])/(dx*dx))
	}
	var sol mat.VecDense
	if err := sol.SolveVec(a, rhs); err != nil {
		// The system is strictly diagonally dominant, so this cannot happen
		// for finite input.
		panic(fmt.Errorf("spline system is singular: %s", err))
	}
	for i := 0; i < k; i++ {
		m[i+1] = sol.AtVec(i)
	}
	return m
}

// cubic1D evaluates the cubic segment between two knots from the knot values
// and second derivatives, at offset t in [0, d] from the left knot. Returns
// the value and the first derivative.
func cubic1D(f0, f1, m0, m1, t, d float64) (float64, float64) {
	c := (f1-f0)/d - d*(2*m0+m1)/6
	b := m0 / 2
	a := (m1 - m0) / (6 * d)
	return f0 + t*(c+t*(b+t*a)), c + t*(2*b+3*t*a)
}

// spline1D interpolates samples on a uniform 1-D grid with natural boundary
// conditions.
type spline1D struct {
	xmin, dx float64
	y, m     []float64
}

func newSpline1D(y []float64, xmin, dx float64) (*spline1D, error) {
	if len(y) < 3 {
		return nil, fmt.Errorf("spline needs at least 3 knots, got %d", len(y))
	}
	if dx <= 0 {
		return nil, fmt.Errorf("knot spacing must be positive, got %f", dx)
	}
	yy := make([]float64, len(y))
	copy(yy, y)
	return &spline1D{xmin: xmin, dx: dx, y: yy, m: naturalSecondDerivs(yy, dx)}, nil
}

// eval returns the interpolated value and first derivative at x, with
// ok = false when x falls outside the grid.
func (s *spline1D) eval(x float64) (f, df float64, ok bool) {
	xmax := s.xmin + float64(len(s.y)-1)*s.dx
	if x < s.xmin || x > xmax {
		return 0, 0, false
	}
	i := int((x - s.xmin) / s.dx)
	if i > len(s.y)-2 {
		i = len(s.y) - 2
	}
	t := x - (s.xmin + float64(i)*s.dx)
	f, df = cubic1D(s.y[i], s.y[i+1], s.m[i], s.m[i+1], t, s.dx)
	return f, df, true
}

// spline2D interpolates samples on a uniform 2-D grid, natural boundary
// conditions in both directions. Data is row-major: f[j*nx+i] is the sample
// at (xmin + i dx, ymin + j dy).
type spline2D struct {
	nx, ny             int
	xmin, dx, ymin, dy float64
	f, fxx, fyy, fxxyy []float64
}

func newSpline2D(f []float64, nx, ny int, xmin, dx, ymin, dy float64) (*spline2D, error) {
	if nx < 3 || ny < 3 {
		return nil, fmt.Errorf("2-D spline needs at least 3x3 knots, got %dx%d", nx, ny)
	}
	if len(f) != nx*ny {
		return nil, fmt.Errorf("expected %d samples, got %d", nx*ny, len(f))
	}
	if dx <= 0 || dy <= 0 {
		return nil, fmt.Errorf("knot spacing must be positive, got dx=%f dy=%f", dx, dy)
	}
	s := &spline2D{
		nx: nx, ny: ny, xmin: xmin, dx: dx, ymin: ymin, dy: dy,
		f:     make([]float64, nx*ny),
		fxx:   make([]float64, nx*ny),
		fyy:   make([]float64, nx*ny),
		fxxyy: make([]float64, nx*ny),
	}
	copy(s.f, f)

	// Second x-derivatives along every row.
	for j := 0; j < ny; j++ {
		copy(s.fxx[j*nx:(j+1)*nx], naturalSecondDerivs(s.f[j*nx:(j+1)*nx], dx))
	}
	// Second y-derivatives along every column, of both f and fxx.
	col := make([]float64, ny)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			col[j] = s.f[j*nx+i]
		}
		for j, v := range naturalSecondDerivs(col, dy) {
			s.fyy[j*nx+i] = v
		}
		for j := 0; j < ny; j++ {
			col[j] = s.fxx[j*nx+i]
		}
		for j, v := range naturalSecondDerivs(col, dy) {
			s.fxxyy[j*nx+i] = v
		}
	}
	return s, nil
}

// eval returns the interpolated value and both first derivatives at (x, y),
// with ok = false when the point falls outside the grid.
func (s *spline2D) eval(x, y float64) (val, dvdx, dvdy float64, ok bool) {
	xmax := s.xmin + float64(s.nx-1)*s.dx
	ymax := s.ymin + float64(s.ny-1)*s.dy
	if x < s.xmin || x > xmax || y < s.ymin || y > ymax {
		return 0, 0, 0, false
	}
	i := int((x - s.xmin) / s.dx)
	if i > s.nx-2 {
		i = s.nx - 2
	}
	j := int((y - s.ymin) / s.dy)
	if j > s.ny-2 {
		j = s.ny - 2
	}
	tx := x - (s.xmin + float64(i)*s.dx)
	ty := y - (s.ymin + float64(j)*s.dy)

	at := func(jj, ii int) int { return jj*s.nx + ii }

	// Interpolate along x on the two bounding knot rows, carrying both the
	// values and their second y-derivatives so a single cubic along y
	// finishes the job. The y-cubic is linear in its inputs, so its x
	// derivative is the same cubic applied to the x derivatives.
	f0, df0 := cubic1D(s.f[at(j, i)], s.f[at(j, i+1)], s.fxx[at(j, i)], s.fxx[at(j, i+1)], tx, s.dx)
	f1, df1 := cubic1D(s.f[at(j+1, i)], s.f[at(j+1, i+1)], s.fxx[at(j+1, i)], s.fxx[at(j+1, i+1)], tx, s.dx)
	g0, dg0 := cubic1D(s.fyy[at(j, i)], s.fyy[at(j, i+1)], s.fxxyy[at(j, i)], s.fxxyy[at(j, i+1)], tx, s.dx)
	g1, dg1 := cubic1D(s.fyy[at(j+1, i)], s.fyy[at(j+1, i+1)], s.fxxyy[at(j+1, i)], s.fxxyy[at(j+1, i+1)], tx, s.dx)

	val, dvdy = cubic1D(f0, f1, g0, g1, ty, s.dy)
	dvdx, _ = cubic1D(df0, df1, dg0, dg1, ty, s.dy)
	return val, dvdx, dvdy, true
}
