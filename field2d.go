package gcprop

import (
	"fmt"
	"math"
)

// Grid2D describes a uniform rectangular (R, z) grid.
type Grid2D struct {
	NR, NZ     int
	RMin, RMax float64
	ZMin, ZMax float64
}

func (g Grid2D) dR() float64 { return (g.RMax - g.RMin) / float64(g.NR-1) }
func (g Grid2D) dZ() float64 { return (g.ZMax - g.ZMin) / float64(g.NZ-1) }

func (g Grid2D) validate() error {
	if g.NR < 3 || g.NZ < 3 {
		return fmt.Errorf("grid needs at least 3x3 points, got %dx%d", g.NR, g.NZ)
	}
	if g.RMin <= 0 {
		return fmt.Errorf("grid must lie at positive major radius, RMin=%f", g.RMin)
	}
	if g.RMax <= g.RMin || g.ZMax <= g.ZMin {
		return fmt.Errorf("degenerate grid extent [%f,%f]x[%f,%f]", g.RMin, g.RMax, g.ZMin, g.ZMax)
	}
	return nil
}

// Field2D is an axisymmetric FieldProvider backed by bicubic splines of the
// three field components and the poloidal flux on a uniform (R, z) grid.
// Evaluation outside the grid is a domain fault; the diagnostic code
// identifies which quantity was being interpolated.
type Field2D struct {
	br, bphi, bz, psi *spline2D
	axisR, axisZ      float64
	psiAxis, psiEdge  float64
	e                 [3]float64
}

// NewField2D builds the spline representation from row-major gridded samples
// (index j*NR+i for the point at (RMin + i dR, ZMin + j dZ)). psiAxis and
// psiEdge are the flux values used for the normalized-flux conversion.
func NewField2D(grid Grid2D, br, bphi, bz, psi []float64, axisR, axisZ, psiAxis, psiEdge float64, e [3]float64) (*Field2D, error) {
	if err := grid.validate(); err != nil {
		return nil, err
	}
	if psiEdge == psiAxis {
		return nil, fmt.Errorf("psi axis and edge values coincide (%f)", psiAxis)
	}
	f := &Field2D{axisR: axisR, axisZ: axisZ, psiAxis: psiAxis, psiEdge: psiEdge, e: e}
	var err error
	for _, c := range []struct {
		dst  **spline2D
		data []float64
		name string
	}{
		{&f.br, br, "B_R"},
		{&f.bphi, bphi, "B_phi"},
		{&f.bz, bz, "B_z"},
		{&f.psi, psi, "psi"},
	} {
		*c.dst, err = newSpline2D(c.data, grid.NR, grid.NZ, grid.RMin, grid.dR(), grid.ZMin, grid.dZ())
		if err != nil {
			return nil, fmt.Errorf("%s spline: %s", c.name, err)
		}
	}
	return f, nil
}

// GridField samples another FieldProvider onto a grid and returns its spline
// representation. This is how an analytic field is turned into the gridded
// form, and how the interpolation path is validated against closed-form
// gradients in the tests.
func GridField(src FieldProvider, grid Grid2D, psiEdge float64) (*Field2D, error) {
	if err := grid.validate(); err != nil {
		return nil, err
	}
	n := grid.NR * grid.NZ
	br := make([]float64, n)
	bphi := make([]float64, n)
	bz := make([]float64, n)
	psi := make([]float64, n)
	for j := 0; j < grid.NZ; j++ {
		z := grid.ZMin + float64(j)*grid.dZ()
		for i := 0; i < grid.NR; i++ {
			r := grid.RMin + float64(i)*grid.dR()
			b, fault := src.EvalBdB(r, 0, z)
			if !fault.OK() {
				return nil, fmt.Errorf("sampling source field at (%f, %f): %s", r, z, fault)
			}
			p, fault := src.EvalPsi(r, 0, z)
			if !fault.OK() {
				return nil, fmt.Errorf("sampling source flux at (%f, %f): %s", r, z, fault)
			}
			br[j*grid.NR+i] = b[0]
			bphi[j*grid.NR+i] = b[4]
			bz[j*grid.NR+i] = b[8]
			psi[j*grid.NR+i] = p
		}
	}
	axisR, axisZ := src.Axis()
	psiAxis, fault := src.EvalPsi(axisR, 0, axisZ)
	if !fault.OK() {
		return nil, fmt.Errorf("sampling source flux on axis: %s", fault)
	}
	var e [3]float64
	if b, f := src.EvalBdB(axisR+grid.dR(), 0, axisZ); f.OK() {
		// Carry over a uniform E if the source has one.
		e, _ = src.EvalE(axisR+grid.dR(), 0, axisZ, b)
	}
	return NewField2D(grid, br, bphi, bz, psi, axisR, axisZ, psiAxis, psiEdge, e)
}

// EvalBdB implements the FieldProvider interface. Axisymmetric: all phi
// derivatives are zero.
func (f *Field2D) EvalBdB(r, phi, z float64) (BdB, Fault) {
	var b BdB
	var ok bool
	b[0], b[1], b[3], ok = f.br.eval(r, z)
	if !ok {
		return BdB{}, raise(FaultOutsideDomain, ModBField)
	}
	b[4], b[5], b[7], ok = f.bphi.eval(r, z)
	if !ok {
		return BdB{}, raise(FaultOutsideDomain, ModBField)
	}
	b[8], b[9], b[11], ok = f.bz.eval(r, z)
	if !ok {
		return BdB{}, raise(FaultOutsideDomain, ModBField)
	}
	return b, Fault{}
}

// EvalE implements the FieldProvider interface.
func (f *Field2D) EvalE(r, phi, z float64, b BdB) ([3]float64, Fault) {
	return f.e, Fault{}
}

// EvalPsi implements the FieldProvider interface.
func (f *Field2D) EvalPsi(r, phi, z float64) (float64, Fault) {
	psi, _, _, ok := f.psi.eval(r, z)
	if !ok {
		return 0, raise(FaultOutsideDomain, ModBField)
	}
	return psi, Fault{}
}

// EvalRho implements the FieldProvider interface.
func (f *Field2D) EvalRho(psi float64) (float64, Fault) {
	frac := (psi - f.psiAxis) / (f.psiEdge - f.psiAxis)
	if frac < 0 {
		return 0, raise(FaultOutsideDomain, ModBField)
	}
	return math.Sqrt(frac), Fault{}
}

// Axis implements the FieldProvider interface.
func (f *Field2D) Axis() (float64, float64) {
	return f.axisR, f.axisZ
}
