package gcprop

import (
	"fmt"
	"math"
)

/* Analytic field models. These have closed-form gradients and synthetic
circular flux surfaces, which makes them the verification workhorses: a
CircularField with zero toroidal component produces exact circular poloidal
guiding-center orbits of known period. */

// CircularField is an axisymmetric field whose poloidal component has
// constant magnitude BPol and circulates around the magnetic axis, with an
// optional 1/R toroidal component and a uniform electric field. The field
// magnitude of the purely poloidal variant is constant, so every drift term
// vanishes in the poloidal plane and the guiding center follows the circular
// field lines exactly.
type CircularField struct {
	AxisR, AxisZ float64    // magnetic axis [m]
	BPol         float64    // poloidal field magnitude [T]
	BTor         float64    // toroidal field at the axis radius [T]
	RhoEdge      float64    // minor radius where normalized flux reaches 1 [m]
	E            [3]float64 // uniform electric field [V/m]
}

// NewCircularField validates the parameters and returns the field.
func NewCircularField(axisR, axisZ, bpol, btor, rhoEdge float64) (*CircularField, error) {
	if axisR <= 0 {
		return nil, fmt.Errorf("axis radius must be positive, got %f", axisR)
	}
	if bpol <= 0 {
		return nil, fmt.Errorf("poloidal field must be positive, got %f", bpol)
	}
	if rhoEdge <= 0 {
		return nil, fmt.Errorf("edge minor radius must be positive, got %f", rhoEdge)
	}
	return &CircularField{AxisR: axisR, AxisZ: axisZ, BPol: bpol, BTor: btor, RhoEdge: rhoEdge}, nil
}

// EvalBdB implements the FieldProvider interface.
func (f *CircularField) EvalBdB(r, phi, z float64) (BdB, Fault) {
	x := r - f.AxisR
	y := z - f.AxisZ
	rho2 := x*x + y*y
	if rho2 == 0 {
		// The poloidal direction is undefined on the axis itself.
		return BdB{}, raise(FaultOutsideDomain, ModBField)
	}
	rho := math.Sqrt(rho2)
	rho3 := rho * rho2

	var b BdB
	// B_R = -BPol z'/rho
	b[0] = -f.BPol * y / rho
	b[1] = f.BPol * x * y / rho3
	b[3] = -f.BPol * x * x / rho3
	// B_phi = BTor AxisR / R
	b[4] = f.BTor * f.AxisR / r
	b[5] = -f.BTor * f.AxisR / (r * r)
	// B_z = BPol x'/rho
	b[8] = f.BPol * x / rho
	b[9] = f.BPol * y * y / rho3
	b[11] = -f.BPol * x * y / rho3
	return b, Fault{}
}

// EvalE implements the FieldProvider interface.
func (f *CircularField) EvalE(r, phi, z float64, b BdB) ([3]float64, Fault) {
	return f.E, Fault{}
}

// EvalPsi implements the FieldProvider interface. The flux label is the
// synthetic BPol ρ²/2 of concentric circular surfaces.
func (f *CircularField) EvalPsi(r, phi, z float64) (float64, Fault) {
	x := r - f.AxisR
	y := z - f.AxisZ
	return 0.5 * f.BPol * (x*x + y*y), Fault{}
}

// EvalRho implements the FieldProvider interface: the normalized flux is the
// minor radius of the flux surface over the edge minor radius.
func (f *CircularField) EvalRho(psi float64) (float64, Fault) {
	if psi < 0 {
		return 0, raise(FaultOutsideDomain, ModBField)
	}
	return math.Sqrt(2*psi/f.BPol) / f.RhoEdge, Fault{}
}

// Axis implements the FieldProvider interface.
func (f *CircularField) Axis() (float64, float64) {
	return f.AxisR, f.AxisZ
}

// ToroidalField is a purely toroidal 1/R field. There is no poloidal field
// at all, so a guiding center only streams toroidally and drifts vertically:
// useful for checking the drift terms in isolation.
type ToroidalField struct {
	AxisR, AxisZ float64    // nominal axis for the synthetic flux label [m]
	B0           float64    // toroidal field at AxisR [T]
	RhoEdge      float64    // minor radius where normalized flux reaches 1 [m]
	E            [3]float64 // uniform electric field [V/m]
}

// NewToroidalField validates the parameters and returns the field.
func NewToroidalField(axisR, axisZ, b0, rhoEdge float64) (*ToroidalField, error) {
	if axisR <= 0 {
		return nil, fmt.Errorf("axis radius must be positive, got %f", axisR)
	}
	if b0 == 0 {
		return nil, fmt.Errorf("toroidal field may not be zero")
	}
	if rhoEdge <= 0 {
		return nil, fmt.Errorf("edge minor radius must be positive, got %f", rhoEdge)
	}
	return &ToroidalField{AxisR: axisR, AxisZ: axisZ, B0: b0, RhoEdge: rhoEdge}, nil
}

// EvalBdB implements the FieldProvider interface.
func (f *ToroidalField) EvalBdB(r, phi, z float64) (BdB, Fault) {
	if r <= 0 {
		return BdB{}, raise(FaultOutsideDomain, ModBField)
	}
	var b BdB
	b[4] = f.B0 * f.AxisR / r
	b[5] = -f.B0 * f.AxisR / (r * r)
	return b, Fault{}
}

// EvalE implements the FieldProvider interface.
func (f *ToroidalField) EvalE(r, phi, z float64, b BdB) ([3]float64, Fault) {
	return f.E, Fault{}
}

// EvalPsi implements the FieldProvider interface.
func (f *ToroidalField) EvalPsi(r, phi, z float64) (float64, Fault) {
	x := r - f.AxisR
	y := z - f.AxisZ
	return 0.5 * (x*x + y*y), Fault{}
}

// EvalRho implements the FieldProvider interface.
func (f *ToroidalField) EvalRho(psi float64) (float64, Fault) {
	if psi < 0 {
		return 0, raise(FaultOutsideDomain, ModBField)
	}
	return math.Sqrt(2*psi) / f.RhoEdge, Fault{}
}

// Axis implements the FieldProvider interface.
func (f *ToroidalField) Axis() (float64, float64) {
	return f.AxisR, f.AxisZ
}
