package gcprop

// BdB packs a point sample of the magnetic field: the value and the three
// spatial derivatives of each cylindrical component. Layout, per component
// (R, phi, z): value, d/dR, d/dphi, d/dz. The phi derivatives are plain
// partials; the 1/R metric factor is applied by the consumer.
type BdB [12]float64

// B returns the field value part of the sample.
func (b BdB) B() [3]float64 {
	return [3]float64{b[0], b[4], b[8]}
}

// Norm returns the field magnitude of the sample.
func (b BdB) Norm() float64 {
	return norm3(b.B())
}

// FieldProvider is the point-evaluation capability the stepper consumes. It
// is deliberately unaware of how the field is represented: analytic, gridded
// or anything else sits behind the same five calls. Implementations must be
// safe for concurrent use, since independent batches may be stepped from
// several goroutines against one provider.
type FieldProvider interface {
	// EvalBdB returns the magnetic field value and gradient at (r, phi, z).
	EvalBdB(r, phi, z float64) (BdB, Fault)
	// EvalE returns the electric field at (r, phi, z). The magnetic sample at
	// the same point is passed in because some representations derive the
	// electric field from it.
	EvalE(r, phi, z float64, b BdB) ([3]float64, Fault)
	// EvalPsi returns the poloidal flux at (r, phi, z).
	EvalPsi(r, phi, z float64) (float64, Fault)
	// EvalRho converts a poloidal flux value to normalized flux.
	EvalRho(psi float64) (float64, Fault)
	// Axis returns the (R, z) position of the magnetic axis.
	Axis() (r, z float64)
}
