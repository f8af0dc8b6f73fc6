package gcprop

import "math"

// DefaultBatchCapacity is the number of lanes a batch carries when the
// caller does not pick one. Sized like a typical vector-width work unit so a
// driver can map batches directly onto SIMD-style blocks, but correctness
// never depends on the actual value.
const DefaultBatchCapacity = 16

// MarkerBatch is a fixed-capacity structure-of-arrays container of
// guiding-center markers. One index across all the slices is a lane; lanes
// are fully independent and a stepper owns the whole batch exclusively for
// the duration of a Step call.
//
// A lane with Running[i] == false is never touched again except by Deposit,
// which re-initializes the slot for a new run. Its fault, once set, stays.
type MarkerBatch struct {
	// Phase-space state.
	R     []float64 // major radius [m]
	Phi   []float64 // toroidal angle [rad]
	Z     []float64 // vertical coordinate [m]
	Vpar  []float64 // parallel velocity [m/s]
	Mu    []float64 // magnetic moment [J/T]
	Theta []float64 // gyroangle, kept in [0, 2π)

	// Physical parameters, immutable while a lane lives.
	Mass   []float64 // [kg]
	Charge []float64 // [C]

	// Cached magnetic field sample at the current position: value and the
	// three spatial derivatives of each cylindrical component, refreshed
	// after every committed step, plus the normalized flux there.
	BR, BRdR, BRdPhi, BRdZ         []float64
	BPhi, BPhidR, BPhidPhi, BPhidZ []float64
	BZ, BZdR, BZdPhi, BZdZ         []float64
	Rho                            []float64

	// Bookkeeping.
	ID      []uint64
	Weight  []float64
	Pol     []float64 // cumulative poloidal angle [rad], never wrapped
	Running []bool
	Err     []Fault
}

// NewBatch allocates a batch of the given lane capacity, all lanes inactive.
func NewBatch(capacity int) *MarkerBatch {
	if capacity <= 0 {
		panic("batch capacity must be positive")
	}
	mk := func() []float64 { return make([]float64, capacity) }
	return &MarkerBatch{
		R: mk(), Phi: mk(), Z: mk(), Vpar: mk(), Mu: mk(), Theta: mk(),
		Mass: mk(), Charge: mk(),
		BR: mk(), BRdR: mk(), BRdPhi: mk(), BRdZ: mk(),
		BPhi: mk(), BPhidR: mk(), BPhidPhi: mk(), BPhidZ: mk(),
		BZ: mk(), BZdR: mk(), BZdPhi: mk(), BZdZ: mk(),
		Rho: mk(), Weight: mk(), Pol: mk(),
		ID:      make([]uint64, capacity),
		Running: make([]bool, capacity),
		Err:     make([]Fault, capacity),
	}
}

// Cap returns the lane capacity of the batch.
func (p *MarkerBatch) Cap() int {
	return len(p.R)
}

// ActiveCount returns the number of lanes still advancing.
func (p *MarkerBatch) ActiveCount() int {
	n := 0
	for _, r := range p.Running {
		if r {
			n++
		}
	}
	return n
}

// state gathers the six phase-space coordinates of lane i.
func (p *MarkerBatch) state(i int) [6]float64 {
	return [6]float64{p.R[i], p.Phi[i], p.Z[i], p.Vpar[i], p.Mu[i], p.Theta[i]}
}

// fieldSample gathers the cached field sample of lane i.
func (p *MarkerBatch) fieldSample(i int) BdB {
	return BdB{
		p.BR[i], p.BRdR[i], p.BRdPhi[i], p.BRdZ[i],
		p.BPhi[i], p.BPhidR[i], p.BPhidPhi[i], p.BPhidZ[i],
		p.BZ[i], p.BZdR[i], p.BZdPhi[i], p.BZdZ[i],
	}
}

// setFieldSample scatters a field sample into lane i.
func (p *MarkerBatch) setFieldSample(i int, b BdB) {
	p.BR[i], p.BRdR[i], p.BRdPhi[i], p.BRdZ[i] = b[0], b[1], b[2], b[3]
	p.BPhi[i], p.BPhidR[i], p.BPhidPhi[i], p.BPhidZ[i] = b[4], b[5], b[6], b[7]
	p.BZ[i], p.BZdR[i], p.BZdPhi[i], p.BZdZ[i] = b[8], b[9], b[10], b[11]
}

// fail records the terminal fault of lane i and deactivates it. The first
// fault wins; a lane already carrying one is left alone.
func (p *MarkerBatch) fail(i int, f Fault) {
	if !p.Err[i].OK() {
		return
	}
	p.Err[i] = f
	p.Running[i] = false
}

// Deposit populates lane i from a marker descriptor: converts the (energy,
// pitch) velocity-space coordinates to (vpar, mu) using the local field
// magnitude, primes the cached field sample and normalized flux, and
// activates the lane. The lane is fully re-initialized, so Deposit is also
// how a batch slot is reused between runs.
//
// On a bad descriptor or a failed field query the lane stays inactive with
// the fault recorded, and that fault is returned.
func (p *MarkerBatch) Deposit(i int, m Marker, field FieldProvider) Fault {
	if i < 0 || i >= p.Cap() {
		panic("lane index out of range")
	}

	// Reset the slot before anything can fail.
	p.ID[i] = m.ID
	p.R[i], p.Phi[i], p.Z[i] = m.R, m.Phi, m.Z
	p.Vpar[i], p.Mu[i] = 0, 0
	p.Theta[i] = wrapTheta(m.Theta)
	p.Mass[i], p.Charge[i] = m.Mass, m.Charge
	p.Weight[i] = m.Weight
	p.Pol[i] = 0
	p.Running[i] = false
	p.Err[i] = Fault{}
	p.setFieldSample(i, BdB{})
	p.Rho[i] = 0

	if m.R <= 0 || m.Energy <= 0 || m.Mass <= 0 || m.Charge == 0 ||
		math.Abs(m.Pitch) > 1 {
		p.Err[i] = raise(FaultBadInput, ModMarkerInit).at(StageDeposit)
		return p.Err[i]
	}

	bdb, fault := field.EvalBdB(m.R, m.Phi, m.Z)
	if fault.OK() {
		var psi float64
		psi, fault = field.EvalPsi(m.R, m.Phi, m.Z)
		if fault.OK() {
			p.Rho[i], fault = field.EvalRho(psi)
		}
	}
	if !fault.OK() {
		p.Err[i] = fault.at(StageDeposit).report(ModMarkerInit)
		return p.Err[i]
	}

	v := math.Sqrt(2 * m.Energy * ElemCharge / m.Mass)
	normB := bdb.Norm()
	p.Vpar[i] = v * m.Pitch
	p.Mu[i] = m.Mass * v * v * (1 - m.Pitch*m.Pitch) / (2 * normB)
	p.setFieldSample(i, bdb)
	p.Running[i] = true
	return Fault{}
}
