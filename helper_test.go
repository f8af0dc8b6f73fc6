package gcprop

import "testing"

// cloneBatch deep-copies a batch so before/after states can be compared.
func cloneBatch(p *MarkerBatch) *MarkerBatch {
	q := NewBatch(p.Cap())
	cp := func(dst, src []float64) { copy(dst, src) }
	cp(q.R, p.R)
	cp(q.Phi, p.Phi)
	cp(q.Z, p.Z)
	cp(q.Vpar, p.Vpar)
	cp(q.Mu, p.Mu)
	cp(q.Theta, p.Theta)
	cp(q.Mass, p.Mass)
	cp(q.Charge, p.Charge)
	cp(q.BR, p.BR)
	cp(q.BRdR, p.BRdR)
	cp(q.BRdPhi, p.BRdPhi)
	cp(q.BRdZ, p.BRdZ)
	cp(q.BPhi, p.BPhi)
	cp(q.BPhidR, p.BPhidR)
	cp(q.BPhidPhi, p.BPhidPhi)
	cp(q.BPhidZ, p.BPhidZ)
	cp(q.BZ, p.BZ)
	cp(q.BZdR, p.BZdR)
	cp(q.BZdPhi, p.BZdPhi)
	cp(q.BZdZ, p.BZdZ)
	cp(q.Rho, p.Rho)
	cp(q.Weight, p.Weight)
	cp(q.Pol, p.Pol)
	copy(q.ID, p.ID)
	copy(q.Running, p.Running)
	copy(q.Err, p.Err)
	return q
}

// laneEqual reports whether lane i is bit-identical between two batches.
func laneEqual(t *testing.T, a, b *MarkerBatch, i int) bool {
	t.Helper()
	scalars := [][2]float64{
		{a.R[i], b.R[i]}, {a.Phi[i], b.Phi[i]}, {a.Z[i], b.Z[i]},
		{a.Vpar[i], b.Vpar[i]}, {a.Mu[i], b.Mu[i]}, {a.Theta[i], b.Theta[i]},
		{a.Mass[i], b.Mass[i]}, {a.Charge[i], b.Charge[i]},
		{a.BR[i], b.BR[i]}, {a.BRdR[i], b.BRdR[i]}, {a.BRdPhi[i], b.BRdPhi[i]}, {a.BRdZ[i], b.BRdZ[i]},
		{a.BPhi[i], b.BPhi[i]}, {a.BPhidR[i], b.BPhidR[i]}, {a.BPhidPhi[i], b.BPhidPhi[i]}, {a.BPhidZ[i], b.BPhidZ[i]},
		{a.BZ[i], b.BZ[i]}, {a.BZdR[i], b.BZdR[i]}, {a.BZdPhi[i], b.BZdPhi[i]}, {a.BZdZ[i], b.BZdZ[i]},
		{a.Rho[i], b.Rho[i]}, {a.Weight[i], b.Weight[i]}, {a.Pol[i], b.Pol[i]},
	}
	for _, s := range scalars {
		if s[0] != s[1] {
			return false
		}
	}
	return a.ID[i] == b.ID[i] && a.Running[i] == b.Running[i] && a.Err[i] == b.Err[i]
}

// testCircularField returns the verification field: purely poloidal, unit
// field magnitude, axis at R=10 m.
func testCircularField(t *testing.T) *CircularField {
	t.Helper()
	f, err := NewCircularField(10, 0, 1.0, 0, 2.0)
	if err != nil {
		t.Fatalf("circular field: %s", err)
	}
	return f
}

// uniformSteps returns a per-lane step array filled with h.
func uniformSteps(n int, h float64) []float64 {
	hs := make([]float64, n)
	for i := range hs {
		hs[i] = h
	}
	return hs
}

// protonMarker is a 1 keV proton-like test marker at the given minor-radius
// offset from the axis of testCircularField, pitch +1 (mu = 0).
func protonMarker(id uint64, offR, offZ float64) Marker {
	return Marker{
		ID: id, R: 10 + offR, Z: offZ,
		Energy: 1000, Pitch: 1,
		Mass: AtomicMassUnit, Charge: ElemCharge,
		Weight: 1,
	}
}
