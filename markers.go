package gcprop

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Marker is the ingestion descriptor of a single guiding center: where it
// starts and what particle it represents. Velocity space is given as kinetic
// energy and pitch (vpar/v); the conversion to (vpar, mu) happens at deposit
// time because it needs the local field magnitude.
type Marker struct {
	ID     uint64
	R      float64 // major radius [m]
	Phi    float64 // toroidal angle [rad]
	Z      float64 // vertical coordinate [m]
	Energy float64 // kinetic energy [eV]
	Pitch  float64 // vpar/v, in [-1, 1]
	Theta  float64 // initial gyroangle [rad]
	Mass   float64 // [kg]
	Charge float64 // [C]
	Weight float64 // physical particles represented by this marker
}

// GenerateMarkers samples n markers of the template species: positions from
// a bivariate normal around the template (R, z) with the given standard
// deviations, pitch uniform in [-1, 1], toroidal and gyro angles uniform in
// [0, 2π). Deterministic for a fixed source.
func GenerateMarkers(n int, template Marker, spreadR, spreadZ float64, src rand.Source) []Marker {
	sigma := mat.NewSymDense(2, []float64{spreadR * spreadR, 0, 0, spreadZ * spreadZ})
	normal, ok := distmv.NewNormal([]float64{template.R, template.Z}, sigma, src)
	if !ok {
		panic("marker position covariance is not positive definite")
	}
	rng := rand.New(src)
	out := make([]Marker, n)
	pt := make([]float64, 2)
	for i := range out {
		m := template
		m.ID = uint64(i + 1)
		normal.Rand(pt)
		m.R, m.Z = pt[0], pt[1]
		m.Phi = rng.Float64() * twoPi
		m.Pitch = 2*rng.Float64() - 1
		m.Theta = rng.Float64() * twoPi
		out[i] = m
	}
	return out
}

// DepositAll deposits markers into consecutive batch lanes, returning the
// number of lanes which came up active. Lanes whose deposit failed stay
// inactive with their fault recorded; extra markers beyond the batch
// capacity are ignored.
func DepositAll(p *MarkerBatch, markers []Marker, field FieldProvider) int {
	active := 0
	for i, m := range markers {
		if i >= p.Cap() {
			break
		}
		if p.Deposit(i, m, field).OK() {
			active++
		}
	}
	return active
}
