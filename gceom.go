package gcprop

// EOMFunc maps a guiding-center state and a local field sample to the state
// derivative. y and ydot index (r, phi, z, vpar, mu, theta). Implementations
// must be pure: deterministic and free of side effects, since the stepper
// calls them four times per lane per step and treats them as infallible.
type EOMFunc func(ydot, y *[6]float64, mass, charge float64, b BdB, e [3]float64)

// gcEOM is the guiding-center equation of motion in cylindrical coordinates:
// parallel streaming along the effective field B*, E×B, grad-B and curvature
// drifts through the E* term, parallel acceleration from B*·E*, a conserved
// magnetic moment, and the gyrofrequency driving the gyroangle.
func gcEOM(ydot, y *[6]float64, mass, charge float64, b BdB, e [3]float64) {
	B := b.B()
	normB := norm3(B)

	// grad |B|; phi derivatives carry the 1/R metric factor.
	gradB := [3]float64{
		(B[0]*b[1] + B[1]*b[5] + B[2]*b[9]) / normB,
		(B[0]*b[2] + B[1]*b[6] + B[2]*b[10]) / (normB * y[0]),
		(B[0]*b[3] + B[1]*b[7] + B[2]*b[11]) / normB,
	}

	// curl B in cylindrical coordinates.
	curlB := [3]float64{
		b[10]/y[0] - b[7],
		b[3] - b[9],
		(B[1]-b[2])/y[0] + b[5],
	}

	gradBxB := cross3(gradB, B)

	// Effective fields: B* = B + (m vpar / q) curl(b̂), E* = E - (mu/q) grad|B|.
	fac := mass * y[3] / (charge * normB)
	var bstar, estar [3]float64
	for i := 0; i < 3; i++ {
		bstar[i] = B[i] + fac*(curlB[i]-gradBxB[i]/normB)
		estar[i] = e[i] - y[4]*gradB[i]/charge
	}
	bstarpar := dot3(B, bstar) / normB

	// dX/dt = (vpar B* + E* × b̂) / B*par
	exb := cross3(estar, B)
	ydot[0] = (y[3]*bstar[0] + exb[0]/normB) / bstarpar
	ydot[1] = (y[3]*bstar[1] + exb[1]/normB) / (bstarpar * y[0])
	ydot[2] = (y[3]*bstar[2] + exb[2]/normB) / bstarpar
	ydot[3] = (charge / mass) * dot3(bstar, estar) / bstarpar
	ydot[4] = 0
	ydot[5] = charge * normB / mass
}
