package gcprop

import "math"

// Physical constants in SI units. These are compile-time constants on
// purpose: nothing in a run may alter them.
const (
	// LightSpeed is the speed of light in vacuum [m/s]. A magnetic moment at
	// or beyond this magnitude is the blow-up sentinel for a lane.
	LightSpeed = 299792458.0
	// ElemCharge is the elementary charge [C].
	ElemCharge = 1.602176634e-19
	// AtomicMassUnit is the unified atomic mass unit [kg].
	AtomicMassUnit = 1.66053906660e-27

	twoPi = 2 * math.Pi
)
