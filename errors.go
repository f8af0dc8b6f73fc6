package gcprop

import "fmt"

// FaultKind defines an enum of failure categories.
type FaultKind uint8

// FaultModule defines an enum of the subsystems which raise or record faults.
type FaultModule uint8

const (
	// FaultUnphysicalGC flags a committed guiding-center state which violates
	// a physical bound.
	FaultUnphysicalGC FaultKind = iota + 1
	// FaultOutsideDomain flags an evaluation point outside the valid domain
	// of a field representation.
	FaultOutsideDomain
	// FaultBadInput flags marker data which could not be deposited.
	FaultBadInput
)

const (
	// ModOrbitStep tags faults recorded while advancing a guiding center.
	ModOrbitStep FaultModule = iota + 1
	// ModBField tags faults raised by a magnetic field evaluation.
	ModBField
	// ModEField tags faults raised by an electric field evaluation.
	ModEField
	// ModMarkerInit tags faults recorded while depositing a marker.
	ModMarkerInit
)

// Stage identifiers stored in Fault.Stage. Stages K1 through K4 are the four
// derivative evaluations of a step, Refresh the post-commit field update, and
// the Check stages the physical-validity tests in their precedence order.
const (
	StageDeposit uint8 = iota + 1
	StageK1
	StageK2
	StageK3
	StageK4
	StageRefresh
	StageRadiusCheck
	StageMuBoundCheck
	StageMuSignCheck
)

func (k FaultKind) String() string {
	switch k {
	case 0:
		return "ok"
	case FaultUnphysicalGC:
		return "unphysical guiding center"
	case FaultOutsideDomain:
		return "outside valid domain"
	case FaultBadInput:
		return "bad input"
	}
	panic("cannot stringify unknown fault kind")
}

func (m FaultModule) String() string {
	switch m {
	case 0:
		return "none"
	case ModOrbitStep:
		return "orbit step"
	case ModBField:
		return "B field"
	case ModEField:
		return "E field"
	case ModMarkerInit:
		return "marker init"
	}
	panic("cannot stringify unknown fault module")
}

// Fault records the first failure along a lane's evaluation chain. The zero
// value means no failure. Module is the subsystem which recorded the fault,
// Origin the one which raised it, and Stage the originating evaluation or
// check, so a terminal fault pinpoints exactly where a lane died.
//
// Faults are data, not control flow: they ride on the lane they belong to
// and never abort sibling lanes.
type Fault struct {
	Kind   FaultKind
	Module FaultModule
	Origin FaultModule
	Stage  uint8
}

// OK returns whether no failure has been recorded.
func (f Fault) OK() bool {
	return f.Kind == 0
}

// raise creates a fault in the subsystem m.
func raise(k FaultKind, m FaultModule) Fault {
	return Fault{Kind: k, Module: m, Origin: m}
}

// at stamps the stage identifier on a failing fault. A no-op on the zero
// value, so it is safe to apply unconditionally after a guarded query.
func (f Fault) at(stage uint8) Fault {
	if f.OK() {
		return f
	}
	f.Stage = stage
	return f
}

// report re-tags a failing fault with the module which is recording it,
// preserving the kind, origin and stage of the underlying failure.
func (f Fault) report(m FaultModule) Fault {
	if f.OK() {
		return f
	}
	f.Module = m
	return f
}

func (f Fault) String() string {
	if f.OK() {
		return "ok"
	}
	return fmt.Sprintf("%s in %s (origin %s, stage %d)", f.Kind, f.Module, f.Origin, f.Stage)
}

// checkPhysical validates a committed state against the physical bounds, in
// precedence order: non-positive major radius first, then the magnetic moment
// blow-up sentinel, then moment sign. The first failing check wins.
func checkPhysical(y *[6]float64) Fault {
	switch {
	case y[0] <= 0:
		return raise(FaultUnphysicalGC, ModOrbitStep).at(StageRadiusCheck)
	case y[4] >= LightSpeed || y[4] <= -LightSpeed:
		return raise(FaultUnphysicalGC, ModOrbitStep).at(StageMuBoundCheck)
	case y[4] < 0:
		return raise(FaultUnphysicalGC, ModOrbitStep).at(StageMuSignCheck)
	}
	return Fault{}
}
