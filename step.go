package gcprop

/* The batched guiding-center RK4 stepper. This is the hot loop: lanes are
independent, branch only on the running flag and carry their own failure
state, so the loop body vectorizes or parallelizes without cross-lane
coupling. */

// Stepper advances marker batches with a classical fourth-order Runge-Kutta
// scheme. EOM is the equation of motion used for the four derivative
// evaluations; when nil, the guiding-center equations are used. The zero
// value is ready to use.
type Stepper struct {
	EOM EOMFunc
}

// Step advances every active lane of the batch by its own time increment.
// h is the per-lane array of strictly positive step sizes, aligned with the
// batch lanes. Inactive lanes are not read from or written to.
//
// Failures never propagate across lanes and never out of this call: a lane
// whose field query or validity check fails is deactivated with its fault
// recorded, and Step always completes. "Success" here means the batch was
// processed, not that every lane advanced.
func (s Stepper) Step(p *MarkerBatch, h []float64, field FieldProvider) {
	eom := s.EOM
	if eom == nil {
		eom = gcEOM
	}
	axisR, axisZ := field.Axis()

	for i := 0; i < p.Cap(); i++ {
		if !p.Running[i] {
			continue
		}
		var fault Fault
		var k1, k2, k3, k4, tmp, yprev, y [6]float64
		var e [3]float64

		yprev = p.state(i)
		mass, charge := p.Mass[i], p.Charge[i]
		r0, z0 := p.R[i], p.Z[i]

		// The magnetic field at the current position was cached by the
		// previous step (or by Deposit), so the first stage only needs a
		// fresh electric field sample.
		bdb := p.fieldSample(i)
		e, fault = field.EvalE(yprev[0], yprev[1], yprev[2], bdb)
		fault = fault.at(StageK1)
		if fault.OK() {
			eom(&k1, &yprev, mass, charge, bdb, e)
		}
		for j := 0; j < 6; j++ {
			tmp[j] = yprev[j] + h[i]/2*k1[j]
		}

		if fault.OK() {
			bdb, fault = field.EvalBdB(tmp[0], tmp[1], tmp[2])
			fault = fault.at(StageK2)
		}
		if fault.OK() {
			e, fault = field.EvalE(tmp[0], tmp[1], tmp[2], bdb)
			fault = fault.at(StageK2)
		}
		if fault.OK() {
			eom(&k2, &tmp, mass, charge, bdb, e)
		}
		for j := 0; j < 6; j++ {
			tmp[j] = yprev[j] + h[i]/2*k2[j]
		}

		if fault.OK() {
			bdb, fault = field.EvalBdB(tmp[0], tmp[1], tmp[2])
			fault = fault.at(StageK3)
		}
		if fault.OK() {
			e, fault = field.EvalE(tmp[0], tmp[1], tmp[2], bdb)
			fault = fault.at(StageK3)
		}
		if fault.OK() {
			eom(&k3, &tmp, mass, charge, bdb, e)
		}
		for j := 0; j < 6; j++ {
			tmp[j] = yprev[j] + h[i]*k3[j]
		}

		if fault.OK() {
			bdb, fault = field.EvalBdB(tmp[0], tmp[1], tmp[2])
			fault = fault.at(StageK4)
		}
		if fault.OK() {
			e, fault = field.EvalE(tmp[0], tmp[1], tmp[2], bdb)
			fault = fault.at(StageK4)
		}
		if fault.OK() {
			eom(&k4, &tmp, mass, charge, bdb, e)
		}
		for j := 0; j < 6; j++ {
			y[j] = yprev[j] + h[i]/6*(k1[j]+2*k2[j]+2*k3[j]+k4[j])
		}
		y[5] = wrapTheta(y[5])

		// Commit only if every stage query succeeded. A later refresh or
		// validity failure still leaves this committed state in the lane as
		// its last known position.
		if fault.OK() {
			p.R[i], p.Phi[i], p.Z[i] = y[0], y[1], y[2]
			p.Vpar[i], p.Mu[i], p.Theta[i] = y[3], y[4], y[5]
		}

		// Refresh the cached field sample and normalized flux at the new
		// position so diagnostics and the next step read consistent values.
		if fault.OK() {
			var bnew BdB
			bnew, fault = field.EvalBdB(p.R[i], p.Phi[i], p.Z[i])
			fault = fault.at(StageRefresh)
			if fault.OK() {
				var psi float64
				psi, fault = field.EvalPsi(p.R[i], p.Phi[i], p.Z[i])
				fault = fault.at(StageRefresh)
				if fault.OK() {
					var rho float64
					rho, fault = field.EvalRho(psi)
					fault = fault.at(StageRefresh)
					if fault.OK() {
						p.setFieldSample(i, bnew)
						p.Rho[i] = rho
					}
				}
			}
		}

		if fault.OK() {
			fault = checkPhysical(&y)
		}

		// Accumulate the poloidal angle from the swept four-quadrant angle
		// about the axis; see polIncrement for why this is not a naive
		// angle difference.
		if fault.OK() {
			p.Pol[i] += polIncrement(r0, z0, p.R[i], p.Z[i], axisR, axisZ)
		}

		if !fault.OK() {
			p.fail(i, fault.report(ModOrbitStep))
		}
	}
}
