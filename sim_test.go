package gcprop

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func orbitTestSim(t *testing.T, name string, nLanes int) *Simulation {
	t.Helper()
	field := testCircularField(t)
	batch := NewBatch(nLanes)
	for i := 0; i < nLanes; i++ {
		m := protonMarker(uint64(i+1), 0.4+0.02*float64(i), 0)
		if fault := batch.Deposit(i, m, field); !fault.OK() {
			t.Fatalf("deposit %d: %s", i, fault)
		}
	}
	return NewSimulation(name, batch, field, 1e-9, 500e-9)
}

func TestSimulationRun(t *testing.T) {
	s := orbitTestSim(t, "run", 4)
	s.Run()
	if !scalar.EqualWithinAbs(s.CurrentTime, s.EndTime, s.StepSize) {
		t.Fatalf("stopped at t=%e, want %e", s.CurrentTime, s.EndTime)
	}
	if s.Batch.ActiveCount() != 4 {
		t.Fatalf("%d lanes active after a benign run, want 4", s.Batch.ActiveCount())
	}
	for i := 0; i < 4; i++ {
		if !s.Batch.Err[i].OK() {
			t.Fatalf("lane %d carries fault %s", i, s.Batch.Err[i])
		}
		if s.Batch.Pol[i] <= 0 {
			t.Fatalf("lane %d accumulated no poloidal angle", i)
		}
	}
}

func TestSimulationTrace(t *testing.T) {
	s := orbitTestSim(t, "trace", 2)
	s.TraceStride = 100
	s.Run()
	// One sample at start plus one per stride of the steps actually taken;
	// dividing the float times would truncate on rounding.
	want := 1 + int(s.steps)/s.TraceStride
	for i := 0; i < 2; i++ {
		if len(s.Trace[i]) != want {
			t.Fatalf("lane %d has %d trace points, want %d", i, len(s.Trace[i]), want)
		}
		if s.Trace[i][0].Time != 0 || s.Trace[i][0].Pol != 0 {
			t.Fatalf("lane %d first trace point is %+v", i, s.Trace[i][0])
		}
		for k := 1; k < len(s.Trace[i]); k++ {
			if s.Trace[i][k].Time <= s.Trace[i][k-1].Time {
				t.Fatalf("lane %d trace times not increasing at %d", i, k)
			}
			if s.Trace[i][k].Pol < s.Trace[i][k-1].Pol {
				t.Fatalf("lane %d poloidal angle decreased at %d", i, k)
			}
		}
	}
}

func TestSimulationStopsWhenAllLanesDead(t *testing.T) {
	field := testCircularField(t)
	batch := NewBatch(2)
	for i := 0; i < 2; i++ {
		if fault := batch.Deposit(i, protonMarker(uint64(i+1), 0.5, 0), field); !fault.OK() {
			t.Fatalf("deposit %d: %s", i, fault)
		}
	}
	s := NewSimulation("dead", batch, field, 1e-9, 1.0)
	// Sabotage: mu decays below zero on the first step, killing both lanes.
	s.Stepper = Stepper{EOM: func(ydot, y *[6]float64, mass, charge float64, b BdB, e [3]float64) {
		gcEOM(ydot, y, mass, charge, b, e)
		ydot[4] = -1
	}}
	s.StepSize = 1e-3
	s.hs = uniformSteps(2, 1e-3)
	s.Run()
	if s.Batch.ActiveCount() != 0 {
		t.Fatal("lanes still active")
	}
	if s.CurrentTime >= s.EndTime/2 {
		t.Fatalf("run kept going to t=%e after every lane died", s.CurrentTime)
	}
}

func TestRunBatchesConcurrent(t *testing.T) {
	sims := []*Simulation{
		orbitTestSim(t, "a", 3),
		orbitTestSim(t, "b", 3),
		orbitTestSim(t, "c", 3),
	}
	RunBatches(sims...)
	for _, s := range sims {
		if s.Batch.ActiveCount() != 3 {
			t.Fatalf("sim %s finished with %d active lanes", s.Name, s.Batch.ActiveCount())
		}
		if !scalar.EqualWithinAbs(s.CurrentTime, s.EndTime, s.StepSize) {
			t.Fatalf("sim %s stopped at t=%e", s.Name, s.CurrentTime)
		}
	}
}
