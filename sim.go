package gcprop

import (
	"os"
	"sync"
	"time"

	"github.com/go-kit/log"
)

/* Handles the outer time-stepping of marker batches. */

// DefaultStepSize is the default integration time step [s].
const DefaultStepSize = 1e-8

// TracePoint is one diagnostic sample of a lane along its orbit.
type TracePoint struct {
	Time float64
	R, Z float64
	Rho  float64
	Pol  float64
}

// Simulation drives one batch of markers through a field until the time
// budget runs out or every lane has stopped. Batches are independent: run
// several Simulations concurrently with RunBatches as long as each owns its
// batch and the field provider tolerates concurrent reads.
type Simulation struct {
	Name    string
	Batch   *MarkerBatch
	Field   FieldProvider
	Stepper Stepper

	StepSize    float64 // uniform step handed to every lane [s]
	EndTime     float64 // simulated time budget [s]
	TraceStride int     // record a trace sample every this many steps; 0 disables

	CurrentTime float64
	Trace       [][]TracePoint // per lane

	steps  uint64
	hs     []float64
	logger log.Logger
}

// NewSimulation returns a ready simulation with a logfmt logger on stdout.
func NewSimulation(name string, batch *MarkerBatch, field FieldProvider, stepSize, endTime float64) *Simulation {
	if stepSize <= 0 {
		stepSize = DefaultStepSize
	}
	klog := log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout))
	klog = log.With(klog, "sim", name)
	hs := make([]float64, batch.Cap())
	for i := range hs {
		hs[i] = stepSize
	}
	return &Simulation{
		Name: name, Batch: batch, Field: field,
		StepSize: stepSize, EndTime: endTime,
		Trace:  make([][]TracePoint, batch.Cap()),
		hs:     hs,
		logger: klog,
	}
}

// LogStatus logs the progress of the simulation.
func (s *Simulation) LogStatus() {
	s.logger.Log("level", "info", "subsys", "orbit", "t(s)", s.CurrentTime,
		"steps", s.steps, "active", s.Batch.ActiveCount())
}

// Run advances the batch until every lane is inactive or the time budget is
// exhausted. It always returns with the batch in a consistent state; lanes
// which died along the way carry their terminal fault.
func (s *Simulation) Run() {
	s.logger.Log("level", "info", "subsys", "orbit", "status", "starting",
		"lanes", s.Batch.ActiveCount(), "h(s)", s.StepSize, "end(s)", s.EndTime)
	start := time.Now()
	s.sample()

	// Status report cadence: roughly one log per 10% of the run.
	report := uint64(float64(s.EndTime)/s.StepSize/10) + 1

	for s.CurrentTime < s.EndTime && s.Batch.ActiveCount() > 0 {
		s.Stepper.Step(s.Batch, s.hs, s.Field)
		s.CurrentTime += s.StepSize
		s.steps++
		if s.TraceStride > 0 && s.steps%uint64(s.TraceStride) == 0 {
			s.sample()
		}
		if s.steps%report == 0 {
			s.LogStatus()
		}
	}

	lost := 0
	for i := 0; i < s.Batch.Cap(); i++ {
		if !s.Batch.Err[i].OK() {
			lost++
			s.logger.Log("level", "warning", "subsys", "orbit", "lane", i,
				"id", s.Batch.ID[i], "fault", s.Batch.Err[i].String())
		}
	}
	s.logger.Log("level", "notice", "subsys", "orbit", "status", "finished",
		"t(s)", s.CurrentTime, "steps", s.steps,
		"active", s.Batch.ActiveCount(), "lost", lost,
		"wall", time.Since(start).String())
}

// sample appends one trace point per active lane.
func (s *Simulation) sample() {
	for i := 0; i < s.Batch.Cap(); i++ {
		if !s.Batch.Running[i] {
			continue
		}
		s.Trace[i] = append(s.Trace[i], TracePoint{
			Time: s.CurrentTime,
			R:    s.Batch.R[i], Z: s.Batch.Z[i],
			Rho: s.Batch.Rho[i], Pol: s.Batch.Pol[i],
		})
	}
}

// RunBatches runs independent simulations concurrently and waits for all of
// them. The batches must not be shared; the field providers may be, since
// they are read-only during stepping.
func RunBatches(sims ...*Simulation) {
	var wg sync.WaitGroup
	for _, s := range sims {
		wg.Add(1)
		go func(s *Simulation) {
			defer wg.Done()
			s.Run()
		}(s)
	}
	wg.Wait()
}
