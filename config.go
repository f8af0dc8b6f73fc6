package gcprop

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"golang.org/x/exp/rand"
)

// Config mirrors the conf.toml layout: a [field] table selecting and
// parameterizing the field model, a [markers] table describing the particle
// population, and a [sim] table with the stepping schedule.
type Config struct {
	Field struct {
		Type         string  // "circular", "toroidal" or "grid"
		AxisR, AxisZ float64 // magnetic axis [m]
		BPol         float64 // poloidal field [T] (circular, grid)
		BTor         float64 // toroidal field [T]
		RhoEdge      float64 // edge minor radius [m]
		GridNR       int     // grid resolution ("grid" type samples the
		GridNZ       int     //  analytic circular field onto a grid)
		ER, EPhi, EZ float64 // uniform electric field [V/m]
	}
	Markers struct {
		Count            int
		R, Z             float64 // population center [m]
		SpreadR, SpreadZ float64 // position standard deviations [m]
		Energy           float64 // [eV]
		MassAMU          float64 // species mass [amu]
		ChargeE          float64 // species charge [e]
		Weight           float64
		Seed             uint64
	}
	Sim struct {
		StepSize    float64 // [s]
		EndTime     float64 // [s]
		TraceStride int
	}
}

// LoadConfig reads conf.toml from the directory named by the GCPROP_CONFIG
// environment variable.
func LoadConfig() (Config, error) {
	var c Config
	confPath := os.Getenv("GCPROP_CONFIG")
	if confPath == "" {
		return c, fmt.Errorf("environment variable `GCPROP_CONFIG` is missing or empty")
	}
	v := viper.New()
	v.SetConfigName("conf")
	v.AddConfigPath(confPath)
	if err := v.ReadInConfig(); err != nil {
		return c, fmt.Errorf("%s/conf.toml not found or unreadable: %s", confPath, err)
	}

	c.Field.Type = v.GetString("field.type")
	c.Field.AxisR = v.GetFloat64("field.axis_r")
	c.Field.AxisZ = v.GetFloat64("field.axis_z")
	c.Field.BPol = v.GetFloat64("field.bpol")
	c.Field.BTor = v.GetFloat64("field.btor")
	c.Field.RhoEdge = v.GetFloat64("field.rho_edge")
	c.Field.GridNR = v.GetInt("field.grid_nr")
	c.Field.GridNZ = v.GetInt("field.grid_nz")
	c.Field.ER = v.GetFloat64("field.e_r")
	c.Field.EPhi = v.GetFloat64("field.e_phi")
	c.Field.EZ = v.GetFloat64("field.e_z")

	c.Markers.Count = v.GetInt("markers.count")
	c.Markers.R = v.GetFloat64("markers.r")
	c.Markers.Z = v.GetFloat64("markers.z")
	c.Markers.SpreadR = v.GetFloat64("markers.spread_r")
	c.Markers.SpreadZ = v.GetFloat64("markers.spread_z")
	c.Markers.Energy = v.GetFloat64("markers.energy")
	c.Markers.MassAMU = v.GetFloat64("markers.mass")
	c.Markers.ChargeE = v.GetFloat64("markers.charge")
	c.Markers.Weight = v.GetFloat64("markers.weight")
	c.Markers.Seed = v.GetUint64("markers.seed")

	c.Sim.StepSize = v.GetFloat64("sim.step_size")
	c.Sim.EndTime = v.GetFloat64("sim.end_time")
	c.Sim.TraceStride = v.GetInt("sim.trace_stride")
	return c, nil
}

// BuildField constructs the configured field provider.
func (c Config) BuildField() (FieldProvider, error) {
	e := [3]float64{c.Field.ER, c.Field.EPhi, c.Field.EZ}
	switch c.Field.Type {
	case "circular":
		f, err := NewCircularField(c.Field.AxisR, c.Field.AxisZ, c.Field.BPol, c.Field.BTor, c.Field.RhoEdge)
		if err != nil {
			return nil, err
		}
		f.E = e
		return f, nil
	case "toroidal":
		f, err := NewToroidalField(c.Field.AxisR, c.Field.AxisZ, c.Field.BTor, c.Field.RhoEdge)
		if err != nil {
			return nil, err
		}
		f.E = e
		return f, nil
	case "grid":
		src, err := NewCircularField(c.Field.AxisR, c.Field.AxisZ, c.Field.BPol, c.Field.BTor, c.Field.RhoEdge)
		if err != nil {
			return nil, err
		}
		src.E = e
		if c.Field.GridNR < 3 || c.Field.GridNZ < 3 {
			return nil, fmt.Errorf("grid resolution must be at least 3x3, got %dx%d", c.Field.GridNR, c.Field.GridNZ)
		}
		// Quarter-cell shift keeps every knot off the axis, where the
		// poloidal direction of the source field is undefined.
		margin := 1.05 * c.Field.RhoEdge
		dr := 2 * margin / float64(c.Field.GridNR-1)
		dz := 2 * margin / float64(c.Field.GridNZ-1)
		grid := Grid2D{
			NR: c.Field.GridNR, NZ: c.Field.GridNZ,
			RMin: c.Field.AxisR - margin + 0.25*dr, RMax: c.Field.AxisR + margin + 0.25*dr,
			ZMin: c.Field.AxisZ - margin + 0.25*dz, ZMax: c.Field.AxisZ + margin + 0.25*dz,
		}
		psiEdge := 0.5 * c.Field.BPol * c.Field.RhoEdge * c.Field.RhoEdge
		return GridField(src, grid, psiEdge)
	}
	return nil, fmt.Errorf("unknown field type %q", c.Field.Type)
}

// BuildSimulation constructs the field, samples the marker population,
// deposits it into a fresh batch and wires up the driver.
func (c Config) BuildSimulation(name string) (*Simulation, error) {
	field, err := c.BuildField()
	if err != nil {
		return nil, err
	}
	if c.Markers.Count <= 0 {
		return nil, fmt.Errorf("marker count must be positive, got %d", c.Markers.Count)
	}
	template := Marker{
		R: c.Markers.R, Z: c.Markers.Z,
		Energy: c.Markers.Energy,
		Mass:   c.Markers.MassAMU * AtomicMassUnit,
		Charge: c.Markers.ChargeE * ElemCharge,
		Weight: c.Markers.Weight,
	}
	markers := GenerateMarkers(c.Markers.Count, template,
		c.Markers.SpreadR, c.Markers.SpreadZ, rand.NewSource(c.Markers.Seed))

	batch := NewBatch(c.Markers.Count)
	DepositAll(batch, markers, field)

	sim := NewSimulation(name, batch, field, c.Sim.StepSize, c.Sim.EndTime)
	sim.TraceStride = c.Sim.TraceStride
	return sim, nil
}
