package main

import (
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/plasmodyn/gcprop"
)

const version = "0.2.0"

var plotLane int

var rootCmd = &cobra.Command{
	Use:   "gcprop",
	Short: "Batched guiding-center orbit following",
	Long: `gcprop integrates the guiding-center equations of motion for batches of
charged-particle markers in a magnetized, electrified field.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation described by $GCPROP_CONFIG/conf.toml",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := gcprop.LoadConfig()
		if err != nil {
			return err
		}
		sim, err := cfg.BuildSimulation("run")
		if err != nil {
			return err
		}
		sim.Run()

		if plotLane >= 0 {
			if plotLane >= sim.Batch.Cap() || len(sim.Trace[plotLane]) == 0 {
				return fmt.Errorf("no trace recorded for lane %d (set sim.trace_stride)", plotLane)
			}
			series := make([]float64, len(sim.Trace[plotLane]))
			for i, tp := range sim.Trace[plotLane] {
				series[i] = tp.Z
			}
			fmt.Println(asciigraph.Plot(series,
				asciigraph.Height(16),
				asciigraph.Caption(fmt.Sprintf("lane %d vertical position [m]", plotLane))))
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gcprop %s\n", version)
	},
}

func init() {
	runCmd.Flags().IntVar(&plotLane, "plot", -1, "render the z trace of the given lane after the run")
	rootCmd.AddCommand(runCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
