package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"deconflict-sim/internal/admin"
	"deconflict-sim/internal/config"
	"deconflict-sim/internal/engine"
	"deconflict-sim/internal/logging"
	"deconflict-sim/internal/sim"
	"deconflict-sim/internal/store"
	"deconflict-sim/internal/telemetry"
)

var (
	flyScenarioID int
	flyFile       string
	flyConfigPath string
	flySchemaPath string
	flyTick       time.Duration
	flyLogFile    string
	flyPrintOnly  bool
	flyTUI        bool
	flyAddr       string
)

var flyCmd = &cobra.Command{
	Use:   "fly",
	Short: "Fly a scenario with the live collision monitor",
	Long:  "fly runs pre-flight analysis, then plays the scenario tick by tick; the first live proximity breach pauses playback and prints symmetric mitigation candidates.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New()

		sc, err := loadScenario(flyScenarioID, flyFile)
		if err != nil {
			return err
		}

		cfg := config.Default()
		if flyConfigPath != "" {
			loaded, err := config.Load(flyConfigPath, flySchemaPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		eng := engine.New(cfg.Engine)

		writer, cWriter, cleanup, err := newWriters(cfg.SimID, flyPrintOnly, flyLogFile, flyTUI)
		if err != nil {
			return err
		}
		defer cleanup()

		st := store.NewDroneStore()
		for _, d := range sc.Drones {
			d.ScenarioID = sc.Name
			if _, err := st.Add(d); err != nil {
				return err
			}
		}

		// Pre-flight pass before anything takes off.
		drones := st.List()
		analysis, err := eng.AnalyzePaths(drones)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, c := range analysis.Conflicts {
			log.Warn("pre-flight path conflict",
				"drone_a", c.DroneA, "drone_b", c.DroneB, "distance", c.Distance)
			if err := cWriter.WriteConflict(telemetry.ConflictRow{
				SimID:     cfg.SimID,
				DroneA:    c.DroneA,
				DroneB:    c.DroneB,
				Kind:      string(c.Kind),
				Distance:  c.Distance,
				AtSeconds: c.AtSeconds,
				Time:      now,
			}); err != nil {
				log.Warn("conflict write failed", "error", err)
			}
		}

		simulator := sim.NewSimulator(cfg.SimID, eng, writer, cWriter, flyTick)
		if err := simulator.Load(engine.MarkConflicts(drones, analysis)); err != nil {
			return err
		}
		if err := simulator.Start(); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(logging.NewContext(cmd.Context(), log))
		defer cancel()

		if flyAddr != "" {
			srv := admin.NewServer(st, eng, simulator)
			go func() {
				log.Info("API server listening", "addr", flyAddr)
				if err := srv.Start(ctx, flyAddr); err != nil && err != http.ErrServerClosed {
					log.Error("API server failed", "err", err)
				}
			}()
		}

		go simulator.Run(ctx)

		// Poll until the run pauses on a breach or finishes.
		poll := time.NewTicker(flyTick)
		defer poll.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-poll.C:
			}
			switch simulator.State() {
			case sim.StatePaused:
				conflict, mitigations := simulator.LiveConflict()
				if conflict != nil {
					fmt.Printf("playback paused: %s and %s within %.2f units\n",
						conflict.DroneA, conflict.DroneB, conflict.Distance)
					for i, s := range mitigations {
						fmt.Printf("  %d. [%s] %s\n", i+1, s.Type, s.Description)
					}
				}
				cancel()
				return nil
			case sim.StateFinished:
				fmt.Println("all drones arrived without live conflicts")
				cancel()
				return nil
			}
		}
	},
}

func init() {
	flyCmd.Flags().IntVar(&flyScenarioID, "scenario", 2, "Builtin scenario id")
	flyCmd.Flags().StringVar(&flyFile, "file", "", "Path to a YAML scenario (overrides --scenario)")
	flyCmd.Flags().StringVar(&flyConfigPath, "config", "", "Path to configuration YAML")
	flyCmd.Flags().StringVar(&flySchemaPath, "schema", "schemas/deconflict.cue", "Path to CUE schema file")
	flyCmd.Flags().DurationVar(&flyTick, "tick", 100*time.Millisecond, "Playback tick interval")
	flyCmd.Flags().StringVar(&flyLogFile, "log-file", "", "Path to export position/conflict logs (JSONL)")
	flyCmd.Flags().BoolVar(&flyPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	flyCmd.Flags().BoolVar(&flyTUI, "tui", false, "Render playback in a terminal dashboard")
	flyCmd.Flags().StringVar(&flyAddr, "addr", "", "Also serve the API on this address during playback")
}
