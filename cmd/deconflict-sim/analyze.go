package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deconflict-sim/internal/config"
	"deconflict-sim/internal/drone"
	"deconflict-sim/internal/engine"
	"deconflict-sim/internal/scenario"
	"deconflict-sim/internal/store"
)

var (
	analyzeScenarioID int
	analyzeFile       string
	analyzeConfigPath string
	analyzeSchemaPath string
	analyzeJSON       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run pre-flight conflict analysis on a scenario",
	Long:  "analyze loads a builtin or YAML scenario, runs the path conflict analyzer, and prints conflicts with ranked mitigation candidates.",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScenario(analyzeScenarioID, analyzeFile)
		if err != nil {
			return err
		}

		cfg := config.Default()
		if analyzeConfigPath != "" {
			loaded, err := config.Load(analyzeConfigPath, analyzeSchemaPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		eng := engine.New(cfg.Engine)

		// Assign ids through the store so solutions can name their targets.
		st := store.NewDroneStore()
		for _, d := range sc.Drones {
			d.ScenarioID = sc.Name
			if _, err := st.Add(d); err != nil {
				return err
			}
		}
		drones := st.List()

		analysis, err := eng.AnalyzePaths(drones)
		if err != nil {
			return err
		}
		marked := engine.MarkConflicts(drones, analysis)

		var conflicted []drone.Drone
		var primary *drone.Drone
		for i := range marked {
			if marked[i].HasConflict {
				conflicted = append(conflicted, marked[i])
			}
			if marked[i].IsPrimary {
				p := marked[i]
				primary = &p
			}
		}
		solutions := eng.GenerateSolutions(conflicted, primary)

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Scenario  string            `json:"scenario"`
				Conflicts []engine.Conflict `json:"conflicts"`
				Solutions []engine.Solution `json:"solutions"`
			}{sc.Name, analysis.Conflicts, solutions})
		}

		fmt.Printf("scenario: %s (%d drones)\n", sc.Name, len(marked))
		if !analysis.HasConflicts() {
			fmt.Println("no conflicts detected")
			return nil
		}
		byID := make(map[string]drone.Drone, len(marked))
		for _, d := range marked {
			byID[d.ID] = d
		}
		for _, c := range analysis.Conflicts {
			fmt.Printf("conflict: %s <-> %s  min separation %.2f at t=%.1fs\n",
				byID[c.DroneA].Name, byID[c.DroneB].Name, c.Distance, c.AtSeconds)
		}
		fmt.Println("proposed mitigations:")
		for i, s := range solutions {
			fmt.Printf("  %d. [%s] %s\n", i+1, s.Type, s.Description)
		}
		return nil
	},
}

// loadScenario resolves either a builtin scenario id or a YAML file.
func loadScenario(id int, path string) (*scenario.Scenario, error) {
	if path != "" {
		return scenario.Load(path)
	}
	return scenario.ByID(id)
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeScenarioID, "scenario", 2, "Builtin scenario id")
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "Path to a YAML scenario (overrides --scenario)")
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to configuration YAML")
	analyzeCmd.Flags().StringVar(&analyzeSchemaPath, "schema", "schemas/deconflict.cue", "Path to CUE schema file")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Emit machine-readable JSON")
}
