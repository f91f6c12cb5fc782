package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ejecta-tools/sfnt/internal/atomic"
	"github.com/ejecta-tools/sfnt/internal/config"
	"github.com/ejecta-tools/sfnt/internal/spencerfano"
)

var workfnNPoints int

var workfnCmd = &cobra.Command{
	Use:   "workfn",
	Short: "Work function and high-energy-limit analysis",
	Long: `workfn compares stopping power and work function estimates in the high
energy limit for each configured scenario: the Axelrod mean-binding
limit, the Lotz and AR85 cross section limits at Emax, and the work
function integrated over a logarithmic energy grid.`,
	RunE: runWorkfn,
}

func init() {
	workfnCmd.Flags().IntVar(&workfnNPoints, "npts", 64, "points of the logarithmic energy grid")
}

func runWorkfn(cmd *cobra.Command, args []string) error {
	cfg, meta, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(cfg.Scenarios))
	for name := range cfg.Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		params := cfg.Scenarios[name]
		if err := params.CheckDefaults(name, &cfg, &meta); err != nil {
			Log.Errorf("%v", err)
			continue
		}
		if params.BindingEnergies == "" {
			Log.Errorf("scenario %s: workfn needs BindingEnergies", name)
			continue
		}

		shells, err := atomic.LoadCollisionTable(params.CollisionData)
		if err != nil {
			return err
		}
		binding, err := atomic.LoadBindingTable(params.BindingEnergies)
		if err != nil {
			return err
		}

		pops := map[spencerfano.IonSpecies]float64{}
		for _, ion := range params.Ions {
			pops[spencerfano.IonSpecies{Z: ion.Z, IonStage: ion.IonStage}] += ion.Density
		}
		plasma, err := spencerfano.NewPlasma(pops)
		if err != nil {
			return err
		}

		Log.Infof("scenario %s: work function analysis over [%g, %g] eV", name, params.EMin, params.EMax)
		report, err := spencerfano.WorkFunctionReport(
			plasma, shells, binding, params.EMin, params.EMax, workfnNPoints, Log)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", name, err)
		}
		for _, entry := range report.Entries {
			Log.Infof("%v: limits sim %.2f eV, lotz %.2f eV, emax %.2f eV, integrated %.2f eV",
				entry.Ion, entry.LimitSimEV, entry.LimitLotzEV, entry.LimitEmaxEV, entry.IntegratedEV)
		}
	}
	return nil
}
