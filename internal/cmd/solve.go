package cmd

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ejecta-tools/sfnt/internal/atomic"
	"github.com/ejecta-tools/sfnt/internal/config"
	"github.com/ejecta-tools/sfnt/internal/plotting"
	"github.com/ejecta-tools/sfnt/internal/spencerfano"
	"github.com/ejecta-tools/sfnt/internal/utils"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the configured scenarios and report the energy partition",
	Long: `solve runs every scenario of the configuration file: it assembles and
solves the Spencer-Fano equation, derives the ionization, excitation
and heating fractions, and writes a stats CSV per scenario. A scenario
with Vary set sweeps the named grid parameter, doubling it each step,
with the steps solved concurrently.`,
	RunE: runSolve,
}

var statsColumns = []string{
	"step", "emin (eV)", "emax (eV)", "npts", "ion",
	"frac_ionization", "frac_excitation", "gamma_nt (s^-1)", "frac_heating", "frac_sum",
}

type stepResult struct {
	step    int
	rows    utils.CSV
	fracSum float64
	err     error
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, meta, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}

	outputPath := ""
	if cfg.OutputDir != "" && cfg.OutputDir != "." {
		if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
			return err
		}
		outputPath = cfg.OutputDir + "/"
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
		if err := runScenario(name, outputPath, params); err != nil {
			Log.Errorf("scenario %s: %v", name, err)
		}
	}
	return nil
}

func runScenario(name, outputPath string, params config.ScenarioParameters) error {
	Log.Infof("scenario %s", name)

	shells, err := atomic.LoadCollisionTable(params.CollisionData)
	if err != nil {
		return err
	}
	var binding atomic.BindingTable
	if params.BindingEnergies != "" {
		if binding, err = atomic.LoadBindingTable(params.BindingEnergies); err != nil {
			return err
		}
	}
	var channels []atomic.ExcitationChannel
	if !params.NoExcitation && params.ExcitationData != "" {
		if channels, err = atomic.LoadExcitationChannels(params.ExcitationData, params.EMin); err != nil {
			return err
		}
	}

	pops := map[spencerfano.IonSpecies]float64{}
	for _, ion := range params.Ions {
		pops[spencerfano.IonSpecies{Z: ion.Z, IonStage: ion.IonStage}] += ion.Density
	}
	plasma, err := spencerfano.NewPlasma(pops)
	if err != nil {
		return err
	}

	stepcount := 1
	if params.Vary != "" {
		stepcount = params.SweepSteps
	}

	var wg sync.WaitGroup
	dataflow := make(chan *stepResult)
	for step := 0; step < stepcount; step++ {
		wg.Add(1)
		go func(step int) {
			defer wg.Done()
			dataflow <- runStep(name, outputPath, params, plasma, shells, binding, channels, step)
		}(step)
	}

	go func() {
		wg.Wait()
		close(dataflow)
	}()

	var rows utils.CSV
	fracSums := make([]float64, 0, stepcount)
	for res := range dataflow {
		if res.err != nil {
			Log.Errorf("scenario %s step %d: %v", name, res.step, res.err)
			continue
		}
		rows = append(rows, res.rows...)
		fracSums = append(fracSums, res.fracSum)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no steps completed")
	}

	if len(fracSums) > 1 {
		mean, variance := utils.MeanAndVariance(fracSums, true)
		Log.Infof("frac_sum across %d sweep steps: mean %.4f, stddev %.2e", len(fracSums), mean, math.Sqrt(variance))
	}

	return utils.WriteAsCSV(rows, params.MakeDir, outputPath, name, "stats", statsColumns)
}

func runStep(
	name, outputPath string, params config.ScenarioParameters,
	plasma *spencerfano.Plasma, shells atomic.CollisionTable,
	binding atomic.BindingTable, channels []atomic.ExcitationChannel, step int,
) *stepResult {
	emin, emax, npts := params.EMin, params.EMax, params.NPoints
	switch params.Vary {
	case "emin":
		emin *= float64(int(1) << step)
	case "emax":
		emax *= float64(int(1) << step)
	case "npts":
		npts <<= step
	case "emax,npts":
		emax *= float64(int(1) << step)
		npts <<= step
	}

	grid, err := spencerfano.NewEnergyGrid(emin, emax, npts)
	if err != nil {
		return &stepResult{step: step, err: err}
	}

	var transitions map[spencerfano.IonSpecies][]spencerfano.Transition
	if !params.NoExcitation && len(channels) > 0 {
		transitions = buildTransitions(plasma, channels, params.Temperature)
	}

	opts := spencerfano.Options{
		Grid:             grid,
		Plasma:           plasma,
		Shells:           shells,
		Transitions:      transitions,
		NNE:              params.ElectronDensity,
		DepositionEV:     params.DepositionRate,
		DifferentialForm: params.DifferentialForm,
		Log:              Log,
	}

	res, err := spencerfano.Solve(opts)
	if err != nil {
		return &stepResult{step: step, err: err}
	}

	peak := utils.Argmax(res.YVec)
	Log.Infof("  step %d: spectrum peaks at %.1f eV", step, grid.En(peak))

	diag, err := spencerfano.Analyse(res, opts, binding)
	if err != nil {
		return &stepResult{step: step, err: err}
	}

	if params.MakePlot && step == 0 {
		profiles := spencerfano.Profiles(res, opts)
		if err := plotting.SaveSpectrum(res, outputPath+name+"_spectrum.png"); err != nil {
			return &stepResult{step: step, err: err}
		}
		if err := plotting.SavePartition(profiles, params.NoExcitation, outputPath+name+"_partition.png"); err != nil {
			return &stepResult{step: step, err: err}
		}
	}

	var rows utils.CSV
	for _, ion := range plasma.Ions {
		rows = append(rows, []string{
			strconv.Itoa(step),
			strconv.FormatFloat(emin, 'g', -1, 64),
			strconv.FormatFloat(emax, 'g', -1, 64),
			strconv.Itoa(npts),
			ion.String(),
			strconv.FormatFloat(diag.FracIonizationIon[ion], 'f', 4, 64),
			strconv.FormatFloat(diag.FracExcitationIon[ion], 'f', 4, 64),
			strconv.FormatFloat(diag.GammaNT[ion], 'e', 4, 64),
			strconv.FormatFloat(diag.FracHeating, 'f', 4, 64),
			strconv.FormatFloat(diag.FracSum(), 'f', 4, 64),
		})
	}
	return &stepResult{step: step, rows: rows, fracSum: diag.FracSum()}
}

// buildTransitions attaches the tabulated excitation channels to the
// neutral species of the composition. The lower level of every channel
// is the ground state; its population is the LTE ground share of the
// ion population over the pseudo level list built from the channel
// thresholds.
func buildTransitions(
	plasma *spencerfano.Plasma, channels []atomic.ExcitationChannel, temperatureK float64,
) map[spencerfano.IonSpecies][]spencerfano.Transition {
	transitions := map[spencerfano.IonSpecies][]spencerfano.Transition{}
	for _, ion := range plasma.Ions {
		if ion.IonStage != 1 {
			continue
		}
		levels := make([]atomic.Level, 0, len(channels)+1)
		levels = append(levels, atomic.Level{EnergyEV: 0, G: 1})
		for _, ch := range channels {
			levels = append(levels, atomic.Level{EnergyEV: ch.ThresholdEV, G: 1})
		}
		pops := atomic.LTEPops(levels, plasma.Pop(ion), temperatureK)

		ionTransitions := make([]spencerfano.Transition, 0, len(channels))
		for _, ch := range channels {
			ionTransitions = append(ionTransitions, spencerfano.Transition{
				EpsilonTransEV: ch.ThresholdEV,
				LowerG:         1,
				UpperG:         1,
				CollStr:        -1,
				LowerPop:       pops[0],
				TabulatedXS:    ch.XS,
			})
		}
		transitions[ion] = ionTransitions
	}
	return transitions
}
