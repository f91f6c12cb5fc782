package spencerfano

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ejecta-tools/sfnt/internal/atomic"
)

// Options configures one Spencer-Fano solve.
type Options struct {
	Grid   *EnergyGrid
	Plasma *Plasma
	Shells atomic.CollisionTable

	// Transitions holds the excitation channels per ion; a nil map
	// disables excitation entirely (required for the differential
	// form).
	Transitions map[IonSpecies][]Transition

	// NNE is the free electron density [cm^-3]; when zero it is
	// derived from the ion charges.
	NNE float64

	// DepositionEV is the energy deposition rate [eV s^-1 cm^-3] the
	// solution is normalized to.
	DepositionEV float64

	// SourceVec overrides the default high-energy injection spectrum.
	SourceVec []float64

	DifferentialForm bool

	Log logrus.FieldLogger
}

func (opts *Options) nne() float64 {
	if opts.NNE > 0 {
		return opts.NNE
	}
	return opts.Plasma.NNE()
}

func (opts *Options) logger() logrus.FieldLogger {
	if opts.Log != nil {
		return opts.Log
	}
	return logrus.StandardLogger()
}

// Result is a solved degradation spectrum.
type Result struct {
	Grid      *EnergyGrid
	YVec      []float64 // y(E) [s^-1 cm^-2 eV^-1]
	SourceVec []float64
	EInitEV   float64 // energy injection rate of the unscaled source

	ne *neCache // lazily built below-grid N_e cache, valid for this solve only
}

func (r *Result) neCache() *neCache {
	if r.ne == nil {
		r.ne = newNECache(r.Grid.E0())
	}
	return r.ne
}

// Solve assembles the Spencer-Fano operator in the requested form and
// solves it for the degradation spectrum, normalized to the deposition
// rate.
func Solve(opts Options) (*Result, error) {
	grid := opts.Grid
	npts := grid.Len()
	log := opts.logger()

	if opts.DepositionEV <= 0 {
		return nil, fmt.Errorf("spencerfano: deposition rate must be positive, got %g", opts.DepositionEV)
	}
	if opts.DifferentialForm && opts.Transitions != nil {
		return nil, fmt.Errorf("spencerfano: the differential form does not support excitation")
	}

	source := opts.SourceVec
	if source == nil {
		source = SourceSpectrum(grid)
	} else if len(source) != npts {
		return nil, fmt.Errorf("spencerfano: source vector has %d points, grid has %d", len(source), npts)
	}

	nne := opts.nne()
	form := "integral"
	if opts.DifferentialForm {
		form = "differential"
	}
	log.WithFields(logrus.Fields{
		"form": form,
		"npts": npts,
		"emin": grid.E0(),
		"emax": grid.Last(),
	}).Info("setting up Spencer-Fano equation")

	eInitEV := floats.Dot(grid.Points(), source) * grid.Delta()
	log.Infof("    E_init: %7.2f eV/s/cm3", eInitEV)

	constvec := make([]float64, npts)
	if opts.DifferentialForm {
		copy(constvec, source)
	} else {
		// cumulative tail sum of the source
		tail := 0.
		for i := npts - 1; i >= 0; i-- {
			tail += source[i] * grid.Delta()
			constvec[i] = tail
		}
	}

	op := NewOperator(grid)
	if opts.DifferentialForm {
		op.AddLossDerivative(nne)
	} else {
		op.AddLoss(nne)
	}

	for _, ion := range opts.Plasma.Ions {
		nnion := opts.Plasma.Pop(ion)
		shells := opts.Shells.ForIon(ion.Z, ion.IonStage)
		log.WithFields(logrus.Fields{
			"ion":    ion.String(),
			"nnion":  fmt.Sprintf("%.2e", nnion),
			"shells": len(shells),
		}).Info("  including ionization")
		for _, shell := range shells {
			if shell.IonPotEV < grid.E0() {
				return nil, fmt.Errorf("spencerfano: shell potential %g eV of %v below the grid minimum %g eV",
					shell.IonPotEV, ion, grid.E0())
			}
			if opts.DifferentialForm {
				op.AddIonizationShellDifferential(nnion, shell)
			} else {
				op.AddIonizationShell(nnion, shell)
			}
		}

		if transitions := opts.Transitions[ion]; len(transitions) > 0 {
			log.WithFields(logrus.Fields{
				"ion":         ion.String(),
				"transitions": len(transitions),
			}).Info("  including excitation")
			op.AddExcitation(transitions)
		}
	}

	var lu mat.LU
	lu.Factorize(op.Matrix())
	yref := mat.NewVecDense(npts, nil)
	if err := lu.SolveVecTo(yref, false, mat.NewVecDense(npts, constvec)); err != nil {
		// An ill-conditioned matrix still carries a computed solution;
		// the differential-form operator is always in this regime.
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("spencerfano: singular operator matrix: %w", err)
		}
		log.Warnf("operator matrix is ill-conditioned (condition number %.2e)", float64(cond))
	}

	yvec := make([]float64, npts)
	scale := opts.DepositionEV / eInitEV
	for i := range yvec {
		yvec[i] = yref.AtVec(i) * scale
	}

	return &Result{Grid: grid, YVec: yvec, SourceVec: source, EInitEV: eInitEV}, nil
}
