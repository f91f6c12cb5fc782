package spencerfano

import (
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/ejecta-tools/sfnt/internal/atomic"
	"github.com/ejecta-tools/sfnt/internal/constants"
)

// Diagnostics is the energy partition and the derived per-ion rates of
// one solved spectrum.
type Diagnostics struct {
	FracIonization float64
	FracExcitation float64
	FracHeating    float64

	FracIonizationIon map[IonSpecies]float64
	FracExcitationIon map[IonSpecies]float64

	// GammaNT is the non-thermal ionization rate coefficient per ion
	// [s^-1].
	GammaNT map[IonSpecies]float64

	// EffIonPotEV is the effective energy per ion pair, from the
	// valence potential; EffIonPotShellEV weights each shell by its
	// own potential.
	EffIonPotEV      map[IonSpecies]float64
	EffIonPotShellEV map[IonSpecies]float64

	// WorkFnEV is the Axelrod work function from the mean binding
	// energy, present when a binding table was supplied.
	WorkFnEV map[IonSpecies]float64
}

// FracSum is the total of the three partition fractions; close to one
// for a converged solution.
func (d *Diagnostics) FracSum() float64 {
	return d.FracIonization + d.FracExcitation + d.FracHeating
}

// neCache memoizes the below-grid N_e integrals of one solve, keyed by
// a quantized sub-grid index so that the E0/10 heating steps and the
// E0/20 profile steps share entries.
type neCache struct {
	quantum float64
	vals    map[int]float64
}

func newNECache(e0 float64) *neCache {
	return &neCache{quantum: e0 / 40, vals: map[int]float64{}}
}

func (c *neCache) key(enEV float64) int {
	return int(math.Round(enEV / c.quantum))
}

// calculateNE is the number of electrons degrading past an energy
// below the grid minimum (Kozma & Fransson 1992 Eq 6), used by the
// heating fraction. Not valid above E0.
func (c *neCache) calculateNE(enEV float64, res *Result, opts *Options) float64 {
	if enEV == 0 {
		return 0
	}
	if v, ok := c.vals[c.key(enEV)]; ok {
		return v
	}

	grid := res.Grid
	yvec := res.YVec
	ne := 0.

	for _, ion := range opts.Plasma.Ions {
		neIon := 0.
		nnion := opts.Plasma.Pop(ion)
		for _, shell := range opts.Shells.ForIon(ion.Z, ion.IonStage) {
			ionpot := shell.IonPotEV
			enlambda := math.Min(grid.Last()-enEV, enEV+ionpot)
			j := JParam(shell.Z, shell.IonStage, ionpot)
			xs := atomic.ArXSVector(shell, grid.Points())

			// energy transfers from ionpot up to enlambda
			deltaEndash := (enlambda - ionpot) / epsSubdivisionsPrimary
			if deltaEndash > 0 {
				for k := 0; k < epsSubdivisionsPrimary; k++ {
					endash := ionpot + float64(k)*deltaEndash
					i := grid.IndexBelow(enEV + endash)
					neIon += yvec[i] * xs[i] * PsecondaryEps(enEV+endash, ionpot, j, endash) * deltaEndash
				}
			}

			// secondaries from primaries between 2E+I and Emax
			deltaEndash = (grid.Last() - (2*enEV + ionpot)) / epsSubdivisionsTail
			if deltaEndash > 0 {
				for k := 0; k < epsSubdivisionsTail; k++ {
					endash := 2*enEV + ionpot + float64(k)*deltaEndash
					i := grid.IndexBelow(endash)
					neIon += yvec[i] * xs[i] * PsecondaryEps(endash, ionpot, j, enEV+ionpot) * deltaEndash
				}
			}
		}
		ne += nnion * neIon
	}

	for _, ion := range opts.Plasma.Ions {
		for _, trans := range opts.Transitions[ion] {
			if trans.EpsilonTransEV < grid.E0() {
				continue
			}
			i := grid.IndexBelow(enEV + trans.EpsilonTransEV)
			xs := trans.XSVector(grid)
			ne += trans.LowerPop * trans.EpsilonTransEV * xs[i] * yvec[i]
		}
	}

	// no source term: the injection is zero this far below the grid
	c.vals[c.key(enEV)] = ne
	return ne
}

// fracHeating is the heating fraction of Kozma & Fransson 1992 Eq 8:
// a trapezoid of L(E)y(E) over the grid, the boundary term E0*y(E0)*L(E0)
// and the below-grid N_e correction.
func fracHeating(res *Result, opts *Options, nne float64, cache *neCache) float64 {
	grid := res.Grid
	yvec := res.YVec
	npts := grid.Len()
	dep := opts.DepositionEV
	e0 := grid.E0()

	heating := 0.
	for i := 0; i < npts; i++ {
		weight := 2.
		if i == 0 || i == npts-1 {
			weight = 1.
		}
		heating += 0.5 * weight * LossFunction(grid.En(i), nne) * yvec[i] * grid.Delta() / dep
	}

	heating += e0 * yvec[0] * LossFunction(e0, nne) / dep

	deltaEn := e0 / 10
	for k := 0; k < 10; k++ {
		enEV := float64(k) * deltaEn
		heating += cache.calculateNE(enEV, res, opts) * enEV * deltaEn / dep
	}
	return heating
}

// Analyse derives the energy partition, per-ion ionization rates and
// work functions from a solved spectrum. A nil binding table skips the
// work function output.
func Analyse(res *Result, opts Options, binding atomic.BindingTable) (*Diagnostics, error) {
	grid := res.Grid
	yvec := res.YVec
	dep := opts.DepositionEV
	log := opts.logger()
	nne := opts.nne()
	nntot := opts.Plasma.NNTot()
	zbar := opts.Plasma.Zbar()

	d := &Diagnostics{
		FracIonizationIon: map[IonSpecies]float64{},
		FracExcitationIon: map[IonSpecies]float64{},
		GammaNT:           map[IonSpecies]float64{},
		EffIonPotEV:       map[IonSpecies]float64{},
		EffIonPotShellEV:  map[IonSpecies]float64{},
		WorkFnEV:          map[IonSpecies]float64{},
	}

	for _, ion := range opts.Plasma.Ions {
		nnion := opts.Plasma.Pop(ion)
		xIon := nnion / nntot
		shells := opts.Shells.ForIon(ion.Z, ion.IonStage)
		ionpotValence := opts.Shells.ValencePotentialEV(ion.Z, ion.IonStage)

		ionLog := log.WithFields(logrus.Fields{"ion": ion.String()})
		ionLog.Infof("====> valence potential %.1f eV, nnion %.2e /cm3, X_ion %.5f", ionpotValence, nnion, xIon)

		fracIonizationIon := 0.
		etaOverIonpotSum := 0.
		for _, shell := range shells {
			xs := atomic.ArXSVector(shell, grid.Points())
			fracShell := nnion * shell.IonPotEV * floats.Dot(yvec, xs) * grid.Delta() / dep
			ionLog.Infof("frac_ionization_shell(n %d l %d): %.4f (ionpot %.2f eV)",
				shell.N, shell.L, fracShell, shell.IonPotEV)

			if fracShell > 1 {
				ionLog.Warnf("ignoring unphysical frac_ionization_shell %.4f (n %d l %d)", fracShell, shell.N, shell.L)
				fracShell = 0
			}
			fracIonizationIon += fracShell
			etaOverIonpotSum += fracShell / shell.IonPotEV
		}
		d.FracIonizationIon[ion] = fracIonizationIon
		d.FracIonization += fracIonizationIon

		effIonpotShell := math.Inf(1)
		if etaOverIonpotSum > 0 {
			effIonpotShell = xIon / etaOverIonpotSum
		}
		effIonpot := math.Inf(1)
		if fracIonizationIon > 0 {
			effIonpot = ionpotValence * xIon / fracIonizationIon
		}
		d.EffIonPotShellEV[ion] = effIonpotShell
		d.EffIonPotEV[ion] = effIonpot
		ionLog.Infof("     frac_ionization: %.4f", fracIonizationIon)

		if transitions := opts.Transitions[ion]; len(transitions) > 0 {
			fracExc := fracExcitationIon(grid, transitions, yvec, dep)
			if fracExc > 1 {
				ionLog.Warnf("ignoring unphysical frac_excitation %.4f", fracExc)
				fracExc = 0
			}
			d.FracExcitationIon[ion] = fracExc
			d.FracExcitation += fracExc
			ionLog.Infof("     frac_excitation: %.4f", fracExc)
		} else {
			d.FracExcitationIon[ion] = 0
		}

		ionLog.Infof(" eff_ionpot_shellpot: %.2f eV", effIonpotShell)
		ionLog.Infof("  eff_ionpot_valence: %.2f eV", effIonpot)
		d.GammaNT[ion] = dep / nntot / effIonpot
		ionLog.Infof("  Spencer-Fano Gamma: %.2e", d.GammaNT[ion])

		if binding != nil {
			meanBinding, err := atomic.MeanBindingEnergy(ion.Z, ion.IonStage, binding, ionpotValence)
			if err != nil {
				return nil, err
			}
			oneOverW := constants.LotzAConst * meanBinding / zbar / (2 * math.Pi * math.Pow(constants.QE, 4))
			d.WorkFnEV[ion] = 1 / oneOverW / constants.EV
			ionLog.Infof("       work function: %.2f eV", d.WorkFnEV[ion])
			ionLog.Infof("   work fn ratecoeff: %.2e", dep*constants.EV/nntot*oneOverW)
		}
	}

	log.Infof("  frac_excitation_tot: %.4f", d.FracExcitation)
	log.Infof("  frac_ionization_tot: %.4f", d.FracIonization)

	d.FracHeating = fracHeating(res, &opts, nne, res.neCache())

	log.Infof("         frac_heating: %.4f", d.FracHeating)
	log.Infof("             frac_sum: %.4f", d.FracSum())

	return d, nil
}
