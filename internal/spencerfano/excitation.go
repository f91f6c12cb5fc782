package spencerfano

import (
	"math"

	"github.com/ejecta-tools/sfnt/internal/constants"
)

// Transition is one bound-bound excitation channel of an ion. The
// cross section comes from the first available of: a tabulated cross
// section (e.g. an LXCat process), a collision strength (CollStr >= 0,
// Li et al. 2012 Eq 11), or the Mewe (1972) oscillator-strength form
// derived from the Einstein A coefficient for permitted transitions.
// Forbidden transitions without a collision strength contribute
// nothing.
type Transition struct {
	EpsilonTransEV float64 // transition energy [eV]
	LowerG, UpperG float64 // statistical weights
	CollStr        float64 // collision strength, negative if unknown
	A              float64 // Einstein A coefficient [s^-1]
	Forbidden      bool
	LowerPop       float64 // lower level population [cm^-3]

	// TabulatedXS, when non-nil, overrides the analytic forms and
	// returns the cross section [cm^2] at an impact energy [eV].
	TabulatedXS func(enEV float64) float64
}

// mewePrefactor is the constant of Mewe (1972) Eq 4.
const mewePrefactor = 45.585750051

// XSVector evaluates the excitation cross section [cm^2] of the
// transition over the energy grid. Entries below threshold are zero.
func (t Transition) XSVector(grid *EnergyGrid) []float64 {
	npts := grid.Len()
	xs := make([]float64, npts)

	startindex := int(math.Ceil((t.EpsilonTransEV - grid.E0()) / grid.Delta()))
	if startindex < 0 {
		startindex = 0
	}
	if startindex >= npts {
		return xs
	}

	switch {
	case t.TabulatedXS != nil:
		for j := startindex; j < npts; j++ {
			xs[j] = t.TabulatedXS(grid.En(j))
		}
	case t.CollStr >= 0:
		constantfactor := constants.HIonPot * constants.HIonPot / t.LowerG * t.CollStr * math.Pi * constants.A0Sq
		for j := startindex; j < npts; j++ {
			en := grid.En(j) * constants.EV
			xs[j] = constantfactor / (en * en)
		}
	case !t.Forbidden:
		epsilonTrans := t.EpsilonTransEV * constants.EV
		nuTrans := epsilonTrans / constants.H
		g := t.UpperG / t.LowerG
		fij := g * constants.ME * math.Pow(constants.CLight, 3) /
			(8 * math.Pow(constants.QE*nuTrans*math.Pi, 2)) * t.A

		constantfactor := mewePrefactor * constants.A0Sq *
			math.Pow(constants.HIonPot/epsilonTrans, 2) * fij
		for j := startindex; j < npts; j++ {
			u := grid.En(j) / t.EpsilonTransEV
			gBar := 0.28*math.Log(u) + 0.15
			xs[j] = constantfactor * gBar / u
		}
	}
	return xs
}

// fracExcitationIon is the fraction of the deposited energy going into
// collisional excitation of one ion: Kozma & Fransson 1992 Eq 4 summed
// over the ion's transitions.
func fracExcitationIon(grid *EnergyGrid, transitions []Transition, yvec []float64, depositionEV float64) float64 {
	npts := grid.Len()
	sum := make([]float64, npts)
	for _, trans := range transitions {
		if trans.EpsilonTransEV < grid.E0() {
			continue
		}
		xs := trans.XSVector(grid)
		for j := range sum {
			sum[j] += trans.LowerPop * trans.EpsilonTransEV * xs[j]
		}
	}
	dot := 0.
	for j := range sum {
		dot += sum[j] * yvec[j]
	}
	return dot * grid.Delta() / depositionEV
}
