package spencerfano

import (
	"github.com/ejecta-tools/sfnt/internal/atomic"
)

// EtaProfiles holds the differential energy partition d(eta)/dE over
// the grid and the reversed cumulative integrals eta(E..Emax),
// including a below-E0 extension of the heating channel. Consumed by
// the plotting layer.
type EtaProfiles struct {
	Energies []float64 // low extension followed by the grid energies

	DEtaIon  []float64 // per grid point only
	DEtaExc  []float64
	DEtaHeat []float64

	EtaIonInt  []float64 // same length as Energies
	EtaExcInt  []float64
	EtaHeatInt []float64
	EtaTotInt  []float64

	LowPoints int // number of below-E0 points at the front of Energies
}

// Profiles computes the energy partition profiles of a solved
// spectrum.
func Profiles(res *Result, opts Options) *EtaProfiles {
	grid := res.Grid
	yvec := res.YVec
	npts := grid.Len()
	dep := opts.DepositionEV
	nne := opts.nne()
	deltaen := grid.Delta()
	e0 := grid.E0()

	dIon := make([]float64, npts)
	dExc := make([]float64, npts)
	dHeat := make([]float64, npts)

	for _, ion := range opts.Plasma.Ions {
		nnion := opts.Plasma.Pop(ion)
		for _, shell := range opts.Shells.ForIon(ion.Z, ion.IonStage) {
			xs := atomic.ArXSVector(shell, grid.Points())
			for i := range dIon {
				dIon[i] += nnion * shell.IonPotEV * xs[i] / dep
			}
		}
		for _, trans := range opts.Transitions[ion] {
			if trans.EpsilonTransEV < e0 {
				continue
			}
			xs := trans.XSVector(grid)
			for i := range dExc {
				dExc[i] += trans.LowerPop * trans.EpsilonTransEV * xs[i] / dep
			}
		}
	}
	for i := 0; i < npts; i++ {
		dIon[i] *= yvec[i]
		dExc[i] *= yvec[i]
		dHeat[i] = LossFunction(grid.En(i), nne) * yvec[i] / dep
	}

	ionInt := make([]float64, npts)
	excInt := make([]float64, npts)
	heatInt := make([]float64, npts)
	for i := npts - 2; i >= 0; i-- {
		ionInt[i] = ionInt[i+1] + dIon[i]*deltaen
		excInt[i] = excInt[i+1] + dExc[i]*deltaen
		heatInt[i] = heatInt[i+1] + dHeat[i]*deltaen
	}
	heatInt[0] += e0 * yvec[0] * LossFunction(e0, nne) / dep

	// extend the heating channel below E0 with the N_e correction;
	// the cross sections start above E0 so the other channels stay
	// flat there
	const lowSteps = 20
	deltaLow := e0 / lowSteps
	cache := res.neCache()
	lowEns := make([]float64, lowSteps)
	lowHeatInt := make([]float64, lowSteps)
	lowIonInt := make([]float64, lowSteps)
	lowExcInt := make([]float64, lowSteps)
	for i := lowSteps - 1; i >= 0; i-- {
		enEV := float64(i) * deltaLow
		lowEns[i] = enEV
		ne := cache.calculateNE(enEV, res, &opts)
		next := heatInt[0]
		if i < lowSteps-1 {
			next = lowHeatInt[i+1]
		}
		lowHeatInt[i] = next + ne*enEV/dep*deltaLow
		lowIonInt[i] = ionInt[0]
		lowExcInt[i] = excInt[0]
	}

	p := &EtaProfiles{
		Energies:   append(lowEns, grid.Points()...),
		DEtaIon:    dIon,
		DEtaExc:    dExc,
		DEtaHeat:   dHeat,
		EtaIonInt:  append(lowIonInt, ionInt...),
		EtaExcInt:  append(lowExcInt, excInt...),
		EtaHeatInt: append(lowHeatInt, heatInt...),
		LowPoints:  lowSteps,
	}
	p.EtaTotInt = make([]float64, len(p.Energies))
	for i := range p.EtaTotInt {
		p.EtaTotInt[i] = p.EtaIonInt[i] + p.EtaExcInt[i] + p.EtaHeatInt[i]
	}
	return p
}
