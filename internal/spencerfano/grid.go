// Package spencerfano solves the steady-state Spencer-Fano equation
// for the degradation spectrum y(E) of fast non-thermal electrons in
// partially ionized supernova ejecta (Kozma & Fransson 1992), and
// derives the ionization/excitation/heating energy partition from the
// solution.
package spencerfano

import (
	"fmt"
	"math"
)

// EnergyGrid is a uniform energy grid [eV]. Immutable after creation.
type EnergyGrid struct {
	ens   []float64
	delta float64
}

// NewEnergyGrid builds a uniform grid of npts energies from eminEV to
// emaxEV inclusive.
func NewEnergyGrid(eminEV, emaxEV float64, npts int) (*EnergyGrid, error) {
	if eminEV <= 0 {
		return nil, fmt.Errorf("energy grid: emin must be positive, got %g", eminEV)
	}
	if emaxEV <= eminEV {
		return nil, fmt.Errorf("energy grid: emax %g must exceed emin %g", emaxEV, eminEV)
	}
	if npts < 2 {
		return nil, fmt.Errorf("energy grid: need at least 2 points, got %d", npts)
	}
	delta := (emaxEV - eminEV) / float64(npts-1)
	ens := make([]float64, npts)
	for i := range ens {
		ens[i] = eminEV + float64(i)*delta
	}
	ens[npts-1] = emaxEV
	return &EnergyGrid{ens: ens, delta: delta}, nil
}

func (g *EnergyGrid) Len() int         { return len(g.ens) }
func (g *EnergyGrid) Delta() float64   { return g.delta }
func (g *EnergyGrid) En(i int) float64 { return g.ens[i] }
func (g *EnergyGrid) E0() float64      { return g.ens[0] }
func (g *EnergyGrid) Last() float64    { return g.ens[len(g.ens)-1] }

// Points returns the grid energies. Callers must not modify the
// returned slice.
func (g *EnergyGrid) Points() []float64 { return g.ens }

// IndexBelow returns the largest index whose energy is strictly below
// enEV, or 0 when enEV equals the lowest grid energy. Panics when enEV
// lies outside [E0, Emax+delta): callers are expected to have clipped
// the integration limits already.
func (g *EnergyGrid) IndexBelow(enEV float64) int {
	if enEV < g.ens[0] || enEV >= g.Last()+g.delta {
		panic(fmt.Sprintf("energy %g eV outside grid [%g, %g+%g)", enEV, g.ens[0], g.Last(), g.delta))
	}
	i := int((enEV - g.ens[0]) / g.delta)
	if i >= len(g.ens) {
		i = len(g.ens) - 1
	}
	for i+1 < len(g.ens) && g.ens[i+1] < enEV {
		i++
	}
	for i > 0 && g.ens[i] >= enEV {
		i--
	}
	return i
}

// SourceFraction is the fraction of grid points, counted down from
// Emax, over which the injection source is spread.
const SourceFraction = 0.03

// SourceSpectrum builds the default injection spectrum: a flat source
// over the top ceil(npts*SourceFraction) grid points, normalized so
// that its plain sum times delta is one.
func SourceSpectrum(grid *EnergyGrid) []float64 {
	npts := grid.Len()
	spread := int(math.Ceil(float64(npts) * SourceFraction))
	source := make([]float64, npts)
	for s := npts - spread; s < npts; s++ {
		source[s] = 1 / (grid.Delta() * float64(spread))
	}
	return source
}
