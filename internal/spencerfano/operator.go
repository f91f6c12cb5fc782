package spencerfano

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ejecta-tools/sfnt/internal/atomic"
)

// Operator is the dense Spencer-Fano matrix being assembled for one
// solve. Row i is the equation for y at grid energy E_i; columns j >= i
// couple in the flux at higher energies that degrades down past E_i.
type Operator struct {
	grid *EnergyGrid
	m    *mat.Dense
}

func NewOperator(grid *EnergyGrid) *Operator {
	npts := grid.Len()
	return &Operator{grid: grid, m: mat.NewDense(npts, npts, nil)}
}

// Matrix exposes the assembled matrix for factorization.
func (op *Operator) Matrix() *mat.Dense { return op.m }

// AddLoss puts the continuous energy loss term on the diagonal
// (integral form of Kozma & Fransson 1992 Eq 7).
func (op *Operator) AddLoss(nne float64) {
	for i := 0; i < op.grid.Len(); i++ {
		op.m.Set(i, i, op.m.At(i, i)+LossFunction(op.grid.En(i), nne))
	}
}

// AddIonizationShell adds the ionization terms of one shell of an ion
// with number density nnion. The inner loop evaluates the arctangent
// antiderivative of the secondary distribution over the energy
// transfer limits of Kozma & Fransson 1992 Eq 4, with a subtracted
// second range for primaries that end up below E_i (endash >= 2E_i+I).
func (op *Operator) AddIonizationShell(nnion float64, shell atomic.Shell) {
	grid := op.grid
	npts := grid.Len()
	deltaen := grid.Delta()
	ionpot := shell.IonPotEV
	j := JParam(shell.Z, shell.IonStage, ionpot)

	xs := atomic.ArXSVector(shell, grid.Points())

	xsstartindex := 0
	if ionpot > grid.E0() {
		xsstartindex = grid.IndexBelow(ionpot)
	}

	for i := 0; i < npts; i++ {
		en := grid.En(i)

		jstart := i
		if jstart < xsstartindex {
			jstart = xsstartindex
		}
		secondintegralstartindex := npts + 1
		if 2*en+ionpot < grid.Last()+deltaen {
			secondintegralstartindex = grid.IndexBelow(2*en + ionpot)
		}

		for col := jstart; col < npts; col++ {
			endash := grid.En(col)
			prefactor := nnion * xs[col] / math.Atan((endash-ionpot)/2/j) * deltaen
			if math.IsNaN(prefactor) || math.IsInf(prefactor, 0) {
				panic(fmt.Sprintf("ionization term not finite: Z=%d ion_stage=%d shell n=%d l=%d at %g eV",
					shell.Z, shell.IonStage, shell.N, shell.L, endash))
			}

			epsilonUpper := (endash + ionpot) / 2
			intEpsUpper := math.Atan((epsilonUpper - ionpot) / j)

			epsilonLower := endash - en
			intEpsLower := math.Atan((epsilonLower - ionpot) / j)
			op.m.Set(i, col, op.m.At(i, col)+prefactor*(intEpsUpper-intEpsLower))

			if col >= secondintegralstartindex+1 {
				epsilonLower = en + ionpot
				if epsilonLower > epsilonUpper {
					panic(fmt.Sprintf("second ionization range inverted: epsilon %g > %g at i=%d j=%d",
						epsilonLower, epsilonUpper, i, col))
				}
				intEpsLower = math.Atan((epsilonLower - ionpot) / j)
				op.m.Set(i, col, op.m.At(i, col)-prefactor*(intEpsUpper-intEpsLower))
			}
		}
	}
}

// AddExcitation adds the excitation terms of an ion's transitions.
// Each transition of energy eps couples row i to the columns from i up
// to i+ceil(eps/delta): primaries between E and E+eps are removed from
// the flux below E.
func (op *Operator) AddExcitation(transitions []Transition) {
	grid := op.grid
	npts := grid.Len()
	deltaen := grid.Delta()
	for _, trans := range transitions {
		if trans.EpsilonTransEV < grid.E0() {
			continue
		}
		xs := trans.XSVector(grid)
		width := int(math.Ceil(trans.EpsilonTransEV / deltaen))
		for i := 0; i < npts; i++ {
			stopindex := i + width
			if stopindex >= npts-1 {
				continue
			}
			for col := i; col <= stopindex; col++ {
				op.m.Set(i, col, op.m.At(i, col)+trans.LowerPop*deltaen*xs[col])
			}
		}
	}
}
