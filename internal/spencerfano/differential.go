package spencerfano

import (
	"math"

	"github.com/ejecta-tools/sfnt/internal/atomic"
)

// Quadrature subdivision counts for the direct integrations that the
// differential form (and the below-grid N_e correction) cannot express
// through the arctangent antiderivative.
const (
	epsSubdivisionsPrimary = 1000
	epsSubdivisionsTail    = 100
)

// AddLossDerivative puts the -d(y L)/dE term of the differential form
// (Kozma & Fransson 1992 Eq 6) on the matrix with a first-order
// forward difference.
func (op *Operator) AddLossDerivative(nne float64) {
	grid := op.grid
	npts := grid.Len()
	deltaen := grid.Delta()

	lossfn := make([]float64, npts)
	for i := range lossfn {
		lossfn[i] = LossFunction(grid.En(i), nne)
	}

	for i := 0; i < npts; i++ {
		// -dy/dE * L(E)
		op.m.Set(i, i, op.m.At(i, i)+lossfn[i]/deltaen)
		if i+1 < npts {
			op.m.Set(i, i+1, op.m.At(i, i+1)-lossfn[i]/deltaen)
		}
		// -y * dL/dE
		op.m.Set(i, i, op.m.At(i, i)-(LossFunction(grid.En(i)+deltaen, nne)-lossfn[i])/deltaen)
	}
}

// AddIonizationShellDifferential adds one shell's ionization terms in
// the differential form: the analytic in-scattering probability on the
// diagonal, a direct quadrature of the secondary distribution over the
// energy transfer, and the secondary production tail above 2E+I.
func (op *Operator) AddIonizationShellDifferential(nnion float64, shell atomic.Shell) {
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

	oneoveratan := make([]float64, npts)
	for i := range oneoveratan {
		oneoveratan[i] = 1 / math.Atan((grid.En(i)-ionpot)/2/j)
	}

	intEpsLowerA := math.Atan((ionpot - ionpot) / j)
	for i := xsstartindex; i < npts; i++ {
		en := grid.En(i)

		// probability of any ionization by a primary at E_i
		epsilonUpper := (ionpot + en) / 2
		if ionpot < epsilonUpper {
			intEpsUpper := math.Atan((epsilonUpper - ionpot) / j)
			pInt := 1 / math.Atan((en-ionpot)/2/j) * (intEpsUpper - intEpsLowerA)
			op.m.Set(i, i, op.m.At(i, i)+nnion*xs[i]*pInt)
		}

		// primaries arriving at E_i from energies up to E_i+enlambda
		enlambda := math.Min(grid.Last()-en, en+ionpot)
		if ionpot < enlambda {
			deltaEps := (enlambda - ionpot) / epsSubdivisionsTail
			prefactor := nnion / j / math.Atan((en-ionpot)/2/j) * deltaEps
			for k := 0; k < epsSubdivisionsTail; k++ {
				epsilon := ionpot + float64(k)*deltaEps
				col := grid.IndexBelow(en + epsilon)
				op.m.Set(i, col, op.m.At(i, col)-prefactor*xs[col]/(1+math.Pow((epsilon-ionpot)/j, 2)))
			}
		}

		// secondaries created at E_i by primaries above 2E_i+I
		if 2*en+ionpot < grid.Last() {
			epsilon := en + ionpot
			prefactor := nnion / j / (1 + math.Pow((epsilon-ionpot)/j, 2)) * deltaen
			for col := grid.IndexBelow(2*en + ionpot); col < npts; col++ {
				op.m.Set(i, col, op.m.At(i, col)-prefactor*xs[col]*oneoveratan[col])
			}
		}
	}
}
