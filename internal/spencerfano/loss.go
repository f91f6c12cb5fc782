package spencerfano

import (
	"fmt"
	"math"

	"github.com/ejecta-tools/sfnt/internal/constants"
)

// LossFunction is the electron energy loss rate L(E) on the free
// electron plasma, in eV/cm (Kozma & Fransson 1992). Above 14 eV the
// Coulomb-logarithm form with the plasmon energy cutoff applies; below
// that the low-energy velocity form. nne must be positive.
func LossFunction(enEV, nne float64) float64 {
	energy := enEV * constants.EV

	omegap := 5.64e4 * math.Sqrt(nne) // [s^-1]
	zetae := constants.H * omegap / 2 / math.Pi

	var lossfunc float64
	if enEV > 14 {
		if 2*energy <= zetae {
			panic(fmt.Sprintf("loss function: energy %g eV at or below the plasmon cutoff for nne=%g", enEV, nne))
		}
		lossfunc = nne * 2 * math.Pi * math.Pow(constants.QE, 4) / energy * math.Log(2*energy/zetae)
	} else {
		v := math.Sqrt(2 * energy / constants.ME) // [cm s^-1]
		lossfunc = nne * 2 * math.Pi * math.Pow(constants.QE, 4) / energy *
			math.Log(constants.ME*v*v*v/(constants.EulerGamma*constants.QE*constants.QE*omegap))
	}
	return lossfunc / constants.EV
}

// LatomAxelrod is the per-atom stopping power on bound electrons,
// Axelrod (1980) Eq 3.21, with the mean excitation energy I = 280 eV
// assumed in the thesis. Returns erg cm^2.
func LatomAxelrod(zboundbar, enEV float64) float64 {
	enErg := enEV * constants.EV
	gamma := enErg/(constants.ME*constants.CLight*constants.CLight) + 1
	beta2 := 1 - 1/(gamma*gamma)
	vel2 := beta2 * constants.CLight * constants.CLight

	meanExc := 280 * constants.EV
	if 2*constants.ME*vel2 < meanExc {
		return 0
	}
	return 4 * math.Pi * math.Pow(constants.QE, 4) / (constants.ME * vel2) * zboundbar *
		(math.Log(2*constants.ME*vel2/meanExc) + math.Log(1/(1-beta2)) - beta2)
}

// LelecAxelrod is the per-atom stopping power on free electrons,
// Axelrod (1980) Eq 3.24. Returns erg cm^2.
func LelecAxelrod(enEV, nne, nntot float64) float64 {
	hbar := constants.H / 2 / math.Pi
	enErg := enEV * constants.EV
	gamma := enErg/(constants.ME*constants.CLight*constants.CLight) + 1
	beta2 := 1 - 1/(gamma*gamma)
	vel2 := beta2 * constants.CLight * constants.CLight
	omegap := 5.64e4 * math.Sqrt(nne)
	return 4 * math.Pi * math.Pow(constants.QE, 4) / (constants.ME * vel2) * nne / nntot *
		(math.Log(2*constants.ME*vel2/(hbar*omegap)) + 0.5*math.Log(1/(1-beta2)) - 0.5*beta2)
}
