package spencerfano

import "math"

// JParam is the secondary electron distribution width parameter [eV],
// from Opal et al. 1971 as applied by Kozma & Fransson 1992: measured
// values for neutral He, Ne and Ar, otherwise 0.6 times the ionization
// potential.
func JParam(z, ionStage int, ionPotEV float64) float64 {
	if ionStage == 1 {
		switch z {
		case 2: // He I
			return 15.8
		case 10: // Ne I
			return 24.2
		case 18: // Ar I
			return 10.0
		}
	}
	return 0.6 * ionPotEV
}

// Psecondary is the normalized probability density, per eV of ejected
// energy esEV, that an ionization by a primary of energy epEV leaves a
// secondary with energy esEV (Kozma & Fransson 1992 Eq 5).
func Psecondary(epEV, ionPotEV, j, esEV float64) float64 {
	return 1 / j / math.Atan((epEV-ionPotEV)/2/j) / (1 + (esEV/j)*(esEV/j))
}

// PsecondaryEps is Psecondary expressed in the energy transfer
// epsilon = e_s + I of the primary.
func PsecondaryEps(epEV, ionPotEV, j, epsilonEV float64) float64 {
	return Psecondary(epEV, ionPotEV, j, epsilonEV-ionPotEV)
}
