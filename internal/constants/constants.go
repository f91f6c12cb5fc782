// Package constants collects the cgs physical constants used by the
// non-thermal electron degradation solver. Values match the radiative
// transfer code this tool post-processes, not CODATA, so that spectra
// and deposition rates agree bit-for-bit.
package constants

const EV float64 = 1.6021772e-12        // [erg]
const H float64 = 6.6260755e-27         // [erg s]
const ME float64 = 9.1093897e-28        // [g]
const QE float64 = 4.80325e-10          // [esu]
const CLight float64 = 2.99792458e10    // [cm s^-1]
const HIonPot float64 = 13.5979996 * EV // [erg] hydrogen ionization potential
const HIonPotEV float64 = 13.5979996    // [eV]
const A0Sq float64 = 2.800285203e-17    // [cm^2] Bohr radius squared
const EulerGamma float64 = 0.577215664901532

// LotzAConst is the A constant of the Lotz-style ionization cross
// section in Axelrod (1980) Eq. 3.38.
const LotzAConst float64 = 1.33e-14 * EV * EV // [erg^2 cm^2]
