package atomic

import "math"

// Level is one bound level of an ion.
type Level struct {
	EnergyEV float64
	G        float64 // statistical weight
}

const kBoltzmannEVPerK = 8.617333262e-5 // [eV K^-1]

// LTEPops distributes an ion population nnion over its levels with
// Boltzmann weights at the given temperature. Used to assign lower
// level populations when no NLTE estimate is available.
func LTEPops(levels []Level, nnion, temperatureK float64) []float64 {
	partfunc := 0.
	for _, lvl := range levels {
		partfunc += lvl.G * math.Exp(-lvl.EnergyEV/kBoltzmannEVPerK/temperatureK)
	}
	pops := make([]float64, len(levels))
	for i, lvl := range levels {
		pops[i] = nnion / partfunc * lvl.G * math.Exp(-lvl.EnergyEV/kBoltzmannEVPerK/temperatureK)
	}
	return pops
}
