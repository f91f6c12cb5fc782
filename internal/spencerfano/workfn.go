package spencerfano

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/ejecta-tools/sfnt/internal/atomic"
	"github.com/ejecta-tools/sfnt/internal/constants"
)

// EpsilonAvg is the mean energy transfer [eV] of the primary electron
// per ionization, integrating epsilon against the secondary
// distribution from I to (I+E_p)/2. Returns 0 when the primary cannot
// ionize. Panics when the distribution is badly non-normalized, which
// indicates inconsistent shell parameters.
func EpsilonAvg(epEV, j, ionPotEV float64) float64 {
	const npts = 1000000
	epsilonLower := ionPotEV
	epsilonUpper := (ionPotEV + epEV) / 2
	if epsilonUpper <= epsilonLower {
		return 0
	}
	deltaEps := (epsilonUpper - epsilonLower) / npts
	probSum := 0.
	epsAvg := 0.
	for i := 0; i < npts; i++ {
		epsilon := epsilonLower + float64(i)*deltaEps
		prob := PsecondaryEps(epEV, ionPotEV, j, epsilon) * deltaEps
		probSum += prob
		epsAvg += epsilon * prob
	}
	if math.Abs(probSum-1) >= 0.30 {
		panic(fmt.Sprintf("secondary distribution sums to %g for e_p=%g I=%g J=%g", probSum, epEV, ionPotEV, j))
	}
	return epsAvg
}

// latomIonization sums the per-atom ionization stopping power over the
// composition using the Lotz cross section and the mean energy
// transfer per ionization. Returns erg cm^2.
func latomIonization(plasma *Plasma, shells atomic.CollisionTable, binding atomic.BindingTable, enEV float64) (float64, error) {
	sum := 0.
	nntot := plasma.NNTot()
	for _, ion := range plasma.Ions {
		nnion := plasma.Pop(ion)
		ionpotValence := shells.ValencePotentialEV(ion.Z, ion.IonStage)
		j := JParam(ion.Z, ion.IonStage, ionpotValence)
		epsAvg := EpsilonAvg(enEV, j, ionpotValence)
		if epsAvg <= 0 {
			continue
		}
		sigma, err := atomic.LotzXS(ion.Z, ion.IonStage, binding, ionpotValence, enEV)
		if err != nil {
			return 0, err
		}
		sum += sigma * epsAvg * constants.EV * nnion / nntot
	}
	return sum, nil
}

// WorkFnEntry is the high-energy-limit work function of one ion,
// estimated four ways.
type WorkFnEntry struct {
	Ion          IonSpecies
	ValencePotEV float64
	LimitSimEV   float64 // from the mean binding energy (Axelrod)
	LimitLotzEV  float64 // (Lelec+Latom)/sigma_Lotz at Emax
	LimitEmaxEV  float64 // (Lelec+Latom)/sigma_AR85 at Emax
	IntegratedEV float64 // Emax over the integral of sigma/L from Emin
}

// EtaIon is the ionization fraction implied by a work function limit.
func EtaIon(valencePotEV, workFnEV float64) float64 { return valencePotEV / workFnEV }

// WorkFnReport compares work function and stopping power estimates in
// the high energy limit over a logarithmic energy grid (Axelrod 1980
// §3.2, Kozma & Fransson 1992 §2).
type WorkFnReport struct {
	NNTot, NNETot, NNE float64
	Zbar, Zboundbar    float64
	Energies           []float64
	LelecAxelrod       []float64
	LatomAxelrod       []float64
	LatomIonizationSum []float64
	Entries            []WorkFnEntry
}

// WorkFunctionReport evaluates the report for a composition over npts
// log-spaced energies between eminEV and emaxEV.
func WorkFunctionReport(
	plasma *Plasma, shells atomic.CollisionTable, binding atomic.BindingTable,
	eminEV, emaxEV float64, npts int, log logrus.FieldLogger,
) (*WorkFnReport, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &WorkFnReport{
		NNTot:     plasma.NNTot(),
		NNETot:    plasma.NNETot(),
		NNE:       plasma.NNE(),
		Zbar:      plasma.Zbar(),
		Zboundbar: plasma.Zboundbar(),
	}
	log.Infof("nntot %.1e, nnetot %.1e, nne %.1e, Zbar %.1e, Zboundbar %.1e",
		r.NNTot, r.NNETot, r.NNE, r.Zbar, r.Zboundbar)

	const hbarEVs = 6.58211951e-16 // [eV s]
	omegap := 5.6e4 * math.Sqrt(r.NNE)
	log.Infof("hbar * omegap = %.2e eV", hbarEVs*omegap)

	// log-spaced grid; the endpoint is consumed by the step widths
	full := make([]float64, npts)
	for i := range full {
		full[i] = math.Pow(10, math.Log10(eminEV)+(math.Log10(emaxEV)-math.Log10(eminEV))*float64(i)/float64(npts-1))
	}
	deltas := make([]float64, npts-1)
	for i := range deltas {
		deltas[i] = full[i+1] - full[i]
	}
	r.Energies = full[:npts-1]

	n := len(r.Energies)
	r.LelecAxelrod = make([]float64, n)
	r.LatomAxelrod = make([]float64, n)
	r.LatomIonizationSum = make([]float64, n)
	for i, en := range r.Energies {
		r.LelecAxelrod[i] = LelecAxelrod(en, r.NNE, r.NNTot)
		r.LatomAxelrod[i] = LatomAxelrod(r.Zboundbar, en)
		sum, err := latomIonization(plasma, shells, binding, en)
		if err != nil {
			return nil, err
		}
		r.LatomIonizationSum[i] = sum
		log.Infof("%.2f eV L_atom_summed: %.3e (ionization only) Latom_axelrod: %.3e",
			en, sum, r.LatomAxelrod[i])
	}

	for _, ion := range plasma.Ions {
		ionShells := shells.ForIon(ion.Z, ion.IonStage)
		if len(ionShells) == 0 {
			return nil, fmt.Errorf("workfn: no shell data for %v", ion)
		}
		ionpotValence := shells.ValencePotentialEV(ion.Z, ion.IonStage)
		entry := WorkFnEntry{Ion: ion, ValencePotEV: ionpotValence}
		log.Infof("===> ion %v valence potential %.2f eV", ion, ionpotValence)

		meanBinding, err := atomic.MeanBindingEnergy(ion.Z, ion.IonStage, binding, ionpotValence)
		if err != nil {
			return nil, err
		}
		oneOverWLimit := constants.LotzAConst * meanBinding / r.Zbar / (2 * math.Pi * math.Pow(constants.QE, 4))
		entry.LimitSimEV = 1 / oneOverWLimit / constants.EV
		logWorkFn(log, "workfn_limit_sim", entry.LimitSimEV, ionpotValence)

		// total AR85 cross section of the ion per energy
		xsAR := make([]float64, n)
		for _, shell := range ionShells {
			for i, en := range r.Energies {
				xsAR[i] += atomic.ArXS(shell, en)
			}
		}
		xsLotzEmax, err := atomic.LotzXS(ion.Z, ion.IonStage, binding, ionpotValence, r.Energies[n-1])
		if err != nil {
			return nil, err
		}

		lEmax := r.LelecAxelrod[n-1] + r.LatomAxelrod[n-1]
		entry.LimitLotzEV = lEmax / xsLotzEmax / constants.EV
		logWorkFn(log, "workfn_limit_axelrod", entry.LimitLotzEV, ionpotValence)

		entry.LimitEmaxEV = lEmax / constants.EV / xsAR[n-1]
		logWorkFn(log, "workfn_limit at Emax", entry.LimitEmaxEV, ionpotValence)

		integral := 0.
		for i := 0; i < n; i++ {
			l := r.LelecAxelrod[i] + r.LatomAxelrod[i]
			if l > 0 {
				integral += xsAR[i] / (l / constants.EV) * deltas[i]
			}
		}
		entry.IntegratedEV = r.Energies[n-1] / integral
		logWorkFn(log, "workfn_integral_Emin_Emax", entry.IntegratedEV, ionpotValence)

		r.Entries = append(r.Entries, entry)
	}
	return r, nil
}

func logWorkFn(log logrus.FieldLogger, name string, workFnEV, valencePotEV float64) {
	log.Infof(" %s: %.2f eV", name, workFnEV)
	log.Infof("   eta_ion  %.3f", EtaIon(valencePotEV, workFnEV))
	log.Infof("   eta_heat %.3f", 1-EtaIon(valencePotEV, workFnEV))
}
