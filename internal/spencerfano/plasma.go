package spencerfano

import (
	"fmt"
	"sort"
)

// IonSpecies identifies an ion by atomic number and spectroscopic ion
// stage (1 = neutral).
type IonSpecies struct {
	Z        int
	IonStage int
}

func (ion IonSpecies) String() string {
	return fmt.Sprintf("Z=%d ion_stage=%d", ion.Z, ion.IonStage)
}

// MinIonFraction is the population fraction below which an ion is
// dropped from the composition.
const MinIonFraction = 1e-8

// Plasma is the ion composition of one ejecta cell: the retained ion
// species in deterministic order and their number densities [cm^-3].
type Plasma struct {
	Ions []IonSpecies
	pops map[IonSpecies]float64
}

// NewPlasma filters out ions below MinIonFraction of the total and
// sorts the remainder by (Z, ion stage).
func NewPlasma(pops map[IonSpecies]float64) (*Plasma, error) {
	if len(pops) == 0 {
		return nil, fmt.Errorf("plasma: no ion populations given")
	}
	nntot := 0.
	for ion, nnion := range pops {
		if nnion < 0 {
			return nil, fmt.Errorf("plasma: negative population for %v", ion)
		}
		if ion.IonStage < 1 {
			return nil, fmt.Errorf("plasma: bad ion stage for %v", ion)
		}
		nntot += nnion
	}
	p := &Plasma{pops: map[IonSpecies]float64{}}
	for ion, nnion := range pops {
		if nnion/nntot < MinIonFraction {
			continue
		}
		p.Ions = append(p.Ions, ion)
		p.pops[ion] = nnion
	}
	if len(p.Ions) == 0 {
		return nil, fmt.Errorf("plasma: all ion populations below the minimum fraction")
	}
	sort.Slice(p.Ions, func(i, j int) bool {
		if p.Ions[i].Z != p.Ions[j].Z {
			return p.Ions[i].Z < p.Ions[j].Z
		}
		return p.Ions[i].IonStage < p.Ions[j].IonStage
	})
	return p, nil
}

// Pop returns the number density of an ion [cm^-3].
func (p *Plasma) Pop(ion IonSpecies) float64 { return p.pops[ion] }

// NNTot is the total ion number density [cm^-3].
func (p *Plasma) NNTot() float64 {
	nntot := 0.
	for _, ion := range p.Ions {
		nntot += p.pops[ion]
	}
	return nntot
}

// NNE is the free electron density implied by the ion charges [cm^-3].
func (p *Plasma) NNE() float64 {
	nne := 0.
	for _, ion := range p.Ions {
		nne += float64(ion.IonStage-1) * p.pops[ion]
	}
	return nne
}

// NNETot is the total electron density, bound plus free [cm^-3].
func (p *Plasma) NNETot() float64 {
	nnetot := 0.
	for _, ion := range p.Ions {
		nnetot += float64(ion.Z) * p.pops[ion]
	}
	return nnetot
}

// Zbar is the mean atomic number per ion.
func (p *Plasma) Zbar() float64 {
	return p.NNETot() / p.NNTot()
}

// Zboundbar is the mean number of bound electrons per ion.
func (p *Plasma) Zboundbar() float64 {
	zb := 0.
	nntot := p.NNTot()
	for _, ion := range p.Ions {
		zb += float64(ion.Z-ion.IonStage+1) * p.pops[ion] / nntot
	}
	return zb
}
