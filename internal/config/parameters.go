// Package config loads the TOML scenario configuration. Global keys
// act as defaults that individual scenarios may override; whether a
// key was actually set is decided through the decoder metadata.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type Config struct {
	OutputDir string
	Scenarios map[string]ScenarioParameters

	// to reset global defaults
	CollisionData    string
	BindingEnergies  string
	ExcitationData   string
	DepositionRate   float64 // [eV s^-1 cm^-3]
	ElectronDensity  float64 // [cm^-3], 0 derives it from the ion charges
	Temperature      float64 // [K]
	EMin             float64 // [eV]
	EMax             float64 // [eV]
	NPoints          int
	NoExcitation     bool
	DifferentialForm bool
	MakePlot         bool
	MakeDir          bool
	Vary             string
	SweepSteps       int
}

type IonPopulation struct {
	Z        int
	IonStage int
	Density  float64 // [cm^-3]
}

type ScenarioParameters struct {
	Ions []IonPopulation

	CollisionData    string
	BindingEnergies  string
	ExcitationData   string
	DepositionRate   float64 // [eV s^-1 cm^-3]
	ElectronDensity  float64 // [cm^-3]
	Temperature      float64 // [K]
	EMin             float64 // [eV]
	EMax             float64 // [eV]
	NPoints          int
	NoExcitation     bool
	DifferentialForm bool
	MakePlot         bool
	MakeDir          bool
	Vary             string
	SweepSteps       int
}

func LoadConfig(configFileName string) (Config, toml.MetaData, error) {
	var config Config
	meta, err := toml.DecodeFile(configFileName+".toml", &config)
	if err != nil {
		return config, meta, err
	}
	if len(config.Scenarios) == 0 {
		return config, meta, fmt.Errorf("no scenarios provided in %s.toml", configFileName)
	}
	return config, meta, nil
}

// CheckDefaults resolves a scenario's parameters against the global
// defaults and the built-in fallbacks. It reports an error when a key
// parameter is missing from both levels.
func (sp *ScenarioParameters) CheckDefaults(scenarioName string, config *Config, meta *toml.MetaData) error {
	noParams := false
	if !meta.IsDefined("Scenarios", scenarioName, "CollisionData") {
		if meta.IsDefined("CollisionData") {
			sp.CollisionData = config.CollisionData
		} else {
			noParams = true
		}
	}
	if !meta.IsDefined("Scenarios", scenarioName, "DepositionRate") {
		if meta.IsDefined("DepositionRate") {
			sp.DepositionRate = config.DepositionRate
		} else {
			noParams = true
		}
	}
	if len(sp.Ions) == 0 {
		noParams = true
	}

	if noParams {
		return fmt.Errorf("scenario %s lacks key parameters (CollisionData, DepositionRate or Ions)", scenarioName)
	}

	if !meta.IsDefined("Scenarios", scenarioName, "BindingEnergies") && meta.IsDefined("BindingEnergies") {
		sp.BindingEnergies = config.BindingEnergies
	}
	if !meta.IsDefined("Scenarios", scenarioName, "ExcitationData") && meta.IsDefined("ExcitationData") {
		sp.ExcitationData = config.ExcitationData
	}
	if !meta.IsDefined("Scenarios", scenarioName, "ElectronDensity") {
		if meta.IsDefined("ElectronDensity") {
			sp.ElectronDensity = config.ElectronDensity
		} else {
			sp.ElectronDensity = 0.
		}
	}
	if !meta.IsDefined("Scenarios", scenarioName, "Temperature") {
		if meta.IsDefined("Temperature") {
			sp.Temperature = config.Temperature
		} else {
			sp.Temperature = 6000.
		}
	}
	if !meta.IsDefined("Scenarios", scenarioName, "EMin") {
		if meta.IsDefined("EMin") {
			sp.EMin = config.EMin
		} else {
			sp.EMin = 0.1
		}
	}
	if !meta.IsDefined("Scenarios", scenarioName, "EMax") {
		if meta.IsDefined("EMax") {
			sp.EMax = config.EMax
		} else {
			sp.EMax = 16000.
		}
	}
	if !meta.IsDefined("Scenarios", scenarioName, "NPoints") {
		if meta.IsDefined("NPoints") {
			sp.NPoints = config.NPoints
		} else {
			sp.NPoints = 4096
		}
	}
	if !meta.IsDefined("Scenarios", scenarioName, "NoExcitation") && meta.IsDefined("NoExcitation") {
		sp.NoExcitation = config.NoExcitation
	}
	if !meta.IsDefined("Scenarios", scenarioName, "DifferentialForm") && meta.IsDefined("DifferentialForm") {
		sp.DifferentialForm = config.DifferentialForm
	}
	if !meta.IsDefined("Scenarios", scenarioName, "MakePlot") && meta.IsDefined("MakePlot") {
		sp.MakePlot = config.MakePlot
	}
	if !meta.IsDefined("Scenarios", scenarioName, "MakeDir") {
		sp.MakeDir = true
		if meta.IsDefined("MakeDir") {
			sp.MakeDir = config.MakeDir
		}
	}
	if !meta.IsDefined("Scenarios", scenarioName, "Vary") && meta.IsDefined("Vary") {
		sp.Vary = config.Vary
	}
	switch sp.Vary {
	case "", "emin", "emax", "npts", "emax,npts":
	default:
		return fmt.Errorf("scenario %s: Vary must be one of emin, emax, npts or emax,npts", scenarioName)
	}
	if !meta.IsDefined("Scenarios", scenarioName, "SweepSteps") {
		if meta.IsDefined("SweepSteps") {
			sp.SweepSteps = config.SweepSteps
		} else {
			sp.SweepSteps = 20
		}
	}
	// the differential form carries no excitation terms
	if sp.DifferentialForm {
		sp.NoExcitation = true
	}
	return nil
}
