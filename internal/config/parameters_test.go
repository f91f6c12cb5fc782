package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "sfnt")
	if err := os.WriteFile(name+".toml", []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestLoadConfigDefaults(t *testing.T) {
	name := writeConfig(t, `
OutputDir = "out"
CollisionData = "collion.txt"
DepositionRate = 100.0
EMax = 3000.0

[Scenarios.feII]
Ions = [{Z = 26, IonStage = 2, Density = 1e5}]

[Scenarios.override]
Ions = [{Z = 26, IonStage = 2, Density = 1e5}]
DepositionRate = 250.0
EMax = 500.0
`)
	config, meta, err := LoadConfig(name)
	if err != nil {
		t.Fatal(err)
	}

	sp := config.Scenarios["feII"]
	if err := sp.CheckDefaults("feII", &config, &meta); err != nil {
		t.Fatal(err)
	}
	if sp.CollisionData != "collion.txt" {
		t.Errorf("CollisionData: got %q", sp.CollisionData)
	}
	if sp.DepositionRate != 100 {
		t.Errorf("DepositionRate from globals: got %v", sp.DepositionRate)
	}
	if sp.EMax != 3000 {
		t.Errorf("EMax from globals: got %v", sp.EMax)
	}
	// built-in fallbacks for keys set at neither level
	if sp.EMin != 0.1 || sp.NPoints != 4096 || sp.Temperature != 6000 || sp.SweepSteps != 20 {
		t.Errorf("fallbacks: EMin %v NPoints %d Temperature %v SweepSteps %d",
			sp.EMin, sp.NPoints, sp.Temperature, sp.SweepSteps)
	}
	if !sp.MakeDir {
		t.Error("MakeDir should default to true")
	}

	over := config.Scenarios["override"]
	if err := over.CheckDefaults("override", &config, &meta); err != nil {
		t.Fatal(err)
	}
	if over.DepositionRate != 250 || over.EMax != 500 {
		t.Errorf("scenario overrides lost: DepositionRate %v EMax %v", over.DepositionRate, over.EMax)
	}
}

func TestCheckDefaultsMissingKeyParams(t *testing.T) {
	bodies := map[string]string{
		"no collision data": `
DepositionRate = 100.0
[Scenarios.s]
Ions = [{Z = 26, IonStage = 2, Density = 1e5}]
`,
		"no deposition rate": `
CollisionData = "collion.txt"
[Scenarios.s]
Ions = [{Z = 26, IonStage = 2, Density = 1e5}]
`,
		"no ions": `
CollisionData = "collion.txt"
DepositionRate = 100.0
[Scenarios.s]
EMax = 500.0
`,
	}
	for label, body := range bodies {
		config, meta, err := LoadConfig(writeConfig(t, body))
		if err != nil {
			t.Fatalf("%s: %v", label, err)
		}
		sp := config.Scenarios["s"]
		if err := sp.CheckDefaults("s", &config, &meta); err == nil {
			t.Errorf("%s: expected an error", label)
		}
	}
}

func TestLoadConfigNoScenarios(t *testing.T) {
	name := writeConfig(t, `CollisionData = "collion.txt"`)
	if _, _, err := LoadConfig(name); err == nil {
		t.Error("expected an error for a config without scenarios")
	}
}

func TestCheckDefaultsVary(t *testing.T) {
	for _, vary := range []string{"", "emin", "emax", "npts", "emax,npts"} {
		body := `
CollisionData = "collion.txt"
DepositionRate = 100.0
[Scenarios.s]
Ions = [{Z = 26, IonStage = 2, Density = 1e5}]
`
		if vary != "" {
			body += "Vary = \"" + vary + "\"\n"
		}
		config, meta, err := LoadConfig(writeConfig(t, body))
		if err != nil {
			t.Fatal(err)
		}
		sp := config.Scenarios["s"]
		if err := sp.CheckDefaults("s", &config, &meta); err != nil {
			t.Errorf("Vary %q should be accepted: %v", vary, err)
		}
	}

	config, meta, err := LoadConfig(writeConfig(t, `
CollisionData = "collion.txt"
DepositionRate = 100.0
Vary = "delta"
[Scenarios.s]
Ions = [{Z = 26, IonStage = 2, Density = 1e5}]
`))
	if err != nil {
		t.Fatal(err)
	}
	sp := config.Scenarios["s"]
	if err := sp.CheckDefaults("s", &config, &meta); err == nil {
		t.Error("unknown Vary value should be rejected")
	}
}

func TestDifferentialFormDisablesExcitation(t *testing.T) {
	config, meta, err := LoadConfig(writeConfig(t, `
CollisionData = "collion.txt"
DepositionRate = 100.0
[Scenarios.s]
Ions = [{Z = 26, IonStage = 2, Density = 1e5}]
DifferentialForm = true
`))
	if err != nil {
		t.Fatal(err)
	}
	sp := config.Scenarios["s"]
	if err := sp.CheckDefaults("s", &config, &meta); err != nil {
		t.Fatal(err)
	}
	if !sp.NoExcitation {
		t.Error("the differential form must disable excitation")
	}
}
