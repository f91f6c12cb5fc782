package spencerfano

import (
	"math"
	"testing"

	"github.com/ejecta-tools/sfnt/internal/atomic"
)

func feIIPlasma(t *testing.T) *Plasma {
	t.Helper()
	plasma, err := NewPlasma(map[IonSpecies]float64{
		{Z: 26, IonStage: 2}: 1e5,
	})
	if err != nil {
		t.Fatal(err)
	}
	return plasma
}

func feIIOptions(t *testing.T, npts int) Options {
	t.Helper()
	grid, err := NewEnergyGrid(0.1, 16000, npts)
	if err != nil {
		t.Fatal(err)
	}
	return Options{
		Grid:         grid,
		Plasma:       feIIPlasma(t),
		Shells:       atomic.CollisionTable(testShells()),
		NNE:          2e5,
		DepositionEV: 100,
	}
}

func TestSolveFeIIEnergyBalance(t *testing.T) {
	coarse, fine := 512, 2048
	if testing.Short() {
		fine = 1024
	}
	opts := feIIOptions(t, fine)

	res, err := Solve(opts)
	if err != nil {
		t.Fatal(err)
	}

	if res.EInitEV <= 0 {
		t.Fatalf("E_init: got %v", res.EInitEV)
	}
	// injection sits in the top few percent of the grid
	if res.EInitEV < 0.9*16000 || res.EInitEV > 16000 {
		t.Errorf("E_init %v eV should sit near Emax", res.EInitEV)
	}
	for i, y := range res.YVec {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			t.Fatalf("y[%d] = %v", i, y)
		}
	}

	diag, err := Analyse(res, opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diag.FracIonization <= 0 {
		t.Errorf("frac_ionization: got %v", diag.FracIonization)
	}
	if diag.FracHeating <= 0 {
		t.Errorf("frac_heating: got %v", diag.FracHeating)
	}
	if diag.FracExcitation != 0 {
		t.Errorf("frac_excitation without transitions: got %v", diag.FracExcitation)
	}
	// the grid discretization loses energy, so the partition approaches
	// one from below as the grid refines
	if diag.FracSum() < 0.5 || diag.FracSum() > 1.05 {
		t.Errorf("energy fractions out of range: got %v (ion %v heat %v)",
			diag.FracSum(), diag.FracIonization, diag.FracHeating)
	}

	optsCoarse := feIIOptions(t, coarse)
	resCoarse, err := Solve(optsCoarse)
	if err != nil {
		t.Fatal(err)
	}
	diagCoarse, err := Analyse(resCoarse, optsCoarse, nil)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(1-diag.FracSum()) >= math.Abs(1-diagCoarse.FracSum()) {
		t.Errorf("refining the grid should close the energy balance: %v at %d points, %v at %d",
			diagCoarse.FracSum(), coarse, diag.FracSum(), fine)
	}

	ion := IonSpecies{Z: 26, IonStage: 2}
	if diag.GammaNT[ion] <= 0 {
		t.Errorf("gamma_nt: got %v", diag.GammaNT[ion])
	}
	if diag.EffIonPotEV[ion] < 16.2 {
		t.Errorf("effective ionization potential %v cannot undercut the valence potential", diag.EffIonPotEV[ion])
	}
}

func TestSolveIdempotent(t *testing.T) {
	opts := feIIOptions(t, 256)

	res1, err := Solve(opts)
	if err != nil {
		t.Fatal(err)
	}
	res2, err := Solve(opts)
	if err != nil {
		t.Fatal(err)
	}
	for i := range res1.YVec {
		if res1.YVec[i] != res2.YVec[i] {
			t.Fatalf("repeated solves disagree at %d: %v vs %v", i, res1.YVec[i], res2.YVec[i])
		}
	}
}

func TestSolveConvergence(t *testing.T) {
	fracIon := func(npts int) float64 {
		opts := feIIOptions(t, npts)
		res, err := Solve(opts)
		if err != nil {
			t.Fatal(err)
		}
		diag, err := Analyse(res, opts, nil)
		if err != nil {
			t.Fatal(err)
		}
		return diag.FracIonization
	}

	coarse := fracIon(512)
	fine := fracIon(1024)
	if math.Abs(coarse-fine) > 0.05 {
		t.Errorf("frac_ionization should be converging: %v at 512 points, %v at 1024", coarse, fine)
	}
}

func TestSolveWithExcitation(t *testing.T) {
	opts := feIIOptions(t, 512)
	ion := IonSpecies{Z: 26, IonStage: 2}
	opts.Transitions = map[IonSpecies][]Transition{
		ion: {
			{EpsilonTransEV: 5.0, LowerG: 9, UpperG: 7, CollStr: 1.5, LowerPop: 1e5},
			{EpsilonTransEV: 8.0, LowerG: 9, UpperG: 5, CollStr: -1, A: 1e7, LowerPop: 1e5},
		},
	}

	res, err := Solve(opts)
	if err != nil {
		t.Fatal(err)
	}
	diag, err := Analyse(res, opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diag.FracExcitation <= 0 {
		t.Errorf("frac_excitation: got %v", diag.FracExcitation)
	}
	if diag.FracSum() < 0.5 || diag.FracSum() > 1.05 {
		t.Errorf("energy fractions with excitation out of range: got %v", diag.FracSum())
	}
}

func TestSolveExcitationBelowGridIgnored(t *testing.T) {
	opts := feIIOptions(t, 512)
	ion := IonSpecies{Z: 26, IonStage: 2}
	// threshold below the grid minimum of 0.1 eV
	opts.Transitions = map[IonSpecies][]Transition{
		ion: {{EpsilonTransEV: 0.05, LowerG: 9, UpperG: 7, CollStr: 1.5, LowerPop: 1e5}},
	}

	res, err := Solve(opts)
	if err != nil {
		t.Fatal(err)
	}
	diag, err := Analyse(res, opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diag.FracExcitation != 0 {
		t.Errorf("a transition below the grid must not contribute, got frac_excitation %v", diag.FracExcitation)
	}
}

func TestSolveDifferentialForm(t *testing.T) {
	opts := feIIOptions(t, 512)
	opts.DifferentialForm = true

	// the differential operator is badly conditioned; the solve must
	// still deliver the computed spectrum rather than fail
	res, err := Solve(opts)
	if err != nil {
		t.Fatal(err)
	}
	ymax := 0.
	for i, y := range res.YVec {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			t.Fatalf("y[%d] = %v", i, y)
		}
		if y > ymax {
			ymax = y
		}
	}
	if ymax <= 0 {
		t.Fatal("differential form produced no spectrum")
	}

	opts.Transitions = map[IonSpecies][]Transition{
		{Z: 26, IonStage: 2}: {{EpsilonTransEV: 5.0, CollStr: 1.5, LowerG: 9, LowerPop: 1e5}},
	}
	if _, err := Solve(opts); err == nil {
		t.Error("differential form with excitation should be rejected")
	}
}

func TestSolveRejectsBadInput(t *testing.T) {
	opts := feIIOptions(t, 128)
	opts.DepositionEV = 0
	if _, err := Solve(opts); err == nil {
		t.Error("zero deposition rate should be rejected")
	}

	opts = feIIOptions(t, 128)
	opts.SourceVec = make([]float64, 64)
	if _, err := Solve(opts); err == nil {
		t.Error("mismatched source vector should be rejected")
	}

	// shell potential below the grid minimum
	opts = feIIOptions(t, 128)
	opts.Shells = atomic.CollisionTable{
		{Z: 26, IonStage: 2, N: 4, L: 0, IonPotEV: 0.05, A: 10, B: 0, C: 0, D: 0},
	}
	if _, err := Solve(opts); err == nil {
		t.Error("shell below the grid should be rejected")
	}
}

func TestProfiles(t *testing.T) {
	opts := feIIOptions(t, 512)
	res, err := Solve(opts)
	if err != nil {
		t.Fatal(err)
	}
	profiles := Profiles(res, opts)

	if len(profiles.Energies) != profiles.LowPoints+opts.Grid.Len() {
		t.Fatalf("profile length mismatch: %d vs %d+%d",
			len(profiles.Energies), profiles.LowPoints, opts.Grid.Len())
	}
	// the cumulative curves decrease towards Emax
	n := len(profiles.EtaTotInt)
	if profiles.EtaTotInt[0] < profiles.EtaTotInt[n-1] {
		t.Errorf("cumulative partition should decrease towards Emax: %v -> %v",
			profiles.EtaTotInt[0], profiles.EtaTotInt[n-1])
	}
	for i, v := range profiles.EtaTotInt {
		if math.IsNaN(v) || v < 0 || v > 1.5 {
			t.Fatalf("cumulative partition out of range at %d: %v", i, v)
		}
	}
	// the profile heating uses a left-rectangle cumulative sum, which
	// weights the low-energy bins more heavily than the diagnostics'
	// trapezoid, so it bounds the heating fraction from above
	diag, err := Analyse(res, opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if profiles.EtaHeatInt[0] < diag.FracHeating {
		t.Errorf("profile heating %v should not undercut the diagnostics' %v",
			profiles.EtaHeatInt[0], diag.FracHeating)
	}
}
