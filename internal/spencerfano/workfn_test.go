package spencerfano

import (
	"math"
	"testing"

	"github.com/ejecta-tools/sfnt/internal/atomic"
	"github.com/ejecta-tools/sfnt/internal/constants"
)

func ironBindingTable() atomic.BindingTable {
	t := make(atomic.BindingTable, 26)
	for z := range t {
		t[z] = make([]float64, atomic.NTShells)
	}
	// Lotz shell binding energies for iron; M5 is absent below nickel
	feEV := []float64{7112, 846, 721, 708, 91, 54, 54, 3.6, 0, 7.9}
	for shell, en := range feEV {
		t[25][shell] = en * constants.EV
	}
	return t
}

func TestWorkFunctionReport(t *testing.T) {
	plasma := feIIPlasma(t)
	shells := atomic.CollisionTable(testShells())

	report, err := WorkFunctionReport(plasma, shells, ironBindingTable(), 100, 16000, 8, nil)
	if err != nil {
		t.Fatal(err)
	}

	if report.NNTot != 1e5 {
		t.Errorf("nntot: got %v", report.NNTot)
	}
	if len(report.Energies) != 7 {
		t.Fatalf("energy grid: got %d points", len(report.Energies))
	}
	for i := 1; i < len(report.Energies); i++ {
		if report.Energies[i] <= report.Energies[i-1] {
			t.Fatalf("energies not increasing at %d: %v", i, report.Energies)
		}
	}
	last := len(report.Energies) - 1
	if report.LelecAxelrod[last] <= 0 || report.LatomAxelrod[last] <= 0 {
		t.Errorf("stopping powers at Emax: Lelec %v Latom %v",
			report.LelecAxelrod[last], report.LatomAxelrod[last])
	}
	if report.LatomIonizationSum[last] <= 0 {
		t.Errorf("ionization stopping power at Emax: got %v", report.LatomIonizationSum[last])
	}

	if len(report.Entries) != 1 {
		t.Fatalf("entries: got %d", len(report.Entries))
	}
	entry := report.Entries[0]
	if entry.ValencePotEV != 16.2 {
		t.Errorf("valence potential: got %v", entry.ValencePotEV)
	}
	for _, limit := range []float64{entry.LimitSimEV, entry.LimitLotzEV, entry.LimitEmaxEV, entry.IntegratedEV} {
		if limit <= 0 || math.IsInf(limit, 0) || math.IsNaN(limit) {
			t.Errorf("work function limit out of range: %+v", entry)
		}
	}
	// the work function always exceeds the valence potential
	if entry.LimitSimEV <= entry.ValencePotEV {
		t.Errorf("workfn_limit_sim %v should exceed the valence potential", entry.LimitSimEV)
	}
	if eta := EtaIon(entry.ValencePotEV, entry.LimitSimEV); eta <= 0 || eta >= 1 {
		t.Errorf("eta_ion %v outside (0, 1)", eta)
	}
}
