package utils

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestArgmax(t *testing.T) {
	if got := Argmax([]float64{0.1, 3.5, -2, 3.5, 1}); got != 1 {
		t.Errorf("Argmax: got %d, want the first maximum at 1", got)
	}
	if got := Argmax([]int{7}); got != 0 {
		t.Errorf("Argmax of a singleton: got %d", got)
	}
}

func TestSumSlice(t *testing.T) {
	if got := SumSlice([]int{1, 2, 3, 4}); got != 10 {
		t.Errorf("SumSlice: got %d", got)
	}
	if got := SumSlice([]float64{0.5, 0.25}); got != 0.75 {
		t.Errorf("SumSlice: got %v", got)
	}
}

func TestMeanAndVariance(t *testing.T) {
	mean, variance := MeanAndVariance([]float64{2, 4, 4, 4, 5, 5, 7, 9}, false)
	if mean != 5 {
		t.Errorf("mean: got %v", mean)
	}
	if variance != 4 {
		t.Errorf("population variance: got %v", variance)
	}
	_, unbiased := MeanAndVariance([]float64{2, 4, 4, 4, 5, 5, 7, 9}, true)
	if math.Abs(unbiased-32./7) > 1e-12 {
		t.Errorf("sample variance: got %v", unbiased)
	}
}

func TestTableIntegrate(t *testing.T) {
	s := []float64{1, 1, 1, 1}
	if got := TableIntegrate(s, nil, 0.5); got != 2 {
		t.Errorf("plain sum: got %v", got)
	}
	// integrate f(x) = x against unit weights
	got := TableIntegrate(s, func(x float64) float64 { return x }, 0.5)
	if got != (0+0.5+1+1.5)*0.5 {
		t.Errorf("weighted sum: got %v", got)
	}
}

func TestEnergyConversions(t *testing.T) {
	if math.Abs(Erg2EV(EV2Erg(13.6))-13.6) > 1e-12 {
		t.Error("eV/erg conversions should round-trip")
	}
	// 1 eV electron moves at about 5.93e7 cm/s
	v := EV2electronVelocity(1)
	if math.Abs(v/5.93e7-1) > 0.01 {
		t.Errorf("electron velocity at 1 eV: got %v", v)
	}
}

func TestGetFilename(t *testing.T) {
	if got := GetFilename("data/collion.txt"); got != "collion" {
		t.Errorf("GetFilename: got %q", got)
	}
	if got := GetFilename("scenario"); got != "scenario" {
		t.Errorf("GetFilename without extension: got %q", got)
	}
}

func TestWriteAsCSVNatsort(t *testing.T) {
	dir := t.TempDir() + string(filepath.Separator)
	data := CSV{
		{"10", "c"},
		{"2", "b"},
		{"1", "a"},
	}
	if err := WriteAsCSV(data, true, dir, "run", "stats", []string{"step", "value"}); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir+"run", "stats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"step", "value"}, {"1", "a"}, {"2", "b"}, {"10", "c"}}
	if len(rows) != len(want) {
		t.Fatalf("row count: got %d, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i][0] != want[i][0] || rows[i][1] != want[i][1] {
			t.Errorf("row %d: got %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestWriteAsCSVFlatLayout(t *testing.T) {
	dir := t.TempDir() + string(filepath.Separator)
	if err := WriteAsCSV(CSV{{"0", "x"}}, false, dir, "run", "stats", []string{"step", "value"}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir + "stats_run.csv"); err != nil {
		t.Errorf("flat layout file missing: %v", err)
	}
}
