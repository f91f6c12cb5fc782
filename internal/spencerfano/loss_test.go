package spencerfano

import (
	"math"
	"testing"
)

func TestLossFunction(t *testing.T) {
	nne := 2e5
	for _, en := range []float64{0.1, 1, 5, 13.9, 14.1, 100, 1000, 16000} {
		l := LossFunction(en, nne)
		if l <= 0 || math.IsInf(l, 0) || math.IsNaN(l) {
			t.Errorf("loss function at %v eV: got %v", en, l)
		}
	}

	// both regimes scale close to linearly with nne via the prefactor
	l1 := LossFunction(100, 1e5)
	l2 := LossFunction(100, 2e5)
	if l2 <= l1 {
		t.Errorf("loss should grow with electron density: %v -> %v", l1, l2)
	}

	// the regime switch at 14 eV is not wildly discontinuous
	below := LossFunction(13.999, nne)
	above := LossFunction(14.001, nne)
	if ratio := above / below; ratio < 0.5 || ratio > 2 {
		t.Errorf("regime switch jump too large: %v vs %v", below, above)
	}
}

func TestAxelrodStoppingPowers(t *testing.T) {
	// below the mean excitation energy the bound term vanishes
	if l := LatomAxelrod(24, 10); l != 0 {
		t.Errorf("Latom at 10 eV: expected 0, got %v", l)
	}
	latom := LatomAxelrod(24, 10000)
	if latom <= 0 {
		t.Errorf("Latom at 10 keV: expected positive, got %v", latom)
	}

	lelec := LelecAxelrod(10000, 2e5, 1e5)
	if lelec <= 0 {
		t.Errorf("Lelec at 10 keV: expected positive, got %v", lelec)
	}
}
