// Package atomic holds the per-ion atomic data feeding the degradation
// solver: collisional ionization shells with Arnaud & Rothenflug (1985)
// fit parameters, ground configuration electron occupancies, shell
// binding energies and the Lotz-style total ionization cross section.
package atomic

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Shell is one ionizable subshell of an ion, with the empirical cross
// section fit parameters of Arnaud & Rothenflug (1985).
type Shell struct {
	Z          int
	IonStage   int
	N          int     // principal quantum number
	L          int     // orbital quantum number
	IonPotEV   float64 // [eV]
	A, B, C, D float64
}

// CollisionTable is the full set of shells read from a collisional
// ionization data file.
type CollisionTable []Shell

// LoadCollisionTable reads a whitespace-separated shell table. The
// first line gives the row count; each row is
// "Z nelec n l ionpot_ev A B C D" where nelec is the number of bound
// electrons (ion stage = Z - nelec + 1).
func LoadCollisionTable(path string) (CollisionTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("collision data: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return nil, fmt.Errorf("collision data %s: empty file", path)
	}
	count, err := strconv.Atoi(strings.Fields(scanner.Text())[0])
	if err != nil {
		return nil, fmt.Errorf("collision data %s: bad row count: %w", path, err)
	}

	table := make(CollisionTable, 0, count)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 9 {
			return nil, fmt.Errorf("collision data %s: expected 9 columns, got %d", path, len(fields))
		}
		vals := make([]float64, 9)
		for i, f := range fields {
			vals[i], err = strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("collision data %s: %w", path, err)
			}
		}
		z, nelec := int(vals[0]), int(vals[1])
		table = append(table, Shell{
			Z:        z,
			IonStage: z - nelec + 1,
			N:        int(vals[2]),
			L:        int(vals[3]),
			IonPotEV: vals[4],
			A:        vals[5],
			B:        vals[6],
			C:        vals[7],
			D:        vals[8],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("collision data %s: %w", path, err)
	}
	if len(table) != count {
		return nil, fmt.Errorf("collision data %s: header says %d rows, found %d", path, count, len(table))
	}
	return table, nil
}

// ForIon selects the shells of a single ion.
func (t CollisionTable) ForIon(z, ionStage int) []Shell {
	var shells []Shell
	for _, s := range t {
		if s.Z == z && s.IonStage == ionStage {
			shells = append(shells, s)
		}
	}
	return shells
}

// ValencePotentialEV returns the lowest shell ionization potential of
// an ion, or +Inf if the ion has no shells in the table.
func (t CollisionTable) ValencePotentialEV(z, ionStage int) float64 {
	pot := math.Inf(1)
	for _, s := range t {
		if s.Z == z && s.IonStage == ionStage && s.IonPotEV < pot {
			pot = s.IonPotEV
		}
	}
	return pot
}

// ArXS evaluates the Arnaud & Rothenflug (1985) ionization cross
// section of one shell at an impact energy [eV]. Returns cm^2; zero
// at and below threshold.
func ArXS(s Shell, enEV float64) float64 {
	u := enEV / s.IonPotEV
	if u <= 1 {
		return 0
	}
	return 1e-14 * (s.A*(1-1/u) + s.B*(1-1/u)*(1-1/u) + s.C*math.Log(u) + s.D*math.Log(u)/u) /
		(u * s.IonPotEV * s.IonPotEV)
}

// ArXSVector evaluates ArXS over an energy grid [eV].
func ArXSVector(s Shell, enGridEV []float64) []float64 {
	xs := make([]float64, len(enGridEV))
	for i, en := range enGridEV {
		xs[i] = ArXS(s, en)
	}
	return xs
}
