package atomic

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ejecta-tools/sfnt/internal/constants"
)

// NTShells is the number of subshells tracked by the ground
// configuration model: K, L1, L2, L3, M1, M2, M3, M4, M5, N1.
const NTShells = 10

// BindingTable holds per-element shell binding energies [erg], indexed
// by Z-1 then shell.
type BindingTable [][]float64

// LoadBindingTable reads a binding energy file: a header line
// "nt_shells n_z" followed by n_z rows of nt_shells values in eV.
func LoadBindingTable(path string) (BindingTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("binding energies: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return nil, fmt.Errorf("binding energies %s: empty file", path)
	}
	header := strings.Fields(scanner.Text())
	if len(header) != 2 {
		return nil, fmt.Errorf("binding energies %s: bad header %q", path, scanner.Text())
	}
	nShells, _ := strconv.Atoi(header[0])
	nZ, _ := strconv.Atoi(header[1])

	table := make(BindingTable, 0, nZ)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != nShells {
			return nil, fmt.Errorf("binding energies %s: expected %d values per row, got %d", path, nShells, len(fields))
		}
		row := make([]float64, nShells)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("binding energies %s: %w", path, err)
			}
			row[i] = v * constants.EV
		}
		table = append(table, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("binding energies %s: %w", path, err)
	}
	if len(table) != nZ {
		return nil, fmt.Errorf("binding energies %s: header says %d elements, found %d", path, nZ, len(table))
	}
	return table, nil
}

// ElectronOccupancy fills the ground configuration of an ion over
// nShells subshells in the order K, L1, L2, L3, M1, M2, M3, then an
// ion-charge-dependent choice between N1 (4s) and M4/M5 (3d). Going
// beyond the 4s shell is an error.
func ElectronOccupancy(z, ionStage, nShells int) ([]float64, error) {
	q := make([]float64, nShells)
	ionCharge := ionStage - 1
	nbound := z - ionCharge

	for range nbound {
		switch {
		case q[0] < 2: // K 1s
			q[0]++
		case q[1] < 2: // L1 2s
			q[1]++
		case q[2] < 2: // L2 2p[1/2]
			q[2]++
		case q[3] < 4: // L3 2p[3/2]
			q[3]++
		case q[4] < 2: // M1 3s
			q[4]++
		case q[5] < 2: // M2 3p[1/2]
			q[5]++
		case q[6] < 4: // M3 3p[3/2]
			q[6]++
		default:
			n1Capacity := 0.
			switch {
			case ionCharge == 0:
				n1Capacity = 2
			case ionCharge == 1:
				n1Capacity = 1
			}
			switch {
			case q[9] < n1Capacity: // N1 4s
				q[9]++
			case q[7] < 4: // M4 3d[3/2]
				q[7]++
			case q[8] < 6: // M5 3d[5/2]
				q[8]++
			default:
				return nil, fmt.Errorf("electron occupancy of Z=%d ion_stage=%d goes beyond the 4s shell", z, ionStage)
			}
		}
	}
	return q, nil
}

func shellBinding(t BindingTable, z, ionStage, shell int, ionPotEV float64) (float64, error) {
	use2 := t[z-1][shell]
	use3 := ionPotEV * constants.EV
	if use2 <= 0 {
		// The Lotz data has no M5 energy below Ni; fall back to M4.
		if shell != 8 {
			return 0, fmt.Errorf("no binding energy for Z=%d ion_stage=%d shell %d", z, ionStage, shell)
		}
		use2 = t[z-1][shell-1]
	}
	return math.Max(use2, use3), nil
}

// MeanBindingEnergy returns the sum over occupied shells of
// electrons / max(shell binding, valence potential), in erg^-1.
func MeanBindingEnergy(z, ionStage int, t BindingTable, ionPotEV float64) (float64, error) {
	q, err := ElectronOccupancy(z, ionStage, len(t[z-1]))
	if err != nil {
		return 0, err
	}
	total := 0.
	for shell, nelec := range q {
		if nelec <= 0 {
			continue
		}
		p, err := shellBinding(t, z, ionStage, shell, ionPotEV)
		if err != nil {
			return 0, err
		}
		total += nelec / p
	}
	return total, nil
}

// LotzXS is the relativistic total ionization cross section of
// Axelrod (1980) Eq. 3.38, summed over occupied shells [cm^2].
func LotzXS(z, ionStage int, t BindingTable, ionPotEV, enEV float64) (float64, error) {
	enErg := enEV * constants.EV
	gamma := enErg/(constants.ME*constants.CLight*constants.CLight) + 1
	beta2 := 1 - 1/(gamma*gamma)

	q, err := ElectronOccupancy(z, ionStage, len(t[z-1]))
	if err != nil {
		return 0, err
	}
	partSigma := 0.
	for shell, nelec := range q {
		if nelec <= 0 {
			continue
		}
		p, err := shellBinding(t, z, ionStage, shell, ionPotEV)
		if err != nil {
			return 0, err
		}
		if 0.5*beta2*constants.ME*constants.CLight*constants.CLight > p {
			// The log10 in the second term matches the upstream
			// simulation code.
			partSigma += nelec / p *
				(math.Log(beta2*constants.ME*constants.CLight*constants.CLight/2/p) -
					math.Log10(1-beta2) - beta2)
		}
	}
	sigma := 2 * constants.LotzAConst / beta2 / constants.ME / (constants.CLight * constants.CLight) * partSigma
	if sigma < 0 {
		return 0, fmt.Errorf("negative Lotz cross section for Z=%d ion_stage=%d at %g eV", z, ionStage, enEV)
	}
	return sigma, nil
}
