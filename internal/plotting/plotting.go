// Package plotting renders the solved degradation spectrum and its
// energy partition with gonum/plot.
package plotting

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ejecta-tools/sfnt/internal/spencerfano"
)

var palette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 0, G: 0, B: 0, A: 255},
}

func line(xs, ys []float64, c color.RGBA) (*plotter.Line, error) {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	l.LineStyle.Width = vg.Points(1.5)
	l.LineStyle.Color = c
	return l, nil
}

// SaveSpectrum writes log10 y(E) over the grid.
func SaveSpectrum(res *spencerfano.Result, path string) error {
	p := plot.New()
	p.X.Label.Text = "Electron energy [eV]"
	p.Y.Label.Text = "log y(E) [s^-1 cm^-2 eV^-1]"

	logy := make([]float64, len(res.YVec))
	for i, y := range res.YVec {
		logy[i] = math.Log10(y)
	}
	l, err := line(res.Grid.Points(), logy, palette[3])
	if err != nil {
		return err
	}
	p.Add(l)
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// SavePartition writes the cumulative ionization/excitation/heating
// partition eta(E..Emax), including the below-grid heating extension.
func SavePartition(profiles *spencerfano.EtaProfiles, noExcitation bool, path string) error {
	p := plot.New()
	p.X.Label.Text = "Electron energy [eV]"
	p.Y.Label.Text = "eta from E to Emax"
	p.Y.Min = 0

	ionLine, err := line(profiles.Energies, profiles.EtaIonInt, palette[0])
	if err != nil {
		return err
	}
	p.Add(ionLine)
	p.Legend.Add("Ionization", ionLine)

	if !noExcitation {
		excLine, err := line(profiles.Energies, profiles.EtaExcInt, palette[1])
		if err != nil {
			return err
		}
		p.Add(excLine)
		p.Legend.Add("Excitation", excLine)
	}

	heatLine, err := line(profiles.Energies, profiles.EtaHeatInt, palette[2])
	if err != nil {
		return err
	}
	p.Add(heatLine)
	p.Legend.Add("Heating", heatLine)

	totLine, err := line(profiles.Energies, profiles.EtaTotInt, palette[3])
	if err != nil {
		return err
	}
	p.Add(totLine)
	p.Legend.Add("Total", totLine)

	p.Legend.Top = true
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
