package atomic

import (
	"fmt"

	"github.com/wildstyl3r/lxgata"
)

// ExcitationChannel is an electron-impact excitation process with a
// tabulated cross section, typically read from an LXCat file.
type ExcitationChannel struct {
	ThresholdEV float64
	collision   lxgata.Collision
}

// XS returns the tabulated cross section at an impact energy [eV],
// converted from the LXCat m^2 convention to cm^2.
func (c ExcitationChannel) XS(enEV float64) float64 {
	return c.collision.CrossSectionAt(enEV) * 1e4
}

// LoadExcitationChannels reads an LXCat cross section file and keeps
// the EXCITATION processes above minThresholdEV. Other process kinds
// (elastic, ionization, attachment) are handled analytically by the
// solver and skipped here.
func LoadExcitationChannels(path string, minThresholdEV float64) ([]ExcitationChannel, error) {
	collisions, err := lxgata.LoadCrossSections(path)
	if err != nil {
		return nil, fmt.Errorf("LXCat excitation channels: %w", err)
	}
	var channels []ExcitationChannel
	for _, collision := range collisions {
		if collision.Type != lxgata.EXCITATION || collision.Threshold < minThresholdEV {
			continue
		}
		channels = append(channels, ExcitationChannel{
			ThresholdEV: collision.Threshold,
			collision:   collision,
		})
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("LXCat file %s has no usable excitation processes", path)
	}
	return channels, nil
}
