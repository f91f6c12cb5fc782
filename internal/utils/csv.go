package utils

import (
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/facette/natsort"
)

type CSV [][]string

func (data CSV) Less(i, j int) bool {
	return natsort.Compare(data[i][0], data[j][0])
}

func (data CSV) Len() int {
	return len(data)
}
func (data CSV) Swap(i, j int) {
	data[i], data[j] = data[j], data[i]
}

// WriteAsCSV writes a header row and the natsorted data rows to
// <path><subpath>/<name>.csv (or <path><name>_<subpath>.csv when
// makeDir is off).
func WriteAsCSV(data CSV, makeDir bool, path, subpath, name string, columns []string) error {
	out, err := OpenFile(makeDir, path, subpath, GetFilename(name))
	if err != nil {
		return fmt.Errorf("unable to open stats output: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(columns); err != nil {
		return err
	}
	sort.Sort(data)
	if err := w.WriteAll(data); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
