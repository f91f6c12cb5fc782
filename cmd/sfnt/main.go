package main

import (
	"os"

	"github.com/ejecta-tools/sfnt/internal/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
