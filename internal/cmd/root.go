// Package cmd wires the command line interface: scenario solves,
// work function analysis and version reporting.
package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "0.3.0"

var (
	configFile string

	// Log is the package logger; commands and the solver share it.
	Log logrus.FieldLogger = logrus.StandardLogger()
)

// RootCmd is the entry point of the sfnt tool.
var RootCmd = &cobra.Command{
	Use:   "sfnt",
	Short: "Non-thermal electron degradation spectra for supernova ejecta",
	Long: `sfnt solves the Spencer-Fano equation for the degradation spectrum of
fast non-thermal electrons in partially ionized supernova ejecta and
reports how the deposited energy is shared between ionization,
excitation and heating.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sfnt v%s\n", version)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "sfnt",
		"base name of the TOML configuration file, without the .toml extension")
	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(solveCmd)
	RootCmd.AddCommand(workfnCmd)
}
