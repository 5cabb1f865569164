// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gridlog",
	Short: "gridlog - UDP racing telemetry recorder",
	Long: `gridlog ingests the live UDP telemetry broadcast of a racing simulation,
decodes the versioned binary packet formats, and records them as a
schema-stable CSV log for later analysis.

Commands:
  record    capture live UDP telemetry into a session file
  replay    re-process a pcap capture through the same pipeline`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (optional, defaults apply without one)")
}
