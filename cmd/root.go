package cmd

import (
	"github.com/spf13/cobra"
)

// Version is overridden by the embedded VERSION file at startup.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "silmaril",
	Short:   "Silmaril photo and video archive",
	Version: Version,
}

func Execute() error {
	return rootCmd.Execute()
}

// ApplyVersion re-applies Version to the root command after the embed
// hook updates it.
func ApplyVersion() {
	rootCmd.Version = Version
}
