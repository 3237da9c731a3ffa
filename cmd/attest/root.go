package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "attest",
	Short: "Architecture diagram validation engine",
	Long: `Attest checks whether architecture diagram components still reflect
their linked source documents. It validates each component against its
source, classifies discrepancies, and scores diagram health over time.

Typical workflow:
  attest init                # set up the project database
  attest import project.yaml # load documents, diagrams, and components
  attest validate <diagram>  # run a validation pass
  attest report <diagram>    # inspect scores and recommendations`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
