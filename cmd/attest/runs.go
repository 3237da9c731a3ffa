package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/attest-dev/attest/pkg/models"
)

var runsDiagram string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List validation runs",
	Long: `List validation runs, newest first.

Examples:
  attest runs
  attest runs --diagram diag-main`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openProjectStore()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(runsDiagram)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No validation runs recorded.")
			return nil
		}

		for _, r := range runs {
			score := "-"
			if r.Score != nil {
				score = fmt.Sprintf("%.1f", *r.Score)
			}
			fmt.Printf("%s  %-10s  %s  %d/%d components  score %s\n",
				r.ID, runStatusLabel(r.Status), r.StartedAt.Format(time.RFC3339),
				r.ValidatedComponents, r.TotalComponents, score)
		}
		return nil
	},
}

var resultsCmd = &cobra.Command{
	Use:   "results <run-id>",
	Short: "Show the component results of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openProjectStore()
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := db.GetRun(args[0])
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("run %q not found", args[0])
		}

		results, err := db.ListResults(run.ID)
		if err != nil {
			return err
		}

		fmt.Printf("Run %s (%s), diagram %s\n\n", run.ID, runStatusLabel(run.Status), run.DiagramID)
		for _, r := range results {
			fmt.Printf("  %s %s (confidence %.2f)\n", statusLabel(r.Status), r.ComponentID, r.Confidence)
			for _, d := range r.Discrepancies {
				fmt.Printf("      [%s/%s] %s\n", d.Type, d.Severity, d.Message)
				if d.ExpectedValue != "" {
					fmt.Printf("        expected: %s\n", d.ExpectedValue)
				}
				if d.ActualValue != "" {
					fmt.Printf("        actual:   %s\n", d.ActualValue)
				}
			}
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsDiagram, "diagram", "", "Only list runs for this diagram")
}

func runStatusLabel(s models.RunStatus) string {
	switch s {
	case models.RunCompleted:
		return color.GreenString(string(s))
	case models.RunFailed:
		return color.RedString(string(s))
	case models.RunRunning:
		return color.YellowString(string(s))
	default:
		return string(s)
	}
}
