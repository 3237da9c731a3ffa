package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/attest-dev/attest/internal/config"
	"github.com/attest-dev/attest/internal/scoring"
)

var (
	reportTrends bool
	reportJSON   bool
)

var reportCmd = &cobra.Command{
	Use:   "report <diagram-id>",
	Short: "Show the scoring report for a diagram's latest run",
	Long: `Generate a scoring report from the most recent completed validation
run of a diagram: overall score, health band, per-category breakdown,
status summary, and recommendations.

Examples:
  attest report diag-main
  attest report diag-main --trends
  attest report diag-main --json`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportTrends, "trends", false, "Include the score trend over past runs")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Emit the report as JSON")
}

func runReport(cmd *cobra.Command, args []string) error {
	diagramID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := openProjectStore()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.CompletedRuns(diagramID)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return fmt.Errorf("no completed runs for diagram %q; run 'attest validate %s' first", diagramID, diagramID)
	}
	latest := runs[len(runs)-1]

	results, err := db.ListResults(latest.ID)
	if err != nil {
		return err
	}

	types, err := componentTypes(db, diagramID)
	if err != nil {
		return err
	}

	scorer := scoring.NewEngine(db)
	scorer.SetTypeWeights(cfg.Scoring.TypeWeights)

	report, err := scorer.GenerateReport(results, types, diagramID, reportTrends)
	if err != nil {
		return err
	}

	if reportJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("Diagram %s, run %s\n\n", diagramID, latest.ID)
	fmt.Printf("Overall score: %s (%s)\n\n", colorScore(report.OverallScore), report.Health)

	fmt.Println("Breakdown:")
	fmt.Printf("  content accuracy:   %s\n", colorScore(report.Breakdown.ContentAccuracy))
	fmt.Printf("  data completeness:  %s\n", colorScore(report.Breakdown.DataCompleteness))
	fmt.Printf("  source consistency: %s\n", colorScore(report.Breakdown.SourceConsistency))
	fmt.Printf("  freshness:          %s\n", colorScore(report.Breakdown.Freshness))

	s := report.Summary
	fmt.Printf("\nComponents: %d total, %d valid, %d warning, %d invalid, %d unverifiable, %d stale\n",
		s.Total, s.Valid, s.Warning, s.Invalid, s.Unverifiable, s.Stale)

	fmt.Println("\nRecommendations:")
	for _, rec := range report.Recommendations {
		fmt.Printf("  %s %s\n", color.CyanString("•"), rec)
	}

	if reportTrends && len(report.Trends) > 0 {
		fmt.Println("\nScore trend:")
		for _, p := range report.Trends {
			fmt.Printf("  %s  %s  (%d components)\n",
				p.Date.Format(time.DateOnly), colorScore(p.Score), p.ComponentCount)
		}
		if delta, err := scorer.ScoreDelta(diagramID); err == nil {
			switch {
			case delta > 0:
				fmt.Printf("  %s\n", color.GreenString("improving: +%.1f since previous run", delta))
			case delta < 0:
				fmt.Printf("  %s\n", color.RedString("declining: %.1f since previous run", delta))
			}
		}
	}

	return nil
}
