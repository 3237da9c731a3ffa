package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/attest-dev/attest/internal/detect"
)

var checkFixes bool

var checkCmd = &cobra.Command{
	Use:   "check <diagram-id>",
	Short: "Run offline heuristic checks against a diagram",
	Long: `Scan a diagram's components with the built-in heuristics only: excerpt
fuzzy matching, missing-data checks, and cross-document conflict
detection. No model calls are made and no run is recorded, so this is a
fast pre-flight before 'attest validate'.

Examples:
  attest check diag-main
  attest check diag-main --fixes`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkFixes, "fixes", false, "Show suggested remediation for each discrepancy")
}

func runCheck(cmd *cobra.Command, args []string) error {
	diagramID := args[0]

	db, err := openProjectStore()
	if err != nil {
		return err
	}
	defer db.Close()

	diagram, err := db.GetDiagram(diagramID)
	if err != nil {
		return err
	}
	if diagram == nil {
		return fmt.Errorf("diagram %q not found; import it first", diagramID)
	}

	components, err := db.ComponentsByDiagram(diagramID)
	if err != nil {
		return err
	}
	docs, err := db.ListDocuments()
	if err != nil {
		return err
	}

	detector := detect.New()
	clean := 0

	for _, c := range components {
		discrepancies := detector.DetectDiscrepancies(c, docs)
		if len(discrepancies) == 0 {
			clean++
			continue
		}

		fmt.Printf("%s %s (%s)\n", severityLabel(detect.OverallSeverity(discrepancies)), c.Title, c.ID)
		for _, d := range discrepancies {
			fmt.Printf("    [%s/%s] %s\n", d.Type, d.Severity, d.Message)
		}
		if checkFixes {
			for _, fix := range detect.SuggestedFixes(discrepancies) {
				fmt.Printf("    %s %s: %s\n", color.CyanString("→"), fix.Action, fix.Discrepancy.Message)
			}
		}
	}

	fmt.Printf("\n%d component(s) checked, %d clean\n", len(components), clean)
	return nil
}

func severityLabel(s detect.AggregateSeverity) string {
	switch s {
	case detect.AggregateCritical:
		return color.RedString("%-8s", s)
	case detect.AggregateMajor:
		return color.YellowString("%-8s", s)
	default:
		return fmt.Sprintf("%-8s", s)
	}
}
