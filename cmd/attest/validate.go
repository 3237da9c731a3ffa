package main

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/attest-dev/attest/internal/api"
	"github.com/attest-dev/attest/internal/config"
	"github.com/attest-dev/attest/internal/engine"
	"github.com/attest-dev/attest/internal/scoring"
	"github.com/attest-dev/attest/internal/store"
	"github.com/attest-dev/attest/internal/tui"
	"github.com/attest-dev/attest/pkg/models"
)

var validateNoTUI bool

var validateCmd = &cobra.Command{
	Use:   "validate <diagram-id>",
	Short: "Validate a diagram against its source documents",
	Long: `Run a validation pass over every component of a diagram.

Each component is checked against its linked source document: unlinked
components are marked UNVERIFIABLE, components citing outdated sources
are marked STALE, and the rest are assessed by the configured model.
Results and the final score are persisted; past runs stay untouched.

Examples:
  attest validate diag-main
  attest validate diag-main --no-tui`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateNoTUI, "no-tui", false, "Print plain progress instead of the live view")
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	diagram, err := db.GetDiagram(diagramID)
	if err != nil {
		return err
	}
	if diagram == nil {
		return fmt.Errorf("diagram %q not found; import it first", diagramID)
	}

	client, err := assessorFromConfig(cfg)
	if err != nil {
		return err
	}

	orch := engine.New(engine.Deps{
		Store:      db,
		Components: db,
		Documents:  db,
		Assessor:   client,
		Config: engine.Config{
			StaleAfter:       cfg.Validation.StaleAfter,
			DriftWindow:      cfg.Validation.DriftWindow,
			MaxDocumentChars: cfg.Validation.MaxDocumentChars,
			MaxTokens:        cfg.Validation.MaxTokens,
			Temperature:      cfg.Validation.Temperature,
		},
	})

	runID, err := orch.CreateRun(diagramID)
	if err != nil {
		return err
	}

	if validateNoTUI || !isTerminal() {
		return validatePlain(orch, db, cfg, client, runID, diagramID)
	}
	return validateWithTUI(orch, db, cfg, client, runID, diagramID)
}

// validatePlain runs the validation synchronously and prints one line
// per component.
func validatePlain(orch *engine.Orchestrator, db *store.DB, cfg *config.Config, client *api.Client, runID, diagramID string) error {
	fmt.Printf("Validating diagram %s (run %s)\n\n", diagramID, runID)

	results, err := orch.ValidateDiagram(context.Background(), runID, diagramID)
	if err != nil {
		return err
	}

	for _, r := range results {
		fmt.Printf("  %s %s (confidence %.2f)\n", statusLabel(r.Status), r.ComponentID, r.Confidence)
		for _, d := range r.Discrepancies {
			fmt.Printf("      [%s/%s] %s\n", d.Type, d.Severity, d.Message)
		}
	}

	printRunSummary(db, cfg, client, runID, diagramID, results)
	return nil
}

// validateWithTUI runs the validation in the background and shows the
// live progress view until the run reaches a terminal state.
func validateWithTUI(orch *engine.Orchestrator, db *store.DB, cfg *config.Config, client *api.Client, runID, diagramID string) error {
	errCh := make(chan error, 1)
	go func() {
		_, err := orch.ValidateDiagram(context.Background(), runID, diagramID)
		errCh <- err
	}()

	model := tui.NewRunModel(db, runID, cfg.TUI.RefreshRate)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("progress view: %w", err)
	}

	if err := <-errCh; err != nil {
		return err
	}

	results, err := orch.Results(runID)
	if err != nil {
		return err
	}
	printRunSummary(db, cfg, client, runID, diagramID, results)
	return nil
}

// printRunSummary prints the score, health band, and token usage.
func printRunSummary(db *store.DB, cfg *config.Config, client *api.Client, runID, diagramID string, results []models.ValidationResult) {
	scorer := scoring.NewEngine(db)
	scorer.SetTypeWeights(cfg.Scoring.TypeWeights)

	score := models.CalculateValidationScore(results)
	health := scoring.HealthStatus(score)

	fmt.Printf("\nScore: %s (%s)\n", colorScore(score), health)

	// The recorded run score is unweighted; show the type-weighted view
	// separately when weights are configured.
	if len(cfg.Scoring.TypeWeights) > 0 {
		if types, err := componentTypes(db, diagramID); err == nil {
			weighted := scorer.WeightedScore(results, types)
			fmt.Printf("Type-weighted score: %s (%s)\n", colorScore(weighted), scoring.HealthStatus(weighted))
		}
	}

	if delta, err := scorer.ScoreDelta(diagramID); err == nil && delta != 0 {
		arrow := color.GreenString("▲ +%.1f", delta)
		if delta < 0 {
			arrow = color.RedString("▼ %.1f", delta)
		}
		fmt.Printf("Change since last run: %s\n", arrow)
	}

	input, output := client.Tracker().Total()
	if calls := client.Tracker().Calls(); calls > 0 {
		fmt.Printf("Assessor usage: %d call(s), %d input / %d output tokens\n", calls, input, output)
	}
	fmt.Printf("\nRun %s recorded. See 'attest report %s' for the full breakdown.\n", runID, diagramID)
}

// assessorFromConfig builds the Anthropic-backed assessor.
func assessorFromConfig(cfg *config.Config) (*api.Client, error) {
	key, err := config.GetAPIKey(cfg)
	if err != nil && !cfg.Anthropic.UseAWSBedrock {
		return nil, err
	}

	return api.NewClient(api.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        key,
		UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
}

// statusLabel renders a colored status tag for plain output.
func statusLabel(s models.ValidationStatus) string {
	switch s {
	case models.StatusValid:
		return color.GreenString("%-12s", s)
	case models.StatusWarning:
		return color.YellowString("%-12s", s)
	case models.StatusStale:
		return color.MagentaString("%-12s", s)
	case models.StatusInvalid:
		return color.RedString("%-12s", s)
	default:
		return fmt.Sprintf("%-12s", s)
	}
}

// colorScore colors a numeric score by rough health.
func colorScore(score float64) string {
	text := fmt.Sprintf("%.1f", score)
	switch {
	case score >= 75:
		return color.GreenString(text)
	case score >= 40:
		return color.YellowString(text)
	default:
		return color.RedString(text)
	}
}

// isTerminal reports whether stdout is a terminal.
func isTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
