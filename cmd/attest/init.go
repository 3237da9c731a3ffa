package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/attest-dev/attest/internal/store"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize an Attest project",
	Long: `Initialize a directory for use with Attest.

This command sets up everything needed to validate diagrams:
  - Creates the .attest directory and project database
  - Applies schema migrations
  - Creates a .attest.yaml configuration template

The directory argument is optional and defaults to the current directory.

Examples:
  attest init              # Initialize current directory
  attest init ./myproject  # Initialize specific directory
  attest init --force      # Reinitialize even if already set up`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reinitialize even if already set up")
}

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", absPath, err)
	}

	fmt.Printf("Initializing Attest in %s...\n\n", absPath)

	attestDir := filepath.Join(absPath, ".attest")
	if _, err := os.Stat(attestDir); err == nil && !initForce {
		fmt.Println("Directory already initialized. Use --force to reinitialize.")
		return nil
	}

	if err := os.MkdirAll(attestDir, 0755); err != nil {
		return fmt.Errorf("creating .attest directory: %w", err)
	}
	printStatus("✓", "Created .attest directory", color.FgGreen)

	db, err := store.OpenProject(absPath)
	if err != nil {
		printStatus("✗", "Database setup failed", color.FgRed)
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		printStatus("✗", "Schema migration failed", color.FgRed)
		return err
	}
	printStatus("✓", "Project database ready", color.FgGreen)

	if err := createProjectConfig(absPath); err != nil {
		return fmt.Errorf("creating project config: %w", err)
	}
	printStatus("✓", "Created .attest.yaml template", color.FgGreen)

	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		printStatus("⚠", "ANTHROPIC_API_KEY not set (you can set it later)", color.FgYellow)
	} else {
		printStatus("✓", "ANTHROPIC_API_KEY is set", color.FgGreen)
	}

	fmt.Printf("\n%s Attest initialization complete!\n\n", color.GreenString("✓"))
	fmt.Println("Next steps:")
	fmt.Println("  1. Describe your documents and diagrams in a project file")
	fmt.Println("     attest import project.yaml")
	fmt.Println()
	fmt.Println("  2. Validate a diagram:")
	fmt.Println("     attest validate <diagram-id>")
	fmt.Println()
	fmt.Println("  3. Learn more:")
	fmt.Println("     attest --help")

	return nil
}

// createProjectConfig creates a .attest.yaml template
func createProjectConfig(repoPath string) error {
	configPath := filepath.Join(repoPath, ".attest.yaml")

	// Don't overwrite an existing config
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	template := `# Attest Project Configuration
# This file overrides defaults from ~/.config/attest/config.yaml

# anthropic:
#   model: claude-sonnet-4-20250514
#   use_aws_bedrock: false

# validation:
#   stale_after: 168h
#   drift_window: 24h
#   excerpt_match_threshold: 0.8
#   max_document_chars: 3000

# scoring:
#   type_weights:
#     database: 1.5
#     cache: 0.5
`

	return os.WriteFile(configPath, []byte(template), 0644)
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
