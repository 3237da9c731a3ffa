package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/attest-dev/attest/internal/ingest"
)

var importWatch bool

var importCmd = &cobra.Command{
	Use:   "import <project-file>",
	Short: "Import documents, diagrams, and components from a project file",
	Long: `Import a YAML project file into the catalog.

The project file defines source documents (inline or file-backed),
diagrams, and their components. Re-importing the same file updates
existing entries in place.

With --watch, the command keeps running after the import and refreshes
file-backed documents whenever they change on disk, so subsequent
validation runs always see current content.

Examples:
  attest import project.yaml
  attest import project.yaml --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importWatch, "watch", false, "Keep file-backed documents in sync with disk")
}

func runImport(cmd *cobra.Command, args []string) error {
	db, err := openProjectStore()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := ingest.NewImporter(db).Import(args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("%s Imported %d document(s), %d diagram(s), %d component(s)\n",
		color.GreenString("✓"), stats.Documents, stats.Diagrams, stats.Components)

	if !importWatch {
		return nil
	}

	paths, err := db.DocumentSourcePaths()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Println("No file-backed documents to watch.")
		return nil
	}

	watcher, err := ingest.NewWatcher(db, paths, func(docID string) {
		fmt.Printf("%s refreshed document %s\n", color.CyanString("↻"), docID)
	})
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	fmt.Printf("Watching %d file(s) for changes. Ctrl+C to stop.\n", len(paths))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
