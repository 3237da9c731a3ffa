package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/attest-dev/attest/internal/store"
)

// findProjectRoot walks up from the working directory looking for a
// .attest directory.
func findProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if info, err := os.Stat(filepath.Join(cwd, ".attest")); err == nil && info.IsDir() {
			return cwd, nil
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return "", fmt.Errorf("no Attest project found; run 'attest init' first")
}

// openProjectStore opens and migrates the project database.
func openProjectStore() (*store.DB, error) {
	root, err := findProjectRoot()
	if err != nil {
		return nil, err
	}

	db, err := store.OpenProject(root)
	if err != nil {
		return nil, fmt.Errorf("open project database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate project database: %w", err)
	}
	return db, nil
}

// componentTypes maps a diagram's component ids to their types, for
// type-weighted scoring.
func componentTypes(db *store.DB, diagramID string) (map[string]string, error) {
	components, err := db.ComponentsByDiagram(diagramID)
	if err != nil {
		return nil, err
	}
	types := make(map[string]string, len(components))
	for _, c := range components {
		types[c.ID] = c.ComponentType
	}
	return types, nil
}
