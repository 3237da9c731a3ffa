// Package ingest loads project files into the catalog: documents,
// diagrams, and their components, described in a single YAML file. It
// also hosts the watcher that keeps file-backed documents in sync with
// disk.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/attest-dev/attest/pkg/models"
)

// Catalog is the subset of the store the importer writes to.
type Catalog interface {
	UpsertDiagram(d *models.Diagram) error
	UpsertComponent(c *models.Component, position int) error
	UpsertDocument(d *models.Document, sourcePath string) error
}

// ProjectFile is the YAML shape of a project definition.
type ProjectFile struct {
	Documents []DocumentEntry `yaml:"documents"`
	Diagrams  []DiagramEntry  `yaml:"diagrams"`
}

// DocumentEntry defines one source document. Content comes either
// inline or from a local file, not both.
type DocumentEntry struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
	// File is a path to a local file to read the content from,
	// relative to the project file.
	File string `yaml:"file"`
}

// DiagramEntry defines one diagram and its ordered components.
type DiagramEntry struct {
	ID         string           `yaml:"id"`
	Name       string           `yaml:"name"`
	Components []ComponentEntry `yaml:"components"`
}

// ComponentEntry defines one diagram component.
type ComponentEntry struct {
	ID             string `yaml:"id"`
	Title          string `yaml:"title"`
	Type           string `yaml:"type"`
	Description    string `yaml:"description"`
	SourceDocument string `yaml:"source_document"`
	SourceExcerpt  string `yaml:"source_excerpt"`
	Status         string `yaml:"status"`
}

// Stats summarizes what an import wrote.
type Stats struct {
	Documents  int
	Diagrams   int
	Components int
}

// Importer loads project files into a catalog.
type Importer struct {
	catalog Catalog
	now     func() time.Time
}

// NewImporter creates an importer writing into the given catalog.
func NewImporter(catalog Catalog) *Importer {
	return &Importer{catalog: catalog, now: time.Now}
}

// Import parses the project file at path and upserts everything it
// defines. File-backed document content is read relative to the
// project file. Components referencing an undefined document fail the
// import before anything else about them is written.
func (im *Importer) Import(path string) (*Stats, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}

	var pf ProjectFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("parse project file: %w", err)
	}
	if err := validate(&pf); err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(path)
	stats := &Stats{}

	for _, de := range pf.Documents {
		doc, sourcePath, err := im.resolveDocument(de, baseDir)
		if err != nil {
			return nil, err
		}
		if err := im.catalog.UpsertDocument(doc, sourcePath); err != nil {
			return nil, err
		}
		stats.Documents++
	}

	for _, dg := range pf.Diagrams {
		diagram := &models.Diagram{ID: dg.ID, Name: dg.Name, CreatedAt: im.now()}
		if err := im.catalog.UpsertDiagram(diagram); err != nil {
			return nil, err
		}
		stats.Diagrams++

		for i, ce := range dg.Components {
			status := ce.Status
			if status == "" {
				status = "active"
			}
			component := &models.Component{
				ID:               ce.ID,
				DiagramID:        dg.ID,
				Title:            ce.Title,
				Description:      ce.Description,
				ComponentType:    ce.Type,
				SourceDocumentID: ce.SourceDocument,
				SourceExcerpt:    ce.SourceExcerpt,
				Status:           status,
				UpdatedAt:        im.now(),
			}
			if err := im.catalog.UpsertComponent(component, i); err != nil {
				return nil, err
			}
			stats.Components++
		}
	}

	return stats, nil
}

// resolveDocument materializes a document entry. File-backed entries
// take their timestamp from the file's mtime so staleness checks see
// the real age of the source.
func (im *Importer) resolveDocument(de DocumentEntry, baseDir string) (*models.Document, string, error) {
	doc := &models.Document{
		ID:        de.ID,
		Title:     de.Title,
		Content:   de.Content,
		UpdatedAt: im.now(),
	}
	if de.File == "" {
		return doc, "", nil
	}

	sourcePath := de.File
	if !filepath.IsAbs(sourcePath) {
		sourcePath = filepath.Join(baseDir, de.File)
	}
	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, "", fmt.Errorf("read document %s: %w", de.ID, err)
	}
	doc.Content = string(content)
	if info, err := os.Stat(sourcePath); err == nil {
		doc.UpdatedAt = info.ModTime()
	}
	return doc, sourcePath, nil
}

// validate checks referential integrity of a parsed project file.
func validate(pf *ProjectFile) error {
	docs := make(map[string]bool, len(pf.Documents))
	for _, de := range pf.Documents {
		if de.ID == "" {
			return fmt.Errorf("document with empty id")
		}
		if docs[de.ID] {
			return fmt.Errorf("duplicate document id %q", de.ID)
		}
		if de.Content != "" && de.File != "" {
			return fmt.Errorf("document %q sets both content and file", de.ID)
		}
		docs[de.ID] = true
	}

	componentIDs := make(map[string]bool)
	for _, dg := range pf.Diagrams {
		if dg.ID == "" {
			return fmt.Errorf("diagram with empty id")
		}
		for _, ce := range dg.Components {
			if ce.ID == "" {
				return fmt.Errorf("component with empty id in diagram %q", dg.ID)
			}
			if componentIDs[ce.ID] {
				return fmt.Errorf("duplicate component id %q", ce.ID)
			}
			componentIDs[ce.ID] = true
			if ce.SourceDocument != "" && !docs[ce.SourceDocument] {
				return fmt.Errorf("component %q references undefined document %q", ce.ID, ce.SourceDocument)
			}
		}
	}
	return nil
}
