package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/attest-dev/attest/pkg/models"
)

// memCatalog records importer writes in order.
type memCatalog struct {
	diagrams   []models.Diagram
	components []models.Component
	positions  []int
	documents  []models.Document
	paths      []string
}

func (m *memCatalog) UpsertDiagram(d *models.Diagram) error {
	m.diagrams = append(m.diagrams, *d)
	return nil
}

func (m *memCatalog) UpsertComponent(c *models.Component, position int) error {
	m.components = append(m.components, *c)
	m.positions = append(m.positions, position)
	return nil
}

func (m *memCatalog) UpsertDocument(d *models.Document, sourcePath string) error {
	m.documents = append(m.documents, *d)
	m.paths = append(m.paths, sourcePath)
	return nil
}

func writeProjectFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "attest.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write project file: %v", err)
	}
	return path
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	path := writeProjectFile(t, dir, `
documents:
  - id: doc-auth
    title: Auth Service Design
    content: The auth service issues JWT tokens.
diagrams:
  - id: diag-main
    name: Main Architecture
    components:
      - id: c-auth
        title: Auth Service
        type: service
        description: Issues tokens
        source_document: doc-auth
        source_excerpt: issues JWT tokens
      - id: c-cache
        title: Session Cache
        type: cache
`)

	catalog := &memCatalog{}
	stats, err := NewImporter(catalog).Import(path)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if stats.Documents != 1 || stats.Diagrams != 1 || stats.Components != 2 {
		t.Errorf("stats = %+v, want 1 document, 1 diagram, 2 components", stats)
	}

	if catalog.documents[0].Content != "The auth service issues JWT tokens." {
		t.Errorf("document content = %q", catalog.documents[0].Content)
	}
	if catalog.paths[0] != "" {
		t.Errorf("inline document got source path %q", catalog.paths[0])
	}

	c := catalog.components[0]
	if c.DiagramID != "diag-main" {
		t.Errorf("component DiagramID = %q", c.DiagramID)
	}
	if c.SourceDocumentID != "doc-auth" {
		t.Errorf("component SourceDocumentID = %q", c.SourceDocumentID)
	}
	if c.Status != "active" {
		t.Errorf("default status = %q, want active", c.Status)
	}
	if catalog.positions[0] != 0 || catalog.positions[1] != 1 {
		t.Errorf("positions = %v, want [0 1]", catalog.positions)
	}
}

func TestImport_FileBackedDocument(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "design.md")
	if err := os.WriteFile(docPath, []byte("# Design\nGateway routes requests."), 0644); err != nil {
		t.Fatalf("write document file: %v", err)
	}
	path := writeProjectFile(t, dir, `
documents:
  - id: doc-design
    title: Design
    file: design.md
`)

	catalog := &memCatalog{}
	if _, err := NewImporter(catalog).Import(path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	doc := catalog.documents[0]
	if !strings.Contains(doc.Content, "Gateway routes requests.") {
		t.Errorf("document content not read from file: %q", doc.Content)
	}
	if catalog.paths[0] != docPath {
		t.Errorf("source path = %q, want %q", catalog.paths[0], docPath)
	}

	// Timestamp comes from the file, not the import time.
	info, _ := os.Stat(docPath)
	if !doc.UpdatedAt.Equal(info.ModTime()) {
		t.Errorf("UpdatedAt = %v, want file mtime %v", doc.UpdatedAt, info.ModTime())
	}
}

func TestImport_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "component references undefined document",
			content: `
diagrams:
  - id: d1
    name: D
    components:
      - id: c1
        title: C
        source_document: no-such-doc
`,
			wantErr: "undefined document",
		},
		{
			name: "duplicate document id",
			content: `
documents:
  - id: doc-1
    title: A
  - id: doc-1
    title: B
`,
			wantErr: "duplicate document id",
		},
		{
			name: "document with both content and file",
			content: `
documents:
  - id: doc-1
    title: A
    content: inline
    file: a.md
`,
			wantErr: "both content and file",
		},
		{
			name: "duplicate component id",
			content: `
diagrams:
  - id: d1
    name: D
    components:
      - id: c1
        title: A
      - id: c1
        title: B
`,
			wantErr: "duplicate component id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeProjectFile(t, t.TempDir(), tt.content)
			_, err := NewImporter(&memCatalog{}).Import(path)
			if err == nil {
				t.Fatal("expected import to fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestImport_MissingFile(t *testing.T) {
	_, err := NewImporter(&memCatalog{}).Import(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for a missing project file")
	}
}

// memSink is a DocumentSink for watcher tests.
type memSink struct {
	mu      sync.Mutex
	byPath  map[string]string
	content map[string]string
}

func (m *memSink) DocumentIDBySourcePath(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byPath[path], nil
}

func (m *memSink) TouchDocument(id, content string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content[id] = content
	return nil
}

func TestWatcher_RefreshOnWrite(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "design.md")
	if err := os.WriteFile(docPath, []byte("v1"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	sink := &memSink{
		byPath:  map[string]string{docPath: "doc-1"},
		content: map[string]string{},
	}
	changed := make(chan string, 1)
	w, err := NewWatcher(sink, []string{docPath}, func(docID string) { changed <- docID })
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(docPath, []byte("v2"), 0644); err != nil {
		t.Fatalf("rewrite file: %v", err)
	}

	select {
	case id := <-changed:
		if id != "doc-1" {
			t.Errorf("refreshed doc id = %q, want doc-1", id)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not observe the write")
	}

	sink.mu.Lock()
	got := sink.content["doc-1"]
	sink.mu.Unlock()
	if got != "v2" {
		t.Errorf("refreshed content = %q, want v2", got)
	}
	if w.Touched() == 0 {
		t.Error("Touched() = 0 after a refresh")
	}
}

func TestWatcher_IgnoresUnknownPaths(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "stray.md")
	if err := os.WriteFile(docPath, []byte("v1"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	sink := &memSink{byPath: map[string]string{}, content: map[string]string{}}
	w, err := NewWatcher(sink, []string{docPath}, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	w.refresh(docPath)
	if w.Touched() != 0 {
		t.Error("refresh applied for a path no document references")
	}
}
