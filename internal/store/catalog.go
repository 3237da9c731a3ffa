package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/attest-dev/attest/pkg/models"
)

// Catalog CRUD: diagrams, their ordered components, and source documents.

// UpsertDiagram inserts or replaces a diagram.
func (db *DB) UpsertDiagram(d *models.Diagram) error {
	_, err := db.Exec(`
		INSERT INTO diagrams (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, d.ID, d.Name, formatTime(d.CreatedAt))
	if err != nil {
		return fmt.Errorf("upsert diagram: %w", err)
	}
	return nil
}

// GetDiagram retrieves a diagram by ID. Returns (nil, nil) when not found.
func (db *DB) GetDiagram(id string) (*models.Diagram, error) {
	row := db.QueryRow("SELECT id, name, created_at FROM diagrams WHERE id = ?", id)

	var d models.Diagram
	var createdAt string
	err := row.Scan(&d.ID, &d.Name, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get diagram: %w", err)
	}
	d.CreatedAt, _ = parseTime(createdAt)
	return &d, nil
}

// ListDiagrams lists all diagrams by creation order.
func (db *DB) ListDiagrams() ([]models.Diagram, error) {
	rows, err := db.Query("SELECT id, name, created_at FROM diagrams ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("list diagrams: %w", err)
	}
	defer rows.Close()

	var diagrams []models.Diagram
	for rows.Next() {
		var d models.Diagram
		var createdAt string
		if err := rows.Scan(&d.ID, &d.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan diagram: %w", err)
		}
		d.CreatedAt, _ = parseTime(createdAt)
		diagrams = append(diagrams, d)
	}
	return diagrams, nil
}

// UpsertComponent inserts or replaces a component at a position.
// The position column preserves the diagram's stored component order.
func (db *DB) UpsertComponent(c *models.Component, position int) error {
	_, err := db.Exec(`
		INSERT INTO components (id, diagram_id, title, description, component_type, source_document_id, source_excerpt, status, position, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			component_type = excluded.component_type,
			source_document_id = excluded.source_document_id,
			source_excerpt = excluded.source_excerpt,
			status = excluded.status,
			position = excluded.position,
			updated_at = excluded.updated_at
	`, c.ID, c.DiagramID, c.Title, c.Description, c.ComponentType,
		nullable(c.SourceDocumentID), nullable(c.SourceExcerpt), c.Status, position, formatTime(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert component: %w", err)
	}
	return nil
}

// ComponentsByDiagram returns the components of a diagram in stored order.
func (db *DB) ComponentsByDiagram(diagramID string) ([]models.Component, error) {
	rows, err := db.Query(`
		SELECT id, diagram_id, title, description, component_type, source_document_id, source_excerpt, status, updated_at
		FROM components WHERE diagram_id = ? ORDER BY position, rowid
	`, diagramID)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()

	var components []models.Component
	for rows.Next() {
		var c models.Component
		var description, sourceDocID, sourceExcerpt sql.NullString
		var updatedAt string
		if err := rows.Scan(&c.ID, &c.DiagramID, &c.Title, &description, &c.ComponentType,
			&sourceDocID, &sourceExcerpt, &c.Status, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		if description.Valid {
			c.Description = description.String
		}
		if sourceDocID.Valid {
			c.SourceDocumentID = sourceDocID.String
		}
		if sourceExcerpt.Valid {
			c.SourceExcerpt = sourceExcerpt.String
		}
		c.UpdatedAt, _ = parseTime(updatedAt)
		components = append(components, c)
	}
	return components, nil
}

// CountComponents counts the components of a diagram.
func (db *DB) CountComponents(diagramID string) (int, error) {
	var count int
	row := db.QueryRow("SELECT COUNT(*) FROM components WHERE diagram_id = ?", diagramID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count components: %w", err)
	}
	return count, nil
}

// UpsertDocument inserts or replaces a document. sourcePath records the
// local file the content was read from, when any.
func (db *DB) UpsertDocument(d *models.Document, sourcePath string) error {
	_, err := db.Exec(`
		INSERT INTO documents (id, title, content, source_path, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			source_path = excluded.source_path,
			updated_at = excluded.updated_at
	`, d.ID, d.Title, d.Content, nullable(sourcePath), formatTime(d.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID. Returns (nil, nil) when not found.
func (db *DB) GetDocument(id string) (*models.Document, error) {
	row := db.QueryRow("SELECT id, title, content, updated_at FROM documents WHERE id = ?", id)

	var d models.Document
	var updatedAt string
	err := row.Scan(&d.ID, &d.Title, &d.Content, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	d.UpdatedAt, _ = parseTime(updatedAt)
	return &d, nil
}

// ListDocuments returns every document in the catalog.
func (db *DB) ListDocuments() ([]models.Document, error) {
	rows, err := db.Query("SELECT id, title, content, updated_at FROM documents ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		var updatedAt string
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.UpdatedAt, _ = parseTime(updatedAt)
		docs = append(docs, d)
	}
	return docs, nil
}

// TouchDocument replaces a document's content and bumps its timestamp.
// Used by the import watcher when a referenced file changes on disk.
func (db *DB) TouchDocument(id, content string, updatedAt time.Time) error {
	_, err := db.Exec(`
		UPDATE documents SET content = ?, updated_at = ? WHERE id = ?
	`, content, formatTime(updatedAt), id)
	if err != nil {
		return fmt.Errorf("touch document: %w", err)
	}
	return nil
}

// DocumentIDBySourcePath looks up the document imported from a local
// file. Returns "" when no document references the path.
func (db *DB) DocumentIDBySourcePath(path string) (string, error) {
	var id string
	row := db.QueryRow("SELECT id FROM documents WHERE source_path = ?", path)
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup document by path: %w", err)
	}
	return id, nil
}

// DocumentSourcePaths lists the distinct local file paths referenced by
// file-backed documents.
func (db *DB) DocumentSourcePaths() ([]string, error) {
	rows, err := db.Query("SELECT DISTINCT source_path FROM documents WHERE source_path IS NOT NULL")
	if err != nil {
		return nil, fmt.Errorf("list document source paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan source path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// nullable converts an empty string to NULL for storage.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
