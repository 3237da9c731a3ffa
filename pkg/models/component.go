package models

import "time"

// Diagram is a curated flow diagram owned by a project.
type Diagram struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Component is a diagram node representing one architectural element,
// optionally linked to an excerpt of a source document. The validation
// engine treats component snapshots as read-only input.
type Component struct {
	ID          string `json:"id"`
	DiagramID   string `json:"diagram_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// ComponentType is a free-form category (service, database, queue, ...)
	// used for per-type score weighting.
	ComponentType string `json:"component_type"`
	// SourceDocumentID links the component to the document it was
	// discovered in. Empty means the component is unverifiable.
	SourceDocumentID string `json:"source_document_id,omitempty"`
	// SourceExcerpt is the passage the component was derived from.
	SourceExcerpt string    `json:"source_excerpt,omitempty"`
	Status        string    `json:"status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Document is a source document components are validated against.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}
