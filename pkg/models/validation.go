// Package models defines the shared domain types for attest: diagrams,
// components, source documents, and the validation run/result model that
// every other package consumes.
package models

import "time"

// ValidationStatus represents the outcome of validating a single component.
type ValidationStatus string

const (
	// StatusValid indicates the component matches its source material.
	StatusValid ValidationStatus = "VALID"
	// StatusWarning indicates non-critical discrepancies were found.
	StatusWarning ValidationStatus = "WARNING"
	// StatusInvalid indicates at least one critical discrepancy was found.
	StatusInvalid ValidationStatus = "INVALID"
	// StatusUnverifiable indicates the component has no linked source document.
	StatusUnverifiable ValidationStatus = "UNVERIFIABLE"
	// StatusStale indicates the linked source document is too old to trust.
	StatusStale ValidationStatus = "STALE"
)

// Valid returns true if the status is a known value.
func (s ValidationStatus) Valid() bool {
	switch s {
	case StatusValid, StatusWarning, StatusInvalid, StatusUnverifiable, StatusStale:
		return true
	default:
		return false
	}
}

// RunStatus represents the lifecycle state of a validation run.
type RunStatus string

const (
	RunPending   RunStatus = "PENDING"
	RunRunning   RunStatus = "RUNNING"
	RunCompleted RunStatus = "COMPLETED"
	RunFailed    RunStatus = "FAILED"
)

// Valid returns true if the status is a known value.
func (s RunStatus) Valid() bool {
	switch s {
	case RunPending, RunRunning, RunCompleted, RunFailed:
		return true
	default:
		return false
	}
}

// Terminal returns true once the run can no longer change state.
func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunFailed
}

// DiscrepancyType classifies a mismatch between a component and its source.
type DiscrepancyType string

const (
	// ContentMismatch means recorded content does not appear in the source.
	ContentMismatch DiscrepancyType = "CONTENT_MISMATCH"
	// MissingData means the component lacks expected fields or citations.
	MissingData DiscrepancyType = "MISSING_DATA"
	// ConflictingSources means linked documents disagree about the component.
	ConflictingSources DiscrepancyType = "CONFLICTING_SOURCES"
	// OutdatedReference means the cited source predates the component edit.
	OutdatedReference DiscrepancyType = "OUTDATED_REFERENCE"
	// SchemaViolation means the component breaks a structural rule.
	SchemaViolation DiscrepancyType = "SCHEMA_VIOLATION"
)

// NormalizeDiscrepancyType maps an arbitrary string to a known type.
// Unknown values fall back to ContentMismatch so that lookups built on
// top of the type never fail on unexpected input.
func NormalizeDiscrepancyType(s string) DiscrepancyType {
	switch DiscrepancyType(s) {
	case ContentMismatch, MissingData, ConflictingSources, OutdatedReference, SchemaViolation:
		return DiscrepancyType(s)
	default:
		return ContentMismatch
	}
}

// Severity ranks how serious a discrepancy is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns a comparable ordering for severities, higher is worse.
// Unknown severities rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// DefaultSeverity returns the fixed severity for a discrepancy type.
// The mapping is total: unknown types get the ContentMismatch severity.
func DefaultSeverity(t DiscrepancyType) Severity {
	switch t {
	case MissingData:
		return SeverityMedium
	case ConflictingSources:
		return SeverityCritical
	case OutdatedReference:
		return SeverityLow
	case SchemaViolation:
		return SeverityHigh
	default:
		return SeverityHigh
	}
}

// Discrepancy is a single typed mismatch between a component's recorded
// data and its source material.
type Discrepancy struct {
	Type     DiscrepancyType `json:"type"`
	Severity Severity        `json:"severity"`
	Message  string          `json:"message"`
	// ExpectedValue holds what the source says, when known.
	ExpectedValue string `json:"expected_value,omitempty"`
	// ActualValue holds what the component records, when known.
	ActualValue string `json:"actual_value,omitempty"`
	// SourceDocumentID is the document the discrepancy was found against.
	SourceDocumentID string `json:"source_document_id,omitempty"`
}

// ValidationRun tracks one validation pass over a diagram.
// ValidatedComponents only ever grows during a run and never exceeds
// TotalComponents; Score is set only once the run completes.
type ValidationRun struct {
	ID                  string     `json:"id"`
	DiagramID           string     `json:"diagram_id"`
	Status              RunStatus  `json:"status"`
	TotalComponents     int        `json:"total_components"`
	ValidatedComponents int        `json:"validated_components"`
	Score               *float64   `json:"score,omitempty"`
	StartedAt           time.Time  `json:"started_at"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}

// ValidationResult records the outcome for one component in one run.
// Results are append-only: once written they are never mutated.
type ValidationResult struct {
	ID              string           `json:"id"`
	ValidationRunID string           `json:"validation_run_id"`
	ComponentID     string           `json:"component_id"`
	Status          ValidationStatus `json:"status"`
	Discrepancies   []Discrepancy    `json:"discrepancies"`
	Confidence      float64          `json:"confidence"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ValidationSummary is a derived roll-up of a result set. It is computed
// on demand and never stored.
type ValidationSummary struct {
	Total        int     `json:"total"`
	Valid        int     `json:"valid"`
	Warning      int     `json:"warning"`
	Invalid      int     `json:"invalid"`
	Unverifiable int     `json:"unverifiable"`
	Stale        int     `json:"stale"`
	OverallScore float64 `json:"overall_score"`
}
