// Package engine owns the validation run lifecycle: creating runs,
// validating each component of a diagram in sequence, persisting results
// as they are produced, and computing the final score.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/attest-dev/attest/pkg/models"
)

// RunStore persists validation runs and their results.
type RunStore interface {
	CreateRun(r *models.ValidationRun) error
	GetRun(id string) (*models.ValidationRun, error)
	SetRunStatus(id string, status models.RunStatus) error
	SetRunProgress(id string, validated int) error
	CompleteRun(r *models.ValidationRun) error
	InsertResult(r *models.ValidationResult) error
	ListResults(runID string) ([]models.ValidationResult, error)
}

// ComponentSource provides the ordered component snapshots of a diagram.
type ComponentSource interface {
	ComponentsByDiagram(diagramID string) ([]models.Component, error)
	CountComponents(diagramID string) (int, error)
}

// DocumentSource looks up source documents by id.
type DocumentSource interface {
	GetDocument(id string) (*models.Document, error)
}

// Assessor is the external LLM used for content assessment. Complete may
// fail; the orchestrator degrades gracefully and never retries.
type Assessor interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// Config holds the engine's tunable heuristics. The staleness and drift
// thresholds are preserved constants with no derivation beyond practice;
// they are configurable rather than reinterpreted.
type Config struct {
	// StaleAfter is how old a source document may be before components
	// citing it are considered stale.
	StaleAfter time.Duration
	// DriftWindow flags components edited this much later than their
	// cited source, suggesting the two have drifted apart.
	DriftWindow time.Duration
	// MaxDocumentChars caps how much document content the assessment
	// prompt embeds.
	MaxDocumentChars int
	// MaxTokens bounds the assessor response size.
	MaxTokens int
	// Temperature is the assessor sampling temperature.
	Temperature float64
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		StaleAfter:       7 * 24 * time.Hour,
		DriftWindow:      24 * time.Hour,
		MaxDocumentChars: 3000,
		MaxTokens:        1024,
		Temperature:      0.2,
	}
}

// Deps bundles the orchestrator's collaborators. All of them are
// injected; the engine holds no globals.
type Deps struct {
	Store      RunStore
	Components ComponentSource
	Documents  DocumentSource
	Assessor   Assessor
	Config     Config
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Orchestrator drives validation runs. Components are validated strictly
// sequentially so validated_components is a reliable progress signal and
// result order matches component order.
type Orchestrator struct {
	store      RunStore
	components ComponentSource
	documents  DocumentSource
	assessor   Assessor
	cfg        Config
	now        func() time.Time
}

// New creates an orchestrator from its dependencies.
func New(deps Deps) *Orchestrator {
	cfg := deps.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		store:      deps.Store,
		components: deps.Components,
		documents:  deps.Documents,
		assessor:   deps.Assessor,
		cfg:        cfg,
		now:        now,
	}
}

// CreateRun counts the diagram's current components and inserts a
// PENDING run, returning its id. Whether the diagram exists is the
// caller's concern, not the engine's.
func (o *Orchestrator) CreateRun(diagramID string) (string, error) {
	total, err := o.components.CountComponents(diagramID)
	if err != nil {
		return "", fmt.Errorf("count components: %w", err)
	}

	run := &models.ValidationRun{
		ID:              uuid.New().String(),
		DiagramID:       diagramID,
		Status:          models.RunPending,
		TotalComponents: total,
		StartedAt:       o.now(),
	}
	if err := o.store.CreateRun(run); err != nil {
		return "", fmt.Errorf("create validation run: %w", err)
	}
	return run.ID, nil
}

// ValidateDiagram executes a run: marks it RUNNING, validates every
// component in stored order, persists each result immediately, and
// finishes with the computed score. Any error inside the loop marks the
// run FAILED and propagates; results already written stay written.
func (o *Orchestrator) ValidateDiagram(ctx context.Context, runID, diagramID string) ([]models.ValidationResult, error) {
	if err := o.store.SetRunStatus(runID, models.RunRunning); err != nil {
		return nil, fmt.Errorf("mark run running: %w", err)
	}

	components, err := o.components.ComponentsByDiagram(diagramID)
	if err != nil {
		o.failRun(runID)
		return nil, fmt.Errorf("load components: %w", err)
	}

	results := make([]models.ValidationResult, 0, len(components))
	for i, c := range components {
		result, err := o.validateComponent(ctx, runID, c)
		if err != nil {
			o.failRun(runID)
			return nil, fmt.Errorf("validate component %s: %w", c.ID, err)
		}
		results = append(results, *result)

		// Progress is written per component so pollers observe true
		// mid-run state.
		if err := o.store.SetRunProgress(runID, i+1); err != nil {
			o.failRun(runID)
			return nil, fmt.Errorf("record progress: %w", err)
		}
	}

	score := models.CalculateValidationScore(results)
	completedAt := o.now()
	run := &models.ValidationRun{
		ID:                  runID,
		Status:              models.RunCompleted,
		Score:               &score,
		ValidatedComponents: len(results),
		CompletedAt:         &completedAt,
	}
	if err := o.store.CompleteRun(run); err != nil {
		o.failRun(runID)
		return nil, fmt.Errorf("complete run: %w", err)
	}

	return results, nil
}

// Results returns the persisted results of a run in component order.
func (o *Orchestrator) Results(runID string) ([]models.ValidationResult, error) {
	return o.store.ListResults(runID)
}

// failRun marks a run FAILED. The original loop error is what callers
// care about, so a failure to update status is dropped here.
func (o *Orchestrator) failRun(runID string) {
	_ = o.store.SetRunStatus(runID, models.RunFailed)
}
