package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/attest-dev/attest/pkg/models"
)

// validationContext carries everything needed to assess one component.
// document is nil when the component has no usable source.
type validationContext struct {
	component models.Component
	document  *models.Document
}

// validateComponent assesses one component and writes exactly one
// result row. Assessor failure degrades to a WARNING result; only
// store or document-lookup failures propagate and fail the run.
func (o *Orchestrator) validateComponent(ctx context.Context, runID string, c models.Component) (*models.ValidationResult, error) {
	vctx, err := o.buildContext(c)
	if err != nil {
		return nil, err
	}

	result := &models.ValidationResult{
		ID:              uuid.New().String(),
		ValidationRunID: runID,
		ComponentID:     c.ID,
		CreatedAt:       o.now(),
	}

	switch {
	case vctx.document == nil:
		result.Status = models.StatusUnverifiable
		result.Confidence = 0.3

	case o.detectStaleness(vctx):
		result.Status = models.StatusStale
		result.Confidence = 0.5
		result.Discrepancies = []models.Discrepancy{{
			Type:             models.OutdatedReference,
			Severity:         models.SeverityLow,
			Message:          fmt.Sprintf("source document for %q may be outdated", c.Title),
			SourceDocumentID: vctx.document.ID,
		}}

	default:
		assessment := o.assess(ctx, vctx)
		result.Status = assessment.status
		result.Confidence = assessment.confidence
		result.Discrepancies = assessment.discrepancies
	}

	if err := o.store.InsertResult(result); err != nil {
		return nil, fmt.Errorf("persist result: %w", err)
	}
	return result, nil
}

// buildContext loads the component's linked document, if any. A linked
// id that resolves to nothing is treated the same as no link: the
// component simply cannot be verified.
func (o *Orchestrator) buildContext(c models.Component) (*validationContext, error) {
	vctx := &validationContext{component: c}
	if c.SourceDocumentID == "" {
		return vctx, nil
	}

	doc, err := o.documents.GetDocument(c.SourceDocumentID)
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", c.SourceDocumentID, err)
	}
	vctx.document = doc
	return vctx, nil
}

// detectStaleness judges whether the component's source is too old to
// trust: either the document itself has aged past the staleness window,
// or the component was edited well after its cited source, suggesting
// the two have drifted apart. A document with no date is never stale.
func (o *Orchestrator) detectStaleness(vctx *validationContext) bool {
	doc := vctx.document
	if doc == nil || doc.UpdatedAt.IsZero() {
		return false
	}

	if o.now().Sub(doc.UpdatedAt) > o.cfg.StaleAfter {
		return true
	}
	if vctx.component.UpdatedAt.Sub(doc.UpdatedAt) > o.cfg.DriftWindow {
		return true
	}
	return false
}

// assessment is the outcome of one LLM-backed component check.
type assessment struct {
	status        models.ValidationStatus
	confidence    float64
	discrepancies []models.Discrepancy
}

// assess runs the LLM-backed check. Assessor failure is the engine's
// sole retry-free recovery path: the component degrades to WARNING with
// a synthetic discrepancy and the run continues.
func (o *Orchestrator) assess(ctx context.Context, vctx *validationContext) assessment {
	prompt := o.buildPrompt(vctx)

	text, err := o.assessor.Complete(ctx, prompt, o.cfg.MaxTokens, o.cfg.Temperature)
	if err != nil {
		return assessment{
			status:     models.StatusWarning,
			confidence: 0.5,
			discrepancies: []models.Discrepancy{{
				Type:     models.MissingData,
				Severity: models.DefaultSeverity(models.MissingData),
				Message:  "unable to perform full validation: assessment service unavailable",
			}},
		}
	}

	discrepancies, confidence := o.parseResponse(text, vctx)
	return assessment{
		status:        models.DetermineValidationStatus(discrepancies),
		confidence:    confidence,
		discrepancies: discrepancies,
	}
}
