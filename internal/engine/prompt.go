package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/attest-dev/attest/pkg/models"
)

// defaultConfidence is assumed when the assessor response is malformed
// or omits a confidence value.
const defaultConfidence = 0.7

// buildPrompt renders the deterministic assessment prompt for a
// component. Missing fields get fixed fallback text and document content
// is truncated so prompts stay bounded.
func (o *Orchestrator) buildPrompt(vctx *validationContext) string {
	c := vctx.component

	description := c.Description
	if description == "" {
		description = "No description provided"
	}
	excerpt := c.SourceExcerpt
	if excerpt == "" {
		excerpt = "No excerpt available"
	}
	content := "No source document available"
	if vctx.document != nil {
		content = vctx.document.Content
		if len(content) > o.cfg.MaxDocumentChars {
			content = content[:o.cfg.MaxDocumentChars]
		}
	}

	return fmt.Sprintf(`You are validating an architecture diagram component against its source document.

## Component
Title: %s
Type: %s
Description: %s
Source excerpt: %s

## Source Document
%s

Compare the component against the document. Report every discrepancy you find.

Respond with a single JSON object:
{
  "discrepancies": [
    {
      "type": "CONTENT_MISMATCH | MISSING_DATA | CONFLICTING_SOURCES | OUTDATED_REFERENCE | SCHEMA_VIOLATION",
      "message": "what is wrong",
      "expected_value": "what the document says (optional)",
      "actual_value": "what the component records (optional)"
    }
  ],
  "confidence": 0.0
}

An accurate component gets an empty discrepancies array. confidence is your 0-1 confidence in this assessment.`,
		c.Title, c.ComponentType, description, excerpt, content)
}

// wireAssessment mirrors the JSON shape the assessor is asked for.
type wireAssessment struct {
	Discrepancies []wireDiscrepancy `json:"discrepancies"`
	Confidence    *float64          `json:"confidence"`
}

type wireDiscrepancy struct {
	Type          string `json:"type"`
	Message       string `json:"message"`
	ExpectedValue string `json:"expected_value"`
	ActualValue   string `json:"actual_value"`
}

// parseResponse extracts the first {...} block from assessor output and
// decodes it. It never fails: malformed output yields an empty
// discrepancy list at default confidence, unknown discrepancy types are
// clamped to the known enum, and severity always comes from the fixed
// type table.
func (o *Orchestrator) parseResponse(text string, vctx *validationContext) ([]models.Discrepancy, float64) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, defaultConfidence
	}

	var wire wireAssessment
	if err := json.Unmarshal([]byte(text[start:end+1]), &wire); err != nil {
		return nil, defaultConfidence
	}

	sourceDocID := ""
	if vctx.document != nil {
		sourceDocID = vctx.document.ID
	}

	discrepancies := make([]models.Discrepancy, 0, len(wire.Discrepancies))
	for _, wd := range wire.Discrepancies {
		typ := models.NormalizeDiscrepancyType(wd.Type)
		discrepancies = append(discrepancies, models.Discrepancy{
			Type:             typ,
			Severity:         models.DefaultSeverity(typ),
			Message:          wd.Message,
			ExpectedValue:    wd.ExpectedValue,
			ActualValue:      wd.ActualValue,
			SourceDocumentID: sourceDocID,
		})
	}

	confidence := defaultConfidence
	if wire.Confidence != nil {
		confidence = *wire.Confidence
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}
	}

	return discrepancies, confidence
}
