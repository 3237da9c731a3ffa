package detect

import (
	"strings"

	"github.com/attest-dev/attest/pkg/models"
)

// FixAction is a suggested remediation for a discrepancy.
type FixAction string

const (
	FixUpdateTitle       FixAction = "UPDATE_TITLE"
	FixUpdateDescription FixAction = "UPDATE_DESCRIPTION"
	FixAddSource         FixAction = "ADD_SOURCE"
	FixReviewManually    FixAction = "REVIEW_MANUALLY"
)

// SuggestedFix pairs a discrepancy with its recommended action.
type SuggestedFix struct {
	Action      FixAction          `json:"action"`
	Discrepancy models.Discrepancy `json:"discrepancy"`
}

// SuggestedFixes maps each discrepancy to a remediation action. The
// mapping is fixed and total; anything without a targeted fix falls back
// to manual review.
func SuggestedFixes(discrepancies []models.Discrepancy) []SuggestedFix {
	fixes := make([]SuggestedFix, 0, len(discrepancies))
	for _, d := range discrepancies {
		fixes = append(fixes, SuggestedFix{Action: fixFor(d), Discrepancy: d})
	}
	return fixes
}

func fixFor(d models.Discrepancy) FixAction {
	switch d.Type {
	case models.ContentMismatch:
		if d.ExpectedValue != "" {
			return FixUpdateTitle
		}
		return FixReviewManually
	case models.MissingData:
		msg := strings.ToLower(d.Message)
		if strings.Contains(msg, "description") {
			return FixUpdateDescription
		}
		if strings.Contains(msg, "source") {
			return FixAddSource
		}
		return FixReviewManually
	default:
		return FixReviewManually
	}
}

// AggregateSeverity is the roll-up severity band of a discrepancy list.
type AggregateSeverity string

const (
	AggregateNone     AggregateSeverity = "NONE"
	AggregateMinor    AggregateSeverity = "MINOR"
	AggregateMajor    AggregateSeverity = "MAJOR"
	AggregateCritical AggregateSeverity = "CRITICAL"
)

// OverallSeverity collapses a discrepancy list into a single band based
// on the highest severity present.
func OverallSeverity(discrepancies []models.Discrepancy) AggregateSeverity {
	if len(discrepancies) == 0 {
		return AggregateNone
	}

	worst := 0
	for _, d := range discrepancies {
		if r := d.Severity.Rank(); r > worst {
			worst = r
		}
	}

	switch {
	case worst >= models.SeverityCritical.Rank():
		return AggregateCritical
	case worst >= models.SeverityHigh.Rank():
		return AggregateMajor
	default:
		return AggregateMinor
	}
}
