package detect

import (
	"testing"

	"github.com/attest-dev/attest/pkg/models"
)

func TestSuggestedFixes(t *testing.T) {
	tests := []struct {
		name string
		in   models.Discrepancy
		want FixAction
	}{
		{
			"mismatch with expected value",
			models.Discrepancy{Type: models.ContentMismatch, ExpectedValue: "excerpt text"},
			FixUpdateTitle,
		},
		{
			"mismatch without expected value",
			models.Discrepancy{Type: models.ContentMismatch},
			FixReviewManually,
		},
		{
			"missing description",
			models.Discrepancy{Type: models.MissingData, Message: `component "X" has no description`},
			FixUpdateDescription,
		},
		{
			"missing source excerpt",
			models.Discrepancy{Type: models.MissingData, Message: `component "X" has linked documents but no source excerpt`},
			FixAddSource,
		},
		{
			"missing data other",
			models.Discrepancy{Type: models.MissingData, Message: "title too short"},
			FixReviewManually,
		},
		{
			"conflicting sources",
			models.Discrepancy{Type: models.ConflictingSources},
			FixReviewManually,
		},
		{
			"outdated reference",
			models.Discrepancy{Type: models.OutdatedReference},
			FixReviewManually,
		},
		{
			"schema violation",
			models.Discrepancy{Type: models.SchemaViolation},
			FixReviewManually,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixes := SuggestedFixes([]models.Discrepancy{tt.in})
			if len(fixes) != 1 {
				t.Fatalf("got %d fixes, want 1", len(fixes))
			}
			if fixes[0].Action != tt.want {
				t.Errorf("action = %v, want %v", fixes[0].Action, tt.want)
			}
		})
	}
}

func TestSuggestedFixes_Empty(t *testing.T) {
	if got := SuggestedFixes(nil); len(got) != 0 {
		t.Errorf("expected no fixes, got %+v", got)
	}
}

func TestOverallSeverity(t *testing.T) {
	tests := []struct {
		name string
		in   []models.Discrepancy
		want AggregateSeverity
	}{
		{"empty", nil, AggregateNone},
		{"low only", []models.Discrepancy{{Severity: models.SeverityLow}}, AggregateMinor},
		{"medium tops out minor", []models.Discrepancy{{Severity: models.SeverityLow}, {Severity: models.SeverityMedium}}, AggregateMinor},
		{"high", []models.Discrepancy{{Severity: models.SeverityMedium}, {Severity: models.SeverityHigh}}, AggregateMajor},
		{"critical", []models.Discrepancy{{Severity: models.SeverityHigh}, {Severity: models.SeverityCritical}}, AggregateCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallSeverity(tt.in); got != tt.want {
				t.Errorf("OverallSeverity() = %v, want %v", got, tt.want)
			}
		})
	}
}
