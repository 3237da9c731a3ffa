package models

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateValidationScore_Empty(t *testing.T) {
	if got := CalculateValidationScore(nil); got != 0 {
		t.Errorf("CalculateValidationScore(nil) = %v, want 0", got)
	}
	if got := CalculateValidationScore([]ValidationResult{}); got != 0 {
		t.Errorf("CalculateValidationScore([]) = %v, want 0", got)
	}
}

func TestCalculateValidationScore_AllValid(t *testing.T) {
	results := []ValidationResult{
		{Status: StatusValid, Confidence: 1},
		{Status: StatusValid, Confidence: 1},
		{Status: StatusValid, Confidence: 1},
	}
	if got := CalculateValidationScore(results); !almostEqual(got, 100) {
		t.Errorf("all-valid score = %v, want 100", got)
	}
}

func TestCalculateValidationScore_AllInvalid(t *testing.T) {
	results := []ValidationResult{
		{Status: StatusInvalid, Confidence: 1},
		{Status: StatusInvalid, Confidence: 0.9},
	}
	if got := CalculateValidationScore(results); !almostEqual(got, 0) {
		t.Errorf("all-invalid score = %v, want 0", got)
	}
}

func TestCalculateValidationScore_MixedStatuses(t *testing.T) {
	results := []ValidationResult{
		{Status: StatusValid, Confidence: 1},
		{Status: StatusWarning, Confidence: 1},
	}
	if got := CalculateValidationScore(results); !almostEqual(got, 85) {
		t.Errorf("valid+warning score = %v, want 85", got)
	}
}

func TestCalculateValidationScore_Unverifiable(t *testing.T) {
	// Confidence cancels in the normalization, so a uniform unverifiable
	// set scores the raw status weight.
	results := []ValidationResult{
		{Status: StatusUnverifiable, Confidence: 0.3},
		{Status: StatusUnverifiable, Confidence: 0.3},
	}
	if got := CalculateValidationScore(results); !almostEqual(got, 30) {
		t.Errorf("all-unverifiable score = %v, want 30", got)
	}
}

func TestCalculateValidationScore_ZeroConfidence(t *testing.T) {
	results := []ValidationResult{{Status: StatusValid, Confidence: 0}}
	if got := CalculateValidationScore(results); got != 0 {
		t.Errorf("zero-confidence score = %v, want 0", got)
	}
}

func TestDetermineValidationStatus(t *testing.T) {
	tests := []struct {
		name          string
		discrepancies []Discrepancy
		want          ValidationStatus
	}{
		{"empty", nil, StatusValid},
		{"only low", []Discrepancy{{Severity: SeverityLow}, {Severity: SeverityLow}}, StatusValid},
		{"medium", []Discrepancy{{Severity: SeverityMedium}}, StatusWarning},
		{"high", []Discrepancy{{Severity: SeverityLow}, {Severity: SeverityHigh}}, StatusWarning},
		{"critical wins", []Discrepancy{{Severity: SeverityLow}, {Severity: SeverityCritical}, {Severity: SeverityHigh}}, StatusInvalid},
		{"unknown severity", []Discrepancy{{Severity: "bogus"}}, StatusValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineValidationStatus(tt.discrepancies); got != tt.want {
				t.Errorf("DetermineValidationStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewValidationSummary(t *testing.T) {
	results := []ValidationResult{
		{Status: StatusValid, Confidence: 1},
		{Status: StatusValid, Confidence: 1},
		{Status: StatusWarning, Confidence: 1},
		{Status: StatusInvalid, Confidence: 1},
		{Status: StatusUnverifiable, Confidence: 0.3},
		{Status: StatusStale, Confidence: 0.5},
	}

	s := NewValidationSummary(results)
	if s.Total != 6 {
		t.Errorf("Total = %d, want 6", s.Total)
	}
	if s.Valid != 2 || s.Warning != 1 || s.Invalid != 1 || s.Unverifiable != 1 || s.Stale != 1 {
		t.Errorf("counts = %+v, want 2/1/1/1/1", s)
	}
	if s.OverallScore != CalculateValidationScore(results) {
		t.Errorf("OverallScore = %v, want %v", s.OverallScore, CalculateValidationScore(results))
	}
}

func TestNewValidationSummary_Empty(t *testing.T) {
	s := NewValidationSummary(nil)
	if s.Total != 0 || s.OverallScore != 0 {
		t.Errorf("empty summary = %+v, want zeros", s)
	}
}
