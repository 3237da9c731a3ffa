package engine

import (
	"strings"
	"testing"

	"github.com/attest-dev/attest/pkg/models"
)

func TestBuildPrompt_Fallbacks(t *testing.T) {
	o := New(Deps{})
	vctx := &validationContext{
		component: models.Component{Title: "Gateway", ComponentType: "service"},
	}

	prompt := o.buildPrompt(vctx)

	for _, want := range []string{
		"Title: Gateway",
		"No description provided",
		"No excerpt available",
		"No source document available",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_TruncatesDocument(t *testing.T) {
	o := New(Deps{Config: Config{MaxDocumentChars: 100, MaxTokens: 1024, Temperature: 0.2, StaleAfter: 1, DriftWindow: 1}})
	vctx := &validationContext{
		component: models.Component{Title: "Gateway"},
		document:  &models.Document{ID: "doc-1", Content: strings.Repeat("a", 500)},
	}

	prompt := o.buildPrompt(vctx)

	if strings.Contains(prompt, strings.Repeat("a", 101)) {
		t.Error("document content not truncated to the configured limit")
	}
	if !strings.Contains(prompt, strings.Repeat("a", 100)) {
		t.Error("truncated content missing from prompt")
	}
}

func TestParseResponse(t *testing.T) {
	o := New(Deps{})
	vctx := &validationContext{
		component: models.Component{ID: "c1"},
		document:  &models.Document{ID: "doc-1"},
	}

	tests := []struct {
		name           string
		text           string
		wantCount      int
		wantConfidence float64
	}{
		{
			name:           "json embedded in prose",
			text:           `Sure, here is the assessment: {"discrepancies": [], "confidence": 0.9} Hope that helps.`,
			wantCount:      0,
			wantConfidence: 0.9,
		},
		{
			name:           "no json at all",
			text:           "I cannot assess this component.",
			wantCount:      0,
			wantConfidence: defaultConfidence,
		},
		{
			name:           "malformed json",
			text:           `{"discrepancies": [{]}`,
			wantCount:      0,
			wantConfidence: defaultConfidence,
		},
		{
			name:           "missing confidence",
			text:           `{"discrepancies": [{"type": "MISSING_DATA", "message": "no port listed"}]}`,
			wantCount:      1,
			wantConfidence: defaultConfidence,
		},
		{
			name:           "confidence above one is clamped",
			text:           `{"discrepancies": [], "confidence": 3.5}`,
			wantCount:      0,
			wantConfidence: 1,
		},
		{
			name:           "negative confidence is clamped",
			text:           `{"discrepancies": [], "confidence": -0.2}`,
			wantCount:      0,
			wantConfidence: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discrepancies, confidence := o.parseResponse(tt.text, vctx)
			if len(discrepancies) != tt.wantCount {
				t.Errorf("got %d discrepancies, want %d", len(discrepancies), tt.wantCount)
			}
			if confidence != tt.wantConfidence {
				t.Errorf("confidence = %v, want %v", confidence, tt.wantConfidence)
			}
		})
	}
}

func TestParseResponse_UnknownTypeAndSeverity(t *testing.T) {
	o := New(Deps{})
	vctx := &validationContext{
		component: models.Component{ID: "c1"},
		document:  &models.Document{ID: "doc-1"},
	}

	text := `{"discrepancies": [
		{"type": "SOMETHING_NEW", "message": "surprise"},
		{"type": "CONFLICTING_SOURCES", "message": "docs disagree"}
	], "confidence": 0.8}`

	discrepancies, _ := o.parseResponse(text, vctx)
	if len(discrepancies) != 2 {
		t.Fatalf("got %d discrepancies, want 2", len(discrepancies))
	}

	if discrepancies[0].Type != models.ContentMismatch {
		t.Errorf("unknown type normalized to %v, want CONTENT_MISMATCH", discrepancies[0].Type)
	}
	if discrepancies[0].Severity != models.SeverityHigh {
		t.Errorf("unknown type severity = %v, want high", discrepancies[0].Severity)
	}
	if discrepancies[1].Severity != models.SeverityCritical {
		t.Errorf("CONFLICTING_SOURCES severity = %v, want critical", discrepancies[1].Severity)
	}
	for _, d := range discrepancies {
		if d.SourceDocumentID != "doc-1" {
			t.Errorf("SourceDocumentID = %q, want doc-1", d.SourceDocumentID)
		}
	}
}
