// Package detect implements the pure, I/O-free discrepancy heuristics.
// It compares a component's recorded fields against source document text
// using lexical matching only; semantic comparison is out of scope.
package detect

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/attest-dev/attest/pkg/models"
)

// DefaultMatchThreshold is the fraction of significant excerpt words that
// must appear in a document for a fuzzy match. The value is a preserved
// heuristic with no derivation beyond having worked in practice.
const DefaultMatchThreshold = 0.8

// conflictWindow is the number of characters of context captured on each
// side of a title occurrence when scanning for conflicting sources.
const conflictWindow = 50

// minSignificantWordLen filters out short stopword-like tokens when
// computing excerpt word coverage.
const minSignificantWordLen = 2

// negationPattern marks a context window as a negative mention of the
// component.
var negationPattern = regexp.MustCompile(`(?i)\b(not|don't|doesn't|shouldn't|cannot|never|deprecated|removed|obsolete)\b`)

// Detector runs lexical discrepancy checks. The zero value is not usable;
// construct with New.
type Detector struct {
	// MatchThreshold overrides the excerpt word-coverage threshold.
	MatchThreshold float64
}

// New returns a Detector with default thresholds.
func New() *Detector {
	return &Detector{MatchThreshold: DefaultMatchThreshold}
}

// DetectDiscrepancies runs all checks in a fixed order: content mismatch,
// missing data, conflicting sources.
func (d *Detector) DetectDiscrepancies(c models.Component, docs []models.Document) []models.Discrepancy {
	var out []models.Discrepancy
	out = append(out, d.DetectContentMismatch(c, docs)...)
	out = append(out, d.DetectMissingData(c, docs)...)
	out = append(out, d.DetectConflictingSources(c, docs)...)
	return out
}

// DetectContentMismatch checks each document for two independent signals:
// the source excerpt no longer matching the document text, and the
// component title not appearing anywhere in the document.
func (d *Detector) DetectContentMismatch(c models.Component, docs []models.Document) []models.Discrepancy {
	var out []models.Discrepancy

	for _, doc := range docs {
		if c.SourceExcerpt != "" && !d.fuzzyMatch(c.SourceExcerpt, doc.Content) {
			out = append(out, models.Discrepancy{
				Type:             models.ContentMismatch,
				Severity:         models.SeverityHigh,
				Message:          fmt.Sprintf("source excerpt for %q no longer matches document content", c.Title),
				ExpectedValue:    truncate(c.SourceExcerpt, 100),
				SourceDocumentID: doc.ID,
			})
		}

		if c.Title != "" && !containsFold(doc.Content, c.Title) {
			out = append(out, models.Discrepancy{
				Type:             models.ContentMismatch,
				Severity:         models.SeverityMedium,
				Message:          fmt.Sprintf("title %q not found in source document", c.Title),
				ActualValue:      c.Title,
				SourceDocumentID: doc.ID,
			})
		}
	}

	return out
}

// DetectMissingData flags components with empty descriptions, missing
// source excerpts, or degenerate titles.
func (d *Detector) DetectMissingData(c models.Component, docs []models.Document) []models.Discrepancy {
	var out []models.Discrepancy

	if strings.TrimSpace(c.Description) == "" {
		out = append(out, models.Discrepancy{
			Type:     models.MissingData,
			Severity: models.SeverityMedium,
			Message:  fmt.Sprintf("component %q has no description", c.Title),
		})
	}

	if len(docs) > 0 && c.SourceExcerpt == "" {
		out = append(out, models.Discrepancy{
			Type:     models.MissingData,
			Severity: models.SeverityLow,
			Message:  fmt.Sprintf("component %q has linked documents but no source excerpt", c.Title),
		})
	}

	if len(c.Title) < 3 {
		out = append(out, models.Discrepancy{
			Type:        models.MissingData,
			Severity:    models.SeverityLow,
			Message:     "component title is too short to be meaningful",
			ActualValue: c.Title,
		})
	}

	return out
}

// DetectConflictingSources looks for the component title mentioned across
// at least two documents where one mention reads as a negation (removed,
// deprecated, ...) and another reads as a plain positive mention.
func (d *Detector) DetectConflictingSources(c models.Component, docs []models.Document) []models.Discrepancy {
	if len(docs) < 2 || c.Title == "" {
		return nil
	}

	docsWithMention := 0
	hasNegative := false
	hasPositive := false

	for _, doc := range docs {
		windows := contextWindows(doc.Content, c.Title, conflictWindow)
		if len(windows) == 0 {
			continue
		}
		docsWithMention++
		for _, w := range windows {
			if negationPattern.MatchString(w) {
				hasNegative = true
			} else {
				hasPositive = true
			}
		}
	}

	if docsWithMention >= 2 && hasNegative && hasPositive {
		return []models.Discrepancy{{
			Type:     models.ConflictingSources,
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("source documents disagree about %q: found both positive and negated mentions", c.Title),
		}}
	}

	return nil
}

// fuzzyMatch reports whether the excerpt still appears in the document,
// either as an exact case-insensitive substring or with enough of its
// significant words individually present.
func (d *Detector) fuzzyMatch(excerpt, content string) bool {
	if containsFold(content, excerpt) {
		return true
	}

	words := significantWords(excerpt)
	if len(words) == 0 {
		return true
	}

	lower := strings.ToLower(content)
	found := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			found++
		}
	}

	threshold := d.MatchThreshold
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return float64(found)/float64(len(words)) >= threshold
}

// significantWords lower-cases and tokenizes text, dropping words at or
// below the significance cutoff.
func significantWords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var words []string
	for _, f := range fields {
		if len(f) > minSignificantWordLen {
			words = append(words, f)
		}
	}
	return words
}

// contextWindows returns the text surrounding every case-insensitive
// occurrence of needle, radius characters on each side.
func contextWindows(content, needle string, radius int) []string {
	lower := strings.ToLower(content)
	target := strings.ToLower(needle)
	if target == "" {
		return nil
	}

	var windows []string
	for start := 0; ; {
		idx := strings.Index(lower[start:], target)
		if idx < 0 {
			break
		}
		idx += start

		from := idx - radius
		if from < 0 {
			from = 0
		}
		to := idx + len(target) + radius
		if to > len(content) {
			to = len(content)
		}
		windows = append(windows, content[from:to])

		start = idx + len(target)
	}
	return windows
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// truncate returns at most n characters of s.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
