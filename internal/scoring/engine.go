// Package scoring aggregates validation results into weighted scores,
// category breakdowns, health bands, recommendations, and trend
// projections over past runs.
package scoring

import (
	"fmt"
	"time"

	"github.com/attest-dev/attest/pkg/models"
)

// HealthBand is a coarse label derived from a numeric score.
type HealthBand string

const (
	HealthExcellent HealthBand = "EXCELLENT"
	HealthGood      HealthBand = "GOOD"
	HealthFair      HealthBand = "FAIR"
	HealthPoor      HealthBand = "POOR"
	HealthCritical  HealthBand = "CRITICAL"
)

// RunHistory provides access to persisted validation runs for trend
// reporting. Implemented by the store.
type RunHistory interface {
	// CompletedRuns returns completed runs for a diagram, oldest first.
	CompletedRuns(diagramID string) ([]models.ValidationRun, error)
}

// Engine computes scores and reports over validation results. Type
// weights can be tuned per component type; unset types weigh 1.0.
type Engine struct {
	history     RunHistory
	typeWeights map[string]float64
}

// NewEngine creates a scoring engine. history may be nil when trend
// reporting is not needed.
func NewEngine(history RunHistory) *Engine {
	return &Engine{
		history:     history,
		typeWeights: map[string]float64{},
	}
}

// SetTypeWeights merges overrides into the type weight table. Existing
// overrides for other types are kept, defaults stay at 1.0.
func (e *Engine) SetTypeWeights(overrides map[string]float64) {
	for k, v := range overrides {
		e.typeWeights[k] = v
	}
}

// typeWeight returns the weight for a component type, defaulting to 1.0.
func (e *Engine) typeWeight(componentType string) float64 {
	if w, ok := e.typeWeights[componentType]; ok {
		return w
	}
	return 1.0
}

// WeightedScore computes the 0-100 diagram score. Each result contributes
// statusWeight × confidence × typeWeight, normalized over
// confidence × typeWeight. componentTypeByID maps component ids to their
// type; missing entries weigh 1.0. Empty input scores 0.
func (e *Engine) WeightedScore(results []models.ValidationResult, componentTypeByID map[string]string) float64 {
	if len(results) == 0 {
		return 0
	}

	var weighted, total float64
	for _, r := range results {
		tw := e.typeWeight(componentTypeByID[r.ComponentID])
		weighted += models.StatusWeight(r.Status) * r.Confidence * tw
		total += r.Confidence * tw
	}
	if total == 0 {
		return 0
	}
	return weighted / total * 100
}

// Breakdown holds per-category scores, each 0-100.
type Breakdown struct {
	ContentAccuracy   float64 `json:"content_accuracy"`
	DataCompleteness  float64 `json:"data_completeness"`
	SourceConsistency float64 `json:"source_consistency"`
	Freshness         float64 `json:"freshness"`
}

// ScoreBreakdown buckets every issue into exactly one of four categories
// and reduces each category from 100 in proportion to its share of
// issues per result. STALE results count as freshness issues and
// UNVERIFIABLE results as data issues even without discrepancies.
func ScoreBreakdown(results []models.ValidationResult) Breakdown {
	b := Breakdown{
		ContentAccuracy:   100,
		DataCompleteness:  100,
		SourceConsistency: 100,
		Freshness:         100,
	}
	if len(results) == 0 {
		return b
	}

	var content, data, consistency, freshness int
	for _, r := range results {
		for _, d := range r.Discrepancies {
			switch d.Type {
			case models.ContentMismatch:
				content++
			case models.MissingData:
				data++
			case models.ConflictingSources:
				consistency++
			default: // OUTDATED_REFERENCE, SCHEMA_VIOLATION
				freshness++
			}
		}
		switch r.Status {
		case models.StatusStale:
			freshness++
		case models.StatusUnverifiable:
			data++
		}
	}

	total := content + data + consistency + freshness
	if total == 0 {
		return b
	}

	reduce := func(categoryIssues int) float64 {
		penalty := float64(categoryIssues) / float64(total) *
			float64(total) / float64(len(results)) * 100
		score := 100 - penalty
		if score < 0 {
			return 0
		}
		return score
	}

	b.ContentAccuracy = reduce(content)
	b.DataCompleteness = reduce(data)
	b.SourceConsistency = reduce(consistency)
	b.Freshness = reduce(freshness)
	return b
}

// HealthStatus maps a score to its health band. Bounds are inclusive.
func HealthStatus(score float64) HealthBand {
	switch {
	case score >= 90:
		return HealthExcellent
	case score >= 75:
		return HealthGood
	case score >= 60:
		return HealthFair
	case score >= 40:
		return HealthPoor
	default:
		return HealthCritical
	}
}

// Recommendations produces one actionable message per non-empty problem
// bucket, each citing how many components are affected. A clean result
// set gets a single positive message.
func Recommendations(results []models.ValidationResult) []string {
	var mismatched, missing, conflicting int
	var stale, unverifiable, invalid int

	for _, r := range results {
		types := map[models.DiscrepancyType]bool{}
		for _, d := range r.Discrepancies {
			types[d.Type] = true
		}
		if types[models.ContentMismatch] {
			mismatched++
		}
		if types[models.MissingData] {
			missing++
		}
		if types[models.ConflictingSources] {
			conflicting++
		}

		switch r.Status {
		case models.StatusStale:
			stale++
		case models.StatusUnverifiable:
			unverifiable++
		case models.StatusInvalid:
			invalid++
		}
	}

	var recs []string
	if mismatched > 0 {
		recs = append(recs, fmt.Sprintf("Review %d component(s) whose content no longer matches their source documents.", mismatched))
	}
	if missing > 0 {
		recs = append(recs, fmt.Sprintf("Fill in missing descriptions or source excerpts for %d component(s).", missing))
	}
	if conflicting > 0 {
		recs = append(recs, fmt.Sprintf("Resolve conflicting source documents for %d component(s).", conflicting))
	}
	if stale > 0 {
		recs = append(recs, fmt.Sprintf("Refresh source documents for %d stale component(s).", stale))
	}
	if unverifiable > 0 {
		recs = append(recs, fmt.Sprintf("Link source documents to %d unverifiable component(s).", unverifiable))
	}
	if invalid > 0 {
		recs = append(recs, fmt.Sprintf("Fix %d component(s) with critical discrepancies before trusting this diagram.", invalid))
	}

	if len(recs) == 0 {
		recs = append(recs, "All components check out against their sources. No action needed.")
	}
	return recs
}

// TrendPoint is one historical run in a trend series.
type TrendPoint struct {
	Date           time.Time `json:"date"`
	Score          float64   `json:"score"`
	ComponentCount int       `json:"component_count"`
}

// Report bundles everything a caller needs to present diagram health.
type Report struct {
	OverallScore    float64                  `json:"overall_score"`
	Health          HealthBand               `json:"health"`
	Breakdown       Breakdown                `json:"breakdown"`
	Summary         models.ValidationSummary `json:"summary"`
	Recommendations []string                 `json:"recommendations"`
	Trends          []TrendPoint             `json:"trends,omitempty"`
}

// GenerateReport assembles a scoring report for a result set.
// componentTypeByID feeds the type-weighted overall score; pass nil for
// uniform weighting. When includeTrends is set and the engine has run
// history, the report carries a trend series of completed runs for the
// diagram, oldest first.
func (e *Engine) GenerateReport(results []models.ValidationResult, componentTypeByID map[string]string, diagramID string, includeTrends bool) (*Report, error) {
	score := e.WeightedScore(results, componentTypeByID)

	r := &Report{
		OverallScore:    score,
		Health:          HealthStatus(score),
		Breakdown:       ScoreBreakdown(results),
		Summary:         models.NewValidationSummary(results),
		Recommendations: Recommendations(results),
	}

	if includeTrends && e.history != nil && diagramID != "" {
		trends, err := e.Trends(diagramID)
		if err != nil {
			return nil, fmt.Errorf("load trends: %w", err)
		}
		r.Trends = trends
	}

	return r, nil
}

// Trends projects completed runs for a diagram into a trend series.
func (e *Engine) Trends(diagramID string) ([]TrendPoint, error) {
	if e.history == nil {
		return nil, nil
	}

	runs, err := e.history.CompletedRuns(diagramID)
	if err != nil {
		return nil, err
	}

	points := make([]TrendPoint, 0, len(runs))
	for _, run := range runs {
		if run.Score == nil {
			continue
		}
		date := run.StartedAt
		if run.CompletedAt != nil {
			date = *run.CompletedAt
		}
		points = append(points, TrendPoint{
			Date:           date,
			Score:          *run.Score,
			ComponentCount: run.TotalComponents,
		})
	}
	return points, nil
}

// ScoreDelta returns the score change between the two most recent
// completed runs. With fewer than two runs the delta is 0.
func (e *Engine) ScoreDelta(diagramID string) (float64, error) {
	points, err := e.Trends(diagramID)
	if err != nil {
		return 0, err
	}
	if len(points) < 2 {
		return 0, nil
	}
	return points[len(points)-1].Score - points[len(points)-2].Score, nil
}

// ComponentScores projects each result to its individual 0-100 score.
func ComponentScores(results []models.ValidationResult) map[string]float64 {
	scores := make(map[string]float64, len(results))
	for _, r := range results {
		scores[r.ComponentID] = models.StatusWeight(r.Status) * r.Confidence * 100
	}
	return scores
}
