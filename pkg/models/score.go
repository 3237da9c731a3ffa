package models

// statusWeights maps each validation status to its score contribution.
var statusWeights = map[ValidationStatus]float64{
	StatusValid:        1.0,
	StatusWarning:      0.7,
	StatusStale:        0.5,
	StatusUnverifiable: 0.3,
	StatusInvalid:      0.0,
}

// StatusWeight returns the score weight for a status. Unknown statuses
// contribute nothing.
func StatusWeight(s ValidationStatus) float64 {
	return statusWeights[s]
}

// CalculateValidationScore rolls a result set into a 0-100 score. Each
// result contributes its status weight scaled by confidence, normalized
// over total confidence. An empty result set scores 0.
func CalculateValidationScore(results []ValidationResult) float64 {
	if len(results) == 0 {
		return 0
	}

	var weighted, total float64
	for _, r := range results {
		weighted += StatusWeight(r.Status) * r.Confidence
		total += r.Confidence
	}
	if total == 0 {
		return 0
	}
	return weighted / total * 100
}

// DetermineValidationStatus derives a component status from its
// discrepancies: any critical makes it INVALID, any high or medium makes
// it WARNING, and low-only or empty lists are VALID.
func DetermineValidationStatus(discrepancies []Discrepancy) ValidationStatus {
	worst := 0
	for _, d := range discrepancies {
		if r := d.Severity.Rank(); r > worst {
			worst = r
		}
	}

	switch {
	case worst >= SeverityCritical.Rank():
		return StatusInvalid
	case worst >= SeverityMedium.Rank():
		return StatusWarning
	default:
		return StatusValid
	}
}

// NewValidationSummary counts results per status and attaches the
// overall score.
func NewValidationSummary(results []ValidationResult) ValidationSummary {
	s := ValidationSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusValid:
			s.Valid++
		case StatusWarning:
			s.Warning++
		case StatusInvalid:
			s.Invalid++
		case StatusUnverifiable:
			s.Unverifiable++
		case StatusStale:
			s.Stale++
		}
	}
	s.OverallScore = CalculateValidationScore(results)
	return s
}
