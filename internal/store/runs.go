package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/attest-dev/attest/pkg/models"
)

// Run CRUD operations. Runs advance PENDING -> RUNNING -> COMPLETED or
// FAILED and are never reopened; results are append-only.

// CreateRun inserts a new validation run.
func (db *DB) CreateRun(r *models.ValidationRun) error {
	_, err := db.Exec(`
		INSERT INTO validation_runs (id, diagram_id, status, score, total_components, validated_components, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.DiagramID, string(r.Status), r.Score, r.TotalComponents, r.ValidatedComponents, formatTime(r.StartedAt), nil)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID. Returns (nil, nil) when not found.
func (db *DB) GetRun(id string) (*models.ValidationRun, error) {
	row := db.QueryRow(`
		SELECT id, diagram_id, status, score, total_components, validated_components, started_at, completed_at
		FROM validation_runs WHERE id = ?
	`, id)

	r, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// SetRunStatus updates only the status of a run.
func (db *DB) SetRunStatus(id string, status models.RunStatus) error {
	_, err := db.Exec("UPDATE validation_runs SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("set run status: %w", err)
	}
	return nil
}

// SetRunProgress records how many components have been validated so far.
// Progress is written per component so pollers observe true mid-run state.
func (db *DB) SetRunProgress(id string, validated int) error {
	_, err := db.Exec("UPDATE validation_runs SET validated_components = ? WHERE id = ?", validated, id)
	if err != nil {
		return fmt.Errorf("set run progress: %w", err)
	}
	return nil
}

// CompleteRun marks a run COMPLETED with its final score.
func (db *DB) CompleteRun(r *models.ValidationRun) error {
	var completedAt *string
	if r.CompletedAt != nil {
		s := formatTime(*r.CompletedAt)
		completedAt = &s
	}

	_, err := db.Exec(`
		UPDATE validation_runs SET status = ?, score = ?, validated_components = ?, completed_at = ?
		WHERE id = ?
	`, string(models.RunCompleted), r.Score, r.ValidatedComponents, completedAt, r.ID)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return nil
}

// ListRuns lists runs for a diagram, newest first. An empty diagramID
// lists every run.
func (db *DB) ListRuns(diagramID string) ([]models.ValidationRun, error) {
	var rows *sql.Rows
	var err error

	if diagramID != "" {
		rows, err = db.Query(`
			SELECT id, diagram_id, status, score, total_components, validated_components, started_at, completed_at
			FROM validation_runs WHERE diagram_id = ? ORDER BY started_at DESC
		`, diagramID)
	} else {
		rows, err = db.Query(`
			SELECT id, diagram_id, status, score, total_components, validated_components, started_at, completed_at
			FROM validation_runs ORDER BY started_at DESC
		`)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.ValidationRun
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, nil
}

// CompletedRuns returns completed runs for a diagram, oldest first.
// This backs trend reporting in the scoring engine.
func (db *DB) CompletedRuns(diagramID string) ([]models.ValidationRun, error) {
	rows, err := db.Query(`
		SELECT id, diagram_id, status, score, total_components, validated_components, started_at, completed_at
		FROM validation_runs WHERE diagram_id = ? AND status = ? ORDER BY started_at
	`, diagramID, string(models.RunCompleted))
	if err != nil {
		return nil, fmt.Errorf("list completed runs: %w", err)
	}
	defer rows.Close()

	var runs []models.ValidationRun
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, nil
}

// scanRun scans a run row via the given Scan function.
func scanRun(scan func(...any) error) (*models.ValidationRun, error) {
	var r models.ValidationRun
	var score sql.NullFloat64
	var startedAt string
	var completedAt sql.NullString

	err := scan(&r.ID, &r.DiagramID, &r.Status, &score, &r.TotalComponents, &r.ValidatedComponents, &startedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	if score.Valid {
		r.Score = &score.Float64
	}
	r.StartedAt, _ = parseTime(startedAt)
	r.CompletedAt = parseNullableTime(completedAt)
	return &r, nil
}

// InsertResult appends one validation result. Results are never updated
// after insertion.
func (db *DB) InsertResult(r *models.ValidationResult) error {
	discrepancies, err := json.Marshal(r.Discrepancies)
	if err != nil {
		return fmt.Errorf("marshal discrepancies: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO validation_results (id, validation_run_id, component_id, status, discrepancies, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.ValidationRunID, r.ComponentID, string(r.Status), string(discrepancies), r.Confidence, formatTime(r.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// ListResults returns all results for a run in insertion order, which
// matches the diagram's component order.
func (db *DB) ListResults(runID string) ([]models.ValidationResult, error) {
	rows, err := db.Query(`
		SELECT id, validation_run_id, component_id, status, discrepancies, confidence, created_at
		FROM validation_results WHERE validation_run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []models.ValidationResult
	for rows.Next() {
		var r models.ValidationResult
		var discrepancies string
		var createdAt string
		if err := rows.Scan(&r.ID, &r.ValidationRunID, &r.ComponentID, &r.Status, &discrepancies, &r.Confidence, &createdAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal([]byte(discrepancies), &r.Discrepancies); err != nil {
			return nil, fmt.Errorf("unmarshal discrepancies: %w", err)
		}
		r.CreatedAt, _ = parseTime(createdAt)
		results = append(results, r)
	}
	return results, nil
}
