package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"eval-admin/internal/models"
)

// uniqueViolation is the postgres error code for unique constraint violations
const uniqueViolation = "23505"

// EvaluationLineRepository handles database operations for evaluation line
// reference records. Lines are keyed by (role, sequence) and never deleted.
type EvaluationLineRepository struct {
	db *sql.DB
}

// NewEvaluationLineRepository creates a new evaluation line repository
func NewEvaluationLineRepository(db *sql.DB) *EvaluationLineRepository {
	return &EvaluationLineRepository{db: db}
}

// GetOrCreate returns the line for (role, sequence), creating it on first use.
// The returned bool is true when a new line was inserted. The lookup-then-
// insert pair is not race-free on its own; the unique constraint on
// (role, sequence) is the backstop, and a unique violation on insert is
// treated as "already exists, re-fetch".
func (r *EvaluationLineRepository) GetOrCreate(role models.LineRole, sequence int) (*models.EvaluationLine, bool, error) {
	line, err := r.GetByRoleAndSequence(role, sequence)
	if err != nil {
		return nil, false, err
	}
	if line != nil {
		return line, false, nil
	}

	line = &models.EvaluationLine{
		ID:       uuid.NewString(),
		Role:     role,
		Sequence: sequence,
	}

	query := `
		INSERT INTO evaluation_lines (id, role, sequence)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRow(query, line.ID, line.Role, line.Sequence).Scan(&line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			// Lost the race to a concurrent first use
			existing, fetchErr := r.GetByRoleAndSequence(role, sequence)
			if fetchErr != nil {
				return nil, false, fetchErr
			}
			if existing == nil {
				return nil, false, fmt.Errorf("line (%s, %d) conflicted on insert but could not be re-fetched", role, sequence)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create evaluation line: %w", err)
	}

	return line, true, nil
}

// GetByRoleAndSequence retrieves the line matching (role, sequence), or nil
func (r *EvaluationLineRepository) GetByRoleAndSequence(role models.LineRole, sequence int) (*models.EvaluationLine, error) {
	var line models.EvaluationLine
	query := `
		SELECT id, role, sequence, created_at, updated_at
		FROM evaluation_lines
		WHERE role = $1 AND sequence = $2
	`

	err := r.db.QueryRow(query, role, sequence).Scan(
		&line.ID,
		&line.Role,
		&line.Sequence,
		&line.CreatedAt,
		&line.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &line, nil
}

// GetByID retrieves a line by id, or nil if it does not exist
func (r *EvaluationLineRepository) GetByID(id string) (*models.EvaluationLine, error) {
	var line models.EvaluationLine
	query := `
		SELECT id, role, sequence, created_at, updated_at
		FROM evaluation_lines
		WHERE id = $1
	`

	err := r.db.QueryRow(query, id).Scan(
		&line.ID,
		&line.Role,
		&line.Sequence,
		&line.CreatedAt,
		&line.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &line, nil
}

// List retrieves all lines ordered by role and sequence
func (r *EvaluationLineRepository) List() ([]models.EvaluationLine, error) {
	query := `
		SELECT id, role, sequence, created_at, updated_at
		FROM evaluation_lines
		ORDER BY role, sequence
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.EvaluationLine{}
	for rows.Next() {
		var line models.EvaluationLine
		if err := rows.Scan(
			&line.ID,
			&line.Role,
			&line.Sequence,
			&line.CreatedAt,
			&line.UpdatedAt,
		); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
