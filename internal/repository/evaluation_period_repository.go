package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"eval-admin/internal/models"
)

const periodColumns = `id, name, start_date, end_date, phase, created_by, created_at, updated_at, opened_at, closed_at`

// EvaluationPeriodRepository handles database operations for evaluation periods
type EvaluationPeriodRepository struct {
	db *sql.DB
}

// NewEvaluationPeriodRepository creates a new evaluation period repository
func NewEvaluationPeriodRepository(db *sql.DB) *EvaluationPeriodRepository {
	return &EvaluationPeriodRepository{db: db}
}

func scanPeriod(row interface{ Scan(...any) error }, p *models.EvaluationPeriod) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.StartDate,
		&p.EndDate,
		&p.Phase,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.OpenedAt,
		&p.ClosedAt,
	)
}

// Create inserts a new evaluation period in DRAFT phase
func (r *EvaluationPeriodRepository) Create(p *models.EvaluationPeriod) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Phase == "" {
		p.Phase = models.PhaseDraft
	}

	query := `
		INSERT INTO evaluation_periods (id, name, start_date, end_date, phase, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		p.ID,
		p.Name,
		p.StartDate,
		p.EndDate,
		p.Phase,
		p.CreatedBy,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create evaluation period: %w", err)
	}

	return nil
}

// GetByID retrieves a period by id, or nil
func (r *EvaluationPeriodRepository) GetByID(id string) (*models.EvaluationPeriod, error) {
	var p models.EvaluationPeriod
	query := `SELECT ` + periodColumns + ` FROM evaluation_periods WHERE id = $1`

	err := scanPeriod(r.db.QueryRow(query, id), &p)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// List retrieves all periods, newest first
func (r *EvaluationPeriodRepository) List() ([]models.EvaluationPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM evaluation_periods ORDER BY start_date DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	periods := []models.EvaluationPeriod{}
	for rows.Next() {
		var p models.EvaluationPeriod
		if err := scanPeriod(rows, &p); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}

	return periods, rows.Err()
}

// Update applies name and date changes
func (r *EvaluationPeriodRepository) Update(p *models.EvaluationPeriod) error {
	query := `
		UPDATE evaluation_periods
		SET name = $2, start_date = $3, end_date = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(query, p.ID, p.Name, p.StartDate, p.EndDate).Scan(&p.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("evaluation period %s not found", p.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update evaluation period: %w", err)
	}

	return nil
}

// UpdatePhase transitions a period to the given phase, stamping opened_at or
// closed_at as appropriate.
func (r *EvaluationPeriodRepository) UpdatePhase(id, phase string) error {
	query := `
		UPDATE evaluation_periods
		SET phase = $2,
		    opened_at = CASE WHEN $2 = 'OPEN' THEN NOW() ELSE opened_at END,
		    closed_at = CASE WHEN $2 = 'CLOSED' THEN NOW() ELSE closed_at END,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, id, phase)
	if err != nil {
		return fmt.Errorf("failed to update period phase: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("evaluation period %s not found", id)
	}

	return nil
}
