package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"eval-admin/internal/models"
)

// ErrDuplicateMapping is returned when an insert hits the partial unique
// index over active mappings, i.e. an identical active mapping already exists.
var ErrDuplicateMapping = errors.New("an identical active mapping already exists")

const mappingColumns = `id, evaluation_period_id, evaluatee_id, evaluator_id, deliverable_id,
	       evaluation_line_id, created_by, updated_by, created_at, updated_at, deleted_at`

// LineMappingRepository owns all write access to evaluation line mappings.
// Mappings are soft-deleted via deleted_at; "active" always means
// deleted_at IS NULL.
type LineMappingRepository struct {
	db *sql.DB
}

// NewLineMappingRepository creates a new line mapping repository
func NewLineMappingRepository(db *sql.DB) *LineMappingRepository {
	return &LineMappingRepository{db: db}
}

func scanMapping(row interface{ Scan(...any) error }, m *models.EvaluationLineMapping) error {
	return row.Scan(
		&m.ID,
		&m.EvaluationPeriodID,
		&m.EvaluateeID,
		&m.EvaluatorID,
		&m.DeliverableID,
		&m.EvaluationLineID,
		&m.CreatedBy,
		&m.UpdatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.DeletedAt,
	)
}

// GetByID retrieves a mapping by id regardless of deletion state, or nil
func (r *LineMappingRepository) GetByID(id string) (*models.EvaluationLineMapping, error) {
	var m models.EvaluationLineMapping
	query := `
		SELECT ` + mappingColumns + `
		FROM evaluation_line_mappings
		WHERE id = $1
	`

	err := scanMapping(r.db.QueryRow(query, id), &m)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// FindActive retrieves the active mapping with exactly the given relation
// values, or nil. Used for duplicate detection.
func (r *LineMappingRepository) FindActive(periodID, evaluateeID, evaluatorID, lineID string, deliverableID *string) (*models.EvaluationLineMapping, error) {
	var m models.EvaluationLineMapping
	query := `
		SELECT ` + mappingColumns + `
		FROM evaluation_line_mappings
		WHERE evaluation_period_id = $1
		  AND evaluatee_id = $2
		  AND evaluator_id = $3
		  AND evaluation_line_id = $4
		  AND deliverable_id IS NOT DISTINCT FROM $5
		  AND deleted_at IS NULL
	`

	err := scanMapping(r.db.QueryRow(query, periodID, evaluateeID, evaluatorID, lineID, deliverableID), &m)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// FindActiveByRole retrieves all active mappings for an evaluatee in a period
// whose line has the given role.
func (r *LineMappingRepository) FindActiveByRole(periodID, evaluateeID string, role models.LineRole) ([]models.EvaluationLineMapping, error) {
	query := `
		SELECT m.id, m.evaluation_period_id, m.evaluatee_id, m.evaluator_id, m.deliverable_id,
		       m.evaluation_line_id, m.created_by, m.updated_by, m.created_at, m.updated_at, m.deleted_at
		FROM evaluation_line_mappings m
		JOIN evaluation_lines l ON l.id = m.evaluation_line_id
		WHERE m.evaluation_period_id = $1
		  AND m.evaluatee_id = $2
		  AND l.role = $3
		  AND m.deleted_at IS NULL
		ORDER BY m.created_at
	`

	rows, err := r.db.Query(query, periodID, evaluateeID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMappings(rows)
}

// FindActiveForDeliverable retrieves all active mappings for an evaluatee on
// one deliverable under one line. Used to locate supersession candidates.
func (r *LineMappingRepository) FindActiveForDeliverable(evaluateeID, deliverableID, lineID string) ([]models.EvaluationLineMapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM evaluation_line_mappings
		WHERE evaluatee_id = $1
		  AND deliverable_id = $2
		  AND evaluation_line_id = $3
		  AND deleted_at IS NULL
		ORDER BY created_at
	`

	rows, err := r.db.Query(query, evaluateeID, deliverableID, lineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMappings(rows)
}

// FindActiveForLine retrieves active mappings for (period, evaluatee, line)
// without deliverable scope.
func (r *LineMappingRepository) FindActiveForLine(periodID, evaluateeID, lineID string) ([]models.EvaluationLineMapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM evaluation_line_mappings
		WHERE evaluation_period_id = $1
		  AND evaluatee_id = $2
		  AND evaluation_line_id = $3
		  AND deliverable_id IS NULL
		  AND deleted_at IS NULL
		ORDER BY created_at
	`

	rows, err := r.db.Query(query, periodID, evaluateeID, lineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMappings(rows)
}

// CreateWithSupersede soft-deletes the superseded mappings and inserts the
// new one in a single transaction, so a superseded evaluator can never
// coexist with its replacement. supersedeIDs may be empty.
func (r *LineMappingRepository) CreateWithSupersede(m *models.EvaluationLineMapping, supersedeIDs []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("Failed to rollback mapping transaction", "error", err)
		}
	}()

	if len(supersedeIDs) > 0 {
		supersede := `
			UPDATE evaluation_line_mappings
			SET deleted_at = NOW(), updated_at = NOW(), updated_by = $2
			WHERE id = ANY($1) AND deleted_at IS NULL
		`
		if _, err := tx.Exec(supersede, pq.Array(supersedeIDs), m.CreatedBy); err != nil {
			return fmt.Errorf("failed to supersede mappings: %w", err)
		}
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	insert := `
		INSERT INTO evaluation_line_mappings (
			id, evaluation_period_id, evaluatee_id, evaluator_id, deliverable_id,
			evaluation_line_id, created_by, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(
		insert,
		m.ID,
		m.EvaluationPeriodID,
		m.EvaluateeID,
		m.EvaluatorID,
		m.DeliverableID,
		m.EvaluationLineID,
		m.CreatedBy,
		m.UpdatedBy,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateMapping
		}
		return fmt.Errorf("failed to create mapping: %w", err)
	}

	return tx.Commit()
}

// UpdateWithSupersede soft-deletes the superseded mappings and applies the
// mapping's evaluator, line, deliverable and updated_by fields to the stored
// row in a single transaction, so moving a mapping onto an occupied scope
// can never leave two active mappings there. Only active rows are updated.
// supersedeIDs may be empty.
func (r *LineMappingRepository) UpdateWithSupersede(m *models.EvaluationLineMapping, supersedeIDs []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("Failed to rollback mapping transaction", "error", err)
		}
	}()

	if len(supersedeIDs) > 0 {
		supersede := `
			UPDATE evaluation_line_mappings
			SET deleted_at = NOW(), updated_at = NOW(), updated_by = $2
			WHERE id = ANY($1) AND deleted_at IS NULL
		`
		if _, err := tx.Exec(supersede, pq.Array(supersedeIDs), m.UpdatedBy); err != nil {
			return fmt.Errorf("failed to supersede mappings: %w", err)
		}
	}

	update := `
		UPDATE evaluation_line_mappings
		SET evaluator_id = $2,
		    evaluation_line_id = $3,
		    deliverable_id = $4,
		    updated_by = $5,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`
	err = tx.QueryRow(
		update,
		m.ID,
		m.EvaluatorID,
		m.EvaluationLineID,
		m.DeliverableID,
		m.UpdatedBy,
	).Scan(&m.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("mapping %s not found", m.ID)
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateMapping
		}
		return fmt.Errorf("failed to update mapping: %w", err)
	}

	return tx.Commit()
}

// SoftDelete marks a mapping as deleted. Returns false when no active row
// matched, which callers treat as an idempotent no-op.
func (r *LineMappingRepository) SoftDelete(id, actorID string) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE evaluation_line_mappings
		SET deleted_at = NOW(), updated_at = NOW(), updated_by = $2
		WHERE id = $1 AND deleted_at IS NULL
	`, id, actorID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// SoftDeleteByEvaluatee marks all active mappings of an evaluatee in a period
// as deleted and returns how many rows it touched.
func (r *LineMappingRepository) SoftDeleteByEvaluatee(periodID, evaluateeID, actorID string) (int, error) {
	result, err := r.db.Exec(`
		UPDATE evaluation_line_mappings
		SET deleted_at = NOW(), updated_at = NOW(), updated_by = $3
		WHERE evaluation_period_id = $1 AND evaluatee_id = $2 AND deleted_at IS NULL
	`, periodID, evaluateeID, actorID)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	return int(affected), err
}

// SoftDeleteByDeliverable marks all active mappings scoped to a deliverable
// as deleted and returns how many rows it touched.
func (r *LineMappingRepository) SoftDeleteByDeliverable(deliverableID, actorID string) (int, error) {
	result, err := r.db.Exec(`
		UPDATE evaluation_line_mappings
		SET deleted_at = NOW(), updated_at = NOW(), updated_by = $2
		WHERE deliverable_id = $1 AND deleted_at IS NULL
	`, deliverableID, actorID)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	return int(affected), err
}

// ListActiveByEvaluatee retrieves active mappings for an evaluatee in a
// period, with line role and sequence joined in.
func (r *LineMappingRepository) ListActiveByEvaluatee(periodID, evaluateeID string) ([]models.MappingWithLine, error) {
	query := `
		SELECT m.id, m.evaluation_period_id, m.evaluatee_id, m.evaluator_id, m.deliverable_id,
		       m.evaluation_line_id, m.created_by, m.updated_by, m.created_at, m.updated_at, m.deleted_at,
		       l.role, l.sequence
		FROM evaluation_line_mappings m
		JOIN evaluation_lines l ON l.id = m.evaluation_line_id
		WHERE m.evaluation_period_id = $1 AND m.evaluatee_id = $2 AND m.deleted_at IS NULL
		ORDER BY l.role, l.sequence, m.created_at
	`

	rows, err := r.db.Query(query, periodID, evaluateeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMappingsWithLine(rows)
}

// ListActiveByDeliverable retrieves active mappings scoped to a deliverable,
// with line role and sequence joined in.
func (r *LineMappingRepository) ListActiveByDeliverable(deliverableID string) ([]models.MappingWithLine, error) {
	query := `
		SELECT m.id, m.evaluation_period_id, m.evaluatee_id, m.evaluator_id, m.deliverable_id,
		       m.evaluation_line_id, m.created_by, m.updated_by, m.created_at, m.updated_at, m.deleted_at,
		       l.role, l.sequence
		FROM evaluation_line_mappings m
		JOIN evaluation_lines l ON l.id = m.evaluation_line_id
		WHERE m.deliverable_id = $1 AND m.deleted_at IS NULL
		ORDER BY m.evaluatee_id, l.sequence, m.created_at
	`

	rows, err := r.db.Query(query, deliverableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMappingsWithLine(rows)
}

func collectMappings(rows *sql.Rows) ([]models.EvaluationLineMapping, error) {
	mappings := []models.EvaluationLineMapping{}
	for rows.Next() {
		var m models.EvaluationLineMapping
		if err := scanMapping(rows, &m); err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

func collectMappingsWithLine(rows *sql.Rows) ([]models.MappingWithLine, error) {
	mappings := []models.MappingWithLine{}
	for rows.Next() {
		var m models.MappingWithLine
		if err := rows.Scan(
			&m.ID,
			&m.EvaluationPeriodID,
			&m.EvaluateeID,
			&m.EvaluatorID,
			&m.DeliverableID,
			&m.EvaluationLineID,
			&m.CreatedBy,
			&m.UpdatedBy,
			&m.CreatedAt,
			&m.UpdatedAt,
			&m.DeletedAt,
			&m.Role,
			&m.Sequence,
		); err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}
