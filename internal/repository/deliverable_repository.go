package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"eval-admin/internal/models"
)

// DeliverableRepository handles database operations for deliverables and their
// employee assignments
type DeliverableRepository struct {
	db *sql.DB
}

// NewDeliverableRepository creates a new deliverable repository
func NewDeliverableRepository(db *sql.DB) *DeliverableRepository {
	return &DeliverableRepository{db: db}
}

const deliverableColumns = `id, evaluation_period_id, name, code, created_at, updated_at`

func scanDeliverable(row interface{ Scan(...any) error }, d *models.Deliverable) error {
	return row.Scan(
		&d.ID,
		&d.EvaluationPeriodID,
		&d.Name,
		&d.Code,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
}

// Create inserts a new deliverable
func (r *DeliverableRepository) Create(d *models.Deliverable) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	query := `
		INSERT INTO deliverables (id, evaluation_period_id, name, code)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		d.ID,
		d.EvaluationPeriodID,
		d.Name,
		d.Code,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deliverable: %w", err)
	}

	return nil
}

// GetByID retrieves a deliverable by id, or nil
func (r *DeliverableRepository) GetByID(id string) (*models.Deliverable, error) {
	var d models.Deliverable
	query := `SELECT ` + deliverableColumns + ` FROM deliverables WHERE id = $1`

	err := scanDeliverable(r.db.QueryRow(query, id), &d)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// ListByPeriod retrieves all deliverables for a period, ordered by code
func (r *DeliverableRepository) ListByPeriod(periodID string) ([]models.Deliverable, error) {
	query := `SELECT ` + deliverableColumns + ` FROM deliverables WHERE evaluation_period_id = $1 ORDER BY code`

	rows, err := r.db.Query(query, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deliverables := []models.Deliverable{}
	for rows.Next() {
		var d models.Deliverable
		if err := scanDeliverable(rows, &d); err != nil {
			return nil, err
		}
		deliverables = append(deliverables, d)
	}

	return deliverables, rows.Err()
}

// Update applies name and code changes
func (r *DeliverableRepository) Update(d *models.Deliverable) error {
	query := `
		UPDATE deliverables
		SET name = $2, code = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(query, d.ID, d.Name, d.Code).Scan(&d.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("deliverable %s not found", d.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update deliverable: %w", err)
	}

	return nil
}

// AssignEmployee records that an employee works on a deliverable. If an active
// assignment already exists it is returned unchanged; a soft-deleted one is
// not revived, a fresh row is inserted instead.
func (r *DeliverableRepository) AssignEmployee(a *models.DeliverableAssignment) error {
	existing, err := r.GetActiveAssignment(a.DeliverableID, a.EmployeeID)
	if err != nil {
		return err
	}
	if existing != nil {
		*a = *existing
		return nil
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	query := `
		INSERT INTO deliverable_assignments (id, deliverable_id, employee_id, assigned_by)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err = r.db.QueryRow(query, a.ID, a.DeliverableID, a.EmployeeID, a.AssignedBy).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to assign employee to deliverable: %w", err)
	}

	return nil
}

// GetActiveAssignment retrieves the active assignment of an employee to a
// deliverable, or nil
func (r *DeliverableRepository) GetActiveAssignment(deliverableID, employeeID string) (*models.DeliverableAssignment, error) {
	var a models.DeliverableAssignment
	query := `
		SELECT id, deliverable_id, employee_id, assigned_by, created_at, deleted_at
		FROM deliverable_assignments
		WHERE deliverable_id = $1 AND employee_id = $2 AND deleted_at IS NULL
	`

	err := r.db.QueryRow(query, deliverableID, employeeID).Scan(
		&a.ID,
		&a.DeliverableID,
		&a.EmployeeID,
		&a.AssignedBy,
		&a.CreatedAt,
		&a.DeletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// UnassignEmployee soft-deletes an employee's assignment to a deliverable.
// Returns true when an active assignment was removed.
func (r *DeliverableRepository) UnassignEmployee(deliverableID, employeeID string) (bool, error) {
	query := `
		UPDATE deliverable_assignments
		SET deleted_at = NOW()
		WHERE deliverable_id = $1 AND employee_id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, deliverableID, employeeID)
	if err != nil {
		return false, fmt.Errorf("failed to unassign employee from deliverable: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// ListAssignedEmployees retrieves the employees actively assigned to a deliverable
func (r *DeliverableRepository) ListAssignedEmployees(deliverableID string) ([]models.Employee, error) {
	query := `
		SELECT e.id, e.email, e.password_hash, e.name, e.department_id, e.manager_id, e.status, e.created_at, e.updated_at
		FROM employees e
		JOIN deliverable_assignments da ON da.employee_id = e.id
		WHERE da.deliverable_id = $1 AND da.deleted_at IS NULL
		ORDER BY e.name
	`

	rows, err := r.db.Query(query, deliverableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// IsEmployeeAssigned reports whether an employee is actively assigned to a deliverable
func (r *DeliverableRepository) IsEmployeeAssigned(deliverableID, employeeID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM deliverable_assignments
			WHERE deliverable_id = $1 AND employee_id = $2 AND deleted_at IS NULL
		)
	`

	if err := r.db.QueryRow(query, deliverableID, employeeID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}
