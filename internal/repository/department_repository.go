package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"eval-admin/internal/models"
)

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db *sql.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *sql.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Create inserts a new department
func (r *DepartmentRepository) Create(d *models.Department) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	query := `
		INSERT INTO departments (id, name, parent_department_id, manager_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(query, d.ID, d.Name, d.ParentDepartmentID, d.ManagerID).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}

	return nil
}

// GetByID retrieves a department by id, or nil
func (r *DepartmentRepository) GetByID(id string) (*models.Department, error) {
	var d models.Department
	query := `
		SELECT id, name, parent_department_id, manager_id, created_at, updated_at
		FROM departments
		WHERE id = $1
	`

	err := r.db.QueryRow(query, id).Scan(
		&d.ID,
		&d.Name,
		&d.ParentDepartmentID,
		&d.ManagerID,
		&d.CreatedAt,
		&d.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// List retrieves all departments ordered by name
func (r *DepartmentRepository) List() ([]models.Department, error) {
	query := `
		SELECT id, name, parent_department_id, manager_id, created_at, updated_at
		FROM departments
		ORDER BY name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := []models.Department{}
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.ParentDepartmentID,
			&d.ManagerID,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}

	return departments, rows.Err()
}

// Update applies name, parent and manager changes
func (r *DepartmentRepository) Update(d *models.Department) error {
	query := `
		UPDATE departments
		SET name = $2, parent_department_id = $3, manager_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(query, d.ID, d.Name, d.ParentDepartmentID, d.ManagerID).Scan(&d.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("department %s not found", d.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}

	return nil
}
