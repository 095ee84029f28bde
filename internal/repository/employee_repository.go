package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"eval-admin/internal/models"
)

const employeeColumns = `id, email, password_hash, name, department_id, manager_id, status, created_at, updated_at`

// EmployeeRepository handles database operations for the employee directory
type EmployeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *sql.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func scanEmployee(row interface{ Scan(...any) error }, e *models.Employee) error {
	return row.Scan(
		&e.ID,
		&e.Email,
		&e.PasswordHash,
		&e.Name,
		&e.DepartmentID,
		&e.ManagerID,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
}

// Create inserts a new employee
func (r *EmployeeRepository) Create(e *models.Employee) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = models.EmployeeActive
	}

	query := `
		INSERT INTO employees (id, email, password_hash, name, department_id, manager_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		e.ID,
		e.Email,
		e.PasswordHash,
		e.Name,
		e.DepartmentID,
		e.ManagerID,
		e.Status,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	return nil
}

// GetByID retrieves an employee by id, or nil
func (r *EmployeeRepository) GetByID(id string) (*models.Employee, error) {
	var e models.Employee
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	err := scanEmployee(r.db.QueryRow(query, id), &e)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// GetByEmail retrieves an employee by email, or nil
func (r *EmployeeRepository) GetByEmail(email string) (*models.Employee, error) {
	var e models.Employee
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1`

	err := scanEmployee(r.db.QueryRow(query, email), &e)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// List retrieves all employees ordered by name
func (r *EmployeeRepository) List() ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// ListActive retrieves all employees with ACTIVE status, ordered by name.
// This is the population the hierarchy auto-assignment enumerates.
func (r *EmployeeRepository) ListActive() ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE status = $1 ORDER BY name`

	rows, err := r.db.Query(query, models.EmployeeActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// Update applies name, department, manager and status changes
func (r *EmployeeRepository) Update(e *models.Employee) error {
	query := `
		UPDATE employees
		SET name = $2, department_id = $3, manager_id = $4, status = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(query, e.ID, e.Name, e.DepartmentID, e.ManagerID, e.Status).Scan(&e.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("employee %s not found", e.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}

	return nil
}

func collectEmployees(rows *sql.Rows) ([]models.Employee, error) {
	employees := []models.Employee{}
	for rows.Next() {
		var e models.Employee
		if err := scanEmployee(rows, &e); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
