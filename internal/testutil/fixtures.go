package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"eval-admin/internal/models"
)

// Fixtures holds a small org tree for integration tests: a root department
// with a child department, a manager for each, two regular employees in the
// child department, an open evaluation period and one deliverable.
type Fixtures struct {
	DB *sql.DB

	RootDepartment  *models.Department
	ChildDepartment *models.Department
	RootManager     *models.Employee
	ChildManager    *models.Employee
	EmployeeOne     *models.Employee
	EmployeeTwo     *models.Employee
	Period          *models.EvaluationPeriod
	Deliverable     *models.Deliverable
}

// SetupFixtures creates the test data
func SetupFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()

	f := &Fixtures{DB: db}

	f.RootDepartment = createDepartment(t, db, "Engineering", nil)
	f.ChildDepartment = createDepartment(t, db, "Platform", &f.RootDepartment.ID)

	f.RootManager = createEmployee(t, db, "root.manager@test.com", "Root Manager", &f.RootDepartment.ID, nil)
	f.ChildManager = createEmployee(t, db, "child.manager@test.com", "Child Manager", &f.ChildDepartment.ID, &f.RootManager.ID)
	f.EmployeeOne = createEmployee(t, db, "employee.one@test.com", "Employee One", &f.ChildDepartment.ID, &f.ChildManager.ID)
	f.EmployeeTwo = createEmployee(t, db, "employee.two@test.com", "Employee Two", &f.ChildDepartment.ID, nil)

	setDepartmentManager(t, db, f.RootDepartment.ID, f.RootManager.ID)
	setDepartmentManager(t, db, f.ChildDepartment.ID, f.ChildManager.ID)

	f.Period = createOpenPeriod(t, db, "FY2026 H1", f.RootManager.ID)
	f.Deliverable = createDeliverable(t, db, f.Period.ID, "Payments Platform", "WBS-100")

	return f
}

func createDepartment(t *testing.T, db *sql.DB, name string, parentID *string) *models.Department {
	t.Helper()

	d := &models.Department{
		ID:                 uuid.NewString(),
		Name:               name,
		ParentDepartmentID: parentID,
	}
	err := db.QueryRow(
		"INSERT INTO departments (id, name, parent_department_id) VALUES ($1, $2, $3) RETURNING created_at, updated_at",
		d.ID, d.Name, d.ParentDepartmentID,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create department %s: %v", name, err)
	}

	return d
}

func setDepartmentManager(t *testing.T, db *sql.DB, departmentID, managerID string) {
	t.Helper()

	if _, err := db.Exec("UPDATE departments SET manager_id = $2 WHERE id = $1", departmentID, managerID); err != nil {
		t.Fatalf("Failed to set department manager: %v", err)
	}
}

func createEmployee(t *testing.T, db *sql.DB, email, name string, departmentID, managerID *string) *models.Employee {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("testpassword123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	e := &models.Employee{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		DepartmentID: departmentID,
		ManagerID:    managerID,
		Status:       models.EmployeeActive,
	}
	err = db.QueryRow(
		`INSERT INTO employees (id, email, password_hash, name, department_id, manager_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`,
		e.ID, e.Email, e.PasswordHash, e.Name, e.DepartmentID, e.ManagerID, e.Status,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create employee %s: %v", email, err)
	}

	return e
}

func createOpenPeriod(t *testing.T, db *sql.DB, name, createdBy string) *models.EvaluationPeriod {
	t.Helper()

	p := &models.EvaluationPeriod{
		ID:        uuid.NewString(),
		Name:      name,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		Phase:     models.PhaseOpen,
		CreatedBy: createdBy,
	}
	err := db.QueryRow(
		`INSERT INTO evaluation_periods (id, name, start_date, end_date, phase, created_by, opened_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING created_at, updated_at`,
		p.ID, p.Name, p.StartDate, p.EndDate, p.Phase, p.CreatedBy,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create evaluation period %s: %v", name, err)
	}

	return p
}

func createDeliverable(t *testing.T, db *sql.DB, periodID, name, code string) *models.Deliverable {
	t.Helper()

	d := &models.Deliverable{
		ID:                 uuid.NewString(),
		EvaluationPeriodID: periodID,
		Name:               name,
		Code:               code,
	}
	err := db.QueryRow(
		"INSERT INTO deliverables (id, evaluation_period_id, name, code) VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at",
		d.ID, d.EvaluationPeriodID, d.Name, d.Code,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create deliverable %s: %v", code, err)
	}

	return d
}
