package service

import (
	"fmt"
	"strings"

	"eval-admin/internal/auth"
	"eval-admin/internal/models"
	"eval-admin/internal/repository"
)

// OrganizationService handles the department and employee directory
type OrganizationService struct {
	employeeRepo   *repository.EmployeeRepository
	departmentRepo *repository.DepartmentRepository
	authSvc        *auth.Service
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(
	employeeRepo *repository.EmployeeRepository,
	departmentRepo *repository.DepartmentRepository,
	authSvc *auth.Service,
) *OrganizationService {
	return &OrganizationService{
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
		authSvc:        authSvc,
	}
}

// CreateDepartment creates a department, optionally under a parent
func (s *OrganizationService) CreateDepartment(d *models.Department) error {
	if d.Name == "" {
		return fmt.Errorf("%w: department name", ErrRequiredDataMissing)
	}
	if d.ParentDepartmentID != nil {
		parent, err := s.departmentRepo.GetByID(*d.ParentDepartmentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return fmt.Errorf("%w: parent department %s", ErrNotFound, *d.ParentDepartmentID)
		}
	}

	return s.departmentRepo.Create(d)
}

// GetDepartment retrieves a department by id
func (s *OrganizationService) GetDepartment(id string) (*models.Department, error) {
	if err := validateUUID(id); err != nil {
		return nil, err
	}

	department, err := s.departmentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if department == nil {
		return nil, fmt.Errorf("%w: department %s", ErrNotFound, id)
	}
	return department, nil
}

// ListDepartments retrieves all departments
func (s *OrganizationService) ListDepartments() ([]models.Department, error) {
	return s.departmentRepo.List()
}

// UpdateDepartment applies name, parent and manager changes. A department
// cannot be its own parent.
func (s *OrganizationService) UpdateDepartment(d *models.Department) error {
	existing, err := s.GetDepartment(d.ID)
	if err != nil {
		return err
	}
	if d.Name == "" {
		return fmt.Errorf("%w: department name", ErrRequiredDataMissing)
	}
	if d.ParentDepartmentID != nil && *d.ParentDepartmentID == d.ID {
		return fmt.Errorf("%w: a department cannot be its own parent", ErrBusinessRule)
	}

	existing.Name = d.Name
	existing.ParentDepartmentID = d.ParentDepartmentID
	existing.ManagerID = d.ManagerID
	if err := s.departmentRepo.Update(existing); err != nil {
		return err
	}

	*d = *existing
	return nil
}

// CreateEmployee creates an employee with a hashed password
func (s *OrganizationService) CreateEmployee(e *models.Employee, password string) error {
	if e.Email == "" {
		return fmt.Errorf("%w: email", ErrRequiredDataMissing)
	}
	if e.Name == "" {
		return fmt.Errorf("%w: employee name", ErrRequiredDataMissing)
	}
	if !strings.Contains(e.Email, "@") {
		return fmt.Errorf("%w: %q is not a valid email address", ErrInvalidDataFormat, e.Email)
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidDataFormat)
	}

	existing, err := s.employeeRepo.GetByEmail(e.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: an employee with email %s already exists", ErrBusinessRule, e.Email)
	}

	hash, err := s.authSvc.HashPassword(password)
	if err != nil {
		return err
	}
	e.PasswordHash = hash

	return s.employeeRepo.Create(e)
}

// GetEmployee retrieves an employee by id
func (s *OrganizationService) GetEmployee(id string) (*models.Employee, error) {
	if err := validateUUID(id); err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, fmt.Errorf("%w: employee %s", ErrNotFound, id)
	}
	return employee, nil
}

// ListEmployees retrieves all employees
func (s *OrganizationService) ListEmployees() ([]models.Employee, error) {
	return s.employeeRepo.List()
}

// UpdateEmployee applies name, department, manager and status changes. An
// employee cannot be their own manager.
func (s *OrganizationService) UpdateEmployee(e *models.Employee) error {
	existing, err := s.GetEmployee(e.ID)
	if err != nil {
		return err
	}
	if e.Name == "" {
		return fmt.Errorf("%w: employee name", ErrRequiredDataMissing)
	}
	if e.ManagerID != nil && *e.ManagerID == e.ID {
		return fmt.Errorf("%w: an employee cannot be their own manager", ErrBusinessRule)
	}
	if e.Status != models.EmployeeActive && e.Status != models.EmployeeInactive {
		return fmt.Errorf("%w: unknown employee status %q", ErrInvalidDataFormat, e.Status)
	}

	existing.Name = e.Name
	existing.DepartmentID = e.DepartmentID
	existing.ManagerID = e.ManagerID
	existing.Status = e.Status
	if err := s.employeeRepo.Update(existing); err != nil {
		return err
	}

	*e = *existing
	return nil
}
