package service

import (
	"fmt"

	"eval-admin/internal/models"
)

// HierarchyResolver determines the default primary evaluator for an employee
// from the org structure: the employee's direct manager if they have one,
// otherwise the manager of the nearest ancestor department that has one.
type HierarchyResolver struct {
	employees   EmployeeDirectory
	departments DepartmentDirectory
}

// NewHierarchyResolver creates a new hierarchy resolver
func NewHierarchyResolver(employees EmployeeDirectory, departments DepartmentDirectory) *HierarchyResolver {
	return &HierarchyResolver{employees: employees, departments: departments}
}

// ResolvePrimaryEvaluator returns the employee id of the resolved evaluator,
// or "" when the hierarchy yields nobody (no manager anywhere up the chain,
// or the only candidate is the employee themselves). The department walk
// keeps a visited set so a cyclic parent chain terminates.
func (h *HierarchyResolver) ResolvePrimaryEvaluator(employeeID string) (string, error) {
	employee, err := h.employees.GetByID(employeeID)
	if err != nil {
		return "", fmt.Errorf("failed to load employee %s: %w", employeeID, err)
	}
	if employee == nil {
		return "", fmt.Errorf("%w: employee %s", ErrNotFound, employeeID)
	}

	if employee.ManagerID != nil && *employee.ManagerID != employee.ID {
		evaluator, err := h.activeEmployee(*employee.ManagerID)
		if err != nil {
			return "", err
		}
		if evaluator != "" {
			return evaluator, nil
		}
	}

	if employee.DepartmentID == nil {
		return "", nil
	}

	visited := map[string]bool{}
	departmentID := *employee.DepartmentID
	for departmentID != "" && !visited[departmentID] {
		visited[departmentID] = true

		department, err := h.departments.GetByID(departmentID)
		if err != nil {
			return "", fmt.Errorf("failed to load department %s: %w", departmentID, err)
		}
		if department == nil {
			return "", nil
		}

		if department.ManagerID != nil && *department.ManagerID != employee.ID {
			evaluator, err := h.activeEmployee(*department.ManagerID)
			if err != nil {
				return "", err
			}
			if evaluator != "" {
				return evaluator, nil
			}
		}

		if department.ParentDepartmentID == nil {
			return "", nil
		}
		departmentID = *department.ParentDepartmentID
	}

	return "", nil
}

// activeEmployee returns the candidate id when the employee exists and is
// active, "" otherwise. A manager reference pointing at a missing or
// inactive employee is skipped, not treated as an error.
func (h *HierarchyResolver) activeEmployee(id string) (string, error) {
	candidate, err := h.employees.GetByID(id)
	if err != nil {
		return "", fmt.Errorf("failed to load employee %s: %w", id, err)
	}
	if candidate == nil || candidate.Status != models.EmployeeActive {
		return "", nil
	}
	return candidate.ID, nil
}
