package service

import (
	"eval-admin/internal/models"
)

// LineStore is the slice of the evaluation line repository the services use.
type LineStore interface {
	GetOrCreate(role models.LineRole, sequence int) (*models.EvaluationLine, bool, error)
	GetByID(id string) (*models.EvaluationLine, error)
	List() ([]models.EvaluationLine, error)
}

// MappingStore is the slice of the line mapping repository the services use.
type MappingStore interface {
	GetByID(id string) (*models.EvaluationLineMapping, error)
	FindActive(periodID, evaluateeID, evaluatorID, lineID string, deliverableID *string) (*models.EvaluationLineMapping, error)
	FindActiveByRole(periodID, evaluateeID string, role models.LineRole) ([]models.EvaluationLineMapping, error)
	FindActiveForDeliverable(evaluateeID, deliverableID, lineID string) ([]models.EvaluationLineMapping, error)
	FindActiveForLine(periodID, evaluateeID, lineID string) ([]models.EvaluationLineMapping, error)
	CreateWithSupersede(m *models.EvaluationLineMapping, supersedeIDs []string) error
	UpdateWithSupersede(m *models.EvaluationLineMapping, supersedeIDs []string) error
	SoftDelete(id, actorID string) (bool, error)
	SoftDeleteByEvaluatee(periodID, evaluateeID, actorID string) (int, error)
	SoftDeleteByDeliverable(deliverableID, actorID string) (int, error)
	ListActiveByEvaluatee(periodID, evaluateeID string) ([]models.MappingWithLine, error)
	ListActiveByDeliverable(deliverableID string) ([]models.MappingWithLine, error)
}

// EmployeeDirectory is the read-side of the employee repository the
// hierarchy resolver and assignment services need.
type EmployeeDirectory interface {
	GetByID(id string) (*models.Employee, error)
	ListActive() ([]models.Employee, error)
}

// DepartmentDirectory is the read-side of the department repository the
// hierarchy resolver needs.
type DepartmentDirectory interface {
	GetByID(id string) (*models.Department, error)
}
