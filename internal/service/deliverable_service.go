package service

import (
	"fmt"
	"log/slog"

	"eval-admin/internal/models"
	"eval-admin/internal/repository"
)

// DeliverableService handles deliverables and their employee assignments.
// Assigning an employee to a deliverable seeds a default secondary
// evaluation line for them via the assignment workflow; unassigning resets
// the mappings scoped to that deliverable.
type DeliverableService struct {
	deliverableRepo *repository.DeliverableRepository
	periodRepo      *repository.EvaluationPeriodRepository
	assignments     *AssignmentService
	resolver        *HierarchyResolver
	mappings        MappingStore
}

// NewDeliverableService creates a new deliverable service
func NewDeliverableService(
	deliverableRepo *repository.DeliverableRepository,
	periodRepo *repository.EvaluationPeriodRepository,
	assignments *AssignmentService,
	resolver *HierarchyResolver,
	mappings MappingStore,
) *DeliverableService {
	return &DeliverableService{
		deliverableRepo: deliverableRepo,
		periodRepo:      periodRepo,
		assignments:     assignments,
		resolver:        resolver,
		mappings:        mappings,
	}
}

// Create creates a deliverable within a period
func (s *DeliverableService) Create(d *models.Deliverable) error {
	if d.Name == "" {
		return fmt.Errorf("%w: deliverable name", ErrRequiredDataMissing)
	}
	if d.Code == "" {
		return fmt.Errorf("%w: deliverable code", ErrRequiredDataMissing)
	}
	if err := validateUUID(d.EvaluationPeriodID); err != nil {
		return err
	}

	period, err := s.periodRepo.GetByID(d.EvaluationPeriodID)
	if err != nil {
		return err
	}
	if period == nil {
		return fmt.Errorf("%w: evaluation period %s", ErrNotFound, d.EvaluationPeriodID)
	}
	if period.Phase == models.PhaseClosed {
		return fmt.Errorf("%w: cannot add deliverables to a closed period", ErrBusinessRule)
	}

	return s.deliverableRepo.Create(d)
}

// Get retrieves a deliverable by id
func (s *DeliverableService) Get(id string) (*models.Deliverable, error) {
	if err := validateUUID(id); err != nil {
		return nil, err
	}

	deliverable, err := s.deliverableRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if deliverable == nil {
		return nil, fmt.Errorf("%w: deliverable %s", ErrNotFound, id)
	}
	return deliverable, nil
}

// ListByPeriod retrieves the deliverables of a period
func (s *DeliverableService) ListByPeriod(periodID string) ([]models.Deliverable, error) {
	if err := validateUUID(periodID); err != nil {
		return nil, err
	}
	return s.deliverableRepo.ListByPeriod(periodID)
}

// Update applies name and code changes
func (s *DeliverableService) Update(id, name, code string) (*models.Deliverable, error) {
	deliverable, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: deliverable name", ErrRequiredDataMissing)
	}
	if code == "" {
		return nil, fmt.Errorf("%w: deliverable code", ErrRequiredDataMissing)
	}

	deliverable.Name = name
	deliverable.Code = code
	if err := s.deliverableRepo.Update(deliverable); err != nil {
		return nil, err
	}
	return deliverable, nil
}

// AssignEmployee assigns an employee to a deliverable and seeds a default
// secondary evaluation line scoped to it, using the employee's resolved
// primary evaluator as the default secondary evaluator. Seeding is
// best-effort: the assignment succeeds even when no default line can be
// created.
func (s *DeliverableService) AssignEmployee(deliverableID, employeeID, actorID string) (*models.DeliverableAssignment, error) {
	if err := validateUUID(employeeID); err != nil {
		return nil, err
	}

	deliverable, err := s.Get(deliverableID)
	if err != nil {
		return nil, err
	}

	assignment := &models.DeliverableAssignment{
		DeliverableID: deliverableID,
		EmployeeID:    employeeID,
		AssignedBy:    actorID,
	}
	if err := s.deliverableRepo.AssignEmployee(assignment); err != nil {
		return nil, err
	}

	s.seedDefaultLine(deliverable, employeeID, actorID)

	return assignment, nil
}

func (s *DeliverableService) seedDefaultLine(deliverable *models.Deliverable, employeeID, actorID string) {
	evaluatorID, err := s.resolver.ResolvePrimaryEvaluator(employeeID)
	if err != nil || evaluatorID == "" {
		slog.Info("No default secondary line seeded for deliverable assignment",
			"deliverable_id", deliverable.ID,
			"employee_id", employeeID,
			"error", err,
		)
		return
	}

	_, _, err = s.assignments.Configure(ConfigureLineInput{
		EvaluationPeriodID: deliverable.EvaluationPeriodID,
		EvaluateeID:        employeeID,
		EvaluatorID:        evaluatorID,
		Role:               models.RoleSecondary,
		Sequence:           1,
		DeliverableID:      &deliverable.ID,
	}, actorID)
	if err != nil {
		slog.Warn("Failed to seed default secondary line",
			"deliverable_id", deliverable.ID,
			"employee_id", employeeID,
			"error", err,
		)
	}
}

// UnassignEmployee removes an employee from a deliverable and soft-deletes
// their line mappings scoped to it. Unassigning an employee who is not
// assigned is a no-op.
func (s *DeliverableService) UnassignEmployee(deliverableID, employeeID, actorID string) (bool, error) {
	if err := validateUUID(deliverableID); err != nil {
		return false, err
	}
	if err := validateUUID(employeeID); err != nil {
		return false, err
	}

	removed, err := s.deliverableRepo.UnassignEmployee(deliverableID, employeeID)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}

	mappings, err := s.mappings.ListActiveByDeliverable(deliverableID)
	if err != nil {
		return true, fmt.Errorf("failed to list mappings for deliverable: %w", err)
	}
	for _, m := range mappings {
		if m.EvaluateeID != employeeID {
			continue
		}
		if _, err := s.mappings.SoftDelete(m.ID, actorID); err != nil {
			return true, fmt.Errorf("failed to remove mapping %s: %w", m.ID, err)
		}
	}

	return true, nil
}

// ListAssignedEmployees retrieves the employees assigned to a deliverable
func (s *DeliverableService) ListAssignedEmployees(deliverableID string) ([]models.Employee, error) {
	if err := validateUUID(deliverableID); err != nil {
		return nil, err
	}
	return s.deliverableRepo.ListAssignedEmployees(deliverableID)
}

// ResetMappings soft-deletes every active mapping scoped to a deliverable
// and returns how many were removed.
func (s *DeliverableService) ResetMappings(deliverableID, actorID string) (int, error) {
	if _, err := s.Get(deliverableID); err != nil {
		return 0, err
	}

	count, err := s.mappings.SoftDeleteByDeliverable(deliverableID, actorID)
	if err != nil {
		return 0, err
	}

	slog.Info("Reset deliverable line mappings", "deliverable_id", deliverableID, "count", count)
	return count, nil
}

// ListMappings retrieves the active mappings scoped to a deliverable
func (s *DeliverableService) ListMappings(deliverableID string) ([]models.MappingWithLine, error) {
	if err := validateUUID(deliverableID); err != nil {
		return nil, err
	}
	return s.mappings.ListActiveByDeliverable(deliverableID)
}
