package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"eval-admin/internal/models"
	"eval-admin/internal/repository"
)

// ConfigureLineInput is a request to put one evaluator on one evaluation
// line for an evaluatee. Sequence defaults to 1; DeliverableID scopes the
// line to a single deliverable and is only valid for secondary lines.
type ConfigureLineInput struct {
	EvaluationPeriodID string          `json:"evaluation_period_id"`
	EvaluateeID        string          `json:"evaluatee_id"`
	EvaluatorID        string          `json:"evaluator_id"`
	Role               models.LineRole `json:"role"`
	Sequence           int             `json:"sequence,omitempty"`
	DeliverableID      *string         `json:"deliverable_id,omitempty"`
}

// OptionalID is a nullable identifier field that remembers whether it was
// present in the request body, so a patch can distinguish "leave unchanged"
// (absent) from "clear the value" (explicit null).
type OptionalID struct {
	Set   bool
	Value *string
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

// UpdateLineInput changes the evaluator and/or deliverable scope of an
// existing mapping. Fields absent from the patch keep their stored values;
// an explicit null deliverable widens the mapping to the whole evaluatee.
// The line itself is immutable; moving an evaluatee to a different line is a
// delete plus configure.
type UpdateLineInput struct {
	EvaluatorID   string     `json:"evaluator_id,omitempty"`
	DeliverableID OptionalID `json:"deliverable_id,omitempty"`
}

// AssignmentService implements the evaluation line assignment workflow:
// resolve the line, validate the relation, supersede whatever the new
// mapping replaces, and insert.
type AssignmentService struct {
	lines     LineStore
	mappings  MappingStore
	employees EmployeeDirectory
	validator *AssignmentValidator
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(lines LineStore, mappings MappingStore, employees EmployeeDirectory, validator *AssignmentValidator) *AssignmentService {
	return &AssignmentService{
		lines:     lines,
		mappings:  mappings,
		employees: employees,
		validator: validator,
	}
}

// Configure assigns an evaluator to an evaluatee on the line identified by
// (role, sequence), creating the line on first use. An existing active
// mapping on the same scope is superseded, not duplicated. Returns the new
// mapping and whether the line was created by this call.
func (s *AssignmentService) Configure(input ConfigureLineInput, actorID string) (*models.EvaluationLineMapping, bool, error) {
	if input.Sequence == 0 {
		input.Sequence = 1
	}

	err := s.validator.ValidateFields(
		input.EvaluationPeriodID,
		input.EvaluateeID,
		input.EvaluatorID,
		input.Role,
		input.Sequence,
		input.DeliverableID,
	)
	if err != nil {
		return nil, false, err
	}

	if err := s.requireEmployee(input.EvaluateeID, "evaluatee"); err != nil {
		return nil, false, err
	}
	if err := s.requireEmployee(input.EvaluatorID, "evaluator"); err != nil {
		return nil, false, err
	}

	line, created, err := s.lines.GetOrCreate(input.Role, input.Sequence)
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve evaluation line: %w", err)
	}
	if created {
		slog.Info("Created evaluation line", "role", line.Role, "sequence", line.Sequence, "line_id", line.ID)
	}

	err = s.validator.ValidateCreate(
		input.EvaluationPeriodID,
		input.EvaluateeID,
		input.EvaluatorID,
		line.ID,
		input.Role,
		input.DeliverableID,
	)
	if err != nil {
		return nil, created, err
	}

	supersedeIDs, err := s.supersessionCandidates(input.EvaluationPeriodID, input.EvaluateeID, input.Role, input.DeliverableID, line.ID, "")
	if err != nil {
		return nil, created, err
	}

	mapping := &models.EvaluationLineMapping{
		EvaluationPeriodID: input.EvaluationPeriodID,
		EvaluateeID:        input.EvaluateeID,
		EvaluatorID:        input.EvaluatorID,
		DeliverableID:      input.DeliverableID,
		EvaluationLineID:   line.ID,
		CreatedBy:          actorID,
		UpdatedBy:          actorID,
	}

	if err := s.mappings.CreateWithSupersede(mapping, supersedeIDs); err != nil {
		if errors.Is(err, repository.ErrDuplicateMapping) {
			return nil, created, ErrDuplicateRelationship
		}
		return nil, created, err
	}

	if len(supersedeIDs) > 0 {
		slog.Info("Superseded line mappings",
			"count", len(supersedeIDs),
			"evaluatee_id", input.EvaluateeID,
			"line_id", line.ID,
		)
	}

	return mapping, created, nil
}

// supersessionCandidates collects the active mappings a write to the given
// scope replaces. A primary line replaces every active primary mapping of
// the evaluatee in the period; a secondary line replaces the active mapping
// on the same (evaluatee, line, deliverable) scope. excludeID keeps an
// updated mapping from superseding itself.
func (s *AssignmentService) supersessionCandidates(periodID, evaluateeID string, role models.LineRole, deliverableID *string, lineID, excludeID string) ([]string, error) {
	var existing []models.EvaluationLineMapping
	var err error

	switch {
	case role == models.RolePrimary:
		existing, err = s.mappings.FindActiveByRole(periodID, evaluateeID, models.RolePrimary)
	case deliverableID != nil:
		existing, err = s.mappings.FindActiveForDeliverable(evaluateeID, *deliverableID, lineID)
	default:
		existing, err = s.mappings.FindActiveForLine(periodID, evaluateeID, lineID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find mappings to supersede: %w", err)
	}

	ids := make([]string, 0, len(existing))
	for _, m := range existing {
		if m.ID != excludeID {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

// Update changes the evaluator or deliverable scope of an active mapping.
// Omitted fields keep their stored values. Moving the mapping onto a scope
// that already holds an active mapping supersedes the displaced one, the
// same way Configure does.
func (s *AssignmentService) Update(mappingID string, input UpdateLineInput, actorID string) (*models.EvaluationLineMapping, error) {
	if err := validateUUID(mappingID); err != nil {
		return nil, err
	}
	if input.EvaluatorID == "" && !input.DeliverableID.Set {
		return nil, fmt.Errorf("%w: update payload is empty", ErrRequiredDataMissing)
	}
	if input.EvaluatorID != "" {
		if err := validateUUID(input.EvaluatorID); err != nil {
			return nil, err
		}
	}
	if input.DeliverableID.Set && input.DeliverableID.Value != nil {
		if err := validateUUID(*input.DeliverableID.Value); err != nil {
			return nil, err
		}
	}

	mapping, err := s.mappings.GetByID(mappingID)
	if err != nil {
		return nil, err
	}
	if mapping == nil || !mapping.Active() {
		return nil, fmt.Errorf("%w: mapping %s", ErrNotFound, mappingID)
	}

	evaluatorID := mapping.EvaluatorID
	if input.EvaluatorID != "" {
		evaluatorID = input.EvaluatorID
	}
	deliverableID := mapping.DeliverableID
	if input.DeliverableID.Set {
		deliverableID = input.DeliverableID.Value
	}

	if evaluatorID == mapping.EvaluateeID {
		return nil, ErrSelfEvaluation
	}
	if input.EvaluatorID != "" {
		if err := s.requireEmployee(evaluatorID, "evaluator"); err != nil {
			return nil, err
		}
	}

	line, err := s.lines.GetByID(mapping.EvaluationLineID)
	if err != nil {
		return nil, err
	}
	if line != nil && line.Role == models.RolePrimary && deliverableID != nil {
		return nil, fmt.Errorf("%w: a primary line cannot be scoped to a deliverable", ErrBusinessRule)
	}

	duplicate, err := s.mappings.FindActive(
		mapping.EvaluationPeriodID,
		mapping.EvaluateeID,
		evaluatorID,
		mapping.EvaluationLineID,
		deliverableID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate mapping: %w", err)
	}
	if duplicate != nil && duplicate.ID != mapping.ID {
		return nil, ErrDuplicateRelationship
	}

	role := models.RoleSecondary
	if line != nil {
		role = line.Role
	}
	supersedeIDs, err := s.supersessionCandidates(mapping.EvaluationPeriodID, mapping.EvaluateeID, role, deliverableID, mapping.EvaluationLineID, mapping.ID)
	if err != nil {
		return nil, err
	}

	mapping.EvaluatorID = evaluatorID
	mapping.DeliverableID = deliverableID
	mapping.UpdatedBy = actorID

	if err := s.mappings.UpdateWithSupersede(mapping, supersedeIDs); err != nil {
		if errors.Is(err, repository.ErrDuplicateMapping) {
			return nil, ErrDuplicateRelationship
		}
		return nil, err
	}

	if len(supersedeIDs) > 0 {
		slog.Info("Superseded line mappings",
			"count", len(supersedeIDs),
			"evaluatee_id", mapping.EvaluateeID,
			"line_id", mapping.EvaluationLineID,
		)
	}

	return mapping, nil
}

// Delete soft-deletes a mapping. Deleting an already deleted or unknown
// mapping is a no-op; the returned bool reports whether a row was removed.
func (s *AssignmentService) Delete(mappingID, actorID string) (bool, error) {
	if err := validateUUID(mappingID); err != nil {
		return false, err
	}
	return s.mappings.SoftDelete(mappingID, actorID)
}

// ResetEvaluatee removes every active mapping of an evaluatee in a period
// and returns how many were removed.
func (s *AssignmentService) ResetEvaluatee(periodID, evaluateeID, actorID string) (int, error) {
	if err := validateUUID(periodID); err != nil {
		return 0, err
	}
	if err := validateUUID(evaluateeID); err != nil {
		return 0, err
	}

	count, err := s.mappings.SoftDeleteByEvaluatee(periodID, evaluateeID, actorID)
	if err != nil {
		return 0, err
	}

	slog.Info("Reset evaluatee line mappings", "period_id", periodID, "evaluatee_id", evaluateeID, "count", count)
	return count, nil
}

// ListByEvaluatee retrieves the active mappings of an evaluatee in a period,
// with line role and sequence.
func (s *AssignmentService) ListByEvaluatee(periodID, evaluateeID string) ([]models.MappingWithLine, error) {
	if err := validateUUID(periodID); err != nil {
		return nil, err
	}
	if err := validateUUID(evaluateeID); err != nil {
		return nil, err
	}
	return s.mappings.ListActiveByEvaluatee(periodID, evaluateeID)
}

// ListLines retrieves all evaluation lines ever created.
func (s *AssignmentService) ListLines() ([]models.EvaluationLine, error) {
	return s.lines.List()
}

func (s *AssignmentService) requireEmployee(id, label string) error {
	employee, err := s.employees.GetByID(id)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", label, err)
	}
	if employee == nil {
		return fmt.Errorf("%w: %s %s", ErrNotFound, label, id)
	}
	return nil
}
