package service

import (
	"fmt"

	"github.com/google/uuid"

	"eval-admin/internal/models"
)

// AssignmentValidator checks line assignment requests before any write
// happens. Field-level checks run first; relation checks (self-evaluation,
// duplicate detection) need resolved entities and run second.
type AssignmentValidator struct {
	mappings MappingStore
}

// NewAssignmentValidator creates a new assignment validator
func NewAssignmentValidator(mappings MappingStore) *AssignmentValidator {
	return &AssignmentValidator{mappings: mappings}
}

// ValidateFields checks the request fields that can be judged without
// touching storage: presence, identifier format, role and sequence ranges.
func (v *AssignmentValidator) ValidateFields(periodID, evaluateeID, evaluatorID string, role models.LineRole, sequence int, deliverableID *string) error {
	if periodID == "" {
		return fmt.Errorf("%w: evaluation period id", ErrRequiredDataMissing)
	}
	if evaluateeID == "" {
		return fmt.Errorf("%w: evaluatee id", ErrRequiredDataMissing)
	}
	if evaluatorID == "" {
		return fmt.Errorf("%w: evaluator id", ErrRequiredDataMissing)
	}

	for _, id := range []string{periodID, evaluateeID, evaluatorID} {
		if err := validateUUID(id); err != nil {
			return err
		}
	}
	if deliverableID != nil {
		if *deliverableID == "" {
			return fmt.Errorf("%w: deliverable id is empty", ErrInvalidDataFormat)
		}
		if err := validateUUID(*deliverableID); err != nil {
			return err
		}
	}

	if !role.Valid() {
		return fmt.Errorf("%w: unknown line role %q", ErrInvalidDataFormat, role)
	}
	if sequence < 1 {
		return fmt.Errorf("%w: sequence must be at least 1", ErrInvalidDataFormat)
	}

	if evaluateeID == evaluatorID {
		return ErrSelfEvaluation
	}

	return nil
}

// ValidateCreate runs the checks that need the resolved evaluation line:
// primary lines must not be scoped to a deliverable, and an identical active
// mapping must not already exist.
func (v *AssignmentValidator) ValidateCreate(periodID, evaluateeID, evaluatorID, lineID string, role models.LineRole, deliverableID *string) error {
	if role == models.RolePrimary && deliverableID != nil {
		return fmt.Errorf("%w: a primary line cannot be scoped to a deliverable", ErrBusinessRule)
	}

	existing, err := v.mappings.FindActive(periodID, evaluateeID, evaluatorID, lineID, deliverableID)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate mapping: %w", err)
	}
	if existing != nil {
		return ErrDuplicateRelationship
	}

	return nil
}

func validateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q is not a valid identifier", ErrInvalidDataFormat, id)
	}
	return nil
}
