package service

import (
	"encoding/json"
	"errors"
	"testing"

	"eval-admin/internal/models"
)

var testActorID = "99999999-9999-4999-8999-999999999999"

type assignmentFixture struct {
	lines    *fakeLineStore
	mappings *fakeMappingStore
	service  *AssignmentService
}

func newAssignmentFixture(employees ...*models.Employee) *assignmentFixture {
	lines := newFakeLineStore()
	mappings := newFakeMappingStore(lines)
	directory := newFakeEmployeeDirectory(employees...)
	validator := NewAssignmentValidator(mappings)
	return &assignmentFixture{
		lines:    lines,
		mappings: mappings,
		service:  NewAssignmentService(lines, mappings, directory, validator),
	}
}

func TestConfigureCreatesLineAndMapping(t *testing.T) {
	fx := newAssignmentFixture(testEmployee(evaluateeID), testEmployee(evaluatorID))

	mapping, lineCreated, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        evaluatorID,
		Role:               models.RolePrimary,
	}, testActorID)
	if err != nil {
		t.Fatalf("Configure returned %v", err)
	}
	if !lineCreated {
		t.Error("expected the line to be created on first use")
	}
	if mapping.ID == "" {
		t.Error("expected mapping to be assigned an id")
	}
	if mapping.CreatedBy != testActorID || mapping.UpdatedBy != testActorID {
		t.Errorf("expected actor %q recorded, got created_by=%q updated_by=%q", testActorID, mapping.CreatedBy, mapping.UpdatedBy)
	}

	line, err := fx.lines.GetByID(mapping.EvaluationLineID)
	if err != nil {
		t.Fatalf("failed to load line: %v", err)
	}
	if line == nil || line.Role != models.RolePrimary || line.Sequence != 1 {
		t.Errorf("expected primary line with default sequence 1, got %+v", line)
	}
}

func TestConfigureReusesExistingLine(t *testing.T) {
	fx := newAssignmentFixture(testEmployee(evaluateeID), testEmployee(evaluatorID), testEmployee(workerID))

	_, created, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        evaluatorID,
		Role:               models.RoleSecondary,
		Sequence:           2,
	}, testActorID)
	if err != nil {
		t.Fatalf("first Configure returned %v", err)
	}
	if !created {
		t.Error("expected line creation on first use")
	}

	_, created, err = fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        workerID,
		EvaluatorID:        evaluatorID,
		Role:               models.RoleSecondary,
		Sequence:           2,
	}, testActorID)
	if err != nil {
		t.Fatalf("second Configure returned %v", err)
	}
	if created {
		t.Error("expected the existing line to be reused")
	}
	if len(fx.lines.lines) != 1 {
		t.Errorf("expected 1 line, got %d", len(fx.lines.lines))
	}
}

func TestConfigurePrimarySupersedesExistingPrimary(t *testing.T) {
	firstEvaluator := testEmployee(evaluatorID)
	secondEvaluator := testEmployee(childManagerID)
	fx := newAssignmentFixture(testEmployee(evaluateeID), firstEvaluator, secondEvaluator)

	first, _, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        firstEvaluator.ID,
		Role:               models.RolePrimary,
	}, testActorID)
	if err != nil {
		t.Fatalf("first Configure returned %v", err)
	}

	second, _, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        secondEvaluator.ID,
		Role:               models.RolePrimary,
	}, testActorID)
	if err != nil {
		t.Fatalf("second Configure returned %v", err)
	}

	if fx.mappings.activeCount() != 1 {
		t.Fatalf("expected exactly one active mapping after supersession, got %d", fx.mappings.activeCount())
	}

	stored, err := fx.mappings.GetByID(first.ID)
	if err != nil {
		t.Fatalf("failed to load first mapping: %v", err)
	}
	if stored.Active() {
		t.Error("expected the first primary mapping to be superseded")
	}

	active, err := fx.mappings.FindActiveByRole(testPeriodID, evaluateeID, models.RolePrimary)
	if err != nil {
		t.Fatalf("FindActiveByRole returned %v", err)
	}
	if len(active) != 1 || active[0].ID != second.ID {
		t.Errorf("expected the second mapping to be the only active primary, got %+v", active)
	}
	if active[0].EvaluatorID != secondEvaluator.ID {
		t.Errorf("active primary points at %q, expected %q", active[0].EvaluatorID, secondEvaluator.ID)
	}
}

func TestConfigureSecondarySupersedesSameDeliverableScope(t *testing.T) {
	firstEvaluator := testEmployee(evaluatorID)
	secondEvaluator := testEmployee(childManagerID)
	fx := newAssignmentFixture(testEmployee(evaluateeID), firstEvaluator, secondEvaluator)

	_, _, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        firstEvaluator.ID,
		Role:               models.RoleSecondary,
		DeliverableID:      strPtr(testDeliverableID),
	}, testActorID)
	if err != nil {
		t.Fatalf("first Configure returned %v", err)
	}

	replacement, _, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        secondEvaluator.ID,
		Role:               models.RoleSecondary,
		DeliverableID:      strPtr(testDeliverableID),
	}, testActorID)
	if err != nil {
		t.Fatalf("replacement Configure returned %v", err)
	}

	active, err := fx.mappings.FindActiveForDeliverable(evaluateeID, testDeliverableID, replacement.EvaluationLineID)
	if err != nil {
		t.Fatalf("FindActiveForDeliverable returned %v", err)
	}
	if len(active) != 1 || active[0].EvaluatorID != secondEvaluator.ID {
		t.Errorf("expected one active deliverable-scoped mapping for the replacement evaluator, got %+v", active)
	}
}

func TestConfigureSecondaryDifferentDeliverablesCoexist(t *testing.T) {
	otherDeliverableID := "55555555-5555-4555-8555-555555555555"
	fx := newAssignmentFixture(testEmployee(evaluateeID), testEmployee(evaluatorID))

	for _, deliverableID := range []string{testDeliverableID, otherDeliverableID} {
		_, _, err := fx.service.Configure(ConfigureLineInput{
			EvaluationPeriodID: testPeriodID,
			EvaluateeID:        evaluateeID,
			EvaluatorID:        evaluatorID,
			Role:               models.RoleSecondary,
			DeliverableID:      strPtr(deliverableID),
		}, testActorID)
		if err != nil {
			t.Fatalf("Configure for deliverable %s returned %v", deliverableID, err)
		}
	}

	if fx.mappings.activeCount() != 2 {
		t.Errorf("expected two coexisting deliverable-scoped mappings, got %d active", fx.mappings.activeCount())
	}
}

func TestConfigureRejectsDuplicate(t *testing.T) {
	fx := newAssignmentFixture(testEmployee(evaluateeID), testEmployee(evaluatorID))

	input := ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        evaluatorID,
		Role:               models.RoleSecondary,
		DeliverableID:      strPtr(testDeliverableID),
	}

	if _, _, err := fx.service.Configure(input, testActorID); err != nil {
		t.Fatalf("first Configure returned %v", err)
	}

	_, _, err := fx.service.Configure(input, testActorID)
	if !errors.Is(err, ErrDuplicateRelationship) {
		t.Fatalf("expected ErrDuplicateRelationship, got %v", err)
	}
	if fx.mappings.activeCount() != 1 {
		t.Errorf("expected the duplicate attempt to leave one active mapping, got %d", fx.mappings.activeCount())
	}
}

func TestConfigureRejectsPrimaryWithDeliverable(t *testing.T) {
	fx := newAssignmentFixture(testEmployee(evaluateeID), testEmployee(evaluatorID))

	_, _, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        evaluatorID,
		Role:               models.RolePrimary,
		DeliverableID:      strPtr(testDeliverableID),
	}, testActorID)
	if !errors.Is(err, ErrBusinessRule) {
		t.Fatalf("expected ErrBusinessRule, got %v", err)
	}
}

func TestConfigureRejectsUnknownEmployee(t *testing.T) {
	fx := newAssignmentFixture(testEmployee(evaluateeID))

	_, _, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        evaluatorID,
		Role:               models.RolePrimary,
	}, testActorID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown evaluator, got %v", err)
	}
	if fx.mappings.activeCount() != 0 {
		t.Errorf("expected no mapping written, got %d active", fx.mappings.activeCount())
	}
}

func TestUpdateChangesEvaluator(t *testing.T) {
	newEvaluator := testEmployee(childManagerID)
	fx := newAssignmentFixture(testEmployee(evaluateeID), testEmployee(evaluatorID), newEvaluator)

	mapping, _, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        evaluatorID,
		Role:               models.RolePrimary,
	}, testActorID)
	if err != nil {
		t.Fatalf("Configure returned %v", err)
	}

	updated, err := fx.service.Update(mapping.ID, UpdateLineInput{EvaluatorID: newEvaluator.ID}, testActorID)
	if err != nil {
		t.Fatalf("Update returned %v", err)
	}
	if updated.EvaluatorID != newEvaluator.ID {
		t.Errorf("evaluator is %q, expected %q", updated.EvaluatorID, newEvaluator.ID)
	}
	if updated.UpdatedBy != testActorID {
		t.Errorf("updated_by is %q, expected %q", updated.UpdatedBy, testActorID)
	}
}

func TestUpdateMoveToOccupiedDeliverableSupersedes(t *testing.T) {
	otherDeliverableID := "55555555-5555-4555-8555-555555555555"
	evaluatorOne := testEmployee(evaluatorID)
	evaluatorTwo := testEmployee(childManagerID)
	fx := newAssignmentFixture(testEmployee(evaluateeID), evaluatorOne, evaluatorTwo)

	first, _, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        evaluatorOne.ID,
		Role:               models.RoleSecondary,
		DeliverableID:      strPtr(testDeliverableID),
	}, testActorID)
	if err != nil {
		t.Fatalf("first Configure returned %v", err)
	}

	second, _, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        evaluatorTwo.ID,
		Role:               models.RoleSecondary,
		DeliverableID:      strPtr(otherDeliverableID),
	}, testActorID)
	if err != nil {
		t.Fatalf("second Configure returned %v", err)
	}

	// Moving the second mapping onto the first mapping's deliverable must
	// supersede the first one, not coexist with it.
	updated, err := fx.service.Update(second.ID, UpdateLineInput{
		DeliverableID: OptionalID{Set: true, Value: strPtr(testDeliverableID)},
	}, testActorID)
	if err != nil {
		t.Fatalf("Update returned %v", err)
	}
	if updated.DeliverableID == nil || *updated.DeliverableID != testDeliverableID {
		t.Fatalf("updated mapping scoped to %v, expected %s", updated.DeliverableID, testDeliverableID)
	}

	displaced, err := fx.mappings.GetByID(first.ID)
	if err != nil {
		t.Fatalf("failed to load displaced mapping: %v", err)
	}
	if displaced.Active() {
		t.Error("expected the displaced mapping to be superseded")
	}

	active, err := fx.mappings.FindActiveForDeliverable(evaluateeID, testDeliverableID, second.EvaluationLineID)
	if err != nil {
		t.Fatalf("FindActiveForDeliverable returned %v", err)
	}
	if len(active) != 1 || active[0].EvaluatorID != evaluatorTwo.ID {
		t.Errorf("expected exactly one active mapping on the target deliverable pointing at %s, got %+v", evaluatorTwo.ID, active)
	}
	if fx.mappings.activeCount() != 1 {
		t.Errorf("expected 1 active mapping overall, got %d", fx.mappings.activeCount())
	}
}

func TestUpdateKeepsOmittedFields(t *testing.T) {
	newEvaluator := testEmployee(childManagerID)
	fx := newAssignmentFixture(testEmployee(evaluateeID), testEmployee(evaluatorID), newEvaluator)

	mapping, _, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        evaluatorID,
		Role:               models.RoleSecondary,
		DeliverableID:      strPtr(testDeliverableID),
	}, testActorID)
	if err != nil {
		t.Fatalf("Configure returned %v", err)
	}

	// An evaluator-only patch keeps the deliverable scope.
	updated, err := fx.service.Update(mapping.ID, UpdateLineInput{EvaluatorID: newEvaluator.ID}, testActorID)
	if err != nil {
		t.Fatalf("evaluator-only Update returned %v", err)
	}
	if updated.DeliverableID == nil || *updated.DeliverableID != testDeliverableID {
		t.Errorf("deliverable scope changed to %v, expected it kept as %s", updated.DeliverableID, testDeliverableID)
	}
	if updated.EvaluatorID != newEvaluator.ID {
		t.Errorf("evaluator is %q, expected %q", updated.EvaluatorID, newEvaluator.ID)
	}

	// A deliverable-only patch keeps the evaluator.
	updated, err = fx.service.Update(mapping.ID, UpdateLineInput{
		DeliverableID: OptionalID{Set: true, Value: nil},
	}, testActorID)
	if err != nil {
		t.Fatalf("deliverable-only Update returned %v", err)
	}
	if updated.DeliverableID != nil {
		t.Errorf("deliverable is %v, expected the explicit null to clear it", updated.DeliverableID)
	}
	if updated.EvaluatorID != newEvaluator.ID {
		t.Errorf("evaluator changed to %q, expected it kept as %q", updated.EvaluatorID, newEvaluator.ID)
	}
}

func TestUpdateRejectsEmptyPatch(t *testing.T) {
	fx := newAssignmentFixture(testEmployee(evaluateeID), testEmployee(evaluatorID))

	mapping, _, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        evaluatorID,
		Role:               models.RolePrimary,
	}, testActorID)
	if err != nil {
		t.Fatalf("Configure returned %v", err)
	}

	_, err = fx.service.Update(mapping.ID, UpdateLineInput{}, testActorID)
	if !errors.Is(err, ErrRequiredDataMissing) {
		t.Fatalf("expected ErrRequiredDataMissing for an empty patch, got %v", err)
	}
}

func TestUpdateLineInputFieldPresence(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantValue *string
	}{
		{"deliverable absent", `{"evaluator_id":"` + evaluatorID + `"}`, false, nil},
		{"deliverable null", `{"deliverable_id":null}`, true, nil},
		{"deliverable set", `{"deliverable_id":"` + testDeliverableID + `"}`, true, strPtr(testDeliverableID)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var input UpdateLineInput
			if err := json.Unmarshal([]byte(tt.body), &input); err != nil {
				t.Fatalf("Unmarshal returned %v", err)
			}
			if input.DeliverableID.Set != tt.wantSet {
				t.Errorf("Set is %v, expected %v", input.DeliverableID.Set, tt.wantSet)
			}
			if (input.DeliverableID.Value == nil) != (tt.wantValue == nil) {
				t.Fatalf("Value is %v, expected %v", input.DeliverableID.Value, tt.wantValue)
			}
			if tt.wantValue != nil && *input.DeliverableID.Value != *tt.wantValue {
				t.Errorf("Value is %q, expected %q", *input.DeliverableID.Value, *tt.wantValue)
			}
		})
	}
}

func TestUpdateRejectsSelfEvaluation(t *testing.T) {
	fx := newAssignmentFixture(testEmployee(evaluateeID), testEmployee(evaluatorID))

	mapping, _, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        evaluatorID,
		Role:               models.RolePrimary,
	}, testActorID)
	if err != nil {
		t.Fatalf("Configure returned %v", err)
	}

	_, err = fx.service.Update(mapping.ID, UpdateLineInput{EvaluatorID: evaluateeID}, testActorID)
	if !errors.Is(err, ErrSelfEvaluation) {
		t.Fatalf("expected ErrSelfEvaluation, got %v", err)
	}
}

func TestUpdateUnknownMapping(t *testing.T) {
	fx := newAssignmentFixture(testEmployee(evaluatorID))

	_, err := fx.service.Update("66666666-6666-4666-8666-666666666666", UpdateLineInput{EvaluatorID: evaluatorID}, testActorID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	fx := newAssignmentFixture(testEmployee(evaluateeID), testEmployee(evaluatorID))

	mapping, _, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        evaluatorID,
		Role:               models.RolePrimary,
	}, testActorID)
	if err != nil {
		t.Fatalf("Configure returned %v", err)
	}

	removed, err := fx.service.Delete(mapping.ID, testActorID)
	if err != nil {
		t.Fatalf("Delete returned %v", err)
	}
	if !removed {
		t.Error("expected the first delete to remove the mapping")
	}

	removed, err = fx.service.Delete(mapping.ID, testActorID)
	if err != nil {
		t.Fatalf("second Delete returned %v", err)
	}
	if removed {
		t.Error("expected the second delete to be a no-op")
	}
}

func TestResetEvaluatee(t *testing.T) {
	fx := newAssignmentFixture(testEmployee(evaluateeID), testEmployee(evaluatorID))

	for _, input := range []ConfigureLineInput{
		{EvaluationPeriodID: testPeriodID, EvaluateeID: evaluateeID, EvaluatorID: evaluatorID, Role: models.RolePrimary},
		{EvaluationPeriodID: testPeriodID, EvaluateeID: evaluateeID, EvaluatorID: evaluatorID, Role: models.RoleSecondary, DeliverableID: strPtr(testDeliverableID)},
	} {
		if _, _, err := fx.service.Configure(input, testActorID); err != nil {
			t.Fatalf("Configure returned %v", err)
		}
	}

	count, err := fx.service.ResetEvaluatee(testPeriodID, evaluateeID, testActorID)
	if err != nil {
		t.Fatalf("ResetEvaluatee returned %v", err)
	}
	if count != 2 {
		t.Errorf("removed %d mappings, expected 2", count)
	}
	if fx.mappings.activeCount() != 0 {
		t.Errorf("expected no active mappings after reset, got %d", fx.mappings.activeCount())
	}

	// Configuring again after a reset must not collide with the soft-deleted rows.
	if _, _, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        evaluatorID,
		Role:               models.RolePrimary,
	}, testActorID); err != nil {
		t.Fatalf("Configure after reset returned %v", err)
	}
}

func TestListByEvaluateeIncludesLineDetails(t *testing.T) {
	fx := newAssignmentFixture(testEmployee(evaluateeID), testEmployee(evaluatorID))

	_, _, err := fx.service.Configure(ConfigureLineInput{
		EvaluationPeriodID: testPeriodID,
		EvaluateeID:        evaluateeID,
		EvaluatorID:        evaluatorID,
		Role:               models.RoleSecondary,
		Sequence:           3,
	}, testActorID)
	if err != nil {
		t.Fatalf("Configure returned %v", err)
	}

	listed, err := fx.service.ListByEvaluatee(testPeriodID, evaluateeID)
	if err != nil {
		t.Fatalf("ListByEvaluatee returned %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("listed %d mappings, expected 1", len(listed))
	}
	if listed[0].Role != models.RoleSecondary || listed[0].Sequence != 3 {
		t.Errorf("listed mapping has role=%s sequence=%d, expected SECONDARY/3", listed[0].Role, listed[0].Sequence)
	}
}
