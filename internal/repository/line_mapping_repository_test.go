package repository

import (
	"errors"
	"testing"

	"eval-admin/internal/models"
	"eval-admin/internal/testutil"
)

func TestLineMappingRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := testutil.SetupTestContainers(t)
	defer tc.Cleanup(t)

	f := testutil.SetupFixtures(t, tc.DB)

	lines := NewEvaluationLineRepository(tc.DB)
	mappings := NewLineMappingRepository(tc.DB)
	actorID := f.RootManager.ID

	t.Run("GetOrCreateLineIsIdempotent", func(t *testing.T) {
		line, created, err := lines.GetOrCreate(models.RolePrimary, 1)
		if err != nil {
			t.Fatalf("GetOrCreate returned %v", err)
		}
		if !created {
			t.Error("expected line creation on first use")
		}

		again, created, err := lines.GetOrCreate(models.RolePrimary, 1)
		if err != nil {
			t.Fatalf("second GetOrCreate returned %v", err)
		}
		if created {
			t.Error("expected the existing line to be returned, not created")
		}
		if again.ID != line.ID {
			t.Errorf("got line %s, expected the same line %s", again.ID, line.ID)
		}

		other, created, err := lines.GetOrCreate(models.RoleSecondary, 1)
		if err != nil {
			t.Fatalf("GetOrCreate for another role returned %v", err)
		}
		if !created || other.ID == line.ID {
			t.Error("expected a distinct line per (role, sequence)")
		}
	})

	t.Run("CreateWithSupersedeReplacesInOneStep", func(t *testing.T) {
		line, _, err := lines.GetOrCreate(models.RolePrimary, 1)
		if err != nil {
			t.Fatalf("GetOrCreate returned %v", err)
		}

		first := &models.EvaluationLineMapping{
			EvaluationPeriodID: f.Period.ID,
			EvaluateeID:        f.EmployeeOne.ID,
			EvaluatorID:        f.ChildManager.ID,
			EvaluationLineID:   line.ID,
			CreatedBy:          actorID,
			UpdatedBy:          actorID,
		}
		if err := mappings.CreateWithSupersede(first, nil); err != nil {
			t.Fatalf("first create returned %v", err)
		}
		if first.ID == "" {
			t.Fatal("expected the mapping to receive an id")
		}

		second := &models.EvaluationLineMapping{
			EvaluationPeriodID: f.Period.ID,
			EvaluateeID:        f.EmployeeOne.ID,
			EvaluatorID:        f.RootManager.ID,
			EvaluationLineID:   line.ID,
			CreatedBy:          actorID,
			UpdatedBy:          actorID,
		}
		if err := mappings.CreateWithSupersede(second, []string{first.ID}); err != nil {
			t.Fatalf("superseding create returned %v", err)
		}

		stored, err := mappings.GetByID(first.ID)
		if err != nil {
			t.Fatalf("GetByID returned %v", err)
		}
		if stored == nil || stored.Active() {
			t.Error("expected the first mapping to be soft-deleted")
		}

		active, err := mappings.FindActiveForLine(f.Period.ID, f.EmployeeOne.ID, line.ID)
		if err != nil {
			t.Fatalf("FindActiveForLine returned %v", err)
		}
		if len(active) != 1 || active[0].ID != second.ID {
			t.Errorf("expected only the replacement to be active, got %+v", active)
		}
	})

	t.Run("UpdateWithSupersedeReplacesInOneStep", func(t *testing.T) {
		line, _, err := lines.GetOrCreate(models.RoleSecondary, 4)
		if err != nil {
			t.Fatalf("GetOrCreate returned %v", err)
		}

		scoped := &models.EvaluationLineMapping{
			EvaluationPeriodID: f.Period.ID,
			EvaluateeID:        f.EmployeeTwo.ID,
			EvaluatorID:        f.RootManager.ID,
			DeliverableID:      &f.Deliverable.ID,
			EvaluationLineID:   line.ID,
			CreatedBy:          actorID,
			UpdatedBy:          actorID,
		}
		if err := mappings.CreateWithSupersede(scoped, nil); err != nil {
			t.Fatalf("create scoped mapping returned %v", err)
		}

		moving := &models.EvaluationLineMapping{
			EvaluationPeriodID: f.Period.ID,
			EvaluateeID:        f.EmployeeTwo.ID,
			EvaluatorID:        f.ChildManager.ID,
			EvaluationLineID:   line.ID,
			CreatedBy:          actorID,
			UpdatedBy:          actorID,
		}
		if err := mappings.CreateWithSupersede(moving, nil); err != nil {
			t.Fatalf("create unscoped mapping returned %v", err)
		}

		// Moving the unscoped mapping onto the occupied deliverable scope
		// supersedes the mapping already there in the same transaction.
		moving.DeliverableID = &f.Deliverable.ID
		if err := mappings.UpdateWithSupersede(moving, []string{scoped.ID}); err != nil {
			t.Fatalf("UpdateWithSupersede returned %v", err)
		}

		displaced, err := mappings.GetByID(scoped.ID)
		if err != nil {
			t.Fatalf("GetByID returned %v", err)
		}
		if displaced == nil || displaced.Active() {
			t.Error("expected the displaced mapping to be soft-deleted")
		}

		active, err := mappings.FindActiveForDeliverable(f.EmployeeTwo.ID, f.Deliverable.ID, line.ID)
		if err != nil {
			t.Fatalf("FindActiveForDeliverable returned %v", err)
		}
		if len(active) != 1 || active[0].ID != moving.ID {
			t.Errorf("expected only the moved mapping to be active on the deliverable, got %+v", active)
		}
	})

	t.Run("DuplicateActiveMappingIsRejected", func(t *testing.T) {
		line, _, err := lines.GetOrCreate(models.RoleSecondary, 1)
		if err != nil {
			t.Fatalf("GetOrCreate returned %v", err)
		}

		mapping := &models.EvaluationLineMapping{
			EvaluationPeriodID: f.Period.ID,
			EvaluateeID:        f.EmployeeTwo.ID,
			EvaluatorID:        f.ChildManager.ID,
			DeliverableID:      &f.Deliverable.ID,
			EvaluationLineID:   line.ID,
			CreatedBy:          actorID,
			UpdatedBy:          actorID,
		}
		if err := mappings.CreateWithSupersede(mapping, nil); err != nil {
			t.Fatalf("create returned %v", err)
		}

		duplicate := &models.EvaluationLineMapping{
			EvaluationPeriodID: f.Period.ID,
			EvaluateeID:        f.EmployeeTwo.ID,
			EvaluatorID:        f.ChildManager.ID,
			DeliverableID:      &f.Deliverable.ID,
			EvaluationLineID:   line.ID,
			CreatedBy:          actorID,
			UpdatedBy:          actorID,
		}
		err = mappings.CreateWithSupersede(duplicate, nil)
		if !errors.Is(err, ErrDuplicateMapping) {
			t.Fatalf("expected ErrDuplicateMapping, got %v", err)
		}

		// Soft-deleting the original frees the unique index for a re-insert.
		removed, err := mappings.SoftDelete(mapping.ID, actorID)
		if err != nil {
			t.Fatalf("SoftDelete returned %v", err)
		}
		if !removed {
			t.Fatal("expected the active mapping to be removed")
		}
		if err := mappings.CreateWithSupersede(duplicate, nil); err != nil {
			t.Fatalf("create after soft delete returned %v", err)
		}
	})

	t.Run("SoftDeleteIsIdempotent", func(t *testing.T) {
		line, _, err := lines.GetOrCreate(models.RoleSecondary, 2)
		if err != nil {
			t.Fatalf("GetOrCreate returned %v", err)
		}

		mapping := &models.EvaluationLineMapping{
			EvaluationPeriodID: f.Period.ID,
			EvaluateeID:        f.EmployeeOne.ID,
			EvaluatorID:        f.RootManager.ID,
			EvaluationLineID:   line.ID,
			CreatedBy:          actorID,
			UpdatedBy:          actorID,
		}
		if err := mappings.CreateWithSupersede(mapping, nil); err != nil {
			t.Fatalf("create returned %v", err)
		}

		removed, err := mappings.SoftDelete(mapping.ID, actorID)
		if err != nil {
			t.Fatalf("SoftDelete returned %v", err)
		}
		if !removed {
			t.Error("expected the first delete to remove the mapping")
		}

		removed, err = mappings.SoftDelete(mapping.ID, actorID)
		if err != nil {
			t.Fatalf("second SoftDelete returned %v", err)
		}
		if removed {
			t.Error("expected the second delete to be a no-op")
		}
	})

	t.Run("ListActiveByEvaluateeJoinsLineDetails", func(t *testing.T) {
		if _, err := mappings.SoftDeleteByEvaluatee(f.Period.ID, f.EmployeeOne.ID, actorID); err != nil {
			t.Fatalf("SoftDeleteByEvaluatee returned %v", err)
		}

		line, _, err := lines.GetOrCreate(models.RoleSecondary, 3)
		if err != nil {
			t.Fatalf("GetOrCreate returned %v", err)
		}

		mapping := &models.EvaluationLineMapping{
			EvaluationPeriodID: f.Period.ID,
			EvaluateeID:        f.EmployeeOne.ID,
			EvaluatorID:        f.ChildManager.ID,
			EvaluationLineID:   line.ID,
			CreatedBy:          actorID,
			UpdatedBy:          actorID,
		}
		if err := mappings.CreateWithSupersede(mapping, nil); err != nil {
			t.Fatalf("create returned %v", err)
		}

		listed, err := mappings.ListActiveByEvaluatee(f.Period.ID, f.EmployeeOne.ID)
		if err != nil {
			t.Fatalf("ListActiveByEvaluatee returned %v", err)
		}
		if len(listed) != 1 {
			t.Fatalf("listed %d mappings, expected 1", len(listed))
		}
		if listed[0].Role != models.RoleSecondary || listed[0].Sequence != 3 {
			t.Errorf("listed mapping has role=%s sequence=%d, expected SECONDARY/3", listed[0].Role, listed[0].Sequence)
		}
	})
}
