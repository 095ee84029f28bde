package service

import (
	"fmt"
	"log/slog"

	"eval-admin/internal/models"
)

// BatchOrchestrator runs multi-item assignment operations. Items are
// processed sequentially and independently: one failing item never rolls
// back or blocks the others, and results keep the input order.
type BatchOrchestrator struct {
	assignments *AssignmentService
	resolver    *HierarchyResolver
	employees   EmployeeDirectory
	mappings    MappingStore
}

// NewBatchOrchestrator creates a new batch orchestrator
func NewBatchOrchestrator(assignments *AssignmentService, resolver *HierarchyResolver, employees EmployeeDirectory, mappings MappingStore) *BatchOrchestrator {
	return &BatchOrchestrator{
		assignments: assignments,
		resolver:    resolver,
		employees:   employees,
		mappings:    mappings,
	}
}

// BatchConfigure applies a list of explicit line assignments under one role
// within one period. An empty item list yields an empty summary, not an
// error.
func (o *BatchOrchestrator) BatchConfigure(periodID string, role models.LineRole, items []models.LineAssignmentInput, actorID string) *models.BatchAssignmentSummary {
	summary := &models.BatchAssignmentSummary{
		TotalCount: len(items),
		Results:    []models.AssignmentResult{},
	}

	for _, item := range items {
		result := models.AssignmentResult{
			EvaluateeID:   item.EvaluateeID,
			EvaluatorID:   item.EvaluatorID,
			DeliverableID: item.DeliverableID,
		}

		mapping, lineCreated, err := o.assignments.Configure(ConfigureLineInput{
			EvaluationPeriodID: periodID,
			EvaluateeID:        item.EvaluateeID,
			EvaluatorID:        item.EvaluatorID,
			Role:               role,
			Sequence:           item.Sequence,
			DeliverableID:      item.DeliverableID,
		}, actorID)
		if err != nil {
			result.Status = models.ResultError
			result.Error = err.Error()
			summary.FailureCount++
			slog.Warn("Batch assignment item failed",
				"evaluatee_id", item.EvaluateeID,
				"evaluator_id", item.EvaluatorID,
				"error", err,
			)
		} else {
			result.Status = models.ResultSuccess
			result.Mapping = mapping
			summary.SuccessCount++
			summary.CreatedMappings++
			if lineCreated {
				summary.CreatedLines++
			}
		}

		summary.Results = append(summary.Results, result)
	}

	slog.Info("Batch assignment finished",
		"period_id", periodID,
		"role", role,
		"total", summary.TotalCount,
		"success", summary.SuccessCount,
		"failure", summary.FailureCount,
	)

	return summary
}

// AutoAssignPrimary walks all active employees and assigns each one a
// primary evaluator resolved from the org hierarchy. Employees who already
// have an active primary mapping are skipped, so re-running after a partial
// failure only touches the employees that still need coverage.
func (o *BatchOrchestrator) AutoAssignPrimary(periodID, actorID string) (*models.AutoAssignSummary, error) {
	if err := validateUUID(periodID); err != nil {
		return nil, err
	}

	employees, err := o.employees.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}

	summary := &models.AutoAssignSummary{
		TotalEmployees: len(employees),
		Results:        []models.AutoAssignResult{},
	}

	for _, employee := range employees {
		result := o.autoAssignOne(periodID, employee, actorID)
		switch result.Status {
		case models.ResultSuccess:
			summary.SuccessCount++
			summary.TotalCreatedMappings++
		case models.ResultSkipped:
			summary.SkippedCount++
		default:
			summary.FailedCount++
		}
		summary.Results = append(summary.Results, result)
	}

	slog.Info("Hierarchy auto-assignment finished",
		"period_id", periodID,
		"total", summary.TotalEmployees,
		"success", summary.SuccessCount,
		"skipped", summary.SkippedCount,
		"failed", summary.FailedCount,
	)

	return summary, nil
}

func (o *BatchOrchestrator) autoAssignOne(periodID string, employee models.Employee, actorID string) models.AutoAssignResult {
	result := models.AutoAssignResult{EmployeeID: employee.ID}

	existing, err := o.mappings.FindActiveByRole(periodID, employee.ID, models.RolePrimary)
	if err != nil {
		result.Status = models.ResultFailed
		result.Error = fmt.Sprintf("failed to check existing primary mapping: %v", err)
		return result
	}
	if len(existing) > 0 {
		result.Status = models.ResultSkipped
		result.Reason = "already has an active primary evaluator"
		return result
	}

	evaluatorID, err := o.resolver.ResolvePrimaryEvaluator(employee.ID)
	if err != nil {
		result.Status = models.ResultFailed
		result.Error = err.Error()
		return result
	}
	if evaluatorID == "" {
		result.Status = models.ResultSkipped
		result.Reason = "no evaluator resolvable from the org hierarchy"
		return result
	}

	mapping, _, err := o.assignments.Configure(ConfigureLineInput{
		EvaluationPeriodID: periodID,
		EvaluateeID:        employee.ID,
		EvaluatorID:        evaluatorID,
		Role:               models.RolePrimary,
		Sequence:           1,
	}, actorID)
	if err != nil {
		result.Status = models.ResultFailed
		result.EvaluatorID = evaluatorID
		result.Error = err.Error()
		return result
	}

	result.Status = models.ResultSuccess
	result.EvaluatorID = evaluatorID
	result.Mapping = mapping
	return result
}
