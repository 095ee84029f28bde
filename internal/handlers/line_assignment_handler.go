package handlers

import (
	"encoding/json"
	"net/http"

	"eval-admin/internal/middleware"
	"eval-admin/internal/models"
	"eval-admin/internal/service"
)

// BatchConfigureRequest represents the request body for batch line assignment
type BatchConfigureRequest struct {
	EvaluationPeriodID string                       `json:"evaluation_period_id"`
	Role               models.LineRole              `json:"role"`
	Assignments        []models.LineAssignmentInput `json:"assignments"`
}

// ConfigureResponse wraps a created mapping with the line creation flag
type ConfigureResponse struct {
	Mapping     *models.EvaluationLineMapping `json:"mapping"`
	LineCreated bool                          `json:"line_created"`
}

// ResetResponse reports how many mappings a bulk reset removed
type ResetResponse struct {
	RemovedCount int `json:"removed_count"`
}

// LineAssignmentHandler handles evaluation line assignment requests
type LineAssignmentHandler struct {
	assignmentService *service.AssignmentService
	batchOrchestrator *service.BatchOrchestrator
	periodService     *service.PeriodService
}

// NewLineAssignmentHandler creates a new line assignment handler
func NewLineAssignmentHandler(
	assignmentService *service.AssignmentService,
	batchOrchestrator *service.BatchOrchestrator,
	periodService *service.PeriodService,
) *LineAssignmentHandler {
	return &LineAssignmentHandler{
		assignmentService: assignmentService,
		batchOrchestrator: batchOrchestrator,
		periodService:     periodService,
	}
}

// requireWritablePeriod rejects the request when the period is closed.
// Closed periods are read-only for assignment writes.
func (h *LineAssignmentHandler) requireWritablePeriod(w http.ResponseWriter, periodID string) bool {
	writable, err := h.periodService.IsWritable(periodID)
	if err != nil {
		ServiceError(w, err)
		return false
	}
	if !writable {
		JSONError(w, http.StatusUnprocessableEntity, ErrMsgPeriodClosed)
		return false
	}
	return true
}

func actorID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.GetActorID(r)
	if !ok {
		JSONError(w, http.StatusUnauthorized, ErrMsgActorNotFound)
		return "", false
	}
	return id, true
}

// ConfigureLine assigns an evaluator to an evaluatee on one evaluation line
// @Summary Configure line assignment
// @Description Assign an evaluator to an evaluatee under a (role, sequence) line, creating the line on first use. An existing assignment on the same scope is superseded.
// @Tags Lines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignment body service.ConfigureLineInput true "Assignment data"
// @Success 201 {object} ConfigureResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Unknown employee or period"
// @Failure 409 {object} map[string]string "Duplicate assignment"
// @Failure 422 {object} map[string]string "Business rule violation"
// @Router /lines/configure [post]
func (h *LineAssignmentHandler) ConfigureLine(w http.ResponseWriter, r *http.Request) {
	var input service.ConfigureLineInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	if !h.requireWritablePeriod(w, input.EvaluationPeriodID) {
		return
	}

	mapping, lineCreated, err := h.assignmentService.Configure(input, actor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponseWithStatus(w, http.StatusCreated, ConfigureResponse{
		Mapping:     mapping,
		LineCreated: lineCreated,
	})
}

// UpdateMapping changes the evaluator or deliverable of an active mapping
// @Summary Update line mapping
// @Tags Lines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mapping ID"
// @Param patch body service.UpdateLineInput true "Fields to change"
// @Success 200 {object} models.EvaluationLineMapping
// @Failure 404 {object} map[string]string "Not found"
// @Failure 409 {object} map[string]string "Duplicate assignment"
// @Router /lines/mappings/{id} [put]
func (h *LineAssignmentHandler) UpdateMapping(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateLineInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	mapping, err := h.assignmentService.Update(r.PathValue("id"), input, actor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponse(w, mapping)
}

// DeleteMapping soft-deletes a mapping
// @Summary Delete line mapping
// @Description Soft-deletes a mapping. Deleting an already deleted or unknown mapping is a no-op.
// @Tags Lines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mapping ID"
// @Success 200 {object} map[string]bool
// @Router /lines/mappings/{id} [delete]
func (h *LineAssignmentHandler) DeleteMapping(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	removed, err := h.assignmentService.Delete(r.PathValue("id"), actor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponse(w, map[string]bool{"removed": removed})
}

// ListLines retrieves all evaluation lines
// @Summary List evaluation lines
// @Tags Lines
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.EvaluationLine
// @Router /lines [get]
func (h *LineAssignmentHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.assignmentService.ListLines()
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = JSONResponse(w, lines)
}

// ListEvaluateeMappings retrieves the active mappings of an evaluatee
// @Summary List evaluatee mappings
// @Tags Lines
// @Produce json
// @Security BearerAuth
// @Param periodId path string true "Period ID"
// @Param employeeId path string true "Evaluatee ID"
// @Success 200 {array} models.MappingWithLine
// @Router /periods/{periodId}/evaluatees/{employeeId}/mappings [get]
func (h *LineAssignmentHandler) ListEvaluateeMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.assignmentService.ListByEvaluatee(r.PathValue("periodId"), r.PathValue("employeeId"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = JSONResponse(w, mappings)
}

// ResetEvaluateeMappings removes every active mapping of an evaluatee
// @Summary Reset evaluatee mappings
// @Tags Lines
// @Produce json
// @Security BearerAuth
// @Param periodId path string true "Period ID"
// @Param employeeId path string true "Evaluatee ID"
// @Success 200 {object} ResetResponse
// @Failure 422 {object} map[string]string "Period closed"
// @Router /periods/{periodId}/evaluatees/{employeeId}/mappings [delete]
func (h *LineAssignmentHandler) ResetEvaluateeMappings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	periodID := r.PathValue("periodId")
	if !h.requireWritablePeriod(w, periodID) {
		return
	}

	count, err := h.assignmentService.ResetEvaluatee(periodID, r.PathValue("employeeId"), actor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponse(w, ResetResponse{RemovedCount: count})
}

// BatchConfigure applies a list of explicit line assignments
// @Summary Batch configure line assignments
// @Description Apply a list of assignments for one role within one period. Items are processed independently; the summary reports per-item outcomes in input order.
// @Tags Lines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param batch body BatchConfigureRequest true "Batch data"
// @Success 200 {object} models.BatchAssignmentSummary
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Period closed"
// @Router /lines/batch [post]
func (h *LineAssignmentHandler) BatchConfigure(w http.ResponseWriter, r *http.Request) {
	var req BatchConfigureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if !req.Role.Valid() {
		JSONError(w, http.StatusBadRequest, "Unknown line role")
		return
	}
	// An absent assignment list is a malformed request; an explicit empty
	// list is a valid batch that yields an all-zero summary.
	if req.Assignments == nil {
		JSONError(w, http.StatusBadRequest, "Assignment list is required")
		return
	}

	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	if !h.requireWritablePeriod(w, req.EvaluationPeriodID) {
		return
	}

	summary := h.batchOrchestrator.BatchConfigure(req.EvaluationPeriodID, req.Role, req.Assignments, actor)
	_ = JSONResponse(w, summary)
}

// AutoAssignPrimary assigns a hierarchy-resolved primary evaluator to every
// active employee
// @Summary Auto-assign primary evaluators
// @Description Walk all active employees and assign each one a primary evaluator resolved from the org hierarchy. Employees with an active primary mapping are skipped.
// @Tags Lines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Period ID"
// @Success 200 {object} models.AutoAssignSummary
// @Failure 422 {object} map[string]string "Period closed"
// @Router /periods/{id}/auto-assign [post]
func (h *LineAssignmentHandler) AutoAssignPrimary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	periodID := r.PathValue("id")
	if !h.requireWritablePeriod(w, periodID) {
		return
	}

	summary, err := h.batchOrchestrator.AutoAssignPrimary(periodID, actor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponse(w, summary)
}
