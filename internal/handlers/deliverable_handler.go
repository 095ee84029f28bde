package handlers

import (
	"encoding/json"
	"net/http"

	"eval-admin/internal/middleware"
	"eval-admin/internal/models"
	"eval-admin/internal/service"
)

// DeliverableRequest represents the request body for creating/updating deliverables
type DeliverableRequest struct {
	EvaluationPeriodID string `json:"evaluation_period_id,omitempty"`
	Name               string `json:"name"`
	Code               string `json:"code"`
}

// AssignEmployeeRequest represents the request body for deliverable assignment
type AssignEmployeeRequest struct {
	EmployeeID string `json:"employee_id"`
}

// DeliverableHandler handles deliverable requests
type DeliverableHandler struct {
	deliverableService *service.DeliverableService
}

// NewDeliverableHandler creates a new deliverable handler
func NewDeliverableHandler(deliverableService *service.DeliverableService) *DeliverableHandler {
	return &DeliverableHandler{deliverableService: deliverableService}
}

// ListDeliverables retrieves the deliverables of a period
// @Summary List deliverables
// @Tags Deliverables
// @Produce json
// @Security BearerAuth
// @Param periodId path string true "Period ID"
// @Success 200 {array} models.Deliverable
// @Router /periods/{periodId}/deliverables [get]
func (h *DeliverableHandler) ListDeliverables(w http.ResponseWriter, r *http.Request) {
	deliverables, err := h.deliverableService.ListByPeriod(r.PathValue("periodId"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = JSONResponse(w, deliverables)
}

// CreateDeliverable creates a deliverable within a period
// @Summary Create deliverable
// @Tags Deliverables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param periodId path string true "Period ID"
// @Param deliverable body DeliverableRequest true "Deliverable data"
// @Success 201 {object} models.Deliverable
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Period closed"
// @Router /periods/{periodId}/deliverables [post]
func (h *DeliverableHandler) CreateDeliverable(w http.ResponseWriter, r *http.Request) {
	var req DeliverableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	deliverable := &models.Deliverable{
		EvaluationPeriodID: r.PathValue("periodId"),
		Name:               req.Name,
		Code:               req.Code,
	}
	if err := h.deliverableService.Create(deliverable); err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponseWithStatus(w, http.StatusCreated, deliverable)
}

// GetDeliverable retrieves a deliverable by id
// @Summary Get deliverable
// @Tags Deliverables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deliverable ID"
// @Success 200 {object} models.Deliverable
// @Failure 404 {object} map[string]string "Not found"
// @Router /deliverables/{id} [get]
func (h *DeliverableHandler) GetDeliverable(w http.ResponseWriter, r *http.Request) {
	deliverable, err := h.deliverableService.Get(r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = JSONResponse(w, deliverable)
}

// UpdateDeliverable updates a deliverable
// @Summary Update deliverable
// @Tags Deliverables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deliverable ID"
// @Param deliverable body DeliverableRequest true "Deliverable data"
// @Success 200 {object} models.Deliverable
// @Failure 404 {object} map[string]string "Not found"
// @Router /deliverables/{id} [put]
func (h *DeliverableHandler) UpdateDeliverable(w http.ResponseWriter, r *http.Request) {
	var req DeliverableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	deliverable, err := h.deliverableService.Update(r.PathValue("id"), req.Name, req.Code)
	if err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponse(w, deliverable)
}

// AssignEmployee assigns an employee to a deliverable
// @Summary Assign employee to deliverable
// @Description Assigns an employee to a deliverable and seeds a default secondary evaluation line for them.
// @Tags Deliverables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deliverable ID"
// @Param assignment body AssignEmployeeRequest true "Employee to assign"
// @Success 201 {object} models.DeliverableAssignment
// @Failure 404 {object} map[string]string "Not found"
// @Router /deliverables/{id}/employees [post]
func (h *DeliverableHandler) AssignEmployee(w http.ResponseWriter, r *http.Request) {
	var req AssignEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	actor, ok := middleware.GetActorID(r)
	if !ok {
		JSONError(w, http.StatusUnauthorized, ErrMsgActorNotFound)
		return
	}

	assignment, err := h.deliverableService.AssignEmployee(r.PathValue("id"), req.EmployeeID, actor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponseWithStatus(w, http.StatusCreated, assignment)
}

// UnassignEmployee removes an employee from a deliverable
// @Summary Unassign employee from deliverable
// @Description Removes an employee from a deliverable and soft-deletes their line mappings scoped to it.
// @Tags Deliverables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deliverable ID"
// @Param employeeId path string true "Employee ID"
// @Success 200 {object} map[string]bool
// @Router /deliverables/{id}/employees/{employeeId} [delete]
func (h *DeliverableHandler) UnassignEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorID(r)
	if !ok {
		JSONError(w, http.StatusUnauthorized, ErrMsgActorNotFound)
		return
	}

	removed, err := h.deliverableService.UnassignEmployee(r.PathValue("id"), r.PathValue("employeeId"), actor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponse(w, map[string]bool{"removed": removed})
}

// ListAssignedEmployees retrieves the employees assigned to a deliverable
// @Summary List deliverable employees
// @Tags Deliverables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deliverable ID"
// @Success 200 {array} models.Employee
// @Router /deliverables/{id}/employees [get]
func (h *DeliverableHandler) ListAssignedEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.deliverableService.ListAssignedEmployees(r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = JSONResponse(w, employees)
}

// ListMappings retrieves the active line mappings scoped to a deliverable
// @Summary List deliverable mappings
// @Tags Deliverables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deliverable ID"
// @Success 200 {array} models.MappingWithLine
// @Router /deliverables/{id}/mappings [get]
func (h *DeliverableHandler) ListMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.deliverableService.ListMappings(r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = JSONResponse(w, mappings)
}

// ResetMappings removes every active mapping scoped to a deliverable
// @Summary Reset deliverable mappings
// @Tags Deliverables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deliverable ID"
// @Success 200 {object} ResetResponse
// @Router /deliverables/{id}/mappings [delete]
func (h *DeliverableHandler) ResetMappings(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorID(r)
	if !ok {
		JSONError(w, http.StatusUnauthorized, ErrMsgActorNotFound)
		return
	}

	count, err := h.deliverableService.ResetMappings(r.PathValue("id"), actor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponse(w, ResetResponse{RemovedCount: count})
}
