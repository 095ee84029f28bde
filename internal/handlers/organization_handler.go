package handlers

import (
	"encoding/json"
	"net/http"

	"eval-admin/internal/models"
	"eval-admin/internal/service"
)

// DepartmentRequest represents the request body for creating/updating departments
type DepartmentRequest struct {
	Name               string  `json:"name"`
	ParentDepartmentID *string `json:"parent_department_id,omitempty"`
	ManagerID          *string `json:"manager_id,omitempty"`
}

// EmployeeRequest represents the request body for creating employees
type EmployeeRequest struct {
	Email        string  `json:"email"`
	Password     string  `json:"password,omitempty"`
	Name         string  `json:"name"`
	DepartmentID *string `json:"department_id,omitempty"`
	ManagerID    *string `json:"manager_id,omitempty"`
	Status       string  `json:"status,omitempty"`
}

// OrganizationHandler handles department and employee directory requests
type OrganizationHandler struct {
	orgService *service.OrganizationService
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgService *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// ListDepartments retrieves all departments
// @Summary List departments
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Department
// @Router /departments [get]
func (h *OrganizationHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.orgService.ListDepartments()
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = JSONResponse(w, departments)
}

// CreateDepartment creates a new department
// @Summary Create department
// @Tags Organization
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param department body DepartmentRequest true "Department data"
// @Success 201 {object} models.Department
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /departments [post]
func (h *OrganizationHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req DepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	department := &models.Department{
		Name:               req.Name,
		ParentDepartmentID: req.ParentDepartmentID,
		ManagerID:          req.ManagerID,
	}
	if err := h.orgService.CreateDepartment(department); err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponseWithStatus(w, http.StatusCreated, department)
}

// GetDepartment retrieves a department by id
// @Summary Get department
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 200 {object} models.Department
// @Failure 404 {object} map[string]string "Not found"
// @Router /departments/{id} [get]
func (h *OrganizationHandler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	department, err := h.orgService.GetDepartment(r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = JSONResponse(w, department)
}

// UpdateDepartment updates a department
// @Summary Update department
// @Tags Organization
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Param department body DepartmentRequest true "Department data"
// @Success 200 {object} models.Department
// @Failure 404 {object} map[string]string "Not found"
// @Router /departments/{id} [put]
func (h *OrganizationHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	var req DepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	department := &models.Department{
		ID:                 r.PathValue("id"),
		Name:               req.Name,
		ParentDepartmentID: req.ParentDepartmentID,
		ManagerID:          req.ManagerID,
	}
	if err := h.orgService.UpdateDepartment(department); err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponse(w, department)
}

// ListEmployees retrieves all employees
// @Summary List employees
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Employee
// @Router /employees [get]
func (h *OrganizationHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.orgService.ListEmployees()
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = JSONResponse(w, employees)
}

// CreateEmployee creates a new employee
// @Summary Create employee
// @Tags Organization
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param employee body EmployeeRequest true "Employee data"
// @Success 201 {object} models.Employee
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /employees [post]
func (h *OrganizationHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	employee := &models.Employee{
		Email:        req.Email,
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
		ManagerID:    req.ManagerID,
	}
	if err := h.orgService.CreateEmployee(employee, req.Password); err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponseWithStatus(w, http.StatusCreated, employee)
}

// GetEmployee retrieves an employee by id
// @Summary Get employee
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} models.Employee
// @Failure 404 {object} map[string]string "Not found"
// @Router /employees/{id} [get]
func (h *OrganizationHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee, err := h.orgService.GetEmployee(r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = JSONResponse(w, employee)
}

// UpdateEmployee updates an employee
// @Summary Update employee
// @Tags Organization
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Param employee body EmployeeRequest true "Employee data"
// @Success 200 {object} models.Employee
// @Failure 404 {object} map[string]string "Not found"
// @Router /employees/{id} [put]
func (h *OrganizationHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.Status == "" {
		req.Status = models.EmployeeActive
	}

	employee := &models.Employee{
		ID:           r.PathValue("id"),
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
		ManagerID:    req.ManagerID,
		Status:       req.Status,
	}
	if err := h.orgService.UpdateEmployee(employee); err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponse(w, employee)
}
