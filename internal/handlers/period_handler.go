package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"eval-admin/internal/middleware"
	"eval-admin/internal/models"
	"eval-admin/internal/service"
)

// PeriodRequest represents the request body for creating/updating periods
type PeriodRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"` // Date string in YYYY-MM-DD format
	EndDate   string `json:"end_date"`   // Date string in YYYY-MM-DD format
}

// PeriodHandler handles evaluation period requests
type PeriodHandler struct {
	periodService *service.PeriodService
}

// NewPeriodHandler creates a new period handler
func NewPeriodHandler(periodService *service.PeriodService) *PeriodHandler {
	return &PeriodHandler{periodService: periodService}
}

func (h *PeriodHandler) parsePeriodRequest(w http.ResponseWriter, r *http.Request) (*PeriodRequest, *models.EvaluationPeriod, bool) {
	var req PeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return nil, nil, false
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD")
		return nil, nil, false
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid end_date, expected YYYY-MM-DD")
		return nil, nil, false
	}

	return &req, &models.EvaluationPeriod{StartDate: start, EndDate: end}, true
}

// ListPeriods retrieves all evaluation periods
// @Summary List evaluation periods
// @Tags Periods
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.EvaluationPeriod
// @Router /periods [get]
func (h *PeriodHandler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.periodService.List()
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = JSONResponse(w, periods)
}

// CreatePeriod creates a new evaluation period in DRAFT phase
// @Summary Create evaluation period
// @Tags Periods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param period body PeriodRequest true "Period data"
// @Success 201 {object} models.EvaluationPeriod
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /periods [post]
func (h *PeriodHandler) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	req, period, ok := h.parsePeriodRequest(w, r)
	if !ok {
		return
	}

	actorID, ok := middleware.GetActorID(r)
	if !ok {
		JSONError(w, http.StatusUnauthorized, ErrMsgActorNotFound)
		return
	}
	period.CreatedBy = actorID

	created, err := h.periodService.Create(req.Name, period)
	if err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponseWithStatus(w, http.StatusCreated, created)
}

// GetPeriod retrieves an evaluation period by id
// @Summary Get evaluation period
// @Tags Periods
// @Produce json
// @Security BearerAuth
// @Param id path string true "Period ID"
// @Success 200 {object} models.EvaluationPeriod
// @Failure 404 {object} map[string]string "Not found"
// @Router /periods/{id} [get]
func (h *PeriodHandler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodService.Get(r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = JSONResponse(w, period)
}

// UpdatePeriod updates an evaluation period
// @Summary Update evaluation period
// @Tags Periods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Period ID"
// @Param period body PeriodRequest true "Period data"
// @Success 200 {object} models.EvaluationPeriod
// @Failure 404 {object} map[string]string "Not found"
// @Failure 422 {object} map[string]string "Closed period"
// @Router /periods/{id} [put]
func (h *PeriodHandler) UpdatePeriod(w http.ResponseWriter, r *http.Request) {
	req, period, ok := h.parsePeriodRequest(w, r)
	if !ok {
		return
	}

	updated, err := h.periodService.Update(r.PathValue("id"), req.Name, period)
	if err != nil {
		ServiceError(w, err)
		return
	}

	_ = JSONResponse(w, updated)
}

// OpenPeriod transitions a DRAFT period to OPEN
// @Summary Open evaluation period
// @Tags Periods
// @Produce json
// @Security BearerAuth
// @Param id path string true "Period ID"
// @Success 200 {object} models.EvaluationPeriod
// @Failure 422 {object} map[string]string "Invalid phase transition"
// @Router /periods/{id}/open [post]
func (h *PeriodHandler) OpenPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodService.Open(r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = JSONResponse(w, period)
}

// ClosePeriod transitions an OPEN period to CLOSED
// @Summary Close evaluation period
// @Tags Periods
// @Produce json
// @Security BearerAuth
// @Param id path string true "Period ID"
// @Success 200 {object} models.EvaluationPeriod
// @Failure 422 {object} map[string]string "Invalid phase transition"
// @Router /periods/{id}/close [post]
func (h *PeriodHandler) ClosePeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodService.Close(r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = JSONResponse(w, period)
}
