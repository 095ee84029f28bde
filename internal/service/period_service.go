package service

import (
	"fmt"
	"log/slog"

	"eval-admin/internal/models"
	"eval-admin/internal/repository"
)

// PeriodService handles evaluation period lifecycle: periods are created in
// DRAFT, opened exactly once, and closed exactly once. A closed period is
// read-only for assignment writes, which handlers enforce via IsWritable.
type PeriodService struct {
	periodRepo *repository.EvaluationPeriodRepository
}

// NewPeriodService creates a new period service
func NewPeriodService(periodRepo *repository.EvaluationPeriodRepository) *PeriodService {
	return &PeriodService{periodRepo: periodRepo}
}

// Create creates a new evaluation period in DRAFT phase
func (s *PeriodService) Create(name string, period *models.EvaluationPeriod) (*models.EvaluationPeriod, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: period name", ErrRequiredDataMissing)
	}
	if period.StartDate.IsZero() || period.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start and end date", ErrRequiredDataMissing)
	}
	if !period.EndDate.After(period.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidDataFormat)
	}

	period.Name = name
	period.Phase = models.PhaseDraft
	if err := s.periodRepo.Create(period); err != nil {
		return nil, err
	}

	slog.Info("Created evaluation period", "period_id", period.ID, "name", period.Name)
	return period, nil
}

// Get retrieves a period by id
func (s *PeriodService) Get(id string) (*models.EvaluationPeriod, error) {
	if err := validateUUID(id); err != nil {
		return nil, err
	}

	period, err := s.periodRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, fmt.Errorf("%w: evaluation period %s", ErrNotFound, id)
	}
	return period, nil
}

// List retrieves all periods
func (s *PeriodService) List() ([]models.EvaluationPeriod, error) {
	return s.periodRepo.List()
}

// Update applies name and date changes. Closed periods cannot be edited.
func (s *PeriodService) Update(id string, name string, period *models.EvaluationPeriod) (*models.EvaluationPeriod, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if existing.Phase == models.PhaseClosed {
		return nil, fmt.Errorf("%w: a closed period cannot be edited", ErrBusinessRule)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: period name", ErrRequiredDataMissing)
	}
	if !period.EndDate.After(period.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidDataFormat)
	}

	existing.Name = name
	existing.StartDate = period.StartDate
	existing.EndDate = period.EndDate
	if err := s.periodRepo.Update(existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// Open transitions a DRAFT period to OPEN
func (s *PeriodService) Open(id string) (*models.EvaluationPeriod, error) {
	period, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if period.Phase != models.PhaseDraft {
		return nil, fmt.Errorf("%w: only a draft period can be opened, current phase is %s", ErrBusinessRule, period.Phase)
	}

	if err := s.periodRepo.UpdatePhase(id, models.PhaseOpen); err != nil {
		return nil, err
	}

	slog.Info("Opened evaluation period", "period_id", id)
	return s.Get(id)
}

// Close transitions an OPEN period to CLOSED
func (s *PeriodService) Close(id string) (*models.EvaluationPeriod, error) {
	period, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if period.Phase != models.PhaseOpen {
		return nil, fmt.Errorf("%w: only an open period can be closed, current phase is %s", ErrBusinessRule, period.Phase)
	}

	if err := s.periodRepo.UpdatePhase(id, models.PhaseClosed); err != nil {
		return nil, err
	}

	slog.Info("Closed evaluation period", "period_id", id)
	return s.Get(id)
}

// IsWritable reports whether assignment writes are allowed for the period.
func (s *PeriodService) IsWritable(id string) (bool, error) {
	period, err := s.Get(id)
	if err != nil {
		return false, err
	}
	return period.Phase != models.PhaseClosed, nil
}
