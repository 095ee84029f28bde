package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eval-admin/internal/models"
	"eval-admin/internal/repository"
)

// fakeLineStore is a map-backed LineStore. Lines are keyed by (role, sequence).
type fakeLineStore struct {
	lines map[string]*models.EvaluationLine
	err   error
}

func newFakeLineStore() *fakeLineStore {
	return &fakeLineStore{lines: map[string]*models.EvaluationLine{}}
}

func lineKey(role models.LineRole, sequence int) string {
	return fmt.Sprintf("%s-%d", role, sequence)
}

func (s *fakeLineStore) GetOrCreate(role models.LineRole, sequence int) (*models.EvaluationLine, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	if line, ok := s.lines[lineKey(role, sequence)]; ok {
		return line, false, nil
	}
	line := &models.EvaluationLine{
		ID:       uuid.NewString(),
		Role:     role,
		Sequence: sequence,
	}
	s.lines[lineKey(role, sequence)] = line
	return line, true, nil
}

func (s *fakeLineStore) GetByID(id string) (*models.EvaluationLine, error) {
	for _, line := range s.lines {
		if line.ID == id {
			return line, nil
		}
	}
	return nil, nil
}

func (s *fakeLineStore) List() ([]models.EvaluationLine, error) {
	lines := []models.EvaluationLine{}
	for _, line := range s.lines {
		lines = append(lines, *line)
	}
	return lines, nil
}

// fakeMappingStore is a slice-backed MappingStore with the same active/
// soft-deleted semantics as the SQL repository, including the duplicate
// backstop on insert.
type fakeMappingStore struct {
	mappings  []*models.EvaluationLineMapping
	lines     *fakeLineStore
	createErr error
}

func newFakeMappingStore(lines *fakeLineStore) *fakeMappingStore {
	return &fakeMappingStore{lines: lines}
}

func sameScope(m *models.EvaluationLineMapping, periodID, evaluateeID, evaluatorID, lineID string, deliverableID *string) bool {
	if m.EvaluationPeriodID != periodID || m.EvaluateeID != evaluateeID || m.EvaluatorID != evaluatorID || m.EvaluationLineID != lineID {
		return false
	}
	if (m.DeliverableID == nil) != (deliverableID == nil) {
		return false
	}
	return m.DeliverableID == nil || *m.DeliverableID == *deliverableID
}

func (s *fakeMappingStore) GetByID(id string) (*models.EvaluationLineMapping, error) {
	for _, m := range s.mappings {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (s *fakeMappingStore) FindActive(periodID, evaluateeID, evaluatorID, lineID string, deliverableID *string) (*models.EvaluationLineMapping, error) {
	for _, m := range s.mappings {
		if m.Active() && sameScope(m, periodID, evaluateeID, evaluatorID, lineID, deliverableID) {
			return m, nil
		}
	}
	return nil, nil
}

func (s *fakeMappingStore) FindActiveByRole(periodID, evaluateeID string, role models.LineRole) ([]models.EvaluationLineMapping, error) {
	result := []models.EvaluationLineMapping{}
	for _, m := range s.mappings {
		if !m.Active() || m.EvaluationPeriodID != periodID || m.EvaluateeID != evaluateeID {
			continue
		}
		line, _ := s.lines.GetByID(m.EvaluationLineID)
		if line != nil && line.Role == role {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (s *fakeMappingStore) FindActiveForDeliverable(evaluateeID, deliverableID, lineID string) ([]models.EvaluationLineMapping, error) {
	result := []models.EvaluationLineMapping{}
	for _, m := range s.mappings {
		if m.Active() && m.EvaluateeID == evaluateeID && m.EvaluationLineID == lineID &&
			m.DeliverableID != nil && *m.DeliverableID == deliverableID {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (s *fakeMappingStore) FindActiveForLine(periodID, evaluateeID, lineID string) ([]models.EvaluationLineMapping, error) {
	result := []models.EvaluationLineMapping{}
	for _, m := range s.mappings {
		if m.Active() && m.EvaluationPeriodID == periodID && m.EvaluateeID == evaluateeID &&
			m.EvaluationLineID == lineID && m.DeliverableID == nil {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (s *fakeMappingStore) CreateWithSupersede(m *models.EvaluationLineMapping, supersedeIDs []string) error {
	if s.createErr != nil {
		return s.createErr
	}

	now := time.Now()
	for _, id := range supersedeIDs {
		for _, existing := range s.mappings {
			if existing.ID == id && existing.Active() {
				deletedAt := now
				existing.DeletedAt = &deletedAt
			}
		}
	}

	if dup, _ := s.FindActive(m.EvaluationPeriodID, m.EvaluateeID, m.EvaluatorID, m.EvaluationLineID, m.DeliverableID); dup != nil {
		return repository.ErrDuplicateMapping
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	s.mappings = append(s.mappings, m)
	return nil
}

func (s *fakeMappingStore) UpdateWithSupersede(m *models.EvaluationLineMapping, supersedeIDs []string) error {
	now := time.Now()
	for _, id := range supersedeIDs {
		for _, existing := range s.mappings {
			if existing.ID == id && existing.Active() {
				deletedAt := now
				existing.DeletedAt = &deletedAt
			}
		}
	}

	if dup, _ := s.FindActive(m.EvaluationPeriodID, m.EvaluateeID, m.EvaluatorID, m.EvaluationLineID, m.DeliverableID); dup != nil && dup.ID != m.ID {
		return repository.ErrDuplicateMapping
	}

	for _, existing := range s.mappings {
		if existing.ID == m.ID && existing.Active() {
			*existing = *m
			existing.UpdatedAt = now
			return nil
		}
	}
	return errors.New("mapping not found")
}

func (s *fakeMappingStore) SoftDelete(id, actorID string) (bool, error) {
	for _, m := range s.mappings {
		if m.ID == id && m.Active() {
			now := time.Now()
			m.DeletedAt = &now
			m.UpdatedBy = actorID
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeMappingStore) SoftDeleteByEvaluatee(periodID, evaluateeID, actorID string) (int, error) {
	count := 0
	for _, m := range s.mappings {
		if m.Active() && m.EvaluationPeriodID == periodID && m.EvaluateeID == evaluateeID {
			now := time.Now()
			m.DeletedAt = &now
			m.UpdatedBy = actorID
			count++
		}
	}
	return count, nil
}

func (s *fakeMappingStore) SoftDeleteByDeliverable(deliverableID, actorID string) (int, error) {
	count := 0
	for _, m := range s.mappings {
		if m.Active() && m.DeliverableID != nil && *m.DeliverableID == deliverableID {
			now := time.Now()
			m.DeletedAt = &now
			m.UpdatedBy = actorID
			count++
		}
	}
	return count, nil
}

func (s *fakeMappingStore) ListActiveByEvaluatee(periodID, evaluateeID string) ([]models.MappingWithLine, error) {
	result := []models.MappingWithLine{}
	for _, m := range s.mappings {
		if m.Active() && m.EvaluationPeriodID == periodID && m.EvaluateeID == evaluateeID {
			result = append(result, s.withLine(m))
		}
	}
	return result, nil
}

func (s *fakeMappingStore) ListActiveByDeliverable(deliverableID string) ([]models.MappingWithLine, error) {
	result := []models.MappingWithLine{}
	for _, m := range s.mappings {
		if m.Active() && m.DeliverableID != nil && *m.DeliverableID == deliverableID {
			result = append(result, s.withLine(m))
		}
	}
	return result, nil
}

func (s *fakeMappingStore) withLine(m *models.EvaluationLineMapping) models.MappingWithLine {
	entry := models.MappingWithLine{EvaluationLineMapping: *m}
	if line, _ := s.lines.GetByID(m.EvaluationLineID); line != nil {
		entry.Role = line.Role
		entry.Sequence = line.Sequence
	}
	return entry
}

// activeCount returns how many stored mappings are active.
func (s *fakeMappingStore) activeCount() int {
	count := 0
	for _, m := range s.mappings {
		if m.Active() {
			count++
		}
	}
	return count
}

// fakeEmployeeDirectory is a map-backed EmployeeDirectory.
type fakeEmployeeDirectory struct {
	employees map[string]*models.Employee
}

func newFakeEmployeeDirectory(employees ...*models.Employee) *fakeEmployeeDirectory {
	d := &fakeEmployeeDirectory{employees: map[string]*models.Employee{}}
	for _, e := range employees {
		d.employees[e.ID] = e
	}
	return d
}

func (d *fakeEmployeeDirectory) GetByID(id string) (*models.Employee, error) {
	return d.employees[id], nil
}

func (d *fakeEmployeeDirectory) ListActive() ([]models.Employee, error) {
	result := []models.Employee{}
	for _, e := range d.employees {
		if e.Status == models.EmployeeActive {
			result = append(result, *e)
		}
	}
	return result, nil
}

// fakeDepartmentDirectory is a map-backed DepartmentDirectory.
type fakeDepartmentDirectory struct {
	departments map[string]*models.Department
}

func newFakeDepartmentDirectory(departments ...*models.Department) *fakeDepartmentDirectory {
	d := &fakeDepartmentDirectory{departments: map[string]*models.Department{}}
	for _, dept := range departments {
		d.departments[dept.ID] = dept
	}
	return d
}

func (d *fakeDepartmentDirectory) GetByID(id string) (*models.Department, error) {
	return d.departments[id], nil
}

// test identifiers, valid UUIDs so format validation passes
var (
	testPeriodID      = "11111111-1111-4111-8111-111111111111"
	testDeliverableID = "22222222-2222-4222-8222-222222222222"
)

func testEmployee(id string) *models.Employee {
	return &models.Employee{ID: id, Name: "Employee " + id[:8], Status: models.EmployeeActive}
}

func strPtr(s string) *string {
	return &s
}
