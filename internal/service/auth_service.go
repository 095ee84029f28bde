package service

import (
	"errors"
	"fmt"

	"eval-admin/internal/auth"
	"eval-admin/internal/models"
	"eval-admin/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmployeeInactive   = errors.New("employee account is inactive")
)

// AuthService handles authentication business logic
type AuthService struct {
	employeeRepo *repository.EmployeeRepository
	authSvc      *auth.Service
}

// NewAuthService creates a new authentication service
func NewAuthService(employeeRepo *repository.EmployeeRepository, authSvc *auth.Service) *AuthService {
	return &AuthService{
		employeeRepo: employeeRepo,
		authSvc:      authSvc,
	}
}

// Login authenticates an employee and returns a signed access token
func (s *AuthService) Login(email, password string) (string, *models.Employee, error) {
	employee, err := s.employeeRepo.GetByEmail(email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up employee: %w", err)
	}
	if employee == nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := s.authSvc.VerifyPassword(employee.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if employee.Status != models.EmployeeActive {
		return "", nil, ErrEmployeeInactive
	}

	token, _, err := s.authSvc.GenerateToken(employee.ID, employee.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return token, employee, nil
}
