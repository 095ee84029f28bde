package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"eval-admin/internal/models"
	"eval-admin/internal/service"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the login response body
type LoginResponse struct {
	Token    string           `json:"token"`
	Employee *models.Employee `json:"employee"`
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates an employee
// @Summary Login
// @Description Authenticate with email and password, returns a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.Email == "" || req.Password == "" {
		JSONError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, employee, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrEmployeeInactive) {
			JSONError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	_ = JSONResponse(w, LoginResponse{Token: token, Employee: employee})
}
