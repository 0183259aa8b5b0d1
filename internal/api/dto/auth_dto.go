package dto

import (
	"time"

	"github.com/spec-kit/support-copilot/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse response.
type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Executive ExecutiveResponse `json:"executive"`
}

// RegisterRequest payload.
type RegisterRequest struct {
	Name     string               `json:"name"`
	Email    string               `json:"email"`
	Password string               `json:"password"`
	Role     domain.ExecutiveRole `json:"role"`
}

// ExecutiveResponse response.
type ExecutiveResponse struct {
	ID    string               `json:"id"`
	Name  string               `json:"name"`
	Email string               `json:"email"`
	Role  domain.ExecutiveRole `json:"role"`
}

// NewExecutiveResponse maps an executive.
func NewExecutiveResponse(exec *domain.SupportExecutive) ExecutiveResponse {
	return ExecutiveResponse{
		ID:    exec.ID,
		Name:  exec.Name,
		Email: exec.Email,
		Role:  exec.Role,
	}
}
