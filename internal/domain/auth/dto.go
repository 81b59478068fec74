package auth

import "github.com/gate-garments/hrms-backend-go/internal/pkg/validator"

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validator.Struct(r).Err()
}

type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	ExpiresAt   int64   `json:"expires_at"`
	UserID      string  `json:"user_id"`
	Role        string  `json:"role"`
	EmployeeID  *string `json:"employee_id,omitempty"`
}
