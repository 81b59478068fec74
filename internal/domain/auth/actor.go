package auth

import "github.com/gate-garments/hrms-backend-go/internal/domain/user"

// Actor is the authenticated caller of a service operation. It is passed
// explicitly into every operation instead of being read from session state.
type Actor struct {
	UserID     string
	Role       user.Role
	EmployeeID *string
}

func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

// CanAccessEmployee reports whether the actor may read data owned by employeeID.
func (a Actor) CanAccessEmployee(employeeID string) bool {
	if a.IsAdmin() {
		return true
	}
	return a.EmployeeID != nil && *a.EmployeeID == employeeID
}

// RequireAdmin returns ErrForbidden unless the actor is an administrator.
func (a Actor) RequireAdmin() error {
	if !a.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
