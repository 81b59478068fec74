package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // HR / factory administration
	RoleEmployee Role = "employee" // Self-service only
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	EmployeeID   *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user has administrative access
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
