package models

import "time"

// User is an operator account. Only admins may change records.
type User struct {
	ID           int64      `json:"id" db:"id" example:"1"`
	Name         string     `json:"name" db:"name" example:"Jane Cruz"`
	Email        string     `json:"email" db:"email" example:"jcruz@university.edu"`
	Password     string     `json:"-" db:"password"`
	Role         Role       `json:"role" db:"role" example:"admin"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
	LastLogoutAt *time.Time `json:"last_logout_at" db:"last_logout_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
