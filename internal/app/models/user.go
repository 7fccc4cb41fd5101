package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Username  string    `json:"username" db:"username" example:"jdoe"`                    // Unique login name
	Email     string    `json:"email" db:"email" example:"jdoe@example.com"`              // User's email address
	Password  string    `json:"-" db:"password"`                                          // User's hashed password (excluded from JSON)
	FirstName string    `json:"firstName" db:"first_name" example:"John"`                 // User's first name
	LastName  string    `json:"lastName" db:"last_name" example:"Doe"`                    // User's last name
	Role      RoleType  `json:"role" db:"role" example:"student"`                         // User's role name (resolved from the roles table)
	RoleID    int64     `json:"-" db:"role_id"`                                           // Foreign key to the roles table
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`                   // Whether the user account is active
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the user was created
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"` // Timestamp when the user was last updated
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return ""
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
