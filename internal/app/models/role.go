package models

// RoleType defines the user role type. The role set is fixed: the roles
// table is seeded before any account references it and never mutated at
// runtime.
type RoleType string

const (
	RoleAdmin   RoleType = "admin"
	RoleTeacher RoleType = "teacher"
	RoleStudent RoleType = "student"
)

// AllRoles lists every role in seed order.
var AllRoles = []RoleType{RoleAdmin, RoleTeacher, RoleStudent}

// Role defines the role model based on the 'roles' table
type Role struct {
	ID   int64    `json:"id" db:"id" example:"1"`
	Name RoleType `json:"name" db:"name" example:"student"`
}

// RoleFromName looks up a role by its name.
func RoleFromName(name string) (RoleType, bool) {
	switch RoleType(name) {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return RoleType(name), true
	}
	return "", false
}

// IsValid reports whether the role is one of the fixed set.
func (r RoleType) IsValid() bool {
	_, ok := RoleFromName(string(r))
	return ok
}
