package dto

// UserFilterRequest represents user filtering parameters
type UserFilterRequest struct {
	Role     *string `form:"role"`
	Search   string  `form:"search"`
	Page     int     `form:"page,default=1" binding:"min=1"`
	PageSize int     `form:"pageSize,default=20" binding:"min=1,max=100"`
}

// UserListResponse represents a list of users with pagination
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}

// UpdateUserRequest represents user update data. Nil fields are left untouched.
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Password  *string `json:"password,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// RoleListResponse represents the fixed role set
type RoleListResponse struct {
	Roles []string `json:"roles"`
}

// UserStatsResponse represents aggregate account counts by role
type UserStatsResponse struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalAdmins   int64 `json:"totalAdmins"`
	TotalTeachers int64 `json:"totalTeachers"`
	TotalStudents int64 `json:"totalStudents"`
	ActiveUsers   int64 `json:"activeUsers"`
}
