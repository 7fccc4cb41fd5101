package dto

import (
	"github.com/okandemir/studenthub/internal/app/models"
	"github.com/okandemir/studenthub/internal/pkg/helpers"
)

// CreateStudentRequest represents the payload for creating a student account
// together with its profile.
type CreateStudentRequest struct {
	Username      string  `json:"username" binding:"required,min=3,max=50"`
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"required,min=8"`
	FirstName     string  `json:"firstName" binding:"required"`
	LastName      string  `json:"lastName" binding:"required"`
	DateOfBirth   string  `json:"dateOfBirth" binding:"required"`
	Gender        *string `json:"gender,omitempty"`
	Address       *string `json:"address,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	AdmissionDate *string `json:"admissionDate,omitempty"`
}

// UpdateStudentRequest represents a partial update of a student record.
// Nil fields are left untouched.
type UpdateStudentRequest struct {
	Email       *string `json:"email,omitempty"`
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

// StudentFilterRequest represents student listing and search parameters
type StudentFilterRequest struct {
	Search   string  `form:"search"`
	Gender   *string `form:"gender"`
	Page     int     `form:"page,default=1" binding:"min=1"`
	PageSize int     `form:"pageSize,default=20" binding:"min=1,max=100"`
}

// StudentResponse represents a student profile joined with its account
type StudentResponse struct {
	ID            int64   `json:"id"`
	StudentID     string  `json:"studentId"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	DateOfBirth   string  `json:"dateOfBirth"`
	Gender        *string `json:"gender,omitempty"`
	Address       *string `json:"address,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	AdmissionDate string  `json:"admissionDate"`
	IsActive      bool    `json:"isActive"`
}

// StudentListResponse represents a list of students with pagination
type StudentListResponse struct {
	Students   []StudentResponse `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}

// FromStudentProfile converts a models.StudentProfile to a StudentResponse
func FromStudentProfile(profile *models.StudentProfile) StudentResponse {
	if profile == nil {
		return StudentResponse{}
	}

	resp := StudentResponse{
		ID:            profile.ID,
		StudentID:     profile.StudentID,
		DateOfBirth:   helpers.FormatDateOnly(profile.DateOfBirth),
		Gender:        profile.Gender,
		Address:       profile.Address,
		Phone:         profile.Phone,
		AdmissionDate: helpers.FormatDateOnly(profile.AdmissionDate),
	}

	if profile.User != nil {
		resp.Username = profile.User.Username
		resp.Email = profile.User.Email
		resp.FirstName = profile.User.FirstName
		resp.LastName = profile.User.LastName
		resp.IsActive = profile.User.IsActive
	}

	return resp
}
