package models

import (
	"time"
)

// StudentProfile defines the student model based on the 'students' table.
// Exactly one profile exists per account; student_id is assigned once and
// never changes.
type StudentProfile struct {
	ID            int64     `json:"id" db:"id" example:"1"`                             // Unique identifier for the student record
	UserID        int64     `json:"userId" db:"user_id" example:"5"`                    // ID of the owning user account (unique)
	StudentID     string    `json:"studentId" db:"student_id" example:"240001"`         // Derived student identifier: two-digit year + 4-digit sequence
	DateOfBirth   time.Time `json:"dateOfBirth" db:"date_of_birth"`                     // Date of birth
	Gender        *string   `json:"gender,omitempty" db:"gender" example:"Female"`      // Optional gender
	Address       *string   `json:"address,omitempty" db:"address"`                     // Optional address
	Phone         *string   `json:"phone,omitempty" db:"phone" example:"+15551234567"`  // Optional phone number
	AdmissionDate time.Time `json:"admissionDate" db:"admission_date"`                  // Admission date; defaults to creation day
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`                          // Timestamp when the record was created
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`                          // Timestamp when the record was last updated

	// Relation (populated on composed reads)
	User *User `json:"user,omitempty"`
}
