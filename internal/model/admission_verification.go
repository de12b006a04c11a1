package model

import "time"

// AdmissionVerification records an administrator's confirmation that a
// contact's enrollment data is acceptable. The table is an insert-only log;
// multiple verifications per cedula are legitimate.
type AdmissionVerification struct {
	ID           int64     `json:"id" db:"id"`
	Cedula       string    `json:"cedula" db:"cedula"`
	ContactID    *int64    `json:"contact_id,omitempty" db:"contact_id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	CourseName   string    `json:"course_name" db:"course_name"`
	CourseStage  string    `json:"course_stage" db:"course_stage"`
	EmployerNIT  string    `json:"employer_nit" db:"employer_nit"`
	EmployerName string    `json:"employer_name" db:"employer_name"`
	VerifiedAt   time.Time `json:"verified_at" db:"verified_at"`
}
