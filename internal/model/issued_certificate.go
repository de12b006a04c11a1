package model

import "time"

// IssuedCertificate is one row of the append-only issuance ledger. A row is
// written once per successfully generated PDF and never updated; deletion is
// an explicit administrator action.
type IssuedCertificate struct {
	ID           int64     `json:"id" db:"id"`
	Cedula       string    `json:"cedula" db:"cedula"`
	ContactID    *int64    `json:"contact_id,omitempty" db:"contact_id"`
	CourseName   string    `json:"course_name" db:"course_name"`
	Filename     string    `json:"filename" db:"filename"`
	URL          string    `json:"url" db:"url"`
	IssuedAt     time.Time `json:"issued_at" db:"issued_at"`
	ValidationID *string   `json:"validation_id,omitempty" db:"validation_id"`
}

// StudentCertificate is the public projection of an issued certificate
// returned to students looking up their own records.
type StudentCertificate struct {
	CourseName   string  `json:"course_name"`
	Filename     string  `json:"filename"`
	URL          string  `json:"url"`
	IssuedAt     string  `json:"issued_at"`
	ValidationID *string `json:"validation_id,omitempty"`
}
