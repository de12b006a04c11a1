package model

import "time"

// Trainer is an instructor whose name, license and signature appear on
// generated certificates.
type Trainer struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	License      string    `json:"license" db:"license"`
	SignatureURL string    `json:"signature_url" db:"signature_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
