package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vinotinto/certificados/internal/model"
)

// VerificationService keeps the append-only admission verification ledger.
// Each verification snapshots the contact's identity and course fields at
// the moment of the check, so later CRM edits never rewrite history.
type VerificationService struct {
	db     DB
	lookup ContactLookup
	logger zerolog.Logger
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(db DB, lookup ContactLookup, logger zerolog.Logger) *VerificationService {
	return &VerificationService{db: db, lookup: lookup, logger: logger}
}

// Record verifies the contact's admission and appends a row to the ledger.
// Repeating the check for the same cédula appends again.
func (s *VerificationService) Record(ctx context.Context, cedula string) (*model.AdmissionVerification, error) {
	cedula = strings.TrimSpace(cedula)
	if cedula == "" {
		return nil, fmt.Errorf("cedula is required: %w", ErrValidation)
	}

	contact, err := s.lookup(ctx, cedula)
	if err != nil {
		return nil, err
	}

	v := &model.AdmissionVerification{
		Cedula:       contact.Field("cedula"),
		ContactID:    &contact.ID,
		FirstName:    contact.FirstName,
		LastName:     contact.LastName,
		Email:        contact.Email,
		CourseName:   contact.Field("nombre_del_curso"),
		CourseStage:  contact.Field("etapa_del_curso"),
		EmployerNIT:  contact.Field("nit_de_la_empresa_emplead"),
		EmployerName: contact.Field("nombre_de_la_empresa_empl"),
	}
	if v.Cedula == "" {
		v.Cedula = cedula
	}
	err = s.db.QueryRow(ctx,
		`INSERT INTO admission_verifications
		 (cedula, contact_id, first_name, last_name, email, course_name, course_stage, employer_nit, employer_name, verified_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 RETURNING id, verified_at`,
		v.Cedula, v.ContactID, v.FirstName, v.LastName, v.Email, v.CourseName, v.CourseStage, v.EmployerNIT, v.EmployerName,
	).Scan(&v.ID, &v.VerifiedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: insert admission verification: %w", ErrPersist, err)
	}

	s.logger.Info().Int64("verification_id", v.ID).Str("cedula", v.Cedula).Msg("admission verified")
	return v, nil
}

// ListFilters narrows the verification listing. Zero values mean no filter.
type ListFilters struct {
	Cedula      string
	EmployerNIT string
	Limit       int
}

// List returns verifications newest first, optionally filtered by cédula
// and employer NIT.
func (s *VerificationService) List(ctx context.Context, filters ListFilters) ([]model.AdmissionVerification, error) {
	query := `SELECT id, cedula, contact_id, first_name, last_name, email, course_name, course_stage, employer_nit, employer_name, verified_at
		 FROM admission_verifications WHERE 1=1`
	args := []any{}
	argIdx := 1

	if filters.Cedula != "" {
		query += fmt.Sprintf(` AND cedula = $%d`, argIdx)
		args = append(args, filters.Cedula)
		argIdx++
	}
	if filters.EmployerNIT != "" {
		query += fmt.Sprintf(` AND employer_nit = $%d`, argIdx)
		args = append(args, filters.EmployerNIT)
		argIdx++
	}
	limit := filters.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query += fmt.Sprintf(` ORDER BY verified_at DESC LIMIT $%d`, argIdx)
	args = append(args, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list admission verifications: %w", err)
	}
	defer rows.Close()

	var verifications []model.AdmissionVerification
	for rows.Next() {
		var v model.AdmissionVerification
		if err := rows.Scan(&v.ID, &v.Cedula, &v.ContactID, &v.FirstName, &v.LastName, &v.Email, &v.CourseName, &v.CourseStage, &v.EmployerNIT, &v.EmployerName, &v.VerifiedAt); err != nil {
			return nil, fmt.Errorf("scan admission verification: %w", err)
		}
		verifications = append(verifications, v)
	}
	return verifications, rows.Err()
}
