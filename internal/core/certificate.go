package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/vinotinto/certificados/internal/model"
	"github.com/vinotinto/certificados/internal/pdf"
	"github.com/vinotinto/certificados/internal/platform"
	"github.com/vinotinto/certificados/internal/storage"
	"github.com/vinotinto/certificados/internal/template"
)

// ContactLookup resolves a contact record by cédula. Errors carry the
// failure taxonomy sentinels.
type ContactLookup func(ctx context.Context, cedula string) (*model.ContactRecord, error)

// CertificateService runs the full issuance pipeline and keeps the
// append-only issuance ledger. Every successful generation inserts a new
// row; reissuing for the same cédula is a new fact, never an update.
type CertificateService struct {
	db       DB
	lookup   ContactLookup
	renderer *template.Renderer
	pdf      pdf.Renderer
	store    storage.Store
	trainers *TrainerService
	logger   zerolog.Logger
	now      func() time.Time
}

// NewCertificateService creates a new CertificateService.
func NewCertificateService(db DB, lookup ContactLookup, renderer *template.Renderer, pdfRenderer pdf.Renderer, store storage.Store, trainers *TrainerService, logger zerolog.Logger) *CertificateService {
	return &CertificateService{
		db:       db,
		lookup:   lookup,
		renderer: renderer,
		pdf:      pdfRenderer,
		store:    store,
		trainers: trainers,
		logger:   logger,
		now:      time.Now,
	}
}

// GenerateParams holds the parameters for Generate.
type GenerateParams struct {
	Cedula    string
	ContactID *int64
	TrainerID *int64

	// Fields is the reviewed field set from the contact search form. When
	// present the certificate renders from it verbatim, edits included;
	// when empty the contact is resolved from the CRM.
	Fields map[string]string
}

// Generate renders the certificate, stores the PDF and records the
// issuance. The contact comes from the submitted field set when one is
// given, otherwise from a CRM lookup. Input validation fails before any
// lookup or database work, and a missing course name fails before any
// rendering. A render failure produces no artifact and no row; a ledger
// insert failure after the upload leaves the artifact in place.
func (s *CertificateService) Generate(ctx context.Context, params GenerateParams) (*model.IssuedCertificate, error) {
	cedula := strings.TrimSpace(params.Cedula)
	if cedula == "" {
		return nil, fmt.Errorf("cedula is required: %w", ErrValidation)
	}

	var contact *model.ContactRecord
	if len(params.Fields) > 0 {
		contact = contactFromFields(cedula, params.ContactID, params.Fields)
		if contact.FullName() == "" {
			return nil, fmt.Errorf("nombre_completo is required: %w", ErrValidation)
		}
	} else {
		var err error
		contact, err = s.lookup(ctx, cedula)
		if err != nil {
			return nil, err
		}
	}

	courseName := strings.TrimSpace(contact.Field("nombre_del_curso"))
	if courseName == "" {
		return nil, fmt.Errorf("nombre_del_curso is required: %w", ErrValidation)
	}

	var trainer *model.Trainer
	var err error
	if params.TrainerID != nil {
		trainer, err = s.trainers.GetByID(ctx, *params.TrainerID)
		if err != nil {
			// The default signer from the issuer profile still applies.
			s.logger.Warn().Err(err).Int64("trainer_id", *params.TrainerID).Msg("trainer lookup failed, using default signer")
			trainer = nil
		}
	}

	// The verification code is the ministry-issued course ID, not an
	// identifier of our own. Certificates without one print no code.
	validationID := strings.TrimSpace(contact.Field("id_ministerio_del_curso"))
	html, err := s.renderer.Render(contact, trainer, validationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	pdfBytes, err := s.pdf.RenderPDF(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	filename := certificateFilename(contact.FullName(), courseName, s.now())
	url, err := s.store.Put(ctx, filename, pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: storing certificate: %w", ErrPersist, err)
	}

	cert := &model.IssuedCertificate{
		Cedula:     contact.Field("cedula"),
		CourseName: courseName,
		Filename:   filename,
		URL:        url,
	}
	if cert.Cedula == "" {
		cert.Cedula = cedula
	}
	if contact.ID != 0 {
		id := contact.ID
		cert.ContactID = &id
	}
	if validationID != "" {
		cert.ValidationID = &validationID
	}
	err = s.db.QueryRow(ctx,
		`INSERT INTO issued_certificates (cedula, contact_id, course_name, filename, url, validation_id, issued_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 RETURNING id, issued_at`,
		cert.Cedula, cert.ContactID, cert.CourseName, cert.Filename, cert.URL, cert.ValidationID,
	).Scan(&cert.ID, &cert.IssuedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: insert issued certificate: %w", ErrPersist, err)
	}

	s.logger.Info().
		Int64("certificate_id", cert.ID).
		Str("cedula", cert.Cedula).
		Str("filename", filename).
		Msg("certificate issued")
	return cert, nil
}

// certificateFilename builds the artifact name from the student, the course
// and the issuance instant, so repeated generations never collide on disk.
func certificateFilename(studentName, courseName string, issuedAt time.Time) string {
	student := platform.Slugify(studentName)
	if student == "" {
		student = "alumno"
	}
	course := platform.Slugify(courseName)
	if course == "" {
		course = "curso"
	}
	return fmt.Sprintf("Certificado-%s-%s-%s.pdf", student, course, issuedAt.Format("20060102-150405"))
}

// contactFromFields builds the record the renderer consumes from a
// submitted field set. nombre_completo and email are identity fields,
// everything else passes through as a custom field keyed as submitted.
func contactFromFields(cedula string, contactID *int64, fields map[string]string) *model.ContactRecord {
	rec := &model.ContactRecord{CustomFields: make(map[string]string, len(fields))}
	if contactID != nil {
		rec.ID = *contactID
	}
	for key, value := range fields {
		switch key {
		case "nombre_completo":
			rec.FirstName = strings.TrimSpace(value)
		case "email":
			rec.Email = value
		default:
			rec.CustomFields[key] = value
		}
	}
	if rec.Field("cedula") == "" {
		rec.CustomFields["cedula"] = cedula
	}
	return rec
}

// ListByCedula returns every certificate ever issued for a cédula, newest
// first.
func (s *CertificateService) ListByCedula(ctx context.Context, cedula string) ([]model.IssuedCertificate, error) {
	if strings.TrimSpace(cedula) == "" {
		return nil, fmt.Errorf("cedula is required: %w", ErrValidation)
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, cedula, contact_id, course_name, filename, url, validation_id, issued_at
		 FROM issued_certificates WHERE cedula = $1 ORDER BY issued_at DESC`, cedula)
	if err != nil {
		return nil, fmt.Errorf("list certificates for %s: %w", cedula, err)
	}
	defer rows.Close()

	var certs []model.IssuedCertificate
	for rows.Next() {
		var c model.IssuedCertificate
		if err := rows.Scan(&c.ID, &c.Cedula, &c.ContactID, &c.CourseName, &c.Filename, &c.URL, &c.ValidationID, &c.IssuedAt); err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

// GetByID retrieves a single issued certificate.
func (s *CertificateService) GetByID(ctx context.Context, id int64) (*model.IssuedCertificate, error) {
	var c model.IssuedCertificate
	err := s.db.QueryRow(ctx,
		`SELECT id, cedula, contact_id, course_name, filename, url, validation_id, issued_at
		 FROM issued_certificates WHERE id = $1`, id,
	).Scan(&c.ID, &c.Cedula, &c.ContactID, &c.CourseName, &c.Filename, &c.URL, &c.ValidationID, &c.IssuedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("certificate %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get certificate %d: %w", id, err)
	}
	return &c, nil
}

// Delete removes the ledger row and then the stored artifact. A failure to
// remove the artifact is logged but does not fail the operation; the row is
// already gone.
func (s *CertificateService) Delete(ctx context.Context, id int64) error {
	cert, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM issued_certificates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete certificate %d: %w", ErrPersist, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("certificate %d: %w", id, ErrNotFound)
	}
	if err := s.store.Delete(ctx, cert.Filename); err != nil {
		s.logger.Warn().Err(err).Str("filename", cert.Filename).Msg("certificate artifact removal failed")
	}
	return nil
}

// StudentCertificates returns the public projection of a student's
// certificates, suitable for the self-serve lookup.
func (s *CertificateService) StudentCertificates(ctx context.Context, cedula string) ([]model.StudentCertificate, error) {
	certs, err := s.ListByCedula(ctx, cedula)
	if err != nil {
		return nil, err
	}
	public := make([]model.StudentCertificate, 0, len(certs))
	for _, c := range certs {
		public = append(public, model.StudentCertificate{
			CourseName:   c.CourseName,
			Filename:     c.Filename,
			URL:          c.URL,
			IssuedAt:     c.IssuedAt.Format("02/01/2006"),
			ValidationID: c.ValidationID,
		})
	}
	return public, nil
}
