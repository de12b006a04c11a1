package core

import (
	"github.com/rs/zerolog"

	"github.com/vinotinto/certificados/internal/pdf"
	"github.com/vinotinto/certificados/internal/storage"
	"github.com/vinotinto/certificados/internal/template"
)

// Services bundles the service layer for handler wiring.
type Services struct {
	Certificate  *CertificateService
	Verification *VerificationService
	Trainer      *TrainerService
	APIKey       *APIKeyService
	Dashboard    *DashboardService
}

// NewServices wires the service layer around a database pool, the CRM
// contact lookup and the rendering pipeline.
func NewServices(db DB, lookup ContactLookup, renderer *template.Renderer, pdfRenderer pdf.Renderer, store storage.Store, logger zerolog.Logger) *Services {
	trainers := NewTrainerService(db)
	return &Services{
		Certificate:  NewCertificateService(db, lookup, renderer, pdfRenderer, store, trainers, logger),
		Verification: NewVerificationService(db, lookup, logger),
		Trainer:      trainers,
		APIKey:       NewAPIKeyService(db),
		Dashboard:    NewDashboardService(db),
	}
}
