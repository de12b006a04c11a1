package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vinotinto/certificados/internal/core"
	"github.com/vinotinto/certificados/internal/crm"
	"github.com/vinotinto/certificados/internal/model"
)

// CRM is the subset of the FluentCRM client the lookup needs.
type CRM interface {
	FindSubscriberIDByCedula(ctx context.Context, cedula string) (int64, error)
	Subscriber(ctx context.Context, id int64) (*crm.Subscriber, error)
}

// SlugSource enumerates the custom-field slugs the CRM schema currently
// defines. An empty list means no restriction.
type SlugSource interface {
	Known(ctx context.Context, forceRefresh bool) []string
}

// Service resolves contacts by cédula against the CRM.
type Service struct {
	crm    CRM
	slugs  SlugSource
	logger zerolog.Logger
}

func NewService(c CRM, slugs SlugSource, logger zerolog.Logger) *Service {
	return &Service{crm: c, slugs: slugs, logger: logger}
}

// FindByCedula searches the CRM for the subscriber whose cédula custom
// value matches, fetches the full record, and flattens its custom values
// into string fields. List values become a single comma-separated string.
// When the CRM record carries no cédula field of its own and the schema
// defines one (or no schema is known), the searched cédula is written into
// the record so templates always have one.
func (s *Service) FindByCedula(ctx context.Context, cedula string) (*model.ContactRecord, error) {
	if s.crm == nil {
		return nil, fmt.Errorf("crm client not configured: %w", core.ErrConfiguration)
	}

	id, err := s.crm.FindSubscriberIDByCedula(ctx, cedula)
	if err != nil {
		if errors.Is(err, crm.ErrNoRecords) {
			return nil, fmt.Errorf("no contact with cedula %s: %w", cedula, core.ErrNotFound)
		}
		return nil, fmt.Errorf("searching contact by cedula: %w: %w", core.ErrUpstream, err)
	}

	sub, err := s.crm.Subscriber(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching subscriber %d: %w: %w", id, core.ErrUpstream, err)
	}

	fields := flattenCustomValues(sub.CustomValues)
	if _, ok := resolveKey(fields, "cedula"); !ok && s.schemaDefines(ctx, "cedula") {
		fields["cedula"] = cedula
	}

	rec := &model.ContactRecord{
		ID:           sub.ID,
		FirstName:    sub.FirstName,
		LastName:     sub.LastName,
		Email:        sub.Email,
		CustomFields: make(map[string]string),
		ExtraFields:  make(map[string]string),
	}
	consumed := make(map[string]bool)
	for _, slug := range append([]string{"cedula"}, CanonicalSlugs...) {
		key, ok := resolveKey(fields, slug)
		if !ok {
			continue
		}
		rec.CustomFields[slug] = fields[key]
		consumed[key] = true
	}
	for slug, value := range fields {
		if !consumed[slug] {
			rec.ExtraFields[slug] = value
		}
	}

	s.logger.Debug().
		Int64("contact_id", rec.ID).
		Int("custom_fields", len(rec.CustomFields)).
		Int("extra_fields", len(rec.ExtraFields)).
		Msg("contact resolved")
	return rec, nil
}

// schemaDefines reports whether the CRM's field schema includes slug. With
// no slug source or an empty enumeration every slug is allowed.
func (s *Service) schemaDefines(ctx context.Context, slug string) bool {
	if s.slugs == nil {
		return true
	}
	known := s.slugs.Known(ctx, false)
	if len(known) == 0 {
		return true
	}
	for _, k := range known {
		if k == slug {
			return true
		}
	}
	return false
}

// flattenCustomValues coerces the CRM's loosely typed custom values into
// strings. Multi-select values arrive as lists and are joined with ", ".
func flattenCustomValues(values map[string]any) map[string]string {
	fields := make(map[string]string, len(values))
	for slug, raw := range values {
		fields[slug] = flattenValue(raw)
	}
	return fields
}

func flattenValue(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, flattenValue(item))
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
