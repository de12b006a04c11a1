package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinotinto/certificados/internal/core"
	"github.com/vinotinto/certificados/internal/crm"
)

type fakeCRM struct {
	searchID   int64
	searchErr  error
	subscriber *crm.Subscriber
	subErr     error
}

func (f *fakeCRM) FindSubscriberIDByCedula(ctx context.Context, cedula string) (int64, error) {
	return f.searchID, f.searchErr
}

func (f *fakeCRM) Subscriber(ctx context.Context, id int64) (*crm.Subscriber, error) {
	return f.subscriber, f.subErr
}

func TestFindByCedula(t *testing.T) {
	svc := NewService(&fakeCRM{
		searchID: 42,
		subscriber: &crm.Subscriber{
			ID:        42,
			FirstName: "María",
			LastName:  "Pérez",
			Email:     "maria@example.com",
			CustomValues: map[string]any{
				"cedula":           "123456789",
				"nombre_del_curso": "Alturas",
				"campo_interno":    "x",
			},
		},
	}, nil, zerolog.Nop())

	rec, err := svc.FindByCedula(context.Background(), "123456789")
	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.ID)
	assert.Equal(t, "María Pérez", rec.FullName())
	assert.Equal(t, "Alturas", rec.Field("nombre_del_curso"))
	assert.Equal(t, "123456789", rec.Field("cedula"))
	assert.Equal(t, "x", rec.ExtraFields["campo_interno"])
	assert.NotContains(t, rec.CustomFields, "campo_interno")
}

func TestFindByCedulaSynthesizesCedula(t *testing.T) {
	svc := NewService(&fakeCRM{
		searchID: 7,
		subscriber: &crm.Subscriber{
			ID:           7,
			FirstName:    "Juan",
			CustomValues: map[string]any{"nombre_del_curso": "Espacios Confinados"},
		},
	}, nil, zerolog.Nop())

	rec, err := svc.FindByCedula(context.Background(), "98765")
	require.NoError(t, err)
	assert.Equal(t, "98765", rec.Field("cedula"))
}

type fakeSlugSource struct {
	slugs []string
	calls int
}

func (f *fakeSlugSource) Known(ctx context.Context, forceRefresh bool) []string {
	f.calls++
	return f.slugs
}

func TestFindByCedulaSynthesisGatedBySchema(t *testing.T) {
	crmFake := &fakeCRM{
		searchID: 7,
		subscriber: &crm.Subscriber{
			ID:           7,
			FirstName:    "Juan",
			CustomValues: map[string]any{"nombre_del_curso": "Espacios Confinados"},
		},
	}

	// The schema defines no cedula field, so none is synthesized.
	slugs := &fakeSlugSource{slugs: []string{"nombre_del_curso"}}
	rec, err := NewService(crmFake, slugs, zerolog.Nop()).FindByCedula(context.Background(), "98765")
	require.NoError(t, err)
	assert.Empty(t, rec.Field("cedula"))
	assert.Equal(t, 1, slugs.calls)

	// A schema that defines cedula allows synthesis.
	slugs = &fakeSlugSource{slugs: []string{"cedula", "nombre_del_curso"}}
	rec, err = NewService(crmFake, slugs, zerolog.Nop()).FindByCedula(context.Background(), "98765")
	require.NoError(t, err)
	assert.Equal(t, "98765", rec.Field("cedula"))

	// An empty enumeration means no restriction.
	rec, err = NewService(crmFake, &fakeSlugSource{}, zerolog.Nop()).FindByCedula(context.Background(), "98765")
	require.NoError(t, err)
	assert.Equal(t, "98765", rec.Field("cedula"))
}

func TestFindByCedulaSchemaNotConsultedWhenFieldPresent(t *testing.T) {
	slugs := &fakeSlugSource{slugs: []string{"nombre_del_curso"}}
	svc := NewService(&fakeCRM{
		searchID: 7,
		subscriber: &crm.Subscriber{
			ID:           7,
			CustomValues: map[string]any{"cedula": "11111"},
		},
	}, slugs, zerolog.Nop())

	rec, err := svc.FindByCedula(context.Background(), "11111")
	require.NoError(t, err)
	assert.Equal(t, "11111", rec.Field("cedula"))
	assert.Zero(t, slugs.calls)
}

func TestFindByCedulaJoinsListValues(t *testing.T) {
	svc := NewService(&fakeCRM{
		searchID: 7,
		subscriber: &crm.Subscriber{
			ID: 7,
			CustomValues: map[string]any{
				"seguridad_social": []any{"EPS Sura", "ARL Bolívar"},
			},
		},
	}, nil, zerolog.Nop())

	rec, err := svc.FindByCedula(context.Background(), "11111")
	require.NoError(t, err)
	assert.Equal(t, "EPS Sura, ARL Bolívar", rec.Field("seguridad_social"))
}

func TestFindByCedulaDashVariantLandsInCustomFields(t *testing.T) {
	svc := NewService(&fakeCRM{
		searchID: 9,
		subscriber: &crm.Subscriber{
			ID: 9,
			CustomValues: map[string]any{
				"nombre-del-curso": "Trabajo en Alturas",
			},
		},
	}, nil, zerolog.Nop())

	rec, err := svc.FindByCedula(context.Background(), "22222")
	require.NoError(t, err)
	assert.Equal(t, "Trabajo en Alturas", rec.Field("nombre_del_curso"))
}

func TestFindByCedulaNotFound(t *testing.T) {
	svc := NewService(&fakeCRM{searchErr: crm.ErrNoRecords}, nil, zerolog.Nop())

	_, err := svc.FindByCedula(context.Background(), "55555")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestFindByCedulaUpstreamFailure(t *testing.T) {
	svc := NewService(&fakeCRM{searchErr: errors.New("connection refused")}, nil, zerolog.Nop())

	_, err := svc.FindByCedula(context.Background(), "55555")
	assert.ErrorIs(t, err, core.ErrUpstream)
}

func TestFindByCedulaSubscriberFetchFailure(t *testing.T) {
	svc := NewService(&fakeCRM{searchID: 3, subErr: errors.New("status 500")}, nil, zerolog.Nop())

	_, err := svc.FindByCedula(context.Background(), "55555")
	assert.ErrorIs(t, err, core.ErrUpstream)
}

func TestFindByCedulaWithoutClient(t *testing.T) {
	svc := NewService(nil, nil, zerolog.Nop())

	_, err := svc.FindByCedula(context.Background(), "55555")
	assert.ErrorIs(t, err, core.ErrConfiguration)
}
