package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vinotinto/certificados/internal/model"
	"github.com/vinotinto/certificados/internal/template"
)

type fakePDF struct {
	calls int
	err   error
}

func (f *fakePDF) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 fake"), nil
}

type fakeStore struct {
	puts    []string
	deletes []string
	putErr  error
	delErr  error
}

func (f *fakeStore) Put(ctx context.Context, filename string, data []byte) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.puts = append(f.puts, filename)
	return "https://example.com/certificados/" + filename, nil
}

func (f *fakeStore) Delete(ctx context.Context, filename string) error {
	f.deletes = append(f.deletes, filename)
	return f.delErr
}

type certFixture struct {
	db      *mockDB
	pdf     *fakePDF
	store   *fakeStore
	lookups int
	svc     *CertificateService
}

func newCertFixture(t *testing.T, contact *model.ContactRecord, lookupErr error) *certFixture {
	t.Helper()
	renderer, err := template.NewRenderer(template.DefaultIssuerProfile())
	require.NoError(t, err)

	fx := &certFixture{db: &mockDB{}, pdf: &fakePDF{}, store: &fakeStore{}}
	lookup := func(ctx context.Context, cedula string) (*model.ContactRecord, error) {
		fx.lookups++
		if lookupErr != nil {
			return nil, lookupErr
		}
		return contact, nil
	}
	fx.svc = NewCertificateService(fx.db, lookup, renderer, fx.pdf, fx.store, NewTrainerService(fx.db), zerolog.Nop())
	fx.svc.now = func() time.Time { return time.Date(2026, 8, 20, 15, 4, 5, 0, time.UTC) }
	return fx
}

func testContact() *model.ContactRecord {
	return &model.ContactRecord{
		ID:        42,
		FirstName: "María",
		LastName:  "Pérez",
		CustomFields: map[string]string{
			"cedula":           "123456789",
			"nombre_del_curso": "Trabajo en Alturas",
		},
	}
}

func insertCertificateRow(id int64) *mockRow {
	return &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*int64)) = id
		*(dest[1].(*time.Time)) = time.Date(2026, 8, 20, 15, 4, 6, 0, time.UTC)
		return nil
	}}
}

func TestCertificateGenerate(t *testing.T) {
	fx := newCertFixture(t, testContact(), nil)
	fx.db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(insertCertificateRow(1))

	cert, err := fx.svc.Generate(context.Background(), GenerateParams{Cedula: "123456789"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), cert.ID)
	assert.Equal(t, "123456789", cert.Cedula)
	assert.Equal(t, "Trabajo en Alturas", cert.CourseName)
	assert.Equal(t, "Certificado-maria-perez-trabajo-en-alturas-20260820-150405.pdf", cert.Filename)
	assert.Equal(t, "https://example.com/certificados/"+cert.Filename, cert.URL)
	require.NotNil(t, cert.ContactID)
	assert.Equal(t, int64(42), *cert.ContactID)
	assert.Nil(t, cert.ValidationID)
	assert.Len(t, fx.store.puts, 1)
	fx.db.AssertExpectations(t)
}

func TestCertificateGenerateValidationIDFromContact(t *testing.T) {
	contact := testContact()
	contact.CustomFields["id_ministerio_del_curso"] = "MIN-2024-00417"
	fx := newCertFixture(t, contact, nil)
	fx.db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(insertCertificateRow(1))

	cert, err := fx.svc.Generate(context.Background(), GenerateParams{Cedula: "123456789"})
	require.NoError(t, err)
	require.NotNil(t, cert.ValidationID)
	assert.Equal(t, "MIN-2024-00417", *cert.ValidationID)
}

func TestCertificateGenerateFromSubmittedFields(t *testing.T) {
	fx := newCertFixture(t, testContact(), nil)
	fx.db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(insertCertificateRow(3))

	contactID := int64(42)
	cert, err := fx.svc.Generate(context.Background(), GenerateParams{
		Cedula:    "123456789",
		ContactID: &contactID,
		Fields: map[string]string{
			"nombre_completo":         "Carlos Ruiz",
			"nombre_del_curso":        "Espacios Confinados",
			"id_ministerio_del_curso": "MIN-2024-00901",
		},
	})
	require.NoError(t, err)
	assert.Zero(t, fx.lookups)
	assert.Equal(t, "Espacios Confinados", cert.CourseName)
	assert.Equal(t, "Certificado-carlos-ruiz-espacios-confinados-20260820-150405.pdf", cert.Filename)
	require.NotNil(t, cert.ContactID)
	assert.Equal(t, int64(42), *cert.ContactID)
	require.NotNil(t, cert.ValidationID)
	assert.Equal(t, "MIN-2024-00901", *cert.ValidationID)
}

func TestCertificateGenerateSubmittedFieldsEditsWin(t *testing.T) {
	fx := newCertFixture(t, testContact(), nil)
	fx.db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(insertCertificateRow(4))

	cert, err := fx.svc.Generate(context.Background(), GenerateParams{
		Cedula: "123456789",
		Fields: map[string]string{
			"nombre_completo":  "María Pérez",
			"nombre_del_curso": "Alturas Avanzado Nivel 2",
		},
	})
	require.NoError(t, err)
	assert.Zero(t, fx.lookups)
	assert.Equal(t, "Alturas Avanzado Nivel 2", cert.CourseName)
}

func TestCertificateGenerateSubmittedFieldsMissingName(t *testing.T) {
	fx := newCertFixture(t, testContact(), nil)

	_, err := fx.svc.Generate(context.Background(), GenerateParams{
		Cedula: "123456789",
		Fields: map[string]string{"nombre_del_curso": "Alturas"},
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, fx.pdf.calls)
	assert.Empty(t, fx.store.puts)
}

func TestCertificateGenerateMissingCourseShortCircuits(t *testing.T) {
	contact := testContact()
	delete(contact.CustomFields, "nombre_del_curso")
	fx := newCertFixture(t, contact, nil)

	_, err := fx.svc.Generate(context.Background(), GenerateParams{Cedula: "123456789"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, fx.pdf.calls)
	assert.Empty(t, fx.store.puts)
	fx.db.AssertNotCalled(t, "QueryRow", mock.Anything, mock.Anything, mock.Anything)
}

func TestCertificateGenerateEmptyCedulaShortCircuits(t *testing.T) {
	fx := newCertFixture(t, testContact(), nil)

	_, err := fx.svc.Generate(context.Background(), GenerateParams{Cedula: "   "})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, fx.lookups)
	assert.Zero(t, fx.pdf.calls)
	fx.db.AssertNotCalled(t, "QueryRow", mock.Anything, mock.Anything, mock.Anything)
}

func TestCertificateGenerateTwiceInsertsTwoRows(t *testing.T) {
	fx := newCertFixture(t, testContact(), nil)
	fx.db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(insertCertificateRow(1)).Once()
	fx.db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(insertCertificateRow(2)).Once()

	first, err := fx.svc.Generate(context.Background(), GenerateParams{Cedula: "123456789"})
	require.NoError(t, err)
	second, err := fx.svc.Generate(context.Background(), GenerateParams{Cedula: "123456789"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Len(t, fx.store.puts, 2)
	fx.db.AssertExpectations(t)
}

func TestCertificateGenerateLookupFailurePropagates(t *testing.T) {
	fx := newCertFixture(t, nil, ErrNotFound)

	_, err := fx.svc.Generate(context.Background(), GenerateParams{Cedula: "99999"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, fx.pdf.calls)
}

func TestCertificateGeneratePDFFailure(t *testing.T) {
	fx := newCertFixture(t, testContact(), nil)
	fx.pdf.err = errors.New("chromium crashed")

	_, err := fx.svc.Generate(context.Background(), GenerateParams{Cedula: "123456789"})
	assert.ErrorIs(t, err, ErrRender)
	assert.Empty(t, fx.store.puts)
	fx.db.AssertNotCalled(t, "QueryRow", mock.Anything, mock.Anything, mock.Anything)
}

func TestCertificateGenerateStoreFailure(t *testing.T) {
	fx := newCertFixture(t, testContact(), nil)
	fx.store.putErr = errors.New("disk full")

	_, err := fx.svc.Generate(context.Background(), GenerateParams{Cedula: "123456789"})
	assert.ErrorIs(t, err, ErrPersist)
	fx.db.AssertNotCalled(t, "QueryRow", mock.Anything, mock.Anything, mock.Anything)
}

func TestCertificateListByCedula(t *testing.T) {
	fx := newCertFixture(t, testContact(), nil)
	issuedAt := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	rows := newMockRows(func(dest ...any) error {
		*(dest[0].(*int64)) = 7
		*(dest[1].(*string)) = "123456789"
		*(dest[3].(*string)) = "Alturas"
		*(dest[4].(*string)) = "Certificado-maria-perez-alturas-20260820-100000.pdf"
		*(dest[5].(*string)) = "https://example.com/c.pdf"
		*(dest[7].(*time.Time)) = issuedAt
		return nil
	})
	fx.db.On("Query", mock.Anything, mock.Anything, mock.Anything).Return(rows, nil)

	certs, err := fx.svc.ListByCedula(context.Background(), "123456789")
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, int64(7), certs[0].ID)
	assert.Equal(t, "Alturas", certs[0].CourseName)
}

func TestCertificateListByCedulaEmptyCedula(t *testing.T) {
	fx := newCertFixture(t, testContact(), nil)
	_, err := fx.svc.ListByCedula(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCertificateGetByIDNotFound(t *testing.T) {
	fx := newCertFixture(t, testContact(), nil)
	fx.db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).
		Return(&mockRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }})

	_, err := fx.svc.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCertificateDelete(t *testing.T) {
	fx := newCertFixture(t, testContact(), nil)
	fx.db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).
		Return(&mockRow{scanFunc: func(dest ...any) error {
			*(dest[0].(*int64)) = 7
			*(dest[4].(*string)) = "Certificado-x.pdf"
			return nil
		}})
	fx.db.On("Exec", mock.Anything, mock.Anything, mock.Anything).
		Return(pgconnCommandTag("DELETE 1"), nil)

	require.NoError(t, fx.svc.Delete(context.Background(), 7))
	assert.Equal(t, []string{"Certificado-x.pdf"}, fx.store.deletes)
}

func TestCertificateDeleteArtifactFailureIsBestEffort(t *testing.T) {
	fx := newCertFixture(t, testContact(), nil)
	fx.store.delErr = errors.New("object gone")
	fx.db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).
		Return(&mockRow{scanFunc: func(dest ...any) error {
			*(dest[0].(*int64)) = 7
			*(dest[4].(*string)) = "Certificado-x.pdf"
			return nil
		}})
	fx.db.On("Exec", mock.Anything, mock.Anything, mock.Anything).
		Return(pgconnCommandTag("DELETE 1"), nil)

	assert.NoError(t, fx.svc.Delete(context.Background(), 7))
}

func TestStudentCertificatesProjection(t *testing.T) {
	fx := newCertFixture(t, testContact(), nil)
	validationID := "val-123"
	rows := newMockRows(func(dest ...any) error {
		*(dest[0].(*int64)) = 7
		*(dest[1].(*string)) = "123456789"
		*(dest[3].(*string)) = "Alturas"
		*(dest[4].(*string)) = "cert.pdf"
		*(dest[5].(*string)) = "https://example.com/cert.pdf"
		*(dest[6].(**string)) = &validationID
		*(dest[7].(*time.Time)) = time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
		return nil
	})
	fx.db.On("Query", mock.Anything, mock.Anything, mock.Anything).Return(rows, nil)

	public, err := fx.svc.StudentCertificates(context.Background(), "123456789")
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "20/08/2026", public[0].IssuedAt)
	assert.Equal(t, "Alturas", public[0].CourseName)
	require.NotNil(t, public[0].ValidationID)
	assert.Equal(t, "val-123", *public[0].ValidationID)
}
