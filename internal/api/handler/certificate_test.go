package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCertificateGenerate_InvalidJSON(t *testing.T) {
	h := NewCertificate(nil)
	rec := httptest.NewRecorder()
	r := newRequestRaw(http.MethodPost, "/api/v1/certificates", "{bad json")

	h.Generate(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "invalid JSON")
}

func TestCertificateGenerate_MissingCedula(t *testing.T) {
	h := NewCertificate(nil)
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/api/v1/certificates", map[string]any{})

	h.Generate(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "validation error")
}

func TestCertificateGenerate_NegativeTrainerID(t *testing.T) {
	h := NewCertificate(nil)
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/api/v1/certificates", map[string]any{
		"cedula":     "123456789",
		"trainer_id": -4,
	})

	h.Generate(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCertificateGet_InvalidID(t *testing.T) {
	h := NewCertificate(nil)
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodGet, "/api/v1/certificates/abc", nil)
	r = withChiURLParam(r, "id", "abc")

	h.Get(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "invalid ID")
}

func TestCertificateDelete_MissingID(t *testing.T) {
	h := NewCertificate(nil)
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodDelete, "/api/v1/certificates/", nil)
	r = withChiURLParam(r, "id", "")

	h.Delete(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "missing required ID")
}
