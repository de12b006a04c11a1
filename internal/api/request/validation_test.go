package request

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCedula(t *testing.T) {
	assert.True(t, ValidCedula("12345"))
	assert.True(t, ValidCedula("123456789012"))
	assert.False(t, ValidCedula("1234"))
	assert.False(t, ValidCedula("1234567890123"))
	assert.False(t, ValidCedula("12345a"))
	assert.False(t, ValidCedula("123 45"))
	assert.False(t, ValidCedula(""))
}

func TestDecodeValidPayload(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"cedula":"123456789","token":"abc"}`))
	var req PublicCertificates
	require.NoError(t, Decode(r, &req))
	assert.Equal(t, "123456789", req.Cedula)
}

func TestDecodeRejectsBadJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{bad`))
	var req SearchContact
	err := Decode(r, &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestDecodeRejectsNonNumericCedulaOnPublicPayload(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"cedula":"abc123","token":"abc"}`))
	var req PublicCertificates
	err := Decode(r, &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation error")
}

func TestRequireInt64ID(t *testing.T) {
	id, err := RequireInt64ID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = RequireInt64ID("")
	assert.Error(t, err)
	_, err = RequireInt64ID("abc")
	assert.Error(t, err)
	_, err = RequireInt64ID("-1")
	assert.Error(t, err)
}
