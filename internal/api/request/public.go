package request

// PublicCertificates is the self-serve certificate lookup payload. The
// cédula is validated strictly here since this surface is unauthenticated.
type PublicCertificates struct {
	Cedula string `json:"cedula" validate:"required,cedula"`
	Token  string `json:"token" validate:"required"`
}
