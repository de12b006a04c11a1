package request

// RecordVerification is the admission verification payload.
type RecordVerification struct {
	Cedula string `json:"cedula" validate:"required"`
}
