package request

// UpsertTrainer carries the writable trainer fields for create and update.
type UpsertTrainer struct {
	Name         string `json:"name" validate:"required"`
	License      string `json:"license"`
	SignatureURL string `json:"signature_url" validate:"omitempty,url"`
}
