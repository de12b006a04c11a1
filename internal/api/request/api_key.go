package request

// CreateAPIKey names a new admin API key.
type CreateAPIKey struct {
	Name string `json:"name" validate:"required"`
}
