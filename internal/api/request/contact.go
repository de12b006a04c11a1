package request

// SearchContact is the admin contact lookup payload.
type SearchContact struct {
	Cedula       string `json:"cedula" validate:"required"`
	RefreshSlugs bool   `json:"refresh_slugs"`
}
