package model

// ContactRecord is a contact as resolved from the CRM: identity fields plus a
// flat mapping of canonical custom-field slugs to display values. Upstream
// fields whose slug is not part of the canonical set are kept aside in
// ExtraFields so nothing from the CRM payload is silently dropped.
type ContactRecord struct {
	ID           int64             `json:"id"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	Email        string            `json:"email"`
	CustomFields map[string]string `json:"custom_fields"`
	ExtraFields  map[string]string `json:"extra_fields,omitempty"`
}

// Field returns the value for a canonical slug, or "" when the field is
// absent. Absent and present-but-empty are indistinguishable to callers.
func (c *ContactRecord) Field(slug string) string {
	if c.CustomFields == nil {
		return ""
	}
	return c.CustomFields[slug]
}

// FullName joins first and last name, trimming when either is empty.
func (c *ContactRecord) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}
