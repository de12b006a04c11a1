package request

// GenerateCertificate is the certificate issuance payload: the cédula plus
// the reviewed field set from the contact search. Submitted fields, edits
// included, are what the certificate renders from; without them the contact
// is resolved from the CRM again.
type GenerateCertificate struct {
	Cedula    string            `json:"cedula" validate:"required"`
	ContactID *int64            `json:"contact_id,omitempty" validate:"omitempty,gt=0"`
	TrainerID *int64            `json:"trainer_id,omitempty" validate:"omitempty,gt=0"`
	Fields    map[string]string `json:"fields,omitempty"`
}
