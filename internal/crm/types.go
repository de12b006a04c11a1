package crm

// Subscriber is the CRM's contact detail payload. CustomValues keeps the
// upstream value shape: strings for plain fields, lists for multi-selects.
type Subscriber struct {
	ID           int64          `json:"id"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Email        string         `json:"email"`
	CustomValues map[string]any `json:"custom_values"`
}

type subscriberDetailResponse struct {
	Subscriber *Subscriber `json:"subscriber"`
}

type subscriberSearchResponse struct {
	Records []Subscriber `json:"records"`
}

type customFieldsResponse struct {
	Fields []struct {
		Slug  string `json:"slug"`
		Label string `json:"label"`
	} `json:"fields"`
}
