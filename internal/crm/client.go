package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNoRecords is returned by FindSubscriberIDByCedula when the CRM search
// matches no contact.
var ErrNoRecords = errors.New("crm: no matching records")

// Client talks to a FluentCRM v2 REST API with Basic authentication.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
}

func NewClient(baseURL, username, password string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
	}
}

// CustomFieldSlugs fetches the contact custom-field schema and returns the
// known field slugs.
func (c *Client) CustomFieldSlugs(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/custom-fields/contacts", nil)
	if err != nil {
		return nil, fmt.Errorf("custom fields request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get custom fields: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get custom fields: status %d: %s", resp.StatusCode, string(body))
	}

	var result customFieldsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode custom fields: %w", err)
	}

	slugs := make([]string, 0, len(result.Fields))
	for _, f := range result.Fields {
		if f.Slug != "" {
			slugs = append(slugs, f.Slug)
		}
	}
	return slugs, nil
}

// FindSubscriberIDByCedula searches the CRM for a contact whose cedula custom
// value equals the given key and returns its subscriber ID. Returns
// ErrNoRecords when the search comes back empty.
func (c *Client) FindSubscriberIDByCedula(ctx context.Context, cedula string) (int64, error) {
	q := url.Values{}
	q.Set("filters[custom_values.cedula]", cedula)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/subscribers?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("search subscribers request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("search subscribers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("search subscribers: status %d: %s", resp.StatusCode, string(body))
	}

	var result subscriberSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode subscriber search: %w", err)
	}
	if len(result.Records) == 0 {
		return 0, ErrNoRecords
	}
	return result.Records[0].ID, nil
}

// Subscriber fetches full contact detail for an ID, with custom values inline.
func (c *Client) Subscriber(ctx context.Context, id int64) (*Subscriber, error) {
	q := url.Values{}
	q.Add("with[]", "subscriber.custom_values")

	reqURL := c.baseURL + "/subscribers/" + strconv.FormatInt(id, 10) + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("subscriber detail request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get subscriber %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get subscriber %d: status %d: %s", id, resp.StatusCode, string(body))
	}

	var result subscriberDetailResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode subscriber %d: %w", id, err)
	}
	if result.Subscriber == nil {
		return nil, fmt.Errorf("get subscriber %d: payload missing subscriber object", id)
	}
	return result.Subscriber, nil
}
