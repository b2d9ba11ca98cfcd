package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	id "solidario/pkg/domain"
	"solidario/pkg/platform/sentinel"

	"solidario/internal/registry/models"
)

// HTTPClient talks to the citizen registry's REST gateway.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// HTTPOption configures the HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient overrides the underlying http.Client. Deadlines are expected
// to arrive through the request context, so the default client carries none.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) {
		h.client = c
	}
}

// NewHTTPClient constructs a registry client against the given base URL.
func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	h := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTPClient) LookupBasic(ctx context.Context, cui id.CUI) (*models.BasicPersonRecord, error) {
	var record models.BasicPersonRecord
	if err := h.get(ctx, "/v1/persons/"+cui.String(), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (h *HTTPClient) LookupFull(ctx context.Context, cui id.CUI) (*models.FullPersonRecord, error) {
	var record models.FullPersonRecord
	if err := h.get(ctx, "/v1/persons/"+cui.String()+"/full", &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (h *HTTPClient) get(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("call registry: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return sentinel.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("registry returned status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode registry response: %w", err)
	}
	return nil
}

var _ Client = (*HTTPClient)(nil)
