package policeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"crime_service/internal/domain/model"
)

// Fetcher issues GET requests and decodes JSON responses. It never retries.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetJSON performs a single GET against endpoint with params and decodes the
// body into out. Every failure is returned as a *model.NetworkError.
func (f *Fetcher) GetJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return &model.NetworkError{Op: http.MethodGet, URL: endpoint, Err: fmt.Errorf("invalid endpoint: %w", err)}
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &model.NetworkError{Op: http.MethodGet, URL: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return &model.NetworkError{Op: http.MethodGet, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &model.NetworkError{Op: http.MethodGet, URL: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &model.NetworkError{Op: http.MethodGet, URL: endpoint, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}
