package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPProvider calls a routing service that accepts
//
//	POST {baseURL}  {"legs":[{"from":{...},"to":{...}}]}
//
// and answers {"legs":[{"distanceInMiles":..,"durationInMinutes":..,"status":"OK"}]}.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider returns a provider for baseURL.
func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type routeRequest struct {
	Legs []Leg `json:"legs"`
}

type routeResponse struct {
	Legs []LegResult `json:"legs"`
}

func (p *HTTPProvider) Route(ctx context.Context, legs []Leg) ([]LegResult, error) {
	body, err := json.Marshal(routeRequest{Legs: legs})
	if err != nil {
		return nil, fmt.Errorf("encode route request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build route request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call routing service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("routing service returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}
	if len(out.Legs) != len(legs) {
		return nil, fmt.Errorf("routing service returned %d legs for %d requested", len(out.Legs), len(legs))
	}
	return out.Legs, nil
}
