package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"portfolio/internal/models"
)

const (
	posthogCapturePath = "/capture/"
	posthogURLProperty = "$current_url"
	posthogInsertID    = "$insert_id"
)

var ErrPostHogMisconfigured = errors.New("posthog sink: host and api key are required")

// captureRequest is the body of a PostHog capture call.
type captureRequest struct {
	APIKey     string         `json:"api_key"`
	Event      string         `json:"event"`
	DistinctID string         `json:"distinct_id"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  string         `json:"timestamp,omitempty"`
}

// PostHogSink forwards records to a PostHog-compatible /capture/ endpoint.
type PostHogSink struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewPostHogSink builds a sink for host (e.g. https://eu.i.posthog.com).
// A nil client gets a default with a 10s timeout.
func NewPostHogSink(host, apiKey string, client *http.Client) (*PostHogSink, error) {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" || apiKey == "" {
		return nil, ErrPostHogMisconfigured
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &PostHogSink{
		endpoint: host + posthogCapturePath,
		apiKey:   apiKey,
		client:   client,
	}, nil
}

func (s *PostHogSink) Send(ctx context.Context, rec models.TrackingRecord) error {
	payload, err := json.Marshal(s.toCapture(rec))
	if err != nil {
		return fmt.Errorf("marshal capture %s: %w", rec.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create capture request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post capture %s: %w", rec.ID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post capture %s: unexpected status %d", rec.ID, resp.StatusCode)
	}
	return nil
}

func (s *PostHogSink) toCapture(rec models.TrackingRecord) captureRequest {
	props := make(map[string]any, len(rec.EventProperties)+2)
	for k, v := range rec.EventProperties {
		props[k] = v
	}
	if rec.Href != nil {
		props[posthogURLProperty] = *rec.Href
	}
	if rec.ID != "" {
		props[posthogInsertID] = rec.ID
	}

	var ts string
	if !rec.OccurredAt.IsZero() {
		ts = rec.OccurredAt.UTC().Format(time.RFC3339)
	}

	return captureRequest{
		APIKey:     s.apiKey,
		Event:      rec.EventType,
		DistinctID: rec.VisitorID,
		Properties: props,
		Timestamp:  ts,
	}
}
