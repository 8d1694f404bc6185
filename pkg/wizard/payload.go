package wizard

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
)

// Payload is the submission body posted to the gateway. It is constructed
// once per submit attempt from the form state and discarded after the
// response; the wizard never retries it on its own.
type Payload struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone,omitempty"`
	Company          string   `json:"company,omitempty"`
	Package          string   `json:"package,omitempty"`
	ProjectType      string   `json:"projectType,omitempty"`
	PageCount        int      `json:"pageCount,omitempty"`
	SelectedFeatures []string `json:"selectedFeatures,omitempty"`
	Timeline         string   `json:"timeline,omitempty"`
	Budget           string   `json:"budget,omitempty"`
	Message          string   `json:"message"`
	CurrentWebsite   string   `json:"currentWebsite,omitempty"`
	ReferenceLinks   []string `json:"referenceLinks,omitempty"`
	ReferralSource   string   `json:"referralSource,omitempty"`

	// Spam-check fields. Honeypot must stay empty for genuine submissions;
	// Timestamp carries the form-load time in Unix milliseconds so the
	// gateway can apply its dwell-time heuristic.
	Honeypot  string `json:"_honeypot"`
	Timestamp int64  `json:"_timestamp"`
}

func buildPayload(state FormState) Payload {
	return Payload{
		Name:             strings.TrimSpace(state.Contact.Name),
		Email:            strings.TrimSpace(state.Contact.Email),
		Phone:            strings.TrimSpace(state.Contact.Phone),
		Company:          strings.TrimSpace(state.Contact.Company),
		Package:          state.SelectedPackage,
		ProjectType:      state.ProjectType,
		PageCount:        state.PageCount,
		SelectedFeatures: append([]string(nil), state.SelectedFeatures...),
		Timeline:         state.Timeline,
		Budget:           state.Budget,
		Message:          state.Message,
		CurrentWebsite:   state.CurrentWebsite,
		ReferenceLinks:   append([]string(nil), state.CompetitorLinks...),
		ReferralSource:   state.ReferralSource,
		Honeypot:         state.Honeypot,
		Timestamp:        state.LoadedAt.UnixMilli(),
	}
}

// HTTPSubmitterOption customises an HTTPSubmitter.
type HTTPSubmitterOption func(*HTTPSubmitter)

// WithHTTPClient overrides the HTTP client used for submissions.
func WithHTTPClient(client *http.Client) HTTPSubmitterOption {
	return func(s *HTTPSubmitter) {
		if client != nil {
			s.client = client
		}
	}
}

// HTTPSubmitter posts payloads to a gateway endpoint as JSON. Error bodies of
// the form {"error": "..."} surface their message.
type HTTPSubmitter struct {
	url    string
	client *http.Client
}

// NewHTTPSubmitter constructs a submitter targeting the gateway URL.
func NewHTTPSubmitter(url string, options ...HTTPSubmitterOption) (*HTTPSubmitter, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("wizard: gateway url is required")
	}
	s := &HTTPSubmitter{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Submit posts the payload and maps non-2xx responses to errors.
func (s *HTTPSubmitter) Submit(ctx context.Context, payload Payload) error {
	if s == nil {
		return errors.New("wizard: http submitter is nil")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("wizard: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("wizard: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("wizard: post submission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil && strings.TrimSpace(parsed.Error) != "" {
		return fmt.Errorf("wizard: gateway rejected submission: %s", parsed.Error)
	}
	return fmt.Errorf("wizard: gateway returned status %d", resp.StatusCode)
}
