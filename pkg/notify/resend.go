package notify

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

const defaultResendEndpoint = "https://api.resend.com/emails"

// ResendOption customises a ResendSender.
type ResendOption func(*ResendSender)

// WithResendEndpoint overrides the API endpoint, used by tests.
func WithResendEndpoint(endpoint string) ResendOption {
	return func(s *ResendSender) {
		endpoint = strings.TrimSpace(endpoint)
		if endpoint != "" {
			s.endpoint = endpoint
		}
	}
}

// WithResendClient overrides the HTTP client.
func WithResendClient(client *http.Client) ResendOption {
	return func(s *ResendSender) {
		if client != nil {
			s.client = client
		}
	}
}

// ResendSender delivers messages through the Resend HTTPS API. The API key
// comes from the environment at wire-up time; an empty key leaves the sender
// unconfigured rather than failing construction, so the gateway can surface
// the condition per request.
type ResendSender struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewResendSender constructs a sender with the given API key.
func NewResendSender(apiKey string, options ...ResendOption) *ResendSender {
	s := &ResendSender{
		apiKey:   strings.TrimSpace(apiKey),
		endpoint: defaultResendEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Configured reports whether an API key is present.
func (s *ResendSender) Configured() bool {
	return s != nil && s.apiKey != ""
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send posts the message to the Resend API. One attempt, no retries.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if s == nil {
		return errors.New("notify: resend sender is nil")
	}
	if !s.Configured() {
		return errors.New("notify: resend api key is not configured")
	}

	body, err := json.Marshal(resendRequest{
		From:    msg.From,
		To:      []string{msg.To},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("notify: encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil && strings.TrimSpace(parsed.Message) != "" {
		return fmt.Errorf("notify: resend api status %d: %s", resp.StatusCode, parsed.Message)
	}
	return fmt.Errorf("notify: resend api status %d", resp.StatusCode)
}
