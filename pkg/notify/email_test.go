package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-intake/pkg/gateway"
)

type captureSender struct {
	configured bool
	err        error
	sent       []Message
}

func (s *captureSender) Configured() bool { return s.configured }

func (s *captureSender) Send(_ context.Context, msg Message) error {
	s.sent = append(s.sent, msg)
	return s.err
}

func sampleSubmission() gateway.Submission {
	return gateway.Submission{
		ID:             "sub-42",
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "+1 555 0100",
		Company:        "Acme",
		Package:        "Growth",
		ProjectType:    "Marketing website",
		PageCount:      6,
		Features:       []string{"Content management", "Search engine optimization"},
		Timeline:       "As soon as possible",
		Budget:         "Under $2,000",
		Message:        "We need a marketing site",
		CurrentWebsite: "https://old.example",
		ReferenceLinks: []string{"https://rival.example"},
		ReferralSource: "Referral",
		ReceivedAt:     time.Date(2026, 2, 10, 15, 30, 0, 0, time.UTC),
	}
}

func TestNotify_RendersAndSends(t *testing.T) {
	t.Parallel()

	sender := &captureSender{configured: true}
	n, err := NewEmailNotifier(sender, "intake@agency.example", "team@agency.example")
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	if err := n.Notify(context.Background(), sampleSubmission()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}

	msg := sender.sent[0]
	if msg.From != "intake@agency.example" || msg.To != "team@agency.example" {
		t.Errorf("addressing = %q -> %q", msg.From, msg.To)
	}
	if msg.ReplyTo != "jane@example.com" {
		t.Errorf("ReplyTo = %q, want prospect address", msg.ReplyTo)
	}
	if want := "New quote request from Jane Doe (Acme)"; msg.Subject != want {
		t.Errorf("Subject = %q, want %q", msg.Subject, want)
	}

	for _, fragment := range []string{
		"Jane Doe",
		"jane@example.com",
		"Growth",
		"Marketing website",
		"Content management, Search engine optimization",
		"We need a marketing site",
		"https://rival.example",
		"Feb 10, 2026 15:30 UTC",
	} {
		if !strings.Contains(msg.HTML, fragment) {
			t.Errorf("rendered email missing %q", fragment)
		}
	}
}

func TestNotify_SanitizesUserMarkup(t *testing.T) {
	t.Parallel()

	sender := &captureSender{configured: true}
	n, err := NewEmailNotifier(sender, "intake@agency.example", "team@agency.example")
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	sub := sampleSubmission()
	sub.Name = `Jane <script>alert("x")</script>`
	sub.Message = `<img src=x onerror=alert(1)> hello`
	if err := n.Notify(context.Background(), sub); err != nil {
		t.Fatalf("notify: %v", err)
	}

	msg := sender.sent[0]
	if strings.Contains(msg.HTML, "<script>") || strings.Contains(msg.HTML, "onerror") {
		t.Fatalf("markup survived sanitization:\n%s", msg.HTML)
	}
	if strings.Contains(msg.Subject, "<script>") {
		t.Fatalf("markup survived in subject: %q", msg.Subject)
	}
}

func TestNotify_SubjectPrefixAndTheme(t *testing.T) {
	t.Parallel()

	sender := &captureSender{configured: true}
	manifest := &theme.Manifest{
		Name:    "midnight",
		Version: "2.0.0",
		Tokens:  map[string]string{"brand": "#9333ea"},
	}
	n, err := NewEmailNotifier(sender, "intake@agency.example", "team@agency.example",
		WithSubjectPrefix("[intake]"),
		WithTheme(manifest),
	)
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	if err := n.Notify(context.Background(), sampleSubmission()); err != nil {
		t.Fatalf("notify: %v", err)
	}

	msg := sender.sent[0]
	if !strings.HasPrefix(msg.Subject, "[intake] ") {
		t.Errorf("Subject = %q, want prefix", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "#9333ea") {
		t.Errorf("theme brand token not applied")
	}
	// Tokens missing from the manifest fall back to the stock palette.
	if !strings.Contains(msg.HTML, "#f8fafc") {
		t.Errorf("fallback background token not applied")
	}
}

func TestNotify_SenderFailure(t *testing.T) {
	t.Parallel()

	sender := &captureSender{configured: true, err: errors.New("provider down")}
	n, err := NewEmailNotifier(sender, "intake@agency.example", "team@agency.example")
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	err = n.Notify(context.Background(), sampleSubmission())
	if err == nil || !strings.Contains(err.Error(), "sub-42") {
		t.Fatalf("Notify = %v, want delivery error naming the submission", err)
	}
}

func TestNewEmailNotifier_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewEmailNotifier(nil, "a@b.example", "c@d.example"); err == nil {
		t.Fatalf("expected error for nil sender")
	}
	if _, err := NewEmailNotifier(&captureSender{}, "", "c@d.example"); err == nil {
		t.Fatalf("expected error for empty from")
	}
	if _, err := NewEmailNotifier(&captureSender{}, "a@b.example", " "); err == nil {
		t.Fatalf("expected error for empty to")
	}
}

func TestConfigured_FollowsSender(t *testing.T) {
	t.Parallel()

	n, err := NewEmailNotifier(&captureSender{configured: false}, "a@b.example", "c@d.example")
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}
	if n.Configured() {
		t.Fatalf("Configured = true with unconfigured sender")
	}
}
