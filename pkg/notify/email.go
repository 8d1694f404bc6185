package notify

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/gateway"
)

//go:embed templates/*.tpl
var emailTemplates embed.FS

const quoteTemplate = "templates/quote"

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitize strips all markup from user-supplied text before it is embedded
// in the email HTML.
func sanitize(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(textPolicy.Sanitize(raw))
}

// defaultBrand supplies the email palette when no theme manifest is wired in.
func defaultBrand() *theme.Manifest {
	return &theme.Manifest{
		Name:    "intake",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":      "#1d4ed8",
			"background": "#f8fafc",
			"text":       "#0f172a",
			"muted":      "#64748b",
		},
	}
}

// EmailOption customises an EmailNotifier.
type EmailOption func(*EmailNotifier)

// WithSubjectPrefix prepends a tag to every notification subject.
func WithSubjectPrefix(prefix string) EmailOption {
	return func(n *EmailNotifier) {
		n.subjectPrefix = strings.TrimSpace(prefix)
	}
}

// WithTheme selects the theme manifest whose tokens style the email.
func WithTheme(manifest *theme.Manifest) EmailOption {
	return func(n *EmailNotifier) {
		if manifest != nil {
			n.brand = manifest
		}
	}
}

// WithEmailLogger injects a logger. Defaults to a nop logger.
func WithEmailLogger(logger *zap.Logger) EmailOption {
	return func(n *EmailNotifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// EmailNotifier renders accepted submissions into a transactional email and
// delivers it through a Sender. It implements gateway.Notifier.
type EmailNotifier struct {
	sender        Sender
	from          string
	to            string
	subjectPrefix string
	brand         *theme.Manifest
	engine        *engine
	logger        *zap.Logger
}

var _ gateway.Notifier = (*EmailNotifier)(nil)

// NewEmailNotifier constructs a notifier sending from/to the given addresses.
func NewEmailNotifier(sender Sender, from, to string, options ...EmailOption) (*EmailNotifier, error) {
	if sender == nil {
		return nil, errors.New("notify: sender is required")
	}
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return nil, errors.New("notify: from and to addresses are required")
	}

	eng, err := newEngine(emailTemplates)
	if err != nil {
		return nil, err
	}

	n := &EmailNotifier{
		sender: sender,
		from:   from,
		to:     to,
		brand:  defaultBrand(),
		engine: eng,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(n)
		}
	}
	return n, nil
}

// Configured reports whether the underlying sender holds its credential.
func (n *EmailNotifier) Configured() bool {
	return n != nil && n.sender != nil && n.sender.Configured()
}

// Notify renders and sends the notification email. Replies go straight to
// the prospect via Reply-To.
func (n *EmailNotifier) Notify(ctx context.Context, sub gateway.Submission) error {
	if n == nil {
		return errors.New("notify: email notifier is nil")
	}

	html, err := n.render(sub)
	if err != nil {
		return err
	}

	subject := n.subject(sub)
	err = n.sender.Send(ctx, Message{
		From:    n.from,
		To:      n.to,
		ReplyTo: sub.Email,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("notify: deliver %s: %w", sub.ID, err)
	}

	n.logger.Info("notification sent",
		zap.String("submission_id", sub.ID),
		zap.String("subject", subject))
	return nil
}

func (n *EmailNotifier) subject(sub gateway.Submission) string {
	name := sanitize(sub.Name)
	subject := "New quote request from " + name
	if company := sanitize(sub.Company); company != "" {
		subject += " (" + company + ")"
	}
	if n.subjectPrefix != "" {
		subject = n.subjectPrefix + " " + subject
	}
	return subject
}

func (n *EmailNotifier) render(sub gateway.Submission) (string, error) {
	features := make([]string, 0, len(sub.Features))
	for _, feature := range sub.Features {
		if cleaned := sanitize(feature); cleaned != "" {
			features = append(features, cleaned)
		}
	}
	links := make([]string, 0, len(sub.ReferenceLinks))
	for _, link := range sub.ReferenceLinks {
		if cleaned := sanitize(link); cleaned != "" {
			links = append(links, cleaned)
		}
	}

	tokens := n.brand.Tokens
	data := map[string]any{
		"brand_color":     token(tokens, "brand", "#1d4ed8"),
		"background":      token(tokens, "background", "#f8fafc"),
		"text_color":      token(tokens, "text", "#0f172a"),
		"muted_color":     token(tokens, "muted", "#64748b"),
		"submission_id":   sanitize(sub.ID),
		"name":            sanitize(sub.Name),
		"email":           sanitize(sub.Email),
		"phone":           sanitize(sub.Phone),
		"company":         sanitize(sub.Company),
		"package":         sanitize(sub.Package),
		"project_type":    sanitize(sub.ProjectType),
		"page_count":      sub.PageCount,
		"features":        features,
		"timeline":        sanitize(sub.Timeline),
		"budget":          sanitize(sub.Budget),
		"message":         sanitize(sub.Message),
		"current_website": sanitize(sub.CurrentWebsite),
		"reference_links": links,
		"contact_method":  sanitize(sub.ContactMethod),
		"referral_source": sanitize(sub.ReferralSource),
		"received_at":     sub.ReceivedAt.Format("Jan 2, 2006 15:04 MST"),
	}

	html, err := n.engine.render(quoteTemplate, data)
	if err != nil {
		return "", err
	}
	return html, nil
}

func token(tokens map[string]string, name, fallback string) string {
	if value, ok := tokens[name]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
