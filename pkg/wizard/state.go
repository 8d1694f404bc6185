package wizard

import (
	"regexp"
	"strings"
	"time"
)

const maxCompetitorLinks = 5

// emailPattern is the local@domain.tld shape check shared with the gateway.
// It is a convenience gate, not a security boundary; the gateway re-validates.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Contact holds the identity fields collected on the first step.
type Contact struct {
	Name    string
	Email   string
	Phone   string
	Company string
}

func (c Contact) valid() bool {
	return strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.Email) != "" &&
		emailPattern.MatchString(strings.TrimSpace(c.Email))
}

// FormState is the wizard-owned working state. It lives only in memory for
// the lifetime of the wizard; nothing is persisted.
type FormState struct {
	Contact          Contact
	SelectedPackage  string
	ProjectType      string
	PageCount        int
	SelectedFeatures []string
	Timeline         string
	Budget           string
	Message          string
	CurrentWebsite   string
	CompetitorLinks  []string
	ReferralSource   string
	Honeypot         string
	LoadedAt         time.Time
}

func (s FormState) clone() FormState {
	out := s
	out.SelectedFeatures = append([]string(nil), s.SelectedFeatures...)
	out.CompetitorLinks = append([]string(nil), s.CompetitorLinks...)
	return out
}
