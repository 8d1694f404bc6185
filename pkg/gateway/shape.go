package gateway

import (
	"strings"
	"time"

	"github.com/goliatone/go-intake/pkg/catalog"
)

// Submission is the shaped content handed to the notification collaborator.
// Identifier fields have been mapped to human-readable labels; unmapped
// identifiers pass through unchanged so values introduced by the CMS keep
// working without a deploy.
type Submission struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Company string

	Package     string
	ProjectType string
	PageCount   int
	Features    []string
	Timeline    string
	Budget      string

	Message        string
	CurrentWebsite string
	ReferenceLinks []string
	ContactMethod  string
	ReferralSource string

	ReceivedAt time.Time
}

func shapeSubmission(req submissionRequest, cat *catalog.Catalog, id string, now time.Time) Submission {
	sub := Submission{
		ID:             id,
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		Company:        strings.TrimSpace(req.Company),
		PageCount:      req.PageCount,
		Message:        strings.TrimSpace(req.Message),
		CurrentWebsite: strings.TrimSpace(req.CurrentWebsite),
		ContactMethod:  strings.TrimSpace(req.ContactMethod),
		ReferralSource: strings.TrimSpace(req.ReferralSource),
		ReceivedAt:     now,
	}

	if req.Package != "" {
		sub.Package = cat.PackageLabel(req.Package)
	}
	if req.ProjectType != "" {
		sub.ProjectType = cat.ProjectTypeLabel(req.ProjectType)
	}
	if req.Timeline != "" {
		sub.Timeline = cat.TimelineLabel(req.Timeline)
	}
	if req.Budget != "" {
		sub.Budget = cat.BudgetLabel(req.Budget)
	}
	for _, featureID := range req.SelectedFeatures {
		featureID = strings.TrimSpace(featureID)
		if featureID == "" {
			continue
		}
		sub.Features = append(sub.Features, cat.FeatureLabel(featureID))
	}
	for _, link := range req.ReferenceLinks {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}
		sub.ReferenceLinks = append(sub.ReferenceLinks, link)
	}
	return sub
}
