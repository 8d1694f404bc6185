package gateway

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/catalog"
)

const shapeCatalogDoc = `
locale: en
packages:
  - id: growth
    name: Growth
    minPages: 3
    maxPages: 12
    defaultPages: 6
    features: [seo, cms]
features:
  - {id: seo, label: Search engine optimization}
  - {id: cms, label: Content management}
projectTypes:
  - {id: website, label: Marketing website}
timelines:
  - {id: asap, label: As soon as possible}
budgets:
  - {id: low, label: "Under $2,000"}
`

func shapeCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(strings.NewReader(shapeCatalogDoc))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

func TestShapeSubmission_MapsLabels(t *testing.T) {
	t.Parallel()

	received := time.Date(2026, 2, 10, 15, 30, 0, 0, time.UTC)
	req := submissionRequest{
		Name:             "  Jane Doe  ",
		Email:            " jane@example.com ",
		Company:          "Acme",
		Package:          "growth",
		ProjectType:      "website",
		PageCount:        6,
		SelectedFeatures: []string{"seo", " cms ", ""},
		Timeline:         "asap",
		Budget:           "low",
		Message:          " Need a site ",
		ReferenceLinks:   []string{" https://rival.example ", "", "  "},
	}

	got := shapeSubmission(req, shapeCatalog(t), "sub-1", received)

	want := Submission{
		ID:             "sub-1",
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		Company:        "Acme",
		Package:        "Growth",
		ProjectType:    "Marketing website",
		PageCount:      6,
		Features:       []string{"Search engine optimization", "Content management"},
		Timeline:       "As soon as possible",
		Budget:         "Under $2,000",
		Message:        "Need a site",
		ReferenceLinks: []string{"https://rival.example"},
		ReceivedAt:     received,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
}

func TestShapeSubmission_UnmappedIdentifiersPassThrough(t *testing.T) {
	t.Parallel()

	req := submissionRequest{
		Name:             "Jane",
		Email:            "jane@example.com",
		Package:          "enterprise",
		ProjectType:      "kiosk",
		SelectedFeatures: []string{"pwa"},
		Message:          "Hello",
	}

	got := shapeSubmission(req, shapeCatalog(t), "sub-2", time.Now())

	if got.Package != "enterprise" {
		t.Errorf("Package = %q, want unmapped id kept", got.Package)
	}
	if got.ProjectType != "kiosk" {
		t.Errorf("ProjectType = %q, want unmapped id kept", got.ProjectType)
	}
	if diff := cmp.Diff([]string{"pwa"}, got.Features); diff != "" {
		t.Errorf("features mismatch (-want +got):\n%s", diff)
	}
}

func TestShapeSubmission_EmptyOptionalFieldsStayEmpty(t *testing.T) {
	t.Parallel()

	req := submissionRequest{Name: "Jane", Email: "jane@example.com", Message: "Hello"}
	got := shapeSubmission(req, shapeCatalog(t), "sub-3", time.Now())

	if got.Package != "" || got.ProjectType != "" || got.Timeline != "" || got.Budget != "" {
		t.Fatalf("empty identifiers should not be label-mapped: %+v", got)
	}
	if got.Features != nil || got.ReferenceLinks != nil {
		t.Fatalf("empty slices should stay nil: %+v", got)
	}
}
