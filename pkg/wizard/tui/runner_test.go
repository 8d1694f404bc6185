package tui_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/catalog"
	"github.com/goliatone/go-intake/pkg/wizard"
	"github.com/goliatone/go-intake/pkg/wizard/tui"
)

const runnerCatalogDoc = `
locale: en
packages:
  - id: starter
    name: Starter
    price: $1,500
    minPages: 1
    maxPages: 5
    defaultPages: 3
    features: [seo]
  - id: growth
    name: Growth
    price: $4,500
    minPages: 3
    maxPages: 12
    defaultPages: 6
    features: [seo, cms, blog]
features:
  - {id: seo, label: Search engine optimization}
  - {id: cms, label: Content management}
  - {id: blog, label: Blog}
projectTypes:
  - {id: website, label: Marketing website}
  - {id: redesign, label: Website redesign}
timelines:
  - {id: asap, label: As soon as possible}
budgets:
  - {id: low, label: "Under $2,000"}
`

func runnerCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(strings.NewReader(runnerCatalogDoc))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

// scriptDriver replays canned answers and records every prompt message, in
// order, so the step flow can be asserted.
type scriptDriver struct {
	t *testing.T

	inputs       []string
	selects      []int
	multiSelects [][]int
	texts        []string
	confirms     []bool

	prompts []string
	infos   []string
}

func (d *scriptDriver) take(kind string, remaining int) {
	d.t.Helper()
	if remaining == 0 {
		d.t.Fatalf("script exhausted for %s prompts (seen so far: %v)", kind, d.prompts)
	}
}

func (d *scriptDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	d.take("input", len(d.inputs))
	d.prompts = append(d.prompts, cfg.Message)
	answer := d.inputs[0]
	d.inputs = d.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(answer); err != nil {
			d.t.Fatalf("scripted answer %q rejected by validator: %v", answer, err)
		}
	}
	return answer, nil
}

func (d *scriptDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	d.take("select", len(d.selects))
	d.prompts = append(d.prompts, cfg.Message)
	idx := d.selects[0]
	d.selects = d.selects[1:]
	return idx, nil
}

func (d *scriptDriver) MultiSelect(_ context.Context, cfg tui.SelectConfig) ([]int, error) {
	d.take("multiselect", len(d.multiSelects))
	d.prompts = append(d.prompts, cfg.Message)
	picked := d.multiSelects[0]
	d.multiSelects = d.multiSelects[1:]
	return picked, nil
}

func (d *scriptDriver) Confirm(_ context.Context, cfg tui.ConfirmConfig) (bool, error) {
	d.take("confirm", len(d.confirms))
	d.prompts = append(d.prompts, cfg.Message)
	answer := d.confirms[0]
	d.confirms = d.confirms[1:]
	return answer, nil
}

func (d *scriptDriver) TextArea(_ context.Context, cfg tui.TextAreaConfig) (string, error) {
	d.take("textarea", len(d.texts))
	d.prompts = append(d.prompts, cfg.Message)
	text := d.texts[0]
	d.texts = d.texts[1:]
	return text, nil
}

func (d *scriptDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func TestRun_FullWalkthrough(t *testing.T) {
	t.Parallel()

	var got wizard.Payload
	submitter := wizard.SubmitterFunc(func(_ context.Context, p wizard.Payload) error {
		got = p
		return nil
	})

	cat := runnerCatalog(t)
	w, err := wizard.New(cat, submitter)
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}

	driver := &scriptDriver{
		t: t,
		inputs: []string{
			"Jane Doe",           // name
			"jane@example.com",   // email
			"",                   // phone
			"Acme",               // company
			"8",                  // page count
			"https://old.example",// current website
			"https://a.example, https://b.example", // reference links
			"A friend",           // referral source
		},
		selects: []int{
			1, // package: growth
			0, // project type: website
			1, // timeline: asap (0 is skip)
			0, // budget: skip
		},
		multiSelects: [][]int{{1}}, // features: cms
		texts:        []string{"We need a marketing site"},
		confirms:     []bool{true},
	}

	runner, err := tui.NewRunner(w, cat, tui.WithDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !w.Submitted() {
		t.Fatalf("wizard not submitted after run")
	}
	want := wizard.Payload{
		Name:             "Jane Doe",
		Email:            "jane@example.com",
		Company:          "Acme",
		Package:          "growth",
		ProjectType:      "website",
		PageCount:        8,
		SelectedFeatures: []string{"cms"},
		Timeline:         "asap",
		Message:          "We need a marketing site",
		CurrentWebsite:   "https://old.example",
		ReferenceLinks:   []string{"https://a.example", "https://b.example"},
		ReferralSource:   "A friend",
		Timestamp:        got.Timestamp,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if got.Timestamp == 0 {
		t.Fatalf("payload timestamp not set")
	}

	wantPrompts := []string{
		"Your name",
		"Email address",
		"Phone (optional)",
		"Company (optional)",
		"Pick a package",
		"What kind of project is this?",
		"How many pages? (3-12)",
		"Timeline",
		"Which features do you need?",
		"Budget",
		"Tell us about the project",
		"Current website (optional)",
		"Sites you like, comma separated (optional, up to 5)",
		"How did you hear about us? (optional)",
		"Send the request?",
	}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}

	if len(driver.infos) != 1 || !strings.Contains(driver.infos[0], "Request sent") {
		t.Fatalf("infos = %v, want final acknowledgement", driver.infos)
	}
}

func TestRun_PreselectedPackageSkipsPackagePrompt(t *testing.T) {
	t.Parallel()

	cat := runnerCatalog(t)
	w, err := wizard.New(cat, wizard.SubmitterFunc(func(context.Context, wizard.Payload) error {
		return nil
	}), wizard.WithPreselectedPackage("starter"))
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}

	driver := &scriptDriver{
		t: t,
		inputs: []string{
			"Jane Doe", "jane@example.com", "", "",
			"3", // pages within starter's 1-5
			"", "", "",
		},
		selects: []int{
			0, // project type
			0, // timeline: skip
			0, // budget: skip
		},
		multiSelects: [][]int{{}},
		texts:        []string{"Refresh our site"},
		confirms:     []bool{true},
	}

	runner, err := tui.NewRunner(w, cat, tui.WithDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, prompt := range driver.prompts {
		if prompt == "Pick a package" {
			t.Fatalf("package prompt shown despite preselection: %v", driver.prompts)
		}
	}
	if got := w.State().SelectedPackage; got != "starter" {
		t.Fatalf("SelectedPackage = %q", got)
	}
}

func TestRun_DecliningSubmissionAborts(t *testing.T) {
	t.Parallel()

	cat := runnerCatalog(t)
	w, err := wizard.New(cat, wizard.SubmitterFunc(func(context.Context, wizard.Payload) error {
		return nil
	}))
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}

	driver := &scriptDriver{
		t: t,
		inputs: []string{
			"Jane Doe", "jane@example.com", "", "",
			"6",
			"", "", "",
		},
		selects:      []int{1, 0, 0, 0},
		multiSelects: [][]int{{}},
		texts:        []string{"Hello"},
		confirms:     []bool{false},
	}

	runner, err := tui.NewRunner(w, cat, tui.WithDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if err := runner.Run(context.Background()); !errors.Is(err, tui.ErrAborted) {
		t.Fatalf("Run = %v, want ErrAborted", err)
	}
	if w.Submitted() {
		t.Fatalf("wizard submitted after declined confirmation")
	}
}

func TestRun_FailedSubmissionOffersRetry(t *testing.T) {
	t.Parallel()

	var attempts int
	submitter := wizard.SubmitterFunc(func(context.Context, wizard.Payload) error {
		attempts++
		if attempts == 1 {
			return errors.New("gateway unreachable")
		}
		return nil
	})

	cat := runnerCatalog(t)
	w, err := wizard.New(cat, submitter)
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}

	driver := &scriptDriver{
		t: t,
		inputs: []string{
			"Jane Doe", "jane@example.com", "", "",
			"6",
			"", "", "",
		},
		selects:      []int{1, 0, 0, 0},
		multiSelects: [][]int{{}},
		texts:        []string{"Hello"},
		confirms: []bool{
			true, // send
			true, // retry after failure
			true, // send again
		},
	}

	runner, err := tui.NewRunner(w, cat, tui.WithDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}

	var sawFailure bool
	for _, info := range driver.infos {
		if strings.Contains(info, "gateway unreachable") {
			sawFailure = true
		}
	}
	if !sawFailure {
		t.Fatalf("failure never reported: %v", driver.infos)
	}
}
