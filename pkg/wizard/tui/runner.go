package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-intake/pkg/catalog"
	"github.com/goliatone/go-intake/pkg/wizard"
)

const skipLabel = "(skip)"

// RunnerOption customises a Runner.
type RunnerOption func(*Runner)

// WithDriver overrides the prompt driver. Defaults to the survey driver.
func WithDriver(driver PromptDriver) RunnerOption {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// Runner drives a wizard from terminal prompts until it is submitted or the
// user aborts.
type Runner struct {
	wizard  *wizard.Wizard
	catalog *catalog.Catalog
	driver  PromptDriver
}

// NewRunner constructs a runner over a wizard and the catalog its choices
// come from.
func NewRunner(w *wizard.Wizard, cat *catalog.Catalog, options ...RunnerOption) (*Runner, error) {
	if w == nil {
		return nil, errors.New("tui: wizard is required")
	}
	if cat == nil {
		return nil, errors.New("tui: catalog is required")
	}
	r := &Runner{
		wizard:  w,
		catalog: cat,
		driver:  NewSurveyDriver(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Run walks the remaining steps and submits. A failed submission is reported
// and offered for retry; declining returns the submission error.
func (r *Runner) Run(ctx context.Context) error {
	for !r.wizard.Submitted() {
		if err := ctx.Err(); err != nil {
			return err
		}

		step := r.wizard.Step()
		if err := r.runStep(ctx, step); err != nil {
			return err
		}

		if step == wizard.StepDetails {
			if err := r.submit(ctx); err != nil {
				return err
			}
			continue
		}
		if r.wizard.Step() != step {
			// Auto-advance already moved the wizard forward.
			continue
		}
		if err := r.wizard.Next(); err != nil {
			if infoErr := r.driver.Info(ctx, err.Error()); infoErr != nil {
				return infoErr
			}
		}
	}
	return r.driver.Info(ctx, "Request sent. We'll be in touch soon.")
}

func (r *Runner) runStep(ctx context.Context, step wizard.Step) error {
	switch step {
	case wizard.StepContact:
		return r.contactStep(ctx)
	case wizard.StepPackage:
		return r.packageStep(ctx)
	case wizard.StepProject:
		return r.projectStep(ctx)
	case wizard.StepFeatures:
		return r.featuresStep(ctx)
	case wizard.StepDetails:
		return r.detailsStep(ctx)
	default:
		return fmt.Errorf("tui: unknown step %d", step)
	}
}

func (r *Runner) contactStep(ctx context.Context) error {
	state := r.wizard.State()

	name, err := r.driver.Input(ctx, InputConfig{
		Message:   "Your name",
		Default:   state.Contact.Name,
		Validator: requireValue("name is required"),
	})
	if err != nil {
		return err
	}
	email, err := r.driver.Input(ctx, InputConfig{
		Message:   "Email address",
		Default:   state.Contact.Email,
		Validator: requireEmail(),
	})
	if err != nil {
		return err
	}
	phone, err := r.driver.Input(ctx, InputConfig{
		Message: "Phone (optional)",
		Default: state.Contact.Phone,
	})
	if err != nil {
		return err
	}
	company, err := r.driver.Input(ctx, InputConfig{
		Message: "Company (optional)",
		Default: state.Contact.Company,
	})
	if err != nil {
		return err
	}

	r.wizard.SetContact(wizard.Contact{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Company: company,
	})
	return nil
}

func (r *Runner) packageStep(ctx context.Context) error {
	packages := r.catalog.Packages()
	labels := make([]string, len(packages))
	defaultIdx := 0
	current := r.wizard.State().SelectedPackage
	for i, pkg := range packages {
		labels[i] = fmt.Sprintf("%s (%s)", pkg.Name, pkg.Price)
		if pkg.ID == current {
			defaultIdx = i
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Pick a package",
		Options:      labels,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return err
	}
	return r.wizard.SelectPackage(packages[idx].ID)
}

func (r *Runner) projectStep(ctx context.Context) error {
	types := r.catalog.ProjectTypes()
	labels := make([]string, len(types))
	defaultIdx := 0
	current := r.wizard.State().ProjectType
	for i, choice := range types {
		labels[i] = choice.Label
		if choice.ID == current {
			defaultIdx = i
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "What kind of project is this?",
		Options:      labels,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return err
	}
	if err := r.wizard.SetProjectType(types[idx].ID); err != nil {
		return err
	}

	if pages, ok := r.pageBounds(); ok {
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   fmt.Sprintf("How many pages? (%d-%d)", pages.min, pages.max),
			Default:   strconv.Itoa(r.wizard.State().PageCount),
			Validator: requirePagesIn(pages.min, pages.max),
		})
		if err != nil {
			return err
		}
		count, _ := strconv.Atoi(strings.TrimSpace(answer))
		r.wizard.SetPageCount(count)
	}

	return r.optionalChoice(ctx, "Timeline", r.catalog.Timelines(), r.wizard.SetTimeline)
}

func (r *Runner) featuresStep(ctx context.Context) error {
	state := r.wizard.State()
	pkg, ok := r.catalog.Package(state.SelectedPackage)
	if ok && len(pkg.AllowedFeatures) > 0 {
		labels := make([]string, len(pkg.AllowedFeatures))
		defaults := make([]int, 0, len(state.SelectedFeatures))
		for i, id := range pkg.AllowedFeatures {
			labels[i] = r.catalog.FeatureLabel(id)
			for _, selected := range state.SelectedFeatures {
				if selected == id {
					defaults = append(defaults, i)
				}
			}
		}

		picked, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  "Which features do you need?",
			Options:  labels,
			Defaults: defaults,
		})
		if err != nil {
			return err
		}

		want := make(map[string]bool, len(picked))
		for _, idx := range picked {
			if idx >= 0 && idx < len(pkg.AllowedFeatures) {
				want[pkg.AllowedFeatures[idx]] = true
			}
		}
		have := make(map[string]bool, len(state.SelectedFeatures))
		for _, id := range state.SelectedFeatures {
			have[id] = true
		}
		for _, id := range pkg.AllowedFeatures {
			if want[id] != have[id] {
				r.wizard.ToggleFeature(id)
			}
		}
	}

	return r.optionalChoice(ctx, "Budget", r.catalog.Budgets(), r.wizard.SetBudget)
}

func (r *Runner) detailsStep(ctx context.Context) error {
	state := r.wizard.State()

	message, err := r.driver.TextArea(ctx, TextAreaConfig{
		Message: "Tell us about the project",
		Default: state.Message,
	})
	if err != nil {
		return err
	}
	r.wizard.SetMessage(message)

	website, err := r.driver.Input(ctx, InputConfig{
		Message: "Current website (optional)",
		Default: state.CurrentWebsite,
	})
	if err != nil {
		return err
	}
	r.wizard.SetCurrentWebsite(website)

	links, err := r.driver.Input(ctx, InputConfig{
		Message: "Sites you like, comma separated (optional, up to 5)",
		Default: strings.Join(state.CompetitorLinks, ", "),
	})
	if err != nil {
		return err
	}
	r.wizard.SetCompetitorLinks(strings.Split(links, ","))

	referral, err := r.driver.Input(ctx, InputConfig{
		Message: "How did you hear about us? (optional)",
		Default: state.ReferralSource,
	})
	if err != nil {
		return err
	}
	r.wizard.SetReferralSource(referral)
	return nil
}

func (r *Runner) submit(ctx context.Context) error {
	for {
		confirmed, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: "Send the request?",
			Default: true,
		})
		if err != nil {
			return err
		}
		if !confirmed {
			return ErrAborted
		}

		submitErr := r.wizard.Submit(ctx)
		if submitErr == nil {
			return nil
		}
		if infoErr := r.driver.Info(ctx, submitErr.Error()); infoErr != nil {
			return infoErr
		}

		retry, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: "Try again?",
			Default: true,
		})
		if err != nil {
			return err
		}
		if !retry {
			return submitErr
		}
	}
}

func (r *Runner) optionalChoice(ctx context.Context, label string, choices []catalog.Choice, set func(string)) error {
	if len(choices) == 0 {
		return nil
	}
	labels := make([]string, 0, len(choices)+1)
	labels = append(labels, skipLabel)
	for _, choice := range choices {
		labels = append(labels, choice.Label)
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: label,
		Options: labels,
	})
	if err != nil {
		return err
	}
	if idx == 0 {
		return nil
	}
	set(choices[idx-1].ID)
	return nil
}

type pageBounds struct {
	min, max int
}

func (r *Runner) pageBounds() (pageBounds, bool) {
	pkg, ok := r.catalog.Package(r.wizard.State().SelectedPackage)
	if !ok {
		return pageBounds{}, false
	}
	return pageBounds{min: pkg.MinPages, max: pkg.MaxPages}, true
}

func requireValue(message string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return errors.New(message)
		}
		return nil
	}
}

func requireEmail() func(string) error {
	return func(value string) error {
		value = strings.TrimSpace(value)
		if value == "" {
			return errors.New("email is required")
		}
		if !strings.Contains(value, "@") || !strings.Contains(value, ".") {
			return errors.New("that doesn't look like an email address")
		}
		return nil
	}
}

func requirePagesIn(min, max int) func(string) error {
	return func(value string) error {
		count, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return errors.New("enter a number")
		}
		if count < min || count > max {
			return fmt.Errorf("pages must be between %d and %d", min, max)
		}
		return nil
	}
}
