// Package wizard implements the multi-step quote form state machine: step
// sequencing with completion gates, package-derived constraints on the
// collected fields, and single-flight submission to a gateway.
//
// The topology is linear-with-skip: steps are visited in order, and the
// package step is jumped over in both directions when a package was
// preselected (for example via a deep link) and the user has not asked to
// change it.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-intake/pkg/catalog"
)

var (
	// ErrTransitionInFlight is returned when a navigation request arrives
	// while a presentation-layer transition is still running. Requests are
	// dropped, not queued.
	ErrTransitionInFlight = errors.New("wizard: transition in flight")
	// ErrSubmissionInFlight is returned when Submit is called while a prior
	// submission is still pending.
	ErrSubmissionInFlight = errors.New("wizard: submission in flight")
	// ErrAlreadySubmitted is returned once the wizard has reached its
	// terminal submitted state.
	ErrAlreadySubmitted = errors.New("wizard: already submitted")
	// ErrStepIncomplete is returned when the current step's completion gate
	// fails.
	ErrStepIncomplete = errors.New("wizard: step incomplete")
	// ErrIncomplete is returned by Submit when the overall completion
	// predicate fails.
	ErrIncomplete = errors.New("wizard: form incomplete")
	// ErrAtFirstStep is returned by Back on the first step.
	ErrAtFirstStep = errors.New("wizard: already at first step")
	// ErrAtLastStep is returned by Next on the last step.
	ErrAtLastStep = errors.New("wizard: already at last step")
)

// Submitter delivers a finished payload to the submission gateway. The wizard
// calls it at most once per user-initiated Submit.
type Submitter interface {
	Submit(ctx context.Context, payload Payload) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, payload Payload) error

// Submit calls the wrapped function.
func (f SubmitterFunc) Submit(ctx context.Context, payload Payload) error {
	return f(ctx, payload)
}

// TransitionHook is invoked after every step change with the step the wizard
// left and the step it landed on. While the hook runs the wizard rejects
// further navigation; the hook receives a done callback that releases the
// guard, letting animated frontends hold it for the length of their
// transition. Synchronous callers may simply invoke done before returning.
type TransitionHook func(from, to Step, done func())

// Option customises wizard construction.
type Option func(*Wizard)

// WithPreselectedPackage seeds the package selection and marks the package
// step as satisfied, so navigation skips it until RequestPackageChange is
// called. Unknown IDs are ignored.
func WithPreselectedPackage(id string) Option {
	return func(w *Wizard) {
		pkg, ok := w.catalog.Package(id)
		if !ok {
			return
		}
		w.applyPackage(pkg)
		w.packageSkipped = true
	}
}

// WithAutoAdvance makes SelectPackage advance to the next step on its own,
// mirroring frontends that move on as soon as a tier card is clicked. The
// delay before the move belongs to the presentation layer via the transition
// hook.
func WithAutoAdvance() Option {
	return func(w *Wizard) {
		w.autoAdvance = true
	}
}

// WithTransitionHook registers a presentation callback for step changes.
func WithTransitionHook(hook TransitionHook) Option {
	return func(w *Wizard) {
		w.onTransition = hook
	}
}

// WithClock overrides the time source, used by tests to pin the form-load
// timestamp.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) {
		if now != nil {
			w.now = now
		}
	}
}

// Wizard is the form state machine. It is safe for use from a single
// goroutine driving user events; the internal mutex exists so a pending
// network submission cannot race a concurrent state read.
type Wizard struct {
	mu sync.Mutex

	catalog   *catalog.Catalog
	submitter Submitter
	now       func() time.Time

	state FormState
	step  Step

	packageSkipped bool
	autoAdvance    bool
	onTransition   TransitionHook

	transitioning bool
	submitting    bool
	submitted     bool
}

// New constructs a wizard over the given catalog and submitter. The form-load
// timestamp is captured here, at mount time.
func New(cat *catalog.Catalog, submitter Submitter, options ...Option) (*Wizard, error) {
	if cat == nil {
		return nil, errors.New("wizard: catalog is required")
	}
	if submitter == nil {
		return nil, errors.New("wizard: submitter is required")
	}

	w := &Wizard{
		catalog:   cat,
		submitter: submitter,
		now:       time.Now,
		step:      StepContact,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	w.state.LoadedAt = w.now()
	return w, nil
}

// Step reports the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// State returns a copy of the collected form state.
func (w *Wizard) State() FormState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.clone()
}

// Submitted reports whether the wizard reached its terminal state.
func (w *Wizard) Submitted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitted
}

// Pending reports whether a submission is in flight.
func (w *Wizard) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Next advances to the following step if the current step's completion gate
// passes. Leaving the contact step jumps over the package step when it was
// satisfied by a preselection.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitted {
		return ErrAlreadySubmitted
	}
	if w.transitioning {
		return ErrTransitionInFlight
	}
	if w.step >= StepDetails {
		return ErrAtLastStep
	}
	if !w.stepCompleteLocked(w.step) {
		return fmt.Errorf("%w: %s", ErrStepIncomplete, w.step)
	}

	next := w.step + 1
	if next == StepPackage && w.packageSkipped {
		next++
	}
	w.moveLocked(next)
	return nil
}

// Back returns to the previous step, jumping over a skipped package step.
// Already-entered data is never cleared by navigation.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitted {
		return ErrAlreadySubmitted
	}
	if w.transitioning {
		return ErrTransitionInFlight
	}
	if w.step <= StepContact {
		return ErrAtFirstStep
	}

	prev := w.step - 1
	if prev == StepPackage && w.packageSkipped {
		prev--
	}
	w.moveLocked(prev)
	return nil
}

// RequestPackageChange puts the package step back into the navigation order
// after a preselection, so the user can pick a different tier.
func (w *Wizard) RequestPackageChange() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.packageSkipped = false
}

// SelectPackage sets the package and applies its derived constraints in the
// same call: features outside the new allow-list are removed and the page
// count is re-clamped into the new range. With auto-advance enabled, a
// selection made on the package step also moves forward.
func (w *Wizard) SelectPackage(id string) error {
	w.mu.Lock()

	if w.submitted {
		w.mu.Unlock()
		return ErrAlreadySubmitted
	}
	pkg, ok := w.catalog.Package(id)
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("wizard: unknown package %q", id)
	}
	w.applyPackage(pkg)
	w.packageSkipped = false
	advance := w.autoAdvance && w.step == StepPackage
	w.mu.Unlock()

	if advance {
		return w.Next()
	}
	return nil
}

func (w *Wizard) applyPackage(pkg catalog.Package) {
	constraints := catalog.DeriveConstraints(pkg)
	w.state.SelectedPackage = pkg.ID
	w.state.SelectedFeatures = constraints.Intersect(w.state.SelectedFeatures)
	if w.state.PageCount == 0 {
		w.state.PageCount = constraints.DefaultPages
	} else {
		w.state.PageCount = constraints.ClampPages(w.state.PageCount)
	}
}

// ToggleFeature flips membership of a feature in the selection. Features
// outside the current package's allow-list are ignored.
func (w *Wizard) ToggleFeature(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitted {
		return
	}
	pkg, ok := w.catalog.Package(w.state.SelectedPackage)
	if !ok || !pkg.Allows(id) {
		return
	}
	for i, existing := range w.state.SelectedFeatures {
		if existing == id {
			w.state.SelectedFeatures = append(w.state.SelectedFeatures[:i], w.state.SelectedFeatures[i+1:]...)
			return
		}
	}
	w.state.SelectedFeatures = append(w.state.SelectedFeatures, id)
}

// SetPageCount stores a page count clamped into the selected package's range.
// Without a package selection the value is stored as given.
func (w *Wizard) SetPageCount(pages int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitted {
		return
	}
	if pkg, ok := w.catalog.Package(w.state.SelectedPackage); ok {
		constraints := catalog.DeriveConstraints(pkg)
		if pages < constraints.MinPages {
			pages = constraints.MinPages
		}
		if pages > constraints.MaxPages {
			pages = constraints.MaxPages
		}
	}
	w.state.PageCount = pages
}

// SetContact stores the contact fields.
func (w *Wizard) SetContact(contact Contact) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitted {
		return
	}
	w.state.Contact = contact
}

// SetProjectType stores the project type if the catalog knows it.
func (w *Wizard) SetProjectType(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitted {
		return ErrAlreadySubmitted
	}
	if !w.catalog.HasProjectType(id) {
		return fmt.Errorf("wizard: unknown project type %q", id)
	}
	w.state.ProjectType = id
	return nil
}

// SetTimeline stores the timeline choice. Optional, so no validation beyond
// trimming.
func (w *Wizard) SetTimeline(id string) {
	w.setOptional(func(s *FormState) { s.Timeline = strings.TrimSpace(id) })
}

// SetBudget stores the budget choice.
func (w *Wizard) SetBudget(id string) {
	w.setOptional(func(s *FormState) { s.Budget = strings.TrimSpace(id) })
}

// SetMessage stores the project description.
func (w *Wizard) SetMessage(message string) {
	w.setOptional(func(s *FormState) { s.Message = message })
}

// SetCurrentWebsite stores the existing site URL.
func (w *Wizard) SetCurrentWebsite(url string) {
	w.setOptional(func(s *FormState) { s.CurrentWebsite = strings.TrimSpace(url) })
}

// SetReferralSource stores how the prospect found the agency.
func (w *Wizard) SetReferralSource(source string) {
	w.setOptional(func(s *FormState) { s.ReferralSource = strings.TrimSpace(source) })
}

// SetCompetitorLinks stores up to five non-empty reference URLs.
func (w *Wizard) SetCompetitorLinks(links []string) {
	w.setOptional(func(s *FormState) {
		cleaned := make([]string, 0, len(links))
		for _, link := range links {
			link = strings.TrimSpace(link)
			if link == "" {
				continue
			}
			cleaned = append(cleaned, link)
			if len(cleaned) == maxCompetitorLinks {
				break
			}
		}
		if len(cleaned) == 0 {
			cleaned = nil
		}
		s.CompetitorLinks = cleaned
	})
}

// SetHoneypot records the hidden trap field. Real users never reach this;
// the tests and any programmatic frontends do.
func (w *Wizard) SetHoneypot(value string) {
	w.setOptional(func(s *FormState) { s.Honeypot = value })
}

func (w *Wizard) setOptional(apply func(*FormState)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitted {
		return
	}
	apply(&w.state)
}

// StepComplete reports whether the completion gate for a step passes.
func (w *Wizard) StepComplete(step Step) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stepCompleteLocked(step)
}

// CanSubmit reports overall completion independent of the current step, so a
// summary panel can reflect it at any time.
func (w *Wizard) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canSubmitLocked()
}

func (w *Wizard) canSubmitLocked() bool {
	return w.stepCompleteLocked(StepContact) &&
		w.stepCompleteLocked(StepProject) &&
		w.stepCompleteLocked(StepDetails)
}

func (w *Wizard) stepCompleteLocked(step Step) bool {
	switch step {
	case StepContact:
		return w.state.Contact.valid()
	case StepPackage:
		return w.state.SelectedPackage != ""
	case StepProject:
		return w.state.ProjectType != ""
	case StepFeatures:
		return true
	case StepDetails:
		return strings.TrimSpace(w.state.Message) != ""
	default:
		return false
	}
}

// Submit builds the payload once and hands it to the submitter. Exactly one
// submission may be in flight; re-entrant calls fail with
// ErrSubmissionInFlight. Success is terminal; failure returns control to the
// same step so the user can edit and retry. There is no automatic retry.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.submitted {
		w.mu.Unlock()
		return ErrAlreadySubmitted
	}
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmissionInFlight
	}
	if !w.canSubmitLocked() {
		w.mu.Unlock()
		return ErrIncomplete
	}
	w.submitting = true
	payload := buildPayload(w.state)
	w.mu.Unlock()

	err := w.submitter.Submit(ctx, payload)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		return fmt.Errorf("wizard: submit: %w", err)
	}
	w.submitted = true
	return nil
}

func (w *Wizard) moveLocked(to Step) {
	from := w.step
	w.step = to
	if w.onTransition == nil {
		return
	}
	w.transitioning = true
	done := func() {
		w.mu.Lock()
		w.transitioning = false
		w.mu.Unlock()
	}
	hook := w.onTransition
	w.mu.Unlock()
	hook(from, to, done)
	w.mu.Lock()
}
