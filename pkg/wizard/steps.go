package wizard

// Step indexes the ordered step list. The order is fixed; only the package
// step may be skipped, and only when a preselection already satisfied it.
type Step int

const (
	// StepContact collects name, email, and optional phone/company.
	StepContact Step = iota
	// StepPackage selects a service tier.
	StepPackage
	// StepProject selects the project type, page count, and timeline.
	StepProject
	// StepFeatures toggles optional features and budget.
	StepFeatures
	// StepDetails collects the project description and auxiliary links.
	StepDetails

	stepCount
)

// Steps returns the ordered step list.
func Steps() []Step {
	return []Step{StepContact, StepPackage, StepProject, StepFeatures, StepDetails}
}

// String names the step for logs and error messages.
func (s Step) String() string {
	switch s {
	case StepContact:
		return "contact"
	case StepPackage:
		return "package"
	case StepProject:
		return "project"
	case StepFeatures:
		return "features"
	case StepDetails:
		return "details"
	default:
		return "unknown"
	}
}
