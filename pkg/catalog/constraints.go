package catalog

// Constraints captures the form-state bounds derived from a package
// selection. Deriving them is a pure function of the package so callers can
// apply them synchronously inside the selection path instead of reacting to
// it after the fact.
type Constraints struct {
	MinPages        int
	MaxPages        int
	DefaultPages    int
	AllowedFeatures map[string]struct{}
}

// DeriveConstraints computes the page range and allowed feature set for a
// package.
func DeriveConstraints(p Package) Constraints {
	allowed := make(map[string]struct{}, len(p.AllowedFeatures))
	for _, id := range p.AllowedFeatures {
		allowed[id] = struct{}{}
	}
	return Constraints{
		MinPages:        p.MinPages,
		MaxPages:        p.MaxPages,
		DefaultPages:    p.DefaultPages,
		AllowedFeatures: allowed,
	}
}

// Allows reports whether the feature ID is permitted under the constraints.
func (c Constraints) Allows(featureID string) bool {
	_, ok := c.AllowedFeatures[featureID]
	return ok
}

// ClampPages fits a page count into the constraint range. A value already in
// range is kept; a value that would land on the boundary after clamping is
// replaced with the package default instead.
func (c Constraints) ClampPages(current int) int {
	if current >= c.MinPages && current <= c.MaxPages {
		return current
	}
	if c.DefaultPages >= c.MinPages && c.DefaultPages <= c.MaxPages {
		return c.DefaultPages
	}
	if current < c.MinPages {
		return c.MinPages
	}
	return c.MaxPages
}

// Intersect returns the subset of selected feature IDs still allowed under
// the constraints, preserving the original order.
func (c Constraints) Intersect(selected []string) []string {
	if len(selected) == 0 {
		return nil
	}
	out := make([]string, 0, len(selected))
	for _, id := range selected {
		if c.Allows(id) {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
