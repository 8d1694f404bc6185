// Package catalog holds the read-only reference data that drives quote
// intake: service packages (tiers), the features each package allows, and the
// option lists for project types, timelines, and budgets. A Catalog is built
// once per locale and never mutated by consumers; the wizard and gateway only
// read from it.
package catalog

import (
	"strings"
)

// Package describes a priced service tier. Page-count bounds and the allowed
// feature set constrain the wizard's form state whenever the package changes.
type Package struct {
	ID              string
	Name            string
	Price           string
	MinPages        int
	MaxPages        int
	DefaultPages    int
	AllowedFeatures []string
}

// Allows reports whether the feature ID is part of this package's allow-list.
func (p Package) Allows(featureID string) bool {
	featureID = strings.TrimSpace(featureID)
	if featureID == "" {
		return false
	}
	for _, id := range p.AllowedFeatures {
		if id == featureID {
			return true
		}
	}
	return false
}

// Choice is a selectable option with a display label, used for features,
// project types, timelines, and budgets.
type Choice struct {
	ID    string
	Label string
}

// Catalog is an immutable per-locale view of the reference data.
type Catalog struct {
	locale       string
	packages     []Package
	packageIndex map[string]int
	features     []Choice
	featureIndex map[string]string
	projectTypes []Choice
	projectIndex map[string]string
	timelines    []Choice
	timelineIdx  map[string]string
	budgets      []Choice
	budgetIndex  map[string]string
}

// Locale reports the locale the catalog was built for.
func (c *Catalog) Locale() string {
	if c == nil {
		return ""
	}
	return c.locale
}

// Packages returns the packages in document order.
func (c *Catalog) Packages() []Package {
	if c == nil {
		return nil
	}
	out := make([]Package, len(c.packages))
	copy(out, c.packages)
	return out
}

// Package looks up a package by ID.
func (c *Catalog) Package(id string) (Package, bool) {
	if c == nil {
		return Package{}, false
	}
	idx, ok := c.packageIndex[strings.TrimSpace(id)]
	if !ok {
		return Package{}, false
	}
	return c.packages[idx], true
}

// Features returns the feature choices in document order.
func (c *Catalog) Features() []Choice {
	if c == nil {
		return nil
	}
	out := make([]Choice, len(c.features))
	copy(out, c.features)
	return out
}

// ProjectTypes returns the selectable project types.
func (c *Catalog) ProjectTypes() []Choice {
	if c == nil {
		return nil
	}
	out := make([]Choice, len(c.projectTypes))
	copy(out, c.projectTypes)
	return out
}

// Timelines returns the selectable timeline options.
func (c *Catalog) Timelines() []Choice {
	if c == nil {
		return nil
	}
	out := make([]Choice, len(c.timelines))
	copy(out, c.timelines)
	return out
}

// Budgets returns the selectable budget options.
func (c *Catalog) Budgets() []Choice {
	if c == nil {
		return nil
	}
	out := make([]Choice, len(c.budgets))
	copy(out, c.budgets)
	return out
}

// HasProjectType reports whether the ID is a known project type.
func (c *Catalog) HasProjectType(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.projectIndex[strings.TrimSpace(id)]
	return ok
}

// PackageLabel resolves a package ID to its display name. Unmapped IDs pass
// through unchanged so values introduced upstream keep working.
func (c *Catalog) PackageLabel(id string) string {
	if c == nil {
		return id
	}
	if pkg, ok := c.Package(id); ok {
		return pkg.Name
	}
	return id
}

// FeatureLabel resolves a feature ID to its display label, passing unmapped
// IDs through unchanged.
func (c *Catalog) FeatureLabel(id string) string {
	return c.lookupLabel(c.featureIndex, id)
}

// ProjectTypeLabel resolves a project-type ID to its display label.
func (c *Catalog) ProjectTypeLabel(id string) string {
	return c.lookupLabel(c.projectIndex, id)
}

// TimelineLabel resolves a timeline ID to its display label.
func (c *Catalog) TimelineLabel(id string) string {
	return c.lookupLabel(c.timelineIdx, id)
}

// BudgetLabel resolves a budget ID to its display label.
func (c *Catalog) BudgetLabel(id string) string {
	return c.lookupLabel(c.budgetIndex, id)
}

func (c *Catalog) lookupLabel(index map[string]string, id string) string {
	if c == nil || len(index) == 0 {
		return id
	}
	if label, ok := index[strings.TrimSpace(id)]; ok && label != "" {
		return label
	}
	return id
}
