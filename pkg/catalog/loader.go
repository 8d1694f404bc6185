package catalog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	errNoPackages  = errors.New("catalog: document defines no packages")
	errEmptyLocale = errors.New("catalog: locale is required")
)

type document struct {
	Locale       string        `yaml:"locale" json:"locale"`
	Packages     []packageDoc  `yaml:"packages" json:"packages"`
	Features     []choiceDoc   `yaml:"features" json:"features"`
	ProjectTypes []choiceDoc   `yaml:"projectTypes" json:"projectTypes"`
	Timelines    []choiceDoc   `yaml:"timelines" json:"timelines"`
	Budgets      []choiceDoc   `yaml:"budgets" json:"budgets"`
}

type packageDoc struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	Price        string   `yaml:"price" json:"price"`
	MinPages     int      `yaml:"minPages" json:"minPages"`
	MaxPages     int      `yaml:"maxPages" json:"maxPages"`
	DefaultPages int      `yaml:"defaultPages" json:"defaultPages"`
	Features     []string `yaml:"features" json:"features"`
}

type choiceDoc struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// Load parses a catalog document from the reader.
func Load(r io.Reader) (*Catalog, error) {
	if r == nil {
		return nil, errors.New("catalog: reader is nil")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: read document: %w", err)
	}
	return parse(data)
}

// LoadFile parses a catalog document from a path on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return parse(data)
}

// LoadFS parses a catalog document from an fs.FS entry.
func LoadFS(fsys fs.FS, name string) (*Catalog, error) {
	if fsys == nil {
		return nil, errors.New("catalog: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", name, err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse document: %w", err)
	}
	return build(doc)
}

func build(doc document) (*Catalog, error) {
	locale := strings.TrimSpace(doc.Locale)
	if locale == "" {
		return nil, errEmptyLocale
	}
	if len(doc.Packages) == 0 {
		return nil, errNoPackages
	}

	features, featureIndex, err := buildChoices("feature", doc.Features)
	if err != nil {
		return nil, err
	}
	projectTypes, projectIndex, err := buildChoices("project type", doc.ProjectTypes)
	if err != nil {
		return nil, err
	}
	timelines, timelineIdx, err := buildChoices("timeline", doc.Timelines)
	if err != nil {
		return nil, err
	}
	budgets, budgetIndex, err := buildChoices("budget", doc.Budgets)
	if err != nil {
		return nil, err
	}

	packages := make([]Package, 0, len(doc.Packages))
	packageIndex := make(map[string]int, len(doc.Packages))
	for _, raw := range doc.Packages {
		pkg, err := buildPackage(raw, featureIndex)
		if err != nil {
			return nil, err
		}
		if _, exists := packageIndex[pkg.ID]; exists {
			return nil, fmt.Errorf("catalog: duplicate package id %q", pkg.ID)
		}
		packageIndex[pkg.ID] = len(packages)
		packages = append(packages, pkg)
	}

	return &Catalog{
		locale:       locale,
		packages:     packages,
		packageIndex: packageIndex,
		features:     features,
		featureIndex: featureIndex,
		projectTypes: projectTypes,
		projectIndex: projectIndex,
		timelines:    timelines,
		timelineIdx:  timelineIdx,
		budgets:      budgets,
		budgetIndex:  budgetIndex,
	}, nil
}

func buildPackage(raw packageDoc, featureIndex map[string]string) (Package, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return Package{}, errors.New("catalog: package id is required")
	}
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return Package{}, fmt.Errorf("catalog: package %q has no name", id)
	}
	if raw.MinPages <= 0 || raw.MaxPages < raw.MinPages {
		return Package{}, fmt.Errorf("catalog: package %q has invalid page range [%d,%d]", id, raw.MinPages, raw.MaxPages)
	}
	defaultPages := raw.DefaultPages
	if defaultPages == 0 {
		defaultPages = raw.MinPages
	}
	if defaultPages < raw.MinPages || defaultPages > raw.MaxPages {
		return Package{}, fmt.Errorf("catalog: package %q default pages %d outside [%d,%d]", id, defaultPages, raw.MinPages, raw.MaxPages)
	}

	allowed := make([]string, 0, len(raw.Features))
	seen := make(map[string]struct{}, len(raw.Features))
	for _, featureID := range raw.Features {
		featureID = strings.TrimSpace(featureID)
		if featureID == "" {
			continue
		}
		if _, ok := featureIndex[featureID]; !ok {
			return Package{}, fmt.Errorf("catalog: package %q allows unknown feature %q", id, featureID)
		}
		if _, dup := seen[featureID]; dup {
			continue
		}
		seen[featureID] = struct{}{}
		allowed = append(allowed, featureID)
	}

	return Package{
		ID:              id,
		Name:            name,
		Price:           strings.TrimSpace(raw.Price),
		MinPages:        raw.MinPages,
		MaxPages:        raw.MaxPages,
		DefaultPages:    defaultPages,
		AllowedFeatures: allowed,
	}, nil
}

func buildChoices(kind string, docs []choiceDoc) ([]Choice, map[string]string, error) {
	choices := make([]Choice, 0, len(docs))
	index := make(map[string]string, len(docs))
	for _, raw := range docs {
		id := strings.TrimSpace(raw.ID)
		if id == "" {
			return nil, nil, fmt.Errorf("catalog: %s id is required", kind)
		}
		if _, exists := index[id]; exists {
			return nil, nil, fmt.Errorf("catalog: duplicate %s id %q", kind, id)
		}
		label := strings.TrimSpace(raw.Label)
		if label == "" {
			label = id
		}
		index[id] = label
		choices = append(choices, Choice{ID: id, Label: label})
	}
	return choices, index, nil
}
