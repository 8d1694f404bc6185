package notify

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// engine wraps a pongo2 template set loaded from an fs.FS, caching parsed
// templates per name.
type engine struct {
	mu          sync.RWMutex
	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	extension   string
}

func newEngine(files fs.FS) (*engine, error) {
	if files == nil {
		return nil, errors.New("notify: template filesystem is nil")
	}
	return &engine{
		templateSet: pongo2.NewSet("notify", pongo2.NewFSLoader(files)),
		templates:   make(map[string]*pongo2.Template),
		extension:   ".tpl",
	}, nil
}

func (e *engine) render(name string, data map[string]any) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("notify: template engine is nil")
	}
	if !strings.HasSuffix(name, e.extension) {
		name += e.extension
	}

	tmpl, err := e.template(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context(data), &buf); err != nil {
		return "", fmt.Errorf("notify: execute template %q: %w", name, err)
	}
	return buf.String(), nil
}

func (e *engine) template(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[name]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.templateSet.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("notify: load template %q: %w", name, err)
	}
	e.templates[name] = tmpl
	return tmpl, nil
}
