// Package catalog holds the registry of procedural templates a trial draft
// can select from.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	appLog "github.com/Anthonyjrchen/LegalClerk/internal/log"
	"github.com/Anthonyjrchen/LegalClerk/internal/model"
)

var ErrTemplateNotFound = errors.New("template not found")

// Catalog is an ordered, read-only set of templates keyed by id.
type Catalog struct {
	templates []model.Template
	byID      map[string]int
}

// New builds a catalog from templates, keeping their order. A later
// template with a duplicate id replaces the earlier one in place.
func New(templates ...model.Template) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(templates))}
	for _, t := range templates {
		t.Deadlines = append([]model.DeadlineRule(nil), t.Deadlines...)
		if i, ok := c.byID[t.ID]; ok {
			c.templates[i] = t
			continue
		}
		c.byID[t.ID] = len(c.templates)
		c.templates = append(c.templates, t)
	}
	return c
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (model.Template, bool) {
	if c == nil {
		return model.Template{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return model.Template{}, false
	}
	return c.templates[i], true
}

// Lookup is Get returning ErrTemplateNotFound for unknown ids.
func (c *Catalog) Lookup(id string) (model.Template, error) {
	t, ok := c.Get(id)
	if !ok {
		return model.Template{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	return t, nil
}

// Templates returns the templates in catalog order.
func (c *Catalog) Templates() []model.Template {
	if c == nil {
		return nil
	}
	out := make([]model.Template, len(c.templates))
	copy(out, c.templates)
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.templates)
}

// file accepts either a bare list of templates or {templates: [...]}.
type file struct {
	Templates []model.Template `yaml:"templates"`
}

// Parse decodes a YAML (or JSON) catalog document.
func Parse(data []byte) (*Catalog, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(root.Content) == 0 {
		return New(), nil
	}

	var templates []model.Template
	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&templates); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
	default:
		var f file
		if err := doc.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		templates = f.Templates
	}
	return New(templates...), nil
}

// Load reads a catalog file. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	appLog.Info("template catalog loaded", "path", path, "templates", c.Len())
	return c, nil
}
