// Package catalog provides reusable strategy templates and the builder
// that resolves them into concrete, priced legs at a spot price.
package catalog

import (
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	apperrors "options-strategist/internal/errors"
	"options-strategist/internal/models"
)

// Registry holds strategy templates by id. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]models.StrategyTemplate
	order     []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		templates: make(map[string]models.StrategyTemplate),
	}
}

// NewBuiltinRegistry creates a registry preloaded with the built-in
// strategy templates.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, tpl := range BuiltinTemplates() {
		// Builtins are defined in this package and always validate.
		_ = r.Register(tpl)
	}
	return r
}

// Register validates a template and adds it to the registry. Registering
// an existing id replaces the template but keeps its listing position.
func (r *Registry) Register(tpl models.StrategyTemplate) error {
	if err := tpl.Validate(); err != nil {
		return err
	}
	id := normalizeID(tpl.ID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.templates[id]; !exists {
		r.order = append(r.order, id)
	}
	r.templates[id] = tpl
	return nil
}

// Find returns the template with the given id (case-insensitive).
func (r *Registry) Find(id string) (models.StrategyTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tpl, ok := r.templates[normalizeID(id)]
	if !ok {
		return models.StrategyTemplate{}, apperrors.Wrapf(apperrors.ErrTemplateNotFound, "template %q", id)
	}
	return tpl, nil
}

// List returns all templates in registration order.
func (r *Registry) List() []models.StrategyTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.StrategyTemplate, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.templates[id])
	}
	return out
}

// ListByBias returns templates matching a bias, in registration order.
func (r *Registry) ListByBias(bias models.Bias) []models.StrategyTemplate {
	var out []models.StrategyTemplate
	for _, tpl := range r.List() {
		if tpl.Bias == bias {
			out = append(out, tpl)
		}
	}
	return out
}

// IDs returns the registered template ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}

// templateFile is the on-disk shape of a user template file.
type templateFile struct {
	Strategies []models.StrategyTemplate `yaml:"strategies"`
}

// LoadFile reads user templates from a YAML file and registers them,
// returning how many were added. Templates in the file may override
// builtins that share an id.
func (r *Registry) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, apperrors.Wrapf(err, "reading template file %s", path)
	}

	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, apperrors.Wrapf(err, "parsing template file %s", path)
	}

	for _, tpl := range file.Strategies {
		if err := r.Register(tpl); err != nil {
			return 0, apperrors.Wrapf(err, "template file %s", path)
		}
	}
	return len(file.Strategies), nil
}

// normalizeID canonicalizes template ids for lookup.
func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
