package chat

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultAPIModel is the upstream model used when an identifier resolves
// to nothing else.
const DefaultAPIModel = "gpt-4o"

// Model maps a caller-facing identifier to the model name the completions
// endpoint understands.
type Model struct {
	ID       string `json:"id"`
	APIModel string `json:"api_model"`
}

// Registry resolves model identifiers. It is populated explicitly at
// startup; there is no process-wide registration hook.
type Registry struct {
	models map[string]Model
}

// NewRegistry returns a registry holding the given models.
func NewRegistry(models ...Model) (*Registry, error) {
	r := &Registry{models: make(map[string]Model, len(models))}
	for _, m := range models {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns the built-in Copilot model set.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		Model{ID: "github-copilot", APIModel: DefaultAPIModel},
		Model{ID: "github-copilot/claude-3-7-sonnet-thought", APIModel: "claude-3-7-sonnet-thought"},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds or replaces a model.
func (r *Registry) Register(m Model) error {
	if m.ID == "" {
		return fmt.Errorf("model id is required")
	}
	if m.APIModel == "" {
		return fmt.Errorf("api model for %q is required", m.ID)
	}
	r.models[m.ID] = m
	return nil
}

// Lookup returns the model registered under id.
func (r *Registry) Lookup(id string) (Model, bool) {
	m, ok := r.models[id]
	return m, ok
}

// Models returns all registered models sorted by identifier.
func (r *Registry) Models() []Model {
	out := make([]Model, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Resolve converts a model identifier into the upstream model name. A
// provider-prefixed identifier whose suffix is itself a known upstream name
// resolves to that suffix; anything unregistered falls back to the default.
func (r *Registry) Resolve(id string) string {
	if _, suffix, ok := strings.Cut(id, "/"); ok && r.knownAPIModel(suffix) {
		return suffix
	}
	if m, ok := r.models[id]; ok {
		return m.APIModel
	}
	return DefaultAPIModel
}

func (r *Registry) knownAPIModel(name string) bool {
	for _, m := range r.models {
		if m.APIModel == name {
			return true
		}
	}
	return false
}
