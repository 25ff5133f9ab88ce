// Package catalog holds the static achievement catalog and the immutable
// registry the achievement engine reads it through. The registry is built
// once at startup and injected; no package-level mutable state.
package catalog

import (
	"fmt"

	"github.com/studyhall/mastery-api/internal/domain"
)

// Registry is an immutable, indexed view over a set of achievement
// definitions. Safe for concurrent readers.
type Registry struct {
	byKey      map[string]domain.AchievementDefinition
	byCategory map[domain.AchievementCategory][]domain.AchievementDefinition
	ordered    []domain.AchievementDefinition
}

// NewRegistry builds a registry from the given definitions. Definitions are
// validated and duplicate keys rejected, so a bad catalog fails at startup
// rather than at unlock time.
func NewRegistry(definitions []domain.AchievementDefinition) (*Registry, error) {
	r := &Registry{
		byKey:      make(map[string]domain.AchievementDefinition, len(definitions)),
		byCategory: make(map[domain.AchievementCategory][]domain.AchievementDefinition),
		ordered:    make([]domain.AchievementDefinition, 0, len(definitions)),
	}

	for i := range definitions {
		def := definitions[i]
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("invalid achievement definition %q: %w", def.Key, err)
		}
		if _, exists := r.byKey[def.Key]; exists {
			return nil, fmt.Errorf("duplicate achievement key %q", def.Key)
		}

		r.byKey[def.Key] = def
		r.byCategory[def.Category] = append(r.byCategory[def.Category], def)
		r.ordered = append(r.ordered, def)
	}

	return r, nil
}

// Get returns the definition for the given key and whether it exists.
func (r *Registry) Get(key string) (domain.AchievementDefinition, bool) {
	def, ok := r.byKey[key]
	return def, ok
}

// ByCategory returns the definitions in a category, in catalog order.
// The returned slice must not be modified.
func (r *Registry) ByCategory(category domain.AchievementCategory) []domain.AchievementDefinition {
	return r.byCategory[category]
}

// All returns every definition in catalog order.
// The returned slice must not be modified.
func (r *Registry) All() []domain.AchievementDefinition {
	return r.ordered
}

// Len returns the number of definitions in the registry.
func (r *Registry) Len() int {
	return len(r.ordered)
}
