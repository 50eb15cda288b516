// Package registry is the single source of truth for entity
// classification: canonical types, their risk weights, their
// co-occurrence categories, and vendor-specific alias mappings.
//
// Adapters MUST use NormalizeType to convert vendor-specific types.
// The scorer MUST use GetWeight to look up entity weights.
package registry

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry holds the three static tables plus an optional, swappable
// overlay layer loaded from a weights file. It is safe for concurrent
// use: the base tables never change after New, and the overlay is
// guarded by a mutex so ReloadOverrides can run against a live registry.
type Registry struct {
	baseWeights map[string]int
	categories  map[string]string
	aliases     map[string]string

	mu      sync.RWMutex
	overlay map[string]int

	overlayPath string
}

// New constructs a Registry with the base tables frozen in place. If
// overlayPath is non-empty, an overlay is loaded immediately; a missing
// or unreadable file is not an error — the registry simply runs with no
// overlay.
func New(overlayPath string) *Registry {
	r := &Registry{
		baseWeights: buildBaseWeights(),
		categories:  buildCategories(),
		aliases:     buildVendorAliases(),
		overlay:     map[string]int{},
		overlayPath: overlayPath,
	}
	if overlayPath != "" {
		if err := r.ReloadOverrides(); err != nil {
			// Invalid overlay entries are ignored with a warning, not fatal.
			fmt.Fprintf(os.Stderr, "registry: overlay %s not applied: %v\n", overlayPath, err)
		}
	}
	return r
}

// ReloadOverrides re-reads the overlay file from disk without requiring
// a process restart. Only the overlay layer is replaced; the base
// weight, category, and alias tables are immutable for the life of the
// process.
func (r *Registry) ReloadOverrides() error {
	if r.overlayPath == "" {
		return nil
	}
	data, err := os.ReadFile(r.overlayPath)
	if err != nil {
		return fmt.Errorf("read overlay: %w", err)
	}
	var raw map[string]int
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse overlay: %w", err)
	}
	cleaned := map[string]int{}
	for k, v := range raw {
		if v < 1 || v > 10 {
			continue
		}
		cleaned[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	r.mu.Lock()
	r.overlay = cleaned
	r.mu.Unlock()
	return nil
}

// GetWeight returns the effective weight (overlay if present, otherwise
// base, otherwise DefaultWeight) for a canonical entity type.
func (r *Registry) GetWeight(entityType string) int {
	entityType = strings.ToUpper(entityType)
	r.mu.RLock()
	if w, ok := r.overlay[entityType]; ok {
		r.mu.RUnlock()
		return w
	}
	r.mu.RUnlock()
	if w, ok := r.baseWeights[entityType]; ok {
		return w
	}
	return DefaultWeight
}

// GetCategory returns the category tag for a canonical entity type, or
// "unknown" if it isn't categorized.
func (r *Registry) GetCategory(entityType string) string {
	if cat, ok := r.categories[strings.ToUpper(entityType)]; ok {
		return cat
	}
	return "unknown"
}

// NormalizeType converts a vendor-specific or already-canonical entity
// type string into the registry's canonical, uppercase form.
//
//  1. If rawType (case/whitespace folded) already names a canonical
//     entry, it is returned unchanged (uppercased).
//  2. Else, if it's a known vendor alias, the mapped canonical type wins.
//  3. Else it passes through uppercased, treated as an unknown type with
//     DefaultWeight.
func (r *Registry) NormalizeType(rawType string) string {
	folded := strings.ToUpper(strings.TrimSpace(rawType))
	if _, ok := r.baseWeights[folded]; ok {
		return folded
	}
	if canonical, ok := r.aliases[rawType]; ok {
		return canonical
	}
	if canonical, ok := r.aliases[folded]; ok {
		return canonical
	}
	return folded
}

// IsKnownType reports whether entityType (or its alias) is in the registry.
func (r *Registry) IsKnownType(entityType string) bool {
	folded := strings.ToUpper(strings.TrimSpace(entityType))
	if _, ok := r.baseWeights[folded]; ok {
		return true
	}
	_, ok := r.aliases[entityType]
	return ok
}

// GetTypesByCategory returns every canonical entity type tagged with category.
func (r *Registry) GetTypesByCategory(category string) []string {
	var types []string
	for t, c := range r.categories {
		if c == category {
			types = append(types, t)
		}
	}
	return types
}

// GetHighRiskTypes returns every canonical entity type whose effective
// weight is at least minWeight (defaulting to 8 when minWeight <= 0).
func (r *Registry) GetHighRiskTypes(minWeight int) []string {
	if minWeight <= 0 {
		minWeight = 8
	}
	var types []string
	for t := range r.baseWeights {
		if r.GetWeight(t) >= minWeight {
			types = append(types, t)
		}
	}
	return types
}

// GetAllCategories returns the set of every distinct category name.
func (r *Registry) GetAllCategories() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, c := range r.categories {
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
