package core

import (
	"strings"

	"voltron/internal/shared"
	"voltron/internal/types"
)

// ExtensionMarker is the naming convention that identifies an extension.
const ExtensionMarker = "voltron-"

type ExtensionNameResolver struct {
	Marker string
}

func NewExtensionNameResolver() ExtensionNameResolver {
	return ExtensionNameResolver{Marker: ExtensionMarker}
}

// Resolve returns the dependency names of desc that carry the marker, in
// declaration order and without duplicates. Exclude wins over Include;
// blank filter entries are ignored.
func (r ExtensionNameResolver) Resolve(desc types.PackageDescriptor, filter types.ExtensionFilter) []string {
	marker := r.Marker
	if marker == "" {
		marker = ExtensionMarker
	}
	include := shared.NonBlank(filter.Include)
	exclude := shared.NonBlank(filter.Exclude)

	seen := map[string]struct{}{}
	var names []string
	for _, dep := range desc.Dependencies {
		name := dep.Name
		if !strings.Contains(name, marker) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		if len(include) > 0 && !shared.ContainsAny(name, include) {
			continue
		}
		if shared.ContainsAny(name, exclude) {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
