package core

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"voltron/internal/types"
)

func extensionNamesGen() gopter.Gen {
	return gen.SliceOf(gen.OneGenOf(
		gen.AlphaString().Map(func(s string) string { return ExtensionMarker + s }),
		gen.AlphaString(),
	))
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}
	return out
}

func TestExtensionNameResolverProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)
	resolver := NewExtensionNameResolver()

	properties.Property("resolution is idempotent", prop.ForAll(
		func(names []string, include []string, exclude []string) bool {
			desc := descriptorWith(names...)
			filter := types.ExtensionFilter{Include: include, Exclude: exclude}
			return cmp.Equal(resolver.Resolve(desc, filter), resolver.Resolve(desc, filter))
		},
		extensionNamesGen(),
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("every name carries the marker and no excluded substring", prop.ForAll(
		func(names []string, exclude []string) bool {
			got := resolver.Resolve(descriptorWith(names...), types.ExtensionFilter{Include: exclude, Exclude: exclude})
			for _, name := range got {
				if !strings.Contains(name, ExtensionMarker) {
					return false
				}
				for _, entry := range exclude {
					if entry != "" && strings.Contains(name, entry) {
						return false
					}
				}
			}
			return true
		},
		extensionNamesGen(),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("names are unique", prop.ForAll(
		func(names []string) bool {
			seen := map[string]bool{}
			for _, name := range resolver.Resolve(descriptorWith(names...), types.ExtensionFilter{}) {
				if seen[name] {
					return false
				}
				seen[name] = true
			}
			return true
		},
		extensionNamesGen(),
	))

	properties.TestingRun(t)
}

func TestManifestMergerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)
	merger := NewManifestMerger()

	properties.Property("merge does not modify base and is idempotent", prop.ForAll(
		func(base []string, first []string, second []string) bool {
			baseManifest := types.Manifest{"permissions": stringsToAny(base)}
			before := baseManifest.Clone()
			configs := []types.ExtensionConfig{
				fragment("voltron-a", types.Manifest{"permissions": stringsToAny(first)}),
				fragment("voltron-b", types.Manifest{"permissions": stringsToAny(second), "name": "x"}),
			}
			once, _ := merger.Merge(context.Background(), configs, baseManifest)
			twice, _ := merger.Merge(context.Background(), configs, once)
			return cmp.Equal(before, baseManifest) && cmp.Equal(once, twice)
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("only whitelisted keys change", prop.ForAll(
		func(key string, values []string) bool {
			base := types.Manifest{"name": "host"}
			configs := []types.ExtensionConfig{fragment("voltron-a", types.Manifest{key: stringsToAny(values)})}
			merged, _ := merger.Merge(context.Background(), configs, base)
			for mergedKey := range merged {
				if mergedKey != "name" && !types.IsWhitelistedKey(mergedKey) {
					return false
				}
			}
			return true
		},
		gen.OneGenOf(gen.AlphaString(), gen.OneConstOf("permissions", "content_scripts", "web_accessible_resources")),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("every fragment element ends up in the result", prop.ForAll(
		func(base []string, values []string) bool {
			merged, _ := merger.Merge(context.Background(), []types.ExtensionConfig{
				fragment("voltron-a", types.Manifest{"permissions": stringsToAny(values)}),
			}, types.Manifest{"permissions": stringsToAny(base)})
			result := merged["permissions"].([]any)
			for _, value := range values {
				if !containsEqual(result, value) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
