package core

import (
	"context"
	"sort"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog/log"

	"voltron/internal/types"
)

// ManifestMerger folds extension manifest fragments into a copy of a base
// manifest. Only whitelisted, array-valued keys are merged.
type ManifestMerger struct{}

func NewManifestMerger() ManifestMerger {
	return ManifestMerger{}
}

// Merge never modifies base or the fragments. Both are normalized to their
// JSON form first, so the result holds JSON value types only and array
// elements are appended unless a JSON-equal element is already present.
func (m ManifestMerger) Merge(ctx context.Context, configs []types.ExtensionConfig, base types.Manifest) (types.Manifest, []types.MergeWarning) {
	logger := log.Ctx(ctx)
	merged := normalized(ctx, "", base)
	var warnings []types.MergeWarning
	warn := func(extension string, key string, reason types.MergeWarningReason) {
		warnings = append(warnings, types.MergeWarning{Extension: extension, Key: key, Reason: reason})
		logger.Warn().Str("extension", extension).Str("key", key).Msg(string(reason))
	}

	for _, cfg := range configs {
		frag := normalized(ctx, cfg.Name, cfg.Manifest)
		for _, key := range sortedKeys(frag) {
			if !types.IsWhitelistedKey(key) {
				warn(cfg.Name, key, types.MergeWarningKeyNotWhitelisted)
				continue
			}
			fragment, ok := asSlice(frag[key])
			if !ok {
				warn(cfg.Name, key, types.MergeWarningFragmentNotArray)
				continue
			}
			current, exists := merged[key]
			target := []any{}
			if exists {
				existing, ok := asSlice(current)
				if !ok {
					warn(cfg.Name, key, types.MergeWarningBaseNotArray)
					continue
				}
				target = existing
			}
			for _, item := range fragment {
				if containsEqual(target, item) {
					continue
				}
				target = append(target, types.CloneValue(item))
			}
			merged[key] = target
		}
	}
	return merged, warnings
}

// normalized falls back to a plain deep copy when the manifest holds
// values JSON cannot encode.
func normalized(ctx context.Context, extension string, manifest types.Manifest) types.Manifest {
	out, err := manifest.Normalize()
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("extension", extension).Msg("manifest is not JSON encodable; merging as is")
		return manifest.Clone()
	}
	return out
}

func containsEqual(values []any, item any) bool {
	for _, value := range values {
		if cmp.Equal(value, item) {
			return true
		}
	}
	return false
}

// asSlice returns a fresh []any view of the array-like values a manifest
// can hold.
func asSlice(value any) ([]any, bool) {
	switch typed := value.(type) {
	case []any:
		out := make([]any, len(typed))
		copy(out, typed)
		return out, true
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}

func sortedKeys(manifest types.Manifest) []string {
	keys := make([]string, 0, len(manifest))
	for key := range manifest {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
