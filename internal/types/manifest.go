package types

import (
	"encoding/json"
	"fmt"
)

// Manifest is a JSON-like document: values are map[string]any, []any,
// string, float64, bool or nil.
type Manifest map[string]any

// ManifestKeyWhitelist lists the only keys merged from extension fragments.
var ManifestKeyWhitelist = []string{"content_scripts", "permissions", "web_accessible_resources"}

func IsWhitelistedKey(key string) bool {
	for _, allowed := range ManifestKeyWhitelist {
		if allowed == key {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Maps and slices are copied recursively;
// other values are copied by assignment.
func (m Manifest) Clone() Manifest {
	if m == nil {
		return Manifest{}
	}
	out := make(Manifest, len(m))
	for key, value := range m {
		out[key] = CloneValue(value)
	}
	return out
}

func CloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = CloneValue(item)
		}
		return out
	case Manifest:
		return typed.Clone()
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(typed))
		copy(out, typed)
		return out
	default:
		return value
	}
}

// Normalize returns a copy of m holding only the value types listed on
// Manifest. Go-typed slices, maps and numbers are converted, so two
// manifests with the same JSON form compare equal.
func (m Manifest) Normalize() (Manifest, error) {
	if m == nil {
		return Manifest{}, nil
	}
	return NormalizeManifest(map[string]any(m))
}

// NormalizeManifest round-trips raw through encoding/json. raw must encode
// to a JSON object or null.
func NormalizeManifest(raw any) (Manifest, error) {
	if raw == nil {
		return Manifest{}, nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var manifest map[string]any
	if err := json.Unmarshal(encoded, &manifest); err != nil {
		return nil, fmt.Errorf("manifest must be an object: %w", err)
	}
	if manifest == nil {
		return Manifest{}, nil
	}
	return Manifest(manifest), nil
}

// MergeWarning reports a fragment entry that was not merged.
type MergeWarning struct {
	Extension string
	Key       string
	Reason    MergeWarningReason
}
