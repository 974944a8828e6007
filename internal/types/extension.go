package types

import (
	"context"
	"time"
)

// BuildOptions is handed unchanged to every extension build.
type BuildOptions struct {
	OutputDir string            `json:"outputDir,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
	Extra     map[string]any    `json:"extra,omitempty"`
}

// BuildFunc is an extension's build entry point. The returned value is
// opaque to the orchestrator.
type BuildFunc func(ctx context.Context, opts BuildOptions) (any, error)

// ExtensionConfig is the loaded build entry point and manifest fragment of
// one extension. It is not modified after resolution.
type ExtensionConfig struct {
	Name           string
	Dir            string
	BuildPath      string
	BuildSource    ConfigSourceKind
	ManifestPath   string
	ManifestSource ConfigSourceKind
	Build          BuildFunc
	Manifest       Manifest
}

type BuildResult struct {
	Extension string
	Value     any
	Attempts  int
	Duration  time.Duration
}

// BuildReport is the outcome of a sequential build over a config list.
// Results holds the extensions that completed, in input order. Failed and
// Err are set only for BuildStatusFailed; NotStarted lists the extensions
// that were never invoked.
type BuildReport struct {
	Status     BuildStatus
	Results    []BuildResult
	Failed     string
	Err        error
	NotStarted []string
}
