package app

import (
	"voltron/internal/core"
	"voltron/internal/types"
)

type ListRequest struct {
	Cwd    string
	Filter types.ExtensionFilter
}

type ListResult struct {
	DescriptorPath string
	BaseDir        string
	Extensions     []string
}

type InspectRequest struct {
	Cwd     string
	Filter  types.ExtensionFilter
	Workers int
}

// InspectExtension describes one resolved extension. Range is the version
// range the host declares for it.
type InspectExtension struct {
	Name           string
	Range          string
	Dir            string
	BuildPath      string
	BuildSource    types.ConfigSourceKind
	ManifestPath   string
	ManifestSource types.ConfigSourceKind
	ManifestKeys   []string
}

type InspectResult struct {
	DescriptorPath string
	Extensions     []InspectExtension
}

type InstallRequest struct {
	Cwd    string
	Filter types.ExtensionFilter
}

type InstallResult struct {
	Plans []core.InstallPlan
}

type MergeRequest struct {
	Cwd          string
	Filter       types.ExtensionFilter
	BaseManifest types.Manifest
	Workers      int
}

type MergeResult struct {
	Extensions []string
	Manifest   types.Manifest
	Warnings   []types.MergeWarning
}

type RunRequest struct {
	Cwd          string
	Filter       types.ExtensionFilter
	BaseManifest types.Manifest
	BuildOptions types.BuildOptions
	SkipInstall  bool
	Retry        core.RetryPolicy
	Workers      int
}

// RunResult is returned even when the run fails during the build phase;
// Manifest is nil unless every build completed.
type RunResult struct {
	Extensions []string
	Installs   []core.InstallPlan
	Build      types.BuildReport
	Manifest   types.Manifest
	Warnings   []types.MergeWarning
}
