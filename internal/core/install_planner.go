package core

import (
	"context"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog/log"

	"voltron/internal/policies"
	"voltron/internal/ports"
	"voltron/internal/types"
)

type SkipReason string

const (
	SkipBlacklisted      SkipReason = "blacklisted"
	SkipAlreadyInstalled SkipReason = "already installed"
)

type SkippedDependency struct {
	Dependency types.Dependency
	Reason     SkipReason
	Installed  string
}

// InstallPlan is the set of dev dependencies one extension still needs.
type InstallPlan struct {
	Extension string
	Dir       string
	Install   []types.Dependency
	Skipped   []SkippedDependency
}

// InstallPlanner decides which extension dev dependencies to install into
// the host.
type InstallPlanner struct {
	Descriptors ports.PackageDescriptorPort
	Layout      ports.PackageLayoutPort
}

func NewInstallPlanner(descriptors ports.PackageDescriptorPort, layout ports.PackageLayoutPort) InstallPlanner {
	return InstallPlanner{Descriptors: descriptors, Layout: layout}
}

// Plan returns one plan per extension in input order. An extension
// without a descriptor gets an empty plan.
func (p InstallPlanner) Plan(ctx context.Context, names []string, baseDir string) ([]InstallPlan, error) {
	plans := make([]InstallPlan, 0, len(names))
	for _, name := range names {
		extDir := p.Layout.ExtensionDir(baseDir, name)
		plan := InstallPlan{Extension: name, Dir: extDir}
		desc, found, err := p.Descriptors.ReadDescriptor(extDir)
		if err != nil {
			return nil, types.NewError(types.ErrorKindInvalidExtensionConfig, name, err)
		}
		if !found {
			log.Ctx(ctx).Debug().Str("extension", name).Str("dir", extDir).Msg("extension has no package descriptor")
			plans = append(plans, plan)
			continue
		}
		kept, dropped := policies.FilterBlacklisted(desc.DevDependencies)
		for _, dep := range dropped {
			plan.Skipped = append(plan.Skipped, SkippedDependency{Dependency: dep, Reason: SkipBlacklisted})
		}
		for _, dep := range kept {
			if installed, ok := p.satisfied(dep, baseDir); ok {
				plan.Skipped = append(plan.Skipped, SkippedDependency{Dependency: dep, Reason: SkipAlreadyInstalled, Installed: installed})
				continue
			}
			plan.Install = append(plan.Install, dep)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// satisfied reports whether dep is installed in the host at a version the
// range accepts. Ranges that are not semver constraints never are.
func (p InstallPlanner) satisfied(dep types.Dependency, baseDir string) (string, bool) {
	constraint, err := semver.NewConstraint(strings.TrimSpace(dep.Range))
	if err != nil {
		return "", false
	}
	desc, found, err := p.Descriptors.ReadDescriptor(p.Layout.ExtensionDir(baseDir, dep.Name))
	if err != nil || !found {
		return "", false
	}
	version, err := semver.NewVersion(desc.Version)
	if err != nil {
		return "", false
	}
	if !constraint.Check(version) {
		return "", false
	}
	return desc.Version, true
}
