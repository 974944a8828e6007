package app

import (
	"voltron/internal/adapters"
	"voltron/internal/core"
	"voltron/internal/ports"
)

type Service struct {
	Descriptors ports.PackageDescriptorPort
	Layout      ports.PackageLayoutPort
	Sources     func(descriptors ports.PackageDescriptorPort) []ports.ConfigSourcePort
	Builds      ports.BuildLoaderPort
	Manifests   ports.ManifestLoaderPort
	Installer   ports.InstallerPort
}

func NewService() Service {
	return NewServiceWithInstaller(adapters.NewNpmInstallerAdapter(""))
}

func NewServiceWithInstaller(installer ports.InstallerPort) Service {
	return Service{
		Descriptors: adapters.NewPackageJSONAdapter(),
		Layout:      adapters.NewNodeModulesLayout(),
		Sources:     adapters.DefaultConfigSources,
		Builds:      adapters.NewEntryPointBuildAdapter(""),
		Manifests:   adapters.NewManifestFileAdapter(),
		Installer:   installer,
	}
}

// run holds the state scoped to a single pipeline invocation.
type run struct {
	service     Service
	descriptors *core.DescriptorCache
}

func (s Service) newRun() *run {
	return &run{service: s, descriptors: core.NewDescriptorCache(s.Descriptors)}
}

func (r *run) configResolver(workers int) core.ExtensionConfigResolver {
	sources := r.service.Sources
	if sources == nil {
		sources = adapters.DefaultConfigSources
	}
	resolver := core.NewExtensionConfigResolver(r.service.Layout, sources(r.descriptors), r.service.Builds, r.service.Manifests)
	if workers > 0 {
		resolver.Workers = workers
	}
	return resolver
}
