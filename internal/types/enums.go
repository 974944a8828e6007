package types

type BuildStatus string

const (
	BuildStatusCompleted BuildStatus = "completed"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusCancelled BuildStatus = "cancelled"
)

type ManifestFormat string

const (
	ManifestFormatJSON ManifestFormat = "json"
	ManifestFormatYAML ManifestFormat = "yaml"
	ManifestFormatTOML ManifestFormat = "toml"
	ManifestFormatCUE  ManifestFormat = "cue"
	ManifestFormatJS   ManifestFormat = "js"
)

type ConfigSourceKind string

const (
	ConfigSourcePackageField ConfigSourceKind = "package-field"
	ConfigSourcePattern      ConfigSourceKind = "pattern"
)

type MergeWarningReason string

const (
	MergeWarningKeyNotWhitelisted MergeWarningReason = "key not whitelisted"
	MergeWarningFragmentNotArray  MergeWarningReason = "fragment value is not an array"
	MergeWarningBaseNotArray      MergeWarningReason = "base value is not an array"
)
