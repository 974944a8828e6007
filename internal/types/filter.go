package types

// ExtensionFilter narrows the extension set by substring. A name matching
// any Exclude entry is dropped even when it also matches an Include entry.
type ExtensionFilter struct {
	Include []string `yaml:"include,omitempty" json:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

func (f ExtensionFilter) IsZero() bool {
	return len(f.Include) == 0 && len(f.Exclude) == 0
}
