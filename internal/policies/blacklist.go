package policies

import (
	"strings"

	"voltron/internal/types"
)

// DevDependencyBlacklist names test and tooling packages that are never
// installed on behalf of an extension.
var DevDependencyBlacklist = []string{
	"karma",
	"phantomjs",
	"mocha",
	"chai",
	"eslint",
	"sinon",
	"ava",
	"chromedriver",
	"selenium",
}

// IsBlacklisted matches an entry exactly or as a "<entry>-" fragment, so
// "karma-chrome-launcher" and "babel-eslint-plugin" are both caught.
func IsBlacklisted(name string) bool {
	for _, entry := range DevDependencyBlacklist {
		if name == entry || strings.Contains(name, entry+"-") {
			return true
		}
	}
	return false
}

func FilterBlacklisted(deps []types.Dependency) (kept []types.Dependency, dropped []types.Dependency) {
	for _, dep := range deps {
		if IsBlacklisted(dep.Name) {
			dropped = append(dropped, dep)
			continue
		}
		kept = append(kept, dep)
	}
	return kept, dropped
}
