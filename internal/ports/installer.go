package ports

import (
	"context"

	"voltron/internal/types"
)

// InstallerPort installs packages into a target directory with whatever
// package manager the adapter wraps.
type InstallerPort interface {
	Install(ctx context.Context, deps []types.Dependency, targetDir string) error
}
