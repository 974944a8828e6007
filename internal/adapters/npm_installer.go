package adapters

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"voltron/internal/ports"
	"voltron/internal/shared"
	"voltron/internal/types"
)

const defaultNpmBinary = "npm"

// NpmInstallerAdapter installs packages with `npm install` without
// touching the host's package.json or lock file.
type NpmInstallerAdapter struct {
	Binary string
}

func NewNpmInstallerAdapter(binary string) NpmInstallerAdapter {
	return NpmInstallerAdapter{Binary: binary}
}

func (a NpmInstallerAdapter) Install(ctx context.Context, deps []types.Dependency, targetDir string) error {
	if len(deps) == 0 {
		return nil
	}
	if strings.TrimSpace(targetDir) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("install target directory is empty")
	}
	binary := strings.TrimSpace(a.Binary)
	if binary == "" {
		binary = defaultNpmBinary
	}
	args := NpmInstallArgs(deps)
	log.Ctx(ctx).Info().Str("dir", targetDir).Str("command", binary+" "+strings.Join(args, " ")).Msg("installing dev dependencies")
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = targetDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("%s install failed", binary)).
			WithCause(shared.CommandError(output, err))
	}
	return nil
}

// NpmInstallArgs builds the argument list for one install invocation.
func NpmInstallArgs(deps []types.Dependency) []string {
	args := []string{"install"}
	for _, dep := range deps {
		args = append(args, NpmPackageSpec(dep))
	}
	return append(args, "--no-package-lock", "--no-save")
}

// NpmPackageSpec renders name@range, or the range alone when it already
// names a location (file, git or tarball URL).
func NpmPackageSpec(dep types.Dependency) string {
	versionRange := strings.TrimSpace(dep.Range)
	for _, prefix := range []string{"file:", "git+", "git:", "http:", "https:"} {
		if strings.HasPrefix(versionRange, prefix) {
			return versionRange
		}
	}
	if versionRange == "" {
		return dep.Name
	}
	return dep.Name + "@" + versionRange
}

var _ ports.InstallerPort = NpmInstallerAdapter{}
