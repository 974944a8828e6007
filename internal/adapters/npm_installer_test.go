package adapters

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltron/internal/types"
)

func TestNpmInstallArgs(t *testing.T) {
	args := NpmInstallArgs([]types.Dependency{
		{Name: "webpack", Range: "^5.0.0"},
		{Name: "local-lib", Range: "file:../local-lib"},
		{Name: "forked", Range: "git+https://example.com/forked.git"},
		{Name: "any"},
	})
	want := []string{
		"install",
		"webpack@^5.0.0",
		"file:../local-lib",
		"git+https://example.com/forked.git",
		"any",
		"--no-package-lock",
		"--no-save",
	}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Fatalf("unexpected args (-want +got):\n%s", diff)
	}
}

func fakeNpm(t *testing.T, body string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	record := filepath.Join(dir, "args.txt")
	script := "#!/bin/sh\necho \"$PWD $*\" > " + record + "\n" + body
	bin := filepath.Join(dir, "npm")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0755))
	return bin, record
}

func TestNpmInstallerAdapterRunsBinaryInTargetDir(t *testing.T) {
	bin, record := fakeNpm(t, "exit 0\n")
	target := t.TempDir()

	err := NewNpmInstallerAdapter(bin).Install(context.Background(), []types.Dependency{{Name: "rollup", Range: "^4.0.0"}}, target)
	require.NoError(t, err)

	data, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, target+" install rollup@^4.0.0 --no-package-lock --no-save", strings.TrimSpace(string(data)))
}

func TestNpmInstallerAdapterNoDependencies(t *testing.T) {
	bin, record := fakeNpm(t, "exit 0\n")
	require.NoError(t, NewNpmInstallerAdapter(bin).Install(context.Background(), nil, t.TempDir()))
	_, err := os.Stat(record)
	assert.True(t, os.IsNotExist(err))
}

func TestNpmInstallerAdapterFailure(t *testing.T) {
	bin, _ := fakeNpm(t, "echo 'E404 not found' >&2\nexit 1\n")

	err := NewNpmInstallerAdapter(bin).Install(context.Background(), []types.Dependency{{Name: "missing", Range: "1.0.0"}}, t.TempDir())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "install failed")
}

func TestNpmInstallerAdapterEmptyTarget(t *testing.T) {
	err := NewNpmInstallerAdapter("").Install(context.Background(), []types.Dependency{{Name: "a"}}, " ")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
