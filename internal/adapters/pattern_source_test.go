package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltron/internal/types"
)

func touch(t *testing.T, root string, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return path
}

func TestPatternSourceBuildPatternPriority(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "voltron/build.sh")
	want := touch(t, root, "lib/voltron/index.sh")

	got, err := NewPatternSourceAdapter().LocateBuild(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	want = touch(t, root, "src/voltron.sh")
	got, err = NewPatternSourceAdapter().LocateBuild(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPatternSourceJavaScriptEntries(t *testing.T) {
	root := t.TempDir()
	want := touch(t, root, "voltron/build.js")
	touch(t, root, "test/voltron.js")
	got, err := NewPatternSourceAdapter().LocateBuild(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	want = touch(t, root, "voltron.js")
	got, err = NewPatternSourceAdapter().LocateBuild(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	want = touch(t, root, "voltron/build.sh")
	got, err = NewPatternSourceAdapter().LocateBuild(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	js := touch(t, root, "manifest.js")
	got, err = NewPatternSourceAdapter().LocateManifest(root)
	require.NoError(t, err)
	assert.Equal(t, js, got)

	want = touch(t, root, "conf/manifest.cue")
	got, err = NewPatternSourceAdapter().LocateManifest(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPatternSourceFirstFileInLexicalOrder(t *testing.T) {
	root := t.TempDir()
	want := touch(t, root, "a/manifest.json")
	touch(t, root, "b/manifest.json")
	touch(t, root, "manifest.json")

	got, err := NewPatternSourceAdapter().LocateManifest(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPatternSourceManifestFormatPriority(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "manifest.cue")
	want := touch(t, root, "manifest.yaml")

	got, err := NewPatternSourceAdapter().LocateManifest(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPatternSourceSkipsTestAndDependencyDirs(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"test", "tests", "node_modules/dep", "src/tests", ".git"} {
		touch(t, root, dir+"/voltron.sh")
		touch(t, root, dir+"/manifest.json")
	}

	build, err := NewPatternSourceAdapter().LocateBuild(root)
	require.NoError(t, err)
	assert.Empty(t, build)
	manifest, err := NewPatternSourceAdapter().LocateManifest(root)
	require.NoError(t, err)
	assert.Empty(t, manifest)

	want := touch(t, root, "testing/voltron.sh")
	build, err = NewPatternSourceAdapter().LocateBuild(root)
	require.NoError(t, err)
	assert.Equal(t, want, build)
}

func TestPatternSourceIgnoresSimilarNames(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "my-voltron.sh")
	touch(t, root, "voltron/index.sh.bak")
	touch(t, root, "manifest.json5")

	build, err := NewPatternSourceAdapter().LocateBuild(root)
	require.NoError(t, err)
	assert.Empty(t, build)
	manifest, err := NewPatternSourceAdapter().LocateManifest(root)
	require.NoError(t, err)
	assert.Empty(t, manifest)
}

func TestPatternSourceMissingDirectory(t *testing.T) {
	_, err := NewPatternSourceAdapter().LocateBuild(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestPatternSourceRejectsFileAndEmptyPath(t *testing.T) {
	file := touch(t, t.TempDir(), "package.json")
	_, err := NewPatternSourceAdapter().LocateBuild(file)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = NewPatternSourceAdapter().LocateBuild(" ")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestPatternSourceKind(t *testing.T) {
	assert.Equal(t, types.ConfigSourcePattern, NewPatternSourceAdapter().Kind())
}

func TestMatchTrailing(t *testing.T) {
	tests := []struct {
		pattern string
		rel     string
		want    bool
	}{
		{pattern: "voltron.sh", rel: "voltron.sh", want: true},
		{pattern: "voltron.sh", rel: "a/b/voltron.sh", want: true},
		{pattern: "voltron/index.sh", rel: "voltron/index.sh", want: true},
		{pattern: "voltron/index.sh", rel: "pkg/voltron/index.sh", want: true},
		{pattern: "voltron/index.sh", rel: "index.sh", want: false},
		{pattern: "voltron/index.sh", rel: "other/index.sh", want: false},
		{pattern: "manifest.*", rel: "dist/manifest.json", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, matchTrailing(tt.pattern, tt.rel))
		})
	}
}
