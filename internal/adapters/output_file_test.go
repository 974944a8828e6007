package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltron/internal/types"
)

func TestEncodeManifestIndentsAndSortsKeys(t *testing.T) {
	data, err := EncodeManifest(types.Manifest{
		"permissions": []any{"a", "b"},
		"name":        "host",
	})
	require.NoError(t, err)
	want := "{\n  \"name\": \"host\",\n  \"permissions\": [\n    \"a\",\n    \"b\"\n  ]\n}\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Fatalf("unexpected encoding (-want +got):\n%s", diff)
	}
}

func TestEncodeManifestNil(t *testing.T) {
	data, err := EncodeManifest(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestOutputFileAdapterWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dist", "manifest.json")
	manifest := types.Manifest{"permissions": []any{"tabs"}}

	require.NoError(t, NewOutputFileAdapter().WriteManifest(path, manifest))

	loaded, err := NewManifestFileAdapter().LoadManifest(path)
	require.NoError(t, err)
	if diff := cmp.Diff(manifest, loaded); diff != "" {
		t.Fatalf("manifest round trip mismatch (-want +got):\n%s", diff)
	}
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestOutputFileAdapterEmptyPath(t *testing.T) {
	err := NewOutputFileAdapter().WriteManifest("", types.Manifest{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
