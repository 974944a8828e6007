package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"voltron/internal/types"
)

type OutputFileAdapter struct{}

func NewOutputFileAdapter() OutputFileAdapter {
	return OutputFileAdapter{}
}

// EncodeManifest renders a manifest as indented JSON with a trailing
// newline.
func EncodeManifest(manifest types.Manifest) ([]byte, error) {
	if manifest == nil {
		manifest = types.Manifest{}
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode manifest").
			WithCause(err)
	}
	return append(data, '\n'), nil
}

func (a OutputFileAdapter) WriteManifest(path string, manifest types.Manifest) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest output path is empty")
	}
	data, err := EncodeManifest(manifest)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create output directory").
				WithCause(err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write manifest").
			WithCause(err)
	}
	return nil
}
