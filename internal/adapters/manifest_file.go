package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"voltron/internal/ports"
	"voltron/internal/types"
)

// ManifestFileAdapter loads manifest fragments. JavaScript fragments are
// evaluated with Node.
type ManifestFileAdapter struct {
	Node NodeRunner
}

func NewManifestFileAdapter() ManifestFileAdapter {
	return ManifestFileAdapter{}
}

func NewManifestFileAdapterWithNode(binary string) ManifestFileAdapter {
	return ManifestFileAdapter{Node: NewNodeRunner(binary)}
}

// ManifestFormatForPath maps a file extension to a fragment format.
func ManifestFormatForPath(path string) (types.ManifestFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return types.ManifestFormatJSON, true
	case ".yaml", ".yml":
		return types.ManifestFormatYAML, true
	case ".toml":
		return types.ManifestFormatTOML, true
	case ".cue":
		return types.ManifestFormatCUE, true
	case ".js", ".cjs":
		return types.ManifestFormatJS, true
	default:
		return "", false
	}
}

func (a ManifestFileAdapter) LoadManifest(path string) (types.Manifest, error) {
	format, ok := ManifestFormatForPath(path)
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported manifest format %s", path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("manifest file %s not found", path)).
			WithCause(err)
	}
	if format == types.ManifestFormatJS {
		if data, err = a.Node.ExportJSON(context.Background(), path); err != nil {
			return nil, err
		}
		format = types.ManifestFormatJSON
	}
	manifest, err := DecodeManifest(format, data, path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse manifest %s", path)).
			WithCause(err)
	}
	return manifest, nil
}

// DecodeManifest decodes data and normalizes it through JSON so that
// every format yields the same value types.
func DecodeManifest(format types.ManifestFormat, data []byte, filename string) (types.Manifest, error) {
	var raw any
	switch format {
	case types.ManifestFormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case types.ManifestFormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case types.ManifestFormatTOML:
		doc := map[string]any{}
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		raw = doc
	case types.ManifestFormatCUE:
		value := cuecontext.New().CompileBytes(data, cue.Filename(filename))
		if err := value.Err(); err != nil {
			return nil, err
		}
		if err := value.Validate(cue.Concrete(true)); err != nil {
			return nil, err
		}
		encoded, err := value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(encoded, &raw); err != nil {
			return nil, err
		}
	case types.ManifestFormatJS:
		return nil, fmt.Errorf("%s is a JavaScript module; load it with LoadManifest", filename)
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", format)
	}
	return types.NormalizeManifest(raw)
}

var _ ports.ManifestLoaderPort = ManifestFileAdapter{}
