package adapters

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"voltron/internal/ports"
	"voltron/internal/types"
)

//go:embed schema/package.schema.json
var packageSchemaBytes []byte

var (
	packageSchema        *jsonschema.Schema
	packageSchemaOnce    sync.Once
	packageSchemaCompErr error
)

type PackageJSONAdapter struct{}

func NewPackageJSONAdapter() PackageJSONAdapter {
	return PackageJSONAdapter{}
}

type rawPackageJSON struct {
	Name            string              `json:"name"`
	Version         string              `json:"version"`
	Dependencies    json.RawMessage     `json:"dependencies"`
	DevDependencies json.RawMessage     `json:"devDependencies"`
	Voltron         *types.VoltronField `json:"voltron"`
}

func (a PackageJSONAdapter) ReadDescriptor(dir string) (types.PackageDescriptor, bool, error) {
	path := filepath.Join(dir, types.PackageDescriptorFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.PackageDescriptor{}, false, nil
		}
		return types.PackageDescriptor{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read %s", path)).
			WithCause(err)
	}
	desc, err := ParsePackageJSON(data)
	if err != nil {
		return types.PackageDescriptor{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid package descriptor %s", path)).
			WithCause(err)
	}
	desc.Path = path
	return desc, true, nil
}

// ParsePackageJSON validates data against the embedded descriptor schema
// and decodes it, keeping dependency declaration order.
func ParsePackageJSON(data []byte) (types.PackageDescriptor, error) {
	if err := validatePackageJSON(data); err != nil {
		return types.PackageDescriptor{}, err
	}
	var raw rawPackageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return types.PackageDescriptor{}, err
	}
	deps, err := orderedDependencies(raw.Dependencies)
	if err != nil {
		return types.PackageDescriptor{}, fmt.Errorf("dependencies: %w", err)
	}
	devDeps, err := orderedDependencies(raw.DevDependencies)
	if err != nil {
		return types.PackageDescriptor{}, fmt.Errorf("devDependencies: %w", err)
	}
	return types.PackageDescriptor{
		Name:            raw.Name,
		Version:         raw.Version,
		Dependencies:    deps,
		DevDependencies: devDeps,
		Voltron:         raw.Voltron,
	}, nil
}

func getPackageSchema() (*jsonschema.Schema, error) {
	packageSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(packageSchemaBytes))
		if err != nil {
			packageSchemaCompErr = fmt.Errorf("unmarshaling package schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("package.schema.json", doc); err != nil {
			packageSchemaCompErr = fmt.Errorf("adding package schema resource: %w", err)
			return
		}
		packageSchema, packageSchemaCompErr = c.Compile("package.schema.json")
	})
	return packageSchema, packageSchemaCompErr
}

func validatePackageJSON(data []byte) error {
	schema, err := getPackageSchema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}
	return schema.Validate(inst)
}

// orderedDependencies decodes a JSON object of strings into a slice in
// document order. A repeated key keeps its first position and its last
// value.
func orderedDependencies(raw json.RawMessage) ([]types.Dependency, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	var deps []types.Dependency
	index := map[string]int{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}
		var versionRange string
		if err := dec.Decode(&versionRange); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if i, seen := index[name]; seen {
			deps[i].Range = versionRange
			continue
		}
		index[name] = len(deps)
		deps = append(deps, types.Dependency{Name: name, Range: versionRange})
	}
	return deps, nil
}

var _ ports.PackageDescriptorPort = PackageJSONAdapter{}
