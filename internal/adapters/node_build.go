package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"voltron/internal/ports"
	"voltron/internal/types"
)

// NodeBuildOutput is the value produced by a JavaScript build entry point.
// Value is the JSON form of what the build function returned or resolved
// to.
type NodeBuildOutput struct {
	Stdout string
	Stderr string
	Value  any
}

// NodeBuildAdapter loads CommonJS build modules exporting a function of the
// build options and calls them under node. Promise results are awaited.
type NodeBuildAdapter struct {
	Node NodeRunner
	// Stdout and Stderr receive a copy of the build output when set.
	Stdout io.Writer
	Stderr io.Writer
}

func NewNodeBuildAdapter(binary string) NodeBuildAdapter {
	return NodeBuildAdapter{Node: NodeRunner{Binary: binary, Environ: os.Environ}}
}

func (a NodeBuildAdapter) LoadBuild(name string, extDir string, path string) (types.BuildFunc, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid build entry point %s", path)).
			WithCause(err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to read build module %s", path)).
			WithCause(err)
	}
	kind, err := a.Node.ExportType(context.Background(), abs)
	if err != nil {
		return nil, err
	}
	if kind != "function" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("build module %s exports %s, not a function", path, kind))
	}
	return func(ctx context.Context, opts types.BuildOptions) (any, error) {
		return a.run(ctx, name, extDir, abs, opts)
	}, nil
}

func (a NodeBuildAdapter) run(ctx context.Context, name string, extDir string, path string, opts types.BuildOptions) (any, error) {
	env, err := buildEnviron(a.Node.Environ, name, extDir, opts)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(opts)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to encode build options").
			WithCause(err)
	}
	resultFile, err := os.CreateTemp("", "voltron-build-*.json")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create build result file").
			WithCause(err)
	}
	resultPath := resultFile.Name()
	_ = resultFile.Close()
	defer os.Remove(resultPath)

	var stdout, stderr bytes.Buffer
	runErr := a.Node.eval(ctx, extDir, env, teeWriter(&stdout, a.Stdout), teeWriter(&stderr, a.Stderr),
		nodeBuildProgram, path, string(encoded), resultPath)
	if stderr.Len() > 0 {
		log.Ctx(ctx).Debug().Str("extension", name).Str("stderr", strings.TrimSpace(stderr.String())).Msg("build module stderr")
	}
	if runErr != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("build module failed: %s", strings.TrimSpace(stderr.String()))).
			WithCause(runErr)
	}

	output := NodeBuildOutput{Stdout: stdout.String(), Stderr: stderr.String()}
	data, err := os.ReadFile(resultPath)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read build result").
			WithCause(err)
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &output.Value); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to decode build result").
				WithCause(err)
		}
	}
	return output, nil
}

var _ ports.BuildLoaderPort = NodeBuildAdapter{}
