package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"voltron/internal/ports"
	"voltron/internal/types"
)

// Environment handed to build scripts.
const (
	EnvExtension    = "VOLTRON_EXTENSION"
	EnvExtensionDir = "VOLTRON_EXTENSION_DIR"
	EnvOutputDir    = "VOLTRON_OUTPUT_DIR"
	EnvBuildOptions = "VOLTRON_BUILD_OPTIONS"
)

// ScriptOutput is the value produced by a shell build entry point.
type ScriptOutput struct {
	Stdout string
	Stderr string
}

// ShellBuildAdapter loads POSIX shell build scripts and runs them with the
// in-process mvdan/sh interpreter.
type ShellBuildAdapter struct {
	// Stdout and Stderr receive a copy of the script output when set.
	Stdout io.Writer
	Stderr io.Writer
	// Environ is the base environment; defaults to os.Environ.
	Environ func() []string
}

func NewShellBuildAdapter() ShellBuildAdapter {
	return ShellBuildAdapter{Environ: os.Environ}
}

func (a ShellBuildAdapter) LoadBuild(name string, extDir string, path string) (types.BuildFunc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to read build script %s", path)).
			WithCause(err)
	}
	prog, err := syntax.NewParser().Parse(bytes.NewReader(data), path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse build script %s", path)).
			WithCause(err)
	}
	if len(prog.Stmts) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("build script %s has no statements", path))
	}
	return func(ctx context.Context, opts types.BuildOptions) (any, error) {
		return a.run(ctx, name, extDir, prog, opts)
	}, nil
}

func (a ShellBuildAdapter) run(ctx context.Context, name string, extDir string, prog *syntax.File, opts types.BuildOptions) (any, error) {
	env, err := buildEnviron(a.Environ, name, extDir, opts)
	if err != nil {
		return nil, err
	}
	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.StdIO(strings.NewReader(""), teeWriter(&stdout, a.Stdout), teeWriter(&stderr, a.Stderr)),
		interp.Env(expand.ListEnviron(env...)),
		interp.Dir(extDir),
	)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create shell interpreter").
			WithCause(err)
	}
	runErr := runner.Run(ctx, prog)
	if stderr.Len() > 0 {
		log.Ctx(ctx).Debug().Str("extension", name).Str("stderr", strings.TrimSpace(stderr.String())).Msg("build script stderr")
	}
	if runErr != nil {
		var status interp.ExitStatus
		if errors.As(runErr, &status) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("build script exited with status %d: %s", uint8(status), strings.TrimSpace(stderr.String())))
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("build script failed").
			WithCause(runErr)
	}
	return ScriptOutput{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// buildEnviron is the environment of a build entry point: environ plus the
// VOLTRON_* variables and the caller's extra entries.
func buildEnviron(environ func() []string, name string, extDir string, opts types.BuildOptions) ([]string, error) {
	encoded, err := json.Marshal(opts)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to encode build options").
			WithCause(err)
	}
	var env []string
	if environ != nil {
		env = append(env, environ()...)
	}
	env = append(env,
		EnvExtension+"="+name,
		EnvExtensionDir+"="+extDir,
		EnvOutputDir+"="+opts.OutputDir,
		EnvBuildOptions+"="+string(encoded),
	)
	keys := make([]string, 0, len(opts.Env))
	for key := range opts.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		env = append(env, key+"="+opts.Env[key])
	}
	return env, nil
}

func teeWriter(buf *bytes.Buffer, extra io.Writer) io.Writer {
	if extra == nil {
		return buf
	}
	return io.MultiWriter(buf, extra)
}

var _ ports.BuildLoaderPort = ShellBuildAdapter{}
