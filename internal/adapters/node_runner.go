package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

const defaultNodeBinary = "node"

// Programs handed to `node -e`. Arguments follow the program in
// process.argv starting at index 1.
const (
	nodeExportJSONProgram = `const m = require(process.argv[1]);
const v = m && m.__esModule && m.default !== undefined ? m.default : m;
process.stdout.write(JSON.stringify(v === undefined ? null : v));
`
	nodeExportTypeProgram = `const m = require(process.argv[1]);
const f = typeof m === 'function' ? m : m && m.default;
process.stdout.write(typeof f);
`
	nodeBuildProgram = `const fs = require('fs');
const m = require(process.argv[1]);
const build = typeof m === 'function' ? m : m.default;
Promise.resolve()
  .then(() => build(JSON.parse(process.argv[2])))
  .then((value) => {
    let out;
    try { out = JSON.stringify(value); } catch (e) { out = undefined; }
    fs.writeFileSync(process.argv[3], out === undefined ? 'null' : out);
  })
  .catch((err) => {
    process.stderr.write(String((err && err.stack) || err) + '\n');
    process.exitCode = 1;
  });
`
)

// NodeRunner evaluates small programs against JavaScript modules shipped by
// extensions.
type NodeRunner struct {
	Binary string
	// Environ is the child environment; nil inherits the process one.
	Environ func() []string
}

func NewNodeRunner(binary string) NodeRunner {
	return NodeRunner{Binary: binary}
}

func (n NodeRunner) binary() string {
	if binary := strings.TrimSpace(n.Binary); binary != "" {
		return binary
	}
	return defaultNodeBinary
}

func (n NodeRunner) environ() []string {
	if n.Environ == nil {
		return nil
	}
	return n.Environ()
}

func (n NodeRunner) eval(ctx context.Context, dir string, env []string, stdout io.Writer, stderr io.Writer, program string, args ...string) error {
	cmd := exec.CommandContext(ctx, n.binary(), append([]string{"-e", program}, args...)...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// query runs program against the module at path and returns its stdout.
func (n NodeRunner) query(ctx context.Context, program string, path string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid module path %s", path)).
			WithCause(err)
	}
	var stdout, stderr bytes.Buffer
	if err := n.eval(ctx, filepath.Dir(abs), n.environ(), &stdout, &stderr, program, abs); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to load module %s: %s", path, strings.TrimSpace(stderr.String()))).
			WithCause(err)
	}
	return stdout.Bytes(), nil
}

// ExportJSON returns module.exports of the module at path encoded as JSON.
func (n NodeRunner) ExportJSON(ctx context.Context, path string) ([]byte, error) {
	return n.query(ctx, nodeExportJSONProgram, path)
}

// ExportType reports the typeof of the module's callable export: the
// module itself, or its default export.
func (n NodeRunner) ExportType(ctx context.Context, path string) (string, error) {
	out, err := n.query(ctx, nodeExportTypeProgram, path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
