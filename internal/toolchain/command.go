package toolchain

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/vk/rdfworkflow/internal/ctxlog"
)

// FilePlaceholder is replaced by the unit path in Command arguments.
const FilePlaceholder = "{file}"

// Command runs an external compiler on the unit and, if it succeeds, loads
// the unit with the next toolchain. It is typically used to validate
// generated code with a real compiler, e.g.
//
//	c++ -std=c++17 -fsyntax-only -x c++ {file}
type Command struct {
	args []string
	next Toolchain
}

// NewCommand creates a command toolchain. If no argument contains
// FilePlaceholder, the unit path is appended as the last argument.
func NewCommand(args []string, next Toolchain) (*Command, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, errors.New("toolchain: empty compiler command")
	}
	if next == nil {
		return nil, errors.New("toolchain: command requires a loading toolchain")
	}
	return &Command{args: append([]string(nil), args...), next: next}, nil
}

// Compile runs the compiler command, then delegates to the next toolchain.
func (c *Command) Compile(ctx context.Context, path string) (Library, error) {
	argv := c.argv(path)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running compiler command.", "command", strings.Join(argv, " "))

	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		return nil, &CompilationError{File: path, Output: strings.TrimSpace(string(out)), Err: err}
	}
	return c.next.Compile(ctx, path)
}

// Load delegates to the next toolchain without running the command.
func (c *Command) Load(ctx context.Context, path string) (Library, error) {
	ctxlog.FromContext(ctx).Debug("Skipping compiler command for compiled unit.", "path", path)
	return c.next.Load(ctx, path)
}

func (c *Command) argv(path string) []string {
	argv := make([]string, len(c.args))
	substituted := false
	for i, arg := range c.args {
		if strings.Contains(arg, FilePlaceholder) {
			arg = strings.ReplaceAll(arg, FilePlaceholder, path)
			substituted = true
		}
		argv[i] = arg
	}
	if !substituted {
		argv = append(argv, path)
	}
	return argv
}
