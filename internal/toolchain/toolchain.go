package toolchain

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

// ToolError is returned when an external tool exits unsuccessfully
type ToolError struct {
	Tool   string
	Args   []string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s %s failed: %v", e.Tool, strings.Join(e.Args, " "), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\nOutput: " + out
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// resolveTool makes a relative tool path absolute. Tools run with cmd.Dir set
// to the working directory, which would otherwise change what the path means.
// Bare names are left for PATH lookup.
func resolveTool(path string) string {
	if !strings.ContainsRune(path, '/') && !strings.ContainsRune(path, filepath.Separator) {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// run executes tool in dir and blocks until it exits
func run(ctx context.Context, dir, tool string, args ...string) error {
	slog.Debug("Running external tool", "tool", tool, "args", args, "dir", dir)

	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &ToolError{Tool: tool, Args: args, Output: string(output), Err: err}
	}

	slog.Debug("External tool finished", "tool", tool, "output_bytes", len(output))
	return nil
}
