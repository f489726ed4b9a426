package toolchain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/glbcompress/internal/texture"
)

func TestBasisuArgs(t *testing.T) {
	b := NewBasisu("", DefaultFullSettings)

	tests := []struct {
		name     string
		profile  texture.Profile
		expected []string
	}{
		{
			name:     "preview uses defaults",
			profile:  texture.ProfilePreview,
			expected: []string{"-linear", "-mipmap", "-individual", "-file", "a.png"},
		},
		{
			name:    "full adds tunables",
			profile: texture.ProfileFull,
			expected: []string{"-linear", "-mipmap", "-individual",
				"-max_endpoints", "16128", "-max_selectors", "16128", "-comp_level", "5",
				"-file", "a.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Args("a.png", tt.profile)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	if b.Path != "basisu" {
		t.Errorf("Expected default path basisu, got %s", b.Path)
	}
}

// fakeTool writes a shell script that records its arguments and working
// directory, then exits with the given status.
func fakeTool(t *testing.T, status int) (string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}

	dir := t.TempDir()
	logPath := filepath.Join(dir, "calls.log")
	script := "#!/bin/sh\n" +
		"echo \"$(pwd) $*\" >> " + logPath + "\n" +
		"echo tool output\n" +
		"exit " + strconv.Itoa(status) + "\n"

	tool := filepath.Join(dir, "tool")
	if err := os.WriteFile(tool, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return tool, logPath
}

func TestBasisuCompressRunsInDir(t *testing.T) {
	tool, logPath := fakeTool(t, 0)
	workDir := t.TempDir()

	b := NewBasisu(tool, DefaultFullSettings)
	if err := b.Compress(context.Background(), workDir, "a.png", texture.ProfilePreview); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	calls, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	resolved, _ := filepath.EvalSymlinks(workDir)
	line := strings.TrimSpace(string(calls))
	if !strings.HasSuffix(line, "-linear -mipmap -individual -file a.png") {
		t.Errorf("Unexpected arguments: %s", line)
	}
	if !strings.HasPrefix(line, workDir) && !strings.HasPrefix(line, resolved) {
		t.Errorf("Expected tool to run in %s, got %s", workDir, line)
	}
}

func TestToolFailure(t *testing.T) {
	tool, _ := fakeTool(t, 3)

	g := NewGLTFPipeline(tool)
	err := g.Pack(context.Background(), t.TempDir(), "model.gltf", "/tmp/out.glb")

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("Expected ToolError, got %v", err)
	}
	if !strings.Contains(toolErr.Output, "tool output") {
		t.Errorf("Expected tool output to be captured, got %q", toolErr.Output)
	}
	if !reflect.DeepEqual(toolErr.Args, []string{"-i", "model.gltf", "-o", "/tmp/out.glb"}) {
		t.Errorf("Unexpected args: %v", toolErr.Args)
	}
}

func TestMissingTool(t *testing.T) {
	g := NewGLTFPipeline(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := g.Unpack(context.Background(), "in.glb", t.TempDir(), "model.gltf"); err == nil {
		t.Error("Expected error for missing tool")
	}
}

func TestRelativeToolPathsAreResolved(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "bare name uses PATH", path: "basisu", expected: "basisu"},
		{name: "relative path", path: "./bin/basisu", expected: filepath.Join(cwd, "bin", "basisu")},
		{name: "parent directory", path: "../basisu", expected: filepath.Join(filepath.Dir(cwd), "basisu")},
		{name: "absolute path", path: "/opt/basisu", expected: "/opt/basisu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewBasisu(tt.path, DefaultFullSettings).Path; got != tt.expected {
				t.Errorf("Expected basisu path %s, got %s", tt.expected, got)
			}
			if got := NewGLTFPipeline(tt.path).Path; got != tt.expected {
				t.Errorf("Expected gltf-pipeline path %s, got %s", tt.expected, got)
			}
		})
	}
}
