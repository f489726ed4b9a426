package convertcmd

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/glbcompress/internal/gltf"
)

func TestRewriteCmd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "model.gltf")
	output := filepath.Join(dir, "out.gltf")
	doc := `{"images": [{"uri": "a.png"}], "textures": [{"source": 0}]}`
	if err := os.WriteFile(input, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := NewRewriteCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-i", input, "-o", output, "--require-extension"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	rewritten, _, err := gltf.Load(output)
	if err != nil {
		t.Fatal(err)
	}
	if rewritten.Images[0].URI != "a.basis" {
		t.Errorf("Expected a.basis, got %q", rewritten.Images[0].URI)
	}
	if len(rewritten.ExtensionsRequired) != 1 {
		t.Errorf("Expected extensionsRequired to be set, got %v", rewritten.ExtensionsRequired)
	}

	original, err := os.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}
	if string(original) != doc {
		t.Error("Expected input document to be left alone")
	}
}

func TestRewriteCmdUnsupportedAsset(t *testing.T) {
	input := filepath.Join(t.TempDir(), "model.gltf")
	if err := os.WriteFile(input, []byte(`{"images": [{"uri": "model.tga"}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := NewRewriteCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-i", input})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "model.tga") {
		t.Errorf("Expected error naming model.tga, got %v", err)
	}
}

func TestPlanCmd(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "a.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 100, 50))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cmd := NewPlanCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--dir", dir})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(out.String(), "RESIZE") || !strings.Contains(out.String(), "1 of 1 images need resizing") {
		t.Errorf("Unexpected plan output:\n%s", out.String())
	}
}

func TestCompressCmdRequiresInput(t *testing.T) {
	cmd := NewCompressCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Error("Expected error without --input")
	}
}

func TestCompressCmdRejectsUnknownProfile(t *testing.T) {
	input := filepath.Join(t.TempDir(), "model.glb")
	if err := os.WriteFile(input, []byte("glTF"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := NewCompressCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-i", input, "-c", "ultra"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "ultra") {
		t.Errorf("Expected profile error, got %v", err)
	}
}

func TestCompressCmdFlagOverridesEnvProfile(t *testing.T) {
	t.Setenv("GLBCOMPRESS_PROFILE", "ultra")
	input := filepath.Join(t.TempDir(), "missing.glb")

	cmd := NewCompressCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-i", input, "-c", "full"})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("Expected missing input error")
	}
	if strings.Contains(err.Error(), "ultra") || !strings.Contains(err.Error(), "input file not found") {
		t.Errorf("Expected the flag to override the env profile, got %v", err)
	}
}
