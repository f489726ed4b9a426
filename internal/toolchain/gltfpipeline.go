package toolchain

import (
	"context"
	"log/slog"
)

// GLTFPipeline wraps the gltf-pipeline CLI used to split and rebuild GLB files
type GLTFPipeline struct {
	Path string
}

// NewGLTFPipeline creates a container tool invoking the binary at path
func NewGLTFPipeline(path string) *GLTFPipeline {
	if path == "" {
		path = "gltf-pipeline"
	}
	path = resolveTool(path)
	return &GLTFPipeline{Path: path}
}

// Unpack converts input into dir/gltfName with textures written as separate files
func (g *GLTFPipeline) Unpack(ctx context.Context, input, dir, gltfName string) error {
	slog.Info("Unpacking container", "input", input, "dir", dir)
	return run(ctx, dir, g.Path, "-i", input, "-o", gltfName, "-t")
}

// Pack bundles dir/gltfName and the files it references into output
func (g *GLTFPipeline) Pack(ctx context.Context, dir, gltfName, output string) error {
	slog.Info("Repacking container", "output", output)
	return run(ctx, dir, g.Path, "-i", gltfName, "-o", output)
}
