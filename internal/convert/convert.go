package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/glbcompress/internal/dimensions"
	"github.com/lehigh-university-libraries/glbcompress/internal/gltf"
	"github.com/lehigh-university-libraries/glbcompress/internal/manifest"
	"github.com/lehigh-university-libraries/glbcompress/internal/texture"
)

// DocumentName is the file the container is unpacked to inside the working directory
const DocumentName = "model.gltf"

// ErrInput marks problems with the paths supplied by the operator
var ErrInput = errors.New("input error")

// ContainerTool splits a container into a glTF document plus loose files and back
type ContainerTool interface {
	Unpack(ctx context.Context, input, dir, gltfName string) error
	Pack(ctx context.Context, dir, gltfName, output string) error
}

// Options describes one conversion run
type Options struct {
	Input        string
	Output       string
	WorkDir      string
	ReportPath   string
	ManifestPath string
	Profile      texture.Profile
	Rewrite      gltf.RewriteOptions
}

// Result summarises a successful run
type Result struct {
	Output        string
	WorkDir       string
	Report        *texture.Report
	ReportWritten bool
}

// Converter turns a container with JPEG/PNG textures into one with basis textures
type Converter struct {
	Container     ContainerTool
	Driver        *texture.Driver
	WorkDirPrefix string
	Stdout        io.Writer
	Now           func() time.Time
}

// NewConverter creates a converter
func NewConverter(container ContainerTool, driver *texture.Driver, workDirPrefix string) *Converter {
	return &Converter{
		Container:     container,
		Driver:        driver,
		WorkDirPrefix: workDirPrefix,
		Stdout:        os.Stdout,
		Now:           time.Now,
	}
}

// Run performs the conversion. On failure the working directory is left in
// place for inspection and nothing is written to the output path by this
// package.
func (c *Converter) Run(ctx context.Context, opts Options) (*Result, error) {
	input, output, err := ResolvePaths(opts.Input, opts.Output)
	if err != nil {
		return nil, err
	}
	if opts.ManifestPath != "" {
		if err := manifest.ValidatePath(opts.ManifestPath); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInput, err)
		}
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir = filepath.Join(filepath.Dir(input), c.WorkDirPrefix+filepath.Base(input))
	}
	workDir, err = filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	slog.Info("Processing container", "input", input, "output", output, "profile", opts.Profile, "work_dir", workDir)

	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}

	if err := c.Container.Unpack(ctx, input, workDir, DocumentName); err != nil {
		return nil, fmt.Errorf("failed to unpack container: %w", err)
	}

	docPath := filepath.Join(workDir, DocumentName)
	files, err := RewriteFile(docPath, docPath, opts.Rewrite)
	if err != nil {
		return nil, err
	}
	slog.Info("Found texture images", "count", len(files))

	report, err := c.Driver.Run(ctx, workDir, files, opts.Profile)
	if err != nil {
		return nil, err
	}

	if err := c.Container.Pack(ctx, workDir, DocumentName, output); err != nil {
		return nil, fmt.Errorf("failed to repack container: %w", err)
	}

	result := &Result{
		Output:  output,
		WorkDir: workDir,
		Report:  report,
	}

	report.Summary(c.Stdout)

	if opts.ReportPath != "" {
		written, err := report.WriteFile(opts.ReportPath)
		if err != nil {
			return nil, err
		}
		result.ReportWritten = written
	}

	if opts.ManifestPath != "" {
		m := manifest.FromReport(input, output, report, c.Now())
		if err := m.Save(opts.ManifestPath); err != nil {
			return nil, err
		}
	}

	slog.Info("Conversion complete", "output", output, "images", len(report.Images), "resized", len(report.Resized))
	return result, nil
}

// ResolvePaths validates the input container and derives the output path
// when none is given. Both returned paths are absolute.
func ResolvePaths(input, output string) (string, string, error) {
	if input == "" {
		return "", "", fmt.Errorf("%w: input file is required", ErrInput)
	}

	input, err := filepath.Abs(input)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInput, err)
	}

	info, err := os.Stat(input)
	if err != nil {
		return "", "", fmt.Errorf("%w: input file not found: %s", ErrInput, input)
	}
	if info.IsDir() {
		return "", "", fmt.Errorf("%w: input is a directory: %s", ErrInput, input)
	}

	ext := strings.ToLower(filepath.Ext(input))
	if ext != ".glb" && ext != ".gltf" {
		return "", "", fmt.Errorf("%w: input must be a .glb or .gltf file: %s", ErrInput, input)
	}

	if output == "" {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		output = filepath.Join(filepath.Dir(input), base+"-basis.glb")
	}

	output, err = filepath.Abs(output)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInput, err)
	}
	if output == input {
		return "", "", fmt.Errorf("%w: output would overwrite input: %s", ErrInput, input)
	}

	return input, output, nil
}

// RewriteFile rewrites the glTF document at src and writes it to dst.
// dst is only written when the whole document was rewritten. It returns the
// image files the original document referred to, relative to its directory.
func RewriteFile(src, dst string, opts gltf.RewriteOptions) ([]string, error) {
	doc, raw, err := gltf.Load(src)
	if err != nil {
		return nil, err
	}

	counts := gltf.CountReferences(raw)
	slog.Info("glTF image references", "png", counts[".png"], "jpg", counts[".jpg"], "jpeg", counts[".jpeg"])
	slog.Info("glTF contents", "images", len(doc.Images), "textures", len(doc.Textures))

	rewritten, err := gltf.Rewrite(doc, opts)
	if err != nil {
		return nil, err
	}

	files, err := gltf.ImageFiles(doc)
	if err != nil {
		return nil, err
	}

	if err := rewritten.Save(dst); err != nil {
		return nil, err
	}
	return files, nil
}

// Inspect probes every image in dir and reports the resize decision
// without modifying anything.
func Inspect(dir string, prober texture.Prober) ([]texture.ImageResult, error) {
	files, err := texture.Discover(dir)
	if err != nil {
		return nil, err
	}

	results := make([]texture.ImageResult, 0, len(files))
	for _, name := range files {
		width, height, err := prober.Probe(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to probe %q: %w", name, err)
		}

		plan, err := dimensions.NewPlan(width, height)
		if err != nil {
			return nil, fmt.Errorf("failed to plan %q: %w", name, err)
		}

		results = append(results, texture.ImageResult{File: name, Plan: plan})
	}

	return results, nil
}
