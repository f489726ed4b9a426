package texture

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lehigh-university-libraries/glbcompress/internal/dimensions"
	"github.com/lehigh-university-libraries/glbcompress/internal/gltf"
	"github.com/lehigh-university-libraries/glbcompress/internal/images"
)

// Prober reports the pixel dimensions of an image file
type Prober interface {
	Probe(path string) (width, height int, err error)
}

// Resizer overwrites an image file with one of exactly width x height pixels
type Resizer interface {
	Resize(path string, width, height int) error
}

// Compressor produces a compressed sibling of dir/name
type Compressor interface {
	Compress(ctx context.Context, dir, name string, profile Profile) error
}

// Driver runs every image of a working directory through
// probe, resize and compression, one image at a time.
type Driver struct {
	Prober     Prober
	Resizer    Resizer
	Compressor Compressor

	// CopyAside keeps the original before an in-place resize.
	// It returns the path of the copy.
	CopyAside func(dir, name string) (string, error)
}

// NewDriver creates a driver from its collaborators
func NewDriver(prober Prober, resizer Resizer, compressor Compressor, copyAside func(dir, name string) (string, error)) *Driver {
	return &Driver{
		Prober:     prober,
		Resizer:    resizer,
		Compressor: compressor,
		CopyAside:  copyAside,
	}
}

// Run processes files (paths relative to dir) in order. The first failure
// aborts the run and no report is returned.
func (d *Driver) Run(ctx context.Context, dir string, files []string, profile Profile) (*Report, error) {
	report := NewReport(profile)
	total := len(files)

	for i, name := range files {
		slog.Info("Processing image", "progress", fmt.Sprintf("(%d of %d)", i+1, total), "file", name)

		result, err := d.processImage(ctx, dir, name, profile, files)
		if err != nil {
			return nil, fmt.Errorf("failed to process %q: %w", name, err)
		}
		report.Add(result)
	}

	return report, nil
}

func (d *Driver) processImage(ctx context.Context, dir, name string, profile Profile, files []string) (ImageResult, error) {
	path := filepath.Join(dir, name)
	result := ImageResult{File: name}

	width, height, err := d.Prober.Probe(path)
	if err != nil {
		return result, fmt.Errorf("failed to probe image: %w", err)
	}

	plan, err := dimensions.NewPlan(width, height)
	if err != nil {
		return result, err
	}
	result.Plan = plan

	if plan.NeedsResize {
		slog.Warn("Texture must be resized", "file", name, "change", plan.String())

		if d.CopyAside != nil {
			if kept := originalName(name); slices.Contains(files, kept) {
				return result, fmt.Errorf("copy of the original would overwrite texture %q", kept)
			}
			original, err := d.CopyAside(dir, name)
			if err != nil {
				return result, err
			}
			result.Original = original
		}

		if err := d.Resizer.Resize(path, plan.TargetWidth, plan.TargetHeight); err != nil {
			return result, fmt.Errorf("failed to resize image: %w", err)
		}
	}

	// basisu writes its output into the directory it runs in
	imageDir := filepath.Join(dir, filepath.Dir(name))
	if err := d.Compressor.Compress(ctx, imageDir, filepath.Base(name), profile); err != nil {
		return result, fmt.Errorf("failed to compress image: %w", err)
	}
	result.Output = compressedName(name)

	return result, nil
}

// Discover lists the loose raster images in dir in lexicographic order,
// skipping copies kept aside by a previous run. Conversions take their file
// list from the document instead; see gltf.ImageFiles.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	// os.ReadDir returns entries sorted by filename
	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, images.OriginalPrefix) {
			continue
		}
		if _, ok := gltf.BasisURI(name); ok {
			files = append(files, name)
		}
	}

	return files, nil
}

func originalName(name string) string {
	return filepath.Join(filepath.Dir(name), images.OriginalPrefix+filepath.Base(name))
}

func compressedName(name string) string {
	out, _ := gltf.BasisURI(name)
	return out
}
