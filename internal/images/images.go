package images

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// OriginalPrefix is prepended to the name of the copy kept before resizing
const OriginalPrefix = "original-"

// DefaultJPEGQuality is used when re-encoding resized JPEG textures
const DefaultJPEGQuality = 95

// Prober reads image dimensions from file headers
type Prober struct{}

// NewProber creates a new image prober
func NewProber() *Prober {
	return &Prober{}
}

// Probe returns the pixel dimensions of a JPEG or PNG file
func (p *Prober) Probe(path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image header %s: %w", filepath.Base(path), err)
	}

	return cfg.Width, cfg.Height, nil
}

// Resizer stretches images to exact dimensions, ignoring aspect ratio
type Resizer struct {
	Interpolator draw.Interpolator
	JPEGQuality  int
}

// NewResizer creates a resizer using the named interpolation filter
func NewResizer(filter string) (*Resizer, error) {
	interp, err := Interpolator(filter)
	if err != nil {
		return nil, err
	}
	return &Resizer{
		Interpolator: interp,
		JPEGQuality:  DefaultJPEGQuality,
	}, nil
}

// Interpolator maps a filter name to an x/image/draw interpolator
func Interpolator(name string) (draw.Interpolator, error) {
	switch strings.ToLower(name) {
	case "", "catmullrom":
		return draw.CatmullRom, nil
	case "bilinear":
		return draw.BiLinear, nil
	case "approxbilinear":
		return draw.ApproxBiLinear, nil
	case "nearest":
		return draw.NearestNeighbor, nil
	default:
		return nil, fmt.Errorf("unknown resize filter: %s (supported: catmullrom, bilinear, approxbilinear, nearest)", name)
	}
}

// Resize overwrites path with a copy scaled to exactly width x height.
// The file keeps its original encoding.
func (r *Resizer) Resize(path string, width, height int) error {
	src, format, err := decodeFile(path)
	if err != nil {
		return err
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	r.Interpolator.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".resize-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := r.encode(tmp, dst, format); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode resized %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write resized image: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace image: %w", err)
	}

	slog.Debug("Resized image", "path", path, "format", format, "width", width, "height", height)
	return nil
}

func (r *Resizer) encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "jpeg":
		quality := r.JPEGQuality
		if quality <= 0 {
			quality = DefaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "png":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image format: %s", format)
	}
}

func decodeFile(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}
	return img, format, nil
}

// CopyAside copies dir/name to original-<base> in the same directory and
// returns the new path
func CopyAside(dir, name string) (string, error) {
	srcPath := filepath.Join(dir, name)
	dstPath := filepath.Join(dir, filepath.Dir(name), OriginalPrefix+filepath.Base(name))

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open original image: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create copy of original image: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to copy original image: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to copy original image: %w", err)
	}

	return dstPath, nil
}
