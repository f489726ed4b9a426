package toolchain

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/lehigh-university-libraries/glbcompress/internal/texture"
)

// FullSettings are the basisu tunables used by the full profile
type FullSettings struct {
	MaxEndpoints int `yaml:"max_endpoints"`
	MaxSelectors int `yaml:"max_selectors"`
	CompLevel    int `yaml:"comp_level"`
}

// DefaultFullSettings gives the highest quality basisu supports for ETC1S
var DefaultFullSettings = FullSettings{
	MaxEndpoints: 16128,
	MaxSelectors: 16128,
	CompLevel:    5,
}

// Basisu drives the basisu command line compressor
type Basisu struct {
	Path string
	Full FullSettings
}

// NewBasisu creates a compressor invoking the binary at path
func NewBasisu(path string, full FullSettings) *Basisu {
	if path == "" {
		path = "basisu"
	}
	path = resolveTool(path)
	return &Basisu{Path: path, Full: full}
}

// Compress writes a .basis file next to dir/name
func (b *Basisu) Compress(ctx context.Context, dir, name string, profile texture.Profile) error {
	args := b.Args(name, profile)
	slog.Info("Compressing texture", "file", name, "profile", profile)
	return run(ctx, dir, b.Path, args...)
}

// Args builds the basisu argument list for a file
func (b *Basisu) Args(name string, profile texture.Profile) []string {
	args := []string{"-linear", "-mipmap", "-individual"}
	if profile == texture.ProfileFull {
		args = append(args,
			"-max_endpoints", strconv.Itoa(b.Full.MaxEndpoints),
			"-max_selectors", strconv.Itoa(b.Full.MaxSelectors),
			"-comp_level", strconv.Itoa(b.Full.CompLevel),
		)
	}
	return append(args, "-file", name)
}
