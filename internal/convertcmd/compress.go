package convertcmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/glbcompress/internal/config"
	"github.com/lehigh-university-libraries/glbcompress/internal/convert"
	"github.com/lehigh-university-libraries/glbcompress/internal/images"
	"github.com/lehigh-university-libraries/glbcompress/internal/texture"
	"github.com/lehigh-university-libraries/glbcompress/internal/toolchain"
	"github.com/spf13/cobra"
)

// NewCompressCmd creates the compress command
func NewCompressCmd() *cobra.Command {
	var configPath string
	var opts convert.Options
	var compression string
	var requireExtension bool
	var retargetMime bool

	cmd := &cobra.Command{
		Use:   "compress",
		Short: "Convert a GLB's JPEG/PNG textures to basis",
		Long: `Unpack a GLB with gltf-pipeline, retarget its images to .basis files,
add the MOZ_HUBS_texture_basis extension to every texture, resize images to
power-of-two dimensions, compress them with basisu and repack the result.

The working directory (temp-<input> next to the input by default) is kept
after the run for inspection.`,
		Example: `  # Quick preview-quality conversion
  glbcompress compress -i model.glb -o model-basis.glb

  # Full quality, writing a list of textures that had to be resized
  glbcompress compress -i model.glb -c full --report resized.txt

  # Record every texture decision in a parquet manifest
  glbcompress compress -i model.glb --manifest run.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("compression") {
				cfg.Compression.Profile = compression
			}
			if cmd.Flags().Changed("require-extension") {
				cfg.RequireExtension = requireExtension
			}
			if cmd.Flags().Changed("mime-type") {
				cfg.RetargetMimeType = retargetMime
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid options: %w", err)
			}

			opts.Profile = cfg.Profile()
			opts.Rewrite.RequireExtension = cfg.RequireExtension
			opts.Rewrite.RetargetMimeType = cfg.RetargetMimeType

			converter, err := newConverter(cfg)
			if err != nil {
				return err
			}
			converter.Stdout = cmd.OutOrStdout()

			result, err := converter.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %s (%d textures, %d resized)\n", result.Output, len(result.Report.Images), len(result.Report.Resized))
			if result.ReportWritten {
				fmt.Fprintf(cmd.OutOrStdout(), "Resize report: %s\n", opts.ReportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "GLB file to compress (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output GLB file (defaults to <input>-basis.glb)")
	cmd.Flags().StringVarP(&compression, "compression", "c", "preview", "Compression level (preview or full)")
	cmd.Flags().StringVar(&opts.ReportPath, "report", "", "Write resized texture list to this file")
	cmd.Flags().StringVar(&opts.ManifestPath, "manifest", "", "Write a per-texture manifest (.yaml or .parquet)")
	cmd.Flags().StringVar(&opts.WorkDir, "work-dir", "", "Working directory (defaults to temp-<input> next to the input)")
	cmd.Flags().BoolVar(&requireExtension, "require-extension", false, "Also list the extension in extensionsRequired")
	cmd.Flags().BoolVar(&retargetMime, "mime-type", false, "Set image mimeType to image/basis")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func newConverter(cfg *config.Config) (*convert.Converter, error) {
	resizer, err := images.NewResizer(cfg.Resize.Filter)
	if err != nil {
		return nil, err
	}
	resizer.JPEGQuality = cfg.Resize.JPEGQuality

	driver := texture.NewDriver(
		images.NewProber(),
		resizer,
		toolchain.NewBasisu(cfg.Tools.Basisu, cfg.Compression.Full),
		images.CopyAside,
	)

	return convert.NewConverter(toolchain.NewGLTFPipeline(cfg.Tools.GLTFPipeline), driver, cfg.WorkDirPrefix), nil
}
