package convertcmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/glbcompress/internal/convert"
	"github.com/lehigh-university-libraries/glbcompress/internal/images"
	"github.com/lehigh-university-libraries/glbcompress/internal/texture"
	"github.com/spf13/cobra"
)

// NewPlanCmd creates the plan command
func NewPlanCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show which textures in a directory would be resized",
		Long: `Probe every JPEG and PNG in a directory (for example the working directory
left behind by compress) and print the power-of-two dimensions each would be
resized to. Nothing is modified.`,
		Example: `  glbcompress plan --dir temp-model.glb`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := convert.Inspect(dir, images.NewProber())
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), dir, results)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory containing texture images")

	return cmd
}

func printPlan(w io.Writer, dir string, results []texture.ImageResult) {
	fmt.Fprintf(w, "Found %d texture images in %s\n", len(results), dir)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	resized := 0
	for i, r := range results {
		status := "ok"
		if r.Plan.NeedsResize {
			status = "RESIZE"
			resized++
		}
		fmt.Fprintf(w, "[%d] %-30s %4dx%-4d -> %4dx%-4d %s\n", i+1, r.File,
			r.Plan.SourceWidth, r.Plan.SourceHeight, r.Plan.TargetWidth, r.Plan.TargetHeight, status)
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "%d of %d images need resizing\n", resized, len(results))
}
