package convertcmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/glbcompress/internal/convert"
	"github.com/lehigh-university-libraries/glbcompress/internal/gltf"
	"github.com/spf13/cobra"
)

// NewRewriteCmd creates the rewrite command
func NewRewriteCmd() *cobra.Command {
	var input string
	var output string
	var opts gltf.RewriteOptions

	cmd := &cobra.Command{
		Use:   "rewrite",
		Short: "Retarget a .gltf document's images to basis without touching textures",
		Long: `Rewrite a standalone glTF JSON document: image uris ending in .png, .jpg or
.jpeg become .basis, every texture gets the MOZ_HUBS_texture_basis extension and
the extension is declared in extensionsUsed. The image files are not touched.`,
		Example: `  glbcompress rewrite -i model.gltf -o model-basis.gltf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = input
			}
			if _, err := convert.RewriteFile(input, output, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "glTF document to rewrite (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output document (defaults to overwriting the input)")
	cmd.Flags().BoolVar(&opts.RequireExtension, "require-extension", false, "Also list the extension in extensionsRequired")
	cmd.Flags().BoolVar(&opts.RetargetMimeType, "mime-type", false, "Set image mimeType to image/basis")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}
