package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/glbcompress/internal/convertcmd"
	"github.com/spf13/cobra"
)

// Version is overridden at build time with
// -ldflags "-X github.com/lehigh-university-libraries/glbcompress/cmd.Version=v1.2.3"
var Version = "dev"

func NewRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "glbcompress",
		Short: "Convert GLB textures to GPU-native basis compression",
		Long: `glbcompress rewrites a GLB so its JPEG and PNG textures are replaced by
basis-compressed textures, declaring the MOZ_HUBS_texture_basis extension.

Images are resized to power-of-two dimensions where needed and compressed with
basisu; the container is split and rebuilt with gltf-pipeline.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if !cmd.Flags().Changed("log-level") {
				if env := os.Getenv("GLBCOMPRESS_LOG_LEVEL"); env != "" {
					logLevel = env
				}
			}

			level, err := parseLevel(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(convertcmd.NewCompressCmd())
	cmd.AddCommand(convertcmd.NewPlanCmd())
	cmd.AddCommand(convertcmd.NewRewriteCmd())

	return cmd
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unsupported log level: %s", s)
	}
}
