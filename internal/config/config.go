package config

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/glbcompress/internal/images"
	"github.com/lehigh-university-libraries/glbcompress/internal/texture"
	"github.com/lehigh-university-libraries/glbcompress/internal/toolchain"
	"gopkg.in/yaml.v3"
)

// Config represents the converter configuration
type Config struct {
	Tools            ToolsConfig       `yaml:"tools"`
	Compression      CompressionConfig `yaml:"compression"`
	Resize           ResizeConfig      `yaml:"resize"`
	WorkDirPrefix    string            `yaml:"work_dir_prefix"`
	RequireExtension bool              `yaml:"require_extension"`
	RetargetMimeType bool              `yaml:"retarget_mime_type"`
}

type ToolsConfig struct {
	Basisu       string `yaml:"basisu"`
	GLTFPipeline string `yaml:"gltf_pipeline"`
}

type CompressionConfig struct {
	Profile string                 `yaml:"profile"`
	Full    toolchain.FullSettings `yaml:"full"`
}

type ResizeConfig struct {
	Filter      string `yaml:"filter"`
	JPEGQuality int    `yaml:"jpeg_quality"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Tools: ToolsConfig{
			Basisu:       "basisu",
			GLTFPipeline: "gltf-pipeline",
		},
		Compression: CompressionConfig{
			Profile: string(texture.ProfilePreview),
			Full:    toolchain.DefaultFullSettings,
		},
		Resize: ResizeConfig{
			Filter:      "catmullrom",
			JPEGQuality: images.DefaultJPEGQuality,
		},
		WorkDirPrefix: "temp-",
	}
}

// Load reads the configuration file at path over the defaults, then applies
// environment overrides. An empty path skips the file. Callers apply their
// own overrides and then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BASISU_PATH"); v != "" {
		c.Tools.Basisu = v
	}
	if v := os.Getenv("GLTF_PIPELINE_PATH"); v != "" {
		c.Tools.GLTFPipeline = v
	}
	if v := os.Getenv("GLBCOMPRESS_PROFILE"); v != "" {
		c.Compression.Profile = v
	}
}

// Validate checks that the configuration can drive a conversion
func (c *Config) Validate() error {
	if c.Tools.Basisu == "" {
		return fmt.Errorf("tools.basisu is required")
	}
	if c.Tools.GLTFPipeline == "" {
		return fmt.Errorf("tools.gltf_pipeline is required")
	}
	if _, err := texture.ParseProfile(c.Compression.Profile); err != nil {
		return fmt.Errorf("compression.profile: %w", err)
	}

	full := c.Compression.Full
	if full.MaxEndpoints <= 0 || full.MaxSelectors <= 0 {
		return fmt.Errorf("compression.full.max_endpoints and max_selectors must be positive")
	}
	if full.CompLevel < 0 || full.CompLevel > 6 {
		return fmt.Errorf("compression.full.comp_level must be between 0 and 6, got %d", full.CompLevel)
	}

	if _, err := images.Interpolator(c.Resize.Filter); err != nil {
		return fmt.Errorf("resize.filter: %w", err)
	}
	if c.Resize.JPEGQuality < 1 || c.Resize.JPEGQuality > 100 {
		return fmt.Errorf("resize.jpeg_quality must be between 1 and 100, got %d", c.Resize.JPEGQuality)
	}

	if c.WorkDirPrefix == "" {
		return fmt.Errorf("work_dir_prefix is required")
	}
	return nil
}

// Profile returns the parsed compression profile
func (c *Config) Profile() texture.Profile {
	p, _ := texture.ParseProfile(c.Compression.Profile)
	return p
}
