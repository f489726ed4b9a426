package manifest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/glbcompress/internal/texture"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Manifest describes a single conversion run
type Manifest struct {
	Input     string   `yaml:"input"`
	Output    string   `yaml:"output"`
	Profile   string   `yaml:"profile"`
	Timestamp string   `yaml:"timestamp"`
	Images    []Record `yaml:"images"`
}

// Record is one processed image. Run-level fields are repeated on every
// record so the parquet form stays flat.
type Record struct {
	Input        string `yaml:"-" parquet:"input"`
	RunOutput    string `yaml:"-" parquet:"run_output"`
	Profile      string `yaml:"-" parquet:"profile"`
	Timestamp    string `yaml:"-" parquet:"timestamp"`
	File         string `yaml:"file" parquet:"file"`
	Output       string `yaml:"output" parquet:"output"`
	Original     string `yaml:"original,omitempty" parquet:"original"`
	SourceWidth  int    `yaml:"sourcewidth" parquet:"source_width"`
	SourceHeight int    `yaml:"sourceheight" parquet:"source_height"`
	TargetWidth  int    `yaml:"targetwidth" parquet:"target_width"`
	TargetHeight int    `yaml:"targetheight" parquet:"target_height"`
	Resized      bool   `yaml:"resized" parquet:"resized"`
}

// FromReport builds a manifest from a driver report
func FromReport(input, output string, report *texture.Report, now time.Time) *Manifest {
	m := &Manifest{
		Input:     input,
		Output:    output,
		Profile:   report.Profile.String(),
		Timestamp: now.Format("2006-01-02_15-04-05"),
		Images:    make([]Record, 0, len(report.Images)),
	}

	for _, img := range report.Images {
		var original string
		if img.Original != "" {
			original = filepath.Base(img.Original)
		}
		m.Images = append(m.Images, Record{
			Input:        input,
			RunOutput:    output,
			Profile:      m.Profile,
			Timestamp:    m.Timestamp,
			File:         img.File,
			Output:       img.Output,
			Original:     original,
			SourceWidth:  img.Plan.SourceWidth,
			SourceHeight: img.Plan.SourceHeight,
			TargetWidth:  img.Plan.TargetWidth,
			TargetHeight: img.Plan.TargetHeight,
			Resized:      img.Plan.NeedsResize,
		})
	}

	return m
}

// Parquet file metadata keys holding the run-level fields
const (
	metaInput     = "glbcompress.input"
	metaOutput    = "glbcompress.output"
	metaProfile   = "glbcompress.profile"
	metaTimestamp = "glbcompress.timestamp"
)

// Save writes the manifest as YAML or Parquet depending on the file extension
func (m *Manifest) Save(path string) error {
	switch format(path) {
	case ".yaml", ".yml":
		return m.saveYAML(path)
	case ".parquet":
		return m.saveParquet(path)
	default:
		return unsupported(path)
	}
}

// Load reads a manifest written by Save
func Load(path string) (*Manifest, error) {
	switch format(path) {
	case ".yaml", ".yml":
		return loadYAML(path)
	case ".parquet":
		return loadParquet(path)
	default:
		return nil, unsupported(path)
	}
}

// ValidatePath reports whether Save can write a manifest to path
func ValidatePath(path string) error {
	switch format(path) {
	case ".yaml", ".yml", ".parquet":
		return nil
	default:
		return unsupported(path)
	}
}

func format(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func unsupported(path string) error {
	return fmt.Errorf("unsupported manifest format: %q (supported: .yaml, .yml, .parquet)", filepath.Ext(path))
}

func (m *Manifest) saveYAML(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	slog.Info("Manifest saved", "path", path, "images", len(m.Images))
	return nil
}

func loadYAML(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	for i := range m.Images {
		m.Images[i].Input = m.Input
		m.Images[i].RunOutput = m.Output
		m.Images[i].Profile = m.Profile
		m.Images[i].Timestamp = m.Timestamp
	}
	return &m, nil
}

func (m *Manifest) saveParquet(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Record](file,
		parquet.KeyValueMetadata(metaInput, m.Input),
		parquet.KeyValueMetadata(metaOutput, m.Output),
		parquet.KeyValueMetadata(metaProfile, m.Profile),
		parquet.KeyValueMetadata(metaTimestamp, m.Timestamp),
	)
	if _, err := writer.Write(m.Images); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}

	slog.Info("Manifest saved", "path", path, "images", len(m.Images))
	return nil
}

func loadParquet(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Record](pf)
	defer reader.Close()

	m := &Manifest{}
	m.Input, _ = pf.Lookup(metaInput)
	m.Output, _ = pf.Lookup(metaOutput)
	m.Profile, _ = pf.Lookup(metaProfile)
	m.Timestamp, _ = pf.Lookup(metaTimestamp)

	rows := make([]Record, 64)
	for {
		n, err := reader.Read(rows)
		m.Images = append(m.Images, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return m, nil
}
