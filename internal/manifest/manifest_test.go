package manifest

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/glbcompress/internal/dimensions"
	"github.com/lehigh-university-libraries/glbcompress/internal/texture"
)

func sampleReport(t *testing.T) *texture.Report {
	t.Helper()
	report := texture.NewReport(texture.ProfileFull)

	resized, err := dimensions.NewPlan(100, 50)
	if err != nil {
		t.Fatal(err)
	}
	kept, err := dimensions.NewPlan(256, 256)
	if err != nil {
		t.Fatal(err)
	}

	report.Add(texture.ImageResult{File: "a.png", Plan: resized, Original: "/work/original-a.png", Output: "a.basis"})
	report.Add(texture.ImageResult{File: "b.jpg", Plan: kept, Output: "b.basis"})
	return report
}

func TestFromReport(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	m := FromReport("model.glb", "model-basis.glb", sampleReport(t), now)

	if m.Profile != "full" {
		t.Errorf("Expected profile full, got %s", m.Profile)
	}
	if m.Timestamp != "2024-05-01_12-30-00" {
		t.Errorf("Unexpected timestamp: %s", m.Timestamp)
	}
	if len(m.Images) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(m.Images))
	}

	first := m.Images[0]
	if first.Original != "original-a.png" || !first.Resized || first.TargetWidth != 64 || first.TargetHeight != 32 {
		t.Errorf("Unexpected first record: %+v", first)
	}
	if m.Images[1].Original != "" || m.Images[1].Resized {
		t.Errorf("Unexpected second record: %+v", m.Images[1])
	}
}

func TestSaveAndLoad(t *testing.T) {
	now := time.Date(2026, 10, 15, 0, 47, 4, 0, time.UTC)

	tests := []struct {
		name   string
		report *texture.Report
	}{
		{name: "manifest.yaml", report: sampleReport(t)},
		{name: "manifest.parquet", report: sampleReport(t)},
		{name: "empty.yaml", report: texture.NewReport(texture.ProfileFull)},
		{name: "empty.parquet", report: texture.NewReport(texture.ProfileFull)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FromReport("model.glb", "model-basis.glb", tt.report, now)
			path := filepath.Join(t.TempDir(), tt.name)

			if err := m.Save(path); err != nil {
				t.Fatalf("Failed to save: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Failed to load: %v", err)
			}

			if len(loaded.Images) != len(m.Images) {
				t.Fatalf("Expected %d records, got %d", len(m.Images), len(loaded.Images))
			}
			if len(m.Images) > 0 && !reflect.DeepEqual(loaded.Images, m.Images) {
				t.Errorf("Records changed:\nwant %+v\ngot  %+v", m.Images, loaded.Images)
			}
			if loaded.Input != "model.glb" || loaded.Output != "model-basis.glb" {
				t.Errorf("Unexpected paths: input %q output %q", loaded.Input, loaded.Output)
			}
			if loaded.Profile != "full" || loaded.Timestamp != "2026-10-15_00-47-04" {
				t.Errorf("Unexpected run metadata: profile %q timestamp %q", loaded.Profile, loaded.Timestamp)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	for _, path := range []string{"run.yaml", "run.YML", "out/run.parquet"} {
		if err := ValidatePath(path); err != nil {
			t.Errorf("ValidatePath(%q): unexpected error %v", path, err)
		}
	}
	for _, path := range []string{"run.csv", "run", "run.json"} {
		if err := ValidatePath(path); err == nil {
			t.Errorf("ValidatePath(%q): expected error", path)
		}
	}
}

func TestUnsupportedFormat(t *testing.T) {
	m := &Manifest{}
	if err := m.Save(filepath.Join(t.TempDir(), "manifest.csv")); err == nil {
		t.Error("Expected error for unsupported format")
	}
	if _, err := Load("manifest.csv"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
