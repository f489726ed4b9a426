package texture

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/glbcompress/internal/dimensions"
)

func plan(t *testing.T, w, h int) dimensions.Plan {
	t.Helper()
	p, err := dimensions.NewPlan(w, h)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestReportWriteFile(t *testing.T) {
	report := NewReport(ProfilePreview)
	report.Add(ImageResult{File: "a.png", Plan: plan(t, 100, 50)})
	report.Add(ImageResult{File: "b.png", Plan: plan(t, 64, 64)})

	path := filepath.Join(t.TempDir(), "resized.txt")
	written, err := report.WriteFile(path)
	if err != nil || !written {
		t.Fatalf("Expected report to be written, got %v %v", written, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header and one entry, got %q", lines)
	}
	if lines[1] != "\t\"a.png\" - width: 100 => 64, height: 50 => 32" {
		t.Errorf("Unexpected entry: %q", lines[1])
	}
}

func TestReportWriteFileSkipsEmpty(t *testing.T) {
	report := NewReport(ProfilePreview)
	report.Add(ImageResult{File: "b.png", Plan: plan(t, 64, 64)})

	path := filepath.Join(t.TempDir(), "resized.txt")
	written, err := report.WriteFile(path)
	if err != nil || written {
		t.Fatalf("Expected nothing to be written, got %v %v", written, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no report file, got %v", err)
	}
}

func TestReportSummary(t *testing.T) {
	var buf bytes.Buffer
	report := NewReport(ProfileFull)
	report.Summary(&buf)
	if buf.Len() != 0 {
		t.Errorf("Expected no summary, got %q", buf.String())
	}

	report.Add(ImageResult{File: "c.jpg", Plan: plan(t, 3, 300)})
	report.Summary(&buf)
	if !strings.Contains(buf.String(), "Found 1 texture images requiring re-scale") {
		t.Errorf("Unexpected summary: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "\t\"c.jpg\" - width: 3 => 4, height: 300 => 256\n") {
		t.Errorf("Expected resize line in summary, got %q", buf.String())
	}
}
