package texture

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/lehigh-university-libraries/glbcompress/internal/dimensions"
)

// ImageResult records what happened to one image
type ImageResult struct {
	File     string
	Plan     dimensions.Plan
	Original string
	Output   string
}

// Report accumulates the outcome of a driver run. Entries are only ever appended.
type Report struct {
	Profile Profile
	Images  []ImageResult
	Resized []string
}

// NewReport creates an empty report
func NewReport(profile Profile) *Report {
	return &Report{Profile: profile}
}

// Add appends an image result, recording a resize line when needed
func (r *Report) Add(result ImageResult) {
	r.Images = append(r.Images, result)
	if result.Plan.NeedsResize {
		r.Resized = append(r.Resized, ResizeLine(result.File, result.Plan))
	}
}

// ResizeLine formats a single resize record
func ResizeLine(file string, plan dimensions.Plan) string {
	return fmt.Sprintf("%q - %s", file, plan.String())
}

// Summary prints the warning block listing resized textures.
// Nothing is printed when no texture was resized.
func (r *Report) Summary(w io.Writer) {
	if len(r.Resized) == 0 {
		return
	}

	fmt.Fprintln(w, "\n*** WARNING ***")
	fmt.Fprintf(w, "Found %d texture images requiring re-scale. The files below need re-dimensioning...\n", len(r.Resized))
	for _, line := range r.Resized {
		fmt.Fprintf(w, "\t%s\n", line)
	}
}

// WriteFile writes the resize report to path. It reports false without
// creating the file when no texture was resized.
func (r *Report) WriteFile(path string) (bool, error) {
	if len(r.Resized) == 0 {
		return false, nil
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d texture images were re-scaled to power-of-two dimensions:\n", len(r.Resized))
	for _, line := range r.Resized {
		fmt.Fprintf(&buf, "\t%s\n", line)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return false, fmt.Errorf("failed to write resize report: %w", err)
	}
	return true, nil
}
