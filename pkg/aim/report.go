package aim

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	reportTimeFormat = "20060102-150405"
	reportSeparator  = strings.Repeat("-", 60)
)

// Reporter appends one block per processed image to a plain-text run report.
// Finalize renames the file to embed the number of images processed.
type Reporter struct {
	f     *os.File
	path  string
	count int
}

// NewReporter opens a report file in dir and writes the run header.
func NewReporter(dir string, start time.Time, reportOnly bool) (*Reporter, error) {
	path := filepath.Join(dir, fmt.Sprintf("metadata-run-%s.txt", start.Format(reportTimeFormat)))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	header := fmt.Sprintf("Metadata run: %s\n", start.Format(time.RFC1123))
	if reportOnly {
		header += "*** REPORT ONLY MODE ***\n"
	}
	header += reportSeparator + "\n"

	if _, err := f.WriteString(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	return &Reporter{f: f, path: path}, nil
}

// Add writes the per-image block. It is called for every enumerated image,
// whether or not captioning or the metadata write succeeded.
func (r *Reporter) Add(res Result) error {
	c := res.Caption
	block := fmt.Sprintf("Image: %s\nHeadline: %s\nDescription: %s\nKeywords: %s\n%s\n",
		filepath.Base(res.Path), c.Headline, c.Description, strings.Join(c.Keywords, ", "), reportSeparator)

	if _, err := r.f.WriteString(block); err != nil {
		return fmt.Errorf("write block: %w", err)
	}

	r.count++
	return nil
}

// Finalize closes the report and renames it to embed the image count,
// returning the final path.
func (r *Reporter) Finalize() (string, error) {
	if err := r.f.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}

	final := strings.TrimSuffix(r.path, ".txt") + fmt.Sprintf("-%d_images.txt", r.count)
	if err := os.Rename(r.path, final); err != nil {
		return "", fmt.Errorf("rename report: %w", err)
	}

	return final, nil
}
