package aim

import (
	"fmt"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"
)

// Tag names written for each caption field. Every tag is always written,
// placeholders included, so downstream tools see a consistent set.
var (
	headlineTags    = []string{"Headline", "Title"}
	descriptionTags = []string{"Caption-Abstract", "UserComment", "Description"}
	keywordTags     = []string{"Keywords", "Subject"}
)

// Record is the set of embedded-metadata tags to write for one image.
type Record map[string]any

// NewRecord applies the fixed caption-to-tag mapping.
func NewRecord(p ParsedCaption) Record {
	r := Record{}
	for _, t := range headlineTags {
		r[t] = p.Headline
	}
	for _, t := range descriptionTags {
		r[t] = p.Description
	}
	for _, t := range keywordTags {
		r[t] = p.Keywords
	}
	return r
}

// Writer persists a metadata record into an image file.
type Writer interface {
	Write(path string, r Record) error
}

// ExifWriter writes records through a shared exiftool process, overwriting
// each image in place.
type ExifWriter struct {
	et *exiftool.Exiftool
}

// NewExifWriter starts the backing exiftool process.
func NewExifWriter() (*ExifWriter, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}

	return &ExifWriter{et: et}, nil
}

// Write implements Writer.
func (w *ExifWriter) Write(path string, r Record) error {
	fms := w.et.ExtractMetadata(path)
	fm := fms[0]
	if fm.Err != nil {
		return fmt.Errorf("extract %q: %w", path, fm.Err)
	}

	for k, v := range fm.Fields {
		klog.V(2).Infof("%s: %q=%v", path, k, v)
	}

	for tag, v := range r {
		switch val := v.(type) {
		case string:
			fm.SetString(tag, val)
		case []string:
			fm.SetStrings(tag, val)
		default:
			return fmt.Errorf("unsupported value for tag %q: %T", tag, v)
		}
	}

	w.et.WriteMetadata(fms)
	if fms[0].Err != nil {
		return fmt.Errorf("write %q: %w", path, fms[0].Err)
	}

	return nil
}

// Close shuts down the exiftool process.
func (w *ExifWriter) Close() error {
	return w.et.Close()
}
