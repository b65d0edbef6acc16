package aim

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// Result is the outcome of processing a single image.
type Result struct {
	Path    string
	Caption ParsedCaption
	Written bool
	Err     error
}

// Batch processes images sequentially. Failures never abort the run: each
// image's error is isolated into its Result and the next image proceeds.
type Batch struct {
	Config     *Config
	Captioner  Captioner
	Writer     Writer
	ReportOnly bool
	BackupDir  string
	MaxDim     int
}

// Run processes each path in enumeration order, emitting one report row per
// image regardless of outcome.
func (b *Batch) Run(ctx context.Context, paths []string, rep *Reporter) []Result {
	prompt := buildPrompt(b.Config)
	results := make([]Result, 0, len(paths))

	for _, p := range paths {
		res := b.process(ctx, p, prompt)
		if res.Err != nil {
			klog.Errorf("process %s: %v", p, res.Err)
		}

		if rep != nil {
			if err := rep.Add(res); err != nil {
				klog.Errorf("report %s: %v", p, err)
			}
		}

		results = append(results, res)
	}

	return results
}

func (b *Batch) process(ctx context.Context, path string, prompt string) Result {
	res := Result{Path: path, Caption: placeholderCaption()}

	raw, err := b.generate(ctx, path, prompt)
	if err != nil {
		res.Err = fmt.Errorf("caption: %w", err)
		return res
	}
	if raw == "" {
		res.Err = fmt.Errorf("caption: empty response from %s", b.Captioner.Name())
		return res
	}

	res.Caption = ParseCaption(raw)
	rec := NewRecord(res.Caption)

	if b.ReportOnly {
		klog.Infof("%s: report only, skipping metadata write", path)
		return res
	}

	if b.BackupDir != "" {
		if err := b.backup(path); err != nil {
			res.Err = fmt.Errorf("backup: %w", err)
			return res
		}
	}

	if err := b.Writer.Write(path, rec); err != nil {
		res.Err = fmt.Errorf("write metadata: %w", err)
		return res
	}
	res.Written = true

	klog.Infof("processed %s: %q, %d keywords", path, res.Caption.Headline, len(res.Caption.Keywords))
	return res
}

// generate reads the image, optionally downscales it, and asks the captioner.
func (b *Batch) generate(ctx context.Context, path string, prompt string) (string, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	if b.MaxDim > 0 {
		small, err := downscale(bs, b.MaxDim)
		if err != nil {
			klog.Warningf("downscale %s: %v, submitting original", path, err)
		} else {
			bs = small
		}
	}

	return b.Captioner.Caption(ctx, bs, prompt, b.Config.Temperature)
}

// backup copies the original into the backup directory before the in-place
// metadata write clobbers it.
func (b *Batch) backup(path string) error {
	if err := os.MkdirAll(b.BackupDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	return copy.Copy(path, filepath.Join(b.BackupDir, filepath.Base(path)))
}
