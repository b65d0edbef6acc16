// aim annotates JPEG photographs with AI-generated headline, description and
// keyword metadata.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"k8s.io/klog/v2"

	"github.com/cptsubtxt/ai-images-metadata/pkg/aim"
)

var (
	reportOnly = flag.Bool("report-only", false, "compute captions and write the report, but don't touch image metadata")
	backupDir  = flag.String("backup", "", "copy originals into this directory before writing metadata")
	maxDim     = flag.Int("max-dim", 1024, "downscale images to this dimension before captioning (0 to disable)")
	configFile = flag.String("config", aim.DefaultConfigFile, "path to the configuration file")
	watchFlag  = flag.Bool("watch", false, "keep running and annotate JPEGs added to the directory")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if flag.NArg() != 1 {
		klog.Exitf("usage: %s [flags] <image or directory>", os.Args[0])
	}
	root := flag.Arg(0)

	// .env may hold OLLAMA_HOST or GOOGLE_AI_API_KEY
	if err := godotenv.Load(); err == nil {
		klog.V(1).Infof("loaded .env")
	}

	cfg, err := aim.LoadConfig(*configFile)
	if err != nil {
		klog.Exitf("config: %v", err)
	}
	klog.Infof("model=%s temperature=%.2f keywords=%d tone=%q", cfg.Model, cfg.Temperature, cfg.KeywordCount, cfg.Tone)

	ctx := context.Background()

	capt, err := newCaptioner(ctx, cfg)
	if err != nil {
		klog.Exitf("captioner: %v", err)
	}
	klog.Infof("captioning with %s", capt.Name())

	paths, err := aim.FindImages(root)
	if err != nil {
		klog.Exitf("find images: %v", err)
	}
	klog.Infof("found %d images in %s", len(paths), root)

	b := &aim.Batch{
		Config:     cfg,
		Captioner:  capt,
		ReportOnly: *reportOnly,
		BackupDir:  *backupDir,
		MaxDim:     *maxDim,
	}

	if !*reportOnly {
		w, err := aim.NewExifWriter()
		if err != nil {
			klog.Exitf("exiftool: %v", err)
		}
		defer func() {
			if err := w.Close(); err != nil {
				klog.Errorf("close exiftool: %v", err)
			}
		}()
		b.Writer = w
	}

	rep, err := aim.NewReporter(".", time.Now(), *reportOnly)
	if err != nil {
		klog.Exitf("report: %v", err)
	}

	results := b.Run(ctx, paths, rep)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	klog.Infof("processed %d images (%d failed)", len(results), failed)

	if *watchFlag {
		if err := watch(ctx, root, b, rep); err != nil {
			klog.Errorf("watch: %v", err)
		}
	}

	final, err := rep.Finalize()
	if err != nil {
		klog.Exitf("finalize report: %v", err)
	}
	klog.Infof("report written to %s", final)
}

// newCaptioner picks a model backend based on the configured model name.
func newCaptioner(ctx context.Context, cfg *aim.Config) (aim.Captioner, error) {
	if strings.HasPrefix(cfg.Model, "gemini") {
		return aim.NewGeminiCaptioner(ctx, os.Getenv("GOOGLE_AI_API_KEY"), cfg.Model)
	}

	return aim.NewOllamaCaptioner(cfg.Model)
}

// watch annotates JPEGs as they appear under root.
func watch(ctx context.Context, root string, b *aim.Batch, rep *aim.Reporter) error {
	st, err := os.Stat(root)
	if err != nil || !st.IsDir() {
		return fmt.Errorf("--watch needs a directory, got %q", root)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return fmt.Errorf("add %s: %w", root, err)
	}

	klog.Infof("watching %s for new images ...", root)
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			paths, err := aim.FindImages(event.Name)
			if err != nil {
				klog.V(1).Infof("ignoring %s: %v", event.Name, err)
				continue
			}
			b.Run(ctx, paths, rep)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}
