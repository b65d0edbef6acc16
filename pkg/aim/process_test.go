package aim

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaptioner struct {
	resp  string
	err   error
	image []byte
}

func (f *fakeCaptioner) Name() string { return "fake" }

func (f *fakeCaptioner) Caption(_ context.Context, image []byte, _ string, _ float64) (string, error) {
	f.image = image
	return f.resp, f.err
}

type fakeWriter struct {
	writes map[string]Record
	err    error
}

func (f *fakeWriter) Write(path string, r Record) error {
	if f.err != nil {
		return f.err
	}
	if f.writes == nil {
		f.writes = map[string]Record{}
	}
	f.writes[path] = r
	return nil
}

func testImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not really a jpeg"), 0o644))
	return path
}

func testConfig() *Config {
	c := defaultConfig()
	return &c
}

func TestBatchRun(t *testing.T) {
	path := testImage(t)
	w := &fakeWriter{}
	b := &Batch{
		Config:    testConfig(),
		Captioner: &fakeCaptioner{resp: "Headline: H\nDescription: D\nKeywords: a, b"},
		Writer:    w,
	}

	res := b.Run(context.Background(), []string{path}, nil)
	require.Len(t, res, 1)
	require.NoError(t, res[0].Err)
	assert.True(t, res[0].Written)
	assert.Equal(t, "H", res[0].Caption.Headline)

	require.Contains(t, w.writes, path)
	assert.Equal(t, "H", w.writes[path]["Title"])
	assert.Equal(t, []string{"a", "b"}, w.writes[path]["Subject"])
}

func TestBatchReportOnly(t *testing.T) {
	path := testImage(t)
	w := &fakeWriter{}
	b := &Batch{
		Config:     testConfig(),
		Captioner:  &fakeCaptioner{resp: "Headline: H\nDescription: D\nKeywords: a, b"},
		Writer:     w,
		ReportOnly: true,
	}

	dir := t.TempDir()
	rep, err := NewReporter(dir, time.Now(), true)
	require.NoError(t, err)

	res := b.Run(context.Background(), []string{path}, rep)
	require.Len(t, res, 1)
	require.NoError(t, res[0].Err)
	assert.False(t, res[0].Written)
	assert.Empty(t, w.writes, "metadata writer must not be invoked in report-only mode")

	final, err := rep.Finalize()
	require.NoError(t, err)
	bs, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Contains(t, string(bs), "Headline: H")
	assert.Contains(t, string(bs), "Keywords: a, b")
}

func TestBatchCaptionFailure(t *testing.T) {
	path := testImage(t)
	w := &fakeWriter{}
	b := &Batch{
		Config:    testConfig(),
		Captioner: &fakeCaptioner{err: errors.New("model unavailable")},
		Writer:    w,
	}

	dir := t.TempDir()
	rep, err := NewReporter(dir, time.Now(), false)
	require.NoError(t, err)

	res := b.Run(context.Background(), []string{path}, rep)
	require.Len(t, res, 1)
	require.Error(t, res[0].Err)
	assert.Equal(t, placeholderCaption(), res[0].Caption)
	assert.False(t, res[0].Written)
	assert.Empty(t, w.writes)

	final, err := rep.Finalize()
	require.NoError(t, err)
	bs, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Contains(t, string(bs), "Headline: N/A")
	assert.Contains(t, string(bs), "Description: N/A")
}

func TestBatchEmptyResponse(t *testing.T) {
	path := testImage(t)
	b := &Batch{
		Config:    testConfig(),
		Captioner: &fakeCaptioner{resp: ""},
		Writer:    &fakeWriter{},
	}

	res := b.Run(context.Background(), []string{path}, nil)
	require.Len(t, res, 1)
	require.Error(t, res[0].Err)
	assert.Equal(t, placeholderCaption(), res[0].Caption)
}

func TestBatchWriteFailureContinues(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, n := range []string{"a.jpg", "b.jpg"} {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		paths = append(paths, p)
	}

	b := &Batch{
		Config:    testConfig(),
		Captioner: &fakeCaptioner{resp: "Headline: H\nDescription: D\nKeywords: a"},
		Writer:    &fakeWriter{err: errors.New("disk full")},
	}

	res := b.Run(context.Background(), paths, nil)
	require.Len(t, res, 2, "a failed write must not abort the batch")
	for _, r := range res {
		require.Error(t, r.Err)
		assert.False(t, r.Written)
		assert.Equal(t, "H", r.Caption.Headline)
	}
}

func TestBatchDownscaleFallback(t *testing.T) {
	// undecodable image bytes: the original must be submitted unchanged
	path := testImage(t)
	capt := &fakeCaptioner{resp: "Headline: H\nDescription: D\nKeywords: a"}
	b := &Batch{
		Config:    testConfig(),
		Captioner: capt,
		Writer:    &fakeWriter{},
		MaxDim:    64,
	}

	res := b.Run(context.Background(), []string{path}, nil)
	require.Len(t, res, 1)
	require.NoError(t, res[0].Err)
	assert.Equal(t, []byte("not really a jpeg"), capt.image)
}

func TestBatchBackup(t *testing.T) {
	path := testImage(t)
	backup := filepath.Join(t.TempDir(), "backup")
	b := &Batch{
		Config:    testConfig(),
		Captioner: &fakeCaptioner{resp: "Headline: H\nDescription: D\nKeywords: a"},
		Writer:    &fakeWriter{},
		BackupDir: backup,
	}

	res := b.Run(context.Background(), []string{path}, nil)
	require.Len(t, res, 1)
	require.NoError(t, res[0].Err)

	bs, err := os.ReadFile(filepath.Join(backup, filepath.Base(path)))
	require.NoError(t, err)
	assert.Equal(t, "not really a jpeg", string(bs))
}
