package export

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/Shivashangarim20/caseX-PDF-sub000/config"
	"github.com/Shivashangarim20/caseX-PDF-sub000/layout"
)

func sampleDoc() *layout.Document {
	doc := &layout.Document{Title: "Dry Eye Evaluation", Footer: "Case Forms"}
	for i := 0; i < 45; i++ {
		doc.Blocks = append(doc.Blocks, layout.KeyValue{Label: "Tear break-up time", Value: "6 s"})
	}
	return doc
}

func TestFileName(t *testing.T) {
	cases := map[string]string{
		"Contact Lens - Ana Ruiz": "contact-lens-ana-ruiz.pdf",
		"low-vision-report.PDF":   "low-vision-report.pdf",
		"  ":                      DefaultFileName,
		"":                        DefaultFileName,
		"Pédiatrie 2024":          "pediatrie-2024.pdf",
	}
	for in, want := range cases {
		assert.Equal(t, want, FileName(in), "%q", in)
	}
}

func TestNewTarget(t *testing.T) {
	geo := layout.DefaultGeometry()

	for _, backend := range []string{config.BackendCanvas, config.BackendFPDF, ""} {
		target, err := NewTarget(geo, Options{Backend: backend})
		require.NoError(t, err, backend)
		assert.Equal(t, geo.PageWidth, target.PageWidth())
		assert.Equal(t, geo.PageHeight, target.PageHeight())
	}

	_, err := NewTarget(geo, Options{Backend: "svg"})
	assert.Error(t, err)

	_, err = NewTarget(geo, Options{Backend: config.BackendFPDF, FontBold: "bold.ttf"})
	assert.Error(t, err)

	_, err = NewTarget(geo, Options{Backend: config.BackendCanvas, FontRegular: filepath.Join(t.TempDir(), "missing.ttf")})
	assert.Error(t, err)
}

func TestExportWritesPDF(t *testing.T) {
	geo := layout.DefaultGeometry()
	for _, backend := range []string{config.BackendCanvas, config.BackendFPDF} {
		t.Run(backend, func(t *testing.T) {
			target, err := NewTarget(geo, Options{Backend: backend})
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "out", "dry-eye.pdf")
			out, err := Export(sampleDoc(), geo, target, path, layout.RenderOptions{})
			require.NoError(t, err)

			assert.Equal(t, path, out.Path)
			assert.False(t, out.Fallback)
			assert.Equal(t, 2, out.Summary.Pages)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "%PDF", string(data[:4]))
		})
	}
}

func TestExportFallsBackToTempDir(t *testing.T) {
	geo := layout.DefaultGeometry()
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	target, err := NewTarget(geo, Options{Backend: config.BackendFPDF})
	require.NoError(t, err)

	out, err := Export(sampleDoc(), geo, target, filepath.Join(blocker, "report.pdf"), layout.RenderOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(out.Path) })

	assert.True(t, out.Fallback)
	assert.Equal(t, filepath.Clean(os.TempDir()), filepath.Dir(out.Path))
	info, err := os.Stat(out.Path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

type failingTarget struct {
	Target
}

func (failingTarget) Save(string) error { return errors.New("disk full") }

func TestExportReportsBothFailures(t *testing.T) {
	geo := layout.DefaultGeometry()
	inner, err := NewTarget(geo, Options{Backend: config.BackendFPDF})
	require.NoError(t, err)

	_, err = Export(sampleDoc(), geo, failingTarget{inner}, filepath.Join(t.TempDir(), "r.pdf"), layout.RenderOptions{})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorContains(t, err, "disk full")
}

func TestExportRejectsInvalidGeometry(t *testing.T) {
	geo := layout.DefaultGeometry()
	target, err := NewTarget(geo, Options{Backend: config.BackendFPDF})
	require.NoError(t, err)

	geo.RuleGap = 0
	_, err = Export(sampleDoc(), geo, target, filepath.Join(t.TempDir(), "r.pdf"), layout.RenderOptions{})
	assert.ErrorContains(t, err, "横线间距")
}

func TestWriteDebug(t *testing.T) {
	geo := layout.DefaultGeometry()
	target, err := NewTarget(geo, Options{Backend: config.BackendCanvas})
	require.NoError(t, err)
	sum, err := layout.Render(sampleDoc(), geo, target, layout.RenderOptions{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "debug", "layout.json")
	require.NoError(t, WriteDebug(target, path, geo, sum))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var report struct {
		Summary struct {
			Pages int `json:"pages"`
		} `json:"summary"`
		Result struct {
			Pages []json.RawMessage `json:"pages"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, sum.Pages, report.Summary.Pages)
	assert.Len(t, report.Result.Pages, sum.Pages)

	fp, err := NewTarget(geo, Options{Backend: config.BackendFPDF})
	require.NoError(t, err)
	assert.Error(t, WriteDebug(fp, path, geo, sum))
}

func TestWatchCallsBackOnChange(t *testing.T) {
	dir := t.TempDir()
	record := filepath.Join(dir, "record.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(record, []byte("a: 1\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{record}, 20*time.Millisecond, nil, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// 等待监听就绪后再写文件。
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(record, []byte("a: 2\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no callback after record change")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchNeedsPaths(t *testing.T) {
	err := Watch(context.Background(), []string{""}, DefaultDebounce, nil, func() {})
	assert.Error(t, err)
}
