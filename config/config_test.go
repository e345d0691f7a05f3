package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load([]string{"--template", "contact-lens"})
	require.NoError(t, err)

	assert.Equal(t, "contact-lens", cfg.Template)
	assert.Equal(t, BackendCanvas, cfg.Backend)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "A4", cfg.Page.Size)
	assert.False(t, cfg.Watch)
	require.NoError(t, cfg.Validate())
}

func TestLoadPositionalTemplate(t *testing.T) {
	cfg, err := Load([]string{"-d", "record.yaml", "low-vision"})
	require.NoError(t, err)
	assert.Equal(t, "low-vision", cfg.Template)
	assert.Equal(t, "record.yaml", cfg.Data)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("CASEPDF_BACKEND", "fpdf")
	t.Setenv("CASEPDF_PAGE_SIZE", "Letter")
	t.Setenv("CASEPDF_LOGLEVEL", "warn")

	cfg, err := Load([]string{"-t", "dry-eye", "--log-level", "debug"})
	require.NoError(t, err)

	assert.Equal(t, BackendFPDF, cfg.Backend)
	assert.Equal(t, "Letter", cfg.Page.Size)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.IsDebug())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casepdf.yaml")
	content := `
template: pediatric
backend: fpdf
page:
  size: A5
  landscape: true
  margin_side: 1cm
font:
  bold: /tmp/bold.ttf
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load([]string{"--config", path, "--backend", "canvas"})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "pediatric", cfg.Template)
	assert.Equal(t, BackendCanvas, cfg.Backend, "flag must win over file")
	assert.True(t, cfg.Page.Landscape)
	assert.Equal(t, "/tmp/bold.ttf", cfg.Font.Bold)

	geo, err := cfg.Geometry()
	require.NoError(t, err)
	assert.Equal(t, 210.0, geo.PageWidth)
	assert.Equal(t, 148.0, geo.PageHeight)
	assert.InDelta(t, 10, geo.SideMargin, 1e-9)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestLoadVersionAndHelp(t *testing.T) {
	_, err := Load([]string{"--version"})
	assert.ErrorIs(t, err, ErrVersion)

	_, err = Load([]string{"--help"})
	assert.True(t, errors.Is(err, pflag.ErrHelp))
}

func TestValidateCollectsProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "docx"
	cfg.LogLevel = "verbose"
	cfg.Page.Size = "B7"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 4)
	assert.ErrorContains(t, err, "docx")
	assert.ErrorContains(t, err, "verbose")
}

func TestValidateListNeedsNoTemplate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.List = true
	assert.NoError(t, cfg.Validate())
}

func TestValidateDebugJSONNeedsCanvas(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Template = "dry-eye"
	cfg.Backend = BackendFPDF
	cfg.Debug = "layout.json"
	assert.ErrorContains(t, cfg.Validate(), "canvas")
}

func TestGeometryOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Page.MarginTop = "20"
	cfg.Page.LineHeight = "12pt"
	cfg.Page.LabelWidth = "5cm"

	geo, err := cfg.Geometry()
	require.NoError(t, err)
	assert.InDelta(t, 20, geo.TopMargin, 1e-9)
	assert.InDelta(t, 12*0.352777, geo.LineHeight, 1e-6)
	assert.InDelta(t, 50, geo.LabelWidth, 1e-9)
}

func TestGeometryRejectsBadLengthAndLayout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Page.MarginSide = "wide"
	_, err := cfg.Geometry()
	assert.ErrorContains(t, err, "margin_side")

	cfg = DefaultConfig()
	cfg.Page.MarginSide = "120mm"
	_, err = cfg.Geometry()
	assert.ErrorContains(t, err, "页面几何配置无效")
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger("warn", &buf)
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown", zap.Error(errors.New("boom")))
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "boom")

	nop, err := NewLogger("none")
	require.NoError(t, err)
	assert.False(t, nop.Core().Enabled(zap.ErrorLevel))

	_, err = NewLogger("loud")
	assert.Error(t, err)
}
