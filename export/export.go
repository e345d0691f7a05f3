// Package export 串联排版与落盘：创建后端画布、运行排版引擎、保存 PDF，保存失败时回退到临时文件。
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Shivashangarim20/caseX-PDF-sub000/config"
	"github.com/Shivashangarim20/caseX-PDF-sub000/layout"
	canvasrenderer "github.com/Shivashangarim20/caseX-PDF-sub000/renderer/canvas"
	fpdfrenderer "github.com/Shivashangarim20/caseX-PDF-sub000/renderer/fpdf"
)

// DefaultFileName 在模板没有给出 filename 或插值结果为空时使用。
const DefaultFileName = "case-report.pdf"

// Target 是可以保存为 PDF 的画布。
type Target interface {
	layout.Canvas
	Save(path string) error
	WriteTo(w io.Writer) (int64, error)
}

// Recorded 由录制型画布实现，用于输出布局调试 JSON。
type Recorded interface {
	Result() *layout.Result
}

// Options 选择后端与字体覆盖。
type Options struct {
	Backend     string
	FontRegular string
	FontBold    string
}

// NewTarget 为一次导出创建新的画布，画布不可复用。
func NewTarget(geo layout.Geometry, opts Options) (Target, error) {
	switch opts.Backend {
	case config.BackendCanvas, "":
		r, err := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
			Regular: canvasrenderer.Resource{Path: opts.FontRegular},
			Bold:    canvasrenderer.Resource{Path: opts.FontBold},
		})
		if err != nil {
			return nil, err
		}
		return canvasrenderer.NewCanvas(r, geo.PageWidth, geo.PageHeight), nil
	case config.BackendFPDF:
		if opts.FontRegular != "" || opts.FontBold != "" {
			return nil, fmt.Errorf("fpdf 后端只支持内置字体")
		}
		return fpdfrenderer.New(geo.PageWidth, geo.PageHeight), nil
	default:
		return nil, fmt.Errorf("不支持的后端: %s", opts.Backend)
	}
}

// Outcome 描述一次导出的结果。
type Outcome struct {
	Path     string          `json:"path"`
	Fallback bool            `json:"fallback"`
	Summary  *layout.Summary `json:"summary"`
}

// Export 排版 doc 并保存到 path。path 不可写时改存到系统临时目录，Outcome.Fallback 为 true。
func Export(doc *layout.Document, geo layout.Geometry, target Target, path string, opts layout.RenderOptions) (*Outcome, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sum, err := layout.Render(doc, geo, target, opts)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = DefaultFileName
	}

	saveErr := save(target, path)
	if saveErr == nil {
		log.Info("PDF 已生成", zap.String("path", path), zap.Int("pages", sum.Pages))
		return &Outcome{Path: path, Summary: sum}, nil
	}
	log.Warn("保存失败，改存到临时目录", zap.String("path", path), zap.Error(saveErr))

	fallback, err := fallbackPath(path)
	if err == nil {
		err = target.Save(fallback)
	}
	if err != nil {
		return nil, multierr.Combine(
			fmt.Errorf("保存 %s 失败: %w", path, saveErr),
			fmt.Errorf("保存到临时目录失败: %w", err),
		)
	}
	log.Info("PDF 已生成", zap.String("path", fallback), zap.Bool("fallback", true), zap.Int("pages", sum.Pages))
	return &Outcome{Path: fallback, Fallback: true, Summary: sum}, nil
}

func save(target Target, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	return target.Save(path)
}

func fallbackPath(path string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	f, err := os.CreateTemp("", base+"-*.pdf")
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}

// FileName 把文件名模式转换为安全的 PDF 文件名，例如 "Contact Lens - Ana Ruiz" → "contact-lens-ana-ruiz.pdf"。
func FileName(pattern string) string {
	base := strings.TrimSpace(pattern)
	if strings.EqualFold(filepath.Ext(base), ".pdf") {
		base = base[:len(base)-len(".pdf")]
	}
	s := slug.Make(base)
	if s == "" {
		return DefaultFileName
	}
	return s + ".pdf"
}

// WriteDebug 在 target 为录制型画布时输出布局调试 JSON，否则返回错误。
func WriteDebug(target Target, path string, geo layout.Geometry, sum *layout.Summary) error {
	rec, ok := target.(Recorded)
	if !ok {
		return fmt.Errorf("当前后端不支持调试输出")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
	}
	if err := layout.WriteDebugJSON(path, layout.DebugReport{Geometry: geo, Summary: sum, Result: rec.Result()}); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
