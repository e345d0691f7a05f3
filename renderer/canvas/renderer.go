package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/Shivashangarim20/caseX-PDF-sub000/fonts"
	"github.com/Shivashangarim20/caseX-PDF-sub000/layout"
	"github.com/Shivashangarim20/caseX-PDF-sub000/renderer"
)

const defaultStrokeWidth = 0.2

// Renderer draws recorded layout results via github.com/tdewolff/canvas.
type Renderer struct {
	fontBlobs map[canvas.FontStyle][]byte

	fontMu   sync.Mutex
	families map[canvas.FontStyle]*canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	Regular Resource // 覆盖内置常规字体
	Bold    Resource // 覆盖内置粗体
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

func (r Resource) load() ([]byte, error) {
	if len(r.Bytes) > 0 {
		return r.Bytes, nil
	}
	if r.Path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", r.Path, err)
	}
	return data, nil
}

// NewRenderer creates a renderer using the built-in fonts.
func NewRenderer() *Renderer {
	r, _ := NewRendererWithOptions(Options{})
	return r
}

// NewRendererWithOptions creates a renderer with optional font overrides.
func NewRendererWithOptions(opts Options) (*Renderer, error) {
	r := &Renderer{
		fontBlobs: map[canvas.FontStyle][]byte{},
		families:  map[canvas.FontStyle]*canvas.FontFamily{},
	}
	for style, res := range map[canvas.FontStyle]Resource{canvas.FontRegular: opts.Regular, canvas.FontBold: opts.Bold} {
		data, err := res.load()
		if err != nil {
			return nil, err
		}
		if len(data) > 0 {
			r.fontBlobs[style] = data
		}
	}
	return r, nil
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page); err != nil {
			return nil, fmt.Errorf("绘制第 %d 页失败: %w", page.Number, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// LayoutLines 实现 layout.Typesetter 接口，按字体实际宽度贪心折行（宽度单位 mm，字号单位 pt）。
func (r *Renderer) LayoutLines(content string, width float64, font layout.Font) ([]layout.TextLine, error) {
	face, err := r.fontFace(font.Weight == layout.WeightBold, font.Size, layout.Color{})
	if err != nil {
		return nil, err
	}
	return layout.GreedyWrap(content, width, face.TextWidth), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	// 形状在文本之前绘制，作为背景
	for _, hf := range []layout.HeaderFooter{page.Header, {Texts: page.Texts, Lines: page.Lines, Rects: page.Rects}, page.Footer} {
		if hf.Empty() {
			continue
		}
		r.drawRects(ctx, hf.Rects)
		r.drawLines(ctx, hf.Lines)
		for _, tb := range hf.Texts {
			if err := r.drawTextBox(ctx, tb); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	face, err := r.fontFace(tb.Bold, tb.FontSize, tb.Color)
	if err != nil {
		return err
	}

	var textAlign canvas.TextAlign
	switch tb.Align {
	case "center":
		textAlign = canvas.Center
	case "right":
		textAlign = canvas.Right
	default:
		textAlign = canvas.Left
	}

	// 基线：文字在行框内垂直居中（Ascent/Descent 已是 mm）
	metrics := face.Metrics()
	offset := (tb.LineHeight-metrics.Ascent-metrics.Descent)/2 + metrics.Ascent
	for i, line := range tb.Lines {
		if line == "" {
			continue
		}
		baseline := tb.Y + float64(i)*tb.LineHeight + offset
		ctx.DrawText(tb.X, baseline, canvas.NewTextLine(face, line, textAlign))
	}
	return nil
}

// drawLines 绘制直线列表（毫米单位）
func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(w)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

// drawRects 绘制矩形
func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) {
	for _, rc := range rects {
		if rc.FillColor != nil {
			ctx.SetFillColor(colorFromLayout(*rc.FillColor))
		} else {
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		}
		if rc.StrokeColor != nil {
			ctx.SetStrokeColor(colorFromLayout(*rc.StrokeColor))
			ctx.SetStrokeWidth(defaultStrokeWidth)
		} else {
			ctx.SetStrokeColor(canvas.Transparent)
		}
		ctx.DrawPath(rc.X, rc.Y, canvas.Rectangle(rc.Width, rc.Height))
	}
}

func (r *Renderer) fontFace(bold bool, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	style := canvas.FontRegular
	if bold {
		style = canvas.FontBold
	}
	family, err := r.ensureFontFamily(style)
	if err != nil {
		return nil, err
	}
	if sizePt <= 0 {
		sizePt = 10
	}
	return family.Face(sizePt, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(style canvas.FontStyle) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.families[style]; ok {
		return family, nil
	}
	data, ok := r.fontBlobs[style]
	if !ok {
		var err error
		data, err = fonts.Load(fonts.ForWeight(style == canvas.FontBold))
		if err != nil {
			return nil, err
		}
	}
	family := canvas.NewFontFamily("case-report")
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}
	r.families[style] = family
	return family, nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
