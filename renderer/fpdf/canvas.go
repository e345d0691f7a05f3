// Package fpdfrenderer 直接在 go-pdf/fpdf 文档上绘制，使用 PDF 内置字体，不经过录制。
package fpdfrenderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/Shivashangarim20/caseX-PDF-sub000/layout"
)

const (
	defaultFamily = "helvetica"
	strokeWidth   = 0.2
	// capRatio 是内置字体大写字母高度与字号之比的近似值，用于在行框内垂直居中。
	capRatio = 0.7
)

var coreFamilies = map[string]bool{"helvetica": true, "arial": true, "times": true, "courier": true}

// Canvas 实现 layout.Canvas。文本先经 cp1252 转换，无法表示的字符会被替换。
type Canvas struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	width  float64
	height float64

	family string
	bold   bool
	sizePt float64
}

var (
	_ layout.Canvas     = (*Canvas)(nil)
	_ layout.MetaSetter = (*Canvas)(nil)
)

// New 创建一个已包含第一页的 Canvas，宽高单位为 mm。
func New(width, height float64) *Canvas {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetLineWidth(strokeWidth)
	pdf.AddPage()
	c := &Canvas{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		width:  width,
		height: height,
		family: defaultFamily,
		sizePt: 10,
	}
	c.applyFont()
	return c
}

func (c *Canvas) applyFont() {
	style := ""
	if c.bold {
		style = "B"
	}
	c.pdf.SetFont(c.family, style, c.sizePt)
}

func (c *Canvas) textWidth(s string) float64 { return c.pdf.GetStringWidth(c.tr(s)) }

func (c *Canvas) MeasureWrap(text string, maxWidth float64) []string {
	return layout.WrapStrings(text, maxWidth, c.textWidth)
}

func (c *Canvas) DrawText(lines []string, x, y, lineHeight float64, align layout.Align) {
	offset := (lineHeight + capRatio*c.sizePt*layout.PtToMm) / 2
	for i, line := range lines {
		if line == "" {
			continue
		}
		lx := x
		switch align {
		case layout.AlignCenter:
			lx -= c.textWidth(line) / 2
		case layout.AlignRight:
			lx -= c.textWidth(line)
		}
		c.pdf.Text(lx, y+float64(i)*lineHeight+offset, c.tr(line))
	}
}

func (c *Canvas) DrawLine(x1, y1, x2, y2 float64) { c.pdf.Line(x1, y1, x2, y2) }

func (c *Canvas) DrawRect(x, y, w, h float64) { c.pdf.Rect(x, y, w, h, "D") }

func (c *Canvas) DrawFilledRect(x, y, w, h float64, fill layout.Color) {
	r, g, b := c.pdf.GetFillColor()
	c.pdf.SetFillColor(fill.R, fill.G, fill.B)
	c.pdf.Rect(x, y, w, h, "F")
	c.pdf.SetFillColor(r, g, b)
}

// SetFont 只接受 PDF 内置字体族，其他名称回退到 helvetica。
func (c *Canvas) SetFont(family string, weight layout.Weight) {
	family = strings.ToLower(strings.TrimSpace(family))
	if !coreFamilies[family] {
		family = defaultFamily
	}
	c.family = family
	c.bold = weight == layout.WeightBold
	c.applyFont()
}

func (c *Canvas) SetFontSize(pt float64) {
	if pt <= 0 {
		return
	}
	c.sizePt = pt
	c.pdf.SetFontSize(pt)
}

func (c *Canvas) SetTextColor(col layout.Color) { c.pdf.SetTextColor(col.R, col.G, col.B) }
func (c *Canvas) SetDrawColor(col layout.Color) { c.pdf.SetDrawColor(col.R, col.G, col.B) }
func (c *Canvas) PageWidth() float64            { return c.width }
func (c *Canvas) PageHeight() float64           { return c.height }

func (c *Canvas) AddPage() {
	c.pdf.AddPage()
	c.pdf.SetLineWidth(strokeWidth)
	c.applyFont()
}

func (c *Canvas) SetMeta(meta layout.DocumentMeta) {
	c.pdf.SetTitle(meta.Title, true)
	c.pdf.SetAuthor(meta.Author, true)
	c.pdf.SetSubject(meta.Subject, true)
	c.pdf.SetCreator(meta.Creator, true)
	if len(meta.Keywords) > 0 {
		c.pdf.SetKeywords(strings.Join(meta.Keywords, ", "), true)
	}
}

// PageCount 返回当前页数。
func (c *Canvas) PageCount() int { return c.pdf.PageCount() }

// Err 返回 fpdf 累积的错误。
func (c *Canvas) Err() error {
	if c.pdf.Err() {
		return c.pdf.Error()
	}
	return nil
}

func (c *Canvas) Save(path string) error {
	if err := c.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return 0, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.WriteTo(w)
}
