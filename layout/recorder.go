package layout

import (
	"go.uber.org/multierr"
)

// Recorder 是一个把绘图调用记录为 Result 的 Canvas 实现。
// 它既用于测试断言，也作为基于 Result 的 PDF 渲染器的前端。
// ts 为空时按 EstimateWidth 估算文字宽度。
type Recorder struct {
	ts     Typesetter
	width  float64
	height float64

	result Result
	font   Font
	text   Color
	stroke Color
	region Region
	err    error
}

// NewRecorder 创建一个已包含第一页的 Recorder，宽高单位为 mm。
func NewRecorder(width, height float64, ts Typesetter) *Recorder {
	r := &Recorder{
		ts:     ts,
		width:  width,
		height: height,
		font:   Font{Family: DefaultStyle().FontFamily, Weight: WeightNormal, Size: 10},
	}
	r.AddPage()
	return r
}

// Result 返回录制结果。返回值与 Recorder 共享底层数据，录制结束后再读取。
func (r *Recorder) Result() *Result { return &r.result }

// Err 返回测量过程中 Typesetter 报告的全部错误。
func (r *Recorder) Err() error { return r.err }

func (r *Recorder) MeasureWrap(text string, maxWidth float64) []string {
	if r.ts != nil {
		lines, err := r.ts.LayoutLines(text, maxWidth, r.font)
		if err == nil {
			out := make([]string, len(lines))
			for i, l := range lines {
				out[i] = l.Content
			}
			return out
		}
		r.err = multierr.Append(r.err, err)
	}
	font := r.font
	return WrapStrings(text, maxWidth, func(s string) float64 { return EstimateWidth(s, font) })
}

func (r *Recorder) DrawText(lines []string, x, y, lineHeight float64, align Align) {
	texts, _, _ := r.layer()
	*texts = append(*texts, TextBox{
		Lines:      append([]string(nil), lines...),
		X:          x,
		Y:          y,
		LineHeight: lineHeight,
		Align:      align.String(),
		Font:       r.font.Family,
		Bold:       r.font.Weight == WeightBold,
		FontSize:   r.font.Size,
		Color:      r.text,
	})
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 float64) {
	_, lines, _ := r.layer()
	*lines = append(*lines, Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Color: r.stroke})
}

func (r *Recorder) DrawRect(x, y, w, h float64) {
	_, _, rects := r.layer()
	stroke := r.stroke
	*rects = append(*rects, Rect{X: x, Y: y, Width: w, Height: h, StrokeColor: &stroke})
}

func (r *Recorder) DrawFilledRect(x, y, w, h float64, fill Color) {
	_, _, rects := r.layer()
	*rects = append(*rects, Rect{X: x, Y: y, Width: w, Height: h, FillColor: &fill})
}

func (r *Recorder) SetFont(family string, weight Weight) {
	r.font.Family = family
	r.font.Weight = weight
}

func (r *Recorder) SetFontSize(pt float64) { r.font.Size = pt }
func (r *Recorder) SetTextColor(c Color)   { r.text = c }
func (r *Recorder) SetDrawColor(c Color)   { r.stroke = c }
func (r *Recorder) PageWidth() float64     { return r.width }
func (r *Recorder) PageHeight() float64    { return r.height }

func (r *Recorder) AddPage() {
	r.result.Pages = append(r.result.Pages, Page{
		Number: len(r.result.Pages) + 1,
		Width:  r.width,
		Height: r.height,
	})
	r.region = RegionBody
}

func (r *Recorder) SetRegion(region Region) { r.region = region }

func (r *Recorder) SetMeta(meta DocumentMeta) {
	meta.Keywords = append([]string(nil), meta.Keywords...)
	r.result.Meta = meta
}

func (r *Recorder) layer() (*[]TextBox, *[]Line, *[]Rect) {
	p := &r.result.Pages[len(r.result.Pages)-1]
	switch r.region {
	case RegionHeader:
		return &p.Header.Texts, &p.Header.Lines, &p.Header.Rects
	case RegionFooter:
		return &p.Footer.Texts, &p.Footer.Lines, &p.Footer.Rects
	default:
		return &p.Texts, &p.Lines, &p.Rects
	}
}
