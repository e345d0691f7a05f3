package layout

// Align 描述文本水平对齐方式。
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Weight 是字重，目前只区分常规与粗体。
type Weight int

const (
	WeightNormal Weight = iota
	WeightBold
)

func (w Weight) String() string {
	if w == WeightBold {
		return "bold"
	}
	return "normal"
}

// Canvas 是排版引擎唯一依赖的绘图协作者，坐标单位为 mm，原点在页面左上角。
//
// MeasureWrap 必须使用当前字体与字号折行；引擎保证测量与绘制使用同一份折行结果。
// DrawText 的 y 为第一行行框的顶部，每行占用 lineHeight；
// align 为 center 时 x 为中心点，为 right 时 x 为右边界。
type Canvas interface {
	MeasureWrap(text string, maxWidth float64) []string
	DrawText(lines []string, x, y, lineHeight float64, align Align)
	DrawLine(x1, y1, x2, y2 float64)
	DrawRect(x, y, w, h float64)
	DrawFilledRect(x, y, w, h float64, fill Color)
	SetFont(family string, weight Weight)
	SetFontSize(pt float64)
	SetTextColor(c Color)
	SetDrawColor(c Color)
	PageWidth() float64
	PageHeight() float64
	AddPage()
}

// Region 标识当前绘制的是页眉、页脚还是主体内容。
type Region int

const (
	RegionBody Region = iota
	RegionHeader
	RegionFooter
)

// RegionMarker 是可选接口：实现它的 Canvas 会在页眉/页脚绘制前后收到通知。
type RegionMarker interface {
	SetRegion(r Region)
}

// MetaSetter 是可选接口：实现它的 Canvas 会在排版开始前收到文档元信息。
type MetaSetter interface {
	SetMeta(meta DocumentMeta)
}
