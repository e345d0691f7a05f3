package layout

// 该文件定义录制结果的数据结构，供 Recorder、PDF 渲染器与调试 JSON 共用。

// Result 保存录制下来的全部页面与文档元信息。
type Result struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 记录页面尺寸与最终可以直接渲染的元素（单位：mm，原点在左上角）。
// 页眉与页脚单独保存，便于校验“每页恰好一个页眉/页脚”。
type Page struct {
	Number int     `json:"number"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// 主体内容
	Texts []TextBox `json:"texts"`
	Lines []Line    `json:"lines,omitempty"`
	Rects []Rect    `json:"rects,omitempty"`
	// 页眉与页脚（由排版引擎在每一页重复绘制）
	Header HeaderFooter `json:"header"`
	Footer HeaderFooter `json:"footer"`
}

// HeaderFooter 描述页眉/页脚区域内的元素集合。
type HeaderFooter struct {
	Texts []TextBox `json:"texts"`
	Lines []Line    `json:"lines,omitempty"`
	Rects []Rect    `json:"rects,omitempty"`
}

// Empty 表示该区域没有任何绘制内容。
func (hf HeaderFooter) Empty() bool {
	return len(hf.Texts) == 0 && len(hf.Lines) == 0 && len(hf.Rects) == 0
}

// TextBox 表示一次 DrawText 调用：已经折好的行与锚点坐标。
// Align 为 center 时 X 是中心点，为 right 时 X 是右边界。
type TextBox struct {
	Lines      []string `json:"lines"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	LineHeight float64  `json:"lineHeight"`
	Align      string   `json:"align,omitempty"`
	Font       string   `json:"font"`
	Bold       bool     `json:"bold,omitempty"`
	FontSize   float64  `json:"fontSize"` // pt
	Color      Color    `json:"color"`
}

// Height 返回文本框占用的纵向高度。
func (tb TextBox) Height() float64 {
	return float64(len(tb.Lines)) * tb.LineHeight
}

// TextLine 表示排版后的一行文本内容及其宽度（mm）。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

// Rect 表示一个矩形；StrokeColor 与 FillColor 为空分别表示不描边、不填充。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor *Color  `json:"strokeColor,omitempty"`
	FillColor   *Color  `json:"fillColor,omitempty"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
