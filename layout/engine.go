package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	// epsilon 吸收浮点累加误差，避免恰好填满时误判溢出。
	epsilon = 1e-9

	titleLineHeight   = 7.0
	headerRuleOffset  = 3.0
	defaultLabelRatio = 0.34
	minLabelRatio     = 0.1
	maxLabelRatio     = 0.8
	defaultRuledLines = 5
)

var tableHeadings = [3]string{"Type", "OD", "OS"}

// Summary 汇总一次排版的结果。
type Summary struct {
	Pages      int `json:"pages"`
	Blocks     int `json:"blocks"`
	Suppressed int `json:"suppressed"`
	PageBreaks int `json:"pageBreaks"`
	Overflows  int `json:"overflows"`
}

// cursor 是排版过程中唯一的可变状态：当前页码（从 1 开始）与纵向位置。
type cursor struct {
	y    float64
	page int
}

type engine struct {
	doc    *Document
	geo    Geometry
	style  Style
	canvas Canvas
	marker RegionMarker
	log    *zap.Logger
	cur    cursor
	// gap 是上一个块之后待补的间距，只在下一个块放在同一页时计入光标。
	gap float64
	sum Summary
}

// measured 是一个块的测量结果：draw 复用测量时得到的折行，保证测量高度与实际占用一致。
type measured struct {
	kind     BlockKind
	height   float64
	gap      float64
	overflow bool
	draw     func(y float64) float64
}

// Render 按“先测量、再预留、后绘制”的方式把文档排到 Canvas 上。
// 仅在参数或几何配置无效时返回错误；Canvas 自身的失败由调用方处理。
func Render(doc *Document, geo Geometry, c Canvas, opts RenderOptions) (*Summary, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if c == nil {
		return nil, fmt.Errorf("layout: 缺少绘图后端 Canvas")
	}
	if err := geo.Validate(); err != nil {
		return nil, fmt.Errorf("页面几何配置无效: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	e := &engine{
		doc:    doc,
		geo:    geo,
		style:  opts.Style.withDefaults(),
		canvas: c,
		log:    log,
		cur:    cursor{y: geo.ContentTop(), page: 1},
	}
	if m, ok := c.(RegionMarker); ok {
		e.marker = m
	}
	if ms, ok := c.(MetaSetter); ok {
		meta := doc.Meta
		if meta.Title == "" {
			meta.Title = doc.Title
		}
		ms.SetMeta(meta)
	}
	if math.Abs(c.PageWidth()-geo.PageWidth) > 0.5 || math.Abs(c.PageHeight()-geo.PageHeight) > 0.5 {
		log.Warn("Canvas 页面尺寸与几何配置不一致",
			zap.Float64("canvasWidth", c.PageWidth()), zap.Float64("canvasHeight", c.PageHeight()),
			zap.Float64("width", geo.PageWidth), zap.Float64("height", geo.PageHeight))
	}

	e.drawHeader()
	for i, b := range doc.Blocks {
		e.place(i, b)
	}
	e.drawFooter()

	e.sum.Pages = e.cur.page
	log.Debug("排版完成",
		zap.Int("pages", e.sum.Pages),
		zap.Int("blocks", e.sum.Blocks),
		zap.Int("suppressed", e.sum.Suppressed),
		zap.Int("overflows", e.sum.Overflows))
	return &e.sum, nil
}

// PageLabel 返回页脚中的页码文字。
func PageLabel(page int) string { return "Page " + strconv.Itoa(page) }

func (e *engine) place(index int, b Block) {
	b = deref(b)
	if t, ok := b.(TwoColumnTable); ok {
		if !e.placeTable(t) {
			e.suppress(index, KindTwoColumnTable)
		}
		return
	}
	m := e.measure(b)
	if m == nil {
		kind := BlockKind(-1)
		if b != nil {
			kind = b.Kind()
		}
		e.suppress(index, kind)
		return
	}
	if m.height > e.geo.ContentHeight()+epsilon || m.overflow {
		e.sum.Overflows++
		e.log.Debug("块内容超出可用空间，按原样绘制",
			zap.Int("index", index), zap.Stringer("kind", m.kind), zap.Float64("height", m.height))
	}
	e.ensureSpace(m.height)
	used := m.draw(e.cur.y)
	e.cur.y += used
	e.gap = m.gap
	e.sum.Blocks++
}

func (e *engine) suppress(index int, kind BlockKind) {
	e.sum.Suppressed++
	e.log.Debug("跳过空块", zap.Int("index", index), zap.Stringer("kind", kind))
}

func (e *engine) measure(b Block) *measured {
	switch blk := b.(type) {
	case SectionTitle:
		return e.measureSection(blk)
	case KeyValue:
		return e.measureKeyValue(blk)
	case EyeGroup:
		return e.measureEyeGroup(blk)
	case LinedBlock:
		return e.measureLined(blk)
	default:
		return nil
	}
}

// ensureSpace 在剩余空间不足 h（含待补间距）时换页；光标已在页首时不再换页，超高块直接溢出。
func (e *engine) ensureSpace(h float64) {
	if e.needsBreak(e.gap + h) {
		e.pageBreak()
		return
	}
	e.cur.y += e.gap
	e.gap = 0
}

func (e *engine) needsBreak(h float64) bool {
	if e.cur.y+h <= e.geo.ContentBottom()+epsilon {
		return false
	}
	return e.cur.y > e.geo.ContentTop()+epsilon
}

func (e *engine) pageBreak() {
	e.drawFooter()
	e.canvas.AddPage()
	e.cur.page++
	e.cur.y = e.geo.ContentTop()
	e.gap = 0
	e.drawHeader()
	e.sum.PageBreaks++
	e.log.Debug("换页", zap.Int("page", e.cur.page))
}

func (e *engine) region(r Region) {
	if e.marker != nil {
		e.marker.SetRegion(r)
	}
}

func (e *engine) drawHeader() {
	e.region(RegionHeader)
	defer e.region(RegionBody)
	g := e.geo
	if title := strings.TrimSpace(e.doc.Title); title != "" {
		e.font(WeightBold, e.style.TitleSize, e.style.Accent)
		e.canvas.DrawText([]string{title}, g.SideMargin, g.TopMargin, titleLineHeight, AlignLeft)
	}
	if sub := strings.TrimSpace(e.doc.Subtitle); sub != "" {
		e.font(WeightNormal, e.style.SubtitleSize, e.style.Muted)
		e.canvas.DrawText([]string{sub}, g.SideMargin, g.TopMargin+titleLineHeight, g.LineHeight, AlignLeft)
	}
	ruleY := g.ContentTop() - headerRuleOffset
	e.canvas.SetDrawColor(e.style.Accent)
	e.canvas.DrawLine(g.SideMargin, ruleY, g.PageWidth-g.SideMargin, ruleY)
	e.canvas.SetDrawColor(e.style.Rule)
}

func (e *engine) drawFooter() {
	e.region(RegionFooter)
	defer e.region(RegionBody)
	g := e.geo
	y := g.PageHeight - g.FooterHeight
	e.canvas.SetDrawColor(e.style.Rule)
	e.canvas.DrawLine(g.SideMargin, y, g.PageWidth-g.SideMargin, y)
	e.font(WeightNormal, e.style.FooterSize, e.style.Muted)
	ty := y + (g.FooterHeight-g.SmallLineHeight)/2
	if footer := strings.TrimSpace(e.doc.Footer); footer != "" {
		e.canvas.DrawText([]string{footer}, g.SideMargin, ty, g.SmallLineHeight, AlignLeft)
	}
	e.canvas.DrawText([]string{PageLabel(e.cur.page)}, g.PageWidth-g.SideMargin, ty, g.SmallLineHeight, AlignRight)
}

func (e *engine) font(weight Weight, size float64, col Color) {
	e.canvas.SetFont(e.style.FontFamily, weight)
	e.canvas.SetFontSize(size)
	e.canvas.SetTextColor(col)
}

// text 绘制已折好的行并返回占用高度。
func (e *engine) text(lines []string, x, y, lineHeight float64, align Align) float64 {
	if len(lines) == 0 {
		return 0
	}
	e.canvas.DrawText(lines, x, y, lineHeight, align)
	return float64(len(lines)) * lineHeight
}

func (e *engine) wrap(text string, width float64) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return e.canvas.MeasureWrap(text, width)
}

func deref(b Block) Block {
	switch v := b.(type) {
	case *SectionTitle:
		if v == nil {
			return nil
		}
		return *v
	case *KeyValue:
		if v == nil {
			return nil
		}
		return *v
	case *EyeGroup:
		if v == nil {
			return nil
		}
		return *v
	case *TwoColumnTable:
		if v == nil {
			return nil
		}
		return *v
	case *LinedBlock:
		if v == nil {
			return nil
		}
		return *v
	}
	return b
}
