package layout

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// minHeaderHeight 是页眉装饰（标题、副标题、分隔线）所需的最小高度。
const minHeaderHeight = 15.0

// Geometry 是一次文档导出期间不可变的页面几何配置，单位均为 mm。
type Geometry struct {
	PageWidth    float64 `json:"pageWidth"`
	PageHeight   float64 `json:"pageHeight"`
	TopMargin    float64 `json:"topMargin"`
	BottomMargin float64 `json:"bottomMargin"`
	SideMargin   float64 `json:"sideMargin"`

	LineHeight       float64 `json:"lineHeight"`
	SmallLineHeight  float64 `json:"smallLineHeight"`
	SectionBarHeight float64 `json:"sectionBarHeight"`
	// HeaderHeight 是页眉占用的高度，正文从 TopMargin+HeaderHeight 开始。
	HeaderHeight float64 `json:"headerHeight"`
	// FooterHeight 是页脚占用的高度，页脚位于下边距之内。
	FooterHeight float64 `json:"footerHeight"`

	LabelWidth        float64 `json:"labelWidth"`
	ColumnGap         float64 `json:"columnGap"`
	Padding           float64 `json:"padding"`
	CellPadding       float64 `json:"cellPadding"`
	TableHeaderHeight float64 `json:"tableHeaderHeight"`
	RuleGap           float64 `json:"ruleGap"`
	SectionGap        float64 `json:"sectionGap"`
	BlockGap          float64 `json:"blockGap"`
}

var pagePresets = map[string][2]float64{
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
	"LEGAL":  {215.9, 355.6},
}

// PageSize 返回预设纸张的宽高（mm），landscape 时交换宽高。
func PageSize(name string, landscape bool) (float64, float64, error) {
	base, ok := pagePresets[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", name)
	}
	width, height := base[0], base[1]
	if landscape {
		width, height = height, width
	}
	return width, height, nil
}

// DefaultGeometry 返回 A4 纵向的默认几何配置。
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:    210,
		PageHeight:   297,
		TopMargin:    16,
		BottomMargin: 18,
		SideMargin:   14,

		LineHeight:       5,
		SmallLineHeight:  4.2,
		SectionBarHeight: 7,
		HeaderHeight:     22,
		FooterHeight:     10,

		LabelWidth:        58,
		ColumnGap:         6,
		Padding:           2,
		CellPadding:       1.5,
		TableHeaderHeight: 7,
		RuleGap:           6,
		SectionGap:        3,
		BlockGap:          2,
	}
}

// ContentTop 是每页正文区域的顶部（光标复位位置）。
func (g Geometry) ContentTop() float64 { return g.TopMargin + g.HeaderHeight }

// ContentBottom 是正文区域的底部，任何块都不能越过它进入下边距。
func (g Geometry) ContentBottom() float64 { return g.PageHeight - g.BottomMargin }

// ContentWidth 是正文区域的宽度。
func (g Geometry) ContentWidth() float64 { return g.PageWidth - 2*g.SideMargin }

// ContentHeight 是一页正文区域的可用高度。
func (g Geometry) ContentHeight() float64 { return g.ContentBottom() - g.ContentTop() }

// Validate 检查全部约束，并把所有违反项合并成一个错误返回。
func (g Geometry) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}
	check(g.PageWidth > 0, "页面宽度必须为正数: %g", g.PageWidth)
	check(g.PageHeight > 0, "页面高度必须为正数: %g", g.PageHeight)
	check(g.TopMargin >= 0 && g.BottomMargin >= 0 && g.SideMargin >= 0, "边距不能为负数")
	check(g.ContentWidth() > 0, "正文宽度必须为正数: %g", g.ContentWidth())
	check(g.ContentHeight() > 0, "正文高度必须为正数: %g", g.ContentHeight())
	check(g.LineHeight > 0, "行高必须为正数: %g", g.LineHeight)
	check(g.SmallLineHeight > 0, "小号行高必须为正数: %g", g.SmallLineHeight)
	check(g.SectionBarHeight > 0, "章节栏高度必须为正数: %g", g.SectionBarHeight)
	check(g.HeaderHeight >= minHeaderHeight, "页眉高度至少为 %gmm: %g", minHeaderHeight, g.HeaderHeight)
	check(g.FooterHeight >= g.SmallLineHeight, "页脚高度不能小于小号行高: %g", g.FooterHeight)
	check(g.FooterHeight <= g.BottomMargin, "页脚高度 %g 超出下边距 %g", g.FooterHeight, g.BottomMargin)
	check(g.TableHeaderHeight >= g.SmallLineHeight, "表头高度不能小于小号行高: %g", g.TableHeaderHeight)
	check(g.RuleGap > 0, "横线间距必须为正数: %g", g.RuleGap)
	check(g.LabelWidth > 0 && g.LabelWidth+g.ColumnGap < g.ContentWidth(), "标签列宽度 %g 不合法", g.LabelWidth)
	check(g.Padding >= 0 && g.CellPadding >= 0 && g.ColumnGap >= 0, "内边距与列间距不能为负数")
	check(g.SectionGap >= 0 && g.BlockGap >= 0, "块间距不能为负数")
	return err
}
