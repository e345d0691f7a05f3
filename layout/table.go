package layout

import (
	"math"
	"strings"

	"go.uber.org/zap"
)

type tableRow struct {
	label, od, os []string
	height        float64
}

type tablePlan struct {
	title  string
	titleH float64
	labelW float64
	eyeW   float64
	rows   []tableRow
}

// colX 返回第 i 条竖线的横坐标，0..3 依次为左边框、标签列右侧、OD 列右侧、右边框。
func (p *tablePlan) colX(g Geometry, i int) float64 {
	switch i {
	case 0:
		return g.SideMargin
	case 1:
		return g.SideMargin + p.labelW
	case 2:
		return g.SideMargin + p.labelW + p.eyeW
	default:
		return g.SideMargin + g.ContentWidth()
	}
}

func labelRatio(r float64) float64 {
	if r <= 0 {
		return defaultLabelRatio
	}
	return math.Min(math.Max(r, minLabelRatio), maxLabelRatio)
}

func (e *engine) measureTable(t TwoColumnTable) *tablePlan {
	g := e.geo
	cw := g.ContentWidth()
	p := &tablePlan{title: strings.TrimSpace(t.Title)}
	if p.title != "" {
		p.titleH = g.LineHeight
	}
	p.labelW = cw * labelRatio(t.LabelRatio)
	p.eyeW = (cw - p.labelW) / 2

	inner := func(w float64) float64 { return w - 2*g.CellPadding }
	e.font(WeightNormal, e.style.SmallSize, e.style.Text)
	for _, row := range t.Rows {
		if IsBlank(row.OD) && IsBlank(row.OS) {
			continue
		}
		r := tableRow{
			label: e.wrap(row.Label, inner(p.labelW)),
			od:    e.wrap(displayValue(row.OD), inner(p.eyeW)),
			os:    e.wrap(displayValue(row.OS), inner(p.eyeW)),
		}
		n := max(len(r.label), len(r.od), len(r.os), 1)
		r.height = float64(n)*g.SmallLineHeight + 2*g.CellPadding
		p.rows = append(p.rows, r)
	}
	if len(p.rows) == 0 {
		return nil
	}
	return p
}

// placeTable 逐行排版表格：标题、表头与第一行作为整体预留，之后每行单独预留；
// 跨页时先封闭本页的竖线，再在新页重绘表头。没有可显示的行时返回 false。
func (e *engine) placeTable(t TwoColumnTable) bool {
	p := e.measureTable(t)
	if p == nil {
		return false
	}
	g := e.geo
	lead := p.titleH + g.TableHeaderHeight + p.rows[0].height
	if lead > g.ContentHeight()+epsilon {
		e.sum.Overflows++
		e.log.Debug("表格首行超出可用空间，按原样绘制", zap.Float64("height", lead))
	}
	e.ensureSpace(lead)

	if p.title != "" {
		e.canvas.DrawFilledRect(g.SideMargin, e.cur.y, g.ContentWidth(), p.titleH, e.style.TitleFill)
		e.font(WeightBold, e.style.BodySize, e.style.Text)
		e.text([]string{p.title}, g.SideMargin+g.CellPadding, e.cur.y, g.LineHeight, AlignLeft)
		e.cur.y += p.titleH
	}
	segTop := e.cur.y
	e.cur.y = e.drawTableHeader(p, e.cur.y)

	for i, row := range p.rows {
		if i > 0 && e.needsBreak(row.height) {
			e.closeTable(p, segTop, e.cur.y)
			e.pageBreak()
			segTop = e.cur.y
			e.cur.y = e.drawTableHeader(p, e.cur.y)
			if g.TableHeaderHeight+row.height > g.ContentHeight()+epsilon {
				e.sum.Overflows++
			}
		}
		e.drawTableRow(p, row, e.cur.y)
		e.cur.y += row.height
		e.canvas.SetDrawColor(e.style.Rule)
		e.canvas.DrawLine(g.SideMargin, e.cur.y, g.SideMargin+g.ContentWidth(), e.cur.y)
	}
	e.closeTable(p, segTop, e.cur.y)
	e.gap = g.BlockGap
	e.sum.Blocks++
	return true
}

func (e *engine) drawTableHeader(p *tablePlan, y float64) float64 {
	g := e.geo
	cw := g.ContentWidth()
	e.canvas.DrawFilledRect(g.SideMargin, y, cw, g.TableHeaderHeight, e.style.HeaderFill)
	e.canvas.SetDrawColor(e.style.Rule)
	e.canvas.DrawLine(g.SideMargin, y, g.SideMargin+cw, y)
	e.canvas.DrawLine(g.SideMargin, y+g.TableHeaderHeight, g.SideMargin+cw, y+g.TableHeaderHeight)

	e.font(WeightBold, e.style.SmallSize, e.style.Text)
	ty := y + (g.TableHeaderHeight-g.SmallLineHeight)/2
	for i, heading := range tableHeadings {
		e.canvas.DrawText([]string{heading}, p.colX(g, i)+g.CellPadding, ty, g.SmallLineHeight, AlignLeft)
	}
	return y + g.TableHeaderHeight
}

func (e *engine) drawTableRow(p *tablePlan, r tableRow, y float64) {
	g := e.geo
	top := y + g.CellPadding
	e.font(WeightNormal, e.style.SmallSize, e.style.Text)
	e.text(r.label, p.colX(g, 0)+g.CellPadding, top, g.SmallLineHeight, AlignLeft)
	e.text(r.od, p.colX(g, 1)+g.CellPadding, top, g.SmallLineHeight, AlignLeft)
	e.text(r.os, p.colX(g, 2)+g.CellPadding, top, g.SmallLineHeight, AlignLeft)
}

// closeTable 为当前页上的表格片段画出四条竖线。
func (e *engine) closeTable(p *tablePlan, top, bottom float64) {
	g := e.geo
	e.canvas.SetDrawColor(e.style.Rule)
	for i := 0; i < 4; i++ {
		x := p.colX(g, i)
		e.canvas.DrawLine(x, top, x, bottom)
	}
}
