package layout

import (
	"math"
	"strings"
)

func (e *engine) measureSection(s SectionTitle) *measured {
	if IsBlank(s.Text) {
		return nil
	}
	text := strings.TrimSpace(s.Text)
	g := e.geo
	return &measured{
		kind:   KindSectionTitle,
		height: g.SectionBarHeight + g.SectionGap,
		draw: func(y float64) float64 {
			e.canvas.DrawFilledRect(g.SideMargin, y, g.ContentWidth(), g.SectionBarHeight, e.style.Accent)
			e.font(WeightBold, e.style.SectionSize, e.style.SectionText)
			ty := y + (g.SectionBarHeight-g.LineHeight)/2
			e.canvas.DrawText([]string{text}, g.SideMargin+g.ContentWidth()/2, ty, g.LineHeight, AlignCenter)
			return g.SectionBarHeight + g.SectionGap
		},
	}
}

func labelText(label string) string {
	label = strings.TrimSpace(label)
	if label == "" || strings.HasSuffix(label, ":") {
		return label
	}
	return label + ":"
}

func (e *engine) measureKeyValue(kv KeyValue) *measured {
	if IsBlank(kv.Value) {
		return nil
	}
	g := e.geo
	valueX := g.SideMargin + g.LabelWidth + g.ColumnGap
	valueW := g.ContentWidth() - g.LabelWidth - g.ColumnGap

	e.font(WeightBold, e.style.BodySize, e.style.Text)
	label := e.wrap(labelText(kv.Label), g.LabelWidth)
	e.font(WeightNormal, e.style.BodySize, e.style.Text)
	value := e.wrap(kv.Value, valueW)

	rows := max(len(label), len(value), 1)
	return &measured{
		kind:   KindKeyValue,
		height: float64(rows)*g.LineHeight + g.Padding,
		draw: func(y float64) float64 {
			top := y + g.Padding/2
			e.font(WeightBold, e.style.BodySize, e.style.Text)
			lh := e.text(label, g.SideMargin, top, g.LineHeight, AlignLeft)
			e.font(WeightNormal, e.style.BodySize, e.style.Text)
			vh := e.text(value, valueX, top, g.LineHeight, AlignLeft)
			return math.Max(math.Max(lh, vh), g.LineHeight) + g.Padding
		},
	}
}

func displayValue(v string) string {
	if IsBlank(v) {
		return "-"
	}
	return strings.TrimSpace(v)
}

func (e *engine) measureEyeGroup(eg EyeGroup) *measured {
	if IsBlank(eg.OD) && IsBlank(eg.OS) && IsBlank(eg.OU) {
		return nil
	}
	g := e.geo
	cw := g.ContentWidth()
	colW := (cw - g.ColumnGap) / 2

	title := strings.TrimSpace(eg.Title)
	titleH := 0.0
	if title != "" {
		titleH = g.LineHeight
	}
	e.font(WeightNormal, e.style.BodySize, e.style.Text)
	od := e.wrap("OD: "+displayValue(eg.OD), colW)
	os := e.wrap("OS: "+displayValue(eg.OS), colW)
	var ou []string
	if !IsBlank(eg.OU) {
		ou = e.wrap("OU: "+displayValue(eg.OU), cw)
	}
	pairH := float64(max(len(od), len(os))) * g.LineHeight
	ouH := float64(len(ou)) * g.LineHeight

	return &measured{
		kind:   KindEyeGroup,
		height: titleH + pairH + ouH + g.Padding,
		gap:    g.BlockGap,
		draw: func(y float64) float64 {
			cy := y + g.Padding/2
			if title != "" {
				e.font(WeightBold, e.style.BodySize, e.style.Text)
				cy += e.text([]string{title}, g.SideMargin, cy, g.LineHeight, AlignLeft)
			}
			e.font(WeightNormal, e.style.BodySize, e.style.Text)
			left := e.text(od, g.SideMargin, cy, g.LineHeight, AlignLeft)
			right := e.text(os, g.SideMargin+colW+g.ColumnGap, cy, g.LineHeight, AlignLeft)
			cy += math.Max(left, right)
			cy += e.text(ou, g.SideMargin, cy, g.LineHeight, AlignLeft)
			return cy - y + g.Padding/2
		},
	}
}

func (e *engine) measureLined(lb LinedBlock) *measured {
	g := e.geo
	cw := g.ContentWidth()
	boxH := lb.Height
	if boxH <= 0 {
		boxH = defaultRuledLines * g.RuleGap
	}
	title := strings.TrimSpace(lb.Title)
	titleH := 0.0
	if title != "" {
		titleH = g.LineHeight
	}
	var lines []string
	if !IsBlank(lb.Content) {
		e.font(WeightNormal, e.style.BodySize, e.style.Text)
		lines = e.wrap(lb.Content, cw-2*g.Padding)
	}

	return &measured{
		kind:     KindLinedBlock,
		height:   titleH + boxH,
		gap:      g.BlockGap,
		overflow: float64(len(lines))*g.RuleGap > boxH+epsilon,
		draw: func(y float64) float64 {
			if title != "" {
				e.font(WeightBold, e.style.BodySize, e.style.Text)
				e.text([]string{title}, g.SideMargin, y, g.LineHeight, AlignLeft)
			}
			top := y + titleH
			e.canvas.SetDrawColor(e.style.Rule)
			e.canvas.DrawRect(g.SideMargin, top, cw, boxH)
			e.canvas.SetDrawColor(e.style.RuledLine)
			for i := 1; float64(i)*g.RuleGap < boxH-epsilon; i++ {
				ly := top + float64(i)*g.RuleGap
				e.canvas.DrawLine(g.SideMargin, ly, g.SideMargin+cw, ly)
			}
			e.canvas.SetDrawColor(e.style.Rule)
			// 每行文字占据相邻两条横线之间的一格，超出框高的行照常向下绘制。
			e.font(WeightNormal, e.style.BodySize, e.style.Text)
			e.text(lines, g.SideMargin+g.Padding, top, g.RuleGap, AlignLeft)
			return titleH + boxH
		},
	}
}
