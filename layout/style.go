package layout

// Style 是报告的视觉模板：字体、字号（pt）与配色。
type Style struct {
	FontFamily string

	TitleSize    float64
	SubtitleSize float64
	SectionSize  float64
	BodySize     float64
	SmallSize    float64
	FooterSize   float64

	Accent      Color // 页眉标题、章节栏底色
	SectionText Color
	Text        Color
	Muted       Color // 副标题、页脚
	Rule        Color // 分隔线、表格边框
	HeaderFill  Color // 表头底色
	TitleFill   Color // 表格标题栏底色
	RuledLine   Color // 横线框内的横线
}

// DefaultStyle 返回默认视觉模板。
func DefaultStyle() Style {
	return Style{
		FontFamily:   "helvetica",
		TitleSize:    15,
		SubtitleSize: 10,
		SectionSize:  11,
		BodySize:     10,
		SmallSize:    9,
		FooterSize:   8,

		Accent:      Color{R: 31, G: 78, B: 121},
		SectionText: Color{R: 255, G: 255, B: 255},
		Text:        Color{R: 30, G: 30, B: 30},
		Muted:       Color{R: 110, G: 110, B: 110},
		Rule:        Color{R: 160, G: 160, B: 160},
		HeaderFill:  Color{R: 235, G: 235, B: 235},
		TitleFill:   Color{R: 232, G: 239, B: 247},
		RuledLine:   Color{R: 205, G: 215, B: 230},
	}
}

func (s Style) withDefaults() Style {
	d := DefaultStyle()
	if s.FontFamily == "" {
		return d
	}
	if s.TitleFill == (Color{}) {
		s.TitleFill = d.TitleFill
	}
	return s
}
