package layout

import "go.uber.org/zap"

// RenderOptions 配置排版阶段的可选依赖。
type RenderOptions struct {
	Style  Style
	Logger *zap.Logger
}

// Font 描述测量与绘制文本时使用的字体，Size 单位为 pt。
type Font struct {
	Family string  `json:"family"`
	Weight Weight  `json:"weight"`
	Size   float64 `json:"size"`
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行（宽度单位 mm）。
type Typesetter interface {
	LayoutLines(content string, width float64, font Font) ([]TextLine, error)
}
