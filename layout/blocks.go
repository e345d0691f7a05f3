package layout

import "strings"

// BlockKind 标识报告块的类型。
type BlockKind int

const (
	KindSectionTitle BlockKind = iota
	KindKeyValue
	KindEyeGroup
	KindTwoColumnTable
	KindLinedBlock
)

func (k BlockKind) String() string {
	switch k {
	case KindSectionTitle:
		return "section"
	case KindKeyValue:
		return "key-value"
	case KindEyeGroup:
		return "eye-group"
	case KindTwoColumnTable:
		return "table"
	case KindLinedBlock:
		return "lined"
	default:
		return "unknown"
	}
}

// Block 是报告内容的一个单元。只有本包定义的类型实现它。
type Block interface {
	Kind() BlockKind
}

// SectionTitle 是带底色的章节标题栏。
type SectionTitle struct {
	Text string
}

// KeyValue 是一行“标签: 值”；值为空白或占位符时整块不绘制、不占空间。
type KeyValue struct {
	Label string
	Value string
}

// EyeGroup 是双眼对照：OD、OS 两列并排，OU 可选，位于下方整行。
type EyeGroup struct {
	Title string
	OD    string
	OS    string
	OU    string
}

// EyeRow 是 TwoColumnTable 的一行。
type EyeRow struct {
	Label string
	OD    string
	OS    string
}

// TwoColumnTable 是带边框的 Type | OD | OS 对照表。
// LabelRatio 是标签列占正文宽度的比例，<=0 时使用默认值。
type TwoColumnTable struct {
	Title      string
	LabelRatio float64
	Rows       []EyeRow
}

// LinedBlock 是固定高度的横线框，内容折行后叠加在横线上；超出部分照常绘制，不截断也不续排。
type LinedBlock struct {
	Title   string
	Content string
	Height  float64
}

func (SectionTitle) Kind() BlockKind   { return KindSectionTitle }
func (KeyValue) Kind() BlockKind       { return KindKeyValue }
func (EyeGroup) Kind() BlockKind       { return KindEyeGroup }
func (TwoColumnTable) Kind() BlockKind { return KindTwoColumnTable }
func (LinedBlock) Kind() BlockKind     { return KindLinedBlock }

// Document 是一次导出的完整输入：页眉文字、页脚文字与有序的报告块。
type Document struct {
	Title    string
	Subtitle string
	Footer   string
	Meta     DocumentMeta
	Blocks   []Block
}

var placeholderValues = []string{"select...", "select", "n/a", "-", "--", "—"}

// IsBlank 判断一个显示值是否应视为空：空串、纯空白或表单占位符。
func IsBlank(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return true
	}
	for _, p := range placeholderValues {
		if strings.EqualFold(v, p) {
			return true
		}
	}
	return false
}
