// Package caseform 把病例模板与病例记录编译为排版引擎使用的报告块序列。
// 记录只被读取；可见性规则（when）是记录的纯函数，在生成块之前求值。
package caseform

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/Shivashangarim20/caseX-PDF-sub000/binding"
	"github.com/Shivashangarim20/caseX-PDF-sub000/dsl"
	"github.com/Shivashangarim20/caseX-PDF-sub000/layout"
)

// DefaultTrigger 是 detail 未指定 when 时的触发值。
const DefaultTrigger = "Yes"

// Compiled 是编译结果。
type Compiled struct {
	Document *layout.Document
	// Filename 是插值后的文件名模式，尚未转换为安全文件名。
	Filename string
	// Unresolved 列出记录中不存在的路径，按首次出现排序。
	Unresolved []string
}

type compiler struct {
	record  map[string]any
	doc     *layout.Document
	file    string
	missing []string
	seen    map[string]bool
	err     error
}

// Compile 对模板求值。只有模板本身的参数错误（比例、高度）会返回错误，缺失的数据按空值处理。
func Compile(tpl *dsl.Template, record map[string]any) (*Compiled, error) {
	if tpl == nil || tpl.Body == nil {
		return nil, fmt.Errorf("模板为空")
	}
	c := &compiler{
		record: record,
		doc:    &layout.Document{},
		seen:   map[string]bool{},
	}
	c.doc.Title = c.text(string(tpl.Name))
	c.doc.Meta.Title = c.doc.Title
	c.statements(tpl.Body.Statements)
	if c.err != nil {
		return nil, c.err
	}
	return &Compiled{Document: c.doc, Filename: c.file, Unresolved: c.missing}, nil
}

func (c *compiler) text(s string) string {
	if !binding.HasPlaceholder(s) {
		return strings.TrimSpace(s)
	}
	for _, p := range binding.Missing(s, c.record) {
		if !c.seen[p] {
			c.seen[p] = true
			c.missing = append(c.missing, p)
		}
	}
	return strings.TrimSpace(binding.Interpolate(s, c.record))
}

func (c *compiler) fail(pos fmt.Stringer, format string, args ...any) {
	c.err = multierr.Append(c.err, fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...)))
}

func (c *compiler) statements(stmts []*dsl.Statement) {
	for _, st := range stmts {
		switch {
		case st.Meta != nil:
			c.meta(st.Meta)
		case st.Section != nil:
			c.emit(layout.SectionTitle{Text: c.text(string(st.Section.Text))})
		case st.Field != nil:
			c.field(st.Field)
		case st.Eyes != nil:
			c.eyes(st.Eyes)
		case st.Table != nil:
			c.table(st.Table)
		case st.Lined != nil:
			c.lined(st.Lined)
		case st.When != nil:
			if c.visible(st.When) {
				c.statements(st.When.Body.Statements)
			}
		}
	}
}

func (c *compiler) emit(b layout.Block) { c.doc.Blocks = append(c.doc.Blocks, b) }

func (c *compiler) meta(m *dsl.MetaStmt) {
	v := c.text(string(m.Value))
	switch m.Key {
	case "subtitle":
		c.doc.Subtitle = v
	case "footer":
		c.doc.Footer = v
	case "filename":
		c.file = v
	case "author":
		c.doc.Meta.Author = v
	case "subject":
		c.doc.Meta.Subject = v
	case "keyword":
		if v != "" {
			c.doc.Meta.Keywords = append(c.doc.Meta.Keywords, v)
		}
	}
}

func (c *compiler) field(f *dsl.FieldStmt) {
	value := c.text(string(f.Value))
	if f.Detail != nil {
		trigger := string(f.Detail.Trigger)
		if trigger == "" {
			trigger = DefaultTrigger
		}
		value = WithDetail(value, c.text(string(f.Detail.Value)), trigger)
	}
	c.emit(layout.KeyValue{Label: c.text(string(f.Label)), Value: value})
}

// WithDetail 在值等于触发值且详情非空时返回 "值: 详情"，否则原样返回值。
func WithDetail(value, detail, trigger string) string {
	if !strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(trigger)) || layout.IsBlank(detail) {
		return value
	}
	return strings.TrimSpace(value) + ": " + strings.TrimSpace(detail)
}

func (c *compiler) eyes(e *dsl.EyesStmt) {
	g := layout.EyeGroup{Title: c.text(string(e.Title))}
	for _, p := range e.Parts {
		v := c.text(string(p.Value))
		switch p.Eye {
		case "od":
			g.OD = v
		case "os":
			g.OS = v
		case "ou":
			g.OU = v
		}
	}
	c.emit(g)
}

func (c *compiler) table(t *dsl.TableStmt) {
	tbl := layout.TwoColumnTable{Title: c.text(string(t.Title))}
	if t.Ratio != "" {
		ratio, err := strconv.ParseFloat(t.Ratio, 64)
		if err != nil || ratio <= 0 || ratio >= 1 {
			c.fail(t.Pos, "表格 %q 的标签列比例 %s 必须在 0 与 1 之间", tbl.Title, t.Ratio)
		} else {
			tbl.LabelRatio = ratio
		}
	}
	for _, r := range t.Rows {
		tbl.Rows = append(tbl.Rows, layout.EyeRow{
			Label: c.text(string(r.Label)),
			OD:    c.text(string(r.OD)),
			OS:    c.text(string(r.OS)),
		})
	}
	c.emit(tbl)
}

func (c *compiler) lined(l *dsl.LinedStmt) {
	block := layout.LinedBlock{Title: c.text(string(l.Title)), Content: c.text(string(l.Content))}
	if l.Height != "" {
		length, err := layout.ParseLength(l.Height)
		switch {
		case err != nil:
			c.fail(l.Pos, "横线框 %q 的高度无效: %v", block.Title, err)
		case length.ToMM() <= 0:
			c.fail(l.Pos, "横线框 %q 的高度必须为正数: %s", block.Title, length)
		default:
			block.Height = length.ToMM()
		}
	}
	c.emit(block)
}

func (c *compiler) visible(w *dsl.WhenStmt) bool {
	subject := c.text(string(w.Subject))
	var ok bool
	if w.Match.Empty {
		ok = layout.IsBlank(subject)
	} else {
		ok = strings.EqualFold(subject, c.text(string(w.Match.Value)))
	}
	if w.Negate {
		return !ok
	}
	return ok
}
