package dsl

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:pt|mm|cm|in)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	templateParser = participle.MustBuild[Template](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Template is the root AST node of a case template file.
type Template struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name StringLiteral  `parser:"Newline* 'report' @String"`
	Body *Body          `parser:"Newline* @@ Newline*"`
}

// Body is a braced list of statements.
type Body struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement is one line of a template body.
type Statement struct {
	Meta    *MetaStmt    `parser:"  @@"`
	Section *SectionStmt `parser:"| @@"`
	Field   *FieldStmt   `parser:"| @@"`
	Eyes    *EyesStmt    `parser:"| @@"`
	Table   *TableStmt   `parser:"| @@"`
	Lined   *LinedStmt   `parser:"| @@"`
	When    *WhenStmt    `parser:"| @@"`
}

// Kind returns the human-readable statement type.
func (s *Statement) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return s.Meta.Key
	case s.Section != nil:
		return "section"
	case s.Field != nil:
		return "field"
	case s.Eyes != nil:
		return "eyes"
	case s.Table != nil:
		return "table"
	case s.Lined != nil:
		return "lined"
	case s.When != nil:
		return "when"
	default:
		return "unknown"
	}
}

// MetaStmt sets a document-level property, eg `footer "..."`.
type MetaStmt struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@( 'subtitle' | 'footer' | 'filename' | 'author' | 'subject' | 'keyword' )"`
	Value StringLiteral  `parser:"@String"`
}

// SectionStmt emits a section title bar.
type SectionStmt struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Text StringLiteral  `parser:"'section' @String"`
}

// FieldStmt emits a key/value line. A detail is appended to the value when
// the value equals the trigger (default "Yes").
type FieldStmt struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Label  StringLiteral  `parser:"'field' @String"`
	Value  StringLiteral  `parser:"@String"`
	Detail *Detail        `parser:"@@?"`
}

// Detail is the optional `detail "..." when "..."` suffix of a field.
type Detail struct {
	Value   StringLiteral `parser:"'detail' @String"`
	Trigger StringLiteral `parser:"( 'when' @String )?"`
}

// EyesStmt emits an OD/OS group with optional OU line.
type EyesStmt struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Title StringLiteral  `parser:"'eyes' @String"`
	Parts []*EyePart     `parser:"@@*"`
}

// EyePart is one `od "..."`, `os "..."` or `ou "..."` clause.
type EyePart struct {
	Eye   string        `parser:"@( 'od' | 'os' | 'ou' )"`
	Value StringLiteral `parser:"@String"`
}

// TableStmt emits a Type | OD | OS table.
type TableStmt struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Title StringLiteral  `parser:"'table' @String"`
	Ratio string         `parser:"( 'ratio' @Number )?"`
	Rows  []*RowStmt     `parser:"Newline* '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// RowStmt is `row "label" "od" "os"`.
type RowStmt struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Label StringLiteral  `parser:"'row' @String"`
	OD    StringLiteral  `parser:"@String"`
	OS    StringLiteral  `parser:"@String"`
}

// LinedStmt emits a ruled free-text box. Height accepts a unit suffix (mm/cm/pt/in).
type LinedStmt struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Title   StringLiteral  `parser:"'lined' @String"`
	Height  string         `parser:"( 'height' @Number )?"`
	Content StringLiteral  `parser:"@String"`
}

// WhenStmt includes its body only when the subject matches.
//
//	when "${cl.wearer}" is "Yes" { ... }
//	when "${cl.notes}" is not empty { ... }
type WhenStmt struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Subject StringLiteral  `parser:"'when' @String 'is'"`
	Negate  bool           `parser:"@'not'?"`
	Match   *Match         `parser:"@@"`
	Body    *Body          `parser:"Newline* @@"`
}

// Match is the right-hand side of a when condition.
type Match struct {
	Empty bool          `parser:"  @'empty'"`
	Value StringLiteral `parser:"| @String"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// String returns the unquoted value.
func (s StringLiteral) String() string { return string(s) }

// ParseBytes parses a template, reporting positions against filename.
func ParseBytes(filename string, data []byte) (*Template, error) {
	tpl, err := templateParser.ParseBytes(filename, data)
	if err != nil {
		return nil, fmt.Errorf("解析模板 %s 失败: %w", filename, err)
	}
	return tpl, nil
}
