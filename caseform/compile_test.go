package caseform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivashangarim20/caseX-PDF-sub000/dsl"
	"github.com/Shivashangarim20/caseX-PDF-sub000/layout"
)

const tpl = `
report "Contact Lens Evaluation" {
  subtitle "Patient: ${patient.name}"
  footer "Eye Clinic"
  filename "contact-lens-${patient.name}"
  keyword "contact-lens"
  section "History"
  field "Allergies" "${history.allergies}" detail "${history.allergy_details}"
  field "Surgery" "${history.surgery}" detail "${history.surgery_details}"
  field "Phone" "${patient.phone}"
  eyes "VA" od "${va.od}" os "${va.os}"
  table "K" ratio 0.3 {
    row "K1" "${k.od}" "${k.os}"
  }
  lined "Plan" height 3cm "${plan}"
  when "${cl.wearer}" is "yes" {
    field "Lens" "${cl.type}"
  }
  when "${cl.wearer}" is not "Yes" {
    section "Spectacles"
  }
  when "${cl.notes}" is empty {
    field "Notes" "none recorded"
  }
}
`

func record() map[string]any {
	return map[string]any{
		"patient": map[string]any{"name": "Asha Rao"},
		"history": map[string]any{
			"allergies":       true,
			"allergy_details": "pollen",
			"surgery":         "No",
			"surgery_details": "LASIK",
		},
		"va":   map[string]any{"od": "6/6", "os": "6/9"},
		"k":    map[string]any{"od": 42.25, "os": 42.5},
		"plan": "Refit in two weeks",
		"cl":   map[string]any{"wearer": "Yes", "type": "Toric"},
	}
}

func compile(t *testing.T, src string, rec map[string]any) *Compiled {
	t.Helper()
	parsed, err := dsl.ParseBytes("test.case", []byte(src))
	require.NoError(t, err)
	out, err := Compile(parsed, rec)
	require.NoError(t, err)
	return out
}

func TestCompileBuildsBlocks(t *testing.T) {
	out := compile(t, tpl, record())
	doc := out.Document

	assert.Equal(t, "Contact Lens Evaluation", doc.Title)
	assert.Equal(t, "Patient: Asha Rao", doc.Subtitle)
	assert.Equal(t, "Eye Clinic", doc.Footer)
	assert.Equal(t, "contact-lens-Asha Rao", out.Filename)
	assert.Equal(t, []string{"contact-lens"}, doc.Meta.Keywords)
	assert.Equal(t, doc.Title, doc.Meta.Title)

	want := []layout.Block{
		layout.SectionTitle{Text: "History"},
		layout.KeyValue{Label: "Allergies", Value: "Yes: pollen"},
		layout.KeyValue{Label: "Surgery", Value: "No"},
		layout.KeyValue{Label: "Phone", Value: ""},
		layout.EyeGroup{Title: "VA", OD: "6/6", OS: "6/9"},
		layout.TwoColumnTable{Title: "K", LabelRatio: 0.3, Rows: []layout.EyeRow{{Label: "K1", OD: "42.25", OS: "42.5"}}},
		layout.LinedBlock{Title: "Plan", Content: "Refit in two weeks", Height: 30},
		layout.KeyValue{Label: "Lens", Value: "Toric"},
		layout.KeyValue{Label: "Notes", Value: "none recorded"},
	}
	require.Len(t, doc.Blocks, len(want))
	for i := range want {
		if lb, ok := doc.Blocks[i].(layout.LinedBlock); ok {
			assert.InDelta(t, 30, lb.Height, 1e-9)
			lb.Height = 30
			doc.Blocks[i] = lb
		}
		assert.Equal(t, want[i], doc.Blocks[i], "block %d", i)
	}
	assert.Equal(t, []string{"patient.phone", "cl.notes"}, out.Unresolved)
}

func TestWhenNegationShowsAlternative(t *testing.T) {
	rec := record()
	rec["cl"] = map[string]any{"wearer": "No", "notes": "dry by evening"}

	out := compile(t, tpl, rec)

	var sections, lens, notes int
	for _, b := range out.Document.Blocks {
		switch v := b.(type) {
		case layout.SectionTitle:
			if v.Text == "Spectacles" {
				sections++
			}
		case layout.KeyValue:
			if v.Label == "Lens" {
				lens++
			}
			if v.Label == "Notes" {
				notes++
			}
		}
	}
	assert.Equal(t, 1, sections)
	assert.Zero(t, lens)
	assert.Zero(t, notes)
}

func TestCompileCollectsTemplateErrors(t *testing.T) {
	parsed, err := dsl.ParseBytes("bad.case", []byte(`report "Bad" {
  table "T" ratio 1.5 { row "a" "b" "c" }
  lined "L" height 0mm "x"
}`))
	require.NoError(t, err)
	_, err = Compile(parsed, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "比例")
	assert.ErrorContains(t, err, "高度")
}

func TestWithDetail(t *testing.T) {
	assert.Equal(t, "Yes: daily", WithDetail("Yes", "daily", "Yes"))
	assert.Equal(t, "yes: daily", WithDetail(" yes ", "daily", "Yes"))
	assert.Equal(t, "Yes", WithDetail("Yes", "N/A", "Yes"))
	assert.Equal(t, "No", WithDetail("No", "daily", "Yes"))
	assert.Equal(t, "Abnormal: preterm", WithDetail("Abnormal", "preterm", "Abnormal"))
}

func TestLoadRecordFormats(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "case.json")
	yamlPath := filepath.Join(dir, "case.yaml")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"patient":{"name":"Ann","age":7}}`), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte("patient:\n  name: Ann\n  age: 7\nvisits:\n  - 1: first\n"), 0o644))

	fromJSON, err := LoadRecord(jsonPath)
	require.NoError(t, err)
	fromYAML, err := LoadRecord(yamlPath)
	require.NoError(t, err)

	assert.Equal(t, fromJSON["patient"], fromYAML["patient"])
	visits := fromYAML["visits"].([]any)
	assert.Equal(t, map[string]any{"1": "first"}, visits[0])

	_, err = LoadRecord(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[1,2]`), 0o644))
	_, err = LoadRecord(jsonPath)
	assert.Error(t, err)
}

func TestCompileKeepsLiteralText(t *testing.T) {
	parsed, err := dsl.ParseBytes("literal.case", []byte(`report "  Fees  " {
  field "Consultation" " $45 flat "
  field "Referral" "${referral.to}"
}`))
	require.NoError(t, err)

	out, err := Compile(parsed, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "Fees", out.Document.Title)
	require.Len(t, out.Document.Blocks, 2)
	assert.Equal(t, layout.KeyValue{Label: "Consultation", Value: "$45 flat"}, out.Document.Blocks[0])
	assert.Equal(t, []string{"referral.to"}, out.Unresolved)
}
