package dsl_test

import (
	"strings"
	"testing"

	"github.com/Shivashangarim20/caseX-PDF-sub000/dsl"
)

const sampleTemplate = `
// contact lens follow-up
report "Contact Lens Evaluation" {
  subtitle "Optometry Case Record"
  footer "Eye Clinic"; filename "contact-lens-${patient.name}"

  section "Patient"
  field "Name" "${patient.name}"
  field "Allergies" "${history.allergies}" detail "${history.allergy_details}" when "Yes"
  field "Medication" "${history.meds}" detail "${history.meds_details}"

  eyes "Visual Acuity" od "${va.od}" os "${va.os}" ou "${va.ou}"

  table "Keratometry" ratio 0.4 {
    row "K1" "${k.od.k1}" "${k.os.k1}"
    row "K2" "${k.od.k2}" "${k.os.k2}"
  }

  # free text
  lined "Assessment" height 30mm "${assessment}"

  when "${cl.wearer}" is "Yes" {
    field "Lens type" "${cl.type}"
  }
  when "${cl.notes}" is not empty {
    lined "Notes" "${cl.notes}"
  }
}
`

func TestParseTemplate(t *testing.T) {
	tpl, err := dsl.ParseBytes("test.case", []byte(sampleTemplate))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if tpl.Name != "Contact Lens Evaluation" {
		t.Fatalf("unexpected template name %q", tpl.Name)
	}

	kinds := make([]string, 0, len(tpl.Body.Statements))
	for _, st := range tpl.Body.Statements {
		kinds = append(kinds, st.Kind())
	}
	want := "subtitle footer filename section field field field eyes table lined when when"
	if got := strings.Join(kinds, " "); got != want {
		t.Fatalf("unexpected statements:\n got: %s\nwant: %s", got, want)
	}

	allergies := tpl.Body.Statements[5].Field
	if allergies.Detail == nil || allergies.Detail.Trigger != "Yes" {
		t.Fatalf("expected detail with trigger, got %+v", allergies.Detail)
	}
	meds := tpl.Body.Statements[6].Field
	if meds.Detail == nil || meds.Detail.Trigger != "" {
		t.Fatalf("expected detail without trigger, got %+v", meds.Detail)
	}

	eyes := tpl.Body.Statements[7].Eyes
	if len(eyes.Parts) != 3 || eyes.Parts[2].Eye != "ou" || eyes.Parts[2].Value != "${va.ou}" {
		t.Fatalf("unexpected eye parts: %+v", eyes.Parts)
	}

	table := tpl.Body.Statements[8].Table
	if table.Ratio != "0.4" || len(table.Rows) != 2 {
		t.Fatalf("unexpected table: ratio=%q rows=%d", table.Ratio, len(table.Rows))
	}
	if table.Rows[1].OS != "${k.os.k2}" {
		t.Fatalf("unexpected row: %+v", table.Rows[1])
	}

	lined := tpl.Body.Statements[9].Lined
	if lined.Height != "30mm" || lined.Content != "${assessment}" {
		t.Fatalf("unexpected lined block: %+v", lined)
	}

	wearer := tpl.Body.Statements[10].When
	if wearer.Negate || wearer.Match.Empty || wearer.Match.Value != "Yes" {
		t.Fatalf("unexpected when: %+v %+v", wearer, wearer.Match)
	}
	if len(wearer.Body.Statements) != 1 || wearer.Body.Statements[0].Field == nil {
		t.Fatalf("when body missing field")
	}
	notes := tpl.Body.Statements[11].When
	if !notes.Negate || !notes.Match.Empty {
		t.Fatalf("expected negated empty match, got %+v %+v", notes, notes.Match)
	}
}

func TestParseReportsPosition(t *testing.T) {
	_, err := dsl.ParseBytes("broken.case", []byte("report \"X\" {\n  field \"only label\"\n}\n"))
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "broken.case:2") {
		t.Fatalf("expected position in error, got %v", err)
	}
}

func TestStringEscapes(t *testing.T) {
	tpl, err := dsl.ParseBytes("test.case", []byte(`report "A \"quoted\" name" { section "Tab\there" }`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if tpl.Name != `A "quoted" name` {
		t.Fatalf("unexpected name %q", tpl.Name)
	}
	if got := tpl.Body.Statements[0].Section.Text.String(); got != "Tab\there" {
		t.Fatalf("unexpected section text %q", got)
	}
}
