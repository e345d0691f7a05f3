package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func record() map[string]any {
	return map[string]any{
		"patient": map[string]any{
			"name": "Asha Rao",
			"age":  float64(7),
		},
		"history": map[string]any{
			"amblyopia": true,
			"surgery":   false,
			"allergies": []any{"pollen", "", "dust"},
		},
		"visits": []any{
			map[string]any{"date": "2024-03-01"},
			map[string]any{"date": "2024-06-12", "cyl": -0.75},
		},
		"notes": nil,
	}
}

func TestInterpolate(t *testing.T) {
	data := record()
	cases := map[string]string{
		"Patient: ${patient.name} (${ patient.age })": "Patient: Asha Rao (7)",
		"${history.amblyopia}/${history.surgery}":     "Yes/No",
		"${history.allergies}":                        "pollen, dust",
		"${visits[1].date} ${visits[1].cyl}":          "2024-06-12 -0.75",
		"[${patient.missing}]":                        "[]",
		"[${notes}]":                                  "[]",
		"${visits[5].date}":                           "",
		"no placeholders":                             "no placeholders",
	}
	for in, want := range cases {
		assert.Equal(t, want, Interpolate(in, data), in)
	}
}

func TestInterpolateWithoutData(t *testing.T) {
	assert.Equal(t, "Name: ", Interpolate("Name: ${patient.name}", nil))
}

func TestMissing(t *testing.T) {
	got := Missing("${patient.name} ${patient.phone} ${patient.phone} ${notes} ${x[0]}", record())
	assert.Equal(t, []string{"patient.phone", "x[0]"}, got)
}

func TestLookupYAMLStyleMaps(t *testing.T) {
	data := map[any]any{"lens": map[any]any{"brand": "Acuvue"}}
	val, ok := Lookup(data, "lens.brand")
	assert.True(t, ok)
	assert.Equal(t, "Acuvue", val)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "42", Format(42))
	assert.Equal(t, "1.5", Format(1.5))
	assert.Equal(t, "a, b", Format([]string{"a", " ", "b"}))
}

func TestHasPlaceholder(t *testing.T) {
	assert.True(t, HasPlaceholder("x ${a}"))
	assert.False(t, HasPlaceholder("x $a"))
}
