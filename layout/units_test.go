package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pt→mm→pt 往返误差应在浮点精度之内。
func TestPtMmRoundTrip(t *testing.T) {
	for _, pt := range []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000} {
		back := pt * PtToMm * MmToPt
		assert.InDelta(t, pt, back, 1e-9, "%gpt", pt)
	}
}

func TestLengthToConversions(t *testing.T) {
	assert.InDelta(t, 25.4, Length{Value: 1, Unit: UnitIN}.ToMM(), 1e-9)
	assert.InDelta(t, 25.4, Length{Value: 2.54, Unit: UnitCM}.ToMM(), 1e-9)

	pt := Length{Value: 12, Unit: UnitPT}
	assert.InDelta(t, 12*PtToMm, pt.ToMM(), 1e-9)
	assert.Equal(t, 12.0, pt.ToPT())

	assert.InDelta(t, 10*MmToPt, Length{Value: 10, Unit: UnitMM}.ToPT(), 1e-9)
	// 无单位数值按 mm 处理。
	assert.Equal(t, 30.0, Length{Value: 30, Unit: UnitNone}.ToMM())
}

func TestParseLength(t *testing.T) {
	cases := map[string]float64{
		"30mm":   30,
		"3cm":    30,
		" 30 ":   30,
		"1in":    25.4,
		"72pt":   72 * PtToMm,
		"12.5MM": 12.5,
	}
	for in, want := range cases {
		l, err := ParseLength(in)
		require.NoError(t, err, "%q", in)
		assert.InDelta(t, want, l.ToMM(), 1e-6, "%q", in)
	}
	for _, bad := range []string{"", "mm", "abc", "1..2cm"} {
		_, err := ParseLength(bad)
		assert.Error(t, err, "%q", bad)
	}
}

func TestLengthString(t *testing.T) {
	assert.Equal(t, "1.5cm", Length{Value: 1.5, Unit: UnitCM}.String())
	assert.Equal(t, "30", Length{Value: 30}.String())
}
