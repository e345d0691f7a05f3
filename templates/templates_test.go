package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivashangarim20/caseX-PDF-sub000/dsl"
)

func TestListIsSortedAndComplete(t *testing.T) {
	names := List()
	assert.Equal(t, []string{"binocular-vision", "contact-lens", "dry-eye", "low-vision", "pediatric"}, names)
}

func TestBuiltinTemplatesParse(t *testing.T) {
	for _, name := range List() {
		src, err := Source(name)
		require.NoError(t, err, name)
		tpl, err := dsl.ParseBytes(name+ext, src)
		require.NoError(t, err, name)
		assert.NotEmpty(t, tpl.Name, name)
		assert.NotEmpty(t, tpl.Body.Statements, name)
	}
}

func TestHasAndSourceAcceptVariants(t *testing.T) {
	assert.True(t, Has("dry-eye"))
	assert.True(t, Has("builtin:dry-eye.case"))
	assert.False(t, Has("glaucoma"))

	_, err := Source("glaucoma")
	assert.Error(t, err)
}
