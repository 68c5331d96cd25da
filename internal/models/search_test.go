package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembledContext_Text(t *testing.T) {
	ctx := &AssembledContext{Blocks: []ContextBlock{
		{Heading: "One", Body: "first body"},
		{Heading: "Two", Body: ""},
		{Heading: "Three", Body: "a\nb"},
	}}

	assert.Equal(t, "Title: One\nfirst body\n\nTitle: Two\n\n\nTitle: Three\na\nb", ctx.Text())
}

func TestAssembledContext_TextEmpty(t *testing.T) {
	var nilCtx *AssembledContext
	assert.Equal(t, "", nilCtx.Text())
	assert.Equal(t, "", (&AssembledContext{}).Text())
}
