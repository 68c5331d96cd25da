package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"rag-search/internal/common/config"
)

func TestBuild_EmbedsContextVerbatim(t *testing.T) {
	context := "Title: A\n  spaced   text \n\nTitle: B\n"
	p := NewBuilder("", nil).Build(context, "  who founded Meta?  ")

	assert.True(t, strings.HasSuffix(p.Instruction, "Context:\n"+context))
	assert.True(t, strings.HasPrefix(p.Instruction, DefaultPreamble))
	assert.Equal(t, "who founded Meta?", p.Query)

	for _, d := range config.DefaultDirectives {
		assert.Contains(t, p.Instruction, "- "+d+"\n")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	b := NewBuilder("Preamble.", []string{"Be brief."})
	assert.Equal(t, b.Build("ctx", "q"), b.Build("ctx", "q"))
	assert.Equal(t, "Preamble.\n\nGuidelines:\n- Be brief.\n\nContext:\nctx", b.Build("ctx", "q").Instruction)
}

func TestNewBuilder_CopiesDirectives(t *testing.T) {
	directives := []string{"one"}
	b := NewBuilderFromConfig(config.PromptConfig{Directives: directives})
	directives[0] = "changed"

	assert.Contains(t, b.Build("", "q").Instruction, "- one\n")
}
