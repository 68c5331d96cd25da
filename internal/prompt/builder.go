// internal/prompt/builder.go
package prompt

import (
	"strings"

	"rag-search/internal/common/config"
)

const DefaultPreamble = "You are a research assistant. Answer the user's question using the web context below."

// Prompt is what the generator receives: a system instruction seeding the
// session and the user message that triggers generation.
type Prompt struct {
	Instruction string
	Query       string
}

type Builder struct {
	preamble   string
	directives []string
}

func NewBuilder(preamble string, directives []string) *Builder {
	if strings.TrimSpace(preamble) == "" {
		preamble = DefaultPreamble
	}
	if len(directives) == 0 {
		directives = config.DefaultDirectives
	}
	return &Builder{
		preamble:   preamble,
		directives: append([]string(nil), directives...),
	}
}

func NewBuilderFromConfig(cfg config.PromptConfig) *Builder {
	return NewBuilder(cfg.Preamble, cfg.Directives)
}

// Build embeds context verbatim after the preamble and directives.
func (b *Builder) Build(context, query string) Prompt {
	var sb strings.Builder
	sb.WriteString(b.preamble)
	sb.WriteString("\n\nGuidelines:\n")
	for _, d := range b.directives {
		sb.WriteString("- ")
		sb.WriteString(d)
		sb.WriteString("\n")
	}
	sb.WriteString("\nContext:\n")
	sb.WriteString(context)

	return Prompt{
		Instruction: sb.String(),
		Query:       strings.TrimSpace(query),
	}
}
