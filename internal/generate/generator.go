// internal/generate/generator.go
package generate

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "rag-search/internal/common/errors"
	"rag-search/internal/common/logger"
)

var errEmptyAnswer = errors.New("model returned no text")

// Model is the LLM collaborator: one session seeded with instruction,
// one user message, one text reply.
type Model interface {
	Generate(ctx context.Context, params Params, instruction, query string) (string, error)
}

type Generator struct {
	model  Model
	params Params
	logger logger.Logger
}

func NewGenerator(model Model, params Params, log logger.Logger) *Generator {
	return &Generator{
		model:  model,
		params: params,
		logger: log.With(map[string]interface{}{
			"component": "generate",
			"model":     params.Model,
		}),
	}
}

func (g *Generator) Params() Params {
	return g.params
}

// Generate returns the model's text unchanged. It makes exactly one call;
// failures and blank replies surface as GENERATION_UNAVAILABLE, or
// GENERATION_TIMEOUT when the configured timeout elapsed.
func (g *Generator) Generate(ctx context.Context, instruction, query string) (string, error) {
	if g.params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.params.Timeout)
		defer cancel()
	}

	start := time.Now()
	answer, err := g.model.Generate(ctx, g.params, instruction, query)
	if err == nil && strings.TrimSpace(answer) == "" {
		err = errEmptyAnswer
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && g.params.Timeout > 0 {
			err = apperrors.NewGenerationTimeoutError(g.params.Timeout)
		} else {
			err = apperrors.NewGenerationUnavailableError(err)
		}
		g.logger.Error("generation failed", map[string]interface{}{
			"error":      err,
			"durationMs": time.Since(start).Milliseconds(),
		})
		return "", err
	}

	g.logger.Debug("answer generated", map[string]interface{}{
		"instructionChars": len(instruction),
		"answerChars":      len(answer),
		"durationMs":       time.Since(start).Milliseconds(),
	})
	return answer, nil
}
