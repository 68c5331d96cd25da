// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	apperrors "rag-search/internal/common/errors"
	"rag-search/internal/common/logger"
	"rag-search/internal/common/metrics"
	"rag-search/internal/common/observability"
	"rag-search/internal/models"
	"rag-search/internal/prompt"
)

const outcomeOK = "OK"

type Searcher interface {
	Dispatch(ctx context.Context, query string) ([]models.SearchResult, error)
}

type ContextAssembler interface {
	Assemble(ctx context.Context, results []models.SearchResult, k int) *models.AssembledContext
}

type PromptBuilder interface {
	Build(context, query string) prompt.Prompt
}

type AnswerGenerator interface {
	Generate(ctx context.Context, instruction, query string) (string, error)
}

// Pipeline runs search, assembly, prompt building and generation for one
// query. It keeps no per-query state between calls.
type Pipeline struct {
	searcher  Searcher
	assembler ContextAssembler
	builder   PromptBuilder
	generator AnswerGenerator
	topK      int
	obs       *observability.Observability
	logger    logger.Logger
}

type Option func(*Pipeline)

// WithObservability attaches tracing and OTel query metrics.
func WithObservability(obs *observability.Observability) Option {
	return func(p *Pipeline) { p.obs = obs }
}

func New(s Searcher, a ContextAssembler, b PromptBuilder, g AnswerGenerator, topK int, log logger.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		searcher:  s,
		assembler: a,
		builder:   b,
		generator: g,
		topK:      topK,
		logger:    log.With(map[string]interface{}{"component": "pipeline"}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Answer runs the full pipeline. Zero search results fail with NO_RESULTS.
func (p *Pipeline) Answer(ctx context.Context, query string) (resp *models.AnswerResponse, err error) {
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = WithRequestID(ctx, requestID)
	}
	log := p.logger.With(map[string]interface{}{"requestId": requestID})

	start := time.Now()
	metrics.QueriesActive.Inc()

	ctx, span := p.obs.StartSpan(ctx, "pipeline.answer", attribute.String("request.id", requestID))
	defer func() {
		metrics.QueriesActive.Dec()
		outcome := outcomeOK
		if err != nil {
			outcome = string(apperrors.Normalize(err).Code)
		}
		metrics.QueriesTotal.WithLabelValues(outcome).Inc()
		p.obs.RecordQuery(ctx, outcome, time.Since(start))
		observability.EndSpan(span, err)

		fields := map[string]interface{}{
			"outcome":    outcome,
			"durationMs": time.Since(start).Milliseconds(),
		}
		if err != nil {
			fields["error"] = err
			log.Warn("query failed", fields)
		} else {
			log.Info("query answered", fields)
		}
	}()

	log.Info("query received", map[string]interface{}{"query": query})

	var results []models.SearchResult
	err = p.stage(ctx, metrics.StageSearch, func(ctx context.Context) error {
		var serr error
		results, serr = p.searcher.Dispatch(ctx, query)
		return serr
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, apperrors.NewNoResultsError(query)
	}

	var assembled *models.AssembledContext
	_ = p.stage(ctx, metrics.StageAssemble, func(ctx context.Context) error {
		assembled = p.assembler.Assemble(ctx, results, p.topK)
		return nil
	})

	var pr prompt.Prompt
	_ = p.stage(ctx, metrics.StagePrompt, func(ctx context.Context) error {
		pr = p.builder.Build(assembled.Text(), query)
		return nil
	})

	var answer string
	err = p.stage(ctx, metrics.StageGenerate, func(ctx context.Context) error {
		var gerr error
		answer, gerr = p.generator.Generate(ctx, pr.Instruction, pr.Query)
		return gerr
	})
	if err != nil {
		return nil, err
	}

	return &models.AnswerResponse{Query: query, Answer: answer}, nil
}

// stage times fn and wraps it in a span.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	ctx, span := p.obs.StartSpan(ctx, "pipeline."+name)
	err := fn(ctx)
	metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	observability.EndSpan(span, err)
	return err
}
