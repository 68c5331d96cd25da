package main

import (
	"context"
	"fmt"

	"rag-search/internal/assemble"
	"rag-search/internal/common/config"
	httpclient "rag-search/internal/common/http"
	"rag-search/internal/common/logger"
	"rag-search/internal/common/observability"
	"rag-search/internal/extract"
	"rag-search/internal/generate"
	"rag-search/internal/pipeline"
	"rag-search/internal/prompt"
	"rag-search/internal/search"
)

// buildPipeline constructs every stage from cfg. Per-call timeouts live in
// each stage's config, so the shared HTTP clients carry none.
func buildPipeline(ctx context.Context, cfg *config.Config, log logger.Logger, obs *observability.Observability) (*pipeline.Pipeline, error) {
	searchClient := httpclient.NewClient(0, cfg.App.Name+"/"+version)
	dispatcher := search.NewDispatcher(search.ConfigFrom(cfg.Search), searchClient, log)

	pageClient := httpclient.NewClient(0, cfg.Fetch.UserAgent)
	extractor := extract.NewExtractor(extract.ConfigFrom(cfg.Fetch), pageClient, log)
	assembler := assemble.NewAssembler(extractor, cfg.Fetch.MaxConcurrency, log)

	builder := prompt.NewBuilderFromConfig(cfg.Prompt)

	model, err := generate.NewGeminiModel(ctx, cfg.LLM.APIKey)
	if err != nil {
		return nil, fmt.Errorf("init llm: %w", err)
	}
	generator := generate.NewGenerator(model, generate.ParamsFrom(cfg.LLM), log)

	return pipeline.New(dispatcher, assembler, builder, generator, cfg.Search.TopK, log,
		pipeline.WithObservability(obs)), nil
}
