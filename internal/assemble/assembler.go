// internal/assemble/assembler.go
package assemble

import (
	"context"

	"golang.org/x/sync/errgroup"

	"rag-search/internal/common/logger"
	"rag-search/internal/extract"
	"rag-search/internal/models"
)

const defaultMaxConcurrency = 3

type ContentExtractor interface {
	Extract(ctx context.Context, url string) *extract.Content
}

// Assembler fetches the top results concurrently and lays them out as
// ordered "Title:" blocks.
type Assembler struct {
	extractor      ContentExtractor
	maxConcurrency int
	logger         logger.Logger
}

func NewAssembler(extractor ContentExtractor, maxConcurrency int, log logger.Logger) *Assembler {
	if maxConcurrency < 1 {
		maxConcurrency = defaultMaxConcurrency
	}
	return &Assembler{
		extractor:      extractor,
		maxConcurrency: maxConcurrency,
		logger:         log.With(map[string]interface{}{"component": "assemble"}),
	}
}

// Assemble builds one block per descriptor in results[:k]. Blocks keep the
// order of results whatever order the fetches finish in, and a failed fetch
// still yields its title line. Descriptors without a URL are not fetched;
// their snippet becomes the block body. results is not modified.
func (a *Assembler) Assemble(ctx context.Context, results []models.SearchResult, k int) *models.AssembledContext {
	n := k
	if n > len(results) {
		n = len(results)
	}
	if n < 0 {
		n = 0
	}

	blocks := make([]models.ContextBlock, n)

	// Fetch failures are carried on the block, never returned, so one slow
	// page cannot cancel its siblings.
	var g errgroup.Group
	g.SetLimit(a.maxConcurrency)

	for i := 0; i < n; i++ {
		r := results[i]
		blocks[i] = models.ContextBlock{Heading: r.Heading, URL: r.URL}

		if r.URL == "" {
			blocks[i].Body = r.Snippet
			continue
		}

		g.Go(func() error {
			content := a.extractor.Extract(ctx, r.URL)
			blocks[i].Body = content.Text()
			if content.Failed() {
				blocks[i].FailureReason = string(content.Failure.Reason)
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, b := range blocks {
		if b.FailureReason != "" {
			failed++
		}
	}
	a.logger.Debug("context assembled", map[string]interface{}{
		"selected": n,
		"failed":   failed,
	})

	return &models.AssembledContext{Blocks: blocks}
}
