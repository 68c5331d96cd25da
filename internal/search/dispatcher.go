// internal/search/dispatcher.go
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/sony/gobreaker/v2"

	apperrors "rag-search/internal/common/errors"
	httpclient "rag-search/internal/common/http"
	"rag-search/internal/common/logger"
	"rag-search/internal/common/metrics"
	"rag-search/internal/models"
)

const (
	breakerName   = "search"
	maxErrorBody  = 4 << 10
	answerHeading = "Answer"
)

// Dispatcher turns a query into ordered search result descriptors.
type Dispatcher struct {
	config  *Config
	client  *httpclient.Client
	breaker *gobreaker.CircuitBreaker[*searchResponse]
	logger  logger.Logger
}

func NewDispatcher(cfg *Config, client *httpclient.Client, log logger.Logger) *Dispatcher {
	d := &Dispatcher{
		config: cfg,
		client: client,
		logger: log.With(map[string]interface{}{"component": "search"}),
	}
	if cfg.Breaker.Enabled {
		d.breaker = newBreaker(breakerName, cfg.Breaker, d.logger)
	}
	return d
}

// Dispatch calls the search provider once and maps its results in order.
// A blank query fails with INVALID_INPUT before any network call. An empty
// slice with a nil error means the provider answered with nothing.
func (d *Dispatcher) Dispatch(ctx context.Context, query string) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.NewInvalidInputError("query must not be empty")
	}

	resp, err := d.call(ctx, query)
	if err != nil {
		d.logger.Warn("search failed", map[string]interface{}{
			"query": query,
			"error": err,
		})
		return nil, err
	}

	results := d.mapResults(resp)
	metrics.SearchResults.Observe(float64(len(results)))

	d.logger.Debug("search completed", map[string]interface{}{
		"query":       query,
		"resultCount": len(results),
	})
	return results, nil
}

func (d *Dispatcher) call(ctx context.Context, query string) (*searchResponse, error) {
	if d.breaker == nil {
		return d.fetch(ctx, query)
	}

	resp, err := d.breaker.Execute(func() (*searchResponse, error) {
		return d.fetch(ctx, query)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, apperrors.NewSearchUnavailableError(0, "circuit open", err)
	}
	return resp, err
}

func (d *Dispatcher) fetch(ctx context.Context, query string) (*searchResponse, error) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	headers := map[string]string{"X-API-KEY": d.config.APIKey}
	resp, err := d.client.PostJSON(ctx, d.config.BaseURL, headers, searchRequest{Q: query, GL: d.config.Region})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewSearchUnavailableError(0, "search request timed out", err)
		}
		return nil, apperrors.NewSearchUnavailableError(0, err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := httpclient.ReadBody(resp, maxErrorBody)
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, apperrors.NewSearchUnavailableError(resp.StatusCode, msg, nil)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.NewSearchUnavailableError(resp.StatusCode, fmt.Sprintf("decode response: %v", err), err)
	}
	return &out, nil
}

func (d *Dispatcher) mapResults(resp *searchResponse) []models.SearchResult {
	if d.config.AnswerBox && resp.AnswerBox != nil {
		if answer := answerText(resp.AnswerBox); answer != "" {
			heading := resp.AnswerBox.Title
			if heading == "" {
				heading = answerHeading
			}
			// No URL: the answer text is the block body and the linked page
			// is never fetched in its place.
			return []models.SearchResult{{
				Heading: heading,
				Snippet: answer,
			}}
		}
	}

	results := make([]models.SearchResult, 0, len(resp.Organic)+1)
	if d.config.KnowledgeGraph && resp.KnowledgeGraph != nil && resp.KnowledgeGraph.Title != "" {
		results = append(results, models.SearchResult{
			Heading: resp.KnowledgeGraph.Title,
			Snippet: knowledgeGraphText(resp.KnowledgeGraph),
		})
	}

	for _, r := range resp.Organic {
		snippet := r.Snippet
		if attrs := attributeText("", r.Attributes); attrs != "" {
			snippet = strings.TrimSpace(snippet + " " + attrs)
		}
		results = append(results, models.SearchResult{
			URL:     r.Link,
			Heading: r.Title,
			Snippet: snippet,
		})
	}
	return results
}

// answerText prefers the direct answer, then the snippet, then the
// highlighted fragments.
func answerText(box *answerBox) string {
	if a := strings.TrimSpace(box.Answer); a != "" {
		return a
	}
	if s := strings.TrimSpace(strings.ReplaceAll(box.Snippet, "\n", " ")); s != "" {
		return s
	}
	return strings.TrimSpace(strings.Join(box.SnippetHighlighted, " "))
}

func knowledgeGraphText(kg *knowledgeGraph) string {
	var lines []string
	if kg.Type != "" {
		lines = append(lines, fmt.Sprintf("%s: %s.", kg.Title, kg.Type))
	}
	if kg.Description != "" {
		lines = append(lines, kg.Description)
	}
	if attrs := attributeText(kg.Title+" ", kg.Attributes); attrs != "" {
		lines = append(lines, attrs)
	}
	return strings.Join(lines, "\n")
}

// attributeText renders attributes as "{prefix}{attr}: {value}." sorted by
// attribute name.
func attributeText(prefix string, attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s%s: %s.", prefix, k, attrs[k]))
	}
	return strings.Join(parts, " ")
}
