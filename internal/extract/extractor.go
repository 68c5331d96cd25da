// internal/extract/extractor.go
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"

	apperrors "rag-search/internal/common/errors"
	httpclient "rag-search/internal/common/http"
	"rag-search/internal/common/logger"
	"rag-search/internal/common/metrics"
)

// Extractor fetches result pages and pulls their visible text.
type Extractor struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewExtractor(cfg *Config, client *httpclient.Client, log logger.Logger) *Extractor {
	return &Extractor{
		config: cfg,
		client: client,
		logger: log.With(map[string]interface{}{"component": "extract"}),
	}
}

// Extract never returns an error. Any fetch or parse problem is recorded on
// the returned Content and leaves it without segments.
func (e *Extractor) Extract(ctx context.Context, url string) *Content {
	content := &Content{URL: url}
	if strings.TrimSpace(url) == "" {
		content.Failure = &Failure{Reason: FailureNoURL}
		metrics.PageFetchesTotal.WithLabelValues(string(FailureNoURL)).Inc()
		return content
	}

	segments, failure := e.fetch(ctx, url)
	if failure != nil {
		content.Failure = failure
		metrics.PageFetchesTotal.WithLabelValues(string(failure.Reason)).Inc()
		e.logger.Warn("page extraction failed", map[string]interface{}{
			"url":    url,
			"reason": string(failure.Reason),
			"status": failure.Status,
			"error":  apperrors.NewExtractionFailedError(url, failure.Err),
		})
		return content
	}

	content.Segments = segments
	metrics.PageFetchesTotal.WithLabelValues("ok").Inc()
	e.logger.Debug("page extracted", map[string]interface{}{
		"url":      url,
		"segments": len(segments),
	})
	return content
}

func (e *Extractor) fetch(ctx context.Context, url string) ([]string, *Failure) {
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	resp, err := e.client.Get(ctx, url)
	if err != nil {
		return nil, &Failure{Reason: classify(ctx, err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &Failure{
			Reason: FailureStatus,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return nil, &Failure{
			Reason: FailureContentType,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unsupported content type %q", contentType),
		}
	}

	body, err := httpclient.ReadBody(resp, e.config.MaxBodyBytes)
	if err != nil {
		return nil, &Failure{Reason: classify(ctx, err), Status: resp.StatusCode, Err: err}
	}

	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, &Failure{Reason: FailureDecode, Status: resp.StatusCode, Err: err}
	}

	segments, err := ParseSegments(reader)
	if err != nil {
		return nil, &Failure{Reason: FailureDecode, Status: resp.StatusCode, Err: err}
	}
	return segments, nil
}

func classify(ctx context.Context, err error) FailureReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	return FailureNetwork
}

// isHTML accepts a missing Content-Type; servers that omit it usually serve HTML.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
