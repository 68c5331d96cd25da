package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "rag-search/internal/common/http"
	"rag-search/internal/common/logger"
)

func newTestExtractor(t *testing.T, timeout time.Duration) *Extractor {
	cfg := &Config{Timeout: timeout}
	return NewExtractor(cfg, httpclient.NewClient(0, "rag-search-test"), logger.NewTestLogger(t))
}

func htmlHandler(status int, contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestExtract_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rag-search-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<p>body</p><h1>Head</h1>`))
	}))
	defer srv.Close()

	content := newTestExtractor(t, time.Second).Extract(context.Background(), srv.URL)
	require.NotNil(t, content)
	assert.False(t, content.Failed())
	assert.Equal(t, srv.URL, content.URL)
	assert.Equal(t, []string{"Head", "body"}, content.Segments)
	assert.Equal(t, "Head\nbody", content.Text())
}

func TestExtract_Latin1(t *testing.T) {
	srv := httptest.NewServer(htmlHandler(http.StatusOK, "text/html; charset=iso-8859-1", "<p>caf\xe9</p>"))
	defer srv.Close()

	content := newTestExtractor(t, time.Second).Extract(context.Background(), srv.URL)
	assert.Equal(t, "café", content.Text())
}

func TestExtract_Failures(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	unreachable := closed.URL
	closed.Close()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		url        string
		wantReason FailureReason
		wantStatus int
	}{
		{
			name:       "not found",
			handler:    htmlHandler(http.StatusNotFound, "text/html", "<p>missing</p>"),
			wantReason: FailureStatus,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "server error",
			handler:    htmlHandler(http.StatusInternalServerError, "text/html", "<p>oops</p>"),
			wantReason: FailureStatus,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "pdf",
			handler:    htmlHandler(http.StatusOK, "application/pdf", "%PDF-1.4"),
			wantReason: FailureContentType,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unreachable host",
			url:        unreachable,
			wantReason: FailureNetwork,
		},
		{
			name:       "malformed url",
			url:        "http://[::1",
			wantReason: FailureNetwork,
		},
		{
			name:       "no url",
			url:        " ",
			wantReason: FailureNoURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := tt.url
			if tt.handler != nil {
				srv := httptest.NewServer(tt.handler)
				defer srv.Close()
				url = srv.URL
			}

			content := newTestExtractor(t, time.Second).Extract(context.Background(), url)
			require.NotNil(t, content)
			require.True(t, content.Failed())
			assert.Equal(t, tt.wantReason, content.Failure.Reason)
			assert.Equal(t, tt.wantStatus, content.Failure.Status)
			assert.Empty(t, content.Segments)
			assert.Equal(t, "", content.Text())
		})
	}
}

func TestExtract_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	start := time.Now()
	content := newTestExtractor(t, 50*time.Millisecond).Extract(context.Background(), srv.URL)
	require.True(t, content.Failed())
	assert.Equal(t, FailureTimeout, content.Failure.Reason)
	assert.Less(t, time.Since(start), time.Second)
}

func TestExtract_EmptyPageIsNotFailure(t *testing.T) {
	srv := httptest.NewServer(htmlHandler(http.StatusOK, "text/html", "<div>no paragraphs</div>"))
	defer srv.Close()

	content := newTestExtractor(t, time.Second).Extract(context.Background(), srv.URL)
	assert.False(t, content.Failed())
	assert.Empty(t, content.Segments)
}
