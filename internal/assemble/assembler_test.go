package assemble

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	httpclient "rag-search/internal/common/http"
	"rag-search/internal/common/logger"
	"rag-search/internal/extract"
	"rag-search/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// stubExtractor returns canned text per URL, optionally delaying some URLs.
type stubExtractor struct {
	mu      sync.Mutex
	texts   map[string]string
	delays  map[string]time.Duration
	fail    map[string]bool
	calls   []string
	active  int32
	maxSeen int32
}

func (s *stubExtractor) Extract(ctx context.Context, url string) *extract.Content {
	cur := atomic.AddInt32(&s.active, 1)
	defer atomic.AddInt32(&s.active, -1)
	for {
		prev := atomic.LoadInt32(&s.maxSeen)
		if cur <= prev || atomic.CompareAndSwapInt32(&s.maxSeen, prev, cur) {
			break
		}
	}

	s.mu.Lock()
	s.calls = append(s.calls, url)
	delay := s.delays[url]
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if s.fail[url] {
		return &extract.Content{URL: url, Failure: &extract.Failure{Reason: extract.FailureTimeout}}
	}
	text := s.texts[url]
	if text == "" {
		return &extract.Content{URL: url}
	}
	return &extract.Content{URL: url, Segments: strings.Split(text, "\n")}
}

func results(n int) []models.SearchResult {
	out := make([]models.SearchResult, n)
	for i := range out {
		out[i] = models.SearchResult{
			URL:     fmt.Sprintf("https://site%d.example", i+1),
			Heading: fmt.Sprintf("Result %d", i+1),
		}
	}
	return out
}

func TestAssemble_OrderPreservedDespiteCompletionOrder(t *testing.T) {
	in := results(3)
	stub := &stubExtractor{
		texts: map[string]string{
			in[0].URL: "one",
			in[1].URL: "two",
			in[2].URL: "three",
		},
		delays: map[string]time.Duration{in[0].URL: 60 * time.Millisecond, in[1].URL: 30 * time.Millisecond},
	}

	ctx := NewAssembler(stub, 3, logger.NewTestLogger(t)).Assemble(context.Background(), in, 3)
	assert.Equal(t,
		"Title: Result 1\none\n\nTitle: Result 2\ntwo\n\nTitle: Result 3\nthree",
		ctx.Text())
}

func TestAssemble_TimedOutFetchKeepsTitle(t *testing.T) {
	in := results(3)
	stub := &stubExtractor{
		texts: map[string]string{in[0].URL: "alpha", in[2].URL: "gamma"},
		fail:  map[string]bool{in[1].URL: true},
	}

	ctx := NewAssembler(stub, 3, logger.NewTestLogger(t)).Assemble(context.Background(), in, 3)
	require.Len(t, ctx.Blocks, 3)
	assert.Equal(t, "alpha", ctx.Blocks[0].Body)
	assert.Equal(t, "", ctx.Blocks[1].Body)
	assert.Equal(t, string(extract.FailureTimeout), ctx.Blocks[1].FailureReason)
	assert.Equal(t, "gamma", ctx.Blocks[2].Body)
	assert.Equal(t, 3, strings.Count(ctx.Text(), "Title: "))
}

func TestAssemble_TitleCountIsMinKAndLen(t *testing.T) {
	stub := &stubExtractor{}
	a := NewAssembler(stub, 2, logger.NewTestLogger(t))

	for _, tc := range []struct{ n, k, want int }{
		{0, 3, 0},
		{1, 3, 1},
		{3, 3, 3},
		{10, 3, 3},
		{5, 0, 0},
		{5, -1, 0},
	} {
		ctx := a.Assemble(context.Background(), results(tc.n), tc.k)
		assert.Equal(t, tc.want, strings.Count(ctx.Text(), "Title: "), "n=%d k=%d", tc.n, tc.k)
		assert.Len(t, ctx.Blocks, tc.want)
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	in := results(4)
	stub := &stubExtractor{texts: map[string]string{in[0].URL: "a\nb", in[1].URL: "c"}}
	a := NewAssembler(stub, 3, logger.NewTestLogger(t))

	first := a.Assemble(context.Background(), in, 3).Text()
	second := a.Assemble(context.Background(), in, 3).Text()
	assert.Equal(t, first, second)
}

func TestAssemble_DoesNotMutateInput(t *testing.T) {
	in := results(3)
	orig := append([]models.SearchResult(nil), in...)

	NewAssembler(&stubExtractor{}, 3, logger.NewTestLogger(t)).Assemble(context.Background(), in, 3)
	assert.Equal(t, orig, in)
}

func TestAssemble_URLLessDescriptorUsesSnippet(t *testing.T) {
	stub := &stubExtractor{}
	in := []models.SearchResult{{Heading: "Answer", Snippet: "Founder of Meta"}}

	ctx := NewAssembler(stub, 3, logger.NewTestLogger(t)).Assemble(context.Background(), in, 3)
	assert.Equal(t, "Title: Answer\nFounder of Meta", ctx.Text())
	assert.Empty(t, stub.calls)
}

func TestAssemble_RespectsConcurrencyLimit(t *testing.T) {
	in := results(6)
	stub := &stubExtractor{delays: map[string]time.Duration{}}
	for _, r := range in {
		stub.delays[r.URL] = 20 * time.Millisecond
	}

	NewAssembler(stub, 2, logger.NewTestLogger(t)).Assemble(context.Background(), in, 6)
	assert.LessOrEqual(t, atomic.LoadInt32(&stub.maxSeen), int32(2))
	assert.Len(t, stub.calls, 6)
}

func TestAssemble_WithRealExtractor(t *testing.T) {
	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<h1>Fast</h1><p>quick text</p>`))
	}))
	defer fast.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	client := httpclient.NewClient(0, "rag-search-test")
	defer client.CloseIdleConnections()

	ex := extract.NewExtractor(&extract.Config{Timeout: 100 * time.Millisecond}, client, logger.NewTestLogger(t))
	in := []models.SearchResult{
		{URL: fast.URL + "/a", Heading: "A"},
		{URL: slow.URL, Heading: "B"},
		{URL: fast.URL + "/c", Heading: "C"},
	}

	ctx := NewAssembler(ex, 3, logger.NewTestLogger(t)).Assemble(context.Background(), in, 3)
	assert.Equal(t, "Title: A\nFast\nquick text\n\nTitle: B\n\n\nTitle: C\nFast\nquick text", ctx.Text())
}
