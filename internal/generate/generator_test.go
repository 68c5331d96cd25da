package generate

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"rag-search/internal/common/config"
	apperrors "rag-search/internal/common/errors"
	"rag-search/internal/common/logger"
)

type fakeModel struct {
	answer string
	err    error
	delay  time.Duration

	calls       int
	params      Params
	instruction string
	query       string
}

func (f *fakeModel) Generate(ctx context.Context, params Params, instruction, query string) (string, error) {
	f.calls++
	f.params = params
	f.instruction = instruction
	f.query = query
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.answer, f.err
}

func testParams() Params {
	return Params{
		Model:            "test-model",
		Temperature:      genai.Ptr[float32](0.5),
		TopP:             genai.Ptr[float32](0.9),
		TopK:             genai.Ptr[float32](10),
		MaxOutputTokens:  128,
		ResponseMIMEType: "text/plain",
		Timeout:          time.Second,
	}
}

func TestGenerate_ReturnsTextVerbatim(t *testing.T) {
	model := &fakeModel{answer: "  Mark Zuckerberg founded Meta.\n"}
	g := NewGenerator(model, testParams(), logger.NewTestLogger(t))

	answer, err := g.Generate(context.Background(), "instruction", "who founded Meta?")
	require.NoError(t, err)
	assert.Equal(t, "  Mark Zuckerberg founded Meta.\n", answer)
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, "instruction", model.instruction)
	assert.Equal(t, "who founded Meta?", model.query)
	assert.Equal(t, testParams(), model.params)
}

func TestGenerate_ModelError(t *testing.T) {
	model := &fakeModel{err: stderrors.New("quota exceeded")}
	g := NewGenerator(model, testParams(), logger.NewTestLogger(t))

	_, err := g.Generate(context.Background(), "i", "q")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeGenerationUnavailable))
	assert.Equal(t, 1, model.calls, "no internal retry")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerate_Timeout(t *testing.T) {
	params := testParams()
	params.Timeout = 30 * time.Millisecond
	g := NewGenerator(&fakeModel{delay: time.Second}, params, logger.NewTestLogger(t))

	_, err := g.Generate(context.Background(), "i", "q")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeGenerationTimeout))
}

func TestGenerate_BlankAnswerIsUnavailable(t *testing.T) {
	for _, answer := range []string{"", " \n\t"} {
		model := &fakeModel{answer: answer}
		g := NewGenerator(model, testParams(), logger.NewTestLogger(t))

		got, err := g.Generate(context.Background(), "i", "q")
		require.Error(t, err)
		assert.Empty(t, got)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeGenerationUnavailable))
		assert.Equal(t, 1, model.calls)
	}
}

func TestParamsFrom(t *testing.T) {
	p := ParamsFrom(config.LLMConfig{
		Model:            "gemini-1.5-flash",
		Timeout:          60000,
		Temperature:      1,
		TopP:             0.95,
		TopK:             64,
		MaxOutputTokens:  8192,
		ResponseMIMEType: "text/plain",
	})
	assert.Equal(t, 60*time.Second, p.Timeout)
	assert.Equal(t, int32(8192), p.MaxOutputTokens)
	require.NotNil(t, p.TopK)
	assert.Equal(t, float32(64), *p.TopK)
}

func TestParamsFrom_ZeroSamplingIsKept(t *testing.T) {
	p := ParamsFrom(config.LLMConfig{Model: "m"})

	require.NotNil(t, p.Temperature)
	require.NotNil(t, p.TopP)
	require.NotNil(t, p.TopK)
	assert.Zero(t, *p.Temperature)
	assert.Zero(t, *p.TopP)
	assert.Zero(t, *p.TopK)
}

func TestSessionConfig(t *testing.T) {
	cfg := sessionConfig(testParams(), "seed")
	require.NotNil(t, cfg.SystemInstruction)
	require.Len(t, cfg.SystemInstruction.Parts, 1)
	assert.Equal(t, "seed", cfg.SystemInstruction.Parts[0].Text)
	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, float32(0.5), *cfg.Temperature)
	assert.Equal(t, int32(128), cfg.MaxOutputTokens)
	assert.Equal(t, "text/plain", cfg.ResponseMIMEType)

	unset := sessionConfig(Params{}, "seed")
	assert.Nil(t, unset.Temperature)
	assert.Nil(t, unset.TopK)
}

func TestSessionConfig_ZeroTemperatureIsSent(t *testing.T) {
	params := testParams()
	params.Temperature = genai.Ptr[float32](0)

	cfg := sessionConfig(params, "seed")
	require.NotNil(t, cfg.Temperature)
	assert.Zero(t, *cfg.Temperature)
}

func TestBlockReason(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{
			name: "prompt blocked",
			resp: &genai.GenerateContentResponse{PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: "SAFETY"}},
			want: "prompt blocked: SAFETY",
		},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, want: "no candidates"},
		{
			name: "finish reason",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}},
			want: "finish reason: SAFETY",
		},
		{name: "no text", resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, want: "no text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, blockReason(tt.resp))
		})
	}
}

func TestNewGeminiModel_RequiresKey(t *testing.T) {
	_, err := NewGeminiModel(context.Background(), "")
	assert.Error(t, err)
}
