// internal/generate/config.go
package generate

import (
	"time"

	"google.golang.org/genai"

	"rag-search/internal/common/config"
)

// Params are the sampling settings of a generation session. A nil sampling
// field leaves the provider default in place; zero is sent as zero.
type Params struct {
	Model            string
	Temperature      *float32
	TopP             *float32
	TopK             *float32
	MaxOutputTokens  int32
	ResponseMIMEType string
	Timeout          time.Duration
}

func ParamsFrom(cfg config.LLMConfig) Params {
	return Params{
		Model:            cfg.Model,
		Temperature:      genai.Ptr(cfg.Temperature),
		TopP:             genai.Ptr(cfg.TopP),
		TopK:             genai.Ptr(cfg.TopK),
		MaxOutputTokens:  cfg.MaxOutputTokens,
		ResponseMIMEType: cfg.ResponseMIMEType,
		Timeout:          config.GetDuration(cfg.Timeout),
	}
}
