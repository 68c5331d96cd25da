// internal/search/config.go
package search

import (
	"time"

	"rag-search/internal/common/config"
)

type Config struct {
	BaseURL        string
	APIKey         string
	Region         string
	Timeout        time.Duration
	AnswerBox      bool
	KnowledgeGraph bool
	Breaker        BreakerConfig
}

type BreakerConfig struct {
	Enabled     bool
	MaxFailures uint32
	OpenTimeout time.Duration
	Interval    time.Duration
}

// ConfigFrom converts the loaded search section.
func ConfigFrom(cfg config.SearchConfig) *Config {
	return &Config{
		BaseURL:        cfg.BaseURL,
		APIKey:         cfg.APIKey,
		Region:         cfg.Region,
		Timeout:        config.GetDuration(cfg.Timeout),
		AnswerBox:      cfg.AnswerBox,
		KnowledgeGraph: cfg.KnowledgeGraph,
		Breaker: BreakerConfig{
			Enabled:     cfg.Breaker.Enabled,
			MaxFailures: uint32(cfg.Breaker.MaxFailures),
			OpenTimeout: config.GetDuration(cfg.Breaker.OpenTimeout),
			Interval:    config.GetDuration(cfg.Breaker.Interval),
		},
	}
}
