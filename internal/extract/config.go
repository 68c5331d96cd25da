// internal/extract/config.go
package extract

import (
	"time"

	"rag-search/internal/common/config"
)

type Config struct {
	Timeout      time.Duration // per page
	MaxBodyBytes int64         // 0 = unlimited
}

func ConfigFrom(cfg config.FetchConfig) *Config {
	return &Config{
		Timeout:      config.GetDuration(cfg.Timeout),
		MaxBodyBytes: cfg.MaxBodyBytes,
	}
}
