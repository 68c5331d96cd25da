// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct. It is built once at
// process start and handed to every component constructor.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Server   ServerConfig            `mapstructure:"server"`
	Search   SearchConfig            `mapstructure:"search"`
	Fetch    FetchConfig             `mapstructure:"fetch"`
	LLM      LLMConfig               `mapstructure:"llm"`
	Prompt   PromptConfig            `mapstructure:"prompt"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Tracing  TracingConfig           `mapstructure:"tracing"`
	Registry RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// --- Pipeline Collaborators ---

// SearchConfig configures the web search provider (Serper-compatible API).
type SearchConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Region         string        `mapstructure:"region"`
	Timeout        int           `mapstructure:"timeout"` // milliseconds
	TopK           int           `mapstructure:"top_k"`
	AnswerBox      bool          `mapstructure:"answer_box"`
	KnowledgeGraph bool          `mapstructure:"knowledge_graph"`
	Breaker        BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig configures the circuit breaker at the search boundary.
type BreakerConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MaxFailures int  `mapstructure:"max_failures"`
	OpenTimeout int  `mapstructure:"open_timeout"` // milliseconds
	Interval    int  `mapstructure:"interval"`     // milliseconds
}

type FetchConfig struct {
	Timeout        int    `mapstructure:"timeout"` // milliseconds, per page
	MaxConcurrency int    `mapstructure:"max_concurrency"`
	UserAgent      string `mapstructure:"user_agent"`
	MaxBodyBytes   int64  `mapstructure:"max_body_bytes"` // 0 = unlimited
}

// LLMConfig configures the Gemini generation session.
type LLMConfig struct {
	APIKey           string  `mapstructure:"api_key"`
	Model            string  `mapstructure:"model"`
	Timeout          int     `mapstructure:"timeout"` // milliseconds
	Temperature      float32 `mapstructure:"temperature"`
	TopP             float32 `mapstructure:"top_p"`
	TopK             float32 `mapstructure:"top_k"`
	MaxOutputTokens  int32   `mapstructure:"max_output_tokens"`
	ResponseMIMEType string  `mapstructure:"response_mime_type"`
}

// PromptConfig holds the answer-style directives embedded in the system instruction.
type PromptConfig struct {
	Preamble   string   `mapstructure:"preamble"`
	Directives []string `mapstructure:"directives"`
}

// --- Workflow Engine ---
type CamundaConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	BrokerAddress     string `mapstructure:"broker_address"`
	ConnectionTimeout int    `mapstructure:"connection_timeout"` // milliseconds
}

// WorkerConfig holds the settings applicable to every job worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
}

// --- Observability ---
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	ServiceName    string `mapstructure:"service_name"`
}

// RegistryConfig points at an activity registry overriding the embedded one.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
