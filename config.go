package toolchat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Desarso/toolchat/common_tools"
	"github.com/Desarso/toolchat/models/gemini"
	"github.com/Desarso/toolchat/models/groq"
	"github.com/Desarso/toolchat/prompts"
	"github.com/Desarso/toolchat/ratelimit"
	"github.com/Desarso/toolchat/stores"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingCredential is returned by Validate when the selected model
// provider has no API key.
var ErrMissingCredential = errors.New("missing model credential")

const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Config holds everything needed to build the agent and serve it.
type Config struct {
	ModelProvider    string
	ModelName        string
	GoogleAPIKey     string
	GroqAPIKey       string
	GroqBaseURL      string
	TavilyAPIKey     string
	SystemPromptPath string

	Port           int
	WorkerPoolSize int
	RequestTimeout time.Duration

	RateLimitMaxCalls int
	RateLimitWindow   time.Duration
	MaxTurns          int

	TraceStore             string
	TraceDSN               string
	TraceRetention         time.Duration
	TraceRetentionSchedule string
}

// NewConfig returns a configuration with default values and no credentials.
func NewConfig() *Config {
	return &Config{
		ModelProvider:          ProviderGemini,
		GroqBaseURL:            groq.GroqBaseURL,
		Port:                   8000,
		WorkerPoolSize:         40,
		RateLimitMaxCalls:      ratelimit.DefaultLimit,
		RateLimitWindow:        ratelimit.DefaultWindow,
		MaxTurns:               DefaultMaxTurns,
		TraceRetention:         7 * 24 * time.Hour,
		TraceRetentionSchedule: "@daily",
	}
}

// LoadConfig reads a .env file if one exists, then the process environment.
func LoadConfig() (*Config, error) {
	// Missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	d := NewConfig()
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("MODEL_PROVIDER", d.ModelProvider)
	v.SetDefault("GROQ_BASE_URL", d.GroqBaseURL)
	v.SetDefault("PORT", d.Port)
	v.SetDefault("WORKER_POOL_SIZE", d.WorkerPoolSize)
	v.SetDefault("REQUEST_TIMEOUT", "0s")
	v.SetDefault("RATE_LIMIT_MAX_CALLS", d.RateLimitMaxCalls)
	v.SetDefault("RATE_LIMIT_WINDOW", d.RateLimitWindow.String())
	v.SetDefault("MAX_TURNS", d.MaxTurns)
	v.SetDefault("TRACE_RETENTION", d.TraceRetention.String())
	v.SetDefault("TRACE_RETENTION_SCHEDULE", d.TraceRetentionSchedule)

	cfg := &Config{
		ModelProvider:          strings.ToLower(strings.TrimSpace(v.GetString("MODEL_PROVIDER"))),
		ModelName:              v.GetString("MODEL_NAME"),
		GoogleAPIKey:           v.GetString("GOOGLE_API_KEY"),
		GroqAPIKey:             v.GetString("GROQ_API_KEY"),
		GroqBaseURL:            v.GetString("GROQ_BASE_URL"),
		TavilyAPIKey:           v.GetString("TAVILY_API_KEY"),
		SystemPromptPath:       v.GetString("SYSTEM_PROMPT_PATH"),
		Port:                   v.GetInt("PORT"),
		WorkerPoolSize:         v.GetInt("WORKER_POOL_SIZE"),
		RequestTimeout:         v.GetDuration("REQUEST_TIMEOUT"),
		RateLimitMaxCalls:      v.GetInt("RATE_LIMIT_MAX_CALLS"),
		RateLimitWindow:        v.GetDuration("RATE_LIMIT_WINDOW"),
		MaxTurns:               v.GetInt("MAX_TURNS"),
		TraceStore:             v.GetString("TRACE_STORE"),
		TraceDSN:               v.GetString("TRACE_DSN"),
		TraceRetention:         v.GetDuration("TRACE_RETENTION"),
		TraceRetentionSchedule: v.GetString("TRACE_RETENTION_SCHEDULE"),
	}
	return cfg, cfg.Validate()
}

// Validate reports configuration that would keep the service from working.
func (c *Config) Validate() error {
	switch c.ModelProvider {
	case ProviderGemini:
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("%w: GOOGLE_API_KEY must be set", ErrMissingCredential)
		}
	case ProviderGroq:
		if c.GroqAPIKey == "" {
			return fmt.Errorf("%w: GROQ_API_KEY must be set", ErrMissingCredential)
		}
	default:
		return fmt.Errorf("unsupported model provider %q", c.ModelProvider)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.WorkerPoolSize <= 0 {
		return fmt.Errorf("WORKER_POOL_SIZE must be positive, got %d", c.WorkerPoolSize)
	}
	if c.MaxTurns < 0 {
		return fmt.Errorf("MAX_TURNS must not be negative, got %d", c.MaxTurns)
	}
	return nil
}

// WithModelName sets the model name for the configuration
func (c *Config) WithModelName(modelName string) *Config {
	c.ModelName = modelName
	return c
}

// WithGemini selects Gemini with the given key.
func (c *Config) WithGemini(apiKey string) *Config {
	c.ModelProvider = ProviderGemini
	c.GoogleAPIKey = apiKey
	return c
}

// WithGroq selects an OpenAI-compatible endpoint. An empty baseURL keeps Groq.
func (c *Config) WithGroq(apiKey, baseURL string) *Config {
	c.ModelProvider = ProviderGroq
	c.GroqAPIKey = apiKey
	if baseURL != "" {
		c.GroqBaseURL = baseURL
	}
	return c
}

func (c *Config) WithTavilyAPIKey(key string) *Config {
	c.TavilyAPIKey = key
	return c
}

func (c *Config) WithSystemPromptPath(path string) *Config {
	c.SystemPromptPath = path
	return c
}

func (c *Config) WithPort(port int) *Config {
	c.Port = port
	return c
}

func (c *Config) WithRateLimit(maxCalls int, window time.Duration) *Config {
	c.RateLimitMaxCalls = maxCalls
	c.RateLimitWindow = window
	return c
}

func (c *Config) WithMaxTurns(n int) *Config {
	c.MaxTurns = n
	return c
}

// WithTraceStore enables execution tracing to a sqlite or postgres database.
func (c *Config) WithTraceStore(storeType, dsn string) *Config {
	c.TraceStore = storeType
	c.TraceDSN = dsn
	return c
}

// NewModel creates the model client for the configured provider.
func (c *Config) NewModel(ctx context.Context) (Model, error) {
	switch c.ModelProvider {
	case ProviderGemini:
		model, err := gemini.NewGeminiModel(ctx, c.GoogleAPIKey, c.ModelName)
		if err != nil {
			return nil, err
		}
		return model, nil
	case ProviderGroq:
		return groq.NewGroqModel(c.GroqAPIKey, c.ModelName, c.GroqBaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported model provider %q", c.ModelProvider)
	}
}

// NewTraceStore opens the configured trace store, or a no-op store when tracing is off.
func (c *Config) NewTraceStore() (stores.TraceStore, error) {
	return stores.NewTraceStore(stores.NewStoreConfig(c.TraceStore, c.TraceDSN))
}

// NewAgent wires model, tools, limiter and system prompt into an agent.
func (c *Config) NewAgent(ctx context.Context, tracer stores.TraceStore) (*Agent, error) {
	prompt, err := prompts.Load(c.SystemPromptPath)
	if err != nil {
		return nil, err
	}
	model, err := c.NewModel(ctx)
	if err != nil {
		return nil, err
	}
	if tracer == nil {
		tracer = stores.NopTraceStore{}
	}
	tools := common_tools.DefaultTools(common_tools.NewLookup(c.TavilyAPIKey))
	return Create_Agent(model, tools,
		WithSystemPrompt(prompt),
		WithLimiter(ratelimit.New(c.RateLimitMaxCalls, c.RateLimitWindow)),
		WithMaxTurns(c.MaxTurns),
		WithTracer(tracer),
	), nil
}
