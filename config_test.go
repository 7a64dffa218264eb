package toolchat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"GOOGLE_API_KEY", "GROQ_API_KEY", "MODEL_PROVIDER", "MODEL_NAME", "PORT", "RATE_LIMIT_WINDOW", "MAX_TURNS", "TAVILY_API_KEY"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigMissingGoogleKey(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredential))
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("PORT", "9001")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("MAX_TURNS", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.ModelProvider)
	assert.Equal(t, "g-key", cfg.GoogleAPIKey)
	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 6, cfg.RateLimitMaxCalls)
	assert.Equal(t, 10, cfg.MaxTurns)
	assert.Equal(t, 40, cfg.WorkerPoolSize)
	assert.Equal(t, "", cfg.TavilyAPIKey)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, NewConfig().Validate(), ErrMissingCredential)
	assert.NoError(t, NewConfig().WithGemini("k").Validate())
	assert.ErrorIs(t, NewConfig().WithGroq("", "").Validate(), ErrMissingCredential)
	assert.NoError(t, NewConfig().WithGroq("k", "").Validate())

	cfg := NewConfig().WithGemini("k")
	cfg.ModelProvider = "llama.cpp"
	assert.Error(t, cfg.Validate())

	assert.Error(t, NewConfig().WithGemini("k").WithPort(0).Validate())
	assert.Error(t, NewConfig().WithGemini("k").WithMaxTurns(-1).Validate())
}

func TestNewAgentFromConfig(t *testing.T) {
	cfg := NewConfig().WithGroq("k", "http://127.0.0.1:1/v1/chat/completions").WithMaxTurns(7)
	agent, err := cfg.NewAgent(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 7, agent.MaxTurns)
	assert.Len(t, agent.Tools, 8)
	assert.NotEmpty(t, agent.SystemPrompt)
	assert.NotNil(t, agent.Limiter)

	_, err = cfg.WithSystemPromptPath("/does/not/exist.txt").NewAgent(context.Background(), nil)
	assert.Error(t, err)
}
