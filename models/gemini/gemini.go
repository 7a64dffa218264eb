// Package gemini adapts Google's Gemini API to the agent's Model interface.
package gemini

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/Desarso/toolchat/models"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

type Gemini_Model struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`

	client *genai.Client
	logger *log.Logger
}

type Option func(*genai.ClientConfig)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *genai.ClientConfig) { cfg.HTTPClient = c }
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) Option {
	return func(cfg *genai.ClientConfig) { cfg.HTTPOptions.BaseURL = url }
}

// NewGeminiModel creates a Gemini model with temperature 0. An empty model
// name selects DefaultModel.
func NewGeminiModel(ctx context.Context, apiKey, model string, opts ...Option) (*Gemini_Model, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini_Model{
		Model:  model,
		client: client,
		logger: log.New(os.Stdout, "[Gemini] ", log.LstdFlags),
	}, nil
}

func (g *Gemini_Model) Model_Request(ctx context.Context, messages []models.Message, tools []models.FunctionDeclaration) (models.Message, error) {
	system, contents := toContents(messages)
	if len(contents) == 0 {
		return models.Message{}, fmt.Errorf("gemini: conversation has no user or model turns")
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(g.Temperature),
		Tools:             toTools(tools),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.Model, contents, config)
	if err != nil {
		return models.Message{}, fmt.Errorf("gemini generate content: %w", err)
	}

	msg, err := fromResponse(resp)
	if err != nil {
		return models.Message{}, fmt.Errorf("gemini: %w", err)
	}
	if resp.UsageMetadata != nil {
		g.logger.Printf("%s: %d prompt / %d candidate tokens", g.Model,
			resp.UsageMetadata.PromptTokenCount, resp.UsageMetadata.CandidatesTokenCount)
	}
	return msg, nil
}
