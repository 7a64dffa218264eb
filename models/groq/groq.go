// Package groq talks to OpenAI-compatible chat completion endpoints. Groq is
// the default; any compatible endpoint (OpenRouter, Cerebras, ...) works by
// changing BaseURL.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Desarso/toolchat/models"
)

const (
	GroqBaseURL  = "https://api.groq.com/openai/v1/chat/completions"
	DefaultModel = "llama-3.3-70b-versatile"
)

// Groq_Model implements the agent's Model interface for Groq.
type Groq_Model struct {
	Model       string
	Temperature *float64
	MaxTokens   *int
	BaseURL     string // full chat completions URL, defaults to GroqBaseURL
	APIKey      string
	Client      *http.Client

	logger *log.Logger
}

// NewGroqModel creates a model with temperature 0.
func NewGroqModel(apiKey, model, baseURL string) *Groq_Model {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = GroqBaseURL
	}
	zero := 0.0
	return &Groq_Model{
		Model:       model,
		Temperature: &zero,
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Client:      &http.Client{Timeout: 2 * time.Minute},
		logger:      log.New(os.Stdout, "[Groq] ", log.LstdFlags),
	}
}

// Model_Request implements the Model interface
func (g *Groq_Model) Model_Request(ctx context.Context, messages []models.Message, tools []models.FunctionDeclaration) (models.Message, error) {
	body, err := json.Marshal(g.createRequest(messages, tools))
	if err != nil {
		return models.Message{}, fmt.Errorf("error marshalling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL, bytes.NewReader(body))
	if err != nil {
		return models.Message{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return models.Message{}, fmt.Errorf("error sending request to Groq: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Message{}, fmt.Errorf("error reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return models.Message{}, fmt.Errorf("Groq API error: %s (type: %s)", errResp.Error.Message, errResp.Error.Type)
		}
		return models.Message{}, fmt.Errorf("Groq API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var chat ChatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return models.Message{}, fmt.Errorf("error unmarshalling response: %w", err)
	}
	if chat.Usage != nil && g.logger != nil {
		g.logger.Printf("%s: %d prompt / %d completion tokens", g.Model, chat.Usage.PromptTokens, chat.Usage.CompletionTokens)
	}
	return toModelMessage(chat)
}

func (g *Groq_Model) createRequest(messages []models.Message, tools []models.FunctionDeclaration) ChatRequest {
	req := ChatRequest{
		Model:       g.Model,
		Messages:    make([]Message, 0, len(messages)),
		Temperature: g.Temperature,
		MaxTokens:   g.MaxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, fromModelMessage(m))
	}
	for _, t := range tools {
		req.Tools = append(req.Tools, Tool{
			Type: "function",
			Function: Function{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	if len(req.Tools) > 0 {
		req.ToolChoice = "auto"
	}
	return req
}

func fromModelMessage(m models.Message) Message {
	content := m.Content
	out := Message{Role: m.Role, Content: &content}
	switch m.Role {
	case models.RoleAssistant:
		if len(m.ToolCalls) > 0 && m.Content == "" {
			out.Content = nil
		}
		for _, call := range m.ToolCalls {
			args, err := json.Marshal(call.Args)
			if err != nil || call.Args == nil {
				args = []byte("{}")
			}
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:       call.ID,
				Type:     "function",
				Function: FunctionCall{Name: call.Name, Arguments: string(args)},
			})
		}
	case models.RoleTool:
		out.ToolCallID = m.ToolCallID
		out.Name = m.Name
	}
	return out
}

func toModelMessage(chat ChatResponse) (models.Message, error) {
	if len(chat.Choices) == 0 {
		return models.Message{}, fmt.Errorf("Groq API returned no choices")
	}
	choice := chat.Choices[0].Message
	msg := models.Message{Role: models.RoleAssistant}
	if choice.Content != nil {
		msg.Content = *choice.Content
	}
	for _, tc := range choice.ToolCalls {
		args := map[string]interface{}{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return models.Message{}, fmt.Errorf("invalid arguments for tool call %s: %w", tc.Function.Name, err)
			}
		}
		msg.ToolCalls = append(msg.ToolCalls, models.FunctionCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: args,
		})
	}
	return msg, nil
}
