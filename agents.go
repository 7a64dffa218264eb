// Package toolchat runs a tool-calling chat agent: the model is asked for a reply,
// any tools it requests are executed, and the results are fed back until the
// model answers without calling a tool.
package toolchat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Desarso/toolchat/models"
	"github.com/Desarso/toolchat/sessions"
	"github.com/Desarso/toolchat/stores"
	"github.com/google/uuid"
)

// DefaultMaxTurns bounds a single run. Each model invocation and each tool
// batch counts as one turn.
const DefaultMaxTurns = 25

var (
	ErrMaxTurnsExceeded = errors.New("agent exceeded the maximum number of turns")
	ErrUnknownTool      = errors.New("unknown or unavailable tool")
)

type Model interface {
	Model_Request(ctx context.Context, messages []models.Message, tools []models.FunctionDeclaration) (models.Message, error)
}

// Limiter gates model invocations. Acquire blocks until a call may proceed.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// State is the conversation of one run. It only ever grows.
type State struct {
	Messages []models.Message `json:"messages"`
}

// FinalText returns the content of the last message, or "" for an empty state.
func FinalText(state State) string {
	if len(state.Messages) == 0 {
		return ""
	}
	return state.Messages[len(state.Messages)-1].Content
}

type Agent struct {
	Model        Model
	Tools        []models.FunctionDeclaration
	Limiter      Limiter
	MaxTurns     int // 0 disables the cap
	SystemPrompt string
	Tracer       stores.TraceStore
	Logger       *log.Logger

	registry map[string]models.FunctionDeclaration
}

type AgentOption func(*Agent)

func WithLimiter(l Limiter) AgentOption {
	return func(a *Agent) { a.Limiter = l }
}

func WithMaxTurns(n int) AgentOption {
	return func(a *Agent) { a.MaxTurns = n }
}

func WithSystemPrompt(prompt string) AgentOption {
	return func(a *Agent) { a.SystemPrompt = prompt }
}

func WithTracer(t stores.TraceStore) AgentOption {
	return func(a *Agent) { a.Tracer = t }
}

func WithLogger(l *log.Logger) AgentOption {
	return func(a *Agent) { a.Logger = l }
}

// Create_Agent builds an agent over model and tools. Tool names must be unique;
// a later declaration with the same name replaces the earlier one.
func Create_Agent(model Model, tools []models.FunctionDeclaration, opts ...AgentOption) *Agent {
	agent := &Agent{
		Model:    model,
		Tools:    tools,
		MaxTurns: DefaultMaxTurns,
		Tracer:   stores.NopTraceStore{},
		Logger:   log.New(os.Stdout, "[Agent] ", log.LstdFlags),
		registry: make(map[string]models.FunctionDeclaration, len(tools)),
	}
	for _, opt := range opts {
		opt(agent)
	}
	for _, tool := range tools {
		if _, dup := agent.registry[tool.Name]; dup {
			agent.Logger.Printf("Duplicate tool %q, keeping the last declaration", tool.Name)
		}
		agent.registry[tool.Name] = tool
	}
	return agent
}

// Run drives the assistant/tools loop over history and returns the final state.
// On error the state holds everything appended before the failure.
func (agent *Agent) Run(ctx context.Context, history []models.Message) (State, error) {
	state := State{Messages: make([]models.Message, 0, len(history)+4)}
	if agent.SystemPrompt != "" {
		state.Messages = append(state.Messages, models.NewSystemMessage(agent.SystemPrompt))
	}
	state.Messages = append(state.Messages, history...)

	requestID := sessions.RequestIDFromContext(ctx)
	turn := 0
	for {
		if err := agent.nextTurn(&turn); err != nil {
			return state, err
		}
		reply, err := agent.assistantTurn(ctx, requestID, turn, state.Messages)
		if err != nil {
			return state, err
		}
		state.Messages = append(state.Messages, reply)
		if !reply.HasToolCalls() {
			return state, nil
		}

		if err := agent.nextTurn(&turn); err != nil {
			return state, err
		}
		for _, result := range agent.toolsTurn(ctx, requestID, turn, reply.ToolCalls) {
			state.Messages = append(state.Messages, result.Message())
		}
	}
}

// Invoke runs the agent and returns the full message list, system instruction included.
func (agent *Agent) Invoke(ctx context.Context, messages []models.Message) ([]models.Message, error) {
	state, err := agent.Run(ctx, messages)
	return state.Messages, err
}

func (agent *Agent) nextTurn(turn *int) error {
	if agent.MaxTurns > 0 && *turn >= agent.MaxTurns {
		return fmt.Errorf("%w (%d)", ErrMaxTurnsExceeded, agent.MaxTurns)
	}
	*turn++
	return nil
}

func (agent *Agent) assistantTurn(ctx context.Context, requestID string, turn int, messages []models.Message) (models.Message, error) {
	if agent.Limiter != nil {
		if err := agent.Limiter.Acquire(ctx); err != nil {
			return models.Message{}, fmt.Errorf("waiting for model capacity: %w", err)
		}
	}

	start := time.Now()
	reply, err := agent.Model.Model_Request(ctx, messages, agent.Tools)
	elapsed := time.Since(start)
	if err != nil {
		agent.trace(ctx, &stores.ExecutionTrace{
			RequestID: requestID, Kind: stores.KindModelTurn, Turn: turn,
			Status: stores.StatusError, Label: err.Error(), DurationMS: elapsed.Milliseconds(),
		})
		return models.Message{}, fmt.Errorf("model request failed: %w", err)
	}

	reply.Role = models.RoleAssistant
	reply.ToolCalls = append([]models.FunctionCall(nil), reply.ToolCalls...)
	for i := range reply.ToolCalls {
		if reply.ToolCalls[i].ID == "" {
			reply.ToolCalls[i].ID = uuid.NewString()
		}
	}
	agent.Logger.Printf("Turn %d: model replied in %v with %d tool call(s)", turn, elapsed, len(reply.ToolCalls))
	agent.trace(ctx, &stores.ExecutionTrace{
		RequestID: requestID, Kind: stores.KindModelTurn, Turn: turn,
		Status: stores.StatusEnd, Label: "assistant", DurationMS: elapsed.Milliseconds(),
		Details: map[string]any{"tool_calls": len(reply.ToolCalls), "content_chars": len(reply.Content)},
	})
	return reply, nil
}

// toolsTurn runs every call in order, one result per call.
func (agent *Agent) toolsTurn(ctx context.Context, requestID string, turn int, calls []models.FunctionCall) []models.Tool_Result {
	results := make([]models.Tool_Result, 0, len(calls))
	for _, call := range calls {
		start := time.Now()
		output, err := agent.ExecuteTool(ctx, call.Name, call.Args)
		elapsed := time.Since(start)

		status := stores.StatusEnd
		if err != nil {
			status = stores.StatusError
			agent.Logger.Printf("Tool %s (%s) failed: %v", call.Name, call.ID, err)
		} else {
			agent.Logger.Printf("Tool %s (%s) finished in %v", call.Name, call.ID, elapsed)
		}
		agent.trace(ctx, &stores.ExecutionTrace{
			RequestID: requestID, Kind: stores.KindToolCall, Tool: call.Name, ToolCallID: call.ID, Turn: turn,
			Status: status, Label: output, DurationMS: elapsed.Milliseconds(),
			Details: map[string]any{"args": call.Args},
		})
		results = append(results, models.Tool_Result{
			Tool_ID:     call.ID,
			Tool_Name:   call.Name,
			Tool_Output: output,
			IsError:     err != nil,
		})
	}
	return results
}

// ExecuteTool executes a tool by name. The returned string is always JSON:
// {"error": ...} when err is non-nil, otherwise the tool's map result or
// {"result": ...} for any other value.
func (agent *Agent) ExecuteTool(ctx context.Context, functionName string, functionCallArgs map[string]interface{}) (string, error) {
	result, err := agent.callTool(ctx, functionName, functionCallArgs)
	if err != nil {
		return encodeToolError(err), err
	}

	var payload interface{} = map[string]interface{}{"result": result}
	if m, ok := result.(map[string]interface{}); ok {
		payload = m
	}
	data, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		err = fmt.Errorf("failed marshal result for '%s': %w", functionName, marshalErr)
		return encodeToolError(err), err
	}
	return string(data), nil
}

func (agent *Agent) callTool(ctx context.Context, name string, args map[string]interface{}) (result interface{}, err error) {
	tool, ok := agent.registry[name]
	if !ok || tool.Callable == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if err := ValidateArgs(tool.Parameters, args); err != nil {
		return nil, fmt.Errorf("invalid arguments for '%s': %w", name, err)
	}

	defer func() {
		if r := recover(); r != nil {
			agent.Logger.Printf("Tool %s panicked: %v", name, r)
			result, err = nil, fmt.Errorf("tool '%s' failed unexpectedly", name)
		}
	}()
	return tool.Callable(ctx, args)
}

func encodeToolError(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}

func (agent *Agent) trace(ctx context.Context, t *stores.ExecutionTrace) {
	if agent.Tracer == nil {
		return
	}
	t.TraceID = uuid.NewString()
	t.Timestamp = time.Now().UnixMilli()
	if err := agent.Tracer.SaveTrace(context.WithoutCancel(ctx), t); err != nil {
		agent.Logger.Printf("Failed to save trace: %v", err)
	}
}
