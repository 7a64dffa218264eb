package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Desarso/toolchat/models"
	"google.golang.org/genai"
)

// toContents maps a conversation onto Gemini contents. System messages are
// collected into the system instruction; consecutive tool messages are merged
// into one user content of function responses. A tool message without a name
// takes the name of the call it answers.
func toContents(messages []models.Message) (*genai.Content, []*genai.Content) {
	var system []*genai.Part
	contents := make([]*genai.Content, 0, len(messages))
	callNames := map[string]string{}

	for _, msg := range messages {
		switch msg.Role {
		case models.RoleSystem:
			if msg.Content != "" {
				system = append(system, genai.NewPartFromText(msg.Content))
			}

		case models.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
			})

		case models.RoleAssistant:
			parts := make([]*genai.Part, 0, len(msg.ToolCalls)+1)
			if msg.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				if call.ID != "" {
					callNames[call.ID] = call.Name
				}
				args := call.Args
				if args == nil {
					args = map[string]any{}
				}
				parts = append(parts, &genai.Part{
					FunctionCall:     &genai.FunctionCall{ID: call.ID, Name: call.Name, Args: args},
					ThoughtSignature: call.ThoughtSignature,
				})
			}
			if len(parts) == 0 {
				parts = append(parts, genai.NewPartFromText(""))
			}
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})

		case models.RoleTool:
			name := msg.Name
			if name == "" {
				name = callNames[msg.ToolCallID]
			}
			part := &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       msg.ToolCallID,
				Name:     name,
				Response: toolResponse(msg.Content),
			}}
			if n := len(contents); n > 0 && isFunctionResponseContent(contents[n-1]) {
				contents[n-1].Parts = append(contents[n-1].Parts, part)
				continue
			}
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{part}})
		}
	}

	if len(system) == 0 {
		return nil, contents
	}
	return &genai.Content{Parts: system}, contents
}

func isFunctionResponseContent(c *genai.Content) bool {
	return c.Role == genai.RoleUser && len(c.Parts) > 0 && c.Parts[0].FunctionResponse != nil
}

// toolResponse decodes a tool message body. Gemini wants an object, so
// anything that is not a JSON object is wrapped under "output".
func toolResponse(content string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err == nil && obj != nil {
		return obj
	}
	return map[string]any{"output": content}
}

// toTools converts declarations into a single Gemini tool.
func toTools(decls []models.FunctionDeclaration) []*genai.Tool {
	if len(decls) == 0 {
		return nil
	}
	fns := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		fns = append(fns, &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  toSchema(d.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: fns}}
}

func toSchema(p models.Parameters) *genai.Schema {
	schema := &genai.Schema{
		Type:     genai.TypeObject,
		Required: p.Required,
	}
	if len(p.Properties) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(p.Properties))
		for name, raw := range p.Properties {
			if prop, ok := raw.(map[string]interface{}); ok {
				schema.Properties[name] = propertySchema(prop)
			}
		}
	}
	return schema
}

func propertySchema(prop map[string]interface{}) *genai.Schema {
	s := &genai.Schema{}
	if t, ok := prop["type"].(string); ok {
		s.Type = genai.Type(strings.ToUpper(t))
	}
	if d, ok := prop["description"].(string); ok {
		s.Description = d
	}
	switch enum := prop["enum"].(type) {
	case []string:
		s.Enum = enum
	case []interface{}:
		for _, v := range enum {
			s.Enum = append(s.Enum, fmt.Sprint(v))
		}
	}
	if items, ok := prop["items"].(map[string]interface{}); ok {
		s.Items = propertySchema(items)
	}
	if props, ok := prop["properties"].(map[string]interface{}); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if sub, ok := raw.(map[string]interface{}); ok {
				s.Properties[name] = propertySchema(sub)
			}
		}
	}
	if req, ok := prop["required"].([]string); ok {
		s.Required = req
	}
	return s
}

// fromResponse folds the first candidate into one assistant message.
func fromResponse(resp *genai.GenerateContentResponse) (models.Message, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return models.Message{}, fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return models.Message{}, fmt.Errorf("empty response from model")
	}

	msg := models.Message{Role: models.RoleAssistant}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return msg, nil
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}
		if part.FunctionCall != nil {
			msg.ToolCalls = append(msg.ToolCalls, models.FunctionCall{
				ID:               part.FunctionCall.ID,
				Name:             part.FunctionCall.Name,
				Args:             part.FunctionCall.Args,
				ThoughtSignature: part.ThoughtSignature,
			})
			continue
		}
		if part.Text != "" && !part.Thought {
			text.WriteString(part.Text)
		}
	}
	msg.Content = text.String()
	return msg, nil
}
