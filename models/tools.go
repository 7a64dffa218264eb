package models

import "context"

// ToolFunc runs a tool with arguments that were already validated against the
// declaration's Parameters. The returned value is serialized into the tool message.
type ToolFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

type FunctionDeclaration struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
	Callable    ToolFunc   `json:"-"`
}

// Parameters defines the JSON Schema for function parameters
type Parameters struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Required   []string               `json:"required"`
}

// Property returns the schema map of a single parameter, or nil.
func (p Parameters) Property(name string) map[string]interface{} {
	prop, _ := p.Properties[name].(map[string]interface{})
	return prop
}
