package models

// FunctionCall is a tool invocation requested by the model.
type FunctionCall struct {
	ID   string                 `json:"id,omitempty"` // Unique ID for this specific call instance
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
	// ThoughtSignature is an opaque provider token that must be echoed back with the call.
	ThoughtSignature []byte `json:"-"`
}

// Tool_Result is the outcome of running one FunctionCall.
type Tool_Result struct {
	Tool_ID     string `json:"tool_id"` // The tool call ID to match with the tool call
	Tool_Name   string `json:"tool_name"`
	Tool_Output string `json:"tool_output"`
	IsError     bool   `json:"is_error,omitempty"`
}

// Message converts the result into the tool-role message appended to the conversation.
func (r Tool_Result) Message() Message {
	return NewToolMessage(r.Tool_ID, r.Tool_Name, r.Tool_Output)
}
