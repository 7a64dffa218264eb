package sessions

import (
	"log"

	"github.com/Desarso/toolchat/models"
)

// SanitizeHistory repairs tool-call structure in a client supplied history so
// model APIs accept it:
//   - tool messages that answer no pending call of the preceding assistant
//     message are dropped
//   - tool calls that never receive a result are removed from their assistant
//     message, and an assistant message left with neither text nor calls is dropped
//
// All other messages pass through unchanged and in order.
func SanitizeHistory(msgs []models.Message) []models.Message {
	if len(msgs) == 0 {
		return msgs
	}

	result := make([]models.Message, 0, len(msgs))
	i := 0
	for i < len(msgs) {
		msg := msgs[i]
		switch {
		case msg.HasToolCalls():
			cycle, next := collectToolCycle(msgs, i)
			result = append(result, cycle...)
			i = next

		case msg.Role == models.RoleTool:
			log.Printf("[HISTORY_SANITIZER] Removing orphaned tool result at index %d (call %q)", i, msg.ToolCallID)
			i++

		default:
			result = append(result, msg)
			i++
		}
	}

	if len(result) != len(msgs) {
		log.Printf("[HISTORY_SANITIZER] Removed %d messages with broken tool cycles", len(msgs)-len(result))
	}
	return result
}

// collectToolCycle takes the assistant message at start plus the tool messages
// that follow it, keeping only calls and results that match up. It returns the
// repaired cycle and the index to continue from.
func collectToolCycle(msgs []models.Message, start int) ([]models.Message, int) {
	assistant := msgs[start]
	pending := make(map[string]bool, len(assistant.ToolCalls))
	for _, call := range assistant.ToolCalls {
		pending[call.ID] = true
	}

	answered := make(map[string]bool, len(pending))
	results := []models.Message{}
	i := start + 1
	for i < len(msgs) && msgs[i].Role == models.RoleTool {
		id := msgs[i].ToolCallID
		if pending[id] && !answered[id] {
			answered[id] = true
			results = append(results, msgs[i])
		} else {
			log.Printf("[HISTORY_SANITIZER] Removing tool result %q at index %d with no matching call", id, i)
		}
		i++
	}

	kept := make([]models.FunctionCall, 0, len(assistant.ToolCalls))
	for _, call := range assistant.ToolCalls {
		if answered[call.ID] {
			kept = append(kept, call)
		}
	}
	if len(kept) != len(assistant.ToolCalls) {
		log.Printf("[HISTORY_SANITIZER] Removing %d unanswered tool call(s) at index %d", len(assistant.ToolCalls)-len(kept), start)
	}

	if len(kept) == 0 {
		assistant.ToolCalls = nil
		if assistant.Content == "" {
			return results, i
		}
		return append([]models.Message{assistant}, results...), i
	}
	assistant.ToolCalls = kept
	return append([]models.Message{assistant}, results...), i
}

// DetectHistoryIssues lists structural problems in a history without changing it.
func DetectHistoryIssues(msgs []models.Message) []string {
	issues := []string{}
	pending := map[string]bool{}

	for _, msg := range msgs {
		switch {
		case msg.HasToolCalls():
			if len(pending) > 0 {
				issues = append(issues, "Tool call(s) left unanswered before a new assistant turn")
			}
			pending = map[string]bool{}
			for _, call := range msg.ToolCalls {
				pending[call.ID] = true
			}
		case msg.Role == models.RoleTool:
			if !pending[msg.ToolCallID] {
				issues = append(issues, "Tool result without a matching tool call")
				continue
			}
			delete(pending, msg.ToolCallID)
		default:
			if len(pending) > 0 {
				issues = append(issues, "Tool call(s) left unanswered before a "+msg.Role+" message")
				pending = map[string]bool{}
			}
		}
	}
	if len(pending) > 0 {
		issues = append(issues, "Unanswered tool call(s) at end of history")
	}
	return issues
}
