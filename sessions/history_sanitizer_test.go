package sessions

import (
	"testing"

	"github.com/Desarso/toolchat/models"
)

func call(id, name string) models.FunctionCall {
	return models.FunctionCall{ID: id, Name: name, Args: map[string]interface{}{}}
}

func TestSanitizeHistoryKeepsCleanHistory(t *testing.T) {
	msgs := []models.Message{
		models.NewUserMessage("what is 2+2?"),
		models.NewAssistantMessage("", call("c1", "add")),
		models.NewToolMessage("c1", "add", `{"result":4}`),
		models.NewAssistantMessage("4"),
		models.NewUserMessage("thanks"),
	}
	got := SanitizeHistory(msgs)
	if len(got) != len(msgs) {
		t.Fatalf("expected %d messages, got %d", len(msgs), len(got))
	}
	if issues := DetectHistoryIssues(msgs); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}

func TestSanitizeHistoryDropsOrphanToolResult(t *testing.T) {
	msgs := []models.Message{
		models.NewToolMessage("ghost", "add", `{"result":4}`),
		models.NewUserMessage("hi"),
	}
	got := SanitizeHistory(msgs)
	if len(got) != 1 || got[0].Role != models.RoleUser {
		t.Errorf("expected only the user message, got %+v", got)
	}
	if issues := DetectHistoryIssues(msgs); len(issues) != 1 {
		t.Errorf("expected one issue, got %v", issues)
	}
}

func TestSanitizeHistoryRemovesUnansweredCalls(t *testing.T) {
	msgs := []models.Message{
		models.NewUserMessage("compute"),
		models.NewAssistantMessage("working on it", call("c1", "add"), call("c2", "multiply")),
		models.NewToolMessage("c2", "multiply", `{"result":9}`),
		models.NewToolMessage("c9", "divide", `{"result":1}`),
	}
	got := SanitizeHistory(msgs)
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d: %+v", len(got), got)
	}
	if len(got[1].ToolCalls) != 1 || got[1].ToolCalls[0].ID != "c2" {
		t.Errorf("expected only call c2 to survive, got %+v", got[1].ToolCalls)
	}
	if got[2].ToolCallID != "c2" {
		t.Errorf("expected result for c2, got %q", got[2].ToolCallID)
	}
	if len(msgs[1].ToolCalls) != 2 {
		t.Error("input history must not be modified")
	}
}

func TestSanitizeHistoryDropsEmptyTrailingCall(t *testing.T) {
	msgs := []models.Message{
		models.NewUserMessage("compute"),
		models.NewAssistantMessage("", call("c1", "add")),
	}
	got := SanitizeHistory(msgs)
	if len(got) != 1 {
		t.Fatalf("expected only the user message, got %+v", got)
	}
	issues := DetectHistoryIssues(msgs)
	if len(issues) != 1 || issues[0] != "Unanswered tool call(s) at end of history" {
		t.Errorf("unexpected issues %v", issues)
	}
}
