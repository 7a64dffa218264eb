package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Desarso/toolchat"
	"github.com/Desarso/toolchat/common_tools"
	"github.com/Desarso/toolchat/models"
	"github.com/Desarso/toolchat/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type modelFunc func(ctx context.Context, messages []models.Message, tools []models.FunctionDeclaration) (models.Message, error)

func (f modelFunc) Model_Request(ctx context.Context, messages []models.Message, tools []models.FunctionDeclaration) (models.Message, error) {
	return f(ctx, messages, tools)
}

func newTestServer(model toolchat.Model) *Server {
	agent := toolchat.Create_Agent(model, common_tools.ArithmeticTools(),
		toolchat.WithLogger(log.New(io.Discard, "", 0)))
	s := New(agent, sessions.NewWorkerPool(4), 0)
	s.Logger = log.New(io.Discard, "", 0)
	return s
}

func postChat(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestChatRunsToolLoop(t *testing.T) {
	var toolResult string
	model := modelFunc(func(_ context.Context, messages []models.Message, _ []models.FunctionDeclaration) (models.Message, error) {
		last := messages[len(messages)-1]
		if last.Role == models.RoleTool {
			toolResult = last.Content
			return models.NewAssistantMessage("4"), nil
		}
		return models.NewAssistantMessage("", models.FunctionCall{ID: "c1", Name: "add", Args: map[string]interface{}{"a": 2.0, "b": 2.0}}), nil
	})

	w := postChat(t, newTestServer(model).Handler(), `{"messages":[{"role":"user","content":"What is 2 plus 2?"}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, map[string]string{"response": "4"}, decodeBody(t, w))
	assert.JSONEq(t, `{"result":4}`, toolResult)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestChatAgentErrorIsBadRequest(t *testing.T) {
	model := modelFunc(func(context.Context, []models.Message, []models.FunctionDeclaration) (models.Message, error) {
		return models.Message{}, errors.New("quota exhausted")
	})
	w := postChat(t, newTestServer(model).Handler(), `{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "model request failed: quota exhausted", decodeBody(t, w)["error"])
}

func TestChatPanicIsGenericServerError(t *testing.T) {
	model := modelFunc(func(context.Context, []models.Message, []models.FunctionDeclaration) (models.Message, error) {
		panic("secret database password")
	})
	w := postChat(t, newTestServer(model).Handler(), `{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]string{"error": "Internal server error."}, decodeBody(t, w))
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	s := newTestServer(modelFunc(nil))
	s.Router().GET("/boom", func(*gin.Context) { panic("internal detail") })

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]string{"error": "Internal server error."}, decodeBody(t, w))
}

func TestChatRejectsMalformedBodies(t *testing.T) {
	h := newTestServer(modelFunc(func(context.Context, []models.Message, []models.FunctionDeclaration) (models.Message, error) {
		t.Error("model must not be called")
		return models.Message{}, nil
	})).Handler()

	for _, body := range []string{
		`not json`,
		`{}`,
		`{"messages":[]}`,
		`{"messages":[{"role":"wizard","content":"hi"}]}`,
	} {
		w := postChat(t, h, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.NotEmpty(t, decodeBody(t, w)["error"], body)
	}
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(modelFunc(nil)).Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"message": "Everything is working fine"}, decodeBody(t, w))
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/v1/chat", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	newTestServer(modelFunc(nil)).Handler().ServeHTTP(w, req)

	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestOpenAPIDocument(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(modelFunc(nil)).Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	paths, ok := doc["paths"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, paths, "/v1/chat")
}
