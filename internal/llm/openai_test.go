package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

const chatReply = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "mistral",
	"choices": [{
		"index": 0,
		"message": {"role": "assistant", "content": "Consumers favour sustainable brands."},
		"finish_reason": "stop"
	}]
}`

func newTestServer(t *testing.T, status int, body string, seen *chatRequest, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClientInvoke(t *testing.T) {
	var seen chatRequest
	var calls int32
	srv := newTestServer(t, http.StatusOK, chatReply, &seen, &calls)

	client, err := NewOllamaClient(Options{BaseURL: srv.URL, Model: "mistral", Timeout: 5 * time.Second})
	require.NoError(t, err)

	got, err := client.Invoke(context.Background(), []Message{
		{Role: RoleSystem, Content: "be brief"},
		UserMessage("summarize this"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Consumers favour sustainable brands.", got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "mistral", seen.Model)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, "be brief", seen.Messages[0].Content)
	assert.Equal(t, "user", seen.Messages[1].Role)
	assert.Equal(t, "summarize this", seen.Messages[1].Content)
}

func TestOpenAIClientNoChoices(t *testing.T) {
	var calls int32
	srv := newTestServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[]}`, nil, &calls)

	client, err := NewOpenAIClient(Options{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Invoke(context.Background(), []Message{UserMessage("hi")})
	assert.Error(t, err)
}

func TestOpenAIClientDoesNotRetry(t *testing.T) {
	var calls int32
	srv := newTestServer(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`, nil, &calls)

	client, err := NewOpenAIClient(Options{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Invoke(context.Background(), []Message{UserMessage("hi")})
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOpenAIClientRejectsBadInput(t *testing.T) {
	client, err := NewOllamaClient(Options{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = client.Invoke(context.Background(), nil)
	assert.Error(t, err, "empty message list")

	_, err = client.Invoke(context.Background(), []Message{{Role: "tool", Content: "x"}})
	assert.Error(t, err, "unsupported role")

	var nilClient *OpenAIClient
	_, err = nilClient.Invoke(context.Background(), []Message{UserMessage("x")})
	assert.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	_, err := NewOpenAIClient(Options{})
	assert.Error(t, err, "openai requires an api key")

	c, err := NewOpenAIClient(Options{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", c.Model())
	assert.Equal(t, defaultChatTimeout, c.timeout)

	o, err := NewOllamaClient(Options{})
	require.NoError(t, err)
	assert.Equal(t, "mistral", o.Model())
}
