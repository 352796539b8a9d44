package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"maumjari-counsel-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletion(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "counseling-midm",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "오늘 많이 지치셨겠어요."}}]
		}`))
	}))
	defer srv.Close()

	p := NewProvider("", srv.URL+"/", "counseling-midm", 5*time.Second)
	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "sys"},
		{Role: llm.RoleUser, Content: "안녕하세요"},
	}, llm.WithMaxTokens(150), llm.WithTopP(0.8), llm.WithTopK(50), llm.WithRepetitionPenalty(1.2))

	require.NoError(t, err)
	assert.Equal(t, "오늘 많이 지치셨겠어요.", out)
	assert.Equal(t, "counseling-midm", body["model"])
	assert.EqualValues(t, 150, body["max_tokens"])
	assert.EqualValues(t, 50, body["top_k"])
	assert.InDelta(t, 1.2, body["repetition_penalty"], 1e-9)

	msgs, ok := body["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
}

func TestChatNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	p := NewProvider("key", srv.URL+"/", "m", time.Second)
	_, err := p.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, llm.ErrEmptyCompletion)
}
