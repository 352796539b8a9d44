package chathistory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSenderShape(t *testing.T) {
	tr := Render([]Entry{
		{Sender: "user", Message: "요즘 잠이 안 와요"},
		{Sender: "bot", Message: "많이 힘드시겠어요."},
		{Sender: "user", Message: "일이 너무 많아요"},
	})
	assert.Equal(t, "사용자: 요즘 잠이 안 와요\n상담사: 많이 힘드시겠어요.\n사용자: 일이 너무 많아요", tr.Text)
	assert.Equal(t, 2, tr.UserMessages)
}

func TestRenderPairedShape(t *testing.T) {
	tr := Render([]Entry{{UserMessage: "불안해요", AssistantReply: "어떤 점이 불안하신가요?"}})
	assert.Equal(t, "사용자: 불안해요\n상담사: 어떤 점이 불안하신가요?", tr.Text)
	assert.Equal(t, 1, tr.UserMessages)
}

func TestRenderEmpty(t *testing.T) {
	tr := Render(nil)
	assert.Empty(t, tr.Text)
	assert.Zero(t, tr.UserMessages)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat-history", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chatHistory":{"2026-10-16":[{"sender":"user","message":"우울해요"},{"sender":"assistant","message":"그러셨군요."}]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", 0)

	tr, err := c.Fetch(context.Background(), "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, "사용자: 우울해요\n상담사: 그러셨군요.", tr.Text)
	assert.Equal(t, 1, tr.UserMessages)

	other, err := c.Fetch(context.Background(), "2026-10-15")
	require.NoError(t, err)
	assert.Empty(t, other.Text)
}

func TestFetchErrors(t *testing.T) {
	_, err := NewClient("", 0).Fetch(context.Background(), "2026-10-16")
	assert.ErrorIs(t, err, ErrNotConfigured)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err = NewClient(srv.URL, 0).Fetch(context.Background(), "2026-10-16")
	assert.ErrorContains(t, err, "503")
}
