package chathistory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	userPrefix      = "사용자: "
	counselorPrefix = "상담사: "
)

// ErrNotConfigured is returned by a client without a base URL.
var ErrNotConfigured = errors.New("chathistory: base url not configured")

// Entry is one item of a day's history. The service emits either the
// sender/message shape or the paired userMessage/assistantReply shape.
type Entry struct {
	Sender         string `json:"sender,omitempty"`
	Message        string `json:"message,omitempty"`
	UserMessage    string `json:"userMessage,omitempty"`
	AssistantReply string `json:"assistantReply,omitempty"`
}

// Transcript is a day's history rendered for the report analyzer.
type Transcript struct {
	Text         string
	UserMessages int
}

type historyResponse struct {
	ChatHistory map[string][]Entry `json:"chatHistory"`
}

// Client reads grouped chat history from an external service.
type Client struct {
	BaseURL string
	Client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Fetch returns the transcript for date. A date with no entries yields an
// empty transcript and no error.
func (c *Client) Fetch(ctx context.Context, date string) (Transcript, error) {
	if c.BaseURL == "" {
		return Transcript{}, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/chat-history", nil)
	if err != nil {
		return Transcript{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return Transcript{}, fmt.Errorf("chat history request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Transcript{}, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Transcript{}, fmt.Errorf("chat history API error: %d - %s", resp.StatusCode, string(body))
	}

	var parsed historyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Transcript{}, fmt.Errorf("unmarshal response: %w", err)
	}

	return Render(parsed.ChatHistory[date]), nil
}

// Render joins entries into "사용자: ..." / "상담사: ..." lines and counts
// the user-authored messages.
func Render(entries []Entry) Transcript {
	lines := make([]string, 0, len(entries)*2)
	users := 0

	for _, e := range entries {
		if e.UserMessage != "" || e.AssistantReply != "" {
			lines = append(lines, userPrefix+e.UserMessage, counselorPrefix+e.AssistantReply)
			users++
			continue
		}
		if e.Sender == "user" {
			lines = append(lines, userPrefix+e.Message)
			users++
		} else {
			lines = append(lines, counselorPrefix+e.Message)
		}
	}

	return Transcript{Text: strings.Join(lines, "\n"), UserMessages: users}
}
