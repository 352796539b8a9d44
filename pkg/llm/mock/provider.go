package mock

import (
	"context"
	"fmt"
	"sync"

	"maumjari-counsel-be/pkg/llm"
)

// Provider is a scripted backend for local runs and tests. It replays
// Replies in order, then repeats the last one; with no replies it echoes
// the final user message.
type Provider struct {
	mu      sync.Mutex
	Replies []string
	Err     error
	Calls   [][]llm.Message
	Options []*llm.Options
}

var _ llm.LLMProvider = &Provider{}
var _ llm.HealthChecker = &Provider{}

func NewProvider(replies ...string) *Provider {
	return &Provider{Replies: replies}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Calls = append(p.Calls, append([]llm.Message{}, history...))
	p.Options = append(p.Options, llm.Apply(opts...))

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.Err != nil {
		return "", p.Err
	}

	n := len(p.Calls) - 1
	if len(p.Replies) > 0 {
		if n >= len(p.Replies) {
			n = len(p.Replies) - 1
		}
		return p.Replies[n], nil
	}

	last := ""
	if len(history) > 0 {
		last = history[len(history)-1].Content
	}
	return fmt.Sprintf("말씀하신 %q 이야기를 잘 들었어요. 그때 어떤 마음이 드셨는지 조금 더 들려주시겠어요?", last), nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (p *Provider) Ping(ctx context.Context) error {
	return nil
}

// LastCall returns the most recent message list sent to the provider.
func (p *Provider) LastCall() []llm.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Calls) == 0 {
		return nil
	}
	return p.Calls[len(p.Calls)-1]
}

// CallCount returns how many times Chat or Generate ran.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Calls)
}

// SetError makes subsequent calls fail with err.
func (p *Provider) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Err = err
}
