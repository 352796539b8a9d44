package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"maumjari-counsel-be/pkg/llm"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Provider talks to any OpenAI-compatible chat completions endpoint
// (OpenAI, vLLM, TGI, Hugging Face router).
type Provider struct {
	client oa.Client
	model  string
}

var _ llm.LLMProvider = &Provider{}
var _ llm.HealthChecker = &Provider{}

func NewProvider(apiKey, baseURL, model string, timeout time.Duration) *Provider {
	if apiKey == "" {
		// self-hosted servers usually ignore the key but the client requires one
		apiKey = "EMPTY"
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &Provider{
		client: oa.NewClient(opts...),
		model:  model,
	}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(opts...)

	model := p.model
	if options.Model != "" {
		model = options.Model
	}

	messages := make([]oa.ChatCompletionMessageParamUnion, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case llm.RoleSystem:
			messages = append(messages, oa.SystemMessage(m.Content))
		case llm.RoleAssistant, "model":
			messages = append(messages, oa.AssistantMessage(m.Content))
		default:
			messages = append(messages, oa.UserMessage(m.Content))
		}
	}

	params := oa.ChatCompletionNewParams{
		Model:       oa.ChatModel(model),
		Messages:    messages,
		Temperature: oa.Float(options.Temperature),
	}
	if options.TopP > 0 {
		params.TopP = oa.Float(options.TopP)
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = oa.Int(int64(options.MaxTokens))
	}

	// sampling knobs outside the OpenAI schema, understood by vLLM/TGI
	var extra []option.RequestOption
	if options.TopK > 0 {
		extra = append(extra, option.WithJSONSet("top_k", options.TopK))
	}
	if options.RepetitionPenalty > 0 {
		extra = append(extra, option.WithJSONSet("repetition_penalty", options.RepetitionPenalty))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params, extra...)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", llm.ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

// Ping lists models to confirm the endpoint and key are usable.
func (p *Provider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("openai models: %w", err)
	}
	return nil
}
