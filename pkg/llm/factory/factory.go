package factory

import (
	"fmt"
	"time"

	"maumjari-counsel-be/pkg/llm"
	"maumjari-counsel-be/pkg/llm/mock"
	"maumjari-counsel-be/pkg/llm/ollama"
	"maumjari-counsel-be/pkg/llm/openai"
)

// Settings selects and configures an LLM backend.
type Settings struct {
	Provider string // "ollama", "openai", "mock"
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "ollama":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.Model, s.Timeout), nil
	case "openai":
		return openai.NewProvider(s.APIKey, s.BaseURL, s.Model, s.Timeout), nil
	case "mock":
		return mock.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
