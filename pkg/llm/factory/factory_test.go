package factory

import (
	"testing"

	"maumjari-counsel-be/pkg/llm/mock"
	"maumjari-counsel-be/pkg/llm/ollama"
	"maumjari-counsel-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(Settings{Provider: "ollama", Model: "midm"})
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", o.BaseURL)

	p, err = NewLLMProvider(Settings{Provider: "openai", Model: "m", BaseURL: "http://vllm:8000/v1/"})
	require.NoError(t, err)
	assert.IsType(t, &openai.Provider{}, p)

	p, err = NewLLMProvider(Settings{Provider: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &mock.Provider{}, p)

	_, err = NewLLMProvider(Settings{Provider: "gemini"})
	assert.Error(t, err)
}
