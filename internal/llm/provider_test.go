package llm

import (
	"encoding/json"
	"testing"

	"gotest.tools/v3/assert"
)

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		url  string
		want Provider
	}{
		{"http://localhost:11434/api/chat", ProviderLocal},
		{"http://ollama.internal:8080/api/chat", ProviderLocal},
		{"https://OLLAMA.example.com", ProviderLocal},
		{"https://api.openai.com/v1/chat/completions", ProviderOpenAI},
		{"https://openrouter.ai/api/v1/chat/completions", ProviderOpenAI},
		{"not a url", ProviderOpenAI},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, DetectProvider(tt.url), tt.want)
		})
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	got, err := normalizeEndpoint(ProviderLocal, "http://localhost:11434/v1/chat/completions?x=1")
	assert.NilError(t, err)
	assert.Equal(t, got, "http://localhost:11434/api/chat")

	got, err = normalizeEndpoint(ProviderOpenAI, "https://api.openai.com/v1/chat/completions")
	assert.NilError(t, err)
	assert.Equal(t, got, "https://api.openai.com/v1/chat/completions")

	_, err = normalizeEndpoint(ProviderOpenAI, "localhost")
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
}

func TestRequestBody(t *testing.T) {
	t.Run("local", func(t *testing.T) {
		body, err := ProviderLocal.requestBody("llama3.2", "hi")
		assert.NilError(t, err)

		var got map[string]any
		assert.NilError(t, json.Unmarshal(body, &got))
		assert.Equal(t, got["model"], "llama3.2")
		assert.Equal(t, got["stream"], false)
		_, hasMax := got["max_tokens"]
		assert.Assert(t, !hasMax)
	})

	t.Run("openai", func(t *testing.T) {
		body, err := ProviderOpenAI.requestBody("gpt-4o-mini", "hi")
		assert.NilError(t, err)

		var got map[string]any
		assert.NilError(t, json.Unmarshal(body, &got))
		assert.Equal(t, got["max_tokens"], float64(500))
		_, hasStream := got["stream"]
		assert.Assert(t, !hasStream)

		msgs := got["messages"].([]any)
		assert.Equal(t, len(msgs), 1)
		msg := msgs[0].(map[string]any)
		assert.Equal(t, msg["role"], "user")
		assert.Equal(t, msg["content"], "hi")
	})
}

func TestExtractContent(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"chat", `{"message":{"role":"assistant","content":"a"}}`, "a"},
		{"openai", `{"choices":[{"message":{"content":"b"}}]}`, "b"},
		{"legacy", `{"response":"c"}`, "c"},
		{"chat wins", `{"message":{"content":"a"},"choices":[{"message":{"content":"b"}}],"response":"c"}`, "a"},
		{"empty choices", `{"choices":[]}`, ""},
		{"not json", `oops`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, extractContent([]byte(tt.body)), tt.want)
		})
	}
}

func TestModelsURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://api.openai.com/v1/chat/completions", "https://api.openai.com/v1/models"},
		{"https://openrouter.ai/api/v1/chat/completions", "https://openrouter.ai/api/v1/models"},
		{"https://example.com/v1/completions", "https://example.com/v1/models"},
		{"https://example.com/v1/", "https://example.com/v1/models"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, modelsURL(tt.in), tt.want)
		})
	}
}

func TestCleanReply(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  plain  ", "plain"},
		{`"quoted"`, "quoted"},
		{"Description: A page about Go.", "A page about Go."},
		{"Here is the description: Short.", "Short."},
		{`"Summary: nested"`, "nested"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, cleanReply(tt.in), tt.want)
		})
	}
}

func TestCleanTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tags: Go, Testing, go", "go, testing"},
		{"- rust\n- systems\n- Rust", "rust, systems"},
		{`"#ai, #ml"`, "ai, ml"},
		{"1. web, 2. css", "web, css"},
		{"3d printing, CAD", "3d printing, cad"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, cleanTags(tt.in), tt.want)
		})
	}
}
