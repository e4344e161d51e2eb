package llm

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Provider is the LLM backend family, which decides request and reply shape.
type Provider int

const (
	ProviderOpenAI Provider = iota // generic OpenAI-compatible API
	ProviderLocal                  // Ollama-style local server
)

const (
	localChatPath   = "/api/chat"
	defaultMaxTok   = 500
	localPortMarker = ":11434"
)

func (p Provider) String() string {
	switch p {
	case ProviderLocal:
		return "local"
	default:
		return "openai"
	}
}

// MarshalText lets ServiceStatus encode the provider by name.
func (p Provider) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// DetectProvider infers the provider from the endpoint URL. An "ollama"
// marker or the default Ollama port selects the local provider; anything
// else, including unrecognized URLs, is treated as OpenAI-compatible.
func DetectProvider(endpoint string) Provider {
	lower := strings.ToLower(endpoint)
	if strings.Contains(lower, "ollama") || strings.Contains(lower, localPortMarker) {
		return ProviderLocal
	}
	return ProviderOpenAI
}

// normalizeEndpoint validates endpoint and, for the local provider,
// replaces whatever path was given with the canonical chat path.
func normalizeEndpoint(p Provider, endpoint string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}

	if p == ProviderLocal {
		u.Path = localChatPath
		u.RawPath = ""
		u.RawQuery = ""
		u.Fragment = ""
	}
	return u.String(), nil
}

// requestBody builds the JSON body for a single-prompt chat call.
func (p Provider) requestBody(model, prompt string) ([]byte, error) {
	req := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	switch p {
	case ProviderLocal:
		stream := false
		req.Stream = &stream
	default:
		req.MaxTokens = defaultMaxTok
	}

	return json.Marshal(req)
}

// sendsAuth reports whether a bearer credential is attached for this provider.
func (p Provider) sendsAuth() bool {
	return p != ProviderLocal
}

// extractContent pulls the reply text out of body, trying the chat shape,
// then the OpenAI shape, then the legacy {response} shape.
// Returns "" when none match.
func extractContent(body []byte) string {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}

	if resp.Message != nil && resp.Message.Content != "" {
		return resp.Message.Content
	}
	if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
		return resp.Choices[0].Message.Content
	}
	return resp.Response
}

// baseURL returns scheme://host of endpoint.
func baseURL(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	return u.Scheme + "://" + u.Host + "/"
}

// modelsURL derives the model-listing endpoint from a chat endpoint:
// ".../v1/chat/completions" becomes ".../v1/models", any other path gets
// "/models" appended.
func modelsURL(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}

	path := u.Path
	if idx := strings.Index(path, "/chat/completions"); idx >= 0 {
		path = path[:idx]
	} else if idx := strings.Index(path, "/completions"); idx >= 0 {
		path = path[:idx]
	}
	u.Path = strings.TrimSuffix(path, "/") + "/models"
	u.RawPath = ""
	u.RawQuery = ""
	return u.String()
}
