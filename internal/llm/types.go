package llm

// ServiceStatus describes whether the configured endpoint is reachable.
type ServiceStatus struct {
	Available bool     `json:"available"`
	Provider  Provider `json:"provider"`
	Endpoint  string   `json:"endpoint"` // URL that was probed
	Details   string   `json:"details,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// chatRequest is the request body shared by both providers.
// Stream is only sent to local providers, MaxTokens only to OpenAI-compatible ones.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	Stream    *bool         `json:"stream,omitempty"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse covers the reply shapes we understand:
// {message:{content}}, {choices:[{message:{content}}]} and {response}.
type chatResponse struct {
	Message  *chatMessage `json:"message"`
	Choices  []chatChoice `json:"choices"`
	Response string       `json:"response"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}
