package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/assert/cmp"
)

func newTestClient(t *testing.T, url, key string) *Client {
	t.Helper()
	c, err := NewClient(Config{APIURL: url, Model: "test-model", APIKey: key}, zap.NewNop())
	assert.NilError(t, err)
	return c
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	assert.Check(t, err)
	var got map[string]any
	assert.Check(t, json.Unmarshal(data, &got))
	return got
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	assert.ErrorIs(t, err, ErrNoEndpoint)

	c := newTestClient(t, "http://localhost:11434/v1/chat/completions", "")
	assert.Equal(t, c.Provider(), ProviderLocal)
	assert.Equal(t, c.Endpoint(), "http://localhost:11434/api/chat")

	c = newTestClient(t, "https://api.openai.com/v1/chat/completions", "sk-test")
	assert.Equal(t, c.Provider(), ProviderOpenAI)
	assert.Equal(t, c.httpClient.Timeout, DefaultTimeout)
	assert.Equal(t, c.checkTimeout, DefaultCheckTimeout)
}

func TestGenerateTagsLocal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Check(t, cmp.Equal(r.Method, http.MethodPost))
		assert.Check(t, cmp.Equal(r.URL.Path, "/api/chat"))
		assert.Check(t, cmp.Equal(r.Header.Get("Authorization"), ""))
		assert.Check(t, cmp.Equal(r.Header.Get("Content-Type"), "application/json"))

		body := decodeBody(t, r)
		assert.Check(t, cmp.Equal(body["model"], "test-model"))
		assert.Check(t, cmp.Equal(body["stream"], false))

		_, _ = io.WriteString(w, `{"message":{"role":"assistant","content":"Tags: Go, Testing, go"}}`)
	}))
	defer srv.Close()

	// the path marker selects the local provider; the path itself is replaced
	c := newTestClient(t, srv.URL+"/ollama", "ignored-key")
	assert.Equal(t, c.Provider(), ProviderLocal)

	got := c.GenerateTags(context.Background(), "https://go.dev", "The Go programming language")
	assert.Equal(t, got, "go, testing")
}

func TestGenerateDescriptionOpenAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Check(t, cmp.Equal(r.URL.Path, "/v1/chat/completions"))
		assert.Check(t, cmp.Equal(r.Header.Get("Authorization"), "Bearer sk-test"))

		body := decodeBody(t, r)
		assert.Check(t, cmp.Equal(body["max_tokens"], float64(500)))
		msgs := body["messages"].([]any)
		prompt := msgs[0].(map[string]any)["content"].(string)
		assert.Check(t, strings.Contains(prompt, "https://example.com"))
		assert.Check(t, strings.Contains(prompt, "page text"))

		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"\"Description: An example page.\""}}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/v1/chat/completions", "sk-test")
	got := c.GenerateDescription(context.Background(), "https://example.com", "page text")
	assert.Equal(t, got, "An example page.")
}

func TestGenerateLegacyResponseField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"response":"web, css"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/v1/chat/completions", "")
	assert.Equal(t, c.GenerateTags(context.Background(), "https://example.com", ""), "web, css")
}

func TestGenerateFailuresYieldEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "empty reply",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"choices":[]}`)
			},
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `<html>gateway</html>`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := newTestClient(t, srv.URL+"/v1/chat/completions", "")
			ctx := context.Background()
			assert.Equal(t, c.GenerateTags(ctx, "https://example.com", "x"), "")
			assert.Equal(t, c.GenerateDescription(ctx, "https://example.com", "x"), "")
		})
	}
}

func TestCompleteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/v1/chat/completions", "")
	_, err := c.complete(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrStatus)
	assert.ErrorContains(t, err, "429")

	srv.Close()
	_, err = c.complete(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrRequest)
}

func TestCompleteTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewClient(Config{APIURL: srv.URL + "/v1/chat/completions", Timeout: 50 * time.Millisecond}, zap.NewNop())
	assert.NilError(t, err)

	assert.Equal(t, c.GenerateTags(context.Background(), "https://example.com", ""), "")
}

func TestCheckServiceLocal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Check(t, cmp.Equal(r.Method, http.MethodGet))
		assert.Check(t, cmp.Equal(r.URL.Path, "/"))
		_, _ = io.WriteString(w, "Ollama is running")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/ollama", "")
	status := c.CheckService(context.Background())

	assert.Assert(t, status.Available)
	assert.Equal(t, status.Provider, ProviderLocal)
	assert.Equal(t, status.Endpoint, srv.URL+"/")
	assert.Equal(t, status.Details, "Ollama is running")
	assert.Equal(t, status.Error, "")
}

func TestCheckServiceOpenAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Check(t, cmp.Equal(r.URL.Path, "/v1/models"))
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"data":[{"id":"gpt-4o-mini"}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/v1/chat/completions", "sk-test")
	status := c.CheckService(context.Background())
	assert.Assert(t, status.Available)
	assert.Equal(t, status.Endpoint, srv.URL+"/v1/models")

	c = newTestClient(t, srv.URL+"/v1/chat/completions", "sk-wrong")
	status = c.CheckService(context.Background())
	assert.Assert(t, !status.Available)
	assert.Assert(t, strings.Contains(status.Error, "401"))
	assert.Equal(t, status.Details, "unauthorized")
}

func TestCheckServiceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url+"/v1/chat/completions", "")
	status := c.CheckService(context.Background())
	assert.Assert(t, !status.Available)
	assert.Assert(t, status.Error != "")
}
