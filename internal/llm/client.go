package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTimeout      = 20 * time.Second
	DefaultCheckTimeout = 10 * time.Second

	maxReplyBytes   = 1 << 20
	maxDetailsChars = 200
)

var (
	ErrNoEndpoint      = errors.New("no LLM endpoint configured")
	ErrInvalidEndpoint = errors.New("invalid LLM endpoint")
	ErrRequest         = errors.New("LLM request failed")
	ErrStatus          = errors.New("LLM returned non-success status")
	ErrEmptyReply      = errors.New("LLM reply had no content")
)

// Config configures a Client.
type Config struct {
	APIURL       string
	Model        string
	APIKey       string
	Timeout      time.Duration // per generation request
	CheckTimeout time.Duration // per service check
}

// Client talks to a single chat-completion endpoint.
// It is safe for concurrent use.
type Client struct {
	provider     Provider
	endpoint     string
	model        string
	apiKey       string
	checkTimeout time.Duration
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewClient creates a client for cfg.APIURL. The provider is detected once here.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIURL) == "" {
		return nil, ErrNoEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	provider := DetectProvider(cfg.APIURL)
	endpoint, err := normalizeEndpoint(provider, cfg.APIURL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	checkTimeout := cfg.CheckTimeout
	if checkTimeout <= 0 {
		checkTimeout = DefaultCheckTimeout
	}

	return &Client{
		provider:     provider,
		endpoint:     endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		checkTimeout: checkTimeout,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger.Named("llm"),
	}, nil
}

// Provider returns the detected provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// Endpoint returns the normalized chat endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// GenerateTags asks for 5-8 comma-separated tags describing the page.
// Any failure is logged and yields "".
func (c *Client) GenerateTags(ctx context.Context, url, content string) string {
	reply, err := c.complete(ctx, buildTagsPrompt(url, content))
	if err != nil {
		c.logger.Warn("tag generation failed", zap.String("url", url), zap.Error(err))
		return ""
	}
	return cleanTags(reply)
}

// GenerateDescription asks for a 100-150 word description of the page.
// Any failure is logged and yields "".
func (c *Client) GenerateDescription(ctx context.Context, url, content string) string {
	reply, err := c.complete(ctx, buildDescriptionPrompt(url, content))
	if err != nil {
		c.logger.Warn("description generation failed", zap.String("url", url), zap.Error(err))
		return ""
	}
	return cleanReply(reply)
}

// CheckService probes the endpoint. It never fails; problems are
// reported through ServiceStatus.Error.
func (c *Client) CheckService(ctx context.Context) ServiceStatus {
	probe := modelsURL(c.endpoint)
	if c.provider == ProviderLocal {
		probe = baseURL(c.endpoint)
	}

	status := ServiceStatus{
		Provider: c.provider,
		Endpoint: probe,
	}

	ctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probe, nil)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		status.Error = fmt.Errorf("%w: %w", ErrRequest, err).Error()
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	details := truncate(strings.TrimSpace(string(body)), maxDetailsChars)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		status.Error = fmt.Sprintf("%s: %d", ErrStatus, resp.StatusCode)
		status.Details = details
		return status
	}

	status.Available = true
	status.Details = details
	c.logger.Debug("service check ok", zap.String("endpoint", probe), zap.Stringer("provider", c.provider))
	return status
}

// complete sends a single user prompt and returns the raw reply text.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := c.provider.requestBody(c.model, prompt)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d: %s", ErrStatus, resp.StatusCode, truncate(strings.TrimSpace(string(respBody)), maxDetailsChars))
	}

	content := strings.TrimSpace(extractContent(respBody))
	if content == "" {
		return "", ErrEmptyReply
	}

	c.logger.Debug("completion received",
		zap.Stringer("provider", c.provider),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(content)),
	)
	return content, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.provider.sendsAuth() && c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
