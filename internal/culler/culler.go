// Package culler finds records whose URLs no longer resolve.
package culler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nikbrunner/pagemark/internal/model"
)

const (
	DefaultConcurrency = 10
	DefaultTimeout     = 10 * time.Second
	maxRedirects       = 10
)

// Status is the health of a single URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx
	Dead                      // 404 or 410
	Unreachable               // network failure or any other status
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	default:
		return "unreachable"
	}
}

// Result is the check outcome for one record.
type Result struct {
	Record     model.Record
	Status     Status
	StatusCode int    // 0 if no response was received
	Error      string // short reason for unreachable URLs
}

// ProgressFunc is called after each URL is checked.
type ProgressFunc func(completed, total int)

// Options configures a Checker.
type Options struct {
	Concurrency    int
	Timeout        time.Duration
	ExcludeDomains []string // 404s here mean "possibly private", not dead
	UserAgent      string
	OnProgress     ProgressFunc
}

// Checker checks URLs with a fixed-size worker pool.
type Checker struct {
	opts    Options
	exclude map[string]bool
	client  *http.Client
	logger  *zap.Logger
}

// New creates a Checker.
func New(opts Options, logger *zap.Logger) *Checker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	exclude := make(map[string]bool, len(opts.ExcludeDomains))
	for _, domain := range opts.ExcludeDomains {
		exclude[strings.ToLower(strings.TrimSpace(domain))] = true
	}

	return &Checker{
		opts:    opts,
		exclude: exclude,
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		logger: logger.Named("culler"),
	}
}

// Check checks every record concurrently. Results are in input order.
// Cancelling ctx marks the remaining records unreachable.
func (c *Checker) Check(ctx context.Context, records []model.Record) []Result {
	if len(records) == 0 {
		return nil
	}

	results := make([]Result, len(records))
	jobs := make(chan int, len(records))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	workers := min(c.opts.Concurrency, len(records))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = c.checkOne(ctx, records[idx])

				if c.opts.OnProgress != nil {
					progressMu.Lock()
					completed++
					c.opts.OnProgress(completed, len(records))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range records {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	dead := len(Filter(results, Dead))
	c.logger.Info("cull finished", zap.Int("checked", len(records)), zap.Int("dead", dead))
	return results
}

// Filter returns the results with the given status.
func Filter(results []Result, status Status) []Result {
	var out []Result
	for _, r := range results {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

func (c *Checker) checkOne(ctx context.Context, record model.Record) Result {
	result := Result{Record: record}

	// HEAD first; some servers reject it, so fall back to GET
	resp, err := c.do(ctx, http.MethodHead, record.URL)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed {
		if resp != nil {
			_ = resp.Body.Close()
		}
		resp, err = c.do(ctx, http.MethodGet, record.URL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			c.logger.Debug("unreachable", zap.String("url", record.URL), zap.Error(err))
			return result
		}
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		if c.isExcluded(record.URL) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		// 403, 5xx and friends may be temporary or need auth
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}
	return result
}

func (c *Checker) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}
	return c.client.Do(req)
}

// isExcluded matches the host and its parent domains against the exclude list.
func (c *Checker) isExcluded(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for domain := range c.exclude {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError maps verbose transport errors to short categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "context canceled"):
		return "Canceled"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}
