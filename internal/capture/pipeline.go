// Package capture turns a URL into a bookmark record: it renders the page in
// a disposable browser session, extracts title and text, saves a cropped
// screenshot and asks an Enricher for tags and a description.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nikbrunner/pagemark/internal/model"
)

const (
	DefaultNavigationTimeout = 30 * time.Second
	DefaultStepTimeout       = 10 * time.Second
	DefaultSettleDelay       = 500 * time.Millisecond
	DefaultMaxTextChars      = 3000
)

// DefaultClip is a 16:9 region at the top-left of a 1280x800 viewport.
var DefaultClip = Rect{X: 0, Y: 0, Width: 1280, Height: 720}

var ErrNoScreenshotDir = errors.New("no screenshot directory configured")

// Enricher generates tags and a description for page content.
// Implementations return "" on failure rather than an error.
type Enricher interface {
	GenerateTags(ctx context.Context, url, content string) string
	GenerateDescription(ctx context.Context, url, content string) string
}

// Config controls a Pipeline.
type Config struct {
	ScreenshotDir     string
	NavigationTimeout time.Duration
	// StepTimeout bounds each browser step after navigation.
	StepTimeout     time.Duration
	SettleDelay     time.Duration
	Clip            Rect
	BannerSelectors []string
	MaxTextChars    int
}

// DefaultConfig returns the standard settings writing screenshots to dir.
func DefaultConfig(dir string) Config {
	return Config{
		ScreenshotDir:     dir,
		NavigationTimeout: DefaultNavigationTimeout,
		StepTimeout:       DefaultStepTimeout,
		SettleDelay:       DefaultSettleDelay,
		Clip:              DefaultClip,
		BannerSelectors:   DefaultBannerSelectors,
		MaxTextChars:      DefaultMaxTextChars,
	}
}

// Pipeline captures pages. Each call uses its own browser session, so
// concurrent captures are independent.
type Pipeline struct {
	cfg      Config
	browser  Browser
	enricher Enricher
	logger   *zap.Logger
	now      func() time.Time
}

// NewPipeline creates a pipeline. enricher may be nil, in which case
// tags and description stay empty.
func NewPipeline(cfg Config, browser Browser, enricher Enricher, logger *zap.Logger) *Pipeline {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = DefaultNavigationTimeout
	}
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = DefaultStepTimeout
	}
	if cfg.Clip.Width <= 0 || cfg.Clip.Height <= 0 {
		cfg.Clip = DefaultClip
	}
	if cfg.MaxTextChars <= 0 {
		cfg.MaxTextChars = DefaultMaxTextChars
	}
	return &Pipeline{
		cfg:      cfg,
		browser:  browser,
		enricher: enricher,
		logger:   logger.Named("capture"),
		now:      time.Now,
	}
}

// pageResult is what a session produced before teardown.
type pageResult struct {
	title      string
	text       string
	screenshot string
}

// Capture renders rawURL and returns a fully populated record. Only a missing
// screenshot directory or a browser that cannot start are errors; every
// other failure degrades the result.
func (p *Pipeline) Capture(ctx context.Context, rawURL string) (model.Record, error) {
	url := model.NormalizeURL(rawURL)
	log := p.logger.With(zap.String("capture_id", uuid.NewString()), zap.String("url", url))
	start := p.now()

	res, err := p.run(ctx, url, log, true)
	if err != nil {
		return model.Record{}, err
	}

	content := res.title
	if res.text != "" {
		content += "\n\n" + res.text
	}

	rec := model.NewRecord(url)
	rec.Title = res.title
	if p.enricher != nil {
		rec.Tags = p.enricher.GenerateTags(ctx, url, content)
		rec.Description = p.enricher.GenerateDescription(ctx, url, content)
	}
	rec.Screenshot = existingPath(res.screenshot)

	log.Info("capture finished",
		zap.String("title", rec.Title),
		zap.Bool("screenshot", rec.Screenshot != ""),
		zap.Bool("tags", rec.Tags != ""),
		zap.Duration("elapsed", p.now().Sub(start)),
	)
	return rec, nil
}

// CaptureScreenshot only refreshes the screenshot of rawURL. It returns
// the new file path, or "" when the screenshot could not be taken.
func (p *Pipeline) CaptureScreenshot(ctx context.Context, rawURL string) (string, error) {
	url := model.NormalizeURL(rawURL)
	log := p.logger.With(zap.String("capture_id", uuid.NewString()), zap.String("url", url))

	res, err := p.run(ctx, url, log, false)
	if err != nil {
		return "", err
	}
	path := existingPath(res.screenshot)
	log.Info("screenshot refreshed", zap.Bool("screenshot", path != ""))
	return path, nil
}

// run performs the browser part of a capture. The session is closed on
// every path out of this function.
func (p *Pipeline) run(ctx context.Context, url string, log *zap.Logger, extract bool) (res pageResult, err error) {
	if p.cfg.ScreenshotDir == "" {
		return res, ErrNoScreenshotDir
	}
	if err := os.MkdirAll(p.cfg.ScreenshotDir, 0o755); err != nil {
		return res, fmt.Errorf("create screenshot directory: %w", err)
	}

	session, err := p.browser.NewSession(ctx)
	if err != nil {
		return res, fmt.Errorf("capture %s: %w", url, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Warn("failed to close browser session", zap.Error(cerr))
		}
	}()

	navCtx, cancel := context.WithTimeout(ctx, p.cfg.NavigationTimeout)
	navErr := session.Navigate(navCtx, url)
	cancel()
	if navErr != nil {
		log.Warn("navigation incomplete, continuing with current page", zap.Error(navErr))
	}

	res.title = model.UntitledTitle
	if extract {
		stepCtx, cancel := p.step(ctx)
		title, err := session.Title(stepCtx)
		cancel()
		if err != nil {
			log.Warn("failed to read title", zap.Error(err))
		} else if t := strings.TrimSpace(title); t != "" {
			res.title = t
		}
	}

	p.hideBanners(ctx, session, log)

	if extract {
		res.text = p.extractText(ctx, session, log)
	}

	res.screenshot = p.screenshot(ctx, session, url, log)
	return res, nil
}

func (p *Pipeline) step(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.cfg.StepTimeout)
}

func (p *Pipeline) hideBanners(ctx context.Context, session Session, log *zap.Logger) {
	if len(p.cfg.BannerSelectors) == 0 {
		return
	}

	stepCtx, cancel := p.step(ctx)
	hidden, err := session.HideElements(stepCtx, p.cfg.BannerSelectors)
	cancel()
	if err != nil {
		log.Debug("banner suppression failed", zap.Error(err))
		return
	}
	log.Debug("banners hidden", zap.Int("count", hidden))

	if p.cfg.SettleDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(p.cfg.SettleDelay):
	}
}

func (p *Pipeline) extractText(ctx context.Context, session Session, log *zap.Logger) string {
	stepCtx, cancel := p.step(ctx)
	doc, err := session.HTML(stepCtx)
	cancel()
	if err != nil {
		log.Warn("failed to read document", zap.Error(err))
		return ExtractionFailedText
	}

	text, err := ExtractText(doc, p.cfg.MaxTextChars)
	if err != nil {
		log.Warn("failed to extract text", zap.Error(err))
		return ExtractionFailedText
	}
	return text
}

// screenshot writes the clipped screenshot and returns its path, or "" on
// failure. A partially written file is removed.
func (p *Pipeline) screenshot(ctx context.Context, session Session, url string, log *zap.Logger) string {
	stepCtx, cancel := p.step(ctx)
	buf, err := session.Screenshot(stepCtx, p.cfg.Clip)
	cancel()
	if err != nil {
		log.Warn("screenshot failed", zap.Error(err))
		return ""
	}
	if len(buf) == 0 {
		log.Warn("screenshot was empty")
		return ""
	}

	path, err := filepath.Abs(filepath.Join(p.cfg.ScreenshotDir, ScreenshotName(url, p.now())))
	if err != nil {
		log.Warn("failed to resolve screenshot path", zap.Error(err))
		return ""
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		log.Warn("failed to write screenshot", zap.String("path", path), zap.Error(err))
		if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			log.Warn("failed to remove partial screenshot", zap.Error(rerr))
		}
		return ""
	}
	return path
}

// existingPath returns path if it names an existing file, else "".
func existingPath(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
