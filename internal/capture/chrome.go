package capture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// DefaultUserAgent is a current desktop Chrome user agent.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// ChromeOptions configures the Chrome processes started by ChromeBrowser.
type ChromeOptions struct {
	Headless  bool
	UserAgent string
	Width     int
	Height    int
	ExecPath  string // empty uses chromedp's lookup
}

// ChromeBrowser starts a fresh Chrome process with a temporary profile
// for every session.
type ChromeBrowser struct {
	opts   ChromeOptions
	logger *zap.Logger
}

// NewChromeBrowser returns a Browser backed by chromedp.
func NewChromeBrowser(opts ChromeOptions, logger *zap.Logger) *ChromeBrowser {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 800
	}
	return &ChromeBrowser{opts: opts, logger: logger.Named("chrome")}
}

// NewSession launches Chrome and opens a tab. The process is started
// eagerly so launch failures surface here rather than on first use.
func (b *ChromeBrowser) NewSession(ctx context.Context) (Session, error) {
	profile, err := os.MkdirTemp("", "pagemark-profile-*")
	if err != nil {
		return nil, fmt.Errorf("create browser profile: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.opts.Headless),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("mute-audio", true),
		chromedp.UserAgent(b.opts.UserAgent),
		chromedp.WindowSize(b.opts.Width, b.opts.Height),
		chromedp.UserDataDir(profile),
	)
	if b.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	sugar := b.logger.Sugar()
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Debugf),
	)

	s := &chromeSession{
		ctx:         tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		profile:     profile,
	}

	if err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(b.opts.Width), int64(b.opts.Height)),
		page.SetLifecycleEventsEnabled(true),
	); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	// alert, confirm and prompt dialogs block script evaluation and
	// screenshots until answered
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if _, ok := ev.(*page.EventJavascriptDialogOpening); ok {
			go func() {
				if err := chromedp.Run(tabCtx, page.HandleJavaScriptDialog(false)); err != nil {
					b.logger.Debug("failed to dismiss dialog", zap.Error(err))
				}
			}()
		}
	})
	return s, nil
}

type chromeSession struct {
	ctx         context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	profile     string
}

// scoped derives a context from the tab that ends when ctx ends.
func (s *chromeSession) scoped(ctx context.Context) (context.Context, context.CancelFunc) {
	c, cancel := context.WithCancel(s.ctx)
	stop := context.AfterFunc(ctx, cancel)
	return c, func() {
		stop()
		cancel()
	}
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	c, cancel := s.scoped(ctx)
	defer cancel()

	idle := make(chan struct{})
	var once sync.Once
	listenCtx, stopListening := context.WithCancel(c)
	defer stopListening()
	chromedp.ListenTarget(listenCtx, func(ev interface{}) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
			once.Do(func() { close(idle) })
		}
	})

	if err := chromedp.Run(c, chromedp.Navigate(url)); err != nil {
		return err
	}
	select {
	case <-idle:
		return nil
	case <-c.Done():
		return fmt.Errorf("wait for network idle: %w", c.Err())
	}
}

func (s *chromeSession) Title(ctx context.Context) (string, error) {
	c, cancel := s.scoped(ctx)
	defer cancel()

	var title string
	err := chromedp.Run(c, chromedp.Title(&title))
	return title, err
}

const hideScript = `(() => {
	let hidden = 0;
	for (const sel of %s) {
		let nodes;
		try { nodes = document.querySelectorAll(sel); } catch (e) { continue; }
		for (const el of nodes) {
			el.style.setProperty("display", "none", "important");
			hidden++;
		}
	}
	return hidden;
})()`

func (s *chromeSession) HideElements(ctx context.Context, selectors []string) (int, error) {
	list, err := json.Marshal(selectors)
	if err != nil {
		return 0, err
	}
	c, cancel := s.scoped(ctx)
	defer cancel()

	var hidden int
	err = chromedp.Run(c, chromedp.Evaluate(fmt.Sprintf(hideScript, list), &hidden))
	return hidden, err
}

func (s *chromeSession) HTML(ctx context.Context) (string, error) {
	c, cancel := s.scoped(ctx)
	defer cancel()

	var doc string
	err := chromedp.Run(c, chromedp.OuterHTML("html", &doc, chromedp.ByQuery))
	return doc, err
}

func (s *chromeSession) Screenshot(ctx context.Context, clip Rect) ([]byte, error) {
	c, cancel := s.scoped(ctx)
	defer cancel()

	var buf []byte
	err := chromedp.Run(c, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithClip(&page.Viewport{
				X:      clip.X,
				Y:      clip.Y,
				Width:  clip.Width,
				Height: clip.Height,
				Scale:  1,
			}).
			Do(ctx)
		return err
	}))
	return buf, err
}

// Close shuts the tab and the browser process and removes the profile.
func (s *chromeSession) Close() error {
	var errs []error
	if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
		errs = append(errs, fmt.Errorf("close tab: %w", err))
	}
	s.tabCancel()
	s.allocCancel()
	if err := os.RemoveAll(s.profile); err != nil {
		errs = append(errs, fmt.Errorf("remove profile: %w", err))
	}
	return errors.Join(errs...)
}
