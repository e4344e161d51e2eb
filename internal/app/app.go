// Package app owns the long-lived objects of a pagemark session (config,
// logger, record store, LLM client, capture pipeline) and exposes the
// operations the CLI and the TUI perform on them.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/nikbrunner/pagemark/internal/capture"
	"github.com/nikbrunner/pagemark/internal/culler"
	"github.com/nikbrunner/pagemark/internal/llm"
	"github.com/nikbrunner/pagemark/internal/model"
	"github.com/nikbrunner/pagemark/internal/notify"
	"github.com/nikbrunner/pagemark/internal/search"
	"github.com/nikbrunner/pagemark/internal/storage"
)

const appName = "pagemark"

var (
	ErrEmptyURL         = errors.New("no URL given")
	ErrScreenshotFailed = errors.New("screenshot could not be captured")
	ErrLLMNotConfigured = errors.New("LLM client not configured")
)

// Capturer renders pages into records.
type Capturer interface {
	Capture(ctx context.Context, rawURL string) (model.Record, error)
	CaptureScreenshot(ctx context.Context, rawURL string) (string, error)
}

// ServiceChecker reports whether the LLM endpoint is reachable.
type ServiceChecker interface {
	CheckService(ctx context.Context) llm.ServiceStatus
}

// Deps are the collaborators of an App. New builds the real ones;
// tests pass fakes to NewWithDeps.
type Deps struct {
	Store    *storage.Store
	Capturer Capturer
	LLM      ServiceChecker // nil when no endpoint is configured
	Notifier notify.Notifier
}

// Filter selects records for listing.
type Filter struct {
	Query         string
	Tags          []string
	FavoritesOnly bool
}

// App is the application controller.
type App struct {
	cfg      *storage.Config
	logger   *zap.Logger
	store    *storage.Store
	capturer Capturer
	llm      ServiceChecker
	notifier notify.Notifier
	changes  chan struct{}
}

// New wires the production collaborators from cfg.
func New(cfg *storage.Config, logger *zap.Logger) (*App, error) {
	a := &App{
		cfg:     cfg,
		logger:  logger.Named("app"),
		changes: make(chan struct{}, 1),
	}

	backend, err := storage.OpenStorage(cfg, logger)
	if err != nil {
		return nil, err
	}
	store, err := storage.NewStore(backend, logger, storage.StoreOptions{OnChange: a.storeChanged})
	if err != nil {
		return nil, err
	}

	var enricher capture.Enricher
	var checker ServiceChecker
	client, err := llm.NewClient(llm.Config{
		APIURL: cfg.LLMAPIURL,
		Model:  cfg.LLMModel,
		APIKey: cfg.LLMAPIKey,
	}, logger)
	if err != nil {
		// captures still work, just without tags and description
		a.logger.Warn("LLM client disabled", zap.Error(err))
	} else {
		enricher = client
		checker = client
	}

	browser := capture.NewChromeBrowser(capture.ChromeOptions{Headless: cfg.Headless}, logger)
	pipeline := capture.NewPipeline(capture.DefaultConfig(cfg.ScreenshotDir), browser, enricher, logger)

	var notifier notify.Notifier = notify.Nop{}
	if cfg.Notifications {
		notifier = notify.NewDesktop(appName)
	}

	a.store = store
	a.capturer = pipeline
	a.llm = checker
	a.notifier = notifier
	return a, nil
}

// NewWithDeps builds an App around the given collaborators. The store's
// change notifications are not routed to Changes.
func NewWithDeps(cfg *storage.Config, logger *zap.Logger, deps Deps) *App {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &App{
		cfg:      cfg,
		logger:   logger.Named("app"),
		store:    deps.Store,
		capturer: deps.Capturer,
		llm:      deps.LLM,
		notifier: notifier,
		changes:  make(chan struct{}, 1),
	}
}

// Config returns the active configuration.
func (a *App) Config() *storage.Config {
	return a.cfg
}

// DataFile returns the path of the record store.
func (a *App) DataFile() string {
	return a.store.Path()
}

// Changes receives a value after the store was written. Bursts coalesce.
func (a *App) Changes() <-chan struct{} {
	return a.changes
}

func (a *App) storeChanged() {
	select {
	case a.changes <- struct{}{}:
	default:
	}
}

// Records returns every record in file order.
func (a *App) Records() ([]model.Record, error) {
	return a.store.LoadAll()
}

// Search returns records containing query.
func (a *App) Search(query string) ([]model.Record, error) {
	return a.store.Search(query)
}

// FilterByTags returns records with any of tags.
func (a *App) FilterByTags(tags []string) ([]model.Record, error) {
	return a.store.FilterByTags(tags)
}

// Tags returns every tag in use.
func (a *App) Tags() ([]string, error) {
	return a.store.Tags()
}

// Query applies every part of f in one pass.
func (a *App) Query(f Filter) ([]model.Record, error) {
	records, err := a.store.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(f.Tags) > 0 {
		records = search.ByTags(records, f.Tags)
	}
	if f.FavoritesOnly {
		records = search.Favorites(records)
	}
	return search.Records(records, f.Query), nil
}

// AddURL captures rawURL and stores the result. Re-adding a known URL
// refreshes its content but keeps its creation date and favorite flag.
func (a *App) AddURL(ctx context.Context, rawURL string) (model.Record, error) {
	url := model.NormalizeURL(rawURL)
	if url == "" {
		return model.Record{}, ErrEmptyURL
	}

	start := time.Now()
	rec, err := a.capturer.Capture(ctx, url)
	if err != nil {
		return model.Record{}, err
	}

	existing, err := a.store.Get(rec.URL)
	known := err == nil
	if err != nil && !errors.Is(err, storage.ErrRecordNotFound) {
		return model.Record{}, err
	}

	screenshot := rec.Screenshot
	if known {
		if rec.Title == model.UntitledTitle {
			rec.Title = ""
		}
		rec.Date = ""
		rec.Favorite = ""
		rec.Screenshot = ""
	}

	fresh := screenshot != "" && screenshot != existing.Screenshot
	stored, err := a.store.Upsert(rec)
	if err != nil {
		if fresh {
			a.discardScreenshot(screenshot)
		}
		return model.Record{}, err
	}
	if known && fresh {
		// replaces and deletes the previous file
		if stored, err = a.store.UpdateScreenshot(rec.URL, screenshot); err != nil {
			a.discardScreenshot(screenshot)
			return model.Record{}, err
		}
	}

	a.logger.Info("bookmark saved",
		zap.String("url", stored.URL),
		zap.Bool("updated", known),
		zap.Duration("elapsed", time.Since(start)))
	a.notify("Bookmark saved", stored.Title)
	return stored, nil
}

// discardScreenshot removes a captured file no record refers to.
func (a *App) discardScreenshot(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		a.logger.Warn("failed to remove unsaved screenshot", zap.String("path", path), zap.Error(err))
	}
}

// RecaptureScreenshot refreshes the screenshot of a stored record without
// touching its other fields.
func (a *App) RecaptureScreenshot(ctx context.Context, url string) (model.Record, error) {
	if _, err := a.store.Get(url); err != nil {
		return model.Record{}, err
	}

	path, err := a.capturer.CaptureScreenshot(ctx, url)
	if err != nil {
		return model.Record{}, err
	}
	if path == "" {
		return model.Record{}, fmt.Errorf("%w: %s", ErrScreenshotFailed, url)
	}

	rec, err := a.store.UpdateScreenshot(url, path)
	if err != nil {
		a.discardScreenshot(path)
		return model.Record{}, err
	}
	a.notify("Screenshot updated", rec.Title)
	return rec, nil
}

// ToggleFavorite flips the favorite flag of url.
func (a *App) ToggleFavorite(url string) (model.Record, error) {
	return a.store.ToggleFavorite(url)
}

// Delete removes url and its screenshot.
func (a *App) Delete(url string) error {
	return a.store.Delete(url)
}

// Import merges records from path and returns how many were read.
func (a *App) Import(path string) (int, error) {
	return a.store.ImportFrom(path)
}

// Export writes every record to path in the format its extension implies.
func (a *App) Export(path string) error {
	return a.store.ExportTo(path)
}

// CheckLLM probes the configured LLM endpoint.
func (a *App) CheckLLM(ctx context.Context) llm.ServiceStatus {
	if a.llm == nil {
		return llm.ServiceStatus{
			Provider: llm.DetectProvider(a.cfg.LLMAPIURL),
			Endpoint: a.cfg.LLMAPIURL,
			Error:    ErrLLMNotConfigured.Error(),
		}
	}
	return a.llm.CheckService(ctx)
}

// Cull checks every stored URL and returns the results in store order.
func (a *App) Cull(ctx context.Context, onProgress culler.ProgressFunc) ([]culler.Result, error) {
	records, err := a.store.LoadAll()
	if err != nil {
		return nil, err
	}
	checker := culler.New(culler.Options{
		ExcludeDomains: a.cfg.CullExcludeDomains,
		UserAgent:      capture.DefaultUserAgent,
		OnProgress:     onProgress,
	}, a.logger)
	return checker.Check(ctx, records), nil
}

// Close releases the store and flushes the logger.
func (a *App) Close() error {
	err := a.store.Close()
	_ = a.logger.Sync()
	return err
}

func (a *App) notify(title, body string) {
	if err := a.notifier.Notify(appName+": "+title, body); err != nil {
		a.logger.Debug("notification failed", zap.Error(err))
	}
}
