package capture

import "context"

// Rect is a region of the page in CSS pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// Browser starts isolated page sessions. Every session gets its own
// process and profile; nothing is shared between sessions.
// Cancelling ctx tears the session down.
type Browser interface {
	NewSession(ctx context.Context) (Session, error)
}

// Session is a single disposable tab. Close must be called exactly once,
// on every exit path. Every other method returns once ctx is done.
type Session interface {
	// Navigate loads url and waits until network activity is quiet.
	Navigate(ctx context.Context, url string) error
	Title(ctx context.Context) (string, error)
	// HideElements hides every element matching any selector and returns
	// how many were hidden. Invalid selectors are skipped.
	HideElements(ctx context.Context, selectors []string) (int, error)
	// HTML returns the serialized document.
	HTML(ctx context.Context) (string, error)
	// Screenshot returns a PNG of clip.
	Screenshot(ctx context.Context, clip Rect) ([]byte, error)
	Close() error
}
