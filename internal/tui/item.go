package tui

import (
	"os"

	"github.com/nikbrunner/pagemark/internal/model"
)

// Item is one row of the list pane.
type Item struct {
	Record model.Record

	// ScreenshotOK is false when the record names a screenshot file that
	// is no longer on disk.
	ScreenshotOK bool
}

func newItem(r model.Record) Item {
	ok := true
	if r.Screenshot != "" {
		if _, err := os.Stat(r.Screenshot); err != nil {
			ok = false
		}
	}
	return Item{Record: r, ScreenshotOK: ok}
}

// Title returns a display title for the item, falling back to the URL.
func (i Item) Title() string {
	if i.Record.Title != "" {
		return i.Record.Title
	}
	return i.Record.URL
}

// HasScreenshot reports whether a screenshot file is available to show.
func (i Item) HasScreenshot() bool {
	return i.Record.Screenshot != "" && i.ScreenshotOK
}
