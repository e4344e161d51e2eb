// Package notify sends desktop notifications.
package notify

import (
	"strings"

	"github.com/gen2brain/beeep"
)

const maxBodyLen = 120

// Notifier delivers a short user-facing notification.
type Notifier interface {
	Notify(title, body string) error
}

// Desktop uses the platform notification service. It is safe for
// concurrent use.
type Desktop struct {
	send func(title, body string) error
}

// NewDesktop returns a Desktop notifier; app names the sender where the
// platform shows one. The name is process-wide and only set here.
func NewDesktop(app string) *Desktop {
	if app != "" {
		beeep.AppName = app
	}
	return &Desktop{send: func(title, body string) error {
		return beeep.Notify(title, body, "")
	}}
}

func (d *Desktop) Notify(title, body string) error {
	return d.send(title, truncate(body, maxBodyLen))
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(title, body string) error { return nil }

// truncate collapses whitespace and shortens s to n runes.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
