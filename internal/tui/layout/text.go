package layout

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ansiRegex matches SGR escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// VisibleLength returns the rune count of s without escape codes.
func VisibleLength(s string) int {
	return utf8.RuneCountInString(StripANSI(s))
}

// TruncateText shortens text to maxWidth runes, ending in the ellipsis.
// Returns the result and whether anything was cut.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}
	if utf8.RuneCountInString(text) <= maxWidth {
		return text, false
	}

	ellipsis := []rune(cfg.Ellipsis)
	if maxWidth <= len(ellipsis) {
		return string(ellipsis[:maxWidth]), true
	}
	return string([]rune(text)[:maxWidth-len(ellipsis)]) + cfg.Ellipsis, true
}

// TruncateMiddle keeps the start and end of text, which suits URLs and paths
// where the host and the last segment matter most.
func TruncateMiddle(text string, maxWidth int, cfg TextConfig) string {
	runes := []rune(text)
	ellipsis := []rune(cfg.Ellipsis)
	if len(runes) <= maxWidth {
		return text
	}
	if maxWidth <= len(ellipsis)+2 {
		out, _ := TruncateText(text, maxWidth, cfg)
		return out
	}

	keep := maxWidth - len(ellipsis)
	head := (keep + 1) / 2
	tail := keep - head
	return string(runes[:head]) + cfg.Ellipsis + string(runes[len(runes)-tail:])
}

// Wrap breaks text into lines of at most width runes at word boundaries.
// Words longer than width are split. At most maxLines lines are returned,
// the last one truncated with the ellipsis when text continues.
func Wrap(text string, width, maxLines int, cfg TextConfig) []string {
	if width <= 0 || maxLines <= 0 {
		return nil
	}

	var lines []string
	var line strings.Builder
	lineLen := 0

	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineLen = 0
	}

	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > width {
			if lineLen > 0 {
				flush()
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		if lineLen > 0 && lineLen+1+len(w) > width {
			flush()
		}
		if lineLen > 0 {
			line.WriteByte(' ')
			lineLen++
		}
		line.WriteString(string(w))
		lineLen += len(w)
	}
	if lineLen > 0 {
		flush()
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last, _ := TruncateText(lines[maxLines-1]+cfg.Ellipsis, width, cfg)
		if !strings.HasSuffix(last, cfg.Ellipsis) {
			last += cfg.Ellipsis
		}
		lines[maxLines-1] = last
	}
	return lines
}
