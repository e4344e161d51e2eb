package layout

import (
	"slices"
	"testing"
)

func TestStripANSI(t *testing.T) {
	if got := StripANSI("\x1b[31mred\x1b[0m text"); got != "red text" {
		t.Errorf("StripANSI() = %q, want %q", got, "red text")
	}
	if got := VisibleLength("\x1b[1mhé\x1b[0m"); got != 2 {
		t.Errorf("VisibleLength() = %d, want 2", got)
	}
}

func TestTruncateText(t *testing.T) {
	cfg := DefaultConfig().Text

	tests := []struct {
		name      string
		text      string
		maxWidth  int
		want      string
		truncated bool
	}{
		{"fits", "hi", 8, "hi", false},
		{"truncated", "hello world", 8, "hello...", true},
		{"width smaller than ellipsis", "hello", 2, "..", true},
		{"zero width", "hello", 0, "", true},
		{"multibyte", "héllo wörld", 7, "héll...", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := TruncateText(tt.text, tt.maxWidth, cfg)
			if got != tt.want || truncated != tt.truncated {
				t.Errorf("TruncateText(%q, %d) = (%q, %v), want (%q, %v)",
					tt.text, tt.maxWidth, got, truncated, tt.want, tt.truncated)
			}
		})
	}
}

func TestTruncateMiddle(t *testing.T) {
	cfg := DefaultConfig().Text

	if got := TruncateMiddle("https://example.com/a/b/c", 15, cfg); got != "https:.../a/b/c" {
		t.Errorf("TruncateMiddle() = %q", got)
	}
	if got := TruncateMiddle("short", 15, cfg); got != "short" {
		t.Errorf("TruncateMiddle() = %q, want unchanged", got)
	}
}

func TestWrap(t *testing.T) {
	cfg := DefaultConfig().Text

	tests := []struct {
		name     string
		text     string
		width    int
		maxLines int
		want     []string
	}{
		{"word boundaries", "the quick brown fox jumps", 10, 5, []string{"the quick", "brown fox", "jumps"}},
		{"line limit adds ellipsis", "the quick brown fox jumps", 10, 2, []string{"the quick", "brown f..."}},
		{"long word is split", "abcdefghijkl xy", 5, 10, []string{"abcde", "fghij", "kl xy"}},
		{"empty", "", 10, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.width, tt.maxLines, cfg)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Wrap(%q, %d, %d) = %q, want %q", tt.text, tt.width, tt.maxLines, got, tt.want)
			}
		})
	}
}
