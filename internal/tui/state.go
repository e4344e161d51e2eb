package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/nikbrunner/pagemark/internal/model"
	"github.com/nikbrunner/pagemark/internal/tui/layout"
)

// Mode is the interaction mode of the TUI.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeTagFilter
	ModeAdd
	ModeConfirmDelete
	ModeHelp
)

// MessageType selects how the status message is rendered.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// SearchState holds the live search input.
type SearchState struct {
	Input    textinput.Model
	Previous string // query to restore on cancel
}

// NewSearchState creates a new SearchState with initialized input.
func NewSearchState(cfg layout.LayoutConfig) SearchState {
	input := textinput.New()
	input.Placeholder = "Search..."
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.StandardWidth
	input.Prompt = "/"
	return SearchState{Input: input}
}

// TagFilterState holds state for the tag filter modal.
type TagFilterState struct {
	Input         textinput.Model
	AllTags       []string // All unique tags in store
	Suggestions   []string // Filtered suggestions for current input
	SuggestionIdx int      // Selected suggestion index (-1 = none)
}

// NewTagFilterState creates a new TagFilterState with initialized input.
func NewTagFilterState(cfg layout.LayoutConfig) TagFilterState {
	input := textinput.New()
	input.Placeholder = "tag1, tag2"
	input.CharLimit = cfg.Input.TagsCharLimit
	input.Width = cfg.Input.StandardWidth
	return TagFilterState{
		Input:         input,
		SuggestionIdx: -1,
	}
}

// currentToken returns the tag being typed, i.e. the text after the last comma.
func (s *TagFilterState) currentToken() string {
	v := s.Input.Value()
	if i := strings.LastIndex(v, ","); i >= 0 {
		v = v[i+1:]
	}
	return strings.ToLower(strings.TrimSpace(v))
}

// UpdateSuggestions recomputes suggestions for the tag being typed.
// Tags already entered are not suggested again.
func (s *TagFilterState) UpdateSuggestions(limit int) {
	s.Suggestions = nil
	s.SuggestionIdx = -1

	token := s.currentToken()
	if token == "" {
		return
	}

	entered := make(map[string]bool)
	for _, t := range model.SplitTags(s.Input.Value()) {
		entered[strings.ToLower(t)] = true
	}

	for _, tag := range s.AllTags {
		if len(s.Suggestions) >= limit {
			break
		}
		lower := strings.ToLower(tag)
		if lower != token && !entered[lower] && strings.HasPrefix(lower, token) {
			s.Suggestions = append(s.Suggestions, tag)
		}
	}
}

// Accept replaces the tag being typed with the selected suggestion.
func (s *TagFilterState) Accept() bool {
	if s.SuggestionIdx < 0 || s.SuggestionIdx >= len(s.Suggestions) {
		return false
	}

	v := s.Input.Value()
	prefix := ""
	if i := strings.LastIndex(v, ","); i >= 0 {
		prefix = v[:i+1] + " "
	}
	s.Input.SetValue(prefix + s.Suggestions[s.SuggestionIdx] + ", ")
	s.Input.CursorEnd()
	s.Suggestions = nil
	s.SuggestionIdx = -1
	return true
}

// Reset clears the tag filter modal state.
func (s *TagFilterState) Reset() {
	s.Input.Reset()
	s.Suggestions = nil
	s.SuggestionIdx = -1
}

// AddState holds the URL input of the add modal.
type AddState struct {
	Input textinput.Model
}

// NewAddState creates a new AddState with initialized input.
func NewAddState(cfg layout.LayoutConfig) AddState {
	input := textinput.New()
	input.Placeholder = "https://..."
	input.CharLimit = cfg.Input.URLCharLimit
	input.Width = cfg.Input.URLWidth
	return AddState{Input: input}
}

// CaptureState tracks captures running in the background.
type CaptureState struct {
	InFlight map[string]bool // URLs being captured or recaptured
}

// Start marks url as in flight. Returns false if it already is.
func (c *CaptureState) Start(url string) bool {
	if c.InFlight == nil {
		c.InFlight = make(map[string]bool)
	}
	if c.InFlight[url] {
		return false
	}
	c.InFlight[url] = true
	return true
}

// Done clears url.
func (c *CaptureState) Done(url string) {
	delete(c.InFlight, url)
}

// Count returns the number of captures in flight.
func (c *CaptureState) Count() int {
	return len(c.InFlight)
}
