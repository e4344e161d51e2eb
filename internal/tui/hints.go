package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for bottom bar: "j/k:move /:search"
func (a App) renderHints(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for modals: "Enter confirm  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint
	Action []Hint
	Edit   []Hint
	System []Hint
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeNormal:
		return a.getNormalModeHints()
	case ModeSearch:
		return HintSet{
			Nav:    []Hint{{Key: "type", Desc: "search"}},
			Action: []Hint{{Key: "Enter", Desc: "apply"}},
			System: []Hint{{Key: "Esc", Desc: "cancel"}},
		}
	case ModeTagFilter:
		hints := HintSet{
			Action: []Hint{{Key: "Enter", Desc: "apply"}},
			System: []Hint{{Key: "Esc", Desc: "cancel"}},
		}
		if len(a.tagFilter.Suggestions) > 0 {
			hints.Nav = []Hint{
				{Key: "↑/↓", Desc: "suggest"},
				{Key: "Tab", Desc: "accept"},
			}
		}
		return hints
	case ModeAdd:
		return HintSet{
			Action: []Hint{{Key: "Enter", Desc: "capture"}},
			System: []Hint{{Key: "Esc", Desc: "cancel"}},
		}
	case ModeConfirmDelete:
		// shown inside the modal
		return HintSet{}
	case ModeHelp:
		return HintSet{
			System: []Hint{{Key: "?/q/Esc", Desc: "close"}},
		}
	default:
		return HintSet{}
	}
}

// getNormalModeHints returns hints for ModeNormal, depending on the selection.
func (a App) getNormalModeHints() HintSet {
	hints := HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
		},
		Action: []Hint{
			{Key: "/", Desc: "search"},
			{Key: "t", Desc: "tags"},
		},
	}

	item, ok := a.SelectedItem()
	if !ok {
		return hints
	}

	hints.Action = append(hints.Action,
		Hint{Key: "o", Desc: "open"},
		Hint{Key: "Y", Desc: "yank"},
	)
	hints.Edit = []Hint{
		{Key: "*", Desc: "fav"},
		{Key: "d", Desc: "del"},
	}
	if !item.HasScreenshot() {
		hints.Edit = append(hints.Edit, Hint{Key: "r", Desc: "recapture"})
	}
	return hints
}

// getGlobalHints returns hints that apply regardless of selection.
func (a App) getGlobalHints() []Hint {
	return []Hint{
		{Key: "a", Desc: "add"},
		{Key: "f", Desc: "favorites"},
		{Key: "?", Desc: "help"},
		{Key: "q", Desc: "quit"},
	}
}
