package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/pagemark/internal/tui/layout"
)

// descriptionLines caps the description block in the preview pane.
const descriptionLines = 8

// renderView renders the complete UI.
func (a App) renderView() string {
	switch a.mode {
	case ModeTagFilter, ModeAdd, ModeConfirmDelete:
		return a.renderModal()
	case ModeHelp:
		return a.renderHelpOverlay()
	}

	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	split := layout.CalculateSplit(a.width, a.layoutConfig.Pane)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.renderListPane(split.ListWidth, paneHeight),
		a.renderPreviewPane(split.PreviewWidth, paneHeight),
	)

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), columns, a.renderHelpBar()),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderHeader renders the app name followed by the active filters.
func (a App) renderHeader() string {
	parts := []string{a.styles.Title.Render("pagemark")}

	count := strconv.Itoa(len(a.items)) + " bookmarks"
	if len(a.items) == 1 {
		count = "1 bookmark"
	}
	parts = append(parts, a.styles.Header.Render(count))

	if a.filter.FavoritesOnly {
		parts = append(parts, a.styles.Favorite.Render("[★ only]"))
	}
	if len(a.filter.Tags) > 0 {
		parts = append(parts, a.styles.Tag.Render("[tags:"+strings.Join(a.filter.Tags, ",")+"]"))
	}
	if a.filter.Query != "" && a.mode != ModeSearch {
		parts = append(parts, a.styles.Tag.Render("[/"+a.filter.Query+"]"))
	}
	if n := a.captures.Count(); n > 0 {
		parts = append(parts, a.styles.Missing.Render(fmt.Sprintf("[capturing %d]", n)))
	}

	return strings.Join(parts, "  ")
}

// renderListPane renders the filtered records with the cursor row highlighted.
func (a App) renderListPane(width, height int) string {
	var content strings.Builder

	headerLines := 0
	if a.mode == ModeSearch {
		content.WriteString(a.search.Input.View() + "\n")
		headerLines = 1
	}
	visibleHeight := layout.CalculateVisibleHeight(height, headerLines)
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	if len(a.items) == 0 {
		if a.filtered() || a.mode == ModeSearch {
			content.WriteString(a.styles.Empty.Render("(no matches)"))
		} else {
			content.WriteString(a.styles.Empty.Render("(empty, press a to add a URL)"))
		}
	} else {
		offset := layout.CalculateViewportOffset(a.cursor, len(a.items), visibleHeight)
		end := min(offset+visibleHeight, len(a.items))
		for i := offset; i < end; i++ {
			content.WriteString(a.renderItem(a.items[i], i == a.cursor, itemWidth) + "\n")
		}
	}

	style := a.styles.PaneActive
	if a.mode == ModeSearch {
		style = a.styles.Pane
	}
	return style.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderItem renders one list row: favorite marker and title.
func (a App) renderItem(item Item, isCursor bool, maxWidth int) string {
	prefix := "  "
	if item.Record.IsFavorite() {
		prefix = "★ "
	}

	text, _ := layout.TruncateText(item.Title(), maxWidth-2, a.layoutConfig.Text)
	line := prefix + text

	if isCursor {
		// Pad to fill width for highlight
		if pad := maxWidth - layout.VisibleLength(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		return a.styles.ItemSelected.Render(line)
	}
	if item.Record.IsFavorite() {
		return a.styles.Favorite.Render(prefix) + a.styles.Item.UnsetPaddingLeft().Render(text)
	}
	return a.styles.Item.Render(line)
}

// renderPreviewPane shows every field of the selected record.
func (a App) renderPreviewPane(width, height int) string {
	var content strings.Builder
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)
	text := a.layoutConfig.Text

	item, ok := a.SelectedItem()
	if !ok {
		content.WriteString(a.styles.Empty.Render("(nothing selected)"))
	} else {
		r := item.Record

		for _, line := range layout.Wrap(item.Title(), itemWidth, 2, text) {
			content.WriteString(a.styles.Title.Render(line) + "\n")
		}
		content.WriteString(a.styles.URL.Render(layout.TruncateMiddle(r.URL, itemWidth, text)) + "\n\n")

		if r.Description != "" {
			for _, line := range layout.Wrap(r.Description, itemWidth, descriptionLines, text) {
				content.WriteString(a.styles.Description.Render(line) + "\n")
			}
			content.WriteString("\n")
		}

		if tags := r.TagList(); len(tags) > 0 {
			for i, tag := range tags {
				tags[i] = "#" + tag
			}
			line, _ := layout.TruncateText(strings.Join(tags, " "), itemWidth, text)
			content.WriteString(a.styles.Tag.Render(line) + "\n\n")
		}

		if created := r.CreatedAt(); !created.IsZero() {
			content.WriteString(a.styles.Date.Render("Added: "+created.Local().Format("2006-01-02 15:04")) + "\n")
		} else if r.Date != "" {
			content.WriteString(a.styles.Date.Render("Added: "+r.Date) + "\n")
		}
		if r.IsFavorite() {
			content.WriteString(a.styles.Favorite.Render("★ favorite") + "\n")
		}

		content.WriteString("\n" + a.renderScreenshotStatus(item, itemWidth))
	}

	return a.styles.Pane.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderScreenshotStatus describes the screenshot of item. A path that no
// longer exists on disk is reported as missing.
func (a App) renderScreenshotStatus(item Item, width int) string {
	r := item.Record
	switch {
	case a.captures.InFlight[r.URL]:
		return a.styles.Empty.Render("Screenshot: capturing...")
	case r.Screenshot == "":
		return a.styles.Empty.Render("Screenshot: none (r to capture)")
	case !item.ScreenshotOK:
		return a.styles.Missing.Render("Screenshot: missing (r to recapture)") + "\n" +
			a.styles.URL.Render(layout.TruncateMiddle(r.Screenshot, width, a.layoutConfig.Text))
	default:
		return a.styles.Date.Render("Screenshot:") + "\n" +
			a.styles.URL.Render(layout.TruncateMiddle(r.Screenshot, width, a.layoutConfig.Text))
	}
}

// renderModal renders the centered dialog of the current mode.
func (a App) renderModal() string {
	var title, content strings.Builder

	modalWidth := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.DefaultWidthPercent, a.layoutConfig.Modal)
	modalStyle := a.styles.Modal.Width(modalWidth)

	switch a.mode {
	case ModeAdd:
		title.WriteString("Add Bookmark\n\n")
		content.WriteString("URL:\n")
		content.WriteString(a.add.Input.View())
		content.WriteString("\n\n")
		content.WriteString(a.styles.Empty.Render("The page is captured and described in the background."))

	case ModeTagFilter:
		title.WriteString("Filter by Tags\n\n")
		content.WriteString("Tags (comma-separated, any match):\n")
		content.WriteString(a.tagFilter.Input.View())
		content.WriteString("\n")

		if len(a.tagFilter.Suggestions) > 0 {
			content.WriteString("\n")
			for i, tag := range a.tagFilter.Suggestions {
				if i == a.tagFilter.SuggestionIdx {
					content.WriteString(a.styles.ItemSelected.Render("▸ " + tag))
				} else {
					content.WriteString(a.styles.Empty.Render("  " + tag))
				}
				content.WriteString("\n")
			}
		} else if len(a.tagFilter.AllTags) == 0 {
			content.WriteString("\n" + a.styles.Empty.Render("No tags yet") + "\n")
		}

	case ModeConfirmDelete:
		title.WriteString("Delete Bookmark?\n\n")
		if item, ok := a.SelectedItem(); ok {
			content.WriteString("\"" + item.Title() + "\"\n\n")
			if item.Record.Screenshot != "" {
				content.WriteString(a.styles.Empty.Render("Its screenshot is deleted too.") + "\n")
			}
		}
		content.WriteString(a.styles.Empty.Render("This action cannot be undone.") + "\n\n")
		content.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter", Desc: "confirm"},
			{Key: "Esc", Desc: "cancel"},
		}))
	}

	modalContent := a.styles.Title.Render(title.String()) + content.String()

	// Place modal in center, then add help bar at bottom
	modal := lipgloss.Place(
		a.width,
		a.height-3, // Leave room for help bar
		lipgloss.Center,
		lipgloss.Center,
		modalStyle.Render(modalContent),
	)

	return lipgloss.JoinVertical(lipgloss.Left, modal, a.renderHelpBar())
}

// renderHelpBar renders the message line and the keybind hints.
func (a App) renderHelpBar() string {
	var lines []string

	// Line 1: Empty spacer OR message (message replaces the gap)
	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	// Line 2: Local (contextual) keyboard hints
	if localHints := a.renderHints(a.getContextualHints().All()); localHints != "" {
		lines = append(lines, a.styles.HintLabel.Render("Local  ")+localHints)
	}

	// Line 3: Global keyboard hints (only in normal mode - modals have their own flow)
	if a.mode == ModeNormal {
		lines = append(lines, a.styles.HintLabel.Render("Global ")+a.renderHints(a.getGlobalHints()))
	}

	return strings.Join(lines, "\n")
}

// renderMessageLine renders the styled message with prefix icon based on type.
func (a App) renderMessageLine() string {
	var msgStyle lipgloss.Style
	var prefix string

	switch a.messageType {
	case MessageError:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC3333", Dark: "#FF6666"}).
			Bold(true)
		prefix = "✗ "
	case MessageWarning:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"}).
			Bold(true)
		prefix = "⚠ "
	case MessageSuccess:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#338833", Dark: "#66CC66"}).
			Bold(true)
		prefix = "✓ "
	default: // MessageInfo
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}).
			Bold(true)
	}

	line, _ := layout.TruncateText(prefix+a.messageText, max(a.width-4, 1), a.layoutConfig.Text)
	return msgStyle.Render(line)
}

// renderHelpOverlay renders the full key reference.
func (a App) renderHelpOverlay() string {
	// Brutalist style: no border, just raw columns
	modalStyle := lipgloss.NewStyle().
		Padding(1, 2)

	var left strings.Builder
	left.WriteString(a.styles.Title.Render("nav") + "\n")
	left.WriteString("j/k  move\n")
	left.WriteString("gg   top\n")
	left.WriteString("G    bottom\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Title.Render("filter") + "\n")
	left.WriteString("/    search\n")
	left.WriteString("t    tags\n")
	left.WriteString("f    favorites only\n")
	left.WriteString("Esc  clear filters\n")

	var right strings.Builder
	right.WriteString(a.styles.Title.Render("act") + "\n")
	right.WriteString("a    add URL\n")
	right.WriteString("o    open in browser\n")
	right.WriteString("Y    yank URL\n")
	right.WriteString("*    toggle favorite\n")
	right.WriteString("r    recapture shot\n")
	right.WriteString("d    delete\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Help.Render("[?/esc] close  [q] quit"))

	leftCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpLeftColumnWidth).Render(left.String())
	rightCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpRightColumnWidth).Render(right.String())
	cols := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Left,
		lipgloss.Top,
		modalStyle.Render(cols),
	)
}
