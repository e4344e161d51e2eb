// Package tui is the interactive terminal front end: a list of records on
// the left, details of the selected record on the right.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/pagemark/internal/app"
	"github.com/nikbrunner/pagemark/internal/model"
	"github.com/nikbrunner/pagemark/internal/tui/layout"
	"github.com/nikbrunner/pagemark/internal/watch"
)

const messageTimeout = 4 * time.Second

// Controller is the part of app.App the TUI drives.
type Controller interface {
	Query(f app.Filter) ([]model.Record, error)
	Tags() ([]string, error)
	AddURL(ctx context.Context, rawURL string) (model.Record, error)
	RecaptureScreenshot(ctx context.Context, url string) (model.Record, error)
	ToggleFavorite(url string) (model.Record, error)
	Delete(url string) error
}

// App is the main bubbletea model for the bookmark manager.
type App struct {
	ctrl         Controller
	ctx          context.Context
	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig

	openURL         func(string) error
	copyToClipboard func(string) error

	changes <-chan struct{}
	watch   <-chan watch.Changed

	mode   Mode
	items  []Item
	cursor int
	filter app.Filter

	search    SearchState
	tagFilter TagFilterState
	add       AddState
	captures  CaptureState

	// For gg command
	lastKeyWasG bool

	messageText string
	messageType MessageType
	messageSeq  int

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Controller   Controller
	Context      context.Context      // optional, bounds background captures
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil

	// Changes signals writes made through the controller; Watch signals
	// writes made to the data file by other processes. Both are optional.
	Changes <-chan struct{}
	Watch   <-chan watch.Changed

	OpenURL         func(string) error // optional, defaults to app.OpenURL
	CopyToClipboard func(string) error // optional, defaults to the system clipboard
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutConfig := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutConfig = *params.LayoutConfig
	}

	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}

	openURL := params.OpenURL
	if openURL == nil {
		openURL = app.OpenURL
	}
	copyToClipboard := params.CopyToClipboard
	if copyToClipboard == nil {
		copyToClipboard = clipboard.WriteAll
	}

	a := App{
		ctrl:            params.Controller,
		ctx:             ctx,
		keys:            keys,
		styles:          styles,
		layoutConfig:    layoutConfig,
		openURL:         openURL,
		copyToClipboard: copyToClipboard,
		changes:         params.Changes,
		watch:           params.Watch,
		search:          NewSearchState(layoutConfig),
		tagFilter:       NewTagFilterState(layoutConfig),
		add:             NewAddState(layoutConfig),
		width:           80,
		height:          24,
	}

	a.reload("")
	return a
}

// Messages produced by background commands.
type (
	captureDoneMsg struct {
		url       string
		record    model.Record
		err       error
		recapture bool
	}
	storeChangedMsg struct{}
	fileChangedMsg  watch.Changed
	statusMsg       struct {
		text string
		typ  MessageType
	}
	clearMessageMsg struct{ seq int }
)

// WithDimensions returns a copy of the app sized to width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Items returns the records currently listed.
func (a App) Items() []Item {
	return a.items
}

// Mode returns the current interaction mode.
func (a App) Mode() Mode {
	return a.mode
}

// Filter returns the active list filter.
func (a App) Filter() app.Filter {
	return a.filter
}

// Message returns the status line text.
func (a App) Message() string {
	return a.messageText
}

// SelectedItem returns the item under the cursor.
func (a App) SelectedItem() (Item, bool) {
	if a.cursor < 0 || a.cursor >= len(a.items) {
		return Item{}, false
	}
	return a.items[a.cursor], true
}

// filtered reports whether any filter narrows the list.
func (a App) filtered() bool {
	return a.filter.Query != "" || len(a.filter.Tags) > 0 || a.filter.FavoritesOnly
}

// reload re-runs the current filter. The cursor follows selectURL when it is
// still listed, otherwise the previously selected record, otherwise it is clamped.
func (a *App) reload(selectURL string) {
	if selectURL == "" {
		if item, ok := a.SelectedItem(); ok {
			selectURL = item.Record.URL
		}
	}

	records, err := a.ctrl.Query(a.filter)
	if err != nil {
		a.setMessage(MessageError, "load failed: "+err.Error())
		return
	}

	a.items = make([]Item, len(records))
	for i, r := range records {
		a.items[i] = newItem(r)
	}

	for i, item := range a.items {
		if item.Record.URL == selectURL {
			a.cursor = i
			return
		}
	}
	a.cursor = max(min(a.cursor, len(a.items)-1), 0)
}

// setMessage shows text in the status line and returns a command that
// clears it after messageTimeout unless a newer message replaced it.
func (a *App) setMessage(typ MessageType, text string) tea.Cmd {
	a.messageSeq++
	a.messageText = text
	a.messageType = typ
	seq := a.messageSeq
	return tea.Tick(messageTimeout, func(time.Time) tea.Msg {
		return clearMessageMsg{seq: seq}
	})
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.listenChanges(), a.listenWatch())
}

func (a App) listenChanges() tea.Cmd {
	if a.changes == nil {
		return nil
	}
	ch := a.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (a App) listenWatch() tea.Cmd {
	if a.watch == nil {
		return nil
	}
	ch := a.watch
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return fileChangedMsg(ev)
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case storeChangedMsg:
		a.reload("")
		return a, a.listenChanges()

	case fileChangedMsg:
		a.reload("")
		return a, a.listenWatch()

	case captureDoneMsg:
		return a.handleCaptureDone(msg)

	case statusMsg:
		return a, a.setMessage(msg.typ, msg.text)

	case clearMessageMsg:
		if msg.seq == a.messageSeq {
			a.messageText = ""
		}
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case ModeSearch:
			return a.updateSearch(msg)
		case ModeTagFilter:
			return a.updateTagFilter(msg)
		case ModeAdd:
			return a.updateAdd(msg)
		case ModeConfirmDelete:
			return a.updateConfirmDelete(msg)
		case ModeHelp:
			return a.updateHelp(msg)
		default:
			return a.updateNormal(msg)
		}
	}

	return a, nil
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(a.items) > 0 {
			a.cursor = len(a.items) - 1
		}

	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		a.search.Previous = a.filter.Query
		a.search.Input.SetValue(a.filter.Query)
		a.search.Input.CursorEnd()
		return a, a.search.Input.Focus()

	case key.Matches(msg, a.keys.TagFilter):
		tags, err := a.ctrl.Tags()
		if err != nil {
			return a, a.setMessage(MessageError, "load tags: "+err.Error())
		}
		a.mode = ModeTagFilter
		a.tagFilter.Reset()
		a.tagFilter.AllTags = tags
		if len(a.filter.Tags) > 0 {
			a.tagFilter.Input.SetValue(model.JoinTags(a.filter.Tags) + ", ")
			a.tagFilter.Input.CursorEnd()
		}
		return a, a.tagFilter.Input.Focus()

	case key.Matches(msg, a.keys.Favorites):
		a.filter.FavoritesOnly = !a.filter.FavoritesOnly
		a.reload("")
		if a.filter.FavoritesOnly {
			return a, a.setMessage(MessageInfo, "Showing favorites only")
		}
		return a, a.setMessage(MessageInfo, "Showing all bookmarks")

	case key.Matches(msg, a.keys.ClearFilters):
		if !a.filtered() {
			return a, nil
		}
		a.filter = app.Filter{}
		a.reload("")
		return a, a.setMessage(MessageInfo, "Filters cleared")

	case key.Matches(msg, a.keys.Add):
		a.mode = ModeAdd
		a.add.Input.Reset()
		return a, a.add.Input.Focus()

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	item, ok := a.SelectedItem()
	if !ok {
		return a, nil
	}
	url := item.Record.URL

	switch {
	case key.Matches(msg, a.keys.ToggleFavorite):
		rec, err := a.ctrl.ToggleFavorite(url)
		if err != nil {
			return a, a.setMessage(MessageError, err.Error())
		}
		a.reload(url)
		if rec.IsFavorite() {
			return a, a.setMessage(MessageSuccess, "Added to favorites")
		}
		return a, a.setMessage(MessageSuccess, "Removed from favorites")

	case key.Matches(msg, a.keys.Recapture):
		if !a.captures.Start(url) {
			return a, a.setMessage(MessageWarning, "Already capturing "+url)
		}
		return a, tea.Batch(
			a.setMessage(MessageInfo, "Recapturing screenshot..."),
			a.recaptureCmd(url),
		)

	case key.Matches(msg, a.keys.Delete):
		a.mode = ModeConfirmDelete

	case key.Matches(msg, a.keys.YankURL):
		if err := a.copyToClipboard(url); err != nil {
			return a, a.setMessage(MessageError, "Failed to copy URL: "+err.Error())
		}
		return a, a.setMessage(MessageSuccess, "Copied URL")

	case key.Matches(msg, a.keys.Open):
		return a, a.openCmd(url)
	}

	return a, nil
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = ModeNormal
		a.search.Input.Blur()
		a.filter.Query = a.search.Previous
		a.reload("")
		return a, nil

	case tea.KeyEnter:
		a.mode = ModeNormal
		a.search.Input.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.search.Input, cmd = a.search.Input.Update(msg)
	if q := strings.TrimSpace(a.search.Input.Value()); q != a.filter.Query {
		a.filter.Query = q
		a.reload("")
	}
	return a, cmd
}

func (a App) updateTagFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = ModeNormal
		a.tagFilter.Input.Blur()
		return a, nil

	case tea.KeyEnter:
		if a.tagFilter.Accept() {
			return a, nil
		}
		a.mode = ModeNormal
		a.tagFilter.Input.Blur()
		a.filter.Tags = model.SplitTags(a.tagFilter.Input.Value())
		a.reload("")
		if len(a.filter.Tags) == 0 {
			return a, a.setMessage(MessageInfo, "Tag filter cleared")
		}
		return a, a.setMessage(MessageInfo, fmt.Sprintf("%d bookmarks tagged %s", len(a.items), model.JoinTags(a.filter.Tags)))

	case tea.KeyTab:
		if a.tagFilter.SuggestionIdx < 0 && len(a.tagFilter.Suggestions) > 0 {
			a.tagFilter.SuggestionIdx = 0
		}
		a.tagFilter.Accept()
		return a, nil

	case tea.KeyDown, tea.KeyCtrlN:
		if n := len(a.tagFilter.Suggestions); n > 0 {
			a.tagFilter.SuggestionIdx = (a.tagFilter.SuggestionIdx + 1) % n
		}
		return a, nil

	case tea.KeyUp, tea.KeyCtrlP:
		if n := len(a.tagFilter.Suggestions); n > 0 {
			a.tagFilter.SuggestionIdx--
			if a.tagFilter.SuggestionIdx < 0 {
				a.tagFilter.SuggestionIdx = n - 1
			}
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.tagFilter.Input, cmd = a.tagFilter.Input.Update(msg)
	a.tagFilter.UpdateSuggestions(a.layoutConfig.Modal.TagSuggestionsVisible)
	return a, cmd
}

func (a App) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = ModeNormal
		a.add.Input.Blur()
		return a, nil

	case tea.KeyEnter:
		raw := strings.TrimSpace(a.add.Input.Value())
		a.mode = ModeNormal
		a.add.Input.Blur()
		if raw == "" {
			return a, nil
		}
		url := model.NormalizeURL(raw)
		if !a.captures.Start(url) {
			return a, a.setMessage(MessageWarning, "Already capturing "+url)
		}
		return a, tea.Batch(
			a.setMessage(MessageInfo, "Capturing "+url+"..."),
			a.addCmd(url),
		)
	}

	var cmd tea.Cmd
	a.add.Input, cmd = a.add.Input.Update(msg)
	return a, cmd
}

func (a App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "y":
		a.mode = ModeNormal
		item, ok := a.SelectedItem()
		if !ok {
			return a, nil
		}
		if err := a.ctrl.Delete(item.Record.URL); err != nil {
			return a, a.setMessage(MessageError, "Delete failed: "+err.Error())
		}
		a.reload("")
		return a, a.setMessage(MessageSuccess, "Deleted "+item.Title())

	case "esc", "n", "q":
		a.mode = ModeNormal
	}
	return a, nil
}

func (a App) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "q", "esc":
		a.mode = ModeNormal
	case "ctrl+c":
		return a, tea.Quit
	}
	return a, nil
}

func (a App) handleCaptureDone(msg captureDoneMsg) (tea.Model, tea.Cmd) {
	a.captures.Done(msg.url)
	if msg.err != nil {
		return a, a.setMessage(MessageError, "Capture failed: "+msg.err.Error())
	}

	a.reload(msg.record.URL)
	if msg.recapture {
		return a, a.setMessage(MessageSuccess, "Screenshot updated")
	}
	title := msg.record.Title
	if title == "" {
		title = msg.record.URL
	}
	return a, a.setMessage(MessageSuccess, "Saved "+title)
}

func (a App) addCmd(url string) tea.Cmd {
	ctrl, ctx := a.ctrl, a.ctx
	return func() tea.Msg {
		rec, err := ctrl.AddURL(ctx, url)
		return captureDoneMsg{url: url, record: rec, err: err}
	}
}

func (a App) recaptureCmd(url string) tea.Cmd {
	ctrl, ctx := a.ctrl, a.ctx
	return func() tea.Msg {
		rec, err := ctrl.RecaptureScreenshot(ctx, url)
		return captureDoneMsg{url: url, record: rec, err: err, recapture: true}
	}
}

func (a App) openCmd(url string) tea.Cmd {
	open := a.openURL
	return func() tea.Msg {
		if err := open(url); err != nil {
			return statusMsg{text: "Failed to open URL: " + err.Error(), typ: MessageError}
		}
		return statusMsg{text: "Opened in browser", typ: MessageInfo}
	}
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
