package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig sizes the list and preview panes.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + header (1) + pane borders (2) + help bar (3) = 7
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// SplitOffset is subtracted from the terminal width before splitting.
	// Accounts for app padding and both panes' borders.
	SplitOffset int

	// ListWidthPercent is the list pane's share of the split width.
	ListWidthPercent int

	// MinListWidth and MinPreviewWidth keep both panes usable on narrow terminals.
	MinListWidth    int
	MinPreviewWidth int

	// ContentPadding is subtracted from pane width for item rendering.
	ContentPadding int

	// ListHeaderLines is the number of header lines inside the list pane.
	ListHeaderLines int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// DefaultWidthPercent is the standard modal width as percentage of terminal width.
	DefaultWidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// TagSuggestionsVisible: max tags shown under the tag filter input.
	TagSuggestionsVisible int

	// HelpLeftColumnWidth: width for help overlay left column.
	HelpLeftColumnWidth int

	// HelpRightColumnWidth: width for help overlay right column.
	HelpRightColumnWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	URLCharLimit    int
	SearchCharLimit int
	TagsCharLimit   int

	StandardWidth int // search and tag inputs
	URLWidth      int // add URL input (wider)
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction:  7,
			MinHeight:        5,
			SplitOffset:      8, // app padding (4) + two pane borders (2+2)
			ListWidthPercent: 45,
			MinListWidth:     24,
			MinPreviewWidth:  30,
			ContentPadding:   4,
			ListHeaderLines:  2,
		},
		Modal: ModalConfig{
			DefaultWidthPercent:   50,
			MinWidth:              50,
			MaxWidth:              90,
			TagSuggestionsVisible: 8,
			HelpLeftColumnWidth:   22,
			HelpRightColumnWidth:  26,
		},
		Input: InputConfig{
			URLCharLimit:    2048,
			SearchCharLimit: 100,
			TagsCharLimit:   200,
			StandardWidth:   40,
			URLWidth:        60,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
