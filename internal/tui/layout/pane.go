package layout

// SplitLayout holds the widths of the list and preview panes.
type SplitLayout struct {
	ListWidth    int
	PreviewWidth int
}

// CalculatePaneHeight computes the content height for panes.
// Returns at least MinHeight.
func CalculatePaneHeight(terminalHeight int, cfg PaneConfig) int {
	return max(terminalHeight-cfg.HeightReduction, cfg.MinHeight)
}

// CalculateSplit divides the terminal width between list and preview.
// Both panes keep their minimum width even if that overflows the terminal.
func CalculateSplit(terminalWidth int, cfg PaneConfig) SplitLayout {
	available := terminalWidth - cfg.SplitOffset
	list := max(available*cfg.ListWidthPercent/100, cfg.MinListWidth)
	preview := max(available-list, cfg.MinPreviewWidth)

	return SplitLayout{
		ListWidth:    list,
		PreviewWidth: preview,
	}
}

// CalculateItemWidth computes the width available for item content.
func CalculateItemWidth(paneWidth int, cfg PaneConfig) int {
	return max(paneWidth-cfg.ContentPadding, 1)
}

// CalculateVisibleHeight computes how many rows fit below headerLines.
func CalculateVisibleHeight(paneHeight, headerLines int) int {
	return max(paneHeight-headerLines, 1)
}

// CalculateViewportOffset returns the scroll offset that keeps the
// selected row visible, roughly centered.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	offset := selected - viewportHeight/2
	return min(max(offset, 0), total-viewportHeight)
}
