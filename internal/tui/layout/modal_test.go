package layout

import "testing"

func TestCalculateModalWidth(t *testing.T) {
	cfg := DefaultConfig().Modal

	tests := []struct {
		name          string
		terminalWidth int
		want          int
	}{
		{"normal terminal", 120, 60},
		{"clamped to min", 80, 50},
		{"clamped to max", 300, 90},
		{"never wider than terminal", 40, 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateModalWidth(tt.terminalWidth, cfg.DefaultWidthPercent, cfg)
			if got != tt.want {
				t.Errorf("CalculateModalWidth(%d) = %d, want %d", tt.terminalWidth, got, tt.want)
			}
		})
	}
}

func TestCalculateVisibleListItems(t *testing.T) {
	tests := []struct {
		name       string
		maxVisible int
		selected   int
		total      int
		wantStart  int
		wantEnd    int
	}{
		{"all fit", 8, 0, 5, 0, 5},
		{"selection in first page", 8, 3, 20, 0, 8},
		{"selection past first page", 8, 10, 20, 3, 11},
		{"last item", 8, 19, 20, 12, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := CalculateVisibleListItems(tt.maxVisible, tt.selected, tt.total)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("CalculateVisibleListItems(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.maxVisible, tt.selected, tt.total, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
