package command

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nikbrunner/pagemark/internal/model"
)

// printRecord writes a record as a short human-readable block.
func printRecord(w io.Writer, r model.Record) {
	star := " "
	if r.IsFavorite() {
		star = "★"
	}
	title := r.Title
	if title == "" {
		title = r.URL
	}

	fmt.Fprintf(w, "%s %s\n", star, title)
	fmt.Fprintf(w, "  %s\n", r.URL)
	if tags := r.TagList(); len(tags) > 0 {
		fmt.Fprintf(w, "  #%s\n", strings.Join(tags, " #"))
	}
	if r.Description != "" {
		fmt.Fprintf(w, "  %s\n", r.Description)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
