package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/pagemark/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/pagemark-export-YYYY-MM-DD.<ext>
func DefaultExportPath(ext string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("pagemark-export-%s.%s", time.Now().Format("2006-01-02"), ext)
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML exports records to Netscape bookmark HTML format.
// Favorites are written into a "Favorites" folder ahead of the rest.
func ExportHTML(records []model.Record) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	var favorites, rest []model.Record
	for _, r := range records {
		if r.IsFavorite() {
			favorites = append(favorites, r)
		} else {
			rest = append(rest, r)
		}
	}

	if len(favorites) > 0 {
		b.WriteString("    <DT><H3>Favorites</H3>\n")
		b.WriteString("    <DL><p>\n")
		writeRecords(&b, favorites, 2)
		b.WriteString("    </DL><p>\n")
	}
	writeRecords(&b, rest, 1)

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

func writeRecords(b *strings.Builder, records []model.Record, indent int) {
	prefix := strings.Repeat("    ", indent)

	for _, r := range records {
		title := r.Title
		if title == "" {
			title = r.URL
		}

		fmt.Fprintf(b, "%s<DT><A HREF=\"%s\"", prefix, html.EscapeString(r.URL))
		if created := r.CreatedAt(); !created.IsZero() {
			fmt.Fprintf(b, " ADD_DATE=\"%d\"", created.Unix())
		}
		if tags := r.TagList(); len(tags) > 0 {
			fmt.Fprintf(b, " TAGS=\"%s\"", html.EscapeString(strings.Join(tags, ",")))
		}
		fmt.Fprintf(b, ">%s</A>\n", html.EscapeString(title))

		if r.Description != "" {
			fmt.Fprintf(b, "%s<DD>%s\n", prefix, html.EscapeString(r.Description))
		}
	}
}
