package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikbrunner/pagemark/internal/model"
	"github.com/nikbrunner/pagemark/internal/storage"
)

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want storage.Format
	}{
		{"out.csv", storage.FormatCSV},
		{"out.JSON", storage.FormatJSON},
		{"bookmarks.html", storage.FormatHTML},
		{"bookmarks.htm", storage.FormatHTML},
		{"noext", storage.FormatCSV},
	}
	for _, tt := range tests {
		if got := storage.FormatForPath(tt.path); got != tt.want {
			t.Errorf("FormatForPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestStore_ExportDoesNotMutate(t *testing.T) {
	s, path := newCSVStore(t)
	seed := []model.Record{
		{URL: "https://a.example", Title: "A", Tags: "x"},
		{URL: "https://b.example", Title: "B", Favorite: "true"},
	}
	if err := s.ReplaceAll(seed); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(path)

	dir := t.TempDir()
	for _, name := range []string{"out.csv", "out.json", "out.html"} {
		if err := s.ExportTo(filepath.Join(dir, name)); err != nil {
			t.Fatalf("export %s: %v", name, err)
		}
	}

	csvOut, _ := os.ReadFile(filepath.Join(dir, "out.csv"))
	if string(csvOut) != string(before) {
		t.Errorf("CSV export should match the store file:\n%s\nvs\n%s", csvOut, before)
	}
	htmlOut, _ := os.ReadFile(filepath.Join(dir, "out.html"))
	if !strings.Contains(string(htmlOut), `HREF="https://a.example"`) {
		t.Errorf("HTML export missing bookmark: %s", htmlOut)
	}

	after, _ := os.ReadFile(path)
	if string(after) != string(before) {
		t.Error("export modified the store")
	}
}

func TestStore_ImportMergesByURL(t *testing.T) {
	s, _ := newCSVStore(t)
	existing := []model.Record{
		{URL: "https://a.example", Title: "A", Tags: "keep"},
		{URL: "https://b.example", Title: "B"},
		{URL: "https://c.example", Title: "C"},
	}
	if err := s.ReplaceAll(existing); err != nil {
		t.Fatal(err)
	}

	// N = 3 imported rows, M = 1 shared URL
	src := filepath.Join(t.TempDir(), "import.csv")
	content := headerLine +
		"https://a.example,A renamed,,,,,\n" +
		"https://d.example,D,,,,,\n" +
		"https://e.example,E,,,,true,\n"
	if err := os.WriteFile(src, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	n, err := s.ImportFrom(src)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected count 3, got %d", n)
	}

	records := mustLoad(t, s)
	if len(records) != 3+3-1 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	if records[0].Title != "A renamed" || records[0].Tags != "keep" {
		t.Errorf("existing record not merged in place: %+v", records[0])
	}
	if records[4].URL != "https://e.example" || records[4].Favorite != "true" {
		t.Errorf("new record not appended: %+v", records[4])
	}
}

func TestStore_ImportJSONAndHTML(t *testing.T) {
	s, _ := newCSVStore(t)
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "in.json")
	jsonData := `[{"url":"https://j.example","title":"J","favorite":"1"},{"title":"no url"}]`
	if err := os.WriteFile(jsonPath, []byte(jsonData), 0644); err != nil {
		t.Fatal(err)
	}
	n, err := s.ImportFrom(jsonPath)
	if err != nil || n != 1 {
		t.Fatalf("json import: n=%d err=%v", n, err)
	}

	htmlPath := filepath.Join(dir, "in.html")
	htmlData := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><A HREF="https://h.example" ADD_DATE="1700000000" TAGS="web">H</A>
</DL><p>`
	if err := os.WriteFile(htmlPath, []byte(htmlData), 0644); err != nil {
		t.Fatal(err)
	}
	n, err = s.ImportFrom(htmlPath)
	if err != nil || n != 1 {
		t.Fatalf("html import: n=%d err=%v", n, err)
	}

	records := mustLoad(t, s)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Favorite != "true" {
		t.Errorf("expected normalized favorite, got %q", records[0].Favorite)
	}
	if records[1].Tags != "web" {
		t.Errorf("expected tags from HTML import, got %q", records[1].Tags)
	}
}

func TestStore_ImportMalformedLeavesStore(t *testing.T) {
	s, _ := newCSVStore(t)
	if _, err := s.Upsert(model.Record{URL: "https://a.example"}); err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(src, []byte(headerLine+"https://x.example,\"unterminated\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ImportFrom(src); err == nil {
		t.Fatal("expected parse error")
	}
	if n := len(mustLoad(t, s)); n != 1 {
		t.Errorf("store changed after failed import: %d records", n)
	}
}
