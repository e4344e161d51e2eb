package search

import (
	"testing"

	"github.com/nikbrunner/pagemark/internal/model"
)

func testRecords() []model.Record {
	return []model.Record{
		{URL: "https://go.dev", Title: "The Go Programming Language", Description: "Build simple, secure, scalable systems", Tags: "go, lang", Favorite: "true"},
		{URL: "https://ollama.com", Title: "Ollama", Description: "Run large language models locally", Tags: "AI, ml", Favorite: "false"},
		{URL: "https://airbus.com", Title: "Airbus", Description: "Aircraft manufacturer", Tags: "airplane", Favorite: "false"},
	}
}

func TestRecords_EmptyQueryReturnsAll(t *testing.T) {
	records := testRecords()

	for _, q := range []string{"", "   "} {
		if got := Records(records, q); len(got) != len(records) {
			t.Errorf("query %q: expected %d results, got %d", q, len(records), len(got))
		}
	}
}

func TestRecords_NoMatch(t *testing.T) {
	if got := Records(testRecords(), "XYZ-no-match"); len(got) != 0 {
		t.Errorf("expected 0 results, got %d", len(got))
	}
}

func TestRecords_MatchesEveryField(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{query: "OLLAMA.COM", want: "https://ollama.com"},      // URL
		{query: "programming", want: "https://go.dev"},         // title
		{query: "aircraft", want: "https://airbus.com"},        // description
		{query: "lang", want: "https://go.dev"},                // tags
		{query: "language models", want: "https://ollama.com"}, // description phrase
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Records(testRecords(), tt.query)
			if len(got) != 1 {
				t.Fatalf("expected 1 result, got %d", len(got))
			}
			if got[0].URL != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got[0].URL)
			}
		})
	}
}

func TestByTags_WholeTagCaseInsensitive(t *testing.T) {
	got := ByTags(testRecords(), []string{"ai"})

	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].URL != "https://ollama.com" {
		t.Errorf("expected ollama.com, got %s", got[0].URL)
	}
}

func TestByTags_AnyOf(t *testing.T) {
	got := ByTags(testRecords(), []string{" GO ", "airplane"})

	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
}

func TestByTags_EmptySetReturnsAll(t *testing.T) {
	if got := ByTags(testRecords(), []string{"", " "}); len(got) != 3 {
		t.Errorf("expected all records, got %d", len(got))
	}
}

func TestFavorites(t *testing.T) {
	got := Favorites(testRecords())
	if len(got) != 1 || got[0].URL != "https://go.dev" {
		t.Errorf("expected only go.dev, got %+v", got)
	}
}

func TestFuzzy_EmptyQuery(t *testing.T) {
	if got := Fuzzy(testRecords(), ""); len(got) != 0 {
		t.Errorf("expected 0 results for empty query, got %d", len(got))
	}
}

func TestFuzzy_Match(t *testing.T) {
	got := Fuzzy(testRecords(), "olla")

	if len(got) < 1 {
		t.Fatalf("expected at least 1 result, got %d", len(got))
	}
	if got[0].Record.URL != "https://ollama.com" {
		t.Errorf("expected ollama first, got %s", got[0].Record.URL)
	}
}

func TestFuzzy_NoMatch(t *testing.T) {
	if got := Fuzzy(testRecords(), "xyz123"); len(got) != 0 {
		t.Errorf("expected 0 results, got %d", len(got))
	}
}
