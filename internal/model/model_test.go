package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nikbrunner/pagemark/internal/model"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare domain", in: "example.com", want: "https://example.com"},
		{name: "domain with path", in: "go.dev/doc", want: "https://go.dev/doc"},
		{name: "host with port", in: "localhost:8080", want: "https://localhost:8080"},
		{name: "https kept", in: "https://example.com", want: "https://example.com"},
		{name: "http kept", in: "http://example.com", want: "http://example.com"},
		{name: "surrounding spaces", in: "  example.com  ", want: "https://example.com"},
		{name: "empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := model.NormalizeURL(tt.in); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeFavorite(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "1", "yes", " on "} {
		if got := model.NormalizeFavorite(v); got != model.FavoriteTrue {
			t.Errorf("NormalizeFavorite(%q) = %q, want true", v, got)
		}
	}
	for _, v := range []string{"", "false", "0", "no", "maybe"} {
		if got := model.NormalizeFavorite(v); got != model.FavoriteFalse {
			t.Errorf("NormalizeFavorite(%q) = %q, want false", v, got)
		}
	}
}

func TestNewRecord_Defaults(t *testing.T) {
	r := model.NewRecord("https://example.com")

	if r.Favorite != model.FavoriteFalse {
		t.Errorf("expected favorite false, got %q", r.Favorite)
	}
	if _, err := time.Parse(time.RFC3339, r.Date); err != nil {
		t.Errorf("expected RFC3339 date, got %q: %v", r.Date, err)
	}
	if r.CreatedAt().IsZero() {
		t.Error("expected CreatedAt to parse the date")
	}
}

func TestRecord_Merge(t *testing.T) {
	base := model.Record{
		URL:         "https://example.com",
		Title:       "Old",
		Description: "Kept description",
		Tags:        "go, web",
		Date:        "2025-01-01T00:00:00Z",
		Favorite:    "true",
		Screenshot:  "/tmp/a.png",
	}

	got := base.Merge(model.Record{URL: "https://example.com", Title: "New"})

	if got.Title != "New" {
		t.Errorf("expected title New, got %q", got.Title)
	}
	if got.Description != base.Description || got.Tags != base.Tags || got.Date != base.Date {
		t.Errorf("expected untouched fields to be preserved, got %+v", got)
	}
	if got.Favorite != "true" || got.Screenshot != "/tmp/a.png" {
		t.Errorf("expected favorite and screenshot preserved, got %+v", got)
	}
}

func TestRecord_TagList(t *testing.T) {
	r := model.Record{Tags: " AI, ml ,, go "}
	tags := r.TagList()

	want := []string{"AI", "ml", "go"}
	if len(tags) != len(want) {
		t.Fatalf("expected %d tags, got %d (%v)", len(want), len(tags), tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tag %d: expected %q, got %q", i, want[i], tags[i])
		}
	}
}

func TestRecord_HasTag(t *testing.T) {
	r := model.Record{Tags: "AI, ml"}

	if !r.HasTag("ai") {
		t.Error("expected case-insensitive whole-tag match")
	}
	if !r.HasTag(" ML ") {
		t.Error("expected trimmed match")
	}

	plane := model.Record{Tags: "airplane"}
	if plane.HasTag("ai") {
		t.Error("substring of a tag must not match")
	}
	if r.HasTag("") {
		t.Error("empty tag must not match")
	}
}

func TestRecord_JSONFieldNames(t *testing.T) {
	r := model.Record{URL: "https://example.com", Favorite: "false"}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	for _, key := range []string{"url", "title", "description", "tags", "date", "favorite", "screenshot"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("expected JSON key %q", key)
		}
	}
}

func TestStore_Upsert(t *testing.T) {
	store := model.NewStore()

	store.Upsert(model.Record{URL: "https://a.com", Title: "A", Tags: "x"})
	store.Upsert(model.Record{URL: "https://b.com", Title: "B"})
	got := store.Upsert(model.Record{URL: "https://a.com", Title: "A2"})

	if len(store.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(store.Records))
	}
	if got.Title != "A2" || got.Tags != "x" {
		t.Errorf("expected merged record, got %+v", got)
	}
	if store.Records[0].URL != "https://a.com" {
		t.Error("expected update in place, not append")
	}
}

func TestStore_Remove(t *testing.T) {
	store := model.NewStore()
	store.Upsert(model.Record{URL: "https://a.com"})
	store.Upsert(model.Record{URL: "https://b.com"})

	removed, ok := store.Remove("https://a.com")
	if !ok || removed.URL != "https://a.com" {
		t.Fatalf("expected to remove a.com, got %+v (ok=%v)", removed, ok)
	}
	if len(store.Records) != 1 || store.Records[0].URL != "https://b.com" {
		t.Errorf("unexpected records after remove: %+v", store.Records)
	}

	if _, ok := store.Remove("https://missing.com"); ok {
		t.Error("expected removing unknown URL to report false")
	}
}

func TestStore_Merge(t *testing.T) {
	store := model.NewStore()
	store.Upsert(model.Record{URL: "https://a.com", Title: "A"})
	store.Upsert(model.Record{URL: "https://b.com", Title: "B"})

	added, updated := store.Merge([]model.Record{
		{URL: "https://b.com", Title: "B2"},
		{URL: "https://c.com", Title: "C"},
		{URL: "https://d.com", Title: "D"},
	})

	if added != 2 || updated != 1 {
		t.Errorf("expected added=2 updated=1, got added=%d updated=%d", added, updated)
	}
	if len(store.Records) != 4 {
		t.Errorf("expected 4 records, got %d", len(store.Records))
	}
	if store.Get("https://b.com").Title != "B2" {
		t.Error("expected b.com to be updated")
	}
}

func TestStore_AllTags(t *testing.T) {
	store := model.NewStore()
	store.Upsert(model.Record{URL: "https://a.com", Tags: "go, Web"})
	store.Upsert(model.Record{URL: "https://b.com", Tags: "web, ai"})

	tags := store.AllTags()
	want := []string{"ai", "go", "Web"}

	if len(tags) != len(want) {
		t.Fatalf("expected %v, got %v", want, tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tag %d: expected %q, got %q", i, want[i], tags[i])
		}
	}
}
