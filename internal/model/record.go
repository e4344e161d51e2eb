package model

import (
	"net/url"
	"strings"
	"time"
)

// Favorite values as they are stored on disk.
const (
	FavoriteTrue  = "true"
	FavoriteFalse = "false"
)

// UntitledTitle is used when a page title could not be read.
const UntitledTitle = "Untitled"

// Header is the fixed column order of the record table.
var Header = []string{"URL", "Title", "Description", "Tags", "Date", "Favorite", "Screenshot"}

// Record represents one saved page with its generated metadata.
// Every field is kept as text so it round-trips through CSV unchanged.
type Record struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"`       // comma-separated
	Date        string `json:"date"`       // RFC 3339, set at creation
	Favorite    string `json:"favorite"`   // "true" or "false"
	Screenshot  string `json:"screenshot"` // absolute path to a PNG, or empty
}

// NewRecord creates a Record for url stamped with the current time.
func NewRecord(url string) Record {
	return Record{
		URL:      url,
		Date:     FormatDate(time.Now()),
		Favorite: FavoriteFalse,
	}
}

// FormatDate formats t the way record dates are stored.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// NormalizeURL trims the input and prepends https:// when no scheme is present.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
		return raw
	}
	if strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}

// NormalizeFavorite coerces boolean-like text to "true" or "false".
func NormalizeFavorite(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return FavoriteTrue
	default:
		return FavoriteFalse
	}
}

// Normalize returns a copy with Favorite coerced to its string enum.
// Other fields are kept as-is; absent fields are already the empty string.
func (r Record) Normalize() Record {
	r.Favorite = NormalizeFavorite(r.Favorite)
	return r
}

// IsFavorite reports whether the record is marked as favorite.
func (r Record) IsFavorite() bool {
	return NormalizeFavorite(r.Favorite) == FavoriteTrue
}

// Merge applies the non-empty fields of patch on top of r.
func (r Record) Merge(patch Record) Record {
	if patch.URL != "" {
		r.URL = patch.URL
	}
	if patch.Title != "" {
		r.Title = patch.Title
	}
	if patch.Description != "" {
		r.Description = patch.Description
	}
	if patch.Tags != "" {
		r.Tags = patch.Tags
	}
	if patch.Date != "" {
		r.Date = patch.Date
	}
	if patch.Favorite != "" {
		r.Favorite = patch.Favorite
	}
	if patch.Screenshot != "" {
		r.Screenshot = patch.Screenshot
	}
	return r
}

// TagList splits the Tags field into trimmed, non-empty tags.
func (r Record) TagList() []string {
	return SplitTags(r.Tags)
}

// HasTag reports whether the record carries tag, compared whole and case-insensitively.
func (r Record) HasTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	for _, t := range r.TagList() {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// CreatedAt parses Date. The zero time is returned for unparseable values.
func (r Record) CreatedAt() time.Time {
	t, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Fields returns the record in Header order.
func (r Record) Fields() []string {
	return []string{r.URL, r.Title, r.Description, r.Tags, r.Date, r.Favorite, r.Screenshot}
}

// SplitTags splits a comma-separated tag string.
func SplitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// JoinTags joins tags into the stored comma-separated form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
