package search

import (
	"strings"

	"github.com/nikbrunner/pagemark/internal/model"
	"github.com/sahilm/fuzzy"
)

// Records returns records whose URL, title, description or tags contain
// query, ignoring case. A blank query returns everything.
func Records(records []model.Record, query string) []model.Record {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return records
	}

	result := []model.Record{}
	for _, r := range records {
		if containsFold(r.URL, query) ||
			containsFold(r.Title, query) ||
			containsFold(r.Description, query) ||
			containsFold(r.Tags, query) {
			result = append(result, r)
		}
	}
	return result
}

// ByTags returns records carrying at least one of tags. Tags are compared
// whole after trimming, ignoring case. An empty tag set returns everything.
func ByTags(records []model.Record, tags []string) []model.Record {
	wanted := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			wanted = append(wanted, t)
		}
	}
	if len(wanted) == 0 {
		return records
	}

	result := []model.Record{}
	for _, r := range records {
		for _, t := range wanted {
			if r.HasTag(t) {
				result = append(result, r)
				break
			}
		}
	}
	return result
}

// Favorites returns only records marked as favorite.
func Favorites(records []model.Record) []model.Record {
	result := []model.Record{}
	for _, r := range records {
		if r.IsFavorite() {
			result = append(result, r)
		}
	}
	return result
}

// containsFold expects needle to be lowercased already.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// Result represents a fuzzy search match.
type Result struct {
	Record         model.Record
	MatchedIndexes []int
	Score          int
}

// recordTargets implements fuzzy.Source over "title url" strings.
type recordTargets []model.Record

func (rt recordTargets) String(i int) string {
	if rt[i].Title == "" {
		return rt[i].URL
	}
	return rt[i].Title + " " + rt[i].URL
}

func (rt recordTargets) Len() int {
	return len(rt)
}

// Fuzzy searches records by title and URL using fuzzy matching.
// Returns results sorted by match score (best first).
func Fuzzy(records []model.Record, query string) []Result {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, recordTargets(records))

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Record:         records[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
