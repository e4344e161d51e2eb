package model

import (
	"sort"
	"strings"
)

// Store holds all records in file order.
type Store struct {
	Records []Record `json:"records"`
}

// NewStore creates an empty Store with an initialized slice.
func NewStore() *Store {
	return &Store{
		Records: []Record{},
	}
}

// Get finds a record by URL, returns nil if not found.
func (s *Store) Get(url string) *Record {
	for i := range s.Records {
		if s.Records[i].URL == url {
			return &s.Records[i]
		}
	}
	return nil
}

// Upsert merges r onto the record with the same URL, or appends it.
// Returns the stored result.
func (s *Store) Upsert(r Record) Record {
	if existing := s.Get(r.URL); existing != nil {
		*existing = existing.Merge(r)
		return *existing
	}
	s.Records = append(s.Records, r)
	return r
}

// Remove deletes the record with the given URL.
// Returns the removed record and whether it existed.
func (s *Store) Remove(url string) (Record, bool) {
	for i := range s.Records {
		if s.Records[i].URL == url {
			removed := s.Records[i]
			s.Records = append(s.Records[:i], s.Records[i+1:]...)
			return removed, true
		}
	}
	return Record{}, false
}

// Merge upserts every record by URL.
// Returns how many were appended and how many updated existing entries.
func (s *Store) Merge(records []Record) (added, updated int) {
	for _, r := range records {
		if s.Get(r.URL) != nil {
			updated++
		} else {
			added++
		}
		s.Upsert(r)
	}
	return added, updated
}

// AllTags returns the unique tags across all records, sorted.
// Tags differing only in case are reported once, in their first spelling.
func (s *Store) AllTags() []string {
	seen := make(map[string]bool)
	var tags []string
	for _, r := range s.Records {
		for _, t := range r.TagList() {
			key := strings.ToLower(t)
			if seen[key] {
				continue
			}
			seen[key] = true
			tags = append(tags, t)
		}
	}
	sort.Slice(tags, func(i, j int) bool {
		return strings.ToLower(tags[i]) < strings.ToLower(tags[j])
	})
	return tags
}
