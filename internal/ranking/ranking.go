// Package ranking persists cumulative scores by player name.
package ranking

import (
	"context"
	"sort"
)

// Entry is one row of the ranking table.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Store loads the whole ranking and merge-adds the scores of a finished
// game. Records are never deleted.
type Store interface {
	Load(ctx context.Context) (map[string]int, error)
	Record(ctx context.Context, scores map[string]int) error
}

// Merge adds scores into existing and returns existing.
func Merge(existing, scores map[string]int) map[string]int {
	if existing == nil {
		existing = make(map[string]int, len(scores))
	}
	for name, score := range scores {
		existing[name] += score
	}
	return existing
}

// Sorted orders the ranking by descending score, ties by name.
func Sorted(ranking map[string]int) []Entry {
	entries := make([]Entry, 0, len(ranking))
	for name, score := range ranking {
		entries = append(entries, Entry{Name: name, Score: score})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}
