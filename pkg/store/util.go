package store

import (
	"sort"
	"strings"

	"github.com/vats98754/auto-kg/backend/pkg/common"
)

// ChunkRange calls fn for each [start, end) chunk of size chunkSize over
// a collection of length total. Processing stops at the first error.
func ChunkRange(total int, chunkSize int, fn func(start int, end int) error) error {
	if chunkSize <= 0 {
		chunkSize = total
	}
	for start := 0; start < total; start += chunkSize {
		end := start + chunkSize
		if end > total {
			end = total
		}
		if err := fn(start, end); err != nil {
			return err
		}
	}
	return nil
}

// MergeConcept folds an incoming concept into an existing one. The longer
// summary wins, categories are unioned and sorted, and the incoming
// source URL replaces an empty one. FirstSeen keeps the earlier value.
func MergeConcept(existing common.Concept, incoming common.Concept) common.Concept {
	merged := existing

	if len(incoming.Summary) > len(existing.Summary) {
		merged.Summary = incoming.Summary
	}
	if merged.SourceURL == "" {
		merged.SourceURL = incoming.SourceURL
	}

	seen := make(map[string]struct{}, len(existing.Categories)+len(incoming.Categories))
	cats := make([]string, 0, len(existing.Categories)+len(incoming.Categories))
	for _, c := range existing.Categories {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cats = append(cats, c)
	}
	for _, c := range incoming.Categories {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cats = append(cats, c)
	}
	sort.Strings(cats)
	merged.Categories = cats

	if !incoming.LastUpdated.IsZero() && incoming.LastUpdated.After(merged.LastUpdated) {
		merged.LastUpdated = incoming.LastUpdated
	}
	if !incoming.FirstSeen.IsZero() && (merged.FirstSeen.IsZero() || incoming.FirstSeen.Before(merged.FirstSeen)) {
		merged.FirstSeen = incoming.FirstSeen
	}

	return merged
}

// MergeRelationship folds an incoming relationship into an existing one
// with the same endpoints and type. The higher confidence wins and brings
// its evidence along.
func MergeRelationship(existing common.Relationship, incoming common.Relationship) common.Relationship {
	merged := existing
	if incoming.Confidence > existing.Confidence {
		merged.Confidence = incoming.Confidence
		if incoming.Evidence != "" {
			merged.Evidence = incoming.Evidence
		}
	}
	if merged.Evidence == "" {
		merged.Evidence = incoming.Evidence
	}
	return merged
}

// MatchesQuery reports whether the concept's title or summary contains
// the query, case-insensitively.
func MatchesQuery(concept common.Concept, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(concept.Title), q) ||
		strings.Contains(strings.ToLower(concept.Summary), q)
}
