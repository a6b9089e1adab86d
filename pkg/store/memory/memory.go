package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/store"
)

type relKey struct {
	source string
	target string
	relTyp common.RelationType
}

// GraphMemoryStorage implements store.GraphStorage entirely in memory.
// It is used in single-process deployments and in tests.
type GraphMemoryStorage struct {
	mu            sync.RWMutex
	concepts      map[string]common.Concept
	relationships map[relKey]common.Relationship
}

// NewGraphMemoryStorage creates an empty in-memory graph store.
func NewGraphMemoryStorage() *GraphMemoryStorage {
	return &GraphMemoryStorage{
		concepts:      make(map[string]common.Concept),
		relationships: make(map[relKey]common.Relationship),
	}
}

// UpsertGraph applies a batch of concepts and relationships under a
// single lock, so concurrent batches never interleave.
func (s *GraphMemoryStorage) UpsertGraph(
	ctx context.Context,
	concepts []common.Concept,
	relationships []common.Relationship,
) (*common.UpsertSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := &common.UpsertSummary{}

	for _, c := range concepts {
		if c.ID == "" {
			continue
		}
		if existing, ok := s.concepts[c.ID]; ok {
			s.concepts[c.ID] = store.MergeConcept(existing, c)
			summary.MergedConcepts++
			continue
		}
		s.concepts[c.ID] = c
		summary.AddedConcepts++
	}

	for _, r := range relationships {
		if r.SourceID == r.TargetID {
			summary.Rejected = append(summary.Rejected, common.RejectedRelationship{
				Relationship: r,
				Reason:       "self loop",
			})
			continue
		}
		if _, ok := s.concepts[r.SourceID]; !ok {
			summary.Rejected = append(summary.Rejected, common.RejectedRelationship{
				Relationship: r,
				Reason:       "unknown source concept",
			})
			continue
		}
		if _, ok := s.concepts[r.TargetID]; !ok {
			summary.Rejected = append(summary.Rejected, common.RejectedRelationship{
				Relationship: r,
				Reason:       "unknown target concept",
			})
			continue
		}

		key := relKey{source: r.SourceID, target: r.TargetID, relTyp: r.Type}
		if existing, ok := s.relationships[key]; ok {
			s.relationships[key] = store.MergeRelationship(existing, r)
			summary.MergedRelationships++
			continue
		}
		s.relationships[key] = r
		summary.AddedRelationships++
	}

	return summary, nil
}

// GetConcept returns the concept with the given id.
func (s *GraphMemoryStorage) GetConcept(ctx context.Context, id string) (*common.Concept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.concepts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &c, nil
}

// SearchConcepts returns all concepts matching the query, ordered by id.
func (s *GraphMemoryStorage) SearchConcepts(ctx context.Context, query string) ([]common.Concept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]common.Concept, 0)
	for _, c := range s.concepts {
		if store.MatchesQuery(c, query) {
			matches = append(matches, c)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

// Neighbors returns all relationships touching any of the given ids.
func (s *GraphMemoryStorage) Neighbors(ctx context.Context, ids []string) ([]common.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	rels := make([]common.Relationship, 0)
	for _, r := range s.relationships {
		if _, ok := idSet[r.SourceID]; ok {
			rels = append(rels, r)
			continue
		}
		if _, ok := idSet[r.TargetID]; ok {
			rels = append(rels, r)
		}
	}
	sortRelationships(rels)
	return rels, nil
}

// ListConcepts returns all concepts ordered by id.
func (s *GraphMemoryStorage) ListConcepts(ctx context.Context) ([]common.Concept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	concepts := make([]common.Concept, 0, len(s.concepts))
	for _, c := range s.concepts {
		concepts = append(concepts, c)
	}
	sort.Slice(concepts, func(i, j int) bool { return concepts[i].ID < concepts[j].ID })
	return concepts, nil
}

// ListRelationships returns all relationships ordered by endpoints and type.
func (s *GraphMemoryStorage) ListRelationships(ctx context.Context) ([]common.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rels := make([]common.Relationship, 0, len(s.relationships))
	for _, r := range s.relationships {
		rels = append(rels, r)
	}
	sortRelationships(rels)
	return rels, nil
}

func (s *GraphMemoryStorage) CountConcepts(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.concepts), nil
}

func (s *GraphMemoryStorage) CountRelationships(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.relationships), nil
}

// Clear removes every concept and relationship.
func (s *GraphMemoryStorage) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.concepts = make(map[string]common.Concept)
	s.relationships = make(map[relKey]common.Relationship)
	return nil
}

func sortRelationships(rels []common.Relationship) {
	sort.Slice(rels, func(i, j int) bool {
		if rels[i].SourceID != rels[j].SourceID {
			return rels[i].SourceID < rels[j].SourceID
		}
		if rels[i].TargetID != rels[j].TargetID {
			return rels[i].TargetID < rels[j].TargetID
		}
		return rels[i].Type < rels[j].Type
	})
}
