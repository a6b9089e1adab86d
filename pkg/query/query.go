// Package query answers read-only traversal queries over an assembled
// knowledge graph: point lookup, ranked search, bounded subgraph
// expansion, shortest path and summary statistics. All operations read a
// consistent snapshot from the backing store and never mutate it, so
// they are safe to call concurrently.
package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/store"
)

const (
	defaultSearchLimit = 10
	maxMostConnected   = 10
)

// Engine executes graph queries against a GraphStorage.
type Engine struct {
	store store.GraphStorage
}

// NewEngine creates a query engine over the given store.
func NewEngine(s store.GraphStorage) *Engine {
	return &Engine{store: s}
}

// Get returns the concept with the given id, or common.ErrNotFound.
func (e *Engine) Get(ctx context.Context, id string) (*common.Concept, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: empty concept id", common.ErrInvalidInput)
	}
	return e.store.GetConcept(ctx, id)
}

// SearchResult pairs a matched concept with its undirected degree.
type SearchResult struct {
	Concept common.Concept `json:"concept"`
	Degree  int            `json:"degree"`
}

// Search returns up to limit concepts whose title or summary contains the
// query, ranked by match strength, then degree, then id. A non-positive
// limit falls back to a small default.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", common.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	matches, err := e.store.SearchConcepts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search concepts: %w", err)
	}
	if len(matches) == 0 {
		return []SearchResult{}, nil
	}

	degrees, err := e.degrees(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(matches))
	for _, c := range matches {
		results = append(results, SearchResult{Concept: c, Degree: degrees[c.ID]})
	}

	lowered := strings.ToLower(query)
	sort.SliceStable(results, func(i, j int) bool {
		si := matchStrength(results[i].Concept, lowered)
		sj := matchStrength(results[j].Concept, lowered)
		if si != sj {
			return si > sj
		}
		if results[i].Degree != results[j].Degree {
			return results[i].Degree > results[j].Degree
		}
		return results[i].Concept.ID < results[j].Concept.ID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// matchStrength orders matches: exact title, title prefix, title
// substring, then summary-only hits.
func matchStrength(c common.Concept, loweredQuery string) int {
	title := strings.ToLower(c.Title)
	switch {
	case title == loweredQuery:
		return 4
	case strings.HasPrefix(title, loweredQuery):
		return 3
	case strings.Contains(title, loweredQuery):
		return 2
	default:
		return 1
	}
}

// Subgraph expands the graph outward from root up to depth hops,
// treating edges as undirected for reachability. Depth 0 returns just
// the root. Unknown roots yield common.ErrNotFound.
func (e *Engine) Subgraph(ctx context.Context, rootID string, depth int) (*common.GraphData, error) {
	if depth < 0 {
		return nil, fmt.Errorf("%w: negative depth %d", common.ErrInvalidInput, depth)
	}

	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.concepts[rootID]; !ok {
		return nil, fmt.Errorf("concept %q: %w", rootID, common.ErrNotFound)
	}

	included := map[string]bool{rootID: true}
	frontier := []string{rootID}
	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, id := range frontier {
			for _, neighbor := range snap.adjacency[id] {
				if included[neighbor] {
					continue
				}
				included[neighbor] = true
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return snap.graphData(included), nil
}

// ShortestPath finds an unweighted shortest path from source to target
// within maxDepth hops. Neighbors are expanded in lexicographic id order
// so ties resolve deterministically. An unreachable target yields an
// empty graph, not an error; unknown endpoints yield common.ErrNotFound.
func (e *Engine) ShortestPath(ctx context.Context, sourceID, targetID string, maxDepth int) (*common.GraphData, error) {
	if maxDepth < 0 {
		return nil, fmt.Errorf("%w: negative max depth %d", common.ErrInvalidInput, maxDepth)
	}

	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range []string{sourceID, targetID} {
		if _, ok := snap.concepts[id]; !ok {
			return nil, fmt.Errorf("concept %q: %w", id, common.ErrNotFound)
		}
	}

	if sourceID == targetID {
		return snap.pathData([]string{sourceID}), nil
	}

	parent := map[string]string{sourceID: ""}
	frontier := []string{sourceID}
	for hop := 0; hop < maxDepth && len(frontier) > 0; hop++ {
		var next []string
		for _, id := range frontier {
			for _, neighbor := range snap.adjacency[id] {
				if _, seen := parent[neighbor]; seen {
					continue
				}
				parent[neighbor] = id
				if neighbor == targetID {
					return snap.pathData(reconstructPath(parent, sourceID, targetID)), nil
				}
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return &common.GraphData{Nodes: []common.Node{}, Edges: []common.Edge{}}, nil
}

func reconstructPath(parent map[string]string, sourceID, targetID string) []string {
	var reversed []string
	for id := targetID; id != ""; id = parent[id] {
		reversed = append(reversed, id)
		if id == sourceID {
			break
		}
	}
	path := make([]string, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path
}

// FullGraph returns every node and edge in the store.
func (e *Engine) FullGraph(ctx context.Context) (*common.GraphData, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	included := make(map[string]bool, len(snap.concepts))
	for id := range snap.concepts {
		included[id] = true
	}
	return snap.graphData(included), nil
}

// Stats summarizes the graph: entity counts, edges per relationship type
// and the most connected concepts by undirected degree.
func (e *Engine) Stats(ctx context.Context) (*common.Stats, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	types := make(map[string]int)
	for _, rel := range snap.relationships {
		types[string(rel.Type)]++
	}

	degrees := make([]common.ConceptDegree, 0, len(snap.concepts))
	for id := range snap.concepts {
		degrees = append(degrees, common.ConceptDegree{
			Concept: id,
			Degree:  len(snap.adjacency[id]),
		})
	}
	sort.Slice(degrees, func(i, j int) bool {
		if degrees[i].Degree != degrees[j].Degree {
			return degrees[i].Degree > degrees[j].Degree
		}
		return degrees[i].Concept < degrees[j].Concept
	})
	if len(degrees) > maxMostConnected {
		degrees = degrees[:maxMostConnected]
	}

	return &common.Stats{
		ConceptCount:      len(snap.concepts),
		RelationshipCount: len(snap.relationships),
		RelationshipTypes: types,
		MostConnected:     degrees,
	}, nil
}
