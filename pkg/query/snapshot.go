package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/vats98754/auto-kg/backend/pkg/common"
)

// snapshot is a point-in-time read of the whole graph with a
// precomputed undirected adjacency index. Neighbor lists are sorted by
// id so traversals visit nodes in a stable order.
type snapshot struct {
	concepts      map[string]common.Concept
	relationships []common.Relationship
	adjacency     map[string][]string
}

func (e *Engine) snapshot(ctx context.Context) (*snapshot, error) {
	concepts, err := e.store.ListConcepts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list concepts: %w", err)
	}
	relationships, err := e.store.ListRelationships(ctx)
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}

	snap := &snapshot{
		concepts:      make(map[string]common.Concept, len(concepts)),
		relationships: relationships,
		adjacency:     make(map[string][]string),
	}
	for _, c := range concepts {
		snap.concepts[c.ID] = c
	}

	seen := make(map[string]map[string]bool)
	addNeighbor := func(from, to string) {
		if seen[from] == nil {
			seen[from] = make(map[string]bool)
		}
		if seen[from][to] {
			return
		}
		seen[from][to] = true
		snap.adjacency[from] = append(snap.adjacency[from], to)
	}
	for _, rel := range relationships {
		addNeighbor(rel.SourceID, rel.TargetID)
		addNeighbor(rel.TargetID, rel.SourceID)
	}
	for id := range snap.adjacency {
		sort.Strings(snap.adjacency[id])
	}
	return snap, nil
}

// degrees returns the undirected degree of every concept without
// building a full snapshot index.
func (e *Engine) degrees(ctx context.Context) (map[string]int, error) {
	relationships, err := e.store.ListRelationships(ctx)
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	degrees := make(map[string]int)
	for _, rel := range relationships {
		degrees[rel.SourceID]++
		degrees[rel.TargetID]++
	}
	return degrees, nil
}

// graphData renders the included node set plus every edge whose
// endpoints are both included, both sorted for stable output.
func (s *snapshot) graphData(included map[string]bool) *common.GraphData {
	nodes := make([]common.Node, 0, len(included))
	for id := range included {
		if c, ok := s.concepts[id]; ok {
			nodes = append(nodes, common.NodeFromConcept(c))
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	edges := make([]common.Edge, 0)
	for _, rel := range s.relationships {
		if included[rel.SourceID] && included[rel.TargetID] {
			edges = append(edges, common.EdgeFromRelationship(rel))
		}
	}
	return &common.GraphData{Nodes: nodes, Edges: edges}
}

// pathData renders an ordered node path and the edges connecting each
// consecutive pair. Stored edges run in one direction only, so both
// orientations are checked.
func (s *snapshot) pathData(path []string) *common.GraphData {
	nodes := make([]common.Node, 0, len(path))
	for _, id := range path {
		if c, ok := s.concepts[id]; ok {
			nodes = append(nodes, common.NodeFromConcept(c))
		}
	}

	edges := make([]common.Edge, 0, len(path))
	for i := 0; i+1 < len(path); i++ {
		if edge, ok := s.edgeBetween(path[i], path[i+1]); ok {
			edges = append(edges, edge)
		}
	}
	return &common.GraphData{Nodes: nodes, Edges: edges}
}

func (s *snapshot) edgeBetween(a, b string) (common.Edge, bool) {
	for _, rel := range s.relationships {
		if (rel.SourceID == a && rel.TargetID == b) || (rel.SourceID == b && rel.TargetID == a) {
			return common.EdgeFromRelationship(rel), true
		}
	}
	return common.Edge{}, false
}
