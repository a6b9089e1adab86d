package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/store/memory"
)

func concept(id, title string) common.Concept {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return common.Concept{ID: id, Title: title, FirstSeen: now, LastUpdated: now}
}

func relate(source, target string, typ common.RelationType) common.Relationship {
	return common.Relationship{SourceID: source, TargetID: target, Type: typ, Confidence: 0.8}
}

func seedEngine(t *testing.T, concepts []common.Concept, relationships []common.Relationship) *Engine {
	t.Helper()
	s := memory.NewGraphMemoryStorage()
	if _, err := s.UpsertGraph(context.Background(), concepts, relationships); err != nil {
		t.Fatalf("seed graph: %v", err)
	}
	return NewEngine(s)
}

func TestGet(t *testing.T) {
	e := seedEngine(t, []common.Concept{concept("calculus", "Calculus")}, nil)

	c, err := e.Get(context.Background(), "calculus")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.Title != "Calculus" {
		t.Errorf("title = %q, want Calculus", c.Title)
	}

	if _, err := e.Get(context.Background(), "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := e.Get(context.Background(), "  "); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSearchRanking(t *testing.T) {
	concepts := []common.Concept{
		concept("algebra", "Algebra"),
		concept("linear_algebra", "Linear Algebra"),
		{ID: "matrix", Title: "Matrix", Summary: "Core object of algebra courses."},
	}
	relationships := []common.Relationship{
		relate("linear_algebra", "matrix", common.Uses),
	}
	e := seedEngine(t, concepts, relationships)

	results, err := e.Search(context.Background(), "algebra", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	// exact title first, title substring next, summary-only last
	wantOrder := []string{"algebra", "linear_algebra", "matrix"}
	for i, want := range wantOrder {
		if results[i].Concept.ID != want {
			t.Errorf("results[%d] = %q, want %q", i, results[i].Concept.ID, want)
		}
	}
}

func TestSearchLimitAndEmpty(t *testing.T) {
	e := seedEngine(t, []common.Concept{
		concept("algebra", "Algebra"),
		concept("linear_algebra", "Linear Algebra"),
	}, nil)

	results, err := e.Search(context.Background(), "algebra", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("results = %d, want limit 1", len(results))
	}

	results, err = e.Search(context.Background(), "quantum", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want none", len(results))
	}

	if _, err := e.Search(context.Background(), "  ", 10); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func chainGraph() ([]common.Concept, []common.Relationship) {
	concepts := []common.Concept{
		concept("a", "A"), concept("b", "B"), concept("c", "C"),
		concept("d", "D"), concept("e", "E"), concept("f", "F"),
	}
	relationships := []common.Relationship{
		relate("a", "b", common.RelatesTo),
		relate("b", "c", common.RelatesTo),
		relate("c", "d", common.RelatesTo),
		relate("d", "e", common.RelatesTo),
		relate("e", "f", common.RelatesTo),
	}
	return concepts, relationships
}

func TestSubgraphDepthZero(t *testing.T) {
	concepts, relationships := chainGraph()
	e := seedEngine(t, concepts, relationships)

	g, err := e.Subgraph(context.Background(), "c", 0)
	if err != nil {
		t.Fatalf("Subgraph: %v", err)
	}
	if len(g.Nodes) != 1 || g.Nodes[0].ID != "c" {
		t.Errorf("nodes = %+v, want just the root", g.Nodes)
	}
	if len(g.Edges) != 0 {
		t.Errorf("edges = %+v, want none", g.Edges)
	}
}

func TestSubgraphDepthOne(t *testing.T) {
	concepts, relationships := chainGraph()
	e := seedEngine(t, concepts, relationships)

	g, err := e.Subgraph(context.Background(), "c", 1)
	if err != nil {
		t.Fatalf("Subgraph: %v", err)
	}
	// undirected reachability pulls in both b and d
	wantNodes := []string{"b", "c", "d"}
	if len(g.Nodes) != len(wantNodes) {
		t.Fatalf("nodes = %+v, want %v", g.Nodes, wantNodes)
	}
	for i, want := range wantNodes {
		if g.Nodes[i].ID != want {
			t.Errorf("nodes[%d] = %q, want %q", i, g.Nodes[i].ID, want)
		}
	}
	if len(g.Edges) != 2 {
		t.Errorf("edges = %+v, want the two incident edges", g.Edges)
	}
}

func TestSubgraphUnknownRoot(t *testing.T) {
	concepts, relationships := chainGraph()
	e := seedEngine(t, concepts, relationships)

	if _, err := e.Subgraph(context.Background(), "zz", 2); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSubgraphTerminatesOnCycles(t *testing.T) {
	concepts := []common.Concept{concept("x", "X"), concept("y", "Y"), concept("z", "Z")}
	relationships := []common.Relationship{
		relate("x", "y", common.RelatesTo),
		relate("y", "z", common.RelatesTo),
		relate("z", "x", common.RelatesTo),
	}
	e := seedEngine(t, concepts, relationships)

	g, err := e.Subgraph(context.Background(), "x", 10)
	if err != nil {
		t.Fatalf("Subgraph: %v", err)
	}
	if len(g.Nodes) != 3 || len(g.Edges) != 3 {
		t.Errorf("got %d nodes %d edges, want the full cycle once", len(g.Nodes), len(g.Edges))
	}
}

func TestShortestPathPrefersDirectEdge(t *testing.T) {
	concepts := []common.Concept{
		concept("a", "A"), concept("b", "B"), concept("c", "C"), concept("d", "D"),
	}
	relationships := []common.Relationship{
		relate("a", "b", common.RelatesTo),
		relate("b", "c", common.RelatesTo),
		relate("c", "d", common.RelatesTo),
		relate("a", "d", common.RelatesTo),
	}
	e := seedEngine(t, concepts, relationships)

	g, err := e.ShortestPath(context.Background(), "a", "d", 3)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if len(g.Edges) != 1 {
		t.Errorf("edges = %+v, want the single direct edge", g.Edges)
	}
	if len(g.Nodes) != 2 || g.Nodes[0].ID != "a" || g.Nodes[1].ID != "d" {
		t.Errorf("nodes = %+v, want [a d]", g.Nodes)
	}
}

func TestShortestPathRespectsBound(t *testing.T) {
	concepts, relationships := chainGraph()
	e := seedEngine(t, concepts, relationships)

	// a to f is five hops, beyond the bound
	g, err := e.ShortestPath(context.Background(), "a", "f", 3)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if len(g.Edges) != 0 || len(g.Nodes) != 0 {
		t.Errorf("got %+v, want empty graph when unreachable within bound", g)
	}

	g, err = e.ShortestPath(context.Background(), "a", "f", 5)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if len(g.Edges) != 5 {
		t.Errorf("edges = %d, want the full five-hop chain", len(g.Edges))
	}
}

func TestShortestPathUnknownEndpoint(t *testing.T) {
	concepts, relationships := chainGraph()
	e := seedEngine(t, concepts, relationships)

	if _, err := e.ShortestPath(context.Background(), "a", "zz", 3); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := e.ShortestPath(context.Background(), "zz", "a", 3); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestShortestPathSameEndpoint(t *testing.T) {
	concepts, relationships := chainGraph()
	e := seedEngine(t, concepts, relationships)

	g, err := e.ShortestPath(context.Background(), "c", "c", 3)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if len(g.Nodes) != 1 || g.Nodes[0].ID != "c" || len(g.Edges) != 0 {
		t.Errorf("got %+v, want just the shared endpoint", g)
	}
}

func TestShortestPathDeterministicTieBreak(t *testing.T) {
	// two equal-length routes from s to t, via m1 and via m2
	concepts := []common.Concept{
		concept("s", "S"), concept("t", "T"), concept("m1", "M1"), concept("m2", "M2"),
	}
	relationships := []common.Relationship{
		relate("s", "m1", common.RelatesTo),
		relate("s", "m2", common.RelatesTo),
		relate("m1", "t", common.RelatesTo),
		relate("m2", "t", common.RelatesTo),
	}
	e := seedEngine(t, concepts, relationships)

	for range 5 {
		g, err := e.ShortestPath(context.Background(), "s", "t", 4)
		if err != nil {
			t.Fatalf("ShortestPath: %v", err)
		}
		if len(g.Nodes) != 3 {
			t.Fatalf("nodes = %+v, want a two-hop path", g.Nodes)
		}
		// lexicographic neighbor expansion always routes via m1
		if g.Nodes[1].ID != "m1" {
			t.Errorf("intermediate = %q, want m1", g.Nodes[1].ID)
		}
	}
}

func TestStats(t *testing.T) {
	concepts := []common.Concept{
		concept("hub", "Hub"), concept("a", "A"), concept("b", "B"), concept("c", "C"),
	}
	relationships := []common.Relationship{
		relate("hub", "a", common.Uses),
		relate("hub", "b", common.Uses),
		relate("hub", "c", common.RelatesTo),
	}
	e := seedEngine(t, concepts, relationships)

	stats, err := e.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.ConceptCount != 4 || stats.RelationshipCount != 3 {
		t.Errorf("counts = %d/%d, want 4/3", stats.ConceptCount, stats.RelationshipCount)
	}
	if stats.RelationshipTypes["USES"] != 2 || stats.RelationshipTypes["RELATES_TO"] != 1 {
		t.Errorf("relationship types = %v", stats.RelationshipTypes)
	}
	if len(stats.MostConnected) == 0 || stats.MostConnected[0].Concept != "hub" || stats.MostConnected[0].Degree != 3 {
		t.Errorf("most connected = %+v, want hub with degree 3 first", stats.MostConnected)
	}
}

func TestFullGraph(t *testing.T) {
	concepts, relationships := chainGraph()
	e := seedEngine(t, concepts, relationships)

	g, err := e.FullGraph(context.Background())
	if err != nil {
		t.Fatalf("FullGraph: %v", err)
	}
	if len(g.Nodes) != len(concepts) || len(g.Edges) != len(relationships) {
		t.Errorf("got %d nodes %d edges, want %d/%d",
			len(g.Nodes), len(g.Edges), len(concepts), len(relationships))
	}
}
