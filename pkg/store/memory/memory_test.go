package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/vats98754/auto-kg/backend/pkg/common"
)

func testConcepts() []common.Concept {
	return []common.Concept{
		{ID: "machine_learning", Title: "Machine learning", Summary: "A field of AI."},
		{ID: "statistics", Title: "Statistics", Summary: "The study of data."},
		{ID: "calculus", Title: "Calculus", Summary: "The study of change."},
	}
}

func TestUpsertGraphIdempotent(t *testing.T) {
	s := NewGraphMemoryStorage()
	ctx := context.Background()

	concepts := testConcepts()
	rels := []common.Relationship{
		{SourceID: "machine_learning", TargetID: "statistics", Type: common.Uses, Confidence: 0.8},
	}

	first, err := s.UpsertGraph(ctx, concepts, rels)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if first.AddedConcepts != 3 || first.MergedConcepts != 0 {
		t.Errorf("first upsert concepts: added=%d merged=%d", first.AddedConcepts, first.MergedConcepts)
	}
	if first.AddedRelationships != 1 || first.MergedRelationships != 0 {
		t.Errorf("first upsert relationships: added=%d merged=%d", first.AddedRelationships, first.MergedRelationships)
	}

	second, err := s.UpsertGraph(ctx, concepts, rels)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.AddedConcepts != 0 || second.MergedConcepts != 3 {
		t.Errorf("second upsert concepts: added=%d merged=%d", second.AddedConcepts, second.MergedConcepts)
	}
	if second.AddedRelationships != 0 || second.MergedRelationships != 1 {
		t.Errorf("second upsert relationships: added=%d merged=%d", second.AddedRelationships, second.MergedRelationships)
	}

	count, err := s.CountConcepts(ctx)
	if err != nil {
		t.Fatalf("count concepts: %v", err)
	}
	if count != 3 {
		t.Errorf("concept count after double upsert = %d, want 3", count)
	}
	relCount, err := s.CountRelationships(ctx)
	if err != nil {
		t.Fatalf("count relationships: %v", err)
	}
	if relCount != 1 {
		t.Errorf("relationship count after double upsert = %d, want 1", relCount)
	}
}

func TestUpsertGraphRejections(t *testing.T) {
	tests := []struct {
		name       string
		rel        common.Relationship
		wantReason string
	}{
		{
			name:       "self loop",
			rel:        common.Relationship{SourceID: "statistics", TargetID: "statistics", Type: common.RelatesTo},
			wantReason: "self loop",
		},
		{
			name:       "unknown source",
			rel:        common.Relationship{SourceID: "ghost", TargetID: "statistics", Type: common.RelatesTo},
			wantReason: "unknown source concept",
		},
		{
			name:       "unknown target",
			rel:        common.Relationship{SourceID: "statistics", TargetID: "ghost", Type: common.RelatesTo},
			wantReason: "unknown target concept",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewGraphMemoryStorage()
			summary, err := s.UpsertGraph(context.Background(), testConcepts(), []common.Relationship{tt.rel})
			if err != nil {
				t.Fatalf("upsert: %v", err)
			}
			if summary.AddedRelationships != 0 {
				t.Errorf("added relationships = %d, want 0", summary.AddedRelationships)
			}
			if len(summary.Rejected) != 1 {
				t.Fatalf("rejected = %d, want 1", len(summary.Rejected))
			}
			if summary.Rejected[0].Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", summary.Rejected[0].Reason, tt.wantReason)
			}
		})
	}
}

func TestUpsertGraphMergeSemantics(t *testing.T) {
	s := NewGraphMemoryStorage()
	ctx := context.Background()

	if _, err := s.UpsertGraph(ctx, []common.Concept{
		{ID: "calculus", Title: "Calculus", Summary: "Short.", Categories: []string{"mathematics"}},
	}, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := s.UpsertGraph(ctx, []common.Concept{
		{ID: "calculus", Title: "Calculus", Summary: "A much longer summary about limits.", Categories: []string{"analysis"}},
	}, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	c, err := s.GetConcept(ctx, "calculus")
	if err != nil {
		t.Fatalf("get concept: %v", err)
	}
	if c.Summary != "A much longer summary about limits." {
		t.Errorf("summary = %q, longer summary should win", c.Summary)
	}
	if len(c.Categories) != 2 {
		t.Errorf("categories = %v, want union of both", c.Categories)
	}

	rel := common.Relationship{SourceID: "calculus", TargetID: "calculus2", Type: common.RelatesTo, Confidence: 0.3, Evidence: "weak"}
	if _, err := s.UpsertGraph(ctx, []common.Concept{{ID: "calculus2", Title: "Calculus II"}}, []common.Relationship{rel}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	rel.Confidence = 0.9
	rel.Evidence = "strong"
	if _, err := s.UpsertGraph(ctx, nil, []common.Relationship{rel}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rels, err := s.ListRelationships(ctx)
	if err != nil {
		t.Fatalf("list relationships: %v", err)
	}
	if len(rels) != 1 {
		t.Fatalf("relationships = %d, want 1", len(rels))
	}
	if rels[0].Confidence != 0.9 || rels[0].Evidence != "strong" {
		t.Errorf("merged relationship = %+v, higher confidence should win", rels[0])
	}
}

func TestGetConceptNotFound(t *testing.T) {
	s := NewGraphMemoryStorage()
	if _, err := s.GetConcept(context.Background(), "missing"); err != common.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSearchConcepts(t *testing.T) {
	s := NewGraphMemoryStorage()
	ctx := context.Background()
	if _, err := s.UpsertGraph(ctx, testConcepts(), nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	matches, err := s.SearchConcepts(ctx, "STUDY")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	// ordered by id
	if matches[0].ID != "calculus" || matches[1].ID != "statistics" {
		t.Errorf("match order = [%s %s], want [calculus statistics]", matches[0].ID, matches[1].ID)
	}
}

func TestNeighbors(t *testing.T) {
	s := NewGraphMemoryStorage()
	ctx := context.Background()
	rels := []common.Relationship{
		{SourceID: "machine_learning", TargetID: "statistics", Type: common.Uses},
		{SourceID: "statistics", TargetID: "calculus", Type: common.Uses},
	}
	if _, err := s.UpsertGraph(ctx, testConcepts(), rels); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.Neighbors(ctx, []string{"machine_learning"})
	if err != nil {
		t.Fatalf("neighbors: %v", err)
	}
	if len(got) != 1 || got[0].TargetID != "statistics" {
		t.Errorf("neighbors = %+v, want single edge to statistics", got)
	}

	got, err = s.Neighbors(ctx, []string{"statistics"})
	if err != nil {
		t.Fatalf("neighbors: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("neighbors = %d, want 2", len(got))
	}
}

func TestClear(t *testing.T) {
	s := NewGraphMemoryStorage()
	ctx := context.Background()
	if _, err := s.UpsertGraph(ctx, testConcepts(), nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	count, err := s.CountConcepts(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("count after clear = %d, want 0", count)
	}
}

func TestUpsertGraphConcurrent(t *testing.T) {
	s := NewGraphMemoryStorage()
	ctx := context.Background()

	concepts := testConcepts()
	rels := []common.Relationship{
		{SourceID: "machine_learning", TargetID: "statistics", Type: common.Uses, Confidence: 0.8},
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.UpsertGraph(ctx, concepts, rels); err != nil {
				t.Errorf("concurrent upsert: %v", err)
			}
		}()
	}
	wg.Wait()

	count, err := s.CountConcepts(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("concept count = %d, want 3", count)
	}
	relCount, err := s.CountRelationships(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if relCount != 1 {
		t.Errorf("relationship count = %d, want 1", relCount)
	}
}
