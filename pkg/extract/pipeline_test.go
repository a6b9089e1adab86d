package extract

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/store/memory"
)

func newTestExtractor() (*Extractor, *memory.GraphMemoryStorage) {
	s := memory.NewGraphMemoryStorage()
	e := NewExtractor(NewExtractorParams{Store: s})
	return e, s
}

func TestProcessEmptyText(t *testing.T) {
	e, _ := newTestExtractor()
	_, err := e.Process(context.Background(), common.Document{Title: "Empty", Text: "   "})
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestProcessScenario(t *testing.T) {
	e, s := newTestExtractor()
	ctx := context.Background()

	result, err := e.Process(ctx, common.Document{
		Title: "Machine learning",
		Text:  "Machine learning uses statistics to build predictive models.",
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.ConceptsAdded < 3 {
		t.Errorf("concepts added = %d, want at least 3", result.ConceptsAdded)
	}

	for _, id := range []string{"machine_learning", "statistic", "predictive_model"} {
		if _, err := s.GetConcept(ctx, id); err != nil {
			t.Errorf("concept %q missing: %v", id, err)
		}
	}

	rels, err := s.ListRelationships(ctx)
	if err != nil {
		t.Fatalf("list relationships: %v", err)
	}
	foundUses := false
	for _, r := range rels {
		if r.SourceID == "machine_learning" && r.TargetID == "statistic" && r.Type == common.Uses {
			foundUses = true
			if r.Confidence <= BaselineConfidence {
				t.Errorf("USES confidence = %f, want above baseline", r.Confidence)
			}
		}
	}
	if !foundUses {
		t.Errorf("no USES relationship between machine_learning and statistic in %+v", rels)
	}
}

func TestProcessIdempotent(t *testing.T) {
	e, _ := newTestExtractor()
	ctx := context.Background()

	doc := common.Document{
		Title: "Machine learning",
		Text:  "Machine learning uses statistics. Statistics uses calculus to model data.",
	}

	first, err := e.Process(ctx, doc)
	if err != nil {
		t.Fatalf("first process: %v", err)
	}
	second, err := e.Process(ctx, doc)
	if err != nil {
		t.Fatalf("second process: %v", err)
	}

	if second.ConceptsAdded != 0 {
		t.Errorf("second run concepts added = %d, want 0", second.ConceptsAdded)
	}
	if second.RelationshipsAdded != 0 {
		t.Errorf("second run relationships added = %d, want 0", second.RelationshipsAdded)
	}
	if second.ConceptCount != first.ConceptCount {
		t.Errorf("concept count changed between runs: %d vs %d", first.ConceptCount, second.ConceptCount)
	}
	if second.RelationshipCount != first.RelationshipCount {
		t.Errorf("relationship count changed between runs: %d vs %d", first.RelationshipCount, second.RelationshipCount)
	}
}

func TestProcessNoSelfLoops(t *testing.T) {
	e, s := newTestExtractor()
	ctx := context.Background()

	// title and body mention the same concept repeatedly
	if _, err := e.Process(ctx, common.Document{
		Title: "Statistics",
		Text:  "Statistics uses statistics in statistics courses about statistics.",
	}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	rels, err := s.ListRelationships(ctx)
	if err != nil {
		t.Fatalf("list relationships: %v", err)
	}
	for _, r := range rels {
		if r.SourceID == r.TargetID {
			t.Errorf("stored self-loop: %+v", r)
		}
	}
}

func TestProcessLinks(t *testing.T) {
	e, s := newTestExtractor()
	ctx := context.Background()

	if _, err := e.Process(ctx, common.Document{
		Title: "Calculus",
		Text:  "Calculus is the study of continuous change.",
		Links: []string{"Derivative", "Integral"},
	}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	rels, err := s.ListRelationships(ctx)
	if err != nil {
		t.Fatalf("list relationships: %v", err)
	}
	linked := 0
	for _, r := range rels {
		if r.SourceID == "calculus" && r.Type == common.RelatesTo && r.Confidence == linkConfidence {
			linked++
		}
	}
	if linked != 2 {
		t.Errorf("link edges = %d, want 2", linked)
	}
}

func TestProcessConcurrentSameConcept(t *testing.T) {
	e, s := newTestExtractor()
	ctx := context.Background()

	docs := []common.Document{
		{
			Title:      "Probability",
			Text:       "Probability uses calculus for continuous distributions.",
			Categories: []string{"mathematics"},
		},
		{
			Title:      "Probability",
			Text:       "Probability relies on set theory for its foundations.",
			Categories: []string{"measure theory"},
		},
	}

	var wg sync.WaitGroup
	for _, doc := range docs {
		wg.Add(1)
		go func(d common.Document) {
			defer wg.Done()
			if _, err := e.Process(ctx, d); err != nil {
				t.Errorf("Process: %v", err)
			}
		}(doc)
	}
	wg.Wait()

	c, err := s.GetConcept(ctx, "probability")
	if err != nil {
		t.Fatalf("get concept: %v", err)
	}
	if len(c.Categories) != 2 {
		t.Errorf("categories = %v, want both documents' categories merged", c.Categories)
	}

	concepts, err := s.ListConcepts(ctx)
	if err != nil {
		t.Fatalf("list concepts: %v", err)
	}
	seen := 0
	for _, got := range concepts {
		if got.ID == "probability" {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("probability stored %d times, want once", seen)
	}
}

func TestProcessMergesNearDuplicateAcrossDocuments(t *testing.T) {
	e, s := newTestExtractor()
	ctx := context.Background()

	if _, err := e.Process(ctx, common.Document{
		Title: "Neural Network",
		Text:  "A Neural Network maps inputs to outputs.",
	}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := e.Process(ctx, common.Document{
		Title: "Neural Networks",
		Text:  "Neural Networks use calculus during training.",
	}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	concepts, err := s.ListConcepts(ctx)
	if err != nil {
		t.Fatalf("list concepts: %v", err)
	}
	count := 0
	for _, c := range concepts {
		if c.ID == "neural_network" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("neural_network stored %d times, want a single merged concept", count)
	}
}
