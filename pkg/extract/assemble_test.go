package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/store/memory"
)

func TestUpsertCleanBatch(t *testing.T) {
	a := NewAssembler(memory.NewGraphMemoryStorage())

	summary, err := a.Upsert(context.Background(),
		[]common.Concept{
			{ID: "machine_learning", Title: "Machine learning"},
			{ID: "statistics", Title: "Statistics"},
		},
		[]common.Relationship{
			{SourceID: "machine_learning", TargetID: "statistics", Type: common.Uses, Confidence: 0.8},
		},
	)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if summary.AddedConcepts != 2 || summary.AddedRelationships != 1 {
		t.Errorf("summary = %+v, want 2 concepts and 1 relationship added", summary)
	}
}

func TestUpsertRejectionsSurfaceMergeConflict(t *testing.T) {
	a := NewAssembler(memory.NewGraphMemoryStorage())

	summary, err := a.Upsert(context.Background(),
		[]common.Concept{
			{ID: "statistics", Title: "Statistics"},
		},
		[]common.Relationship{
			{SourceID: "statistics", TargetID: "ghost", Type: common.RelatesTo, Confidence: 0.3},
		},
	)
	if !errors.Is(err, common.ErrMergeConflict) {
		t.Fatalf("err = %v, want ErrMergeConflict", err)
	}
	if summary == nil {
		t.Fatal("summary is nil, want partial counts alongside the conflict")
	}
	if summary.AddedConcepts != 1 {
		t.Errorf("added concepts = %d, want 1", summary.AddedConcepts)
	}
	if len(summary.Rejected) != 1 {
		t.Errorf("rejected = %d, want 1", len(summary.Rejected))
	}
}
