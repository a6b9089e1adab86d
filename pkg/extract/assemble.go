package extract

import (
	"context"
	"fmt"
	"sort"

	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/store"
)

// Assembler prepares an extraction batch and applies it to storage. It
// deduplicates within the batch, pre-validates relationship endpoints and
// hands the cleaned batch to the store's idempotent upsert.
type Assembler struct {
	store store.GraphStorage
}

// NewAssembler creates an assembler writing to the given store.
func NewAssembler(storage store.GraphStorage) *Assembler {
	return &Assembler{store: storage}
}

// Upsert applies a batch. Relationships with identical endpoints or
// endpoints missing from both the batch and the store are rejected into
// the summary; the rest of the batch still applies. Rejections surface
// as an ErrMergeConflict alongside the summary, so callers see both the
// conflict and the partial counts.
func (a *Assembler) Upsert(
	ctx context.Context,
	concepts []common.Concept,
	relationships []common.Relationship,
) (*common.UpsertSummary, error) {
	concepts = dedupeConcepts(concepts)
	relationships = dedupeRelationships(relationships)

	summary, err := a.store.UpsertGraph(ctx, concepts, relationships)
	if err != nil {
		return nil, err
	}
	if len(summary.Rejected) > 0 {
		return summary, fmt.Errorf("%w: %d relationships rejected",
			common.ErrMergeConflict, len(summary.Rejected))
	}
	return summary, nil
}

// dedupeConcepts folds batch-internal duplicates by id and returns the
// batch ordered by id.
func dedupeConcepts(concepts []common.Concept) []common.Concept {
	byID := make(map[string]common.Concept, len(concepts))
	for _, c := range concepts {
		if c.ID == "" {
			continue
		}
		if existing, ok := byID[c.ID]; ok {
			byID[c.ID] = store.MergeConcept(existing, c)
			continue
		}
		byID[c.ID] = c
	}

	out := make([]common.Concept, 0, len(byID))
	for _, c := range byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// dedupeRelationships folds duplicates of the same (source, target, type)
// triple, keeping the higher confidence, and returns the batch in a
// stable order.
func dedupeRelationships(rels []common.Relationship) []common.Relationship {
	type key struct {
		source string
		target string
		relTyp common.RelationType
	}
	byKey := make(map[key]common.Relationship, len(rels))
	for _, r := range rels {
		k := key{source: r.SourceID, target: r.TargetID, relTyp: r.Type}
		if existing, ok := byKey[k]; ok {
			byKey[k] = store.MergeRelationship(existing, r)
			continue
		}
		byKey[k] = r
	}

	out := make([]common.Relationship, 0, len(byKey))
	for _, r := range byKey {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceID != out[j].SourceID {
			return out[i].SourceID < out[j].SourceID
		}
		if out[i].TargetID != out[j].TargetID {
			return out[i].TargetID < out[j].TargetID
		}
		return out[i].Type < out[j].Type
	})
	return out
}
