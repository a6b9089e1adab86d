package extract

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/logger"
	"github.com/vats98754/auto-kg/backend/pkg/store"
)

const (
	// low-confidence edges derived from document link lists
	linkConfidence = 0.2
	maxLinkEdges   = 20
)

// Extractor runs the full document pipeline: sentence split, candidate
// scan, concept resolution, relationship inference and the final upsert.
// Upserts are serialized through a mutex so concurrent Process calls
// never interleave partial merges.
type Extractor struct {
	store      store.GraphStorage
	scanner    *Scanner
	inferencer Inferencer
	assembler  *Assembler

	mu sync.Mutex
}

// NewExtractorParams configures a new Extractor. A nil Inferencer falls
// back to the rule-based one.
type NewExtractorParams struct {
	Store         store.GraphStorage
	Inferencer    Inferencer
	MaxCandidates int
}

// NewExtractor creates the document processing pipeline.
func NewExtractor(params NewExtractorParams) *Extractor {
	inferencer := params.Inferencer
	if inferencer == nil {
		inferencer = NewRuleBasedInferencer()
	}
	return &Extractor{
		store:      params.Store,
		scanner:    NewScanner(params.MaxCandidates),
		inferencer: inferencer,
		assembler:  NewAssembler(params.Store),
	}
}

// Process consumes one document and applies the extracted concepts and
// relationships to the graph. Reprocessing the same document adds
// nothing, only merges.
func (e *Extractor) Process(ctx context.Context, doc common.Document) (*common.ProcessResult, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, fmt.Errorf("%w: empty document text", common.ErrInvalidInput)
	}

	sentences := SplitSentences(doc.Text)
	candidates := e.scanner.Scan(doc.Title, sentences)

	known, err := e.store.ListConcepts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing concepts: %v", common.ErrUpstreamUnavailable, err)
	}

	now := time.Now().UTC()
	batch := newConceptBatch(known, now)

	titleID := ""
	if t := NormalizeTitle(doc.Title); t != "" {
		c := batch.resolveOrCreate(t)
		c.Summary = doc.Summary
		c.SourceURL = doc.SourceURL
		c.Categories = doc.Categories
		batch.put(c)
		titleID = c.ID
	}

	for _, cand := range candidates {
		batch.resolveOrCreate(cand.Phrase)
	}

	relationships := e.inferRelationships(ctx, sentences, batch)
	relationships = append(relationships, e.linkRelationships(titleID, doc.Links, batch)...)

	e.mu.Lock()
	summary, err := e.assembler.Upsert(ctx, batch.concepts(), relationships)
	e.mu.Unlock()
	if err != nil && !errors.Is(err, common.ErrMergeConflict) {
		return nil, err
	}

	if len(summary.Rejected) > 0 {
		logger.Debug("Rejected relationships during upsert",
			"document", doc.Title, "rejected", len(summary.Rejected))
	}

	conceptCount, err := e.store.CountConcepts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: counting concepts: %v", common.ErrUpstreamUnavailable, err)
	}
	relationshipCount, err := e.store.CountRelationships(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: counting relationships: %v", common.ErrUpstreamUnavailable, err)
	}

	return &common.ProcessResult{
		ConceptsAdded:      summary.AddedConcepts,
		RelationshipsAdded: summary.AddedRelationships,
		ConceptCount:       conceptCount,
		RelationshipCount:  relationshipCount,
	}, nil
}

// ProcessAll runs Process over a set of documents with bounded
// parallelism. Extraction overlaps freely; the upsert inside Process
// stays serialized. The first failure cancels the remaining documents.
func (e *Extractor) ProcessAll(ctx context.Context, docs []common.Document, parallel int) ([]common.ProcessResult, error) {
	if parallel < 1 {
		parallel = 1
	}

	results := make([]common.ProcessResult, len(docs))
	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(parallel)

	for i, doc := range docs {
		eg.Go(func() error {
			result, err := e.Process(gCtx, doc)
			if err != nil {
				return fmt.Errorf("document %q: %w", doc.Title, err)
			}
			results[i] = *result
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// inferRelationships walks every sentence, finds which batch concepts it
// mentions and infers one relationship per co-occurring pair. The
// earlier mention becomes the source. Duplicate pairs keep the higher
// confidence.
func (e *Extractor) inferRelationships(ctx context.Context, sentences []string, batch *conceptBatch) []common.Relationship {
	type pairKey struct{ a, b string }
	best := make(map[pairKey]common.Relationship)

	concepts := batch.concepts()

	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)

		type mention struct {
			concept common.Concept
			idx     int
		}
		mentions := make([]mention, 0, 4)
		for _, c := range concepts {
			idx := strings.Index(lower, strings.ToLower(c.Title))
			if idx < 0 {
				continue
			}
			mentions = append(mentions, mention{concept: c, idx: idx})
		}
		sort.Slice(mentions, func(i, j int) bool {
			if mentions[i].idx != mentions[j].idx {
				return mentions[i].idx < mentions[j].idx
			}
			return mentions[i].concept.ID < mentions[j].concept.ID
		})

		for i := 0; i < len(mentions); i++ {
			for j := i + 1; j < len(mentions); j++ {
				src, tgt := mentions[i].concept, mentions[j].concept
				if src.ID == tgt.ID {
					continue
				}

				rel, err := e.inferencer.Infer(ctx, src, tgt, sentence)
				if err != nil || rel == nil {
					continue
				}

				k := pairKey{a: src.ID, b: tgt.ID}
				if k.a > k.b {
					k.a, k.b = k.b, k.a
				}
				if existing, ok := best[k]; !ok || rel.Confidence > existing.Confidence {
					best[k] = *rel
				}
			}
		}
	}

	rels := make([]common.Relationship, 0, len(best))
	for _, r := range best {
		rels = append(rels, r)
	}
	return rels
}

// linkRelationships turns a document's outgoing links into low-confidence
// RELATES_TO edges from the document's own concept.
func (e *Extractor) linkRelationships(titleID string, links []string, batch *conceptBatch) []common.Relationship {
	if titleID == "" || len(links) == 0 {
		return nil
	}

	if len(links) > maxLinkEdges {
		links = links[:maxLinkEdges]
	}

	rels := make([]common.Relationship, 0, len(links))
	for _, link := range links {
		link = NormalizeTitle(link)
		if link == "" {
			continue
		}
		c := batch.resolveOrCreate(link)
		if c.ID == titleID {
			continue
		}
		rels = append(rels, common.Relationship{
			SourceID:   titleID,
			TargetID:   c.ID,
			Type:       common.RelatesTo,
			Confidence: linkConfidence,
			Evidence:   "linked document",
		})
	}
	return rels
}

// conceptBatch accumulates the concepts touched by one document,
// resolving phrases against the stored graph snapshot first.
type conceptBatch struct {
	known []common.Concept
	byID  map[string]common.Concept
	now   time.Time
}

func newConceptBatch(known []common.Concept, now time.Time) *conceptBatch {
	return &conceptBatch{
		known: known,
		byID:  make(map[string]common.Concept),
		now:   now,
	}
}

// resolveOrCreate returns the batch concept for a phrase, matching the
// stored graph before minting a new concept.
func (b *conceptBatch) resolveOrCreate(phrase string) common.Concept {
	id := NormalizeID(phrase)
	if id == "" {
		return common.Concept{}
	}
	if c, ok := b.byID[id]; ok {
		return c
	}

	if existing, ok := ResolveConcept(phrase, b.known); ok {
		if c, cached := b.byID[existing.ID]; cached {
			return c
		}
		existing.LastUpdated = b.now
		b.byID[existing.ID] = existing
		return existing
	}

	c := common.Concept{
		ID:          id,
		Title:       NormalizeTitle(phrase),
		FirstSeen:   b.now,
		LastUpdated: b.now,
	}
	b.byID[id] = c
	return c
}

func (b *conceptBatch) put(c common.Concept) {
	if c.ID == "" {
		return
	}
	b.byID[c.ID] = c
}

// concepts returns the batch ordered by id.
func (b *conceptBatch) concepts() []common.Concept {
	out := make([]common.Concept, 0, len(b.byID))
	for _, c := range b.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
