package extract

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/vats98754/auto-kg/backend/pkg/common"
)

// BaselineConfidence is assigned to plain co-occurrence with no trigger
// phrase between the concepts.
const BaselineConfidence = 0.3

const maxEvidenceLen = 240

// Inferencer classifies the relationship between two concepts that
// co-occur in a sentence. A nil result means no relationship.
type Inferencer interface {
	Infer(ctx context.Context, source common.Concept, target common.Concept, sentence string) (*common.Relationship, error)
}

type trigger struct {
	phrase     string
	relType    common.RelationType
	confidence float64
	reversed   bool
}

// Ordered most-specific first; the first trigger found between the two
// concept mentions wins.
var triggers = []trigger{
	{phrase: "is a type of", relType: common.IsTypeOf, confidence: 0.9},
	{phrase: "is a kind of", relType: common.IsTypeOf, confidence: 0.9},
	{phrase: "is a form of", relType: common.IsTypeOf, confidence: 0.85},
	{phrase: "is a branch of", relType: common.PartOf, confidence: 0.85},
	{phrase: "is a component of", relType: common.PartOf, confidence: 0.85},
	{phrase: "is part of", relType: common.PartOf, confidence: 0.85},
	{phrase: "belongs to", relType: common.PartOf, confidence: 0.75},
	{phrase: "consists of", relType: common.PartOf, confidence: 0.8, reversed: true},
	{phrase: "comprises", relType: common.PartOf, confidence: 0.8, reversed: true},
	{phrase: "gives rise to", relType: common.Causes, confidence: 0.8},
	{phrase: "leads to", relType: common.Causes, confidence: 0.8},
	{phrase: "results in", relType: common.Causes, confidence: 0.8},
	{phrase: "causes", relType: common.Causes, confidence: 0.85},
	{phrase: "produces", relType: common.Causes, confidence: 0.7},
	{phrase: "is used by", relType: common.Uses, confidence: 0.8, reversed: true},
	{phrase: "relies on", relType: common.Uses, confidence: 0.85},
	{phrase: "depends on", relType: common.Uses, confidence: 0.8},
	{phrase: "is based on", relType: common.Uses, confidence: 0.75},
	{phrase: "builds on", relType: common.Uses, confidence: 0.75},
	{phrase: "leverages", relType: common.Uses, confidence: 0.75},
	{phrase: "employs", relType: common.Uses, confidence: 0.75},
	{phrase: "utilizes", relType: common.Uses, confidence: 0.75},
	{phrase: "uses", relType: common.Uses, confidence: 0.8},
	{phrase: "influences", relType: common.Influences, confidence: 0.8},
	{phrase: "affects", relType: common.Influences, confidence: 0.75},
	{phrase: "impacts", relType: common.Influences, confidence: 0.7},
	{phrase: "implements", relType: common.Implements, confidence: 0.8},
	{phrase: "realizes", relType: common.Implements, confidence: 0.7},
	{phrase: "performs", relType: common.Implements, confidence: 0.65},
	{phrase: "is a", relType: common.IsTypeOf, confidence: 0.7},
	{phrase: "is an", relType: common.IsTypeOf, confidence: 0.7},
}

// RuleBasedInferencer maps trigger phrases between two concept mentions
// to typed relationships. It is fully local and never fails, which makes
// it the guaranteed fallback for the model-backed variant.
type RuleBasedInferencer struct{}

// NewRuleBasedInferencer creates the dictionary-driven inferencer.
func NewRuleBasedInferencer() *RuleBasedInferencer {
	return &RuleBasedInferencer{}
}

// Infer locates a trigger phrase between the two concept mentions and
// maps it to a relationship. Without a trigger, the pair still gets a
// generic RELATES_TO edge at the co-occurrence baseline. The sentence
// must mention both concepts; otherwise no relationship is produced.
func (r *RuleBasedInferencer) Infer(
	ctx context.Context,
	source common.Concept,
	target common.Concept,
	sentence string,
) (*common.Relationship, error) {
	// indices and lengths are both taken from the lowered strings,
	// since lowering can change byte lengths outside ASCII
	lower := strings.ToLower(sentence)
	srcLower := strings.ToLower(source.Title)
	tgtLower := strings.ToLower(target.Title)
	srcIdx := strings.Index(lower, srcLower)
	tgtIdx := strings.Index(lower, tgtLower)
	if srcIdx < 0 || tgtIdx < 0 {
		return nil, nil
	}

	// the span of text between the two mentions
	start, end := srcIdx+len(srcLower), tgtIdx
	if tgtIdx < srcIdx {
		start, end = tgtIdx+len(tgtLower), srcIdx
	}
	if start > end {
		start, end = end, start
	}
	between := lower[start:end]

	rel := common.Relationship{
		SourceID:   source.ID,
		TargetID:   target.ID,
		Type:       common.RelatesTo,
		Confidence: BaselineConfidence,
		Evidence:   truncateEvidence(sentence),
	}

	for _, t := range triggers {
		if !containsPhrase(between, t.phrase) {
			continue
		}
		rel.Type = t.relType
		rel.Confidence = t.confidence * proximityFactor(between)

		// triggers read left to right; when the target is mentioned
		// first, the stated direction runs target to source
		flip := t.reversed
		if tgtIdx < srcIdx {
			flip = !flip
		}
		if flip {
			rel.SourceID, rel.TargetID = rel.TargetID, rel.SourceID
		}
		break
	}

	return &rel, nil
}

// proximityFactor discounts confidence as the concepts drift apart in
// the sentence.
func proximityFactor(between string) float64 {
	words := len(strings.Fields(between))
	switch {
	case words <= 3:
		return 1.0
	case words <= 10:
		return 0.85
	default:
		return 0.7
	}
}

func containsPhrase(haystack string, phrase string) bool {
	idx := strings.Index(haystack, phrase)
	if idx < 0 {
		return false
	}
	// require word boundaries around the match
	if idx > 0 {
		if r := haystack[idx-1]; isWordByte(r) {
			return false
		}
	}
	end := idx + len(phrase)
	if end < len(haystack) && isWordByte(haystack[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func truncateEvidence(sentence string) string {
	s := strings.TrimSpace(sentence)
	if len(s) <= maxEvidenceLen {
		return s
	}
	cut := maxEvidenceLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
