package common

import "time"

// RelationType is the fixed vocabulary for typed edges between concepts.
// Trigger phrases found in source sentences are mapped onto these values;
// anything that cannot be classified more precisely becomes RelatesTo.
type RelationType string

const (
	RelatesTo  RelationType = "RELATES_TO"
	IsTypeOf   RelationType = "IS_TYPE_OF"
	Uses       RelationType = "USES"
	Causes     RelationType = "CAUSES"
	Influences RelationType = "INFLUENCES"
	PartOf     RelationType = "PART_OF"
	Implements RelationType = "IMPLEMENTS"
)

// RelationTypes lists every valid RelationType. Used to validate
// AI-suggested types before they enter the graph.
var RelationTypes = []RelationType{
	RelatesTo,
	IsTypeOf,
	Uses,
	Causes,
	Influences,
	PartOf,
	Implements,
}

// ValidRelationType reports whether t is part of the fixed vocabulary.
func ValidRelationType(t RelationType) bool {
	for _, known := range RelationTypes {
		if known == t {
			return true
		}
	}
	return false
}

// Concept is a node in the knowledge graph. The ID is the normalized,
// case-folded, whitespace-collapsed form of the title; two concepts never
// share an ID. The Title keeps the casing of the first phrase that
// produced the concept.
type Concept struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Categories  []string  `json:"categories,omitempty"`
	SourceURL   string    `json:"source_url,omitempty"`
	FirstSeen   time.Time `json:"first_seen"`
	LastUpdated time.Time `json:"last_updated"`
}

// Relationship is a directed, typed, confidence-scored edge between two
// concepts. Self-loops are never stored; duplicate (source, target, type)
// triples are merged keeping the higher confidence.
type Relationship struct {
	SourceID   string       `json:"source_id"`
	TargetID   string       `json:"target_id"`
	Type       RelationType `json:"relationship_type"`
	Confidence float64      `json:"confidence"`
	Evidence   string       `json:"evidence,omitempty"`
}

// Document is a single unit of input text. Documents are consumed once to
// produce concepts and relationships; they are never persisted as graph
// entities themselves.
type Document struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Text       string   `json:"text"`
	Summary    string   `json:"summary,omitempty"`
	SourceURL  string   `json:"source_url,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Links      []string `json:"links,omitempty"`
}

// Node is the wire shape of a concept in graph query responses.
type Node struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	URL        string   `json:"url,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Categories []string `json:"categories"`
}

// Edge is the wire shape of a relationship in graph query responses.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"relationship_type"`
}

// GraphData is the nodes/edges payload returned by full-graph, subgraph
// and shortest-path queries.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeFromConcept converts a stored concept into its wire shape.
func NodeFromConcept(c Concept) Node {
	categories := c.Categories
	if categories == nil {
		categories = []string{}
	}
	return Node{
		ID:         c.ID,
		Label:      c.Title,
		URL:        c.SourceURL,
		Summary:    c.Summary,
		Categories: categories,
	}
}

// EdgeFromRelationship converts a stored relationship into its wire shape.
func EdgeFromRelationship(r Relationship) Edge {
	return Edge{
		Source: r.SourceID,
		Target: r.TargetID,
		Type:   string(r.Type),
	}
}

// RejectedRelationship records a relationship that could not be applied
// during an upsert, together with the reason it was rejected.
type RejectedRelationship struct {
	Relationship Relationship `json:"relationship"`
	Reason       string       `json:"reason"`
}

// UpsertSummary reports what a single upsert batch changed. Re-applying
// the same batch yields zero added counts.
type UpsertSummary struct {
	AddedConcepts       int                    `json:"added_concepts"`
	MergedConcepts      int                    `json:"merged_concepts"`
	AddedRelationships  int                    `json:"added_relationships"`
	MergedRelationships int                    `json:"merged_relationships"`
	Rejected            []RejectedRelationship `json:"rejected,omitempty"`
}

// ProcessResult is returned by the extraction pipeline for one document.
type ProcessResult struct {
	ConceptsAdded      int `json:"concepts_added"`
	RelationshipsAdded int `json:"relationships_added"`
	ConceptCount       int `json:"concept_count"`
	RelationshipCount  int `json:"relationship_count"`
}

// ConceptDegree pairs a concept with its undirected degree.
type ConceptDegree struct {
	Concept string `json:"concept"`
	Degree  int    `json:"degree"`
}

// Stats summarizes the current graph.
type Stats struct {
	ConceptCount      int             `json:"concept_count"`
	RelationshipCount int             `json:"relationship_count"`
	RelationshipTypes map[string]int  `json:"relationship_types"`
	MostConnected     []ConceptDegree `json:"most_connected"`
}
