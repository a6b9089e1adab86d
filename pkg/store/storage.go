package store

import (
	"context"

	"github.com/vats98754/auto-kg/backend/pkg/common"
)

// GraphStorage defines the interface for persisting and querying the
// knowledge graph. Implementations must make UpsertGraph idempotent:
// applying the same batch twice yields the same graph state, with the
// second application reported entirely as merges.
type GraphStorage interface {
	// UpsertGraph applies a batch of concepts and relationships
	// atomically. Existing concepts are merged by id, existing
	// relationships by (source, target, type). Relationships with
	// identical endpoints or endpoints unknown to both the batch and
	// the store are rejected, not failed.
	UpsertGraph(
		ctx context.Context,
		concepts []common.Concept,
		relationships []common.Relationship,
	) (*common.UpsertSummary, error)

	// GetConcept returns the concept with the given id, or
	// common.ErrNotFound.
	GetConcept(ctx context.Context, id string) (*common.Concept, error)

	// SearchConcepts returns every concept whose title or summary
	// contains the query, case-insensitively. Ranking is left to the
	// caller.
	SearchConcepts(ctx context.Context, query string) ([]common.Concept, error)

	// Neighbors returns all relationships that touch any of the given
	// concept ids.
	Neighbors(ctx context.Context, ids []string) ([]common.Relationship, error)

	// ListConcepts returns all concepts ordered by id.
	ListConcepts(ctx context.Context) ([]common.Concept, error)

	// ListRelationships returns all relationships ordered by
	// (source, target, type).
	ListRelationships(ctx context.Context) ([]common.Relationship, error)

	CountConcepts(ctx context.Context) (int, error)
	CountRelationships(ctx context.Context) (int, error)

	// Clear removes every concept and relationship.
	Clear(ctx context.Context) error
}
