package pgx

import (
	"context"
	"errors"

	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
)

const relationshipColumns = `source_id, target_id, rel_type, confidence, evidence`

func scanRelationship(row pgxv5.Row) (common.Relationship, error) {
	var r common.Relationship
	err := row.Scan(&r.SourceID, &r.TargetID, &r.Type, &r.Confidence, &r.Evidence)
	return r, err
}

// upsertRelationship inserts or merges a single relationship inside the
// given transaction. It returns true when an existing row was merged.
func (s *GraphDBStorage) upsertRelationship(ctx context.Context, tx pgxv5.Tx, r common.Relationship) (bool, error) {
	existing, err := scanRelationship(tx.QueryRow(ctx,
		`SELECT `+relationshipColumns+` FROM relationships
		 WHERE source_id = $1 AND target_id = $2 AND rel_type = $3`,
		r.SourceID, r.TargetID, r.Type))
	if err != nil {
		if !errors.Is(err, pgxv5.ErrNoRows) {
			return false, err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO relationships (source_id, target_id, rel_type, confidence, evidence)
			 VALUES ($1, $2, $3, $4, $5)`,
			r.SourceID, r.TargetID, r.Type, r.Confidence, r.Evidence)
		return false, err
	}

	merged := store.MergeRelationship(existing, r)
	_, err = tx.Exec(ctx,
		`UPDATE relationships
		 SET confidence = $4, evidence = $5
		 WHERE source_id = $1 AND target_id = $2 AND rel_type = $3`,
		merged.SourceID, merged.TargetID, merged.Type, merged.Confidence, merged.Evidence)
	return true, err
}

// Neighbors returns all relationships that touch any of the given ids.
func (s *GraphDBStorage) Neighbors(ctx context.Context, ids []string) ([]common.Relationship, error) {
	if len(ids) == 0 {
		return []common.Relationship{}, nil
	}

	rows, err := s.conn.Query(ctx,
		`SELECT `+relationshipColumns+` FROM relationships
		 WHERE source_id = ANY($1) OR target_id = ANY($1)
		 ORDER BY source_id, target_id, rel_type`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRelationships(rows)
}

// ListRelationships returns all relationships ordered by endpoints and type.
func (s *GraphDBStorage) ListRelationships(ctx context.Context) ([]common.Relationship, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT `+relationshipColumns+` FROM relationships
		 ORDER BY source_id, target_id, rel_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRelationships(rows)
}

func collectRelationships(rows pgxv5.Rows) ([]common.Relationship, error) {
	rels := make([]common.Relationship, 0)
	for rows.Next() {
		r, err := scanRelationship(rows)
		if err != nil {
			return nil, err
		}
		rels = append(rels, r)
	}
	return rels, rows.Err()
}
