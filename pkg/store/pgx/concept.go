package pgx

import (
	"context"
	"errors"

	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
)

const conceptColumns = `id, title, summary, categories, source_url, first_seen, last_updated`

func scanConcept(row pgxv5.Row) (common.Concept, error) {
	var c common.Concept
	err := row.Scan(&c.ID, &c.Title, &c.Summary, &c.Categories, &c.SourceURL, &c.FirstSeen, &c.LastUpdated)
	return c, err
}

func (s *GraphDBStorage) conceptExists(ctx context.Context, tx pgxv5.Tx, id string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM concepts WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// upsertConcept inserts or merges a single concept inside the given
// transaction. It returns true when an existing row was merged.
func (s *GraphDBStorage) upsertConcept(ctx context.Context, tx pgxv5.Tx, c common.Concept) (bool, error) {
	existing, err := scanConcept(tx.QueryRow(ctx,
		`SELECT `+conceptColumns+` FROM concepts WHERE id = $1`, c.ID))
	if err != nil {
		if !errors.Is(err, pgxv5.ErrNoRows) {
			return false, err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO concepts (id, title, summary, categories, source_url, first_seen, last_updated)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.ID, c.Title, c.Summary, c.Categories, c.SourceURL, c.FirstSeen, c.LastUpdated)
		return false, err
	}

	merged := store.MergeConcept(existing, c)
	_, err = tx.Exec(ctx,
		`UPDATE concepts
		 SET title = $2, summary = $3, categories = $4, source_url = $5, first_seen = $6, last_updated = $7
		 WHERE id = $1`,
		merged.ID, merged.Title, merged.Summary, merged.Categories, merged.SourceURL, merged.FirstSeen, merged.LastUpdated)
	return true, err
}

// GetConcept returns the concept with the given id.
func (s *GraphDBStorage) GetConcept(ctx context.Context, id string) (*common.Concept, error) {
	c, err := scanConcept(s.conn.QueryRow(ctx,
		`SELECT `+conceptColumns+` FROM concepts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// SearchConcepts returns every concept whose title or summary contains
// the query, case-insensitively, ordered by id.
func (s *GraphDBStorage) SearchConcepts(ctx context.Context, query string) ([]common.Concept, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT `+conceptColumns+` FROM concepts
		 WHERE title ILIKE '%' || $1 || '%' OR summary ILIKE '%' || $1 || '%'
		 ORDER BY id`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectConcepts(rows)
}

// ListConcepts returns all concepts ordered by id.
func (s *GraphDBStorage) ListConcepts(ctx context.Context) ([]common.Concept, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT `+conceptColumns+` FROM concepts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectConcepts(rows)
}

func collectConcepts(rows pgxv5.Rows) ([]common.Concept, error) {
	concepts := make([]common.Concept, 0)
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, err
		}
		concepts = append(concepts, c)
	}
	return concepts, rows.Err()
}
