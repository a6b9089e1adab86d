package pgx

import (
	"context"
	"sync"

	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// GraphDBStorage implements the store.GraphStorage interface using
// PostgreSQL. Batches are applied in a single transaction; the mutex
// serializes writers so added/merged counts stay accurate under
// concurrent upserts.
type GraphDBStorage struct {
	conn   pgxIConn
	dbLock sync.Mutex
}

// NewGraphDBStorageWithConnection creates a new GraphDBStorage using an
// existing database connection or pool.
func NewGraphDBStorageWithConnection(conn pgxIConn) *GraphDBStorage {
	return &GraphDBStorage{
		conn: conn,
	}
}

// UpsertGraph applies a batch of concepts and relationships in one
// transaction. Concepts are merged by id, relationships by
// (source, target, type). Invalid relationships are collected in the
// summary instead of aborting the batch.
func (s *GraphDBStorage) UpsertGraph(
	ctx context.Context,
	concepts []common.Concept,
	relationships []common.Relationship,
) (*common.UpsertSummary, error) {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	summary := &common.UpsertSummary{}

	err = store.ChunkRange(len(concepts), 250, func(start, end int) error {
		for _, c := range concepts[start:end] {
			if c.ID == "" {
				continue
			}
			merged, err := s.upsertConcept(ctx, tx, c)
			if err != nil {
				return err
			}
			if merged {
				summary.MergedConcepts++
			} else {
				summary.AddedConcepts++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = store.ChunkRange(len(relationships), 500, func(start, end int) error {
		for _, r := range relationships[start:end] {
			if r.SourceID == r.TargetID {
				summary.Rejected = append(summary.Rejected, common.RejectedRelationship{
					Relationship: r,
					Reason:       "self loop",
				})
				continue
			}

			srcOK, err := s.conceptExists(ctx, tx, r.SourceID)
			if err != nil {
				return err
			}
			if !srcOK {
				summary.Rejected = append(summary.Rejected, common.RejectedRelationship{
					Relationship: r,
					Reason:       "unknown source concept",
				})
				continue
			}
			tgtOK, err := s.conceptExists(ctx, tx, r.TargetID)
			if err != nil {
				return err
			}
			if !tgtOK {
				summary.Rejected = append(summary.Rejected, common.RejectedRelationship{
					Relationship: r,
					Reason:       "unknown target concept",
				})
				continue
			}

			merged, err := s.upsertRelationship(ctx, tx, r)
			if err != nil {
				return err
			}
			if merged {
				summary.MergedRelationships++
			} else {
				summary.AddedRelationships++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return summary, nil
}

func (s *GraphDBStorage) CountConcepts(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM concepts`).Scan(&count)
	return count, err
}

func (s *GraphDBStorage) CountRelationships(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM relationships`).Scan(&count)
	return count, err
}

// Clear removes every concept and relationship.
func (s *GraphDBStorage) Clear(ctx context.Context) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	_, err := s.conn.Exec(ctx, `TRUNCATE relationships, concepts`)
	return err
}
